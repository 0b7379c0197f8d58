// Package runner executes build and test commands and captures their
// combined output for the format detectors. Output is captured into a
// bounded ring buffer so runaway tools cannot exhaust memory; the detectors
// only need the tail of the stream anyway.
package runner

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/spyglassdev/spyglass/internal/capture"
	spyerrors "github.com/spyglassdev/spyglass/internal/errors"
	"github.com/spyglassdev/spyglass/internal/logging"
)

// DefaultBufferSize is the output ring buffer capacity in bytes.
const DefaultBufferSize = 1 << 20 // 1MB

// Result is the completed output of one tool run, delivered once after
// process termination. Format detectors consume Output as a single blob.
type Result struct {
	// ID is a unique identifier for this run.
	ID string

	// Command is the command line that was executed.
	Command []string

	StartedAt time.Time
	Duration  time.Duration

	// ExitCode is the process exit code, or -1 when the process could not
	// be started at all.
	ExitCode int

	// Output is the combined stdout+stderr text. When the launch itself
	// failed, Output carries the launch error text instead, so downstream
	// consumers see a normal (failed) run rather than a crash.
	Output string

	// LaunchFailed is true when the process never started.
	LaunchFailed bool
}

// Config controls how commands are run.
type Config struct {
	// BufferSize is the output ring buffer capacity in bytes.
	// Zero means DefaultBufferSize.
	BufferSize int

	// UsePTY runs the command on a pseudo-terminal so tools that format
	// output differently for terminals (progress lines, per-case marks)
	// emit their interactive form.
	UsePTY bool

	// Dir is the working directory. Empty means the caller's.
	Dir string

	// Env is the environment. Nil means the caller's.
	Env []string
}

// Runner executes commands. The zero value is usable.
type Runner struct {
	config Config
	logger *logging.Logger
}

// New creates a Runner with the given configuration.
func New(config Config) *Runner {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultBufferSize
	}
	return &Runner{config: config, logger: logging.NopLogger()}
}

// SetLogger sets the logger for run lifecycle logs.
func (r *Runner) SetLogger(logger *logging.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Run executes name with args and blocks until it exits, returning the
// captured combined output and exit status. A process that fails to even
// start yields a synthetic failed Result carrying the launch error text;
// Run itself never returns an error for that case.
func (r *Runner) Run(ctx context.Context, name string, args ...string) Result {
	result := Result{
		ID:        uuid.NewString(),
		Command:   append([]string{name}, args...),
		StartedAt: time.Now(),
	}
	logger := r.logger.WithRun(result.ID)
	logger.Info("starting run", "command", strings.Join(result.Command, " "))

	bufSize := r.config.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	buf := capture.NewRingBuffer(bufSize)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.config.Dir
	cmd.Env = r.config.Env

	var waitErr error
	if r.config.UsePTY {
		waitErr = r.runPTY(cmd, buf, &result)
	} else {
		cmd.Stdout = buf
		cmd.Stderr = buf
		if err := cmd.Start(); err != nil {
			return launchFailure(result, logger, err)
		}
		waitErr = cmd.Wait()
	}
	if result.LaunchFailed {
		return result
	}

	result.Duration = time.Since(result.StartedAt)
	result.Output = buf.String()
	result.ExitCode = exitCode(waitErr)

	logger.Info("run finished",
		"exit_code", result.ExitCode,
		"duration_ms", result.Duration.Milliseconds(),
		"output_bytes", len(result.Output))
	return result
}

// runPTY starts cmd on a pseudo-terminal and drains it into buf.
// Sets up result as a launch failure when the pty cannot be started.
func (r *Runner) runPTY(cmd *exec.Cmd, buf *capture.RingBuffer, result *Result) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		*result = launchFailure(*result, r.logger.WithRun(result.ID), err)
		return nil
	}
	defer ptmx.Close()

	// The pty read side returns an error once the child exits; that is the
	// normal EOF signal, not a capture failure.
	_, _ = io.Copy(buf, ptmx)
	return cmd.Wait()
}

// launchFailure fills in the synthetic failed result for a process that
// never started. Output carries the wrapped launch error text.
func launchFailure(result Result, logger *logging.Logger, err error) Result {
	runErr := spyerrors.NewRunnerError(strings.Join(result.Command, " "), err)
	result.Duration = time.Since(result.StartedAt)
	result.ExitCode = -1
	result.Output = runErr.Error()
	result.LaunchFailed = true
	logger.Warn("run failed to launch", "error", runErr.Error())
	return result
}

// exitCode maps cmd.Wait's error to a process exit code.
func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Package tmux wraps the tmux commands spyglass needs: capturing a pane's
// rendered content and enumerating panes so users can pick a target. All
// operations go through the user's default tmux server.
package tmux

import (
	"context"
	"os/exec"
	"strings"
	"time"

	spyerrors "github.com/spyglassdev/spyglass/internal/errors"
)

// commandTimeout bounds every tmux invocation; a hung tmux server must not
// stall the capture loop.
const commandTimeout = 2 * time.Second

// Pane identifies one tmux pane and what is running in it.
type Pane struct {
	// Target is the "session:window.pane" spec accepted by -t.
	Target string
	// Command is the name of the process running in the pane.
	Command string
	// Active reports whether this is the active pane of its window.
	Active bool
}

// Command creates an exec.Cmd for a tmux invocation.
func Command(args ...string) *exec.Cmd {
	return exec.Command("tmux", args...)
}

// CommandContext creates a context-aware exec.Cmd for a tmux invocation.
func CommandContext(ctx context.Context, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, "tmux", args...)
}

// CapturePane returns the rendered visible content of the target pane, one
// row per line, with escape sequences already resolved by tmux. A failure
// against a target that no longer exists wraps ErrGridDetached; other
// failures are transient and wrapped retryable.
func CapturePane(target string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := CommandContext(ctx, "capture-pane", "-t", target, "-p").Output()
	if err != nil {
		if !TargetExists(target) {
			return "", spyerrors.NewWatchError(target, spyerrors.ErrGridDetached)
		}
		return "", spyerrors.NewWatchError(target, err)
	}
	return string(out), nil
}

// TargetExists reports whether the target resolves to a live pane.
func TargetExists(target string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return CommandContext(ctx, "has-session", "-t", target).Run() == nil
}

// paneFormat is the list-panes format string parsed by parsePaneList.
const paneFormat = "#{session_name}:#{window_index}.#{pane_index}\t#{pane_current_command}\t#{?pane_active,1,0}"

// ListPanes enumerates every pane on the server, across all sessions.
func ListPanes() ([]Pane, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := CommandContext(ctx, "list-panes", "-a", "-F", paneFormat).Output()
	if err != nil {
		return nil, err
	}
	return parsePaneList(string(out)), nil
}

// parsePaneList parses list-panes output in paneFormat, one pane per line.
// Malformed lines are skipped.
func parsePaneList(out string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != 3 || fields[0] == "" {
			continue
		}
		panes = append(panes, Pane{
			Target:  fields[0],
			Command: fields[1],
			Active:  fields[2] == "1",
		})
	}
	return panes
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spyglassdev/spyglass/internal/config"
	"github.com/spyglassdev/spyglass/internal/parse/diag"
	"github.com/spyglassdev/spyglass/internal/parse/testresult"
	"github.com/spyglassdev/spyglass/internal/runner"
	"github.com/spyglassdev/spyglass/internal/session"
)

var (
	runUsePTY bool
	runSave   bool
)

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a build/test command and parse its output",
	Long: `Run executes the given command, captures its combined stdout and
stderr, and parses the captured output once the process exits. The command's
exit code does not fail spyglass; a non-zero exit is part of the result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		r := runner.New(runner.Config{
			BufferSize: cfg.Runner.OutputBufferSize,
			UsePTY:     runUsePTY || cfg.Runner.UsePTY,
		})
		r.SetLogger(logger)

		result := r.Run(cmd.Context(), args[0], args[1:]...)
		if result.LaunchFailed {
			fmt.Fprintln(cmd.OutOrStdout(), failStyle.Render("launch failed: "+result.Output))
			return nil
		}

		diags := diag.Parse(result.Output)
		tests := testresult.Parse(result.Output)

		printDiagnostics(cmd.OutOrStdout(), diags)
		printTestResults(cmd.OutOrStdout(), tests)
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf(
			"exit %d in %s", result.ExitCode, result.Duration.Round(time.Millisecond))))

		if runSave {
			store, err := runStore()
			if err != nil {
				return err
			}
			snap := session.Snapshot{
				RunID:       result.ID,
				FinishedAt:  result.StartedAt.Add(result.Duration),
				ExitCode:    result.ExitCode,
				Diagnostics: diags,
				Tests:       tests,
			}
			if err := store.Save(snap); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("saved run "+result.ID))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runUsePTY, "pty", false, "run the command on a pseudo-terminal")
	runCmd.Flags().BoolVar(&runSave, "save", false, "persist the parsed result to the run store")
	rootCmd.AddCommand(runCmd)
}

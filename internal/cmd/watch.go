package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spyglassdev/spyglass/internal/config"
	"github.com/spyglassdev/spyglass/internal/logwatch"
	"github.com/spyglassdev/spyglass/internal/parse/diag"
	"github.com/spyglassdev/spyglass/internal/parse/testresult"
	"github.com/spyglassdev/spyglass/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Follow a build log file and re-parse it as it grows",
	Long: `Watch follows a log file that a build or test tool appends to, and
re-runs the format detectors every time the file grows. Each re-parse
replaces the retained latest results wholesale.`,
	Args: cobra.ExactArgs(1),
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

		latest := &session.Latest{}
		out := cmd.OutOrStdout()

		w := logwatch.New(args[0], func(diags []diag.Diagnostic, tests testresult.RunResult) {
			latest.Set(session.Snapshot{
				FinishedAt:  time.Now(),
				Diagnostics: diags,
				Tests:       tests,
			})
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("— %s —", time.Now().Format("15:04:05"))))
			printDiagnostics(out, diags)
			printTestResults(out, tests)
		})
		w.SetLogger(logger)

		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		fmt.Fprintln(out, dimStyle.Render("watching "+args[0]+" (ctrl+c to stop)"))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
		case <-cmd.Context().Done():
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

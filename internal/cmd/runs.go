package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spyglassdev/spyglass/internal/config"
	"github.com/spyglassdev/spyglass/internal/session"
)

// runStore opens the on-disk run store under the spyglass config directory.
func runStore() (*session.Store, error) {
	return session.NewStore(filepath.Join(config.ConfigDir(), "runs"))
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved run results",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := runStore()
		if err != nil {
			return err
		}
		snaps, err := store.List()
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no saved runs"))
			return nil
		}
		for _, snap := range snaps {
			status := passStyle.Render("ok")
			if snap.ExitCode != 0 {
				status = failStyle.Render(fmt.Sprintf("exit %d", snap.ExitCode))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %d diagnostics, %d failed tests\n",
				snap.RunID,
				snap.FinishedAt.Format("2006-01-02 15:04:05"),
				status,
				len(snap.Diagnostics),
				len(snap.Tests.FailedNames))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a saved run's diagnostics and test results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := runStore()
		if err != nil {
			return err
		}
		snap, err := store.Load(args[0])
		if err != nil {
			return err
		}
		printDiagnostics(cmd.OutOrStdout(), snap.Diagnostics)
		printTestResults(cmd.OutOrStdout(), snap.Tests)
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf(
			"exit %d at %s", snap.ExitCode, snap.FinishedAt.Format("2006-01-02 15:04:05"))))
		return nil
	},
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := runStore()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}

func init() {
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRmCmd)
	rootCmd.AddCommand(runsCmd)
}

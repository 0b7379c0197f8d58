package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spyglassdev/spyglass/internal/config"
	"github.com/spyglassdev/spyglass/internal/term"
	"github.com/spyglassdev/spyglass/internal/tmux"
	"github.com/spyglassdev/spyglass/internal/tui"
	"github.com/spyglassdev/spyglass/internal/watch"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor [tmux-target]",
	Short: "Watch a live tmux session for agent state and activity",
	Long: `Monitor attaches the terminal watchers to a tmux pane and shows the
derived session state live: whether the agent is blocked waiting for input,
its reported mode and model, prompt visibility, and a feed of detected
activity (file reads, commands, status lines).

Without a target, monitor lists the available panes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listPanes(cmd)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		target := args[0]
		if !tmux.TargetExists(target) {
			return fmt.Errorf("tmux target %q not found", target)
		}
		grid := term.NewTmuxGrid(target)
		grid.SetCaptureInterval(cfg.CaptureInterval())

		program := tea.NewProgram(tui.NewModel(target), tea.WithAltScreen())

		inputWait := watch.NewInputWaitWatcher(grid, func(waiting bool) {
			program.Send(tui.WaitingMsg(waiting))
		})
		inputWait.SetLogger(logger)

		modeModel := watch.NewModeModelWatcher(grid,
			func(mode watch.AgentMode) { program.Send(tui.ModeMsg(mode)) },
			func(model string) { program.Send(tui.ModelMsg(model)) },
		)
		modeModel.SetLogger(logger)

		promptVis := watch.NewPromptVisibilityWatcher(grid, func(visible bool) {
			program.Send(tui.PromptMsg(visible))
		})
		promptVis.SetInterval(cfg.PollInterval())
		promptVis.SetLogger(logger)

		activity := watch.NewActivityEventWatcher(grid, func(ev watch.Event) {
			program.Send(tui.ActivityMsg(ev))
		})
		activity.SetInterval(cfg.PollInterval())
		activity.SetLogger(logger)

		// The grid's capture loop drives the range-triggered watchers.
		grid.OnRangeChanged(func(start, end int) {
			inputWait.RangeChanged(start, end)
			modeModel.RangeChanged(start, end)
		})
		grid.OnDetached(func(err error) {
			logger.Warn("session detached", "target", target, "error", err.Error())
			program.Send(tui.DetachedMsg{})
		})

		grid.Start()
		promptVis.Start()
		activity.Start()
		defer func() {
			inputWait.Stop()
			modeModel.Stop()
			promptVis.Stop()
			activity.Stop()
			grid.Stop()
		}()

		if _, err := program.Run(); err != nil {
			return fmt.Errorf("monitor: %w", err)
		}
		return nil
	},
}

// listPanes prints every pane on the tmux server so the user can pick a
// monitor target.
func listPanes(cmd *cobra.Command) error {
	panes, err := tmux.ListPanes()
	if err != nil {
		return fmt.Errorf("list panes (is tmux running?): %w", err)
	}
	for _, pane := range panes {
		marker := " "
		if pane.Active {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-20s %s\n", marker, pane.Target, pane.Command)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spyglassdev/spyglass/internal/parse/diag"
	"github.com/spyglassdev/spyglass/internal/parse/testresult"
)

var (
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract diagnostics and test results from captured output",
	Long: `Parse reads captured build/test output from a file (or stdin when no
file is given), runs the format detectors over it, and prints the structured
results. Output with no recognizable format produces empty results, not an
error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		text := string(data)
		printDiagnostics(cmd.OutOrStdout(), diag.Parse(text))
		printTestResults(cmd.OutOrStdout(), testresult.Parse(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func printDiagnostics(w io.Writer, diags []diag.Diagnostic) {
	if len(diags) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no diagnostics"))
		return
	}

	for _, d := range diags {
		loc := fmt.Sprintf("%s:%d", d.FilePath, d.Line)
		if d.Column > 0 {
			loc = fmt.Sprintf("%s:%d", loc, d.Column)
		}
		fmt.Fprintf(w, "%s %s %s\n", severityStyle(d.Severity).Render(d.Severity.String()), loc, d.Message)
	}
	fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("%d diagnostics", len(diags))))
}

func severityStyle(s diag.Severity) lipgloss.Style {
	switch s {
	case diag.SeverityWarning:
		return warnStyle
	case diag.SeverityNote:
		return noteStyle
	default:
		return errStyle
	}
}

func printTestResults(w io.Writer, r testresult.RunResult) {
	if len(r.Cases) == 0 && r.TotalPassed == 0 && len(r.FailedNames) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no test results"))
		return
	}

	for _, tc := range r.Cases {
		mark := passStyle.Render("✓")
		if !tc.Passed {
			mark = failStyle.Render("✗")
		}
		line := fmt.Sprintf("%s %s", mark, tc.Name)
		if tc.Duration != nil {
			line += dimStyle.Render(fmt.Sprintf(" (%.2fs)", *tc.Duration))
		}
		fmt.Fprintln(w, line)
		if tc.FailureMessage != "" {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(tc.FailureMessage))
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed", r.TotalPassed, len(r.FailedNames))
	if len(r.FailedNames) > 0 {
		fmt.Fprintln(w, failStyle.Render(summary))
	} else {
		fmt.Fprintln(w, passStyle.Render(summary))
	}
}

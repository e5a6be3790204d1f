package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/aigrid/internal/config"
	"github.com/thoreinstein/aigrid/internal/doctor"
	"github.com/thoreinstein/aigrid/internal/errors"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable permission problems")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the aigrid configuration.

Checks the configuration directory, the JSON syntax and schema of
settings.json and ai_apps.json, the tool configuration and file
permissions.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Run all checks
  aigrid doctor

  # Repair permissions
  aigrid doctor --fix

See Also: aigrid validate`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorQuiet, doctorVerbose} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	dir := s.Dir()
	settingsPath, appsPath := s.Paths()

	permCheck := doctor.NewPermissionCheck(dir, settingsPath, appsPath)

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewDirectoryCheck(dir))
	runner.AddCheck(doctor.NewFileSyntaxCheck(settingsPath, appsPath))
	runner.AddCheck(doctor.NewSchemaCheck(dir))
	runner.AddCheck(doctor.NewToolConfigCheck(config.FileUsed()))
	runner.AddCheck(permCheck)

	report := runner.Run()

	if doctorFix && permCheck.CanFix() {
		fixes := permCheck.Fix()
		if !doctorQuiet && !doctorJSON {
			printFixes(cmd.OutOrStdout(), fixes)
		}
		// Re-run so the report reflects the repaired state.
		report = runner.Run()
	}

	if err := outputDoctorReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(nil, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding JSON")
	}
	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func printFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), f.Path, f.Description)
			continue
		}
		fmt.Fprintf(w, "%s could not fix %s: %v\n", color.RedString("✗"), f.Path, f.Error)
	}
	fmt.Fprintln(w)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}

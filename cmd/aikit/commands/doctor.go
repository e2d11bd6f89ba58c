package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/keboola/ai-kit/cmd/aikit/commands/flags"
	"github.com/keboola/ai-kit/internal/doctor"
	"github.com/keboola/ai-kit/internal/errors"
	"github.com/keboola/ai-kit/internal/logging"
	"github.com/keboola/ai-kit/internal/marketplace"
)

var doctorJSON bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose marketplace issues",
	Long: `Run health checks over the marketplace repository: the marketplace
manifest, every plugin.json, component frontmatter, settings templates and
version consistency across JSON files.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Check the marketplace in the working directory
  aikit doctor

  # Show every check
  aikit doctor -v

  See Also: aikit plugin validate, aikit bump`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctor(cmd.Context(), cmd.OutOrStdout())
	},
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	if doctorJSON && (quiet || verbosity > 0) {
		return errors.NewUserError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(ctx context.Context, w io.Writer) error {
	root, err := flags.MarketplaceRoot()
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	mp, err := marketplace.NewLoader(logger).Load(ctx, root)
	if err != nil {
		// The manifest check reports the same problem with a hint.
		logger.Debug("marketplace did not load", "root", root, "error", err)
		mp = nil
	}

	runner := doctor.NewRunner()
	for _, c := range doctor.Standard(root, mp, flags.Config().Bump.Exclude) {
		runner.AddCheck(c)
	}
	report := runner.Run()

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	switch {
	case errors.Is(report.Err(), doctor.ErrErrors):
		return errors.NewExitError(nil, errors.ExitSystem)
	case errors.Is(report.Err(), doctor.ErrWarnings):
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	switch {
	case quiet:
		return nil
	case doctorJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	}
	outputDoctorText(w, report, verbosity > 0)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		for _, d := range detailLines(result) {
			fmt.Fprintf(w, "    %s\n", d)
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

// detailLines collects the per-file lines checks attach to their details.
func detailLines(result *doctor.CheckResult) []string {
	var lines []string
	for _, key := range []string{"problems", "issues", "unparsed"} {
		if v, ok := result.Details[key].([]string); ok {
			lines = append(lines, v...)
		}
	}
	return lines
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

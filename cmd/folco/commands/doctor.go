package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/folco/internal/app"
	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/doctor"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/platform"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and icon source issues",
	Long: `Run diagnostic checks on the folco configuration and the icon sources.

Validates the configuration file, probes every icon source, builds the icon
state once and round-trips get_folder_icon_base, and inspects the telemetry
endpoint.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}

	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	runner := newDoctorRunner(loadedConfig, configLoadErr, existingConfigPath(), commandLogger(cmd))
	return runDoctorWithWriter(cmd.OutOrStdout(), runner)
}

// runDoctorWithWriter runs the checks, prints the report and maps the
// outcome to an exit status.
func runDoctorWithWriter(w io.Writer, runner *doctor.Runner) error {
	report := runner.Run()

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errDoctorErrors
	}
	if report.HasWarnings() {
		return errDoctorWarnings
	}
	return nil
}

// newDoctorRunner registers the checks for cfg. When the configuration
// failed to load, the remaining checks run against the defaults so the
// icon sources are still probed.
func newDoctorRunner(cfg *config.Config, loadErr error, path string, logger *slog.Logger) *doctor.Runner {
	runner := doctor.NewRunner()

	configCheck := doctor.NewConfigCheck(cfg, path)
	if loadErr != nil {
		configCheck.WithLoadError(loadErr)
	}
	runner.AddCheck(configCheck)

	if cfg == nil {
		cfg = config.Default()
	}

	builder, registry := app.NewBuilder(cfg, logger)
	runner.AddCheck(doctor.NewSourceCheck(registry, cfg.Icon.Sources, cfg.Icon.Fallback, platform.LoadOptions{
		Sizes:  cfg.Icon.Sizes,
		Logger: logger,
	}))

	// An invalid compression is already reported by the config check; the
	// round trip then uses the default encoder.
	opts, err := app.StateOptions(cfg, logger)
	if err != nil {
		opts = nil
	}
	runner.AddCheck(doctor.NewGuardCheck(builder, opts...))

	runner.AddCheck(doctor.NewTelemetryCheck(cfg.Telemetry.Endpoint, cfg.Telemetry.Headers))
	return runner
}

// existingConfigPath returns the config file in use, or "" when folco is
// running on defaults.
func existingConfigPath() string {
	path := configFile
	if path == "" {
		path = config.Path()
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		return outputDoctorJSON(w, report)
	}

	return outputDoctorText(w, report)
}

func outputDoctorJSON(w io.Writer, report *doctor.DoctorReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) error {
	// In normal mode, show only errors and warnings
	// In verbose mode, show all checks
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

	// Print summary
	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)

	return nil
}

var (
	passColor = color.New(color.FgGreen)
	infoColor = color.New(color.FgCyan)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return passColor.Sprint("✓")
	case doctor.SeverityInfo:
		return infoColor.Sprint("ℹ")
	case doctor.SeverityWarning:
		return warnColor.Sprint("⚠")
	case doctor.SeverityError:
		return errColor.Sprint("✗")
	default:
		return "?"
	}
}

// errDoctorWarnings carries exit code 1 without an error message.
var errDoctorWarnings = errors.NewExitError(nil, errors.ExitUser)

// errDoctorErrors carries exit code 2 without an error message.
var errDoctorErrors = errors.NewExitError(nil, errors.ExitSystem)

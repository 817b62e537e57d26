// Package commands implements the CLI commands for folco.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	buildinfo "github.com/thoreinstein/folco/cmd"
	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/logging"
)

// debugEnv raises verbosity when no -v flag is given: 1/true = debug,
// 2 = trace.
const debugEnv = "FOLCO_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// loadedConfig is the configuration read by initConfig.
var loadedConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or $XDG_CONFIG_HOME/folco/config.yaml)")

	rootCmd.Version = buildinfo.Version
	rootCmd.SetVersionTemplate("folco version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	loadedConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "folco",
	Short: "Serve the platform folder icon to UI front ends",
	Long: `folco loads the operating system's folder icon once, keeps it behind an
exclusive guard, and serves PNG-encoded snapshots of it to front ends over
HTTP or stdio (command get_folder_icon_base).

Icon sources are tried in the order configured in icon.sources: the
freedesktop icon theme, the macOS icns resource, the Windows shell stock
icon, an explicit file, and finally a built-in drawing.`,
	Example: `  # Serve over HTTP on the configured address
  folco serve

  # Serve JSON lines on stdin/stdout for an embedding host
  folco serve --stdio

  # Show what the host would receive
  folco icon get

  # Check system health
  folco doctor

  See Also: folco config, folco icon`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logging.MaskAttr,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: logging.MaskAttr,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports config load failures for commands that need a
// valid configuration.
func checkConfig(cmd *cobra.Command, _ []string) error {
	// These commands work without a valid config, or report on it themselves.
	switch cmd.Name() {
	case "help", "version", "doctor", "edit", "gen-doc":
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// currentConfig returns the loaded configuration, or the load error.
func currentConfig() (*config.Config, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}
	if loadedConfig == nil {
		return config.Default(), nil
	}
	return loadedConfig, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

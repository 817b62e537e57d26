package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/editor"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/logging"
)

// configListFormat holds the value of the config list --format flag.
var configListFormat string

func init() {
	configListCmd.Flags().StringVar(&configListFormat, "format", "yaml",
		"output format: yaml, toml, json")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage folco configuration",
	Long: `Manage folco configuration stored in ~/.config/folco/config.yaml.

Every key can also be set from the environment: icon.sources becomes
FOLCO_ICON_SOURCES, server.addr becomes FOLCO_SERVER_ADDR.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  folco config

  # Get a specific value
  folco config get icon.sources

  # Set a value
  folco config set icon.sources theme,builtin

See Also: folco doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys. Array values are printed one per line.`,
	Example: `  # Get the listen address
  folco config get server.addr

  # Get the source order
  folco config get icon.sources

See Also: folco config set, folco config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

List values (icon.sources, icon.themes, icon.sizes) are comma-separated.
telemetry.headers takes comma-separated key=value pairs. The resulting
configuration is validated before it is written.`,
	Example: `  # Prefer an explicit icon file
  folco config set icon.file ~/icons/folder.png
  folco config set icon.sources file,theme

  # Restrict the served sizes
  folco config set icon.sizes 16,32,64

See Also: folco config get, folco config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long: `List all configuration values with defaults and environment overrides
applied. Telemetry header values are masked.`,
	Example: `  # List all configuration
  folco config list

  # As TOML
  folco config list --format toml

See Also: folco config get, folco config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR, then $VISUAL, then nano or vi. If no configuration
file exists, one is created with the default values first.`,
	Example: `  # Open config in default editor
  folco config edit

  # Open with specific editor
  EDITOR=nano folco config edit

See Also: folco config list, folco doctor`,
	RunE: runConfigEdit,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	return runConfigGetWithWriter(cmd.OutOrStdout(), args[0])
}

func runConfigGetWithWriter(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		fmt.Fprintln(w, "not set")
		return nil
	}

	switch v := viper.Get(key).(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []int:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case map[string]any, map[string]string:
		m := viper.GetStringMapString(key)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s=%s\n", k, logging.MaskValue(m[k]))
		}
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	return runConfigSetWithWriter(cmd.OutOrStdout(), args[0], args[1])
}

func runConfigSetWithWriter(w io.Writer, key, value string) error {
	parsed, err := parseConfigValue(key, value)
	if err != nil {
		return errors.NewUserError(err, "Run 'folco config list' to see valid keys")
	}

	viper.Set(key, parsed)
	cfg, err := config.Current()
	if err != nil {
		return err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return errors.NewUserError(errs[0], "the value was not saved")
	}

	path := config.Path()
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "Set %s = %v\n", key, displayValue(key, parsed))
	return nil
}

// parseConfigValue converts a command-line value to the type of key.
func parseConfigValue(key, value string) (any, error) {
	switch key {
	case "version":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Wrapf(config.ErrInvalidValue, "%s: %q is not a number", key, value)
		}
		return n, nil
	case "icon.sources", "icon.themes":
		return splitList(value), nil
	case "icon.sizes":
		var sizes []int
		for _, s := range splitList(value) {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, errors.Wrapf(config.ErrInvalidValue, "%s: %q is not a number", key, s)
			}
			sizes = append(sizes, n)
		}
		return sizes, nil
	case "icon.fallback", "state.recover_poison":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Wrapf(config.ErrInvalidValue, "%s: %q is not a boolean", key, value)
		}
		return b, nil
	case "telemetry.headers":
		headers := map[string]string{}
		for _, pair := range splitList(value) {
			k, v, ok := strings.Cut(pair, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return nil, errors.Wrapf(config.ErrInvalidValue, "%s: %q is not key=value", key, pair)
			}
			headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		return headers, nil
	case "icon.icns_path", "icon.file", "icon.compression", "server.addr", "telemetry.endpoint":
		return value, nil
	default:
		return nil, errors.Wrapf(config.ErrUnknownKey, "%s", key)
	}
}

func displayValue(key string, v any) any {
	if h, ok := v.(map[string]string); ok && key == "telemetry.headers" {
		return logging.MaskHeaders(h)
	}
	return v
}

// splitList splits a comma-separated string, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	return runConfigListWithWriter(cmd.OutOrStdout(), configListFormat)
}

func runConfigListWithWriter(w io.Writer, format string) error {
	cfg, err := config.Current()
	if err != nil {
		return err
	}
	cfg.Telemetry.Headers = logging.MaskHeaders(cfg.Telemetry.Headers)

	var data []byte
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format), "use yaml, toml or json")
	}
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	_, err = w.Write(data)
	return err
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath, config.Default()); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Location: %s\n", configPath)
	return editor.Terminal().Open(cmd.Context(), configPath)
}

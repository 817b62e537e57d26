package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/paths"
	"github.com/thoreinstein/folco/internal/platform"
	"github.com/thoreinstein/folco/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// EnvPrefix prefixes environment overrides, e.g. FOLCO_SERVER_ADDR.
const EnvPrefix = "FOLCO"

// DefaultAddr is the default HTTP listen address.
const DefaultAddr = "127.0.0.1:7878"

// envReplacer maps nested keys to environment names:
// server.addr -> FOLCO_SERVER_ADDR.
var envReplacer = strings.NewReplacer(".", "_")

// Config represents the top-level configuration structure.
type Config struct {
	Version   int             `mapstructure:"version" yaml:"version" toml:"version" json:"version"`
	Icon      IconConfig      `mapstructure:"icon" yaml:"icon" toml:"icon" json:"icon"`
	State     StateConfig     `mapstructure:"state" yaml:"state" toml:"state" json:"state"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server" toml:"server" json:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry" toml:"telemetry" json:"telemetry"`
}

// IconConfig selects where the folder icon comes from and how it is encoded.
type IconConfig struct {
	Sources     []string `mapstructure:"sources" yaml:"sources" toml:"sources" json:"sources"`
	Fallback    bool     `mapstructure:"fallback" yaml:"fallback" toml:"fallback" json:"fallback"`
	Themes      []string `mapstructure:"themes" yaml:"themes" toml:"themes" json:"themes"`
	Sizes       []int    `mapstructure:"sizes" yaml:"sizes" toml:"sizes" json:"sizes"`
	ICNSPath    string   `mapstructure:"icns_path" yaml:"icns_path,omitempty" toml:"icns_path,omitempty" json:"icns_path,omitempty"`
	File        string   `mapstructure:"file" yaml:"file,omitempty" toml:"file,omitempty" json:"file,omitempty"`
	Compression string   `mapstructure:"compression" yaml:"compression" toml:"compression" json:"compression"`
}

// StateConfig configures the icon guard.
type StateConfig struct {
	RecoverPoison bool `mapstructure:"recover_poison" yaml:"recover_poison" toml:"recover_poison" json:"recover_poison"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" toml:"addr" json:"addr"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	Endpoint string            `mapstructure:"endpoint" yaml:"endpoint,omitempty" toml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Headers  map[string]string `mapstructure:"headers" yaml:"headers,omitempty" toml:"headers,omitempty" json:"headers,omitempty"`
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	return &Config{
		Version: 1,
		Icon: IconConfig{
			Sources:     platform.DefaultSources(),
			Fallback:    true,
			Themes:      append([]string(nil), platform.DefaultThemes...),
			Sizes:       []int{},
			Compression: "default",
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// Init resets Viper and installs defaults, search paths and environment
// bindings. Call this once at application startup before accessing config
// values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(envReplacer)
	viper.AutomaticEnv()

	// Defaults
	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("icon.sources", d.Icon.Sources)
	viper.SetDefault("icon.fallback", d.Icon.Fallback)
	viper.SetDefault("icon.themes", d.Icon.Themes)
	viper.SetDefault("icon.sizes", d.Icon.Sizes)
	viper.SetDefault("icon.icns_path", "")
	viper.SetDefault("icon.file", "")
	viper.SetDefault("icon.compression", d.Icon.Compression)
	viper.SetDefault("state.recover_poison", false)
	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("telemetry.endpoint", "")
	viper.SetDefault("telemetry.headers", map[string]string{})
}

// Load reads the configuration file and validates the result.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file exists.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
		viper.SetConfigType(configType(path))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// Implicit load: defaults apply.
		case errors.As(err, &notFound), os.IsNotExist(err):
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// Path returns the config file Viper read, or the default location when
// none was found.
func Path() string {
	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			return used
		}
	}
	return paths.ConfigFile()
}

// configType maps a file extension to a Viper config type. Anything that
// is not TOML or JSON is read as YAML.
func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

// Save writes cfg to path atomically, creating the directory. The format
// follows the extension (.toml, .json, otherwise YAML).
func Save(path string, cfg *Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteEncoded(path, cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// Current decodes the live Viper state without validating it.
func Current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

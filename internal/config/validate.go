package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/platform"
)

// CurrentVersion is the only supported config version.
const CurrentVersion = 1

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrUnsupportedVersion indicates a version newer than this build understands.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrUnknownSource indicates an unrecognized icon source name.
	ErrUnknownSource = errors.New("unknown icon source")

	// ErrNoSources indicates that no source is configured and the builtin
	// fallback is disabled.
	ErrNoSources = errors.New("no icon sources configured and fallback disabled")

	// ErrInvalidSize indicates a non-positive icon size.
	ErrInvalidSize = errors.New("invalid icon size")

	// ErrInvalidCompression indicates an unrecognized compression level.
	ErrInvalidCompression = errors.New("invalid compression level")

	// ErrInvalidAddr indicates a malformed server address.
	ErrInvalidAddr = errors.New("invalid server address")

	// ErrInvalidEndpoint indicates a malformed telemetry endpoint.
	ErrInvalidEndpoint = errors.New("invalid telemetry endpoint")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnknownKey indicates a key that is not part of the configuration.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidValue indicates a value that cannot be converted to the
	// type of its key.
	ErrInvalidValue = errors.New("invalid config value")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	switch {
	case cfg.Version < 1:
		errs = append(errs, ErrVersionTooLow)
	case cfg.Version > CurrentVersion:
		errs = append(errs, &FieldError{Field: "version", Value: strconv.Itoa(cfg.Version), Err: ErrUnsupportedVersion})
	}

	known := platform.SourceNames()
	for _, s := range cfg.Icon.Sources {
		if !slices.Contains(known, s) {
			errs = append(errs, &FieldError{Field: "icon.sources", Value: s, Err: ErrUnknownSource})
		}
	}
	if len(cfg.Icon.Sources) == 0 && !cfg.Icon.Fallback {
		errs = append(errs, ErrNoSources)
	}

	for _, size := range cfg.Icon.Sizes {
		if size <= 0 || size > 1024 {
			errs = append(errs, &FieldError{Field: "icon.sizes", Value: strconv.Itoa(size), Err: ErrInvalidSize})
		}
	}

	if _, err := icon.ParseCompression(cfg.Icon.Compression); err != nil {
		errs = append(errs, &FieldError{Field: "icon.compression", Value: cfg.Icon.Compression, Err: ErrInvalidCompression})
	}

	for field, path := range map[string]string{"icon.icns_path": cfg.Icon.ICNSPath, "icon.file": cfg.Icon.File} {
		if err := validatePath(path); err != nil {
			errs = append(errs, &FieldError{Field: field, Value: path, Err: err})
		}
	}

	if err := validateAddr(cfg.Server.Addr); err != nil {
		errs = append(errs, &FieldError{Field: "server.addr", Value: cfg.Server.Addr, Err: err})
	}

	if cfg.Telemetry.Endpoint != "" {
		u, err := url.Parse(cfg.Telemetry.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, &FieldError{Field: "telemetry.endpoint", Value: cfg.Telemetry.Endpoint, Err: ErrInvalidEndpoint})
		}
	}

	// Map iteration above is unordered; keep reports stable.
	slices.SortStableFunc(errs, func(a, b error) int {
		return strings.Compare(fieldOf(a), fieldOf(b))
	})
	return errs
}

func fieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

func validateAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ErrInvalidAddr
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return ErrInvalidAddr
	}
	return nil
}

// FieldError represents an invalid value for a specific config key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.Field, e.Err.Error(), e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

package doctor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/platform"
	"github.com/thoreinstein/folco/internal/state"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg     *config.Config
	path    string
	loadErr error
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a configuration check. path is the file the
// configuration was read from and may be empty.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

// WithLoadError records that reading the configuration failed; Run then
// reports err instead of validating.
func (c *ConfigCheck) WithLoadError(err error) *ConfigCheck {
	c.loadErr = err
	return c
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string {
	return "config-valid"
}

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() string {
	return "config"
}

// Run validates the configuration and returns its result.
func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{},
	}
	if c.path != "" {
		result.Details["path"] = c.path
	}

	if c.loadErr != nil {
		result.Status = SeverityError
		result.Message = c.loadErr.Error()
		result.FixHint = "run 'folco config edit' to correct the config file"
		return result
	}

	if c.cfg == nil {
		result.Status = SeverityError
		result.Message = "no configuration loaded"
		return result
	}

	errs := config.Validate(c.cfg)
	if len(errs) == 0 {
		result.Status = SeverityPass
		if c.path == "" {
			result.Message = "using defaults (no config file)"
		} else {
			result.Message = "configuration is valid"
		}
		return result
	}

	problems := make([]string, 0, len(errs))
	for _, err := range errs {
		problems = append(problems, err.Error())
	}
	result.Status = SeverityError
	result.Message = fmt.Sprintf("%d configuration problem(s)", len(errs))
	result.Details["errors"] = problems
	result.FixHint = "run 'folco config edit' to correct the listed fields"
	return result
}

// SourceCheck probes every registered icon source and compares the
// outcome with the configured source order.
type SourceCheck struct {
	registry *platform.Registry
	sources  []string
	fallback bool
	opts     platform.LoadOptions
}

var _ Check = (*SourceCheck)(nil)

// NewSourceCheck creates an icon source check.
func NewSourceCheck(r *platform.Registry, sources []string, fallback bool, opts platform.LoadOptions) *SourceCheck {
	return &SourceCheck{registry: r, sources: sources, fallback: fallback, opts: opts}
}

// Name returns the unique identifier for this check.
func (c *SourceCheck) Name() string {
	return "icon-sources"
}

// Category returns the grouping for this check.
func (c *SourceCheck) Category() string {
	return "icon"
}

// Run executes the source probe and returns its result.
func (c *SourceCheck) Run() *CheckResult {
	results := platform.Detect(c.registry, c.opts)

	sources := make(map[string]any, len(results))
	status := make(map[string]platform.SourceStatus, len(results))
	for _, r := range results {
		info := map[string]any{
			"status": string(r.Status),
		}
		if r.Status == platform.StatusAvailable {
			info["images"] = r.Images
			info["sizes"] = r.Sizes
		}
		if r.Err != nil {
			info["error"] = r.Err.Error()
		}
		sources[r.Source] = info
		status[r.Source] = r.Status
	}

	details := map[string]any{
		"sources":    sources,
		"configured": c.sources,
		"available":  platform.Available(results),
		"fallback":   c.fallback,
	}

	// The first configured source that works is the one the guard will use.
	selected := ""
	for _, name := range c.sources {
		if status[name] == platform.StatusAvailable {
			selected = name
			break
		}
	}

	switch {
	case selected != "":
		details["selected"] = selected
		msg := "using source " + selected
		if selected != firstOf(c.sources) {
			msg += fmt.Sprintf(" (%s unavailable)", firstOf(c.sources))
			return &CheckResult{
				Name:     c.Name(),
				Category: c.Category(),
				Status:   SeverityInfo,
				Message:  msg,
				Details:  details,
			}
		}
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  msg,
			Details:  details,
		}
	case c.fallback:
		details["selected"] = platform.SourceBuiltin
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no configured source is available; the built-in icon will be used",
			Details:  details,
			FixHint:  "set icon.sources to one of: " + strings.Join(platform.Available(results), ", "),
		}
	default:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityError,
			Message:  "no configured source is available and fallback is disabled",
			Details:  details,
			FixHint:  "enable icon.fallback or configure an available source",
		}
	}
}

func firstOf(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// GuardCheck builds the guarded icon state and performs one extraction,
// the same path a host invocation takes.
type GuardCheck struct {
	builder state.Builder
	opts    []state.Option
}

var _ Check = (*GuardCheck)(nil)

// NewGuardCheck creates a guard round-trip check.
func NewGuardCheck(b state.Builder, opts ...state.Option) *GuardCheck {
	return &GuardCheck{builder: b, opts: opts}
}

// Name returns the unique identifier for this check.
func (c *GuardCheck) Name() string {
	return "guard-roundtrip"
}

// Category returns the grouping for this check.
func (c *GuardCheck) Category() string {
	return "guard"
}

// Run constructs the state, extracts the icon base and decodes it again.
func (c *GuardCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	s, err := state.New(c.builder, c.opts...)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "run 'folco doctor --verbose' and check the icon-sources result"
		return result
	}

	payload, err := s.ExtractIconBase()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}

	var encoded int
	for _, img := range payload.Images {
		encoded += len(img.Data)
	}
	result.Details = map[string]any{
		"images": len(payload.Images),
		"sizes":  payload.LogicalSizes(),
		"bytes":  encoded,
	}

	if _, err := payload.Decode(); err != nil {
		result.Status = SeverityError
		result.Message = "extracted payload does not decode: " + err.Error()
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("extracted %d image(s)", len(payload.Images))
	return result
}

// TelemetryCheck reports whether trace export is configured and whether
// the endpoint is usable.
type TelemetryCheck struct {
	endpoint string
	headers  map[string]string
}

var _ Check = (*TelemetryCheck)(nil)

// NewTelemetryCheck creates a telemetry configuration check.
func NewTelemetryCheck(endpoint string, headers map[string]string) *TelemetryCheck {
	return &TelemetryCheck{endpoint: endpoint, headers: headers}
}

// Name returns the unique identifier for this check.
func (c *TelemetryCheck) Name() string {
	return "telemetry"
}

// Category returns the grouping for this check.
func (c *TelemetryCheck) Category() string {
	return "telemetry"
}

// Run inspects the telemetry settings and returns its result.
func (c *TelemetryCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	if c.endpoint == "" {
		result.Status = SeverityInfo
		result.Message = "trace export disabled"
		return result
	}

	u, err := url.Parse(c.endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		result.Status = SeverityError
		result.Message = "telemetry endpoint is not an http(s) URL"
		result.FixHint = "set telemetry.endpoint to e.g. http://localhost:4318"
		return result
	}

	result.Details = map[string]any{
		"host":    u.Host,
		"headers": len(c.headers),
	}

	if u.Scheme == "http" && len(c.headers) > 0 && !isLoopback(u.Hostname()) {
		result.Status = SeverityWarning
		result.Message = "exporting with headers over plain http to " + u.Host
		result.FixHint = "use an https endpoint when sending credentials"
		return result
	}

	result.Status = SeverityPass
	result.Message = "exporting traces to " + u.Host
	return result
}

func isLoopback(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

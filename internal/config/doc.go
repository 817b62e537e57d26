// Package config provides configuration management for folco.
//
// Configuration is read with Viper from config.yaml in the current
// directory or in the folco config directory (see paths.ConfigDir), with
// environment overrides prefixed FOLCO_ and nested keys joined by
// underscores:
//
//	version: 1
//	icon:
//	  sources: [theme]        # theme, icns, shell, file, builtin
//	  fallback: true          # use the builtin glyph if every source fails
//	  themes: [Adwaita, hicolor]
//	  sizes: []               # logical sizes to keep; empty keeps all
//	  compression: default    # default, none, fast, best
//	state:
//	  recover_poison: false
//	server:
//	  addr: 127.0.0.1:7878
//	telemetry:
//	  endpoint: ""            # OTLP/HTTP traces URL; empty disables tracing
//
//	FOLCO_SERVER_ADDR=127.0.0.1:9000 folco serve
//
// # Loading Configuration
//
// Call [Init] once, then [Load]. Load validates the result and returns the
// first problem wrapped as "validating config: ...":
//
//	config.Init()
//	cfg, err := config.Load("")
//
// Use [Validate] directly to get every problem at once, e.g. for doctor.
package config

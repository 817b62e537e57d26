// Package app assembles the folco process: the platform builder derived
// from configuration, the single guarded icon state, and the command router
// the transports dispatch into.
package app

import (
	"log/slog"

	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/ipc"
	"github.com/thoreinstein/folco/internal/platform"
	"github.com/thoreinstein/folco/internal/state"
)

// App owns the process-wide state and router. It lives until the process
// exits; there is no teardown.
type App struct {
	state  *state.State
	router *ipc.Router
	logger *slog.Logger
}

// New builds the icon state from cfg and registers the commands. A state
// construction failure is returned unchanged (an *state.InitError) and no
// router is created; callers must treat it as fatal.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "nil config")
	}
	if logger == nil {
		logger = slog.Default()
	}

	builder, _ := NewBuilder(cfg, logger)
	opts, err := StateOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	s, err := state.New(builder, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithState(s, logger), nil
}

// NewWithState wires an existing state into a router.
func NewWithState(s *state.State, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	router := ipc.NewRouter(logger)
	// The router is empty, so registration cannot collide.
	_ = router.Register(ipc.CommandGetFolderIconBase, ipc.GetFolderIconBase(s))

	logger.Debug("app ready", "commands", router.Commands())
	return &App{state: s, router: router, logger: logger}
}

// NewBuilder returns the platform builder described by cfg together with
// the registry it draws from.
func NewBuilder(cfg *config.Config, logger *slog.Logger) (*platform.Builder, *platform.Registry) {
	registry := platform.NewDefaultRegistry(platform.LoaderConfig{
		Themes:   cfg.Icon.Themes,
		ICNSPath: cfg.Icon.ICNSPath,
		File:     cfg.Icon.File,
	})
	b := platform.NewBuilder().
		WithRegistry(registry).
		WithSources(cfg.Icon.Sources...).
		WithSizes(cfg.Icon.Sizes...).
		WithFallback(cfg.Icon.Fallback).
		WithLogger(logger)
	return b, registry
}

// StateOptions returns the guard options described by cfg.
func StateOptions(cfg *config.Config, logger *slog.Logger) ([]state.Option, error) {
	level, err := icon.ParseCompression(cfg.Icon.Compression)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "icon.compression"), errors.ErrInvalidConfig)
	}
	return []state.Option{
		state.WithEncoder(icon.PNGEncoder{CompressionLevel: level}),
		state.WithPoisonRecovery(cfg.State.RecoverPoison),
		state.WithLogger(logger),
	}, nil
}

// Router returns the command router.
func (a *App) Router() *ipc.Router {
	return a.router
}

// State returns the guarded icon state.
func (a *App) State() *state.State {
	return a.state
}

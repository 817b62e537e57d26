package state

import (
	"log/slog"

	"github.com/thoreinstein/folco/internal/icon"
)

// Option configures a State.
type Option func(*State)

// WithEncoder sets the encoder used for every extraction.
// The default is icon.PNGEncoder with default compression.
func WithEncoder(enc icon.Encoder) Option {
	return func(s *State) {
		if enc != nil {
			s.encoder = enc
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPoisonRecovery controls what happens after a panic poisoned the
// guard. When false (the default) every later call fails with a LockError.
// When true the next caller clears the poison, logs a warning and proceeds
// with the same handle.
func WithPoisonRecovery(enabled bool) Option {
	return func(s *State) {
		s.recoverPoison = enabled
	}
}

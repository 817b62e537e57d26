package state

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/logging"
	"github.com/thoreinstein/folco/internal/platform"
)

// Builder constructs the platform handle a State guards.
type Builder interface {
	BuildHandle() (platform.Handle, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func() (platform.Handle, error)

// BuildHandle calls f.
func (f BuilderFunc) BuildHandle() (platform.Handle, error) {
	return f()
}

// Stats is a point-in-time view of guard activity.
type Stats struct {
	// Calls is the number of ExtractIconBase invocations.
	Calls uint64 `json:"calls"`

	// Failures counts calls that returned an error.
	Failures uint64 `json:"failures"`

	// Poisonings counts panics recovered inside the critical section.
	Poisonings uint64 `json:"poisonings"`

	// Poisoned reports whether the guard is currently poisoned.
	Poisoned bool `json:"poisoned"`
}

// State is the resource guard around the platform handle. It is safe for
// concurrent use; the handle it wraps is not.
type State struct {
	mu     sync.Mutex
	handle platform.Handle
	poison *LockError

	encoder       icon.Encoder
	logger        *slog.Logger
	recoverPoison bool

	calls      atomic.Uint64
	failures   atomic.Uint64
	poisonings atomic.Uint64
	poisoned   atomic.Bool
}

// New builds the platform handle and wraps it in a State. A builder error
// is returned as an *InitError and must be treated as fatal.
func New(b Builder, opts ...Option) (*State, error) {
	h, err := b.BuildHandle()
	if err != nil {
		return nil, &InitError{Err: err}
	}
	if h == nil {
		return nil, &InitError{Err: platform.ErrNoFolderIcon}
	}
	return NewWithHandle(h, opts...), nil
}

// NewWithHandle wraps an existing handle. The caller must not use h
// afterwards.
func NewWithHandle(h platform.Handle, opts ...Option) *State {
	s := &State{
		handle:  h,
		encoder: icon.PNGEncoder{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "state")
	return s
}

// ExtractIconBase acquires the guard, takes a snapshot of the folder icon
// and returns it encoded. It blocks until the guard is available; there is
// no timeout and no cancellation.
func (s *State) ExtractIconBase() (payload *icon.SerializableBase, err error) {
	s.calls.Add(1)
	waitStart := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	heldStart := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.poison = &LockError{Panic: r}
			s.poisoned.Store(true)
			s.poisonings.Add(1)
			s.logger.Error("panic while holding icon guard, guard poisoned", "panic", r)
			payload, err = nil, s.poison
		}
		if err != nil {
			s.failures.Add(1)
		}
		s.logger.Log(context.Background(), logging.LevelTrace, "icon extraction finished",
			"wait", heldStart.Sub(waitStart),
			"held", time.Since(heldStart),
			"error", err,
		)
	}()

	if s.poison != nil {
		if !s.recoverPoison {
			return nil, s.poison
		}
		s.logger.Warn("clearing poisoned icon guard", "panic", s.poison.Panic)
		s.poison = nil
		s.poisoned.Store(false)
	}

	base := s.handle.FolderIconBase()
	return icon.Encode(base, s.encoder)
}

// Stats returns current counters without taking the guard.
func (s *State) Stats() Stats {
	return Stats{
		Calls:      s.calls.Load(),
		Failures:   s.failures.Load(),
		Poisonings: s.poisonings.Load(),
		Poisoned:   s.poisoned.Load(),
	}
}

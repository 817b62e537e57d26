package state

import (
	"fmt"

	"github.com/thoreinstein/folco/internal/errors"
)

// Sentinel errors matched by the typed errors below.
var (
	// ErrInit is matched by errors from New.
	ErrInit = errors.New("customization context initialization failed")

	// ErrPoisoned is matched by LockError.
	ErrPoisoned = errors.New("icon guard poisoned")
)

// poisonedMessage is the text every LockError carries, so all calls on a
// poisoned guard fail identically.
const poisonedMessage = "poisoned lock: another task failed inside"

// InitError reports that the platform handle could not be constructed.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("Failed to initialize customization context: %v", e.Err)
}

// Unwrap returns the builder's error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInit.
func (e *InitError) Is(target error) bool {
	return target == ErrInit
}

// LockError reports that the guard could not be acquired in a usable state
// because an earlier holder panicked.
type LockError struct {
	// Panic is the value recovered from the holder that poisoned the guard.
	Panic any
}

func (e *LockError) Error() string {
	return poisonedMessage
}

// Is reports whether target is ErrPoisoned.
func (e *LockError) Is(target error) bool {
	return target == ErrPoisoned
}

//go:build !windows

package platform

import (
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

// Ensure ShellLoader implements Loader at compile time.
var _ Loader = (*ShellLoader)(nil)

// ShellLoader reads the stock folder icon from the Windows shell.
// It is unavailable on this platform.
type ShellLoader struct{}

// Name returns "shell".
func (*ShellLoader) Name() string { return SourceShell }

// Load always fails with ErrUnsupportedPlatform.
func (*ShellLoader) Load(LoadOptions) ([]icon.Image, error) {
	return nil, errors.Wrap(ErrUnsupportedPlatform, SourceShell)
}

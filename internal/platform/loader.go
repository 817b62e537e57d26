package platform

import (
	"log/slog"
	"slices"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

// Source names understood by the default registry.
const (
	SourceTheme   = "theme"
	SourceICNS    = "icns"
	SourceShell   = "shell"
	SourceFile    = "file"
	SourceBuiltin = "builtin"
)

// Sentinel errors for loaders.
var (
	// ErrUnsupportedPlatform is returned by loaders that cannot run on the
	// current GOOS.
	ErrUnsupportedPlatform = errors.New("icon source not supported on this platform")

	// ErrNoImages is returned when a source was readable but produced no
	// usable folder images.
	ErrNoImages = errors.New("no folder icon images found")
)

// LoadOptions control what a Loader returns.
type LoadOptions struct {
	// Sizes restricts results to these logical sizes. Empty means all.
	Sizes []int

	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

func (o LoadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Loader produces decoded folder icon images from one source.
// Implementations must be safe for concurrent use; the images they return
// are owned by the caller.
type Loader interface {
	// Name returns the source identifier (theme, icns, shell, file, builtin).
	Name() string

	// Load decodes the folder icon from the source.
	Load(opts LoadOptions) ([]icon.Image, error)
}

// keepSizes filters images down to the requested logical sizes and drops
// duplicate (size, scale) pairs, keeping the first occurrence.
func keepSizes(images []icon.Image, sizes []int) []icon.Image {
	type key struct {
		size  int
		scale float64
	}
	seen := make(map[key]bool, len(images))
	out := images[:0]
	for _, img := range images {
		if img.Pixels == nil || img.Width() == 0 {
			continue
		}
		k := key{img.LogicalSize(), img.Scale}
		if len(sizes) > 0 && !slices.Contains(sizes, k.size) {
			continue
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, img)
	}
	return out
}

// SourceNames returns every built-in source name in default registry order.
func SourceNames() []string {
	return []string{SourceTheme, SourceICNS, SourceShell, SourceFile, SourceBuiltin}
}

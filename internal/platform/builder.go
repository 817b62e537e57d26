package platform

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/thoreinstein/folco/internal/errors"
)

// ErrNoFolderIcon is matched by the error Build returns when every source
// failed.
var ErrNoFolderIcon = errors.New("no folder icon source succeeded")

// DefaultSources returns the source order for the current platform.
func DefaultSources() []string {
	return slices.Clone(defaultSources)
}

// SourceError records why one source failed during Build.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// BuildError is returned by Build when no source produced images.
type BuildError struct {
	Attempts []SourceError
}

func (e *BuildError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return ErrNoFolderIcon.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrNoFolderIcon.
func (e *BuildError) Is(target error) bool {
	return target == ErrNoFolderIcon
}

// Unwrap returns the per-source errors.
func (e *BuildError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// Builder constructs a Context from the first icon source that works.
type Builder struct {
	registry *Registry
	sources  []string
	sizes    []int
	fallback bool
	logger   *slog.Logger
}

// NewBuilder returns a Builder using the default registry, the platform's
// default sources and the builtin fallback.
func NewBuilder() *Builder {
	return &Builder{
		sources:  DefaultSources(),
		fallback: true,
	}
}

// WithRegistry sets the registry sources are resolved against.
func (b *Builder) WithRegistry(r *Registry) *Builder {
	b.registry = r
	return b
}

// WithSources sets the source order. An empty list keeps the defaults.
func (b *Builder) WithSources(names ...string) *Builder {
	if len(names) > 0 {
		b.sources = slices.Clone(names)
	}
	return b
}

// WithSizes restricts the context to the given logical sizes.
func (b *Builder) WithSizes(sizes ...int) *Builder {
	b.sizes = slices.Clone(sizes)
	return b
}

// WithFallback controls whether the builtin glyph is tried after every
// configured source failed.
func (b *Builder) WithFallback(enabled bool) *Builder {
	b.fallback = enabled
	return b
}

// WithLogger sets the logger used while loading.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Build loads each source in order and returns a Context for the first one
// that yields images. On total failure the error lists every attempt and
// matches ErrNoFolderIcon.
func (b *Builder) Build() (*Context, error) {
	reg := b.registry
	if reg == nil {
		reg = NewDefaultRegistry(LoaderConfig{})
	}
	log := b.logger
	if log == nil {
		log = slog.Default()
	}

	sources := slices.Clone(b.sources)
	if b.fallback && !slices.Contains(sources, SourceBuiltin) {
		sources = append(sources, SourceBuiltin)
	}

	opts := LoadOptions{Sizes: b.sizes, Logger: log}
	var attempts []SourceError
	for _, name := range sources {
		loader, ok := reg.Get(name)
		if !ok {
			attempts = append(attempts, SourceError{Source: name, Err: ErrUnknownSource})
			continue
		}
		images, err := loader.Load(opts)
		if err == nil {
			images = keepSizes(images, b.sizes)
			if len(images) == 0 {
				err = ErrNoImages
			}
		}
		if err != nil {
			log.Debug("icon source failed", "source", name, "error", err)
			attempts = append(attempts, SourceError{Source: name, Err: err})
			continue
		}
		log.Info("folder icon loaded", "source", name, "images", len(images))
		return newContext(name, images), nil
	}

	if len(attempts) == 0 {
		return nil, errors.Wrap(ErrNoFolderIcon, "no sources configured")
	}
	return nil, &BuildError{Attempts: attempts}
}

// BuildHandle is Build returning the Handle interface, for callers that
// only need to query the icon.
func (b *Builder) BuildHandle() (Handle, error) {
	ctx, err := b.Build()
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

package platform

import (
	"sync"

	"github.com/thoreinstein/folco/internal/errors"
)

// Sentinel errors for registry operations.
var (
	// ErrSourceAlreadyRegistered is returned when attempting to register
	// a loader with a name that is already in use.
	ErrSourceAlreadyRegistered = errors.New("icon source already registered")

	// ErrInvalidSourceName is returned when attempting to register
	// a loader with an empty name.
	ErrInvalidSourceName = errors.New("invalid icon source name")

	// ErrUnknownSource is returned when a requested source is not registered.
	ErrUnknownSource = errors.New("unknown icon source")
)

// Registry manages icon source registration and lookup.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
	order   []string
}

// NewRegistry creates a new empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
	}
}

// Register adds a loader to the registry.
// Returns an error if:
//   - The loader is nil or its name is empty
//   - A loader with the same name is already registered
func (r *Registry) Register(l Loader) error {
	if l == nil || l.Name() == "" {
		return ErrInvalidSourceName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := l.Name()
	if _, exists := r.loaders[name]; exists {
		return errors.Wrapf(ErrSourceAlreadyRegistered, "registering %q", name)
	}

	r.loaders[name] = l
	r.order = append(r.order, name)
	return nil
}

// Get returns the loader registered under name.
func (r *Registry) Get(name string) (Loader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loaders[name]
	return l, ok
}

// Names returns registered source names in registration order.
// Returns nil for an empty registry.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// LoaderConfig configures the loaders of the default registry.
type LoaderConfig struct {
	// Themes lists freedesktop icon themes to search, in order.
	Themes []string

	// SearchDirs overrides the icon theme base directories.
	SearchDirs []string

	// ICNSPath overrides the macOS folder icon file.
	ICNSPath string

	// File is an explicit icon file for the file source.
	File string
}

// NewDefaultRegistry returns a registry with every built-in source
// registered, in the order theme, icns, shell, file, builtin.
func NewDefaultRegistry(cfg LoaderConfig) *Registry {
	r := NewRegistry()
	for _, l := range []Loader{
		&ThemeLoader{Themes: cfg.Themes, SearchDirs: cfg.SearchDirs},
		&ICNSLoader{Path: cfg.ICNSPath},
		&ShellLoader{},
		&FileLoader{Path: cfg.File},
		&BuiltinLoader{},
	} {
		// Names are distinct constants.
		_ = r.Register(l)
	}
	return r
}

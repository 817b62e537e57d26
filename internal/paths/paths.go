package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "folco"

// ConfigDirEnv overrides the configuration directory when set.
const ConfigDirEnv = "FOLCO_CONFIG_DIR"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string if it cannot
// be determined. Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// DataDirs returns the XDG system data directories in precedence order.
func DataDirs() []string {
	return xdg.DataDirs
}

// CacheHome returns the XDG cache home directory.
func CacheHome() string {
	return xdg.CacheHome
}

// ConfigDir returns folco's configuration directory.
// $FOLCO_CONFIG_DIR takes precedence over <ConfigHome>/folco.
func ConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the path of the default configuration file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// IconSearchDirs returns the base directories searched for icon themes,
// following the freedesktop icon theme specification order:
// $HOME/.icons, $XDG_DATA_HOME/icons, $XDG_DATA_DIRS/icons, /usr/share/pixmaps.
func IconSearchDirs() []string {
	dirs := make([]string, 0, len(DataDirs())+3)
	if home := Home(); home != "" {
		dirs = append(dirs, filepath.Join(home, ".icons"))
	}
	dirs = append(dirs, filepath.Join(DataHome(), "icons"))
	for _, d := range DataDirs() {
		dirs = append(dirs, filepath.Join(d, "icons"))
	}
	dirs = append(dirs, "/usr/share/pixmaps")
	return dedupe(dirs)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

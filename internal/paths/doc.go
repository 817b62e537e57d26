// Package paths provides cross-platform path resolution for folco.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// It resolves where folco keeps its own configuration and where the
// freedesktop icon theme loader searches for folder icons:
//
//	paths.ConfigDir()      // ~/.config/folco (or $FOLCO_CONFIG_DIR)
//	paths.ConfigFile()     // <ConfigDir>/config.yaml
//	paths.IconSearchDirs() // ~/.icons, ~/.local/share/icons, /usr/share/icons, ...
package paths

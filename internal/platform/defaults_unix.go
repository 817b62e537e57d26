//go:build !windows && !darwin

package platform

var defaultSources = []string{SourceTheme}

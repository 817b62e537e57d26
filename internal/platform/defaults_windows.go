//go:build windows

package platform

var defaultSources = []string{SourceShell}

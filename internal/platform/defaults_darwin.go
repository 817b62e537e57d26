//go:build darwin

package platform

var defaultSources = []string{SourceICNS}

// Package platform provides the platform folder icon handle and the
// builder that constructs it.
//
// A [Handle] answers one question: what does the platform's default folder
// icon look like right now. Handles are NOT safe for concurrent use; the
// production [Context] renders every snapshot into a scratch area it reuses
// across queries, so a second concurrent query would tear the first
// caller's snapshot. Callers serialize access (see package state).
//
// # Sources
//
// A [Builder] tries icon sources in order and builds a Context from the
// first one that yields images:
//
//   - theme: freedesktop icon themes (places/folder.png, Inherits chain)
//   - icns: macOS GenericFolderIcon.icns (PNG entries)
//   - shell: Windows stock folder icon (SHGetStockIconInfo + RT_GROUP_ICON)
//   - file: an explicit .png, .ico or .icns file
//   - builtin: a procedurally drawn folder glyph, always available
//
// The default source list depends on GOOS; builtin is used as a fallback
// unless disabled:
//
//	ctx, err := platform.NewBuilder().
//		WithSources(platform.SourceTheme).
//		WithSizes(16, 32, 64).
//		Build()
//
// # Detection
//
// [Detect] loads every registered source and reports which ones are usable
// on this machine, for diagnostics.
package platform

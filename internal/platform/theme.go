package platform

import (
	"bufio"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/paths"
	"github.com/thoreinstein/folco/pkg/fileutil"
)

// DefaultThemes is the theme search order used when none is configured.
var DefaultThemes = []string{"Adwaita", "hicolor"}

// DefaultIconNames are the freedesktop names tried for the folder icon.
var DefaultIconNames = []string{"folder", "inode-directory"}

const (
	themeIndexFile = "index.theme"
	fallbackTheme  = "hicolor"
)

// Ensure ThemeLoader implements Loader at compile time.
var _ Loader = (*ThemeLoader)(nil)

// ThemeLoader reads the folder icon from freedesktop icon themes.
//
// Themes are searched in order, each followed depth-first by the themes it
// inherits from, with hicolor last. The first theme that has at least one
// PNG folder icon wins; images are never mixed across themes.
type ThemeLoader struct {
	// Themes lists theme names to try. Defaults to DefaultThemes.
	Themes []string

	// SearchDirs lists base directories containing themes.
	// Defaults to paths.IconSearchDirs().
	SearchDirs []string

	// IconNames lists icon names to look up. Defaults to DefaultIconNames.
	IconNames []string
}

// Name returns "theme".
func (*ThemeLoader) Name() string { return SourceTheme }

// Load searches the configured themes for PNG folder icons.
func (l *ThemeLoader) Load(opts LoadOptions) ([]icon.Image, error) {
	log := opts.logger().With("source", SourceTheme)

	bases := l.SearchDirs
	if len(bases) == 0 {
		bases = paths.IconSearchDirs()
	}
	names := l.IconNames
	if len(names) == 0 {
		names = DefaultIconNames
	}
	queue := slices.Clone(l.Themes)
	if len(queue) == 0 {
		queue = slices.Clone(DefaultThemes)
	}
	if !slices.Contains(queue, fallbackTheme) {
		queue = append(queue, fallbackTheme)
	}

	var searched []string
	visited := make(map[string]bool)
	for len(queue) > 0 {
		theme := queue[0]
		queue = queue[1:]
		if theme == "" || visited[theme] {
			continue
		}
		visited[theme] = true
		searched = append(searched, theme)

		roots := themeRoots(bases, theme)
		if len(roots) == 0 {
			log.Debug("theme not installed", "theme", theme)
			continue
		}

		idx := readThemeIndex(roots)
		images := loadThemeImages(roots, idx, names, log)
		images = keepSizes(images, opts.Sizes)
		if len(images) > 0 {
			log.Debug("theme folder icon found", "theme", theme, "images", len(images))
			return images, nil
		}
		if idx != nil {
			queue = append(slices.Clone(idx.inherits), queue...)
		}
	}

	return nil, errors.Wrapf(ErrNoImages, "searched themes %s", strings.Join(searched, ", "))
}

// themeRoots returns every existing <base>/<theme> directory.
func themeRoots(bases []string, theme string) []string {
	var roots []string
	for _, base := range bases {
		dir := filepath.Join(base, theme)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

// readThemeIndex parses the first index.theme found among roots.
func readThemeIndex(roots []string) *themeIndex {
	for _, root := range roots {
		f, err := os.Open(filepath.Join(root, themeIndexFile))
		if err != nil {
			continue
		}
		idx, err := parseThemeIndex(f)
		f.Close()
		if err == nil {
			return idx
		}
	}
	return nil
}

func loadThemeImages(roots []string, idx *themeIndex, names []string, log *slog.Logger) []icon.Image {
	var images []icon.Image
	try := func(path string, scale int) bool {
		img, err := decodePNGFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Debug("skipping unreadable icon", "path", path, "error", err)
			}
			return false
		}
		images = append(images, icon.Image{Pixels: img, Scale: float64(scale)})
		return true
	}

	if idx != nil && len(idx.dirs) > 0 {
		for _, d := range idx.dirs {
			if d.context != "" && d.context != "Places" && d.context != "FileSystems" {
				continue
			}
		roots:
			for _, root := range roots {
				for _, name := range names {
					if try(filepath.Join(root, d.path, name+".png"), d.scale) {
						break roots
					}
				}
			}
		}
		return images
	}

	// Themes without an index: probe the common layouts.
	for _, root := range roots {
		for _, pattern := range []string{"*/places", "places/*"} {
			dirs, _ := filepath.Glob(filepath.Join(root, pattern))
			slices.Sort(dirs)
			for _, dir := range dirs {
				for _, name := range names {
					if try(filepath.Join(dir, name+".png"), scaleFromDir(dir)) {
						break
					}
				}
			}
		}
	}
	return images
}

// scaleFromDir reads the scale from an "@2x"-style directory suffix.
func scaleFromDir(dir string) int {
	for _, seg := range strings.Split(filepath.ToSlash(dir), "/") {
		if i := strings.LastIndex(seg, "@"); i >= 0 {
			if n, err := strconv.Atoi(strings.TrimSuffix(seg[i+1:], "x")); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

func decodePNGFile(path string) (*image.NRGBA, error) {
	data, err := fileutil.ReadFileLimit(path, fileutil.MaxImageFileSize)
	if err != nil {
		return nil, err
	}

	m, err := decodePNG(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return m, nil
}

type themeIndex struct {
	inherits []string
	dirs     []themeDir
}

type themeDir struct {
	path    string
	size    int
	scale   int
	context string
}

// parseThemeIndex reads the subset of the freedesktop index.theme format
// needed to locate folder icons.
func parseThemeIndex(r io.Reader) (*themeIndex, error) {
	sections := make(map[string]map[string]string)
	var current map[string]string

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := line[1 : len(line)-1]
			current = make(map[string]string)
			sections[name] = current
			continue
		}
		if current == nil {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		current[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading index.theme")
	}

	head, ok := sections["Icon Theme"]
	if !ok {
		return nil, errors.New("index.theme has no [Icon Theme] section")
	}

	idx := &themeIndex{inherits: splitList(head["Inherits"])}
	listed := append(splitList(head["Directories"]), splitList(head["ScaledDirectories"])...)
	seen := make(map[string]bool, len(listed))
	for _, dir := range listed {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		sec := sections[dir]
		d := themeDir{path: dir, scale: 1}
		if sec != nil {
			d.size, _ = strconv.Atoi(sec["Size"])
			if s, err := strconv.Atoi(sec["Scale"]); err == nil && s > 0 {
				d.scale = s
			}
			d.context = sec["Context"]
		}
		idx.dirs = append(idx.dirs, d)
	}
	return idx, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

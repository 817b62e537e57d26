package platform

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/pkg/fileutil"
)

// ErrNoFile is returned by FileLoader when no path is configured.
var ErrNoFile = errors.New("no icon file configured")

// Ensure FileLoader implements Loader at compile time.
var _ Loader = (*FileLoader)(nil)

// FileLoader reads the folder icon from an explicit file. The format is
// chosen by extension: .png, .ico or .icns. A PNG named like
// "folder@2x.png" is loaded at scale 2.
type FileLoader struct {
	Path string
}

// Name returns "file".
func (*FileLoader) Name() string { return SourceFile }

// Load decodes the configured file.
func (l *FileLoader) Load(opts LoadOptions) ([]icon.Image, error) {
	if l.Path == "" {
		return nil, ErrNoFile
	}
	data, err := fileutil.ReadFileLimit(l.Path, fileutil.MaxImageFileSize)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", l.Path)
	}

	ext := strings.ToLower(filepath.Ext(l.Path))
	switch ext {
	case ".icns":
		return DecodeICNS(data, opts)
	case ".ico":
		return DecodeICO(data, opts)
	case ".png":
		m, err := decodePNG(data)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s", l.Path)
		}
		images := keepSizes([]icon.Image{{Pixels: m, Scale: scaleFromName(l.Path)}}, opts.Sizes)
		if len(images) == 0 {
			return nil, ErrNoImages
		}
		return images, nil
	default:
		return nil, errors.Newf("unsupported icon file type %q", ext)
	}
}

// scaleFromName reads an "@2x" suffix from a file name.
func scaleFromName(path string) float64 {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	i := strings.LastIndex(base, "@")
	if i < 0 {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSuffix(base[i+1:], "x"))
	if err != nil || n <= 0 {
		return 1
	}
	return float64(n)
}

package platform

import (
	"bytes"
	"encoding/binary"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/pkg/fileutil"
)

// DefaultICNSPath is the stock macOS folder icon.
const DefaultICNSPath = "/System/Library/CoreServices/CoreTypes.bundle/Contents/Resources/GenericFolderIcon.icns"

// ErrInvalidICNS is returned for data that is not an icns container.
var ErrInvalidICNS = errors.New("invalid icns data")

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// icnsScales maps PNG-capable icns element types to their scale factor.
// Pixel dimensions are read from the decoded PNG.
var icnsScales = map[string]float64{
	"icp4": 1, // 16
	"icp5": 1, // 32
	"icp6": 1, // 64
	"ic07": 1, // 128
	"ic08": 1, // 256
	"ic09": 1, // 512
	"ic10": 2, // 512@2x
	"ic11": 2, // 16@2x
	"ic12": 2, // 32@2x
	"ic13": 2, // 128@2x
	"ic14": 2, // 256@2x
}

// Ensure ICNSLoader implements Loader at compile time.
var _ Loader = (*ICNSLoader)(nil)

// ICNSLoader reads the folder icon from a macOS icns file.
type ICNSLoader struct {
	// Path to the icns file. Defaults to DefaultICNSPath.
	Path string
}

// Name returns "icns".
func (*ICNSLoader) Name() string { return SourceICNS }

// Load decodes every PNG element of the icns file.
func (l *ICNSLoader) Load(opts LoadOptions) ([]icon.Image, error) {
	path := l.Path
	if path == "" {
		path = DefaultICNSPath
	}
	data, err := fileutil.ReadFileLimit(path, fileutil.MaxImageFileSize)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	images, err := DecodeICNS(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return images, nil
}

// DecodeICNS extracts the PNG-encoded elements of an icns container.
// Legacy RLE, mask and JPEG 2000 elements are skipped.
func DecodeICNS(data []byte, opts LoadOptions) ([]icon.Image, error) {
	log := opts.logger().With("source", SourceICNS)

	if len(data) < 8 || string(data[:4]) != "icns" {
		return nil, ErrInvalidICNS
	}
	total := int(binary.BigEndian.Uint32(data[4:8]))
	if total > len(data) || total < 8 {
		return nil, errors.Wrapf(ErrInvalidICNS, "declared length %d, have %d bytes", total, len(data))
	}

	var images []icon.Image
	for off := 8; off+8 <= total; {
		typ := string(data[off : off+4])
		n := int(binary.BigEndian.Uint32(data[off+4 : off+8]))
		if n < 8 || off+n > total {
			return nil, errors.Wrapf(ErrInvalidICNS, "element %q at %d has length %d", typ, off, n)
		}
		body := data[off+8 : off+n]
		off += n

		scale, known := icnsScales[typ]
		if !known {
			continue
		}
		if !bytes.HasPrefix(body, pngMagic) {
			log.Debug("skipping non-PNG icns element", "type", typ)
			continue
		}
		m, err := decodePNG(body)
		if err != nil {
			log.Debug("skipping corrupt icns element", "type", typ, "error", err)
			continue
		}
		images = append(images, icon.Image{Pixels: m, Scale: scale})
	}

	images = keepSizes(images, opts.Sizes)
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

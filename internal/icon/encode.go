package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// FormatPNG is the only payload format folco produces.
const FormatPNG = "png"

// ErrEncode marks every failure produced while converting a snapshot into
// a payload. Match it with errors.Is.
var ErrEncode = errors.New("icon encoding failed")

// Encoder converts one bitmap into an encoded byte stream.
type Encoder interface {
	// Format returns the short name of the produced format (e.g. "png").
	Format() string

	// Encode writes m to w.
	Encode(w io.Writer, m image.Image) error
}

// EncodeError reports a snapshot that could not be converted to the target format.
type EncodeError struct {
	// Format is the target format name.
	Format string

	// Image is the index of the failing image, or -1 when the snapshot as a
	// whole was rejected.
	Image int

	// Err is the encoder's failure.
	Err error
}

// Error returns a display message naming the encoding step.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("Failed to encode icon as %s: %v", strings.ToUpper(e.Format), e.Err)
}

// Unwrap returns the encoder's failure.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrEncode.
func (e *EncodeError) Is(target error) bool {
	return target == ErrEncode
}

// PNGEncoder encodes bitmaps with image/png. The zero value uses default
// compression. It is safe for concurrent use.
type PNGEncoder struct {
	CompressionLevel png.CompressionLevel
}

var pngBuffers = &bufferPool{}

// Format returns "png".
func (PNGEncoder) Format() string {
	return FormatPNG
}

// Encode writes m to w as PNG.
func (e PNGEncoder) Encode(w io.Writer, m image.Image) error {
	enc := png.Encoder{
		CompressionLevel: e.CompressionLevel,
		BufferPool:       pngBuffers,
	}
	return enc.Encode(w, m)
}

// ParseCompression maps a config value to a png.CompressionLevel.
func ParseCompression(s string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return png.DefaultCompression, errors.Newf("unknown png compression %q (valid: default, none, fast, best)", s)
	}
}

type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) {
	p.pool.Put(b)
}

// SerializableImage is one encoded bitmap of the payload.
type SerializableImage struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
	Format string  `json:"format"`
	Data   []byte  `json:"data"`
}

// LogicalSize returns the width in logical (scale 1) pixels.
func (img SerializableImage) LogicalSize() int {
	return logicalSize(img.Width, img.Scale)
}

// SerializableBase is the encoded folder icon payload returned across the
// IPC boundary. Every request produces a fresh, independent value.
type SerializableBase struct {
	Images []SerializableImage `json:"images"`
}

// Encode converts a snapshot into a payload using enc.
// The snapshot is read but never retained; the payload owns its bytes.
func Encode(base *Base, enc Encoder) (*SerializableBase, error) {
	format := FormatPNG
	if enc != nil {
		format = enc.Format()
	} else {
		enc = PNGEncoder{}
	}

	if err := base.Validate(); err != nil {
		return nil, &EncodeError{Format: format, Image: -1, Err: err}
	}

	out := &SerializableBase{Images: make([]SerializableImage, 0, len(base.Images))}
	var buf bytes.Buffer
	for i, img := range base.Images {
		buf.Reset()
		if err := encodeOne(&buf, enc, img.Pixels); err != nil {
			return nil, &EncodeError{Format: format, Image: i, Err: err}
		}
		data := make([]byte, buf.Len())
		copy(data, buf.Bytes())
		out.Images = append(out.Images, SerializableImage{
			Width:  img.Width(),
			Height: img.Height(),
			Scale:  img.Scale,
			Format: format,
			Data:   data,
		})
	}
	return out, nil
}

// encodeOne shields the caller from encoders that panic on malformed
// pixel buffers; the panic becomes an ordinary encoding failure.
func encodeOne(w io.Writer, enc Encoder, m image.Image) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("encoder panicked: %v", r)
		}
	}()
	return enc.Encode(w, m)
}

// Decode decodes every image of the payload back into a snapshot.
// Declared dimensions must match the decoded bitmaps.
func (p *SerializableBase) Decode() (*Base, error) {
	if p == nil {
		return nil, errors.Wrap(ErrInvalidSnapshot, "nil payload")
	}
	base := &Base{Images: make([]Image, 0, len(p.Images))}
	for i, si := range p.Images {
		if len(si.Data) == 0 {
			return nil, errors.Wrapf(ErrInvalidSnapshot, "image %d has no data", i)
		}
		m, _, err := image.Decode(bytes.NewReader(si.Data))
		if err != nil {
			return nil, errors.Wrapf(err, "decoding image %d", i)
		}
		b := m.Bounds()
		if b.Dx() != si.Width || b.Dy() != si.Height {
			return nil, errors.Wrapf(ErrInvalidSnapshot, "image %d declares %dx%d but decodes to %dx%d",
				i, si.Width, si.Height, b.Dx(), b.Dy())
		}
		base.Images = append(base.Images, Image{Pixels: ToNRGBA(m), Scale: si.Scale})
	}
	return base, nil
}

// LogicalSizes returns the sorted, de-duplicated logical sizes of the payload,
// computed the same way the UI computes them (round(width / scale)).
func (p *SerializableBase) LogicalSizes() []int {
	if p == nil {
		return nil
	}
	sizes := make([]int, 0, len(p.Images))
	for _, si := range p.Images {
		sizes = append(sizes, si.LogicalSize())
	}
	slices.Sort(sizes)
	return slices.Compact(sizes)
}

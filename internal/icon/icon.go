package icon

import (
	"image"
	"math"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSnapshot indicates a Base that cannot be encoded: no images,
// a nil bitmap, or a zero-sized bitmap.
var ErrInvalidSnapshot = errors.New("invalid icon snapshot")

// Image is one raw bitmap of the folder icon.
type Image struct {
	// Pixels holds non-premultiplied RGBA pixel data.
	Pixels *image.NRGBA

	// Scale is the display scale the bitmap targets (1 standard, 2 retina).
	Scale float64
}

// Width returns the pixel width of the bitmap, or 0 if it is nil.
func (img Image) Width() int {
	if img.Pixels == nil {
		return 0
	}
	return img.Pixels.Bounds().Dx()
}

// Height returns the pixel height of the bitmap, or 0 if it is nil.
func (img Image) Height() int {
	if img.Pixels == nil {
		return 0
	}
	return img.Pixels.Bounds().Dy()
}

// LogicalSize returns the width in logical (scale 1) pixels.
func (img Image) LogicalSize() int {
	return logicalSize(img.Width(), img.Scale)
}

// Base is a snapshot of the platform's default folder icon.
// A Base returned by a platform handle may alias the handle's memory and is
// only valid until the next query of that handle.
type Base struct {
	Images []Image
}

// Validate reports whether every image in the snapshot can be encoded.
func (b *Base) Validate() error {
	if b == nil || len(b.Images) == 0 {
		return errors.Wrap(ErrInvalidSnapshot, "no images")
	}
	for i, img := range b.Images {
		if img.Pixels == nil {
			return errors.Wrapf(ErrInvalidSnapshot, "image %d has no pixel data", i)
		}
		if img.Width() == 0 || img.Height() == 0 {
			return errors.Wrapf(ErrInvalidSnapshot, "image %d has zero size %dx%d", i, img.Width(), img.Height())
		}
		if img.Scale <= 0 || math.IsNaN(img.Scale) {
			return errors.Wrapf(ErrInvalidSnapshot, "image %d has invalid scale %v", i, img.Scale)
		}
	}
	return nil
}

// LogicalSizes returns the sorted, de-duplicated logical sizes of the snapshot.
func (b *Base) LogicalSizes() []int {
	if b == nil {
		return nil
	}
	sizes := make([]int, 0, len(b.Images))
	for _, img := range b.Images {
		sizes = append(sizes, img.LogicalSize())
	}
	slices.Sort(sizes)
	return slices.Compact(sizes)
}

// Clone returns a deep copy of the snapshot that no longer aliases the
// handle that produced it.
func (b *Base) Clone() *Base {
	if b == nil {
		return nil
	}
	out := &Base{Images: make([]Image, len(b.Images))}
	for i, img := range b.Images {
		out.Images[i] = Image{Pixels: cloneNRGBA(img.Pixels), Scale: img.Scale}
	}
	return out
}

// SortImages orders images by logical size, then scale, so payloads are
// deterministic regardless of source enumeration order.
func SortImages(images []Image) {
	slices.SortStableFunc(images, func(a, b Image) int {
		if d := a.LogicalSize() - b.LogicalSize(); d != 0 {
			return d
		}
		switch {
		case a.Scale < b.Scale:
			return -1
		case a.Scale > b.Scale:
			return 1
		}
		return 0
	})
}

// ToNRGBA converts any image to a tightly packed *image.NRGBA anchored at the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return nil
	}
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return dst
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	if src == nil {
		return nil
	}
	dst := &image.NRGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}
	copy(dst.Pix, src.Pix)
	return dst
}

func logicalSize(width int, scale float64) int {
	if scale <= 0 {
		return width
	}
	return int(math.Round(float64(width) / scale))
}

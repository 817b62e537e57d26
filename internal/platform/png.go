package platform

import (
	"bytes"
	"image"
	"image/png"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

// MaxImageDimension bounds the width and height of any decoded source
// bitmap.
const MaxImageDimension = 1024

// ErrImageTooLarge is returned for bitmaps wider or taller than
// MaxImageDimension.
var ErrImageTooLarge = errors.New("icon image too large")

// decodePNG decodes data after checking the dimensions declared in its
// header, so an oversized canvas is rejected before any pixel allocation.
func decodePNG(data []byte) (*image.NRGBA, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "reading PNG header")
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	m, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding PNG")
	}
	return icon.ToNRGBA(m), nil
}

func checkDimensions(w, h int) error {
	if w > MaxImageDimension || h > MaxImageDimension {
		return errors.Wrapf(ErrImageTooLarge, "%dx%d exceeds %dx%d", w, h, MaxImageDimension, MaxImageDimension)
	}
	return nil
}

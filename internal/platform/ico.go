package platform

import (
	"bytes"
	"encoding/binary"
	"image"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

// ErrInvalidICO is returned for malformed ICO files, icon groups or DIBs.
var ErrInvalidICO = errors.New("invalid icon data")

const (
	icoTypeIcon      = 1
	icoHeaderSize    = 6
	icoDirEntrySize  = 16
	grpDirEntrySize  = 14
	bitmapHeaderSize = 40
)

// groupEntry is one GRPICONDIRENTRY of an RT_GROUP_ICON resource.
type groupEntry struct {
	Width, Height int
	BitCount      int
	ID            uint16
}

// parseGroupIcon reads an RT_GROUP_ICON resource.
func parseGroupIcon(data []byte) ([]groupEntry, error) {
	count, err := icoHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < icoHeaderSize+count*grpDirEntrySize {
		return nil, errors.Wrapf(ErrInvalidICO, "group declares %d entries in %d bytes", count, len(data))
	}
	entries := make([]groupEntry, 0, count)
	for i := range count {
		e := data[icoHeaderSize+i*grpDirEntrySize:]
		entries = append(entries, groupEntry{
			Width:    dimension(e[0]),
			Height:   dimension(e[1]),
			BitCount: int(binary.LittleEndian.Uint16(e[6:8])),
			ID:       binary.LittleEndian.Uint16(e[12:14]),
		})
	}
	return entries, nil
}

// DecodeICO decodes every 32-bit or PNG image of an .ico file at scale 1.
func DecodeICO(data []byte, opts LoadOptions) ([]icon.Image, error) {
	log := opts.logger().With("source", SourceFile)

	count, err := icoHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < icoHeaderSize+count*icoDirEntrySize {
		return nil, errors.Wrapf(ErrInvalidICO, "directory declares %d entries in %d bytes", count, len(data))
	}

	var images []icon.Image
	for i := range count {
		e := data[icoHeaderSize+i*icoDirEntrySize:]
		size := int(binary.LittleEndian.Uint32(e[8:12]))
		off := int(binary.LittleEndian.Uint32(e[12:16]))
		if off < 0 || size <= 0 || off+size > len(data) {
			return nil, errors.Wrapf(ErrInvalidICO, "entry %d out of range", i)
		}
		m, err := decodeIconImage(data[off : off+size])
		if err != nil {
			log.Debug("skipping ico entry", "index", i, "error", err)
			continue
		}
		images = append(images, icon.Image{Pixels: m, Scale: 1})
	}

	images = keepSizes(images, opts.Sizes)
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

func icoHeader(data []byte) (int, error) {
	if len(data) < icoHeaderSize {
		return 0, errors.Wrap(ErrInvalidICO, "short header")
	}
	if binary.LittleEndian.Uint16(data[0:2]) != 0 || binary.LittleEndian.Uint16(data[2:4]) != icoTypeIcon {
		return 0, errors.Wrap(ErrInvalidICO, "not an icon directory")
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	if count == 0 {
		return 0, errors.Wrap(ErrInvalidICO, "empty icon directory")
	}
	return count, nil
}

// dimension decodes an ICO width/height byte, where 0 means 256.
func dimension(b byte) int {
	if b == 0 {
		return 256
	}
	return int(b)
}

// decodeIconImage decodes one icon image: either an embedded PNG or a
// 32-bit BITMAPINFOHEADER DIB with its AND mask.
func decodeIconImage(data []byte) (*image.NRGBA, error) {
	if bytes.HasPrefix(data, pngMagic) {
		m, err := decodePNG(data)
		if err != nil {
			return nil, errors.Wrap(err, "decoding PNG icon")
		}
		return m, nil
	}
	return decodeDIB(data)
}

func decodeDIB(data []byte) (*image.NRGBA, error) {
	if len(data) < bitmapHeaderSize {
		return nil, errors.Wrap(ErrInvalidICO, "short bitmap header")
	}
	hdr := int(binary.LittleEndian.Uint32(data[0:4]))
	w := int(int32(binary.LittleEndian.Uint32(data[4:8])))
	h := int(int32(binary.LittleEndian.Uint32(data[8:12]))) / 2
	bpp := int(binary.LittleEndian.Uint16(data[14:16]))
	compression := binary.LittleEndian.Uint32(data[16:20])

	if hdr < bitmapHeaderSize || w <= 0 || h <= 0 || w > MaxImageDimension || h > MaxImageDimension {
		return nil, errors.Wrapf(ErrInvalidICO, "bad bitmap geometry %dx%d", w, h)
	}
	if hdr > len(data) {
		return nil, errors.Wrapf(ErrInvalidICO, "bitmap header size %d exceeds %d bytes", hdr, len(data))
	}
	if bpp != 32 || compression != 0 {
		return nil, errors.Wrapf(ErrInvalidICO, "unsupported bitmap format: %d bpp, compression %d", bpp, compression)
	}

	stride := w * 4
	maskStride := ((w + 31) / 32) * 4
	pix := data[hdr:]
	if len(pix) < stride*h {
		return nil, errors.Wrap(ErrInvalidICO, "truncated bitmap")
	}
	mask := pix[stride*h:]
	hasMask := len(mask) >= maskStride*h

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	anyAlpha := false
	for y := range h {
		src := pix[(h-1-y)*stride:]
		for x := range w {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = src[x*4+2]
			img.Pix[i+1] = src[x*4+1]
			img.Pix[i+2] = src[x*4+0]
			img.Pix[i+3] = src[x*4+3]
			if src[x*4+3] != 0 {
				anyAlpha = true
			}
		}
	}

	// Bitmaps without an alpha channel rely on the AND mask.
	if !anyAlpha {
		for y := range h {
			var row []byte
			if hasMask {
				row = mask[(h-1-y)*maskStride:]
			}
			for x := range w {
				a := uint8(0xff)
				if row != nil && row[x/8]&(0x80>>(x%8)) != 0 {
					a = 0
				}
				img.Pix[img.PixOffset(x, y)+3] = a
			}
		}
	}
	return img, nil
}

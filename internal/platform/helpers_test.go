package platform

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/folco/internal/icon"
)

// stubLoader is a test Loader returning fixed images or an error.
type stubLoader struct {
	name   string
	images []icon.Image
	err    error
	calls  int
}

func (s *stubLoader) Name() string { return s.name }

func (s *stubLoader) Load(LoadOptions) ([]icon.Image, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]icon.Image, len(s.images))
	copy(out, s.images)
	return out, nil
}

func solid(n int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := range n {
		for x := range n {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, n int, c color.NRGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(n, c)); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

// icnsElement is one element of a synthetic icns container.
type icnsElement struct {
	typ  string
	data []byte
}

func buildICNS(elems ...icnsElement) []byte {
	var body bytes.Buffer
	for _, e := range elems {
		body.WriteString(e.typ)
		_ = binary.Write(&body, binary.BigEndian, uint32(8+len(e.data)))
		body.Write(e.data)
	}
	var out bytes.Buffer
	out.WriteString("icns")
	_ = binary.Write(&out, binary.BigEndian, uint32(8+body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// buildDIB encodes a bottom-up 32-bit BGRA icon bitmap with an all-zero
// AND mask.
func buildDIB(n int, c color.NRGBA) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint32(bitmapHeaderSize))
	_ = binary.Write(&buf, le, int32(n))
	_ = binary.Write(&buf, le, int32(n*2))
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, uint16(32))
	_ = binary.Write(&buf, le, uint32(0))
	buf.Write(make([]byte, bitmapHeaderSize-20))
	for range n * n {
		buf.Write([]byte{c.B, c.G, c.R, c.A})
	}
	buf.Write(make([]byte, ((n+31)/32)*4*n))
	return buf.Bytes()
}

// buildICO assembles an .ico file from raw image payloads.
func buildICO(payloads ...[]byte) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, uint16(0))
	_ = binary.Write(&buf, le, uint16(icoTypeIcon))
	_ = binary.Write(&buf, le, uint16(len(payloads)))
	off := icoHeaderSize + icoDirEntrySize*len(payloads)
	for _, p := range payloads {
		buf.Write([]byte{0, 0, 0, 0})
		_ = binary.Write(&buf, le, uint16(1))
		_ = binary.Write(&buf, le, uint16(32))
		_ = binary.Write(&buf, le, uint32(len(p)))
		_ = binary.Write(&buf, le, uint32(off))
		off += len(p)
	}
	for _, p := range payloads {
		buf.Write(p)
	}
	return buf.Bytes()
}

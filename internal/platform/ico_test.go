package platform

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/logging"
)

func TestDecodeDIB(t *testing.T) {
	c := color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}
	img, err := decodeDIB(buildDIB(4, c))
	if err != nil {
		t.Fatalf("decodeDIB() error = %v", err)
	}
	if img.Rect.Dx() != 4 || img.Rect.Dy() != 4 {
		t.Fatalf("size = %v, want 4x4", img.Rect)
	}
	if got := img.NRGBAAt(3, 0); got != c {
		t.Errorf("pixel = %v, want %v", got, c)
	}
}

func TestDecodeDIB_MaskOnly(t *testing.T) {
	// No alpha in the color plane: the AND mask decides visibility.
	data := buildDIB(2, color.NRGBA{R: 9, A: 0})
	maskStart := len(data) - 4*2
	// Top row is stored last; mark its first pixel transparent.
	data[maskStart+4] = 0x80

	img, err := decodeDIB(data)
	if err != nil {
		t.Fatalf("decodeDIB() error = %v", err)
	}
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("masked pixel alpha = %d, want 0", a)
	}
	if a := img.NRGBAAt(1, 1).A; a != 0xff {
		t.Errorf("unmasked pixel alpha = %d, want 255", a)
	}
}

func TestDecodeDIB_Unsupported(t *testing.T) {
	data := buildDIB(2, color.NRGBA{A: 255})
	binary.LittleEndian.PutUint16(data[14:16], 8)
	if _, err := decodeDIB(data); !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeDIB(8bpp) error = %v, want ErrInvalidICO", err)
	}
	if _, err := decodeDIB(data[:10]); !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeDIB(short) error = %v, want ErrInvalidICO", err)
	}
}

func TestDecodeDIB_HeaderBeyondData(t *testing.T) {
	data := buildDIB(2, color.NRGBA{A: 255})
	binary.LittleEndian.PutUint32(data[0:4], 1000)

	_, err := decodeDIB(data)
	if !errors.Is(err, ErrInvalidICO) {
		t.Errorf("decodeDIB(header 1000) error = %v, want ErrInvalidICO", err)
	}
}

func TestBuilder_CorruptICOFallsBackToBuiltin(t *testing.T) {
	dib := buildDIB(2, color.NRGBA{A: 255})
	binary.LittleEndian.PutUint32(dib[0:4], 1000)
	path := filepath.Join(t.TempDir(), "folder.ico")
	writeFile(t, path, buildICO(dib))

	ctx, err := NewBuilder().
		WithRegistry(NewDefaultRegistry(LoaderConfig{File: path})).
		WithSources(SourceFile).
		WithFallback(true).
		WithSizes(16).
		WithLogger(logging.ForTest(t)).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if ctx.Source() != SourceBuiltin {
		t.Errorf("Source() = %q, want %q", ctx.Source(), SourceBuiltin)
	}
}

func TestDecodeICO(t *testing.T) {
	c := color.NRGBA{G: 200, A: 255}
	data := buildICO(pngBytes(t, 48, c), buildDIB(16, c), []byte("garbage"))

	images, err := DecodeICO(data, LoadOptions{Logger: logging.ForTest(t)})
	if err != nil {
		t.Fatalf("DecodeICO() error = %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("len(images) = %d, want 2", len(images))
	}

	images, err = DecodeICO(data, LoadOptions{Sizes: []int{16}, Logger: logging.ForTest(t)})
	if err != nil {
		t.Fatalf("DecodeICO(sizes=16) error = %v", err)
	}
	if len(images) != 1 || images[0].Width() != 16 {
		t.Errorf("DecodeICO(sizes=16) = %d images, want one 16px image", len(images))
	}
}

func TestDecodeICO_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "short", data: []byte{0, 0}},
		{name: "cursor type", data: []byte{0, 0, 2, 0, 1, 0}},
		{name: "empty directory", data: []byte{0, 0, 1, 0, 0, 0}},
		{name: "truncated directory", data: []byte{0, 0, 1, 0, 2, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeICO(tt.data, LoadOptions{}); !errors.Is(err, ErrInvalidICO) {
				t.Errorf("DecodeICO() error = %v, want ErrInvalidICO", err)
			}
		})
	}
}

func TestParseGroupIcon(t *testing.T) {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, []uint16{0, 1, 2})
	// 256px (encoded as 0), 32 bpp, id 7
	buf.Write([]byte{0, 0, 0, 0})
	_ = binary.Write(&buf, le, []uint16{1, 32})
	_ = binary.Write(&buf, le, uint32(1000))
	_ = binary.Write(&buf, le, uint16(7))
	// 16px, 8 bpp, id 9
	buf.Write([]byte{16, 16, 0, 0})
	_ = binary.Write(&buf, le, []uint16{1, 8})
	_ = binary.Write(&buf, le, uint32(200))
	_ = binary.Write(&buf, le, uint16(9))

	entries, err := parseGroupIcon(buf.Bytes())
	if err != nil {
		t.Fatalf("parseGroupIcon() error = %v", err)
	}
	want := []groupEntry{
		{Width: 256, Height: 256, BitCount: 32, ID: 7},
		{Width: 16, Height: 16, BitCount: 8, ID: 9},
	}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

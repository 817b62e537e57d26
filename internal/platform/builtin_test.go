package platform

import (
	"testing"

	"github.com/thoreinstein/folco/internal/errors"
)

func TestBuiltinLoader_Load(t *testing.T) {
	images, err := (&BuiltinLoader{}).Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := len(builtinSizes) + len(builtinRetinaSizes); len(images) != want {
		t.Errorf("len(images) = %d, want %d", len(images), want)
	}
	for _, img := range images {
		if img.Width() != img.Height() {
			t.Errorf("image %dx%d is not square", img.Width(), img.Height())
		}
	}
}

func TestBuiltinLoader_Sizes(t *testing.T) {
	images, err := (&BuiltinLoader{}).Load(LoadOptions{Sizes: []int{32}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("len(images) = %d, want 2 (1x and 2x)", len(images))
	}

	_, err = (&BuiltinLoader{}).Load(LoadOptions{Sizes: []int{17}})
	if !errors.Is(err, ErrNoImages) {
		t.Errorf("Load(17) error = %v, want ErrNoImages", err)
	}
}

func TestDrawFolder(t *testing.T) {
	img := drawFolder(64)

	// Corners are outside the glyph.
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	// The front panel center is fully opaque.
	if a := img.NRGBAAt(32, 40).A; a != 255 {
		t.Errorf("center alpha = %d, want 255", a)
	}
	// The tab sits above the front panel on the left only.
	if a := img.NRGBAAt(10, 10).A; a != 255 {
		t.Errorf("tab alpha = %d, want 255", a)
	}
	if a := img.NRGBAAt(54, 10).A; a != 0 {
		t.Errorf("right of tab alpha = %d, want 0", a)
	}
}

package commands

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/folco/internal/app"
	"github.com/thoreinstein/folco/internal/cli/prompt"
	"github.com/thoreinstein/folco/internal/config"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/ipc"
	"github.com/thoreinstein/folco/internal/logging"
	"github.com/thoreinstein/folco/internal/platform"
)

// builtinApp builds an app serving the built-in drawing at 16 and 32.
func builtinApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.Default()
	cfg.Icon.Sources = []string{platform.SourceBuiltin}
	cfg.Icon.Sizes = []int{16, 32}

	a, err := newApp(cfg, logging.ForTest(t))
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	return a
}

func fetchBuiltin(t *testing.T) (ipc.Response, *icon.SerializableBase) {
	t.Helper()
	resp, payload, err := fetchIconBase(t.Context(), builtinApp(t))
	if err != nil {
		t.Fatalf("fetchIconBase() error = %v", err)
	}
	return resp, payload
}

// stubPicker returns a fixed selection.
type stubPicker struct {
	indices []int
	err     error
	offered int
}

func (p *stubPicker) Pick(images []icon.SerializableImage) ([]int, error) {
	p.offered = len(images)
	return p.indices, p.err
}

func TestNewApp_InitFailureIsSystemError(t *testing.T) {
	cfg := config.Default()
	cfg.Icon.Sources = []string{platform.SourceFile}
	cfg.Icon.File = filepath.Join(t.TempDir(), "missing.png")
	cfg.Icon.Fallback = false

	_, err := newApp(cfg, logging.ForTest(t))
	if err == nil {
		t.Fatal("newApp() = nil error, want failure")
	}
	if code := errors.ExitCode(err); code != errors.ExitSystem {
		t.Errorf("ExitCode() = %d, want %d", code, errors.ExitSystem)
	}
}

func TestWriteIconGet_Table(t *testing.T) {
	resp, payload := fetchBuiltin(t)

	var buf bytes.Buffer
	if err := writeIconGet(&buf, resp, payload, false); err != nil {
		t.Fatalf("writeIconGet() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"SIZE", "SCALE", "PIXELS", "16x16", "32x32", "png", "2 image(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteIconGet_JSON(t *testing.T) {
	resp, payload := fetchBuiltin(t)

	var buf bytes.Buffer
	if err := writeIconGet(&buf, resp, payload, true); err != nil {
		t.Fatalf("writeIconGet() error = %v", err)
	}

	var got icon.SerializableBase
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not the payload: %v\n%s", err, buf.String())
	}
	if len(got.Images) != 2 {
		t.Fatalf("len(images) = %d, want 2", len(got.Images))
	}
	if !bytes.Equal(got.Images[0].Data, payload.Images[0].Data) {
		t.Error("JSON output data differs from the payload")
	}
}

func TestExportName(t *testing.T) {
	tests := []struct {
		img  icon.SerializableImage
		want string
	}{
		{icon.SerializableImage{Width: 16, Height: 16, Scale: 1, Format: "png"}, "folder-16@1x.png"},
		{icon.SerializableImage{Width: 64, Height: 64, Scale: 2, Format: "png"}, "folder-32@2x.png"},
		{icon.SerializableImage{Width: 48, Height: 48, Scale: 1.5}, "folder-32@1.5x.png"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := exportName(tt.img); got != tt.want {
				t.Errorf("exportName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportIcons_All(t *testing.T) {
	_, payload := fetchBuiltin(t)
	dir := filepath.Join(t.TempDir(), "icons")

	var buf bytes.Buffer
	if err := exportIcons(&buf, dir, payload, nil); err != nil {
		t.Fatalf("exportIcons() error = %v", err)
	}

	for _, name := range []string{"folder-16@1x.png", "folder-32@1x.png"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Errorf("%s is not a decodable image: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("parsing manifest: %v", err)
	}
	if len(m.Images) != 2 {
		t.Fatalf("manifest has %d images, want 2", len(m.Images))
	}
	if m.Images[0].File != "folder-16@1x.png" || m.Images[0].Size != 16 {
		t.Errorf("manifest[0] = %+v", m.Images[0])
	}
	if !strings.Contains(buf.String(), "Exported 2 image(s)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestExportIcons_Picked(t *testing.T) {
	_, payload := fetchBuiltin(t)
	dir := t.TempDir()
	picker := &stubPicker{indices: []int{1}}

	var buf bytes.Buffer
	if err := exportIcons(&buf, dir, payload, picker); err != nil {
		t.Fatalf("exportIcons() error = %v", err)
	}

	if picker.offered != 2 {
		t.Errorf("picker offered %d images, want 2", picker.offered)
	}
	if _, err := os.Stat(filepath.Join(dir, "folder-32@1x.png")); err != nil {
		t.Errorf("picked image not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "folder-16@1x.png")); !os.IsNotExist(err) {
		t.Errorf("unpicked image should not be written")
	}
}

func TestExportIcons_Cancelled(t *testing.T) {
	_, payload := fetchBuiltin(t)
	dir := filepath.Join(t.TempDir(), "icons")

	var buf bytes.Buffer
	err := exportIcons(&buf, dir, payload, &stubPicker{err: prompt.ErrSelectionCancelled})
	if err != nil {
		t.Fatalf("exportIcons() error = %v, want nil on cancel", err)
	}
	if !strings.Contains(buf.String(), "Export cancelled.") {
		t.Errorf("output = %q", buf.String())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("cancelled export should not create the directory")
	}
}

func solid(w int, scale float64) icon.Image {
	return icon.Image{Pixels: image.NewNRGBA(image.Rect(0, 0, w, w)), Scale: scale}
}

func TestClosestImage(t *testing.T) {
	base := &icon.Base{Images: []icon.Image{solid(16, 1), solid(32, 1), solid(64, 2)}}

	tests := []struct {
		size int
		want int
	}{
		{16, 16},
		{20, 16},
		{24, 32},
		{48, 64},
		{1024, 64},
	}

	for _, tt := range tests {
		img, ok := closestImage(base, tt.size)
		if !ok {
			t.Fatalf("closestImage(%d) found nothing", tt.size)
		}
		if img.Width() != tt.want {
			t.Errorf("closestImage(%d).Width() = %d, want %d", tt.size, img.Width(), tt.want)
		}
	}

	if _, ok := closestImage(&icon.Base{}, 16); ok {
		t.Error("closestImage(empty) should report no image")
	}
}

func TestPreviewIcon(t *testing.T) {
	_, payload := fetchBuiltin(t)
	base, err := payload.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var buf bytes.Buffer
	if err := previewIcon(&buf, base, 16, 0); err != nil {
		t.Fatalf("previewIcon() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "16x16 @1x" {
		t.Errorf("header = %q, want %q", lines[0], "16x16 @1x")
	}
	if got := len(lines) - 1; got != 8 {
		t.Errorf("rendered %d rows, want 8 for a 16px image", got)
	}
}

func TestPreviewIcon_NoImages(t *testing.T) {
	var buf bytes.Buffer
	if err := previewIcon(&buf, &icon.Base{}, 16, 0); err == nil {
		t.Error("previewIcon(empty) = nil, want error")
	}
}

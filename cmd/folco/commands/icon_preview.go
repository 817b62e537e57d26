package commands

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/preview"
)

var iconPreviewSize int

func init() {
	iconPreviewCmd.Flags().IntVar(&iconPreviewSize, "size", 32,
		"pixel width of the image to show; the closest available is used")
	iconCmd.AddCommand(iconPreviewCmd)
}

var iconPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Draw the folder icon in the terminal",
	Long: `Draw one image of the folder icon in the terminal using half-block
characters. Images wider than the terminal are scaled down to fit.`,
	Example: `  folco icon preview
  folco icon preview --size 64`,
	RunE: runIconPreview,
}

func runIconPreview(cmd *cobra.Command, _ []string) error {
	if iconPreviewSize <= 0 {
		return errors.NewUserError(errors.Newf("invalid size %d", iconPreviewSize), "--size must be positive")
	}

	cfg, err := currentConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, commandLogger(cmd))
	if err != nil {
		return err
	}

	_, payload, err := fetchIconBase(cmd.Context(), a)
	if err != nil {
		return err
	}
	base, err := payload.Decode()
	if err != nil {
		return err
	}

	return previewIcon(cmd.OutOrStdout(), base, iconPreviewSize, terminalWidth())
}

// previewIcon draws the image of base closest to size pixels wide.
func previewIcon(w io.Writer, base *icon.Base, size, maxCols int) error {
	img, ok := closestImage(base, size)
	if !ok {
		return errors.New("icon has no images")
	}

	fmt.Fprintf(w, "%dx%d @%gx\n", img.Width(), img.Height(), img.Scale)
	_, err := io.WriteString(w, preview.NewRenderer(w).Render(img.Pixels, maxCols))
	return err
}

// closestImage picks the image whose pixel width is nearest to size,
// preferring the larger one on ties.
func closestImage(base *icon.Base, size int) (icon.Image, bool) {
	var best icon.Image
	found := false
	bestDiff := math.MaxInt
	for _, img := range base.Images {
		if img.Pixels == nil {
			continue
		}
		diff := img.Width() - size
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff || (diff == bestDiff && img.Width() > best.Width()) {
			best, bestDiff, found = img, diff, true
		}
	}
	return best, found
}

// terminalWidth returns the stdout width in columns, or 0 when stdout is
// not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/thoreinstein/folco/internal/cli/prompt"
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
	"github.com/thoreinstein/folco/internal/paths"
	"github.com/thoreinstein/folco/pkg/fileutil"
)

// manifestName is written next to the exported images.
const manifestName = "manifest.json"

var (
	iconExportDir  string
	iconExportPick bool
)

// newPicker chooses the picker for --pick. Tests replace it.
var newPicker = func() prompt.Picker {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return prompt.FuzzyPicker{}
	}
	return prompt.NewSelector()
}

func init() {
	iconExportCmd.Flags().StringVarP(&iconExportDir, "dir", "d", "",
		"output directory (created if missing)")
	iconExportCmd.Flags().BoolVar(&iconExportPick, "pick", false,
		"choose which images to export interactively")
	_ = iconExportCmd.MarkFlagRequired("dir")
	iconCmd.AddCommand(iconExportCmd)
}

var iconExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the folder icon images to PNG files",
	Long: `Write each image of the folder icon to <dir>/folder-<size>@<scale>x.png
and describe them in <dir>/manifest.json.

With --pick, a fuzzy finder (or a numbered prompt when stdin is not a
terminal) selects the images to write.`,
	Example: `  # Export every image
  folco icon export --dir ./icons

  # Export a chosen subset
  folco icon export --dir ./icons --pick

See Also: folco icon get, folco icon preview`,
	RunE: runIconExport,
}

// manifest describes an export directory.
type manifest struct {
	Images []manifestEntry `json:"images"`
}

type manifestEntry struct {
	File   string  `json:"file"`
	Size   int     `json:"size"`
	Scale  float64 `json:"scale"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

func runIconExport(cmd *cobra.Command, _ []string) error {
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

	var picker prompt.Picker
	if iconExportPick {
		picker = newPicker()
	}
	return exportIcons(cmd.OutOrStdout(), iconExportDir, payload, picker)
}

// exportIcons writes the selected images and the manifest to dir. A nil
// picker exports every image.
func exportIcons(w io.Writer, dir string, payload *icon.SerializableBase, picker prompt.Picker) error {
	selected := make([]int, len(payload.Images))
	for i := range selected {
		selected[i] = i
	}
	if picker != nil {
		var err error
		selected, err = picker.Pick(payload.Images)
		if errors.Is(err, prompt.ErrSelectionCancelled) {
			fmt.Fprintln(w, "Export cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := paths.EnsureDir(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	m := manifest{Images: make([]manifestEntry, 0, len(selected))}
	for _, i := range selected {
		img := payload.Images[i]
		name := exportName(img)
		if err := fileutil.AtomicWriteFile(filepath.Join(dir, name), img.Data, fileutil.DefaultFilePerm); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
		m.Images = append(m.Images, manifestEntry{
			File:   name,
			Size:   img.LogicalSize(),
			Scale:  img.Scale,
			Width:  img.Width,
			Height: img.Height,
		})
		fmt.Fprintf(w, "wrote %s\n", name)
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), m); err != nil {
		return errors.Wrap(err, "writing manifest")
	}
	fmt.Fprintf(w, "Exported %d image(s) to %s\n", len(m.Images), dir)
	return nil
}

// exportName returns folder-<size>@<scale>x.<format>, e.g. folder-16@2x.png.
func exportName(img icon.SerializableImage) string {
	format := img.Format
	if format == "" {
		format = icon.FormatPNG
	}
	return fmt.Sprintf("folder-%d@%gx.%s", img.LogicalSize(), img.Scale, format)
}

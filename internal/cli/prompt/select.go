// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

// Sentinel errors for image selection.
var (
	ErrNoImages           = errors.New("no images to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Picker chooses a subset of payload images. It returns indexes into
// images in ascending order.
type Picker interface {
	Pick(images []icon.SerializableImage) ([]int, error)
}

// Label describes an image the way both pickers list it,
// e.g. "32x32 @2x (16pt)".
func Label(img icon.SerializableImage) string {
	return fmt.Sprintf("%dx%d @%gx (%dpt)", img.Width, img.Height, img.Scale, img.LogicalSize())
}

// Selector is a line-based Picker for non-interactive terminals.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

var _ Picker = (*Selector)(nil)

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// Pick prompts the user to choose images by number.
//
// Input is a comma-separated list of 1-based numbers or ranges ("1,3-5").
// An empty line or "all" selects every image.
//
// Returns:
//   - ErrNoImages if the list is empty
//   - All indexes if only one image exists (auto-selects without prompting)
//   - ErrInvalidSelection if an entry is malformed or out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) Pick(images []icon.SerializableImage) ([]int, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	if len(images) == 1 {
		return []int{0}, nil
	}

	fmt.Fprintf(s.writer, "%d images available:\n", len(images))
	for i, img := range images {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, Label(img))
	}
	fmt.Fprintf(s.writer, "Select [all]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	return ParseSelection(input, len(images))
}

// ParseSelection parses a selection like "1,3-5" against n items and
// returns the chosen zero-based indexes, sorted and de-duplicated.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "all") {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	chosen := make([]bool, n)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			hi = lo
		}

		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", part)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", part)
		}
		if from < 1 || to > n || from > to {
			return nil, errors.Wrapf(ErrInvalidSelection, "%s is out of range [1-%d]", part, n)
		}
		for i := from; i <= to; i++ {
			chosen[i-1] = true
		}
	}

	var out []int
	for i, ok := range chosen {
		if ok {
			out = append(out, i)
		}
	}
	return out, nil
}

// FuzzyPicker is an interactive Picker backed by a fuzzy finder.
// Tab toggles an image; Enter confirms.
type FuzzyPicker struct{}

var _ Picker = FuzzyPicker{}

// Pick opens the fuzzy finder over images.
func (FuzzyPicker) Pick(images []icon.SerializableImage) ([]int, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	idx, err := fuzzyfinder.FindMulti(
		images,
		func(i int) string {
			return Label(images[i])
		},
		fuzzyfinder.WithHeader("tab: toggle, enter: export"),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			img := images[i]
			return fmt.Sprintf("Width:  %d\nHeight: %d\nScale:  %g\nSize:   %dpt\nFormat: %s\nBytes:  %d",
				img.Width,
				img.Height,
				img.Scale,
				img.LogicalSize(),
				img.Format,
				len(img.Data),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	return normalize(idx, len(images)), nil
}

func normalize(idx []int, n int) []int {
	seen := make([]bool, n)
	for _, i := range idx {
		if i >= 0 && i < n {
			seen[i] = true
		}
	}
	var out []int
	for i, ok := range seen {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

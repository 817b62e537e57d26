package platform

import (
	"github.com/thoreinstein/folco/internal/errors"
	"github.com/thoreinstein/folco/internal/icon"
)

// SourceStatus indicates whether an icon source works on this machine.
type SourceStatus string

const (
	// StatusAvailable indicates the source produced images.
	StatusAvailable SourceStatus = "available"

	// StatusUnavailable indicates the source is supported but failed,
	// e.g. the theme or file is missing.
	StatusUnavailable SourceStatus = "unavailable"

	// StatusUnsupported indicates the source cannot run on this platform.
	StatusUnsupported SourceStatus = "unsupported"
)

// DetectionResult describes one probed icon source.
type DetectionResult struct {
	// Source is the source name.
	Source string

	// Status is the probe outcome.
	Status SourceStatus

	// Images is the number of images the source produced.
	Images int

	// Sizes lists the distinct logical sizes found.
	Sizes []int

	// Err is the load error for unavailable or unsupported sources.
	Err error
}

// DetectSource loads a single source and reports the result.
// Returns nil if the source is not registered.
func DetectSource(r *Registry, name string, opts LoadOptions) *DetectionResult {
	loader, ok := r.Get(name)
	if !ok {
		return nil
	}

	result := &DetectionResult{Source: name}
	images, err := loader.Load(opts)
	switch {
	case errors.Is(err, ErrUnsupportedPlatform):
		result.Status = StatusUnsupported
		result.Err = err
	case err != nil:
		result.Status = StatusUnavailable
		result.Err = err
	default:
		result.Status = StatusAvailable
		result.Images = len(images)
		result.Sizes = (&icon.Base{Images: images}).LogicalSizes()
	}
	return result
}

// Detect probes every registered source in registration order.
func Detect(r *Registry, opts LoadOptions) []*DetectionResult {
	names := r.Names()
	results := make([]*DetectionResult, 0, len(names))
	for _, name := range names {
		if res := DetectSource(r, name, opts); res != nil {
			results = append(results, res)
		}
	}
	return results
}

// Available returns the names of sources that produced images.
func Available(results []*DetectionResult) []string {
	var names []string
	for _, r := range results {
		if r.Status == StatusAvailable {
			names = append(names, r.Source)
		}
	}
	return names
}

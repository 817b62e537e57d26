package platform

import (
	"image"

	"github.com/thoreinstein/folco/internal/icon"
)

// Handle is the platform customization handle. It is NOT safe for
// concurrent use: the Base returned by FolderIconBase may alias internal
// storage that the next call overwrites.
type Handle interface {
	// FolderIconBase returns a snapshot of the platform's default folder
	// icon. The snapshot is only valid until the next call on the same
	// handle.
	FolderIconBase() *icon.Base
}

// Ensure Context implements Handle at compile time.
var _ Handle = (*Context)(nil)

// Context is the production Handle. It owns the decoded master images of
// the source it was built from and a scratch area that every query renders
// into.
type Context struct {
	source  string
	masters []icon.Image
	scratch []icon.Image
	queries uint64
}

// newContext takes ownership of images; callers must not retain them.
func newContext(source string, images []icon.Image) *Context {
	icon.SortImages(images)
	return &Context{
		source:  source,
		masters: images,
	}
}

// Source returns the name of the icon source the context was built from.
func (c *Context) Source() string {
	return c.source
}

// Queries returns how many snapshots the context has produced.
func (c *Context) Queries() uint64 {
	return c.queries
}

// FolderIconBase renders the folder icon into the context's scratch area
// and returns a Base that aliases it.
func (c *Context) FolderIconBase() *icon.Base {
	if len(c.scratch) != len(c.masters) {
		c.scratch = make([]icon.Image, len(c.masters))
	}
	for i, m := range c.masters {
		dst := c.scratch[i].Pixels
		if dst == nil || dst.Rect != m.Pixels.Rect {
			dst = image.NewNRGBA(m.Pixels.Rect)
		}
		copy(dst.Pix, m.Pixels.Pix)
		c.scratch[i] = icon.Image{Pixels: dst, Scale: m.Scale}
	}
	c.queries++
	return &icon.Base{Images: c.scratch}
}

package platform

import (
	"image"
	"slices"

	"github.com/thoreinstein/folco/internal/icon"
)

var (
	builtinSizes       = []int{16, 24, 32, 48, 64, 128, 256}
	builtinRetinaSizes = []int{16, 32, 64, 128, 256}
)

// Ensure BuiltinLoader implements Loader at compile time.
var _ Loader = (*BuiltinLoader)(nil)

// BuiltinLoader draws a generic folder glyph. It never fails and serves as
// the fallback when no platform source is available.
type BuiltinLoader struct{}

// Name returns "builtin".
func (*BuiltinLoader) Name() string { return SourceBuiltin }

// Load renders the glyph at every standard size, at 1x and 2x.
func (*BuiltinLoader) Load(opts LoadOptions) ([]icon.Image, error) {
	var images []icon.Image
	add := func(size int, scale int) {
		if len(opts.Sizes) > 0 && !slices.Contains(opts.Sizes, size) {
			return
		}
		images = append(images, icon.Image{
			Pixels: drawFolder(size * scale),
			Scale:  float64(scale),
		})
	}
	for _, s := range builtinSizes {
		add(s, 1)
	}
	for _, s := range builtinRetinaSizes {
		add(s, 2)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

type rgb struct{ r, g, b float64 }

var (
	folderBack     = rgb{0xD4, 0x9A, 0x2E}
	folderFrontTop = rgb{0xF6, 0xC9, 0x5E}
	folderFrontBot = rgb{0xEB, 0xB0, 0x40}
)

type roundRect struct{ x0, y0, x1, y1, r float64 }

func (rr roundRect) contains(x, y float64) bool {
	if x < rr.x0 || x > rr.x1 || y < rr.y0 || y > rr.y1 {
		return false
	}
	cx := min(max(x, rr.x0+rr.r), rr.x1-rr.r)
	cy := min(max(y, rr.y0+rr.r), rr.y1-rr.r)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= rr.r*rr.r
}

var (
	folderTab   = roundRect{0.06, 0.12, 0.44, 0.28, 0.04}
	folderBody  = roundRect{0.06, 0.18, 0.94, 0.86, 0.06}
	folderFront = roundRect{0.06, 0.30, 0.94, 0.86, 0.06}
)

// drawFolder renders the glyph into an n x n bitmap with 4x4 supersampling.
func drawFolder(n int) *image.NRGBA {
	const ss = 4
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	if n <= 0 {
		return img
	}
	step := 1 / float64(n*ss)
	for py := range n {
		for px := range n {
			var r, g, b, a float64
			for sy := range ss {
				y := (float64(py*ss+sy) + 0.5) * step
				for sx := range ss {
					x := (float64(px*ss+sx) + 0.5) * step
					var c rgb
					switch {
					case folderFront.contains(x, y):
						t := (y - folderFront.y0) / (folderFront.y1 - folderFront.y0)
						c = rgb{
							folderFrontTop.r + (folderFrontBot.r-folderFrontTop.r)*t,
							folderFrontTop.g + (folderFrontBot.g-folderFrontTop.g)*t,
							folderFrontTop.b + (folderFrontBot.b-folderFrontTop.b)*t,
						}
					case folderBody.contains(x, y), folderTab.contains(x, y):
						c = folderBack
					default:
						continue
					}
					r += c.r
					g += c.g
					b += c.b
					a++
				}
			}
			if a == 0 {
				continue
			}
			i := img.PixOffset(px, py)
			img.Pix[i+0] = uint8(r/a + 0.5)
			img.Pix[i+1] = uint8(g/a + 0.5)
			img.Pix[i+2] = uint8(b/a + 0.5)
			img.Pix[i+3] = uint8(a*255/(ss*ss) + 0.5)
		}
	}
	return img
}

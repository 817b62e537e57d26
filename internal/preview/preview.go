// Package preview renders bitmaps as terminal text using half-block
// characters: each cell shows two vertically stacked pixels, the upper one
// as the foreground of "▀" and the lower one as its background.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"

	// opaqueThreshold is the alpha at or above which a pixel is drawn.
	opaqueThreshold = 0x80
)

// Renderer draws images for one output. Colors are reduced to what the
// output supports; on a non-terminal output only the shape remains.
type Renderer struct {
	r *lipgloss.Renderer
}

// NewRenderer creates a renderer for w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{r: lipgloss.NewRenderer(w)}
}

// Render returns img as lines of half-block cells. Images wider than
// maxCols columns are scaled down with nearest-neighbour sampling;
// maxCols <= 0 disables scaling.
func (p *Renderer) Render(img image.Image, maxCols int) string {
	img = Fit(img, maxCols)
	b := img.Bounds()

	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			bottom := color.NRGBA{}
			if y+1 < b.Max.Y {
				bottom = color.NRGBAModel.Convert(img.At(x, y+1)).(color.NRGBA)
			}
			sb.WriteString(p.cell(top, bottom))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (p *Renderer) cell(top, bottom color.NRGBA) string {
	topOn := top.A >= opaqueThreshold
	bottomOn := bottom.A >= opaqueThreshold

	switch {
	case topOn && bottomOn:
		return p.r.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render(upperHalf)
	case topOn:
		return p.r.NewStyle().Foreground(hex(top)).Render(upperHalf)
	case bottomOn:
		return p.r.NewStyle().Foreground(hex(bottom)).Render(lowerHalf)
	default:
		return " "
	}
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Fit scales img down so it is at most maxCols pixels wide, keeping the
// aspect ratio. Images that already fit are returned unchanged.
func Fit(img image.Image, maxCols int) image.Image {
	b := img.Bounds()
	if maxCols <= 0 || b.Dx() <= maxCols {
		return img
	}

	w := maxCols
	h := max(1, b.Dy()*maxCols/b.Dx())
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		sy := b.Min.Y + y*b.Dy()/h
		for x := range w {
			sx := b.Min.X + x*b.Dx()/w
			out.Set(x, y, img.At(sx, sy))
		}
	}
	return out
}

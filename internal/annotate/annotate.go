// Package annotate renders screenshots for agent consumption: downsampled
// to a bounded size and overlaid with numbered markers whose IDs match the
// element cache, so a model can say "click 7" instead of guessing pixels.
package annotate

import (
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"screenpilot/internal/model"
)

// Maximum annotated output size. Large screenshots burn agent context;
// 1280x720 keeps text legible after downsampling.
const (
	MaxWidth  = 1280
	MaxHeight = 720
)

var (
	markerFill    = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	markerOutline = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	labelColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Downsample scales img to fit within MaxWidth x MaxHeight, preserving
// aspect ratio. Images already within bounds are returned unchanged along
// with a scale of 1.
func Downsample(img image.Image) (image.Image, float64) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxWidth && h <= MaxHeight {
		return img, 1
	}

	scale := min(float64(MaxWidth)/float64(w), float64(MaxHeight)/float64(h))
	outW := int(float64(w) * scale)
	outH := int(float64(h) * scale)

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out, scale
}

// Annotate draws a numbered marker at the center of each element. IDs are
// the elements' 1-based positions, matching cache IDs. scale maps screen
// coordinates to img coordinates (1 when img is full size).
func Annotate(img image.Image, elements []model.Element, scale float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	for i, el := range elements {
		cx, cy := el.Center()
		x := int(float64(cx) * scale)
		y := int(float64(cy) * scale)
		drawMarker(out, x, y, strconv.Itoa(i+1))
	}
	return out
}

// drawMarker paints a filled disc with a contrasting outline and the label
// centered on it.
func drawMarker(img *image.RGBA, cx, cy int, label string) {
	// Widen the disc for multi-digit labels.
	radius := 9 + 3*(len(label)-1)
	fillCircle(img, cx, cy, radius+1, markerOutline)
	fillCircle(img, cx, cy, radius, markerFill)
	drawLabel(img, cx, cy, label)
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				setPixel(img, cx+dx, cy+dy, c)
			}
		}
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLabel centers the label on (cx, cy) with the 7x13 basic font.
func drawLabel(img *image.RGBA, cx, cy int, label string) {
	face := basicfont.Face7x13
	width := len(label) * face.Advance
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(cx - width/2),
			Y: fixed.I(cy + face.Ascent/2 - 1),
		},
	}
	d.DrawString(label)
}

package annotate

import (
	"image"
	"image/color"
	"testing"

	"screenpilot/internal/model"
)

func TestDownsampleKeepsSmallImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 600))
	out, scale := Downsample(src)
	if scale != 1 {
		t.Errorf("scale = %v, want 1", scale)
	}
	if out != image.Image(src) {
		t.Error("images within bounds should pass through unchanged")
	}
}

func TestDownsampleScalesLargeImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3840, 2160))
	out, scale := Downsample(src)
	b := out.Bounds()
	if b.Dx() > MaxWidth || b.Dy() > MaxHeight {
		t.Errorf("downsampled image %dx%d exceeds %dx%d", b.Dx(), b.Dy(), MaxWidth, MaxHeight)
	}
	// 3840x2160 is 16:9, same as the target box, so it should fill it.
	if b.Dx() != MaxWidth || b.Dy() != MaxHeight {
		t.Errorf("16:9 source should scale to exactly %dx%d, got %dx%d", MaxWidth, MaxHeight, b.Dx(), b.Dy())
	}
	if scale >= 1 || scale <= 0 {
		t.Errorf("scale = %v, want in (0, 1)", scale)
	}
}

func TestDownsamplePreservesAspect(t *testing.T) {
	// Very wide image: width binds, height shrinks proportionally.
	src := image.NewRGBA(image.Rect(0, 0, 2560, 720))
	out, _ := Downsample(src)
	b := out.Bounds()
	if b.Dx() != MaxWidth {
		t.Errorf("width = %d, want %d", b.Dx(), MaxWidth)
	}
	if b.Dy() != 360 {
		t.Errorf("height = %d, want 360", b.Dy())
	}
}

func TestAnnotateDrawsMarkers(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	elements := []model.Element{
		model.NewAXElement("Save", [4]int{100, 100, 80, 30}, model.AXMeta{RoleName: "push button"}),
	}

	out := Annotate(src, elements, 1)

	// The marker disc is centered on the element's center (140, 115).
	got := out.RGBAAt(140, 115)
	if got == (color.RGBA{}) {
		t.Error("expected a painted marker at the element center")
	}
	if got != markerFill && got != labelColor {
		t.Errorf("center pixel = %v, want marker fill or label color", got)
	}

	// Pixels far away stay untouched.
	if out.RGBAAt(10, 10) != (color.RGBA{}) {
		t.Error("pixels outside markers should be unmodified")
	}
}

func TestAnnotateOffscreenMarkerIsClipped(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	elements := []model.Element{
		model.NewAXElement("Edge", [4]int{95, 95, 20, 20}, model.AXMeta{}),
	}
	// Must not panic drawing beyond the image edge.
	Annotate(src, elements, 1)
}

func TestAnnotateScalesCoordinates(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 150))
	elements := []model.Element{
		model.NewAXElement("Btn", [4]int{380, 280, 20, 20}, model.AXMeta{}),
	}
	// Screen is 400x300 but the image is half size.
	out := Annotate(src, elements, 0.5)

	if out.RGBAAt(195, 145) == (color.RGBA{}) {
		t.Error("marker should land at scaled coordinates")
	}
}

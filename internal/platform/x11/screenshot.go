package x11

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Screenshotter captures the display with scrot and reads the display size
// through xdotool.
type Screenshotter struct {
	run *runner
}

// NewScreenshotter returns a Screen backed by scrot and xdotool.
func NewScreenshotter(run *runner) *Screenshotter {
	return &Screenshotter{run: run}
}

// Capture grabs the full screen into a temp PNG and decodes it.
func (s *Screenshotter) Capture() (image.Image, error) {
	dir, err := os.MkdirTemp("", "screenpilot-shot-")
	if err != nil {
		return nil, fmt.Errorf("screenshot temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "screen.png")
	if _, err := s.run.run("scrot", "--overwrite", path); err != nil {
		return nil, fmt.Errorf("scrot: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}

// Size returns the display dimensions via xdotool getdisplaygeometry.
func (s *Screenshotter) Size() (int, int, error) {
	out, err := s.run.run("xdotool", "getdisplaygeometry")
	if err != nil {
		return 0, 0, fmt.Errorf("display geometry: %w", err)
	}
	return parseDisplayGeometry(out)
}

// parseDisplayGeometry parses "1920 1080".
func parseDisplayGeometry(out string) (int, int, error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected display geometry output: %q", out)
	}
	w, err1 := strconv.Atoi(fields[0])
	h, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("unexpected display geometry output: %q", out)
	}
	return w, h, nil
}

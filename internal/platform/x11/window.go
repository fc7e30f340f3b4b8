package x11

import (
	"fmt"
	"strconv"
	"strings"

	"screenpilot/internal/model"
)

// Windows manages X11 windows through xdotool.
type Windows struct {
	run *runner
}

// NewWindows returns a WindowManager backed by xdotool.
func NewWindows(run *runner) *Windows {
	return &Windows{run: run}
}

// ActiveWindow returns the currently focused window.
func (w *Windows) ActiveWindow() (model.Window, error) {
	id, err := w.run.run("xdotool", "getactivewindow")
	if err != nil {
		return model.Window{}, fmt.Errorf("active window: %w", err)
	}
	return w.describe(id)
}

// FindWindows searches window titles for a case-insensitive pattern.
func (w *Windows) FindWindows(name string) ([]model.Window, error) {
	out, err := w.run.run("xdotool", "search", "--name", "--", name)
	if err != nil {
		// xdotool search exits non-zero when nothing matches.
		return nil, nil
	}
	return w.describeAll(out), nil
}

// FocusWindow activates the first window whose title matches name and
// returns its ID.
func (w *Windows) FocusWindow(name string) (string, error) {
	out, err := w.run.run("xdotool", "search", "--name", "--", name)
	if err != nil || out == "" {
		return "", fmt.Errorf("no window matching %q", name)
	}
	id := strings.Fields(out)[0]
	if _, err := w.run.run("xdotool", "windowactivate", "--sync", id); err != nil {
		return "", fmt.Errorf("activate window %s: %w", id, err)
	}
	return id, nil
}

// ListWindows enumerates all named windows on the display.
func (w *Windows) ListWindows() ([]model.Window, error) {
	out, err := w.run.run("xdotool", "search", "--name", "--", ".")
	if err != nil {
		return nil, nil
	}
	return w.describeAll(out), nil
}

// MousePosition returns the current pointer coordinates.
func (w *Windows) MousePosition() (int, int, error) {
	out, err := w.run.run("xdotool", "getmouselocation")
	if err != nil {
		return 0, 0, fmt.Errorf("mouse location: %w", err)
	}
	return parseMouseLocation(out)
}

func (w *Windows) describeAll(searchOut string) []model.Window {
	var windows []model.Window
	for _, id := range strings.Fields(searchOut) {
		win, err := w.describe(id)
		if err != nil || win.Name == "" {
			continue
		}
		windows = append(windows, win)
	}
	return windows
}

func (w *Windows) describe(id string) (model.Window, error) {
	win := model.Window{ID: id}
	name, err := w.run.run("xdotool", "getwindowname", id)
	if err == nil {
		win.Name = name
	}
	geom, err := w.run.run("xdotool", "getwindowgeometry", id)
	if err == nil {
		if bounds, perr := parseWindowGeometry(geom); perr == nil {
			win.Bounds = bounds
		}
	}
	return win, nil
}

// parseMouseLocation parses "x:100 y:200 screen:0 window:12345".
func parseMouseLocation(out string) (int, int, error) {
	x, y := -1, -1
	for _, field := range strings.Fields(out) {
		k, v, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		switch k {
		case "x":
			x = n
		case "y":
			y = n
		}
	}
	if x < 0 || y < 0 {
		return 0, 0, fmt.Errorf("unexpected mouse location output: %q", out)
	}
	return x, y, nil
}

// parseWindowGeometry parses xdotool getwindowgeometry output:
//
//	Window 123
//	  Position: 100,200 (screen: 0)
//	  Geometry: 800x600
func parseWindowGeometry(out string) ([4]int, error) {
	var bounds [4]int
	havePos, haveGeom := false, false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Position:"):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "Position:"))
			if i := strings.IndexByte(rest, ' '); i >= 0 {
				rest = rest[:i]
			}
			xs, ys, ok := strings.Cut(rest, ",")
			if !ok {
				continue
			}
			x, err1 := strconv.Atoi(xs)
			y, err2 := strconv.Atoi(ys)
			if err1 != nil || err2 != nil {
				continue
			}
			bounds[0], bounds[1] = x, y
			havePos = true
		case strings.HasPrefix(line, "Geometry:"):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "Geometry:"))
			ws, hs, ok := strings.Cut(rest, "x")
			if !ok {
				continue
			}
			width, err1 := strconv.Atoi(ws)
			height, err2 := strconv.Atoi(hs)
			if err1 != nil || err2 != nil {
				continue
			}
			bounds[2], bounds[3] = width, height
			haveGeom = true
		}
	}
	if !havePos || !haveGeom {
		return bounds, fmt.Errorf("unexpected window geometry output: %q", out)
	}
	return bounds, nil
}

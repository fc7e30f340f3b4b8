package platform

import (
	"image"

	"screenpilot/internal/model"
)

// Accessibility reads UI elements from the desktop accessibility tree.
// Implementations must treat per-node failures as skips, never as errors:
// a broken subtree must not abort an enumeration.
type Accessibility interface {
	// Available reports whether the accessibility bus can be reached.
	Available() bool

	// FindElements walks the desktop tree depth-first and returns elements
	// matching the query, stopping once opts.MaxResults are collected.
	FindElements(q Query, opts FindOptions) ([]model.Element, error)

	// ListInteractive returns visible elements with an interactive role or
	// at least one exposed action.
	ListInteractive(app string, visibleOnly bool) ([]model.Element, error)
}

// Word is a single recognized text box.
type Word struct {
	Text       string
	Bounds     [4]int // [x, y, width, height] in the source image's pixels
	Confidence float64
}

// Recognizer performs optical text recognition on a captured image.
type Recognizer interface {
	// Available reports whether the recognition engine is installed.
	Available() bool

	// Recognize returns word-level boxes with confidence >= minConfidence.
	Recognize(img image.Image, minConfidence float64) ([]Word, error)
}

// Screen captures the current display contents.
type Screen interface {
	// Capture returns a raster image of the screen as it is right now.
	Capture() (image.Image, error)

	// Size returns the display dimensions in pixels.
	Size() (width, height int, err error)
}

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	Click(x, y int, button MouseButton, double bool) error
	MoveMouse(x, y int) error
	Drag(fromX, fromY, toX, toY int, button MouseButton) error
	Scroll(x, y, dx, dy int) error
	TypeText(text string, delayMs int) error
	KeyCombo(keys string) error
}

// WindowManager resolves and manipulates X11 windows.
type WindowManager interface {
	ActiveWindow() (model.Window, error)
	FindWindows(name string) ([]model.Window, error)
	FocusWindow(name string) (string, error)
	ListWindows() ([]model.Window, error)
	MousePosition() (x, y int, err error)
}

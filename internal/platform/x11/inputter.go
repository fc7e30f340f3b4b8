package x11

import (
	"fmt"
	"strconv"

	"screenpilot/internal/platform"
)

// Inputter drives mouse and keyboard through xdotool.
type Inputter struct {
	run *runner
}

// NewInputter returns an Inputter backed by xdotool.
func NewInputter(run *runner) *Inputter {
	return &Inputter{run: run}
}

// xdotool button numbers: 1 left, 2 middle, 3 right; 4/5 scroll up/down,
// 6/7 scroll left/right.
func buttonNumber(b platform.MouseButton) string {
	switch b {
	case platform.MouseRight:
		return "3"
	case platform.MouseMiddle:
		return "2"
	default:
		return "1"
	}
}

// Click moves to (x, y) and clicks. Double clicks repeat with a 100ms delay
// so toolkits register them as one gesture.
func (in *Inputter) Click(x, y int, button platform.MouseButton, double bool) error {
	if err := in.MoveMouse(x, y); err != nil {
		return err
	}
	args := []string{"click"}
	if double {
		args = append(args, "--repeat", "2", "--delay", "100")
	}
	args = append(args, buttonNumber(button))
	_, err := in.run.run("xdotool", args...)
	return err
}

// MoveMouse moves the pointer, waiting for the move to complete.
func (in *Inputter) MoveMouse(x, y int) error {
	_, err := in.run.run("xdotool", "mousemove", "--sync", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

// Drag presses the button at the start point, moves to the end point, and
// releases.
func (in *Inputter) Drag(fromX, fromY, toX, toY int, button platform.MouseButton) error {
	btn := buttonNumber(button)
	if err := in.MoveMouse(fromX, fromY); err != nil {
		return err
	}
	if _, err := in.run.run("xdotool", "mousedown", btn); err != nil {
		return err
	}
	if err := in.MoveMouse(toX, toY); err != nil {
		// Release anyway or the desktop is left mid-drag.
		in.run.run("xdotool", "mouseup", btn)
		return err
	}
	_, err := in.run.run("xdotool", "mouseup", btn)
	return err
}

// Scroll moves to (x, y) and emits scroll button presses. Positive dy
// scrolls down, positive dx scrolls right.
func (in *Inputter) Scroll(x, y, dx, dy int) error {
	if err := in.MoveMouse(x, y); err != nil {
		return err
	}
	if dy != 0 {
		btn := "4" // up
		if dy > 0 {
			btn = "5" // down
		}
		if err := in.clickRepeat(btn, abs(dy)); err != nil {
			return err
		}
	}
	if dx != 0 {
		btn := "6" // left
		if dx > 0 {
			btn = "7" // right
		}
		if err := in.clickRepeat(btn, abs(dx)); err != nil {
			return err
		}
	}
	return nil
}

func (in *Inputter) clickRepeat(button string, times int) error {
	_, err := in.run.run("xdotool", "click", "--repeat", strconv.Itoa(times), button)
	return err
}

// TypeText types a string with a per-character delay in milliseconds.
func (in *Inputter) TypeText(text string, delayMs int) error {
	if delayMs <= 0 {
		delayMs = 12
	}
	_, err := in.run.run("xdotool", "type", "--delay", strconv.Itoa(delayMs), "--", text)
	return err
}

// KeyCombo sends a key chord in xdotool syntax, e.g. "ctrl+shift+t" or
// "Return".
func (in *Inputter) KeyCombo(keys string) error {
	if keys == "" {
		return fmt.Errorf("empty key combo")
	}
	_, err := in.run.run("xdotool", "key", "--", keys)
	return err
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

//go:build linux

package x11

import "screenpilot/internal/platform"

func init() {
	platform.NewProviderFunc = func(display string) (*platform.Provider, error) {
		run := &runner{display: display}
		return &platform.Provider{
			Accessibility: NewReader(),
			Recognizer:    NewTesseract(run),
			Screen:        NewScreenshotter(run),
			Inputter:      NewInputter(run),
			Windows:       NewWindows(run),
		}, nil
	}
}

package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Accessibility Accessibility
	Recognizer    Recognizer
	Screen        Screen
	Inputter      Inputter
	Windows       WindowManager
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("screenpilot is not supported on %s/%s; supported: linux (X11)", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/x11/init.go for the Linux registration.
var NewProviderFunc func(display string) (*Provider, error)

// NewProvider returns a Provider for the current OS, targeting the given
// X display (empty = the DISPLAY environment variable).
func NewProvider(display string) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(display)
}

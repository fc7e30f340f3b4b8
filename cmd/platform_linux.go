//go:build linux

package cmd

// Register the X11 provider.
import _ "screenpilot/internal/platform/x11"

// Package x11 implements the platform backends for Linux/X11 desktops:
// AT-SPI over D-Bus for the accessibility tree, tesseract for OCR, scrot
// for screenshots, and xdotool for input and window management.
package x11

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// runner executes external tools against a specific X display. An empty
// display leaves the inherited DISPLAY untouched.
type runner struct {
	display string
}

// run executes a command and returns its trimmed stdout. On failure the
// error includes stderr, which is where xdotool and scrot explain themselves.
func (r *runner) run(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = r.env()
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *runner) env() []string {
	env := os.Environ()
	if r.display != "" {
		env = append(env, "DISPLAY="+r.display)
	}
	return env
}

// haveCommand reports whether an external tool is on PATH.
func haveCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

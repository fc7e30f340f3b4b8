package platform

import (
	"fmt"
	"strings"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ParseMouseButton converts a string flag value to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// Query selects elements by partial, case-insensitive matches. Empty fields
// match everything.
type Query struct {
	Name string // matched against element name or description
	Role string // matched against the role name
	App  string // matched against the owning application's name
}

// Describe renders the query for error messages.
func (q Query) Describe() string {
	var parts []string
	if q.Name != "" {
		parts = append(parts, fmt.Sprintf("name=%q", q.Name))
	}
	if q.Role != "" {
		parts = append(parts, fmt.Sprintf("role=%q", q.Role))
	}
	if q.App != "" {
		parts = append(parts, fmt.Sprintf("app=%q", q.App))
	}
	if len(parts) == 0 {
		return "any element"
	}
	return strings.Join(parts, " ")
}

// FindOptions controls an accessibility enumeration.
type FindOptions struct {
	VisibleOnly   bool
	ClickableOnly bool
	MaxResults    int
}

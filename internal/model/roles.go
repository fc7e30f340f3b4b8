package model

import "strings"

// interactiveRoles are AT-SPI role names (or fragments) that identify
// elements a user can operate.
var interactiveRoles = []string{
	"push button",
	"toggle button",
	"radio button",
	"check box",
	"combo box",
	"menu item",
	"list item",
	"link",
	"entry",
	"text",
	"slider",
	"spin button",
}

// Interactive reports whether the element looks operable: its role name
// matches the interactive vocabulary, or it exposes any action at all.
// OCR elements carry no role information and are never interactive here.
func (e Element) Interactive() bool {
	if e.AX == nil {
		return false
	}
	roleLower := strings.ToLower(e.AX.RoleName)
	for _, r := range interactiveRoles {
		if strings.Contains(roleLower, r) {
			return true
		}
	}
	return len(e.AX.Actions) > 0
}

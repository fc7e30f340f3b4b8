package model

import "testing"

func TestInteractive(t *testing.T) {
	tests := []struct {
		name string
		meta AXMeta
		want bool
	}{
		{"push button role", AXMeta{RoleName: "push button"}, true},
		{"entry role", AXMeta{RoleName: "entry"}, true},
		{"link role", AXMeta{RoleName: "link"}, true},
		{"case insensitive role", AXMeta{RoleName: "Push Button"}, true},
		{"panel with action", AXMeta{RoleName: "panel", Actions: []string{"click"}}, true},
		{"plain panel", AXMeta{RoleName: "panel"}, false},
		{"filler", AXMeta{RoleName: "filler"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := NewAXElement("x", [4]int{}, tt.meta)
			if got := el.Interactive(); got != tt.want {
				t.Errorf("Interactive() = %v, want %v", got, tt.want)
			}
		})
	}

	if NewOCRElement("Submit", [4]int{}, 90).Interactive() {
		t.Error("OCR elements carry no role and are never interactive")
	}
}

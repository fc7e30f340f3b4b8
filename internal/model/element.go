package model

// Source identifies which detection backend produced an element.
type Source string

const (
	// SourceAccessibility marks elements read from the AT-SPI tree.
	SourceAccessibility Source = "atspi"
	// SourceOCR marks elements recognized from a screenshot.
	SourceOCR Source = "ocr"
)

// AXMeta carries the accessibility-specific metadata of an element.
type AXMeta struct {
	Role        string   `yaml:"role,omitempty"        json:"role,omitempty"`
	RoleName    string   `yaml:"role_name,omitempty"   json:"role_name,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	States      []string `yaml:"states,omitempty"      json:"states,omitempty"`
	Actions     []string `yaml:"actions,omitempty"     json:"actions,omitempty"`
	App         string   `yaml:"app,omitempty"         json:"app,omitempty"`
}

// OCRMeta carries the OCR-specific metadata of an element.
type OCRMeta struct {
	// Confidence is the recognition confidence, 0-100.
	Confidence float64 `yaml:"confidence" json:"confidence"`
}

// Element is the unified UI element representation. Exactly one of AX or OCR
// is non-nil, matching Source.
type Element struct {
	Name   string   `yaml:"name,omitempty" json:"name,omitempty"`
	Bounds [4]int   `yaml:"bounds"         json:"bounds"` // [x, y, width, height] in screen pixels
	Source Source   `yaml:"source"         json:"source"`
	AX     *AXMeta  `yaml:"ax,omitempty"   json:"ax,omitempty"`
	OCR    *OCRMeta `yaml:"ocr,omitempty"  json:"ocr,omitempty"`
}

// NewAXElement builds an Element from an accessibility-tree record.
func NewAXElement(name string, bounds [4]int, meta AXMeta) Element {
	return Element{
		Name:   name,
		Bounds: bounds,
		Source: SourceAccessibility,
		AX:     &meta,
	}
}

// NewOCRElement builds an Element from a recognized text box.
func NewOCRElement(text string, bounds [4]int, confidence float64) Element {
	return Element{
		Name:   text,
		Bounds: bounds,
		Source: SourceOCR,
		OCR:    &OCRMeta{Confidence: confidence},
	}
}

// Center returns the element's center point (integer division).
func (e Element) Center() (x, y int) {
	return e.Bounds[0] + e.Bounds[2]/2, e.Bounds[1] + e.Bounds[3]/2
}

// HasState reports whether an accessibility state flag is present.
// Always false for OCR elements.
func (e Element) HasState(state string) bool {
	if e.AX == nil {
		return false
	}
	for _, s := range e.AX.States {
		if s == state {
			return true
		}
	}
	return false
}

// HasAction reports whether an accessibility action is exposed.
// Always false for OCR elements.
func (e Element) HasAction(action string) bool {
	if e.AX == nil {
		return false
	}
	for _, a := range e.AX.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Visible reports whether the element is visible on screen. Accessibility
// elements need both "visible" and "showing"; OCR hits are visible by
// construction.
func (e Element) Visible() bool {
	if e.Source == SourceOCR {
		return true
	}
	return e.HasState("visible") && e.HasState("showing")
}

// Enabled reports whether the element accepts interaction (not grayed out).
func (e Element) Enabled() bool {
	if e.Source == SourceOCR {
		return true
	}
	return e.HasState("enabled") || e.HasState("sensitive")
}

// Clickable reports whether the element can be clicked. OCR hits are assumed
// actionable at their coordinates.
func (e Element) Clickable() bool {
	if e.Source == SourceOCR {
		return true
	}
	return e.HasAction("click") || e.HasAction("press")
}

// ContainsPoint reports whether (x, y) lies within the element's bounds.
func (e Element) ContainsPoint(x, y int) bool {
	return x >= e.Bounds[0] && x <= e.Bounds[0]+e.Bounds[2] &&
		y >= e.Bounds[1] && y <= e.Bounds[1]+e.Bounds[3]
}

// Window describes an X11 window as reported by the window manager.
type Window struct {
	ID     string `yaml:"id"               json:"id"`
	Name   string `yaml:"name,omitempty"   json:"name,omitempty"`
	Bounds [4]int `yaml:"bounds,omitempty" json:"bounds,omitempty"`
}

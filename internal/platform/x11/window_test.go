package x11

import "testing"

func TestParseWindowGeometry(t *testing.T) {
	out := "Window 62914566 (has no name)\n" +
		"  Position: 100,200 (screen: 0)\n" +
		"  Geometry: 800x600"

	bounds, err := parseWindowGeometry(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds != [4]int{100, 200, 800, 600} {
		t.Errorf("bounds = %v, want [100 200 800 600]", bounds)
	}
}

func TestParseWindowGeometryNegativePosition(t *testing.T) {
	// Windows on a secondary monitor can sit at negative coordinates.
	out := "Window 123\n  Position: -1920,0 (screen: 1)\n  Geometry: 1920x1080"
	bounds, err := parseWindowGeometry(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bounds != [4]int{-1920, 0, 1920, 1080} {
		t.Errorf("bounds = %v", bounds)
	}
}

func TestParseWindowGeometryMalformed(t *testing.T) {
	if _, err := parseWindowGeometry("Window 123"); err == nil {
		t.Error("expected error for output missing position and geometry")
	}
	if _, err := parseWindowGeometry(""); err == nil {
		t.Error("expected error for empty output")
	}
}

func TestParseMouseLocation(t *testing.T) {
	x, y, err := parseMouseLocation("x:960 y:540 screen:0 window:62914566")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x != 960 || y != 540 {
		t.Errorf("position = (%d, %d), want (960, 540)", x, y)
	}
}

func TestParseMouseLocationMalformed(t *testing.T) {
	if _, _, err := parseMouseLocation("nothing useful"); err == nil {
		t.Error("expected error for unparseable output")
	}
}

func TestParseDisplayGeometry(t *testing.T) {
	w, h, err := parseDisplayGeometry("1920 1080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 1920 || h != 1080 {
		t.Errorf("size = %dx%d, want 1920x1080", w, h)
	}

	if _, _, err := parseDisplayGeometry("oops"); err == nil {
		t.Error("expected error for malformed output")
	}
}

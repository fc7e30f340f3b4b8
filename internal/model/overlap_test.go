package model

import "testing"

func box(x, y, w, h int) Element {
	return Element{Bounds: [4]int{x, y, w, h}}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Element
		threshold float64
		want      bool
	}{
		{
			name:      "identical boxes overlap fully",
			a:         box(10, 10, 100, 50),
			b:         box(10, 10, 100, 50),
			threshold: 0.5,
			want:      true,
		},
		{
			name:      "identical boxes pass threshold 1.0",
			a:         box(10, 10, 100, 50),
			b:         box(10, 10, 100, 50),
			threshold: 1.0,
			want:      true,
		},
		{
			name:      "disjoint boxes never overlap",
			a:         box(0, 0, 50, 50),
			b:         box(100, 100, 50, 50),
			threshold: 0.0,
			want:      false,
		},
		{
			name:      "touching edges do not overlap",
			a:         box(0, 0, 50, 50),
			b:         box(50, 0, 50, 50),
			threshold: 0.0,
			want:      false,
		},
		{
			name: "half of the smaller box meets threshold 0.5",
			// b is 40x20=800; intersection is 20x20=400 -> ratio 0.5.
			a:         box(0, 0, 100, 100),
			b:         box(80, 0, 40, 20),
			threshold: 0.5,
			want:      true,
		},
		{
			name:      "just under threshold fails",
			a:         box(0, 0, 100, 100),
			b:         box(81, 0, 40, 20),
			threshold: 0.5,
			want:      false,
		},
		{
			name:      "zero-area box never overlaps",
			a:         box(10, 10, 0, 0),
			b:         box(0, 0, 100, 100),
			threshold: 0.1,
			want:      false,
		},
		{
			name:      "zero-width box never overlaps",
			a:         box(0, 0, 100, 100),
			b:         box(10, 10, 0, 50),
			threshold: 0.0,
			want:      false,
		},
		{
			name:      "small box inside large box overlaps",
			a:         box(0, 0, 1000, 1000),
			b:         box(400, 400, 10, 10),
			threshold: 0.99,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b, tt.threshold); got != tt.want {
				t.Errorf("Overlaps(%v, %v, %v) = %v, want %v", tt.a.Bounds, tt.b.Bounds, tt.threshold, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.b, tt.a, tt.threshold); got != tt.want {
				t.Errorf("Overlaps(%v, %v, %v) = %v, want %v (swapped)", tt.b.Bounds, tt.a.Bounds, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestOverlapsAny(t *testing.T) {
	others := []Element{box(0, 0, 50, 50), box(200, 200, 50, 50)}
	if !OverlapsAny(box(10, 10, 50, 50), others, 0.5) {
		t.Error("expected overlap with first box")
	}
	if OverlapsAny(box(500, 500, 50, 50), others, 0.5) {
		t.Error("expected no overlap")
	}
	if OverlapsAny(box(10, 10, 50, 50), nil, 0.5) {
		t.Error("expected no overlap with empty set")
	}
}

func TestMerge(t *testing.T) {
	axBtn := NewAXElement("Submit", [4]int{100, 100, 80, 30}, AXMeta{RoleName: "push button"})
	ocrDup := NewOCRElement("Submit", [4]int{102, 101, 76, 28}, 90)
	ocrNew := NewOCRElement("Status: ready", [4]int{400, 500, 120, 20}, 85)

	merged := Merge([]Element{axBtn}, []Element{ocrDup, ocrNew})
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged elements, got %d", len(merged))
	}
	// Accessibility wins on overlap: the surviving element keeps its metadata.
	if merged[0].Source != SourceAccessibility || merged[0].AX == nil {
		t.Errorf("first element should be the accessibility one, got source=%s", merged[0].Source)
	}
	if merged[1].Name != "Status: ready" {
		t.Errorf("second element should be the non-overlapping OCR hit, got %q", merged[1].Name)
	}
}

func TestMergeEmptySets(t *testing.T) {
	if got := Merge(nil, nil); len(got) != 0 {
		t.Errorf("merge of empty sets should be empty, got %d", len(got))
	}
	ocr := []Element{NewOCRElement("OK", [4]int{10, 10, 30, 15}, 92)}
	if got := Merge(nil, ocr); len(got) != 1 {
		t.Errorf("merge with empty ax set should keep OCR, got %d", len(got))
	}
}

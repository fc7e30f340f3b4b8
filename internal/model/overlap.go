package model

// DefaultOverlapThreshold is the minimum overlap ratio at which two elements
// are considered to describe the same screen region.
const DefaultOverlapThreshold = 0.5

// Overlaps reports whether two elements' bounding boxes overlap beyond the
// threshold. The ratio is intersection area over the area of the smaller box.
// Disjoint boxes and zero-area boxes never overlap.
func Overlaps(a, b Element, threshold float64) bool {
	x1 := max(a.Bounds[0], b.Bounds[0])
	y1 := max(a.Bounds[1], b.Bounds[1])
	x2 := min(a.Bounds[0]+a.Bounds[2], b.Bounds[0]+b.Bounds[2])
	y2 := min(a.Bounds[1]+a.Bounds[3], b.Bounds[1]+b.Bounds[3])

	if x1 >= x2 || y1 >= y2 {
		return false
	}

	intersection := (x2 - x1) * (y2 - y1)
	smaller := min(a.Bounds[2]*a.Bounds[3], b.Bounds[2]*b.Bounds[3])
	if smaller == 0 {
		return false
	}

	return float64(intersection)/float64(smaller) >= threshold
}

// OverlapsAny reports whether elem overlaps any element in others at the
// given threshold.
func OverlapsAny(elem Element, others []Element, threshold float64) bool {
	for _, other := range others {
		if Overlaps(elem, other, threshold) {
			return true
		}
	}
	return false
}

// Merge combines accessibility and OCR result sets, preferring accessibility.
// Accessibility elements carry richer metadata (role, states, actions), so an
// OCR element is only added when it does not overlap any element already in
// the result.
func Merge(ax, ocr []Element) []Element {
	result := make([]Element, 0, len(ax)+len(ocr))
	result = append(result, ax...)
	for _, o := range ocr {
		if !OverlapsAny(o, result, DefaultOverlapThreshold) {
			result = append(result, o)
		}
	}
	return result
}

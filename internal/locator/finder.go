// Package locator is the element-resolution core: it turns semantic queries
// ("the Submit button", text containing "Confirm") into concrete elements by
// consulting the accessibility tree first and falling back to OCR, and
// provides the polling primitives for waiting on UI state changes.
package locator

import (
	"fmt"
	"image"
	"regexp"
	"strings"

	"screenpilot/internal/model"
	"screenpilot/internal/platform"
)

// DefaultMinConfidence is the default minimum OCR confidence (0-100).
const DefaultMinConfidence = 30.0

// DefaultMaxResults caps multi-result queries.
const DefaultMaxResults = 50

// FinderConfig configures a Finder.
type FinderConfig struct {
	// UseAccessibility enables the AT-SPI backend. It is additionally gated
	// on the provider reporting itself available.
	UseAccessibility bool
	// UseOCR enables the OCR fallback, gated the same way.
	UseOCR bool
	// MinConfidence is the minimum OCR confidence; 0 means DefaultMinConfidence.
	MinConfidence float64
}

// DefaultFinderConfig enables both backends with default thresholds.
func DefaultFinderConfig() FinderConfig {
	return FinderConfig{
		UseAccessibility: true,
		UseOCR:           true,
		MinConfidence:    DefaultMinConfidence,
	}
}

// FindAllOptions controls multi-result queries.
type FindAllOptions struct {
	VisibleOnly   bool
	ClickableOnly bool
	MaxResults    int // 0 means DefaultMaxResults
}

// Finder resolves element queries across the two backends. Accessibility is
// always tried to exhaustion before OCR: OCR needs a screenshot plus
// recognition and is a fallback, not a parallel racer.
type Finder struct {
	ax            platform.Accessibility
	ocr           platform.Recognizer
	screen        platform.Screen
	minConfidence float64
	strategies    []strategy
}

// NewFinder builds a Finder over the given provider. A backend whose
// provider is missing or reports unavailable is silently disabled; callers
// then observe fewer results, never an error.
func NewFinder(p *platform.Provider, cfg FinderConfig) *Finder {
	f := &Finder{
		ax:            p.Accessibility,
		ocr:           p.Recognizer,
		screen:        p.Screen,
		minConfidence: cfg.MinConfidence,
	}
	if f.minConfidence == 0 {
		f.minConfidence = DefaultMinConfidence
	}

	useAX := cfg.UseAccessibility && f.ax != nil && f.ax.Available()
	useOCR := cfg.UseOCR && f.ocr != nil && f.screen != nil && f.ocr.Available()

	if useAX {
		f.strategies = append(f.strategies, &axStrategy{ax: f.ax})
	}
	if useOCR {
		f.strategies = append(f.strategies, &ocrStrategy{
			ocr:           f.ocr,
			minConfidence: f.minConfidence,
		})
	}
	return f
}

// Find returns the first element matching the query, or nil. Strategies are
// tried in order: the accessibility provider's own depth-first traversal
// order is authoritative, and OCR is only consulted when a name was given.
// One screenshot is captured at most per call and shared across strategies.
func (f *Finder) Find(q platform.Query, visibleOnly bool) *model.Element {
	shot := f.newCapture()
	for _, s := range f.strategies {
		if !s.canSearch(q) {
			continue
		}
		if el := s.find(q, visibleOnly, shot); el != nil {
			return el
		}
	}
	return nil
}

// FindAll returns up to MaxResults elements matching the query.
// Accessibility matches come first; when a name was given and there is room
// left, OCR matches that do not overlap an already-collected element top up
// the result.
func (f *Finder) FindAll(q platform.Query, opts FindAllOptions) []model.Element {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	shot := f.newCapture()
	var results []model.Element
	for _, s := range f.strategies {
		if !s.canSearch(q) {
			continue
		}
		if len(results) >= maxResults {
			break
		}
		found := s.findAll(q, opts, maxResults-len(results), shot)
		for _, el := range found {
			if el.Source == model.SourceOCR &&
				model.OverlapsAny(el, results, model.DefaultOverlapThreshold) {
				continue
			}
			results = append(results, el)
		}
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// FindText finds text on screen via OCR only, skipping the accessibility
// tree. Returns nil when the text is absent or OCR is disabled.
func (f *Finder) FindText(text string, exact, caseSensitive bool) *model.Element {
	matches := f.findAllTextOCR(text, exact, caseSensitive, 1)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// FindAllText returns all OCR occurrences of text, up to maxResults
// (0 means DefaultMaxResults).
func (f *Finder) FindAllText(text string, exact, caseSensitive bool, maxResults int) []model.Element {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return f.findAllTextOCR(text, exact, caseSensitive, maxResults)
}

// FindTextRegex returns the first OCR word whose text matches the pattern,
// or nil when nothing matches. A malformed pattern is an error.
func (f *Finder) FindTextRegex(pattern string) (*model.Element, error) {
	matches, err := f.FindAllTextRegex(pattern, 1)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

// FindAllTextRegex returns up to maxResults OCR words matching the pattern
// (0 means DefaultMaxResults). Patterns are matched case-insensitively
// against individual words.
func (f *Finder) FindAllTextRegex(pattern string, maxResults int) ([]model.Element, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if !f.ocrEnabled() {
		return nil, nil
	}
	shot := f.newCapture()
	img := shot.image()
	if img == nil {
		return nil, nil
	}
	words, err := f.ocr.Recognize(img, f.minConfidence)
	if err != nil {
		return nil, nil
	}
	matches := matchRegexp(words, re)
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return wordsToElements(matches), nil
}

// ListInteractive lists operable elements (buttons, links, inputs, ...).
// Accessibility only: OCR cannot determine interactivity.
func (f *Finder) ListInteractive(app string, visibleOnly bool) []model.Element {
	for _, s := range f.strategies {
		ax, ok := s.(*axStrategy)
		if !ok {
			continue
		}
		elements, err := ax.ax.ListInteractive(app, visibleOnly)
		if err != nil {
			return nil
		}
		return elements
	}
	return nil
}

// ReadWords returns every recognized word on a fresh screenshot. Used by the
// ocr command; returns nil when OCR is disabled.
func (f *Finder) ReadWords() []platform.Word {
	shot := f.newCapture()
	if !f.ocrEnabled() {
		return nil
	}
	img := shot.image()
	if img == nil {
		return nil
	}
	words, err := f.ocr.Recognize(img, f.minConfidence)
	if err != nil {
		return nil
	}
	return words
}

func (f *Finder) ocrEnabled() bool {
	for _, s := range f.strategies {
		if _, ok := s.(*ocrStrategy); ok {
			return true
		}
	}
	return false
}

func (f *Finder) findAllTextOCR(text string, exact, caseSensitive bool, maxResults int) []model.Element {
	// A blank query can never match a word; bail before paying for a
	// screenshot and a recognition pass.
	if len(strings.Fields(text)) == 0 {
		return nil
	}
	if !f.ocrEnabled() {
		return nil
	}
	shot := f.newCapture()
	img := shot.image()
	if img == nil {
		return nil
	}
	words, err := f.ocr.Recognize(img, f.minConfidence)
	if err != nil {
		return nil
	}
	matches := matchWords(words, text, exact, caseSensitive)
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return wordsToElements(matches)
}

func wordsToElements(words []platform.Word) []model.Element {
	elements := make([]model.Element, len(words))
	for i, w := range words {
		elements[i] = model.NewOCRElement(w.Text, w.Bounds, w.Confidence)
	}
	return elements
}

// capture memoizes a single screenshot for the duration of one top-level
// Finder call. Successive calls always recapture; a failed capture is
// treated as "no OCR results", never an error.
type capture struct {
	screen platform.Screen
	img    image.Image
	taken  bool
}

func (f *Finder) newCapture() *capture {
	return &capture{screen: f.screen}
}

func (c *capture) image() image.Image {
	if c.taken {
		return c.img
	}
	c.taken = true
	if c.screen == nil {
		return nil
	}
	img, err := c.screen.Capture()
	if err != nil {
		return nil
	}
	c.img = img
	return c.img
}

// strategy is one way of resolving a query. Strategies are tried in a fixed
// order; runtime type inspection is never used to pick a backend.
type strategy interface {
	// canSearch reports whether this strategy can serve the query at all.
	canSearch(q platform.Query) bool
	find(q platform.Query, visibleOnly bool, shot *capture) *model.Element
	findAll(q platform.Query, opts FindAllOptions, limit int, shot *capture) []model.Element
}

type axStrategy struct {
	ax platform.Accessibility
}

func (s *axStrategy) canSearch(platform.Query) bool { return true }

func (s *axStrategy) find(q platform.Query, visibleOnly bool, _ *capture) *model.Element {
	elements, err := s.ax.FindElements(q, platform.FindOptions{
		VisibleOnly: visibleOnly,
		MaxResults:  1,
	})
	if err != nil || len(elements) == 0 {
		return nil
	}
	return &elements[0]
}

func (s *axStrategy) findAll(q platform.Query, opts FindAllOptions, limit int, _ *capture) []model.Element {
	elements, err := s.ax.FindElements(q, platform.FindOptions{
		VisibleOnly:   opts.VisibleOnly,
		ClickableOnly: opts.ClickableOnly,
		MaxResults:    limit,
	})
	if err != nil {
		return nil
	}
	return elements
}

type ocrStrategy struct {
	ocr           platform.Recognizer
	minConfidence float64
}

// canSearch: OCR can only search for text, so a name is required.
func (s *ocrStrategy) canSearch(q platform.Query) bool { return q.Name != "" }

func (s *ocrStrategy) find(q platform.Query, _ bool, shot *capture) *model.Element {
	matches := s.search(q.Name, 1, shot)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

func (s *ocrStrategy) findAll(q platform.Query, _ FindAllOptions, limit int, shot *capture) []model.Element {
	return s.search(q.Name, limit, shot)
}

func (s *ocrStrategy) search(text string, limit int, shot *capture) []model.Element {
	img := shot.image()
	if img == nil {
		return nil
	}
	words, err := s.ocr.Recognize(img, s.minConfidence)
	if err != nil {
		return nil
	}
	matches := matchWords(words, text, false, false)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return wordsToElements(matches)
}

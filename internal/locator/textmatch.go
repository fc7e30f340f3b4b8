package locator

import (
	"regexp"
	"strings"

	"screenpilot/internal/platform"
)

// matchWords finds occurrences of target among OCR words. Single-word targets
// match individual words. Multi-word targets use a sliding window over
// consecutive words and synthesize a combined bounding box spanning the
// sequence; the combined confidence is the minimum over the window.
func matchWords(words []platform.Word, target string, exact, caseSensitive bool) []platform.Word {
	targetWords := strings.Fields(target)
	if len(targetWords) == 0 {
		return nil
	}
	if len(targetWords) == 1 {
		return matchSingle(words, targetWords[0], exact, caseSensitive)
	}
	return matchSequence(words, targetWords, exact, caseSensitive)
}

func matchSingle(words []platform.Word, target string, exact, caseSensitive bool) []platform.Word {
	var matches []platform.Word
	for _, w := range words {
		if textMatches(w.Text, target, exact, caseSensitive) {
			matches = append(matches, w)
		}
	}
	return matches
}

func matchSequence(words []platform.Word, targetWords []string, exact, caseSensitive bool) []platform.Word {
	var matches []platform.Word
	n := len(targetWords)
	for i := 0; i+n <= len(words); i++ {
		window := words[i : i+n]
		if !windowMatches(window, targetWords, exact, caseSensitive) {
			continue
		}
		matches = append(matches, combineWindow(window))
	}
	return matches
}

// windowMatches compares the window's words joined with single spaces against
// the joined target phrase: equality when exact, substring otherwise. Joining
// first means a substring match may span a word boundary ("to con" inside
// "to continue"), and a phrase never matches just because each target word
// appears somewhere in the corresponding window word.
func windowMatches(window []platform.Word, targetWords []string, exact, caseSensitive bool) bool {
	parts := make([]string, len(window))
	for i, w := range window {
		parts[i] = w.Text
	}
	return textMatches(strings.Join(parts, " "), strings.Join(targetWords, " "), exact, caseSensitive)
}

// combineWindow builds a single word spanning a matched sequence. Horizontal
// extent follows reading order: the first word's left edge to the last word's
// right edge. Vertical extent covers every word in the window.
func combineWindow(window []platform.Word) platform.Word {
	first := window[0]
	last := window[len(window)-1]
	top := first.Bounds[1]
	bottom := first.Bounds[1] + first.Bounds[3]
	confidence := first.Confidence
	texts := make([]string, len(window))
	for i, w := range window {
		texts[i] = w.Text
		top = min(top, w.Bounds[1])
		bottom = max(bottom, w.Bounds[1]+w.Bounds[3])
		confidence = min(confidence, w.Confidence)
	}
	left := first.Bounds[0]
	right := last.Bounds[0] + last.Bounds[2]
	return platform.Word{
		Text:       strings.Join(texts, " "),
		Bounds:     [4]int{left, top, right - left, bottom - top},
		Confidence: confidence,
	}
}

// matchRegexp returns the words whose text the pattern matches. Regex search
// is word-level only; phrases spanning words are out of its scope.
func matchRegexp(words []platform.Word, re *regexp.Regexp) []platform.Word {
	var matches []platform.Word
	for _, w := range words {
		if re.MatchString(w.Text) {
			matches = append(matches, w)
		}
	}
	return matches
}

func textMatches(text, target string, exact, caseSensitive bool) bool {
	if !caseSensitive {
		text = strings.ToLower(text)
		target = strings.ToLower(target)
	}
	if exact {
		return text == target
	}
	return strings.Contains(text, target)
}

package locator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpilot/internal/platform"
)

func word(text string, x, y, w, h int, conf float64) platform.Word {
	return platform.Word{Text: text, Bounds: [4]int{x, y, w, h}, Confidence: conf}
}

func TestMatchSingleWord(t *testing.T) {
	words := []platform.Word{
		word("File", 10, 10, 30, 15, 95),
		word("Edit", 50, 10, 30, 15, 93),
		word("Filename:", 10, 100, 70, 15, 88),
	}

	t.Run("substring case-insensitive", func(t *testing.T) {
		got := matchWords(words, "file", false, false)
		require.Len(t, got, 2)
		assert.Equal(t, "File", got[0].Text)
		assert.Equal(t, "Filename:", got[1].Text)
	})

	t.Run("exact", func(t *testing.T) {
		got := matchWords(words, "file", true, false)
		require.Len(t, got, 1)
		assert.Equal(t, "File", got[0].Text)
	})

	t.Run("exact case-sensitive misses", func(t *testing.T) {
		got := matchWords(words, "file", true, true)
		assert.Empty(t, got)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, matchWords(words, "Quit", false, false))
	})

	t.Run("empty target", func(t *testing.T) {
		assert.Empty(t, matchWords(words, "  ", false, false))
	})
}

func TestMatchMultiWord(t *testing.T) {
	words := []platform.Word{
		word("Click", 10, 12, 40, 14, 91),
		word("to", 55, 10, 15, 16, 85),
		word("continue", 75, 11, 60, 15, 88),
		word("later", 140, 11, 35, 15, 90),
	}

	t.Run("sliding window combines bounds", func(t *testing.T) {
		got := matchWords(words, "click to continue", false, false)
		require.Len(t, got, 1)
		m := got[0]
		assert.Equal(t, "Click to continue", m.Text)
		// Left edge of the first word, right edge of the last.
		assert.Equal(t, 10, m.Bounds[0])
		assert.Equal(t, 75+60-10, m.Bounds[2])
		// Topmost top and bottommost bottom across the window.
		assert.Equal(t, 10, m.Bounds[1])
		assert.Equal(t, 12+14-10, m.Bounds[3])
		// Confidence is the weakest word in the window.
		assert.Equal(t, 85.0, m.Confidence)
	})

	t.Run("broken sequence does not match", func(t *testing.T) {
		assert.Empty(t, matchWords(words, "click continue", false, false))
	})

	t.Run("substring can span a word boundary", func(t *testing.T) {
		got := matchWords(words, "to con", false, false)
		require.Len(t, got, 1)
		assert.Equal(t, "to continue", got[0].Text)
	})

	t.Run("per-word fragments do not add up to a phrase", func(t *testing.T) {
		fragments := []platform.Word{
			word("xaby", 10, 10, 40, 15, 90),
			word("cdz", 55, 10, 30, 15, 90),
		}
		// "ab" and "cd" each appear inside a word, but the joined text
		// "xaby cdz" never contains "ab cd".
		assert.Empty(t, matchWords(fragments, "ab cd", false, false))
	})

	t.Run("width spans first left to last right", func(t *testing.T) {
		overlapping := []platform.Word{
			word("Drop", 10, 10, 100, 15, 90),
			word("down", 50, 10, 30, 15, 92),
		}
		got := matchWords(overlapping, "drop down", false, false)
		require.Len(t, got, 1)
		m := got[0]
		assert.Equal(t, 10, m.Bounds[0])
		assert.Equal(t, 50+30-10, m.Bounds[2], "the widest word must not stretch the box")
	})

	t.Run("regexp matches individual words", func(t *testing.T) {
		got := matchRegexp(words, regexp.MustCompile(`(?i)^con\w+e$`))
		require.Len(t, got, 1)
		assert.Equal(t, "continue", got[0].Text)
	})

	t.Run("exact multi-word", func(t *testing.T) {
		got := matchWords(words, "to continue", true, false)
		require.Len(t, got, 1)
		assert.Equal(t, "to continue", got[0].Text)

		// "continue later" exists; "tinue later" must not match exactly.
		assert.Empty(t, matchWords(words, "tinue later", true, false))
		assert.Len(t, matchWords(words, "tinue later", false, false), 1)
	})
}

// Package layout provides script-aware line wrapping for text boxes.
//
// Wrapping measures candidate lines with real font advance widths, breaks
// Korean/Japanese text between any two characters, and breaks Latin runs at
// whitespace with a per-character fallback for words wider than the box.
package layout

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidDimension is returned when a non-positive width or font size is
// passed to a layout operation.
var ErrInvalidDimension = errors.New("layout: invalid dimension")

// Mode selects the line breaking strategy.
type Mode int

const (
	// ModeChar breaks Korean/Japanese text between any two characters and
	// Latin runs at word boundaries. This is the default and matches how
	// CJK comic text is typeset.
	ModeChar Mode = iota

	// ModeWord breaks only at whitespace, collapsing runs of spaces. Words
	// wider than the box are placed on their own line.
	ModeWord
)

// String returns the serialized name of the mode.
func (m Mode) String() string {
	if m == ModeWord {
		return "word"
	}
	return "char"
}

// ParseMode parses a serialized mode name. Unknown names map to ModeChar.
func ParseMode(s string) Mode {
	if s == "word" {
		return ModeWord
	}
	return ModeChar
}

// isCJK reports whether the rune belongs to a script that permits a line
// break between any two characters: Hangul (incl. jamo and compatibility
// jamo), Hiragana, Katakana, and Han.
func isCJK(r rune) bool {
	return unicode.In(r, unicode.Hangul, unicode.Hiragana, unicode.Katakana, unicode.Han)
}

// Wrap splits text into lines that each measure at most maxWidth pixels
// under the given face. Embedded newlines always force a break. An empty or
// blank input yields exactly one empty line. The result depends only on the
// arguments; no state is carried between calls.
func Wrap(text string, face font.Face, maxWidth int, mode Mode) ([]string, error) {
	if maxWidth <= 0 {
		return nil, ErrInvalidDimension
	}
	if strings.TrimSpace(text) == "" {
		return []string{""}, nil
	}
	if mode == ModeWord {
		return wrapWords(text, face, maxWidth), nil
	}
	return wrapChars(text, face, maxWidth), nil
}

// wrapChars implements the mixed-script strategy: CJK characters are
// candidates one at a time, Latin runs are consumed as whole words, and
// whitespace is kept as measured.
func wrapChars(text string, face font.Face, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string
	var line strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' {
			lines = append(lines, line.String())
			line.Reset()
			continue
		}

		// Unit to append: a single CJK character or whitespace rune, or a
		// whole Latin word.
		unit := string(r)
		if !isCJK(r) && !unicode.IsSpace(r) {
			j := i
			for j < len(runes) && !isCJK(runes[j]) && !unicode.IsSpace(runes[j]) {
				j++
			}
			unit = string(runes[i:j])
			i = j - 1
		}

		if font.MeasureString(face, line.String()+unit) <= limit {
			line.WriteString(unit)
			continue
		}

		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
		}

		// The unit alone may still be wider than the box: break it per
		// character so at most a single character can overflow. All
		// fragments but the last become full lines; the last one starts
		// the next line so following text can join it.
		frags := splitOversize(unit, face, limit)
		last := frags[len(frags)-1]
		lines = append(lines, frags[:len(frags)-1]...)
		if font.MeasureString(face, last) > limit {
			// A single character wider than the box overflows alone.
			lines = append(lines, last)
		} else {
			line.WriteString(last)
		}
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	if len(lines) == 0 {
		lines = []string{text}
	}
	return lines
}

// splitOversize splits s into fragments no wider than limit where possible.
// A fragment that is a single rune may still exceed the limit; it is
// returned as-is and allowed to overflow alone.
func splitOversize(s string, face font.Face, limit fixed.Int26_6) []string {
	if font.MeasureString(face, s) <= limit {
		return []string{s}
	}
	var parts []string
	var buf strings.Builder
	for _, r := range s {
		if buf.Len() > 0 && font.MeasureString(face, buf.String()+string(r)) > limit {
			parts = append(parts, buf.String())
			buf.Reset()
		}
		buf.WriteRune(r)
	}
	if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	return parts
}

// wrapWords implements whitespace-only breaking. User-entered newlines split
// paragraphs first; blank paragraphs survive as empty lines.
func wrapWords(text string, face font.Face, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			lines = append(lines, "")
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if font.MeasureString(face, candidate) <= limit {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = word
			} else {
				// Word wider than the box: own line, overflow allowed.
				lines = append(lines, word)
				line = ""
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		lines = []string{text}
	}
	return lines
}

// LineWidth returns the advance width of a single line in whole pixels,
// rounded up.
func LineWidth(face font.Face, line string) int {
	return font.MeasureString(face, line).Ceil()
}

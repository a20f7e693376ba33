package layout

import (
	"errors"
	"image"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// fixedFace is a deterministic font.Face whose every glyph advances by the
// same amount, so line widths are simply rune count times advance.
type fixedFace struct {
	advance fixed.Int26_6
}

func newFixedFace(advancePx int) fixedFace {
	return fixedFace{advance: fixed.I(advancePx)}
}

func (f fixedFace) Close() error { return nil }

func (f fixedFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	x, y := dot.X.Floor(), dot.Y.Floor()
	dr := image.Rect(x, y-8, x+f.advance.Floor(), y)
	return dr, image.NewUniform(color.Alpha{0xff}), image.Point{}, f.advance, true
}

func (f fixedFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return fixed.Rectangle26_6{
		Min: fixed.Point26_6{Y: -fixed.I(8)},
		Max: fixed.Point26_6{X: f.advance},
	}, f.advance, true
}

func (f fixedFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) { return f.advance, true }

func (f fixedFace) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (f fixedFace) Metrics() font.Metrics {
	return font.Metrics{Height: fixed.I(12), Ascent: fixed.I(10), Descent: fixed.I(2)}
}

func TestWrapKoreanBreaksAnywhere(t *testing.T) {
	face := newFixedFace(10)

	// Width fits exactly five characters per line.
	lines, err := Wrap("안녕하세요반갑습니다", face, 50, ModeChar)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	want := []string{"안녕하세요", "반갑습니다"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestWrapLatinBreaksAtWhitespace(t *testing.T) {
	face := newFixedFace(10)

	// "Hello World" is 11 runes = 110px; adding " Foo" exceeds it.
	lines, err := Wrap("Hello World Foo", face, 110, ModeWord)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	want := []string{"Hello World", "Foo"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestWrapCharModePreservesWhitespace(t *testing.T) {
	face := newFixedFace(10)

	// Char mode keeps whitespace as measured; the space that no longer
	// fits carries over to the next line.
	lines, err := Wrap("Hello World Foo", face, 110, ModeChar)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	want := []string{"Hello World", " Foo"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestWrapEmptyInput(t *testing.T) {
	face := newFixedFace(10)

	for _, mode := range []Mode{ModeChar, ModeWord} {
		for _, text := range []string{"", "   ", "\t"} {
			lines, err := Wrap(text, face, 100, mode)
			if err != nil {
				t.Fatalf("Wrap(%q) failed: %v", text, err)
			}
			if !reflect.DeepEqual(lines, []string{""}) {
				t.Errorf("Wrap(%q, %v): got %q, want one empty line", text, mode, lines)
			}
		}
	}
}

func TestWrapNewlinesForceBreaks(t *testing.T) {
	face := newFixedFace(10)

	lines, err := Wrap("안녕\n하세요", face, 200, ModeChar)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	want := []string{"안녕", "하세요"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}

	// Word mode keeps user-entered blank lines.
	lines, err = Wrap("one\n\ntwo", face, 200, ModeWord)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	want = []string{"one", "", "two"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestWrapOversizeWordFallsBackToChars(t *testing.T) {
	face := newFixedFace(10)

	// Twelve runes at 10px against a 50px box: no whitespace to break at,
	// so the word splits every five characters.
	lines, err := Wrap("abcdefghijkl", face, 50, ModeChar)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	want := []string{"abcde", "fghij", "kl"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestWrapSingleCharOverflowsAlone(t *testing.T) {
	face := newFixedFace(10)

	// Box narrower than one character: each character gets its own line.
	lines, err := Wrap("가나", face, 5, ModeChar)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	want := []string{"가", "나"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestWrapInvalidWidth(t *testing.T) {
	face := newFixedFace(10)

	for _, w := range []int{0, -1} {
		if _, err := Wrap("text", face, w, ModeChar); !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("width %d: got %v, want ErrInvalidDimension", w, err)
		}
	}
}

func TestWrapLinesFitWidth(t *testing.T) {
	face := newFixedFace(10)
	text := "만화 번역 Text overlay 도구는 comic translation 워크플로를 지원합니다"

	for _, w := range []int{30, 55, 80, 120, 400} {
		lines, err := Wrap(text, face, w, ModeChar)
		if err != nil {
			t.Fatalf("Wrap failed: %v", err)
		}
		for _, line := range lines {
			lw := LineWidth(face, line)
			// Only a single overflowing character may exceed the width.
			if lw > w && len([]rune(line)) > 1 {
				t.Errorf("width %d: line %q measures %d", w, line, lw)
			}
		}
	}
}

func TestWrapIdempotent(t *testing.T) {
	face := newFixedFace(10)
	text := "안녕하세요반갑습니다좋은아침입니다"

	first, err := Wrap(text, face, 50, ModeChar)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	again, err := Wrap(strings.Join(first, "\n"), face, 50, ModeChar)
	if err != nil {
		t.Fatalf("rewrap failed: %v", err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Errorf("rewrap changed boundaries: %q vs %q", first, again)
	}
}

func TestModeRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeChar, ModeWord} {
		if got := ParseMode(m.String()); got != m {
			t.Errorf("ParseMode(%q): got %v, want %v", m.String(), got, m)
		}
	}
	if got := ParseMode("anything"); got != ModeChar {
		t.Errorf("unknown mode: got %v, want ModeChar", got)
	}
}

package render

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"text-overlay/internal/fontdb"
	"text-overlay/internal/layout"
	"text-overlay/internal/region"
	"text-overlay/pkg/geometry"
)

// fixedFace is a deterministic font.Face: every glyph advances 10px, line
// height 12px, ascent 10px.
type fixedFace struct{}

func (fixedFace) Close() error { return nil }

func (fixedFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	x, y := dot.X.Floor(), dot.Y.Floor()
	dr := image.Rect(x, y-8, x+10, y)
	return dr, image.NewUniform(color.Alpha{0xff}), image.Point{}, fixed.I(10), true
}

func (fixedFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return fixed.Rectangle26_6{
		Min: fixed.Point26_6{Y: -fixed.I(8)},
		Max: fixed.Point26_6{X: fixed.I(10)},
	}, fixed.I(10), true
}

func (fixedFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) { return fixed.I(10), true }

func (fixedFace) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (fixedFace) Metrics() font.Metrics {
	return font.Metrics{Height: fixed.I(12), Ascent: fixed.I(10), Descent: fixed.I(2)}
}

func testRegion(rect geometry.RectInt, text string) *region.Region {
	style := region.DefaultStyle()
	style.Margin = region.UniformMargin(0)
	style.LineSpacing = 1.0
	return &region.Region{ID: 1, Rect: rect, Text: text, Style: style, Visible: true}
}

func TestLayoutCenterAlignment(t *testing.T) {
	// Interior width 100, line width 60 (six runes at 10px): offset 20.
	r := testRegion(geometry.NewRectInt(0, 0, 100, 50), "안녕하세요반")

	res, err := Layout(r, fixedFace{})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(res.Lines))
	}
	if res.Lines[0].X != 20 {
		t.Errorf("center offset: got %d, want 20", res.Lines[0].X)
	}
}

func TestLayoutHorizontalAlignments(t *testing.T) {
	tests := []struct {
		align region.Align
		wantX int
	}{
		{region.AlignLeft, 0},
		{region.AlignCenter, 20},
		{region.AlignRight, 40},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			r := testRegion(geometry.NewRectInt(0, 0, 100, 50), "안녕하세요반")
			r.Style.Align = tt.align
			res, err := Layout(r, fixedFace{})
			if err != nil {
				t.Fatalf("Layout failed: %v", err)
			}
			if res.Lines[0].X != tt.wantX {
				t.Errorf("offset: got %d, want %d", res.Lines[0].X, tt.wantX)
			}
		})
	}
}

func TestLayoutVerticalCentering(t *testing.T) {
	// Width fits five runes; ten runes wrap into two lines. Block height
	// with spacing 1.0 is 2*12 = 24; interior height 100 centers at 38.
	r := testRegion(geometry.NewRectInt(0, 0, 50, 100), "안녕하세요반갑습니다")

	res, err := Layout(r, fixedFace{})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(res.Lines) != 2 {
		t.Fatalf("lines: got %d, want 2", len(res.Lines))
	}
	if res.BlockHeight != 24 {
		t.Errorf("block height: got %d, want 24", res.BlockHeight)
	}
	if res.Lines[0].Y != 38 {
		t.Errorf("first line Y: got %d, want 38", res.Lines[0].Y)
	}
	if res.Lines[1].Y != 50 {
		t.Errorf("second line Y: got %d, want 50", res.Lines[1].Y)
	}
}

func TestLayoutLineSpacingNoTrailingGap(t *testing.T) {
	// Spacing 1.5: baselines advance 18px but the final line contributes
	// only its own height, so two lines make 18+12 = 30.
	r := testRegion(geometry.NewRectInt(0, 0, 50, 100), "안녕하세요반갑습니다")
	r.Style.LineSpacing = 1.5

	res, err := Layout(r, fixedFace{})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if res.BlockHeight != 30 {
		t.Errorf("block height: got %d, want 30", res.BlockHeight)
	}
	if gap := res.Lines[1].Y - res.Lines[0].Y; gap != 18 {
		t.Errorf("baseline advance: got %d, want 18", gap)
	}
}

func TestLayoutTightLineSpacing(t *testing.T) {
	// Spacing below 1 pulls lines together: 0.75 of the 12px line height
	// advances 9px, and the final line still adds its full height.
	r := testRegion(geometry.NewRectInt(0, 0, 50, 100), "안녕하세요반갑습니다")
	r.Style.LineSpacing = 0.75

	res, err := Layout(r, fixedFace{})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if gap := res.Lines[1].Y - res.Lines[0].Y; gap != 9 {
		t.Errorf("baseline advance: got %d, want 9", gap)
	}
	if res.BlockHeight != 21 {
		t.Errorf("block height: got %d, want 21", res.BlockHeight)
	}
}

func TestLayoutVAlignTopBottom(t *testing.T) {
	r := testRegion(geometry.NewRectInt(0, 0, 100, 100), "안녕하세요반")

	r.Style.VAlign = region.VAlignTop
	res, _ := Layout(r, fixedFace{})
	if res.Lines[0].Y != 0 {
		t.Errorf("top valign Y: got %d, want 0", res.Lines[0].Y)
	}

	r.Style.VAlign = region.VAlignBottom
	res, _ = Layout(r, fixedFace{})
	if res.Lines[0].Y != 88 {
		t.Errorf("bottom valign Y: got %d, want 88", res.Lines[0].Y)
	}
}

func TestLayoutOverflowFlag(t *testing.T) {
	// Four wrapped lines need 48px against a 20px interior.
	r := testRegion(geometry.NewRectInt(0, 0, 50, 20), "안녕하세요반갑습니다좋은아침입니다다시")

	res, err := Layout(r, fixedFace{})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if !res.Overflow {
		t.Error("expected overflow flag")
	}

	// A tall box does not overflow.
	r.Rect.Height = 300
	res, err = Layout(r, fixedFace{})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if res.Overflow {
		t.Error("unexpected overflow flag")
	}
}

func TestLayoutEmptyText(t *testing.T) {
	r := testRegion(geometry.NewRectInt(0, 0, 100, 50), "")

	res, err := Layout(r, fixedFace{})
	if err != nil {
		t.Fatalf("Layout failed: %v", err)
	}
	if len(res.Lines) != 1 || res.Lines[0].Text != "" {
		t.Errorf("empty text: got %+v, want one empty line", res.Lines)
	}
}

func TestLayoutInvalidInputs(t *testing.T) {
	r := testRegion(geometry.NewRectInt(0, 0, 100, 50), "x")
	r.Style.FontSize = 0
	if _, err := Layout(r, fixedFace{}); !errors.Is(err, layout.ErrInvalidDimension) {
		t.Errorf("zero font size: got %v, want ErrInvalidDimension", err)
	}

	r = testRegion(geometry.NewRectInt(0, 0, 10, 50), "x")
	r.Style.Margin = region.UniformMargin(20)
	if _, err := Layout(r, fixedFace{}); !errors.Is(err, layout.ErrInvalidDimension) {
		t.Errorf("empty interior: got %v, want ErrInvalidDimension", err)
	}
}

func TestDrawStaysInsideRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	rect := geometry.NewRectInt(50, 50, 40, 30)
	// Far more text than fits; fill forces every interior pixel to change.
	r := testRegion(rect, "안녕하세요반갑습니다좋은아침입니다안녕하세요반갑습니다")
	r.Style.FillBackground = true
	r.Style.Background = region.Color{R: 255, G: 255, B: 255, A: 255}

	res, err := Draw(dst, r, fixedFace{})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if !res.Overflow {
		t.Error("expected overflow for this fixture")
	}

	inside := rect.ToImageRect()
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			p := dst.RGBAAt(x, y)
			if (image.Point{X: x, Y: y}).In(inside) {
				continue
			}
			if p != (color.RGBA{}) {
				t.Fatalf("pixel outside rect written at (%d,%d): %+v", x, y, p)
			}
		}
	}
}

func TestDrawWritesText(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	r := testRegion(geometry.NewRectInt(10, 10, 100, 50), "가나다")
	r.Style.FillBackground = false
	r.Style.Color = region.Black

	if _, err := Draw(dst, r, fixedFace{}); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	var touched int
	for y := 10; y < 60; y++ {
		for x := 10; x < 110; x++ {
			if dst.RGBAAt(x, y).A != 0 {
				touched++
			}
		}
	}
	if touched == 0 {
		t.Error("no glyph pixels written")
	}
}

func TestRendererMissingFont(t *testing.T) {
	rd := New(fontdb.NewRegistry())
	r := testRegion(geometry.NewRectInt(0, 0, 100, 50), "x")
	r.Style.FontFamily = "definitely-not-installed-9231"

	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	if _, err := rd.Draw(dst, r); !errors.Is(err, fontdb.ErrMissingFont) {
		t.Errorf("got %v, want ErrMissingFont", err)
	}

	// The fallback path renders regardless.
	if _, err := rd.DrawWithFallback(dst, r); err != nil {
		t.Errorf("DrawWithFallback failed: %v", err)
	}
}

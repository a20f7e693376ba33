// Package region provides the text region model: a rectangle on the target
// image plus the text and typesetting style drawn inside it.
package region

import (
	"fmt"
	"image/color"

	"text-overlay/internal/layout"
	"text-overlay/pkg/geometry"
)

// Source records how a region came into existence.
type Source string

const (
	SourceOCR    Source = "ocr"
	SourceManual Source = "manual"
)

// Align is the horizontal alignment of each line within the interior.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// VAlign is the vertical placement of the text block within the interior.
type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignMiddle VAlign = "middle"
	VAlignBottom VAlign = "bottom"
)

// Color is an 8-bit RGBA color that serializes to JSON field-for-field.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBA converts to the standard library color type.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

var (
	Black = Color{A: 255}
	White = Color{R: 255, G: 255, B: 255, A: 255}
)

// Margin is per-side padding in pixels between the rectangle edge and the
// text interior.
type Margin struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// UniformMargin returns a margin with the same padding on all sides.
func UniformMargin(px int) Margin {
	return Margin{Left: px, Top: px, Right: px, Bottom: px}
}

// Style holds the typesetting attributes of a region.
type Style struct {
	FontFamily  string  `json:"font_family"`
	FontSize    int     `json:"font_size"`
	Align       Align   `json:"align"`
	VAlign      VAlign  `json:"valign"`
	LineSpacing float64 `json:"line_spacing"`
	Margin      Margin  `json:"margin"`
	Color       Color   `json:"color"`

	// FillBackground covers the rectangle with Background before the text
	// is drawn, hiding the original source text underneath.
	FillBackground bool  `json:"fill_background"`
	Background     Color `json:"background"`

	// StrokeWidth > 0 outlines each glyph with StrokeColor.
	StrokeColor Color `json:"stroke_color"`
	StrokeWidth int   `json:"stroke_width"`

	WrapMode string `json:"wrap_mode"`
}

// Mode returns the line breaking mode for this style.
func (s Style) Mode() layout.Mode {
	return layout.ParseMode(s.WrapMode)
}

// DefaultStyle returns the style applied to newly created regions.
func DefaultStyle() Style {
	return Style{
		FontFamily:     "NanumGothic",
		FontSize:       18,
		Align:          AlignCenter,
		VAlign:         VAlignMiddle,
		LineSpacing:    1.2,
		Margin:         UniformMargin(2),
		Color:          Black,
		FillBackground: true,
		Background:     White,
		StrokeColor:    White,
		WrapMode:       layout.ModeChar.String(),
	}
}

// Validate checks the style's numeric invariants.
func (s Style) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("font size %d: %w", s.FontSize, layout.ErrInvalidDimension)
	}
	if s.LineSpacing <= 0 {
		return fmt.Errorf("line spacing %v: %w", s.LineSpacing, layout.ErrInvalidDimension)
	}
	return nil
}

// Region is a text box on the target image, either detected by OCR or drawn
// by the user.
type Region struct {
	ID         int              `json:"id"`
	Rect       geometry.RectInt `json:"rect"`
	Text       string           `json:"text"`
	Style      Style            `json:"style"`
	Source     Source           `json:"source"`
	Visible    bool             `json:"visible"`
	Confidence float64          `json:"confidence,omitempty"`
}

// Interior returns the rectangle minus the style margins.
func (r *Region) Interior() geometry.RectInt {
	m := r.Style.Margin
	return r.Rect.Inset(m.Left, m.Top, m.Right, m.Bottom)
}

// Validate checks the region's geometric and style invariants.
func (r *Region) Validate() error {
	if r.Rect.Width < 0 || r.Rect.Height < 0 {
		return fmt.Errorf("rect %dx%d: %w", r.Rect.Width, r.Rect.Height, layout.ErrInvalidDimension)
	}
	return r.Style.Validate()
}

// Package render lays wrapped text lines into a region's rectangle and
// rasterizes them onto an image surface.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"text-overlay/internal/fontdb"
	"text-overlay/internal/layout"
	"text-overlay/internal/region"
	"text-overlay/pkg/geometry"
)

// Line is a single laid-out line with its draw position in image coordinates.
type Line struct {
	Text  string
	X     int // left edge
	Y     int // top edge
	Width int
}

// Result describes a completed layout. Overflow is a non-fatal condition:
// the block was taller than the interior, the draw was clipped to the
// rectangle, and the caller may surface a warning.
type Result struct {
	Lines       []Line
	LineHeight  int
	BlockHeight int
	Interior    geometry.RectInt
	Overflow    bool
}

// Layout wraps the region's text and computes each line position without
// touching any pixels. The region is read once; mutating it afterwards does
// not affect the result.
func Layout(r *region.Region, face font.Face) (*Result, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	interior := r.Interior()
	if interior.Empty() {
		return nil, fmt.Errorf("interior %dx%d: %w", interior.Width, interior.Height, layout.ErrInvalidDimension)
	}

	lines, err := layout.Wrap(r.Text, face, interior.Width, r.Style.Mode())
	if err != nil {
		return nil, err
	}

	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	if lineHeight <= 0 {
		lineHeight = r.Style.FontSize
	}
	advance := int(float64(lineHeight) * r.Style.LineSpacing)
	if advance < 1 {
		advance = 1
	}
	// No trailing spacing after the final line.
	blockHeight := len(lines)*advance - (advance - lineHeight)

	startY := interior.Y
	switch r.Style.VAlign {
	case region.VAlignTop:
	case region.VAlignBottom:
		startY = interior.Y + interior.Height - blockHeight
	default: // middle
		startY = interior.Y + (interior.Height-blockHeight)/2
	}

	out := &Result{
		Lines:       make([]Line, len(lines)),
		LineHeight:  lineHeight,
		BlockHeight: blockHeight,
		Interior:    interior,
		Overflow:    blockHeight > interior.Height,
	}
	for i, text := range lines {
		lw := layout.LineWidth(face, text)
		x := interior.X
		switch r.Style.Align {
		case region.AlignLeft:
		case region.AlignRight:
			x = interior.X + interior.Width - lw
		default: // center
			x = interior.X + (interior.Width-lw)/2
		}
		out.Lines[i] = Line{Text: text, X: x, Y: startY + i*advance, Width: lw}
	}
	return out, nil
}

// Draw lays out the region and rasterizes it onto dst. Pixels are written
// only inside the region rectangle; overflowing lines are clipped, never
// drawn outside it. Returns the layout result so callers can inspect
// Overflow.
func Draw(dst draw.Image, r *region.Region, face font.Face) (*Result, error) {
	res, err := Layout(r, face)
	if err != nil {
		return nil, err
	}

	clipRect := r.Rect.ToImageRect().Intersect(dst.Bounds())
	if clipRect.Empty() {
		return res, nil
	}
	clip := &clippedImage{Image: dst, rect: clipRect}

	if r.Style.FillBackground {
		bg := image.NewUniform(r.Style.Background.RGBA())
		draw.Draw(dst, clipRect, bg, image.Point{}, draw.Over)
	}

	ascent := face.Metrics().Ascent.Ceil()
	drawer := &font.Drawer{Dst: clip, Face: face}

	for _, line := range res.Lines {
		if line.Text == "" {
			continue
		}
		baseline := line.Y + ascent

		if r.Style.StrokeWidth > 0 {
			drawer.Src = image.NewUniform(r.Style.StrokeColor.RGBA())
			for dy := -r.Style.StrokeWidth; dy <= r.Style.StrokeWidth; dy++ {
				for dx := -r.Style.StrokeWidth; dx <= r.Style.StrokeWidth; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					drawer.Dot = fixed.P(line.X+dx, baseline+dy)
					drawer.DrawString(line.Text)
				}
			}
		}

		drawer.Src = image.NewUniform(r.Style.Color.RGBA())
		drawer.Dot = fixed.P(line.X, baseline)
		drawer.DrawString(line.Text)
	}
	return res, nil
}

// clippedImage restricts writes to a rectangle, discarding pixels outside it.
type clippedImage struct {
	draw.Image
	rect image.Rectangle
}

func (c *clippedImage) Set(x, y int, col color.Color) {
	if (image.Point{X: x, Y: y}).In(c.rect) {
		c.Image.Set(x, y, col)
	}
}

// Renderer binds the text renderer to a font registry.
type Renderer struct {
	fonts *fontdb.Registry
}

// New creates a renderer using the given font registry.
func New(fonts *fontdb.Registry) *Renderer {
	return &Renderer{fonts: fonts}
}

// Draw renders the region with its exact font. Fails with a missing-font
// error when the family cannot be resolved.
func (rd *Renderer) Draw(dst draw.Image, r *region.Region) (*Result, error) {
	face, err := rd.fonts.Face(r.Style.FontFamily, float64(r.Style.FontSize))
	if err != nil {
		return nil, err
	}
	return Draw(dst, r, face)
}

// DrawWithFallback renders the region, substituting the default Korean font
// chain (and finally the embedded face) when the family is unavailable.
func (rd *Renderer) DrawWithFallback(dst draw.Image, r *region.Region) (*Result, error) {
	face := rd.fonts.FallbackFace(r.Style.FontFamily, float64(r.Style.FontSize))
	return Draw(dst, r, face)
}

// Measure lays out the region without drawing, using the fallback chain.
// Useful for pre-draw overflow warnings and canvas previews.
func (rd *Renderer) Measure(r *region.Region) (*Result, error) {
	face := rd.fonts.FallbackFace(r.Style.FontFamily, float64(r.Style.FontSize))
	return Layout(r, face)
}

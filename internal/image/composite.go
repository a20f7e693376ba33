package image

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"text-overlay/internal/ocr"
	"text-overlay/internal/region"
	"text-overlay/internal/render"
)

// Composite renders a page image with its text regions applied.
type Composite struct {
	Base    image.Image
	Regions []region.Region

	// MaskOriginal covers detected source text with the sampled
	// background color before the replacement text is drawn. Only
	// regions whose style does not already paint a background are
	// masked.
	MaskOriginal bool
	MaskPadding  int

	renderer *render.Renderer
}

// NewComposite creates a compositor for the given page image.
func NewComposite(base image.Image, r *render.Renderer) *Composite {
	return &Composite{
		Base:         base,
		MaskOriginal: true,
		MaskPadding:  2,
		renderer:     r,
	}
}

// Render produces the final composited page. It returns the image and
// the IDs of regions whose text did not fit inside their rectangle.
func (c *Composite) Render() (*image.RGBA, []int, error) {
	if c.Base == nil {
		return nil, nil, fmt.Errorf("composite has no base image")
	}

	bounds := c.Base.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, c.Base, bounds.Min, draw.Src)

	var overflowed []int
	for i := range c.Regions {
		r := &c.Regions[i]
		if !r.Visible {
			continue
		}

		if c.MaskOriginal && r.Source == region.SourceOCR && !r.Style.FillBackground {
			pad := c.MaskPadding
			mask := r.Rect.Inset(-pad, -pad, -pad, -pad)
			bg := ocr.RegionBackgroundColor(c.Base, mask)
			ocr.MaskRegion(result, mask, bg)
		}

		res, err := c.renderer.DrawWithFallback(result, r)
		if err != nil {
			return nil, nil, fmt.Errorf("render region %d: %w", r.ID, err)
		}
		if res.Overflow {
			overflowed = append(overflowed, r.ID)
		}
	}

	return result, overflowed, nil
}

// Export renders the composite and writes it to disk. The output format
// is chosen from the file extension.
func (c *Composite) Export(path string) ([]int, error) {
	img, overflowed, err := c.Render()
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(img, path); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}
	return overflowed, nil
}

package ocr

import (
	"image"
	"image/color"
	"image/draw"

	"text-overlay/pkg/geometry"
)

// RegionBackgroundColor samples the pixels along the border of a detected
// text rectangle and returns their average. Filling the rectangle with this
// color hides the original text while blending with the surrounding panel,
// which works well for flat speech-bubble backgrounds.
func RegionBackgroundColor(img image.Image, bounds geometry.RectInt) color.RGBA {
	rect := bounds.ToImageRect().Intersect(img.Bounds())
	if rect.Empty() {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	var r, g, b, count uint64
	sample := func(x, y int) {
		pr, pg, pb, _ := img.At(x, y).RGBA()
		r += uint64(pr >> 8)
		g += uint64(pg >> 8)
		b += uint64(pb >> 8)
		count++
	}

	for x := rect.Min.X; x < rect.Max.X; x++ {
		sample(x, rect.Min.Y)
		sample(x, rect.Max.Y-1)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		sample(rect.Min.X, y)
		sample(rect.Max.X-1, y)
	}

	if count == 0 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{
		R: uint8(r / count),
		G: uint8(g / count),
		B: uint8(b / count),
		A: 255,
	}
}

// MaskRegion fills a rectangle of the image with a solid color, clipped to
// the image bounds.
func MaskRegion(img draw.Image, bounds geometry.RectInt, c color.RGBA) {
	rect := bounds.ToImageRect().Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

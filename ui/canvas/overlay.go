// Package canvas provides overlay drawing primitives for the page canvas.
package canvas

import (
	"image"
	"image/color"
)

var (
	regionColor   = color.RGBA{R: 0x00, G: 0xB0, B: 0xFF, A: 0xFF} // Cyan outline
	selectedColor = color.RGBA{R: 0xFF, G: 0xD5, B: 0x00, A: 0xFF} // Gold selection
	overflowColor = color.RGBA{R: 0xFF, G: 0x3D, B: 0x00, A: 0xFF} // Red warning
	hiddenColor   = color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xFF} // Gray hidden
	previewColor  = color.RGBA{R: 0x00, G: 0xE6, B: 0x76, A: 0xFF} // Green rubber band
)

// Size of the square corner handles in raster pixels.
const handleSize = 7

// drawRectOutline draws a one pixel rectangle outline clipped to the image.
func drawRectOutline(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return
	}

	drawHLine(img, rect.Min.X, rect.Max.X, rect.Min.Y, col)
	drawHLine(img, rect.Min.X, rect.Max.X, rect.Max.Y, col)
	drawVLine(img, rect.Min.X, rect.Min.Y, rect.Max.Y, col)
	drawVLine(img, rect.Max.X, rect.Min.Y, rect.Max.Y, col)
}

// drawCornerHandles draws filled squares at the rectangle corners.
func drawCornerHandles(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	corners := []image.Point{
		{X: rect.Min.X, Y: rect.Min.Y},
		{X: rect.Max.X, Y: rect.Min.Y},
		{X: rect.Min.X, Y: rect.Max.Y},
		{X: rect.Max.X, Y: rect.Max.Y},
	}
	half := handleSize / 2
	for _, c := range corners {
		fillRect(img, image.Rect(c.X-half, c.Y-half, c.X+half+1, c.Y+half+1), col)
	}
}

// drawHLine draws a horizontal line clipped to the image bounds.
func drawHLine(img *image.RGBA, x1, x2, y int, col color.RGBA) {
	bounds := img.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	if x1 < bounds.Min.X {
		x1 = bounds.Min.X
	}
	if x2 >= bounds.Max.X {
		x2 = bounds.Max.X - 1
	}
	for x := x1; x <= x2; x++ {
		img.SetRGBA(x, y, col)
	}
}

// drawVLine draws a vertical line clipped to the image bounds.
func drawVLine(img *image.RGBA, x, y1, y2 int, col color.RGBA) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	if y1 < bounds.Min.Y {
		y1 = bounds.Min.Y
	}
	if y2 >= bounds.Max.Y {
		y2 = bounds.Max.Y - 1
	}
	for y := y1; y <= y2; y++ {
		img.SetRGBA(x, y, col)
	}
}

// fillRect fills a rectangle clipped to the image bounds.
func fillRect(img *image.RGBA, rect image.Rectangle, col color.RGBA) {
	rect = rect.Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

package canvas

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"text-overlay/internal/app"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestCanvas(t *testing.T, pageW, pageH int) (*app.State, *PageCanvas) {
	t.Helper()
	test.NewApp()

	s := app.NewState(nil)
	path := writeTestPNG(t, t.TempDir(), "page.png", pageW, pageH)
	if err := s.LoadTargetImage(path); err != nil {
		t.Fatal(err)
	}
	return s, NewPageCanvas(s)
}

func TestFitToWindowZoom(t *testing.T) {
	_, pc := newTestCanvas(t, 400, 200)

	pc.scroll.Resize(fyne.NewSize(200, 200))
	pc.SetFitToWindow(true)

	// min(200/400, 200/200) with the 5% margin.
	want := 0.5 * 0.95
	if got := pc.Zoom(); math.Abs(got-want) > 1e-9 {
		t.Errorf("fit zoom: got %v, want %v", got, want)
	}
}

func TestDrawRefitsSynchronously(t *testing.T) {
	_, pc := newTestCanvas(t, 400, 200)

	pc.scroll.Resize(fyne.NewSize(200, 200))
	pc.SetFitToWindow(true)

	// A raster redraw at a new size must leave the refitted zoom in place
	// when it returns, not hand it off to another goroutine.
	pc.scroll.Resize(fyne.NewSize(380, 190))
	pc.draw(380, 190)

	want := 0.95 * 0.95
	if got := pc.Zoom(); math.Abs(got-want) > 1e-9 {
		t.Errorf("zoom after redraw: got %v, want %v", got, want)
	}
	if pc.lastScrollSize != fyne.NewSize(380, 190) {
		t.Errorf("tracked view size: got %v, want 380x190", pc.lastScrollSize)
	}
}

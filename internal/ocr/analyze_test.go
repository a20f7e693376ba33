package ocr

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"text-overlay/pkg/geometry"
)

func TestMergeBlocksJoinsNearbyDetections(t *testing.T) {
	results := []Result{
		{Text: "안녕", Bounds: geometry.NewRectInt(10, 10, 60, 20), Confidence: 0.9},
		{Text: "하세요", Bounds: geometry.NewRectInt(10, 34, 60, 20), Confidence: 0.8},
		{Text: "far away", Bounds: geometry.NewRectInt(400, 400, 80, 20), Confidence: 0.95},
	}

	merged := MergeBlocks(results, 8)
	if len(merged) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(merged))
	}

	first := merged[0]
	if first.Text != "안녕\n하세요" {
		t.Errorf("merged text: got %q", first.Text)
	}
	wantBounds := geometry.NewRectInt(10, 10, 60, 44)
	if first.Bounds != wantBounds {
		t.Errorf("merged bounds: got %+v, want %+v", first.Bounds, wantBounds)
	}
	if first.Confidence != 0.8 {
		t.Errorf("merged confidence: got %v, want weakest 0.8", first.Confidence)
	}
}

func TestMergeBlocksEmpty(t *testing.T) {
	if got := MergeBlocks(nil, 8); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestEstimateFontSize(t *testing.T) {
	results := []Result{
		{Bounds: geometry.NewRectInt(0, 0, 100, 20)},
		{Bounds: geometry.NewRectInt(0, 0, 100, 30)},
		{Bounds: geometry.NewRectInt(0, 0, 100, 40)},
	}
	got := EstimateFontSize(results)
	if got != 21 { // median 30 * 0.7
		t.Errorf("got %d, want 21", got)
	}

	if got := EstimateFontSize(nil); got != 0 {
		t.Errorf("empty input: got %d, want 0", got)
	}

	// Tiny boxes never suggest an unreadable size.
	small := []Result{{Bounds: geometry.NewRectInt(0, 0, 10, 6)}}
	if got := EstimateFontSize(small); got != 8 {
		t.Errorf("small boxes: got %d, want floor of 8", got)
	}
}

func TestRegionBackgroundColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	gray := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.SetRGBA(x, y, gray)
		}
	}
	// Dark "text" inside the region should not affect the border sample.
	for y := 15; y < 25; y++ {
		for x := 15; x < 35; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}

	got := RegionBackgroundColor(img, geometry.NewRectInt(10, 10, 30, 20))
	if got != gray {
		t.Errorf("got %+v, want %+v", got, gray)
	}

	// Degenerate rect falls back to white.
	got = RegionBackgroundColor(img, geometry.NewRectInt(100, 100, 10, 10))
	if got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("out of bounds: got %+v, want white", got)
	}
}

func TestMaskRegionClipsToImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{R: 255, A: 255}

	MaskRegion(img, geometry.NewRectInt(15, 15, 10, 10), red)

	if img.RGBAAt(16, 16) != red {
		t.Error("pixel inside clipped mask not filled")
	}
	if img.RGBAAt(10, 10) != (color.RGBA{}) {
		t.Error("pixel outside mask was filled")
	}
}

func TestWrapCloudError(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, ErrAuthentication},
		{codes.PermissionDenied, ErrAuthentication},
		{codes.Unavailable, ErrServiceUnavailable},
		{codes.DeadlineExceeded, ErrServiceUnavailable},
	}
	for _, tt := range tests {
		err := wrapCloudError(status.Error(tt.code, "boom"))
		if !errors.Is(err, tt.want) {
			t.Errorf("code %v: got %v, want %v", tt.code, err, tt.want)
		}
	}

	// Unknown codes pass through untagged.
	err := wrapCloudError(status.Error(codes.InvalidArgument, "boom"))
	if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("unexpected tagging: %v", err)
	}
}

func TestCloudClientUnconfigured(t *testing.T) {
	c := NewCloudClient("")
	if c.Configured() {
		t.Error("empty credentials should not be configured")
	}
	_, err := c.DetectRegionsFile(nil, "nonexistent.png")
	if err == nil {
		t.Fatal("expected error")
	}
}

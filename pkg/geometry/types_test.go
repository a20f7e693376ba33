package geometry

import (
	"image"
	"testing"
)

func TestRectIntClampTo(t *testing.T) {
	bounds := NewRectInt(0, 0, 100, 100)

	tests := []struct {
		name string
		in   RectInt
		want RectInt
	}{
		{"inside unchanged", NewRectInt(10, 10, 20, 20), NewRectInt(10, 10, 20, 20)},
		{"pushed right", NewRectInt(-5, 10, 20, 20), NewRectInt(0, 10, 20, 20)},
		{"pushed down", NewRectInt(10, -5, 20, 20), NewRectInt(10, 0, 20, 20)},
		{"pushed left", NewRectInt(95, 10, 20, 20), NewRectInt(80, 10, 20, 20)},
		{"pushed up", NewRectInt(10, 95, 20, 20), NewRectInt(10, 80, 20, 20)},
		{"oversize shrunk", NewRectInt(-10, -10, 200, 200), NewRectInt(0, 0, 100, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ClampTo(bounds)
			if got != tt.want {
				t.Errorf("ClampTo: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectIntInset(t *testing.T) {
	r := NewRectInt(10, 10, 100, 50)

	got := r.Inset(5, 2, 5, 2)
	want := NewRectInt(15, 12, 90, 46)
	if got != want {
		t.Errorf("Inset: got %+v, want %+v", got, want)
	}

	// Insets larger than the rect clamp to zero size, never negative.
	got = r.Inset(60, 30, 60, 30)
	if got.Width != 0 || got.Height != 0 {
		t.Errorf("oversized inset: got %dx%d, want 0x0", got.Width, got.Height)
	}
}

func TestRectIntUnion(t *testing.T) {
	a := NewRectInt(0, 0, 10, 10)
	b := NewRectInt(20, 5, 10, 10)

	got := a.Union(b)
	want := NewRectInt(0, 0, 30, 15)
	if got != want {
		t.Errorf("Union: got %+v, want %+v", got, want)
	}

	if got := a.Union(RectInt{}); got != a {
		t.Errorf("union with empty: got %+v, want %+v", got, a)
	}
	if got := (RectInt{}).Union(b); got != b {
		t.Errorf("empty union: got %+v, want %+v", got, b)
	}
}

func TestImageRectConversion(t *testing.T) {
	r := NewRectInt(3, 4, 20, 10)
	ir := r.ToImageRect()
	if ir != image.Rect(3, 4, 23, 14) {
		t.Errorf("ToImageRect: got %v", ir)
	}
	if back := FromImageRect(ir); back != r {
		t.Errorf("FromImageRect: got %+v, want %+v", back, r)
	}
}

package fontdb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"text-overlay/internal/layout"
)

// writeTestFont writes the embedded Go Regular bytes out as a real .ttf file
// so directory and registration lookup run against an actual font.
func writeTestFont(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatalf("write test font: %v", err)
	}
	return path
}

func TestFaceFromRegisteredFile(t *testing.T) {
	r := NewRegistry()
	path := writeTestFont(t, t.TempDir(), "TestSans.ttf")
	r.Register("Test Sans", path)

	face, err := r.Face("Test Sans", 18)
	if err != nil {
		t.Fatalf("Face failed: %v", err)
	}
	if face == nil {
		t.Fatal("nil face")
	}
	if m := face.Metrics(); m.Height <= 0 {
		t.Errorf("face metrics: height %v", m.Height)
	}
}

func TestFaceFromDirectoryLookup(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	writeTestFont(t, dir, "NanumGothic.ttf")
	r.AddDir(dir)

	if _, err := r.Face("NanumGothic", 14); err != nil {
		t.Fatalf("Face failed: %v", err)
	}
}

func TestFaceMissingFamily(t *testing.T) {
	r := NewRegistry()
	r.dirs = nil // no filesystem lookups

	if _, err := r.Face("No Such Family", 12); !errors.Is(err, ErrMissingFont) {
		t.Errorf("got %v, want ErrMissingFont", err)
	}
}

func TestFaceInvalidSize(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Face("NanumGothic", 0); !errors.Is(err, layout.ErrInvalidDimension) {
		t.Errorf("got %v, want ErrInvalidDimension", err)
	}
}

func TestRegisteredFileRemoved(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	path := writeTestFont(t, dir, "Gone.ttf")
	r.Register("Gone", path)
	os.Remove(path)

	if _, err := r.Face("Gone", 12); !errors.Is(err, ErrMissingFont) {
		t.Errorf("got %v, want ErrMissingFont", err)
	}
}

func TestFallbackFaceNeverNil(t *testing.T) {
	r := NewRegistry()
	r.dirs = nil

	face := r.FallbackFace("No Such Family", 16)
	if face == nil {
		t.Fatal("fallback face is nil")
	}
	// Degenerate sizes are coerced, not fatal.
	if face := r.FallbackFace("whatever", -3); face == nil {
		t.Fatal("fallback face with bad size is nil")
	}
}

func TestFaceMultipleSizes(t *testing.T) {
	r := NewRegistry()
	path := writeTestFont(t, t.TempDir(), "Cached.ttf")
	r.Register("Cached", path)

	small, err := r.Face("Cached", 12)
	if err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	large, err := r.Face("Cached", 24)
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if small.Metrics().Height >= large.Metrics().Height {
		t.Errorf("line height did not grow with size: %v vs %v",
			small.Metrics().Height, large.Metrics().Height)
	}
}

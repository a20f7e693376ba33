package document

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"text-overlay/internal/region"
	"text-overlay/pkg/geometry"
)

func sampleRegions() []region.Region {
	styleA := region.DefaultStyle()
	styleA.FontSize = 24
	styleA.Align = region.AlignLeft
	styleA.StrokeWidth = 2
	styleA.StrokeColor = region.White
	styleA.Color = region.Color{R: 10, G: 20, B: 30, A: 255}

	styleB := region.DefaultStyle()
	styleB.WrapMode = "word"
	styleB.LineSpacing = 1.5
	styleB.FillBackground = false

	return []region.Region{
		{
			ID:         1,
			Rect:       geometry.RectInt{X: 10, Y: 20, Width: 200, Height: 80},
			Text:       "안녕하세요",
			Style:      styleA,
			Source:     region.SourceOCR,
			Visible:    true,
			Confidence: 0.93,
		},
		{
			ID:      2,
			Rect:    geometry.RectInt{X: 300, Y: 400, Width: 120, Height: 60},
			Text:    "Hello\nWorld",
			Style:   styleB,
			Source:  region.SourceManual,
			Visible: false,
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := New("chapter-12")
	doc.Regions = sampleRegions()

	path := filepath.Join(t.TempDir(), "chapter-12.ovproj")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Version != doc.Version {
		t.Errorf("Version = %d, want %d", loaded.Version, doc.Version)
	}
	if loaded.Name != "chapter-12" {
		t.Errorf("Name = %q, want %q", loaded.Name, "chapter-12")
	}
	if !reflect.DeepEqual(loaded.Regions, doc.Regions) {
		t.Errorf("Regions round trip mismatch:\n got %+v\nwant %+v", loaded.Regions, doc.Regions)
	}
	if !reflect.DeepEqual(loaded.Settings, doc.Settings) {
		t.Errorf("Settings round trip mismatch: got %+v, want %+v", loaded.Settings, doc.Settings)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.ovproj")); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ovproj")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on invalid JSON should fail")
	}
}

func TestImagePathsRelative(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "proj", "page.ovproj")
	imgPath := filepath.Join(dir, "images", "page01.png")

	doc := New("page")
	doc.SetSourceImage(docPath, imgPath)

	want := filepath.Join("..", "images", "page01.png")
	if doc.SourceImagePath != want {
		t.Errorf("SourceImagePath = %q, want %q", doc.SourceImagePath, want)
	}
	if got := doc.SourceImageAbs(docPath); got != imgPath {
		t.Errorf("SourceImageAbs() = %q, want %q", got, imgPath)
	}
}

func TestImagePathAbsEmpty(t *testing.T) {
	doc := New("empty")
	if got := doc.TargetImageAbs("/tmp/doc.ovproj"); got != "" {
		t.Errorf("TargetImageAbs() with no path = %q, want empty", got)
	}
}

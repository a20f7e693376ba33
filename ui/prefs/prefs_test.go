package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestPrefs(t *testing.T) *Prefs {
	return &Prefs{
		values: make(map[string]interface{}),
		path:   filepath.Join(t.TempDir(), "session.json"),
	}
}

func TestStringAndBool(t *testing.T) {
	p := newTestPrefs(t)

	if p.String(KeyLastDir) != "" {
		t.Error("unset string should be empty")
	}
	p.SetString(KeyLastDir, "/pages")
	if got := p.String(KeyLastDir); got != "/pages" {
		t.Errorf("String() = %q", got)
	}

	if !p.Bool(KeyFitToWindow, true) {
		t.Error("unset bool should return fallback")
	}
	p.SetBool(KeyFitToWindow, false)
	if p.Bool(KeyFitToWindow, true) {
		t.Error("stored bool should win over fallback")
	}
}

func TestFloatFallback(t *testing.T) {
	p := newTestPrefs(t)
	if got := p.Float(KeyZoom, 1.0); got != 1.0 {
		t.Errorf("Float() fallback = %v, want 1.0", got)
	}
	p.SetFloat(KeyZoom, 2.5)
	if got := p.Float(KeyZoom, 1.0); got != 2.5 {
		t.Errorf("Float() = %v, want 2.5", got)
	}
}

func TestRecentDedupAndLimit(t *testing.T) {
	p := newTestPrefs(t)

	p.AddRecent("a.ovproj")
	p.AddRecent("b.ovproj")
	p.AddRecent("a.ovproj") // moves to front

	want := []string{"a.ovproj", "b.ovproj"}
	if got := p.Recent(); !reflect.DeepEqual(got, want) {
		t.Errorf("Recent() = %v, want %v", got, want)
	}

	for i := 0; i < maxRecent+3; i++ {
		p.AddRecent(string(rune('a'+i)) + ".ovproj")
	}
	if got := len(p.Recent()); got != maxRecent {
		t.Errorf("Recent() length = %d, want %d", got, maxRecent)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := newTestPrefs(t)
	p.SetString(KeyLastDocument, "ch01.ovproj")
	p.AddRecent("ch01.ovproj")
	if err := p.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := &Prefs{values: make(map[string]interface{}), path: p.path}
	data, err := os.ReadFile(p.path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &loaded.values); err != nil {
		t.Fatal(err)
	}
	if got := loaded.String(KeyLastDocument); got != "ch01.ovproj" {
		t.Errorf("reloaded String() = %q", got)
	}
	if got := loaded.Recent(); !reflect.DeepEqual(got, []string{"ch01.ovproj"}) {
		t.Errorf("reloaded Recent() = %v", got)
	}
}

package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CredentialsPath = "/home/user/keys/vision.json"
	cfg.LanguageHints = []string{"ko"}
	cfg.FontDirs = []string{"/usr/share/fonts/custom"}
	cfg.DefaultFontFamily = "malgun"
	cfg.MergeGap = 4
	cfg.MaskOriginalText = false
	cfg.AutosaveSeconds = 0

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("config round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	// Overwrite with malformed YAML.
	if err := os.WriteFile(path, []byte("credentials_path: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() on malformed YAML should fail")
	}
}

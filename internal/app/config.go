package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"text-overlay/pkg/geometry"
)

// Config holds user preferences persisted between sessions.
type Config struct {
	// Path to the Google Cloud service account key used for OCR.
	CredentialsPath string `yaml:"credentials_path"`

	// Language hints passed to the OCR service.
	LanguageHints []string `yaml:"language_hints"`

	// Extra directories scanned for font files.
	FontDirs []string `yaml:"font_dirs"`

	// Font family applied to new regions.
	DefaultFontFamily string `yaml:"default_font_family"`

	// Pixel gap within which detected OCR blocks are merged.
	MergeGap int `yaml:"merge_gap"`

	// Cover the original page text before drawing replacements.
	MaskOriginalText bool `yaml:"mask_original_text"`

	// Autosave interval in seconds (0 disables autosave).
	AutosaveSeconds int `yaml:"autosave_seconds"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LanguageHints:     []string{"ko", "ja", "en"},
		DefaultFontFamily: "NanumGothic",
		MergeGap:          10,
		MaskOriginalText:  true,
		AutosaveSeconds:   120,
	}
}

// DefaultBounds returns the region clamp bounds used before any page image
// is loaded. Empty bounds disable clamping.
func (c *Config) DefaultBounds() geometry.RectInt {
	return geometry.RectInt{}
}

// ConfigPath returns the per-user configuration file location.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "text-overlay", "config.yaml"), nil
}

// LoadConfig reads the configuration file, falling back to defaults when the
// file does not exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration, creating the parent directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

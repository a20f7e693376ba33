// Package document provides overlay document file handling and persistence.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"text-overlay/internal/region"
)

// File represents an overlay document (.ovproj): the image pair being
// edited plus every text region placed on the target image.
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Image paths (relative to the document file)
	SourceImagePath string `json:"source_image,omitempty"`
	TargetImagePath string `json:"target_image,omitempty"`

	Regions []region.Region `json:"regions"`

	// User settings
	Settings Settings `json:"settings,omitempty"`
}

// Settings holds per-document preferences.
type Settings struct {
	DefaultFontFamily string   `json:"default_font_family,omitempty"`
	DefaultFontSize   int      `json:"default_font_size,omitempty"`
	LanguageHints     []string `json:"language_hints,omitempty"`
}

// New creates a new document with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: Settings{
			DefaultFontFamily: "NanumGothic",
			DefaultFontSize:   18,
			LanguageHints:     []string{"ko", "ja", "en"},
		},
	}
}

// Load loads a document from an .ovproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

// Save saves the document to a file, bumping the modified timestamp.
func (f *File) Save(path string) error {
	f.Modified = time.Now()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetSourceImage sets the source image path relative to the document.
func (f *File) SetSourceImage(docPath, imagePath string) {
	f.SourceImagePath = relativeTo(docPath, imagePath)
	f.Modified = time.Now()
}

// SetTargetImage sets the target image path relative to the document.
func (f *File) SetTargetImage(docPath, imagePath string) {
	f.TargetImagePath = relativeTo(docPath, imagePath)
	f.Modified = time.Now()
}

// SourceImageAbs returns the absolute path to the source image.
func (f *File) SourceImageAbs(docPath string) string {
	return absoluteFrom(docPath, f.SourceImagePath)
}

// TargetImageAbs returns the absolute path to the target image.
func (f *File) TargetImageAbs(docPath string) string {
	return absoluteFrom(docPath, f.TargetImagePath)
}

func relativeTo(docPath, imagePath string) string {
	rel, err := filepath.Rel(filepath.Dir(docPath), imagePath)
	if err != nil {
		return imagePath
	}
	return rel
}

func absoluteFrom(docPath, imagePath string) string {
	if imagePath == "" {
		return ""
	}
	if filepath.IsAbs(imagePath) {
		return imagePath
	}
	return filepath.Join(filepath.Dir(docPath), imagePath)
}

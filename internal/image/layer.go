// Package image provides page image loading, layer management, and compositing.
package image

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"text-overlay/pkg/geometry"
)

// Role indicates what a page image is used for.
type Role int

const (
	RoleUnknown Role = iota
	RoleSource       // Original page, text in the source language
	RoleTarget       // Page the translated text is drawn onto
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "Source"
	case RoleTarget:
		return "Target"
	default:
		return "Unknown"
	}
}

// Layer represents a single page image loaded into the editor.
type Layer struct {
	Path    string      // Original file path
	Image   image.Image // Loaded image data
	Role    Role        // Source or target page
	Visible bool        // Layer visibility
	Opacity float64     // Layer opacity (0.0 - 1.0)
}

// NewLayer creates a new Layer with default settings.
func NewLayer() *Layer {
	return &Layer{
		Visible: true,
		Opacity: 1.0,
	}
}

// Load loads a page image from the specified path and returns a Layer.
func Load(path string) (*Layer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	layer := NewLayer()
	layer.Path = path
	layer.Image = img
	layer.Role = guessRoleFromFilename(path)

	return layer, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (l *Layer) Size() geometry.Size {
	return geometry.Size{Width: l.Width(), Height: l.Height()}
}

// Bounds returns the pixel bounds of the layer as a RectInt.
func (l *Layer) Bounds() geometry.RectInt {
	if l.Image == nil {
		return geometry.RectInt{}
	}
	return geometry.FromImageRect(l.Image.Bounds())
}

// Thumbnail returns a scaled-down copy of the layer image that fits
// within the given box, preserving aspect ratio.
func (l *Layer) Thumbnail(maxW, maxH int) image.Image {
	if l.Image == nil {
		return nil
	}
	return imaging.Fit(l.Image, maxW, maxH, imaging.Lanczos)
}

// guessRoleFromFilename attempts to determine the page role from the filename.
func guessRoleFromFilename(path string) Role {
	base := strings.ToLower(filepath.Base(path))

	sourceKeywords := []string{"raw", "original", "source", "src"}
	for _, kw := range sourceKeywords {
		if strings.Contains(base, kw) {
			return RoleSource
		}
	}

	targetKeywords := []string{"clean", "cleaned", "target", "translated"}
	for _, kw := range targetKeywords {
		if strings.Contains(base, kw) {
			return RoleTarget
		}
	}

	return RoleUnknown
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns a file filter string for use in file dialogs.
func FileFilter() string {
	return "Image Files (*.png, *.jpg, *.jpeg, *.gif, *.bmp, *.tiff, *.tif)"
}

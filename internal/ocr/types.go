// Package ocr detects text regions in source images, either through the
// Google Cloud Vision API or a local Tesseract engine.
package ocr

import (
	"errors"

	"text-overlay/pkg/geometry"
)

// ErrAuthentication indicates missing or rejected OCR credentials.
var ErrAuthentication = errors.New("ocr: authentication failed")

// ErrServiceUnavailable indicates the OCR service could not be reached or
// timed out. Callers surface it to the user; nothing retries automatically.
var ErrServiceUnavailable = errors.New("ocr: service unavailable")

// Result is a single detected text region in source image coordinates.
type Result struct {
	Text       string           `json:"text"`
	Bounds     geometry.RectInt `json:"bounds"`
	Confidence float64          `json:"confidence"`
}

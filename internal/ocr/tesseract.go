package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"text-overlay/pkg/geometry"
)

// Languages for local recognition. Comic/manga sources are mostly Korean
// and Japanese with occasional Latin text.
const tesseractLanguages = "kor+jpn+eng"

// Engine provides local OCR using Tesseract, the offline alternative to
// CloudClient. No credentials required.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a local OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(tesseractLanguages); err != nil {
		client.Close()
		return nil, fmt.Errorf("set OCR language: %w", err)
	}
	return &Engine{client: client}, nil
}

// Close releases Tesseract resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// DetectRegions finds and recognizes text blocks in the whole image.
func (e *Engine) DetectRegions(img image.Image) ([]Result, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	processed := preprocess(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_PARA)
	if err != nil {
		return nil, fmt.Errorf("get boxes: %w", err)
	}

	var results []Result
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		results = append(results, Result{
			Text: text,
			Bounds: geometry.RectInt{
				X:      box.Box.Min.X,
				Y:      box.Box.Min.Y,
				Width:  box.Box.Dx(),
				Height: box.Box.Dy(),
			},
			Confidence: box.Confidence / 100.0,
		})
	}
	return results, nil
}

// RecognizeRegion recognizes the text inside one rectangle, used when the
// user re-runs OCR on a single box.
func (e *Engine) RecognizeRegion(img image.Image, bounds geometry.RectInt) (string, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return "", fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	x, y := max(0, bounds.X), max(0, bounds.Y)
	w := min(bounds.Width, mat.Cols()-x)
	h := min(bounds.Height, mat.Rows()-y)
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("region outside image bounds")
	}

	crop := mat.Region(image.Rect(x, y, x+w, y+h))
	defer crop.Close()

	processed := preprocess(crop)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// preprocess prepares a page crop for recognition: upscale small crops,
// boost contrast, binarize, and flip polarity when text is light-on-dark
// (speech text on dark panels).
func preprocess(src gocv.Mat) gocv.Mat {
	h, w := src.Rows(), src.Cols()

	var scaled gocv.Mat
	if minDim := min(h, w); minDim > 0 && minDim < 150 {
		scale := 150.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(src, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = src.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{X: 8, Y: 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Tesseract expects dark text on a light background.
	whiteRatio := float64(gocv.CountNonZero(binary)) / float64(binary.Rows()*binary.Cols())
	if whiteRatio < 0.5 {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}

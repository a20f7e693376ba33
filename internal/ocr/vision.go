package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"text-overlay/pkg/geometry"
)

// CloudClient performs OCR through the Google Cloud Vision API using a
// service account key file. The client is cheap to construct; the API
// connection is established per call so credential changes take effect
// immediately.
type CloudClient struct {
	credentialsPath string
	languageHints   []string
}

// NewCloudClient creates a client. languageHints bias recognition (e.g.
// "ko", "ja", "en"); an empty list lets the service auto-detect.
func NewCloudClient(credentialsPath string, languageHints ...string) *CloudClient {
	return &CloudClient{
		credentialsPath: credentialsPath,
		languageHints:   languageHints,
	}
}

// SetCredentialsPath replaces the service account key file path.
func (c *CloudClient) SetCredentialsPath(path string) {
	c.credentialsPath = path
}

// Configured reports whether a credentials file has been set. Manual region
// workflows must keep working when this is false.
func (c *CloudClient) Configured() bool {
	return c.credentialsPath != ""
}

// DetectRegions runs document text detection on the image and returns one
// result per detected paragraph.
func (c *CloudClient) DetectRegions(ctx context.Context, img image.Image) ([]Result, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return c.detect(ctx, buf.Bytes())
}

// DetectRegionsFile runs detection on an image file without re-encoding it.
func (c *CloudClient) DetectRegionsFile(ctx context.Context, path string) ([]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return c.detect(ctx, data)
}

func (c *CloudClient) detect(ctx context.Context, content []byte) ([]Result, error) {
	if c.credentialsPath == "" {
		return nil, fmt.Errorf("no credentials configured: %w", ErrAuthentication)
	}
	if _, err := os.Stat(c.credentialsPath); err != nil {
		return nil, fmt.Errorf("credentials file %s: %w", c.credentialsPath, ErrAuthentication)
	}

	client, err := vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(c.credentialsPath))
	if err != nil {
		return nil, wrapCloudError(fmt.Errorf("create vision client: %w", err))
	}
	defer client.Close()

	annotation, err := client.DetectDocumentText(
		ctx,
		&visionpb.Image{Content: content},
		&visionpb.ImageContext{LanguageHints: c.languageHints},
	)
	if err != nil {
		return nil, wrapCloudError(fmt.Errorf("detect document text: %w", err))
	}
	if annotation == nil {
		return nil, nil
	}

	var results []Result
	for _, page := range annotation.GetPages() {
		for _, block := range page.GetBlocks() {
			for _, para := range block.GetParagraphs() {
				text := paragraphText(para)
				if text == "" {
					continue
				}
				results = append(results, Result{
					Text:       text,
					Bounds:     polyBounds(para.GetBoundingBox()),
					Confidence: float64(para.GetConfidence()),
				})
			}
		}
	}
	return results, nil
}

// paragraphText reassembles a paragraph from its symbols, honoring the
// detected breaks so line breaks survive into the region text.
func paragraphText(para *visionpb.Paragraph) string {
	var b bytes.Buffer
	for _, word := range para.GetWords() {
		for _, sym := range word.GetSymbols() {
			b.WriteString(sym.GetText())
			switch sym.GetProperty().GetDetectedBreak().GetType() {
			case visionpb.TextAnnotation_DetectedBreak_SPACE,
				visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
				b.WriteString(" ")
			case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE,
				visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
				b.WriteString("\n")
			}
		}
	}
	s := b.String()
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}

// polyBounds converts a bounding polygon to its axis-aligned rectangle.
func polyBounds(poly *visionpb.BoundingPoly) geometry.RectInt {
	vertices := poly.GetVertices()
	points := make([]geometry.PointInt, 0, len(vertices))
	for _, v := range vertices {
		points = append(points, geometry.PointInt{X: int(v.GetX()), Y: int(v.GetY())})
	}
	return geometry.BoundingBox(points)
}

// wrapCloudError tags gRPC failures with the package sentinel errors so the
// UI can distinguish credential problems from outages.
func wrapCloudError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%v: %w", err, ErrAuthentication)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%v: %w", err, ErrServiceUnavailable)
	}
	return err
}

package ocr

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"text-overlay/pkg/geometry"
)

// MergeBlocks groups detections whose rectangles lie within gap pixels of
// each other into single blocks, joining their text with newlines in
// top-to-bottom order. OCR services often split one speech bubble into
// several paragraphs; merged blocks map better onto editable regions.
func MergeBlocks(results []Result, gap int) []Result {
	if len(results) == 0 {
		return nil
	}

	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Bounds.Y != sorted[j].Bounds.Y {
			return sorted[i].Bounds.Y < sorted[j].Bounds.Y
		}
		return sorted[i].Bounds.X < sorted[j].Bounds.X
	})

	var merged []Result
	for _, r := range sorted {
		expanded := r.Bounds.Inset(-gap, -gap, -gap, -gap)
		joined := false
		for i := range merged {
			if merged[i].Bounds.Intersects(expanded) {
				merged[i].Bounds = merged[i].Bounds.Union(r.Bounds)
				merged[i].Text = merged[i].Text + "\n" + r.Text
				// Keep the weakest confidence of the group.
				if r.Confidence < merged[i].Confidence {
					merged[i].Confidence = r.Confidence
				}
				joined = true
				break
			}
		}
		if !joined {
			merged = append(merged, r)
		}
	}

	for i := range merged {
		merged[i].Text = strings.TrimSpace(merged[i].Text)
	}
	return merged
}

// EstimateFontSize suggests a starting font size from the median height of
// the detected boxes, scaled down to leave breathing room for margins and
// line spacing. Returns 0 when there is nothing to estimate from.
func EstimateFontSize(results []Result) int {
	heights := make([]float64, 0, len(results))
	for _, r := range results {
		if r.Bounds.Height > 0 {
			heights = append(heights, float64(r.Bounds.Height))
		}
	}
	if len(heights) == 0 {
		return 0
	}
	sort.Float64s(heights)
	median := stat.Quantile(0.5, stat.Empirical, heights, nil)

	size := int(median * 0.7)
	if size < 8 {
		size = 8
	}
	return size
}

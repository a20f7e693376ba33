// Command ocrscan detects text regions on a page image and prints them as
// JSON, using either cloud OCR or the local Tesseract engine.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"text-overlay/internal/image"
	"text-overlay/internal/ocr"
)

func main() {
	imagePath := flag.String("image", "", "Path to the page image")
	credentials := flag.String("credentials", "", "Google Cloud service account key (cloud engine)")
	engine := flag.String("engine", "cloud", "OCR engine: cloud or tesseract")
	hints := flag.String("hints", "ko,ja,en", "Comma separated language hints (cloud engine)")
	gap := flag.Int("gap", 10, "Pixel gap within which blocks are merged")
	timeout := flag.Duration("timeout", 60*time.Second, "Detection timeout")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: ocrscan -image <path> [-engine cloud|tesseract] [-credentials <key.json>] [-gap 10]")
		os.Exit(1)
	}

	layer, err := image.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Loaded %s (%dx%d)\n", *imagePath, layer.Width(), layer.Height())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var results []ocr.Result
	switch *engine {
	case "cloud":
		client := ocr.NewCloudClient(*credentials, splitHints(*hints)...)
		results, err = client.DetectRegions(ctx, layer.Image)
	case "tesseract":
		var eng *ocr.Engine
		eng, err = ocr.NewEngine()
		if err == nil {
			defer eng.Close()
			results, err = eng.DetectRegions(layer.Image)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown engine %q\n", *engine)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	merged := ocr.MergeBlocks(results, *gap)
	fmt.Fprintf(os.Stderr, "Found %d regions (%d before merging), estimated font size %d\n",
		len(merged), len(results), ocr.EstimateFontSize(merged))

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encode failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func splitHints(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

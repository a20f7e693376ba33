// Command overlayrender renders a document's text regions onto its page
// image and writes the result, without starting the GUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"text-overlay/internal/document"
	"text-overlay/internal/fontdb"
	"text-overlay/internal/image"
	"text-overlay/internal/render"
)

func main() {
	docPath := flag.String("doc", "", "Path to the .ovproj document")
	outPath := flag.String("out", "", "Output image path (PNG or JPEG)")
	fontDir := flag.String("fonts", "", "Extra font directory")
	noMask := flag.Bool("no-mask", false, "Do not cover the original page text")
	flag.Parse()

	if *docPath == "" || *outPath == "" {
		fmt.Println("Usage: overlayrender -doc <path.ovproj> -out <path.png> [-fonts <dir>] [-no-mask]")
		os.Exit(1)
	}

	doc, err := document.Load(*docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load document: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s: %d regions\n", doc.Name, len(doc.Regions))

	pagePath := doc.TargetImageAbs(*docPath)
	if pagePath == "" {
		pagePath = doc.SourceImageAbs(*docPath)
	}
	if pagePath == "" {
		fmt.Fprintln(os.Stderr, "Document has no page image")
		os.Exit(1)
	}

	layer, err := image.Load(pagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load page image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Page: %s (%dx%d)\n", pagePath, layer.Width(), layer.Height())

	fonts := fontdb.NewRegistry()
	if *fontDir != "" {
		fonts.AddDir(*fontDir)
	}

	comp := image.NewComposite(layer.Image, render.New(fonts))
	comp.Regions = doc.Regions
	comp.MaskOriginal = !*noMask

	overflowed, err := comp.Export(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	for _, id := range overflowed {
		fmt.Printf("Warning: text overflows region %d\n", id)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}

// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"context"
	"fmt"
	"sync"

	"text-overlay/internal/document"
	"text-overlay/internal/fontdb"
	"text-overlay/internal/image"
	"text-overlay/internal/ocr"
	"text-overlay/internal/region"
	"text-overlay/internal/render"
	"text-overlay/pkg/geometry"
)

// State holds the application state including the current document, page
// images, region store, and settings.
type State struct {
	mu sync.RWMutex

	// Document
	DocumentPath string
	Document     *document.File
	Modified     bool

	// Page images
	SourceImage *image.Layer
	TargetImage *image.Layer

	// Text regions placed on the target image
	Regions *region.Store

	// Fonts and rendering
	Fonts    *fontdb.Registry
	Renderer *render.Renderer

	// OCR
	Cloud *ocr.CloudClient

	// Currently selected region (0 = none)
	SelectedID int

	// Configuration
	Config *Config

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentSaved
	EventImageLoaded
	EventRegionsChanged
	EventSelectionChanged
	EventModified
	EventOCRComplete
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState(cfg *Config) *State {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	fonts := fontdb.NewRegistry()
	for _, dir := range cfg.FontDirs {
		fonts.AddDir(dir)
	}

	cloud := ocr.NewCloudClient(cfg.CredentialsPath, cfg.LanguageHints...)

	s := &State{
		Regions:   region.NewStore(cfg.DefaultBounds()),
		Fonts:     fonts,
		Renderer:  render.New(fonts),
		Cloud:     cloud,
		Config:    cfg,
		listeners: make(map[EventType][]EventListener),
	}

	s.Regions.OnChange(func() {
		s.SetModified(true)
		s.Emit(EventRegionsChanged, nil)
	})

	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventModified, modified)
	}
}

// Select changes the selected region and emits a selection event.
func (s *State) Select(id int) {
	s.mu.Lock()
	changed := s.SelectedID != id
	s.SelectedID = id
	s.mu.Unlock()
	if changed {
		s.Emit(EventSelectionChanged, id)
	}
}

// Selected returns a copy of the selected region, if any.
func (s *State) Selected() (*region.Region, bool) {
	s.mu.RLock()
	id := s.SelectedID
	s.mu.RUnlock()
	if id == 0 {
		return nil, false
	}
	return s.Regions.Get(id)
}

// Path returns the current document path. Use this instead of reading
// DocumentPath from another goroutine.
func (s *State) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.DocumentPath
}

// Reset clears the session back to an empty, untitled document. The path is
// cleared before the regions so a concurrent autosave cannot write the empty
// session over the previous document.
func (s *State) Reset() {
	s.mu.Lock()
	s.DocumentPath = ""
	s.Document = nil
	s.SourceImage = nil
	s.TargetImage = nil
	s.SelectedID = 0
	s.mu.Unlock()

	s.Regions.SetBounds(s.Config.DefaultBounds())
	s.Regions.Clear()
	s.SetModified(false)
	s.Emit(EventSelectionChanged, 0)
}

// LoadDocument loads a document and its page images.
func (s *State) LoadDocument(path string) error {
	doc, err := document.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.DocumentPath = path
	s.Document = doc
	s.Modified = false
	s.SelectedID = 0
	s.mu.Unlock()

	if p := doc.SourceImageAbs(path); p != "" {
		if err := s.LoadSourceImage(p); err != nil {
			return err
		}
	}
	if p := doc.TargetImageAbs(path); p != "" {
		if err := s.LoadTargetImage(p); err != nil {
			return err
		}
	}

	s.Regions.Replace(doc.Regions)

	s.SetModified(false)
	s.Emit(EventDocumentLoaded, path)
	return nil
}

// SaveDocument saves the current document to the specified path.
func (s *State) SaveDocument(path string) error {
	s.mu.Lock()
	doc := s.Document
	if doc == nil {
		doc = document.New("untitled")
		s.Document = doc
	}
	if s.SourceImage != nil {
		doc.SetSourceImage(path, s.SourceImage.Path)
	}
	if s.TargetImage != nil {
		doc.SetTargetImage(path, s.TargetImage.Path)
	}
	s.mu.Unlock()

	doc.Regions = s.Regions.Regions()

	if err := doc.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.DocumentPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventDocumentSaved, path)
	return nil
}

// LoadSourceImage loads the original page image used for OCR.
func (s *State) LoadSourceImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}
	layer.Role = image.RoleSource

	s.mu.Lock()
	s.SourceImage = layer
	// When no separate target page is loaded, text is placed on the source.
	if s.TargetImage == nil {
		s.Regions.SetBounds(layer.Bounds())
	}
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventImageLoaded, layer)
	return nil
}

// LoadTargetImage loads the page image the translated text is drawn onto.
func (s *State) LoadTargetImage(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		return err
	}
	layer.Role = image.RoleTarget

	s.mu.Lock()
	s.TargetImage = layer
	s.Regions.SetBounds(layer.Bounds())
	s.mu.Unlock()

	s.SetModified(true)
	s.Emit(EventImageLoaded, layer)
	return nil
}

// OverlayTarget returns the layer regions are composited onto: the target
// page when loaded, otherwise the source page.
func (s *State) OverlayTarget() *image.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.TargetImage != nil {
		return s.TargetImage
	}
	return s.SourceImage
}

// RunCloudOCR detects text regions on the source page and adds them to the
// region store. Nearby blocks are merged and font sizes estimated from the
// detected text heights.
func (s *State) RunCloudOCR(ctx context.Context) (int, error) {
	s.mu.RLock()
	src := s.SourceImage
	s.mu.RUnlock()
	if src == nil || src.Image == nil {
		return 0, fmt.Errorf("no source image loaded")
	}

	results, err := s.Cloud.DetectRegions(ctx, src.Image)
	if err != nil {
		return 0, err
	}

	merged := ocr.MergeBlocks(results, s.Config.MergeGap)
	size := ocr.EstimateFontSize(merged)

	for _, res := range merged {
		style := region.DefaultStyle()
		style.FontFamily = s.Config.DefaultFontFamily
		if size > 0 {
			style.FontSize = size
		}
		_, err := s.Regions.Apply(region.Create{
			Rect:       res.Bounds,
			Text:       res.Text,
			Style:      &style,
			Source:     region.SourceOCR,
			Confidence: res.Confidence,
		})
		if err != nil {
			return 0, err
		}
	}

	s.Emit(EventOCRComplete, len(merged))
	return len(merged), nil
}

// NewRegionAt creates a manual region with the configured default style.
func (s *State) NewRegionAt(rect geometry.RectInt, text string) (*region.Region, error) {
	style := region.DefaultStyle()
	style.FontFamily = s.Config.DefaultFontFamily
	return s.Regions.Apply(region.Create{
		Rect:   rect,
		Text:   text,
		Style:  &style,
		Source: region.SourceManual,
	})
}

// Composite builds a compositor for the current overlay target with the
// current region snapshot.
func (s *State) Composite() (*image.Composite, error) {
	target := s.OverlayTarget()
	if target == nil || target.Image == nil {
		return nil, fmt.Errorf("no page image loaded")
	}

	c := image.NewComposite(target.Image, s.Renderer)
	c.Regions = s.Regions.Regions()
	c.MaskOriginal = s.Config.MaskOriginalText
	return c, nil
}

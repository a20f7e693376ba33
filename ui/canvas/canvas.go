// Package canvas provides the page canvas with pan, zoom, and region editing.
package canvas

import (
	"image"
	"log"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"text-overlay/internal/app"
	"text-overlay/internal/region"
	"text-overlay/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// Corner handle hit radius in screen pixels.
	handleRadius = 8

	// Drags smaller than this create no region.
	minRegionSize = 8
)

// dragMode describes what the current pointer drag is editing.
type dragMode int

const (
	dragNone dragMode = iota
	dragCreate
	dragMove
	dragResize
)

// PageCanvas displays the composited page and turns pointer interactions
// into region store commands.
type PageCanvas struct {
	widget.BaseWidget

	state *app.State

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Cached full-resolution composite, rebuilt when regions or pages change
	composited *image.RGBA
	overflow   map[int]bool
	dirty      bool

	// Interaction state
	mode      dragMode
	dragging  bool
	dragID    int
	dragStart geometry.PointInt
	origRect  geometry.RectInt
	preview   *geometry.RectInt

	// Container
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size

	// Fit to window
	fitToWindow    bool
	lastScrollSize fyne.Size

	// Callbacks
	onZoomChange func(zoom float64)
	onOverflow   func(ids []int)
	onEdit       func(id int)
}

// NewPageCanvas creates a canvas bound to the application state.
func NewPageCanvas(state *app.State) *PageCanvas {
	pc := &PageCanvas{
		state:    state,
		zoom:     1.0,
		dirty:    true,
		overflow: make(map[int]bool),
		imgSize:  fyne.NewSize(400, 300),
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(pc.imgSize)

	pc.content = newDraggableContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	state.On(app.EventRegionsChanged, func(interface{}) { pc.Invalidate() })
	state.On(app.EventImageLoaded, func(interface{}) {
		pc.Invalidate()
		pc.updateContentSize()
	})
	state.On(app.EventDocumentLoaded, func(interface{}) {
		pc.Invalidate()
		pc.updateContentSize()
	})
	state.On(app.EventSelectionChanged, func(interface{}) { pc.Refresh() })

	pc.ExtendBaseWidget(pc)
	return pc
}

// Container returns the canvas container for embedding in layouts.
func (pc *PageCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// Invalidate discards the cached composite and redraws.
func (pc *PageCanvas) Invalidate() {
	pc.dirty = true
	pc.Refresh()
}

// Refresh refreshes the canvas display.
func (pc *PageCanvas) Refresh() {
	pc.raster.Refresh()
}

// SetZoom sets the zoom level.
func (pc *PageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (pc *PageCanvas) Zoom() float64 {
	return pc.zoom
}

// ZoomIn increases the zoom level.
func (pc *PageCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (pc *PageCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// FitToWindow adjusts zoom so the page fills the visible area.
func (pc *PageCanvas) FitToWindow() {
	bounds := pc.pageBounds()
	if bounds.Width == 0 || bounds.Height == 0 {
		return
	}

	viewSize := pc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(bounds.Width)
	zoomY := float64(viewSize.Height) / float64(bounds.Height)

	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	pc.SetZoom(zoom * 0.95) // Leave a small margin
}

// SetFitToWindow enables or disables auto-fit on resize.
func (pc *PageCanvas) SetFitToWindow(fit bool) {
	pc.fitToWindow = fit
	if fit {
		pc.FitToWindow()
	}
}

// GetFitToWindow returns the current fit-to-window state.
func (pc *PageCanvas) GetFitToWindow() bool {
	return pc.fitToWindow
}

// CheckResize re-fits the page when the viewport size changed.
func (pc *PageCanvas) CheckResize(size fyne.Size) {
	if !pc.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != pc.lastScrollSize {
		pc.lastScrollSize = size
		pc.FitToWindow()
	}
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PageCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnOverflow sets a callback reporting regions whose text does not fit.
func (pc *PageCanvas) OnOverflow(callback func(ids []int)) {
	pc.onOverflow = callback
}

// OnEdit sets a callback invoked when a region is double-tapped.
func (pc *PageCanvas) OnEdit(callback func(id int)) {
	pc.onEdit = callback
}

// CanvasToImage converts canvas coordinates to page pixel coordinates.
func (pc *PageCanvas) CanvasToImage(x, y float32) geometry.PointInt {
	return geometry.PointInt{
		X: int(float64(x) / pc.zoom),
		Y: int(float64(y) / pc.zoom),
	}
}

// pageBounds returns the pixel bounds of the current overlay target page.
func (pc *PageCanvas) pageBounds() geometry.RectInt {
	target := pc.state.OverlayTarget()
	if target == nil {
		return geometry.RectInt{}
	}
	return target.Bounds()
}

// updateContentSize updates the content size based on page size and zoom.
func (pc *PageCanvas) updateContentSize() {
	bounds := pc.pageBounds()
	if bounds.Width == 0 || bounds.Height == 0 {
		pc.imgSize = fyne.NewSize(400, 300)
	} else {
		pc.imgSize = fyne.NewSize(
			float32(float64(bounds.Width)*pc.zoom),
			float32(float64(bounds.Height)*pc.zoom),
		)
	}

	pc.raster.SetMinSize(pc.imgSize)
	pc.raster.Resize(pc.imgSize)
	if pc.content != nil {
		pc.content.Resize(pc.imgSize)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// rebuildComposite renders the page with all regions applied at full
// resolution. The result is sampled during raster draws.
func (pc *PageCanvas) rebuildComposite() {
	pc.composited = nil
	pc.overflow = make(map[int]bool)

	comp, err := pc.state.Composite()
	if err != nil {
		return // No page loaded yet
	}

	img, overflowed, err := comp.Render()
	if err != nil {
		log.Printf("canvas composite failed: %v", err)
		return
	}

	pc.composited = img
	for _, id := range overflowed {
		pc.overflow[id] = true
	}
	if pc.onOverflow != nil {
		pc.onOverflow(overflowed)
	}
	pc.dirty = false
}

// draw is the raster drawing function.
func (pc *PageCanvas) draw(w, h int) image.Image {
	currentSize := fyne.NewSize(float32(w), float32(h))
	if pc.fitToWindow && currentSize != pc.lastScrollSize && w > 0 && h > 0 {
		pc.lastScrollSize = currentSize
		pc.FitToWindow()
	}

	if pc.dirty {
		pc.rebuildComposite()
	}

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	// Opaque dark background behind the page
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = 40
		output.Pix[i+1] = 40
		output.Pix[i+2] = 40
		output.Pix[i+3] = 255
	}

	if pc.composited != nil {
		pc.blitPage(output, w, h)
	}

	pc.drawRegionOverlays(output)
	if pc.preview != nil {
		drawRectOutline(output, pc.scaleRect(*pc.preview), previewColor)
	}

	return output
}

// blitPage samples the composited page into the raster at the current zoom.
func (pc *PageCanvas) blitPage(output *image.RGBA, w, h int) {
	src := pc.composited
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		srcY := int(float64(y) / pc.zoom)
		if srcY >= srcBounds.Dy() {
			break
		}
		for x := 0; x < w; x++ {
			srcX := int(float64(x) / pc.zoom)
			if srcX >= srcBounds.Dx() {
				break
			}
			output.Set(x, y, src.At(srcBounds.Min.X+srcX, srcBounds.Min.Y+srcY))
		}
	}
}

// drawRegionOverlays outlines every region, marking selection, overflow,
// and hidden state with different colors.
func (pc *PageCanvas) drawRegionOverlays(output *image.RGBA) {
	selected := pc.state.SelectedID
	for _, r := range pc.state.Regions.Regions() {
		rect := pc.scaleRect(r.Rect)

		col := regionColor
		switch {
		case r.ID == selected:
			col = selectedColor
		case pc.overflow[r.ID]:
			col = overflowColor
		case !r.Visible:
			col = hiddenColor
		}

		drawRectOutline(output, rect, col)
		if r.ID == selected {
			drawCornerHandles(output, rect, selectedColor)
		}
	}
}

// scaleRect converts a page-space rectangle to raster coordinates.
func (pc *PageCanvas) scaleRect(r geometry.RectInt) image.Rectangle {
	return image.Rect(
		int(float64(r.X)*pc.zoom),
		int(float64(r.Y)*pc.zoom),
		int(float64(r.X+r.Width)*pc.zoom),
		int(float64(r.Y+r.Height)*pc.zoom),
	)
}

// beginDrag decides what a drag starting at the given page point edits.
func (pc *PageCanvas) beginDrag(p geometry.PointInt) {
	pc.dragging = true
	pc.dragStart = p

	// Corner handle of the selected region wins over everything else.
	if sel, ok := pc.state.Selected(); ok {
		if pc.hitHandle(sel.Rect, p) {
			pc.mode = dragResize
			pc.dragID = sel.ID
			pc.origRect = sel.Rect
			return
		}
	}

	if hit, ok := pc.state.Regions.HitTest(p); ok {
		pc.state.Select(hit.ID)
		pc.mode = dragMove
		pc.dragID = hit.ID
		pc.origRect = hit.Rect
		return
	}

	pc.mode = dragCreate
	pc.dragID = 0
}

// hitHandle reports whether the point is on the bottom-right resize handle.
func (pc *PageCanvas) hitHandle(rect geometry.RectInt, p geometry.PointInt) bool {
	radius := int(float64(handleRadius)/pc.zoom) + 1
	cornerX := rect.X + rect.Width
	cornerY := rect.Y + rect.Height
	dx := p.X - cornerX
	dy := p.Y - cornerY
	return dx >= -radius && dx <= radius && dy >= -radius && dy <= radius
}

// updateDrag recomputes the preview rectangle for the drag in progress.
func (pc *PageCanvas) updateDrag(p geometry.PointInt) {
	switch pc.mode {
	case dragCreate:
		r := geometry.BoundingBox([]geometry.PointInt{pc.dragStart, p})
		pc.preview = &r
	case dragMove:
		moved := pc.origRect
		moved.X += p.X - pc.dragStart.X
		moved.Y += p.Y - pc.dragStart.Y
		pc.preview = &moved
	case dragResize:
		resized := pc.origRect
		resized.Width += p.X - pc.dragStart.X
		resized.Height += p.Y - pc.dragStart.Y
		if resized.Width < minRegionSize {
			resized.Width = minRegionSize
		}
		if resized.Height < minRegionSize {
			resized.Height = minRegionSize
		}
		pc.preview = &resized
	}
	pc.Refresh()
}

// endDrag commits the drag as a store command.
func (pc *PageCanvas) endDrag() {
	defer func() {
		pc.dragging = false
		pc.mode = dragNone
		pc.preview = nil
		pc.Refresh()
	}()

	if pc.preview == nil {
		return
	}
	rect := *pc.preview

	var err error
	switch pc.mode {
	case dragCreate:
		if rect.Width < minRegionSize || rect.Height < minRegionSize {
			return
		}
		var created *region.Region
		created, err = pc.state.NewRegionAt(rect, "")
		if err == nil {
			pc.state.Select(created.ID)
			if pc.onEdit != nil {
				pc.onEdit(created.ID)
			}
		}
	case dragMove:
		_, err = pc.state.Regions.Apply(region.Move{
			ID: pc.dragID,
			To: geometry.PointInt{X: rect.X, Y: rect.Y},
		})
	case dragResize:
		_, err = pc.state.Regions.Apply(region.Resize{ID: pc.dragID, Rect: rect})
	}
	if err != nil {
		log.Printf("canvas edit failed: %v", err)
	}
}

// tapped selects the region under the pointer, or clears the selection.
func (pc *PageCanvas) tapped(p geometry.PointInt) {
	if hit, ok := pc.state.Regions.HitTest(p); ok {
		pc.state.Select(hit.ID)
	} else {
		pc.state.Select(0)
	}
}

// tappedSecondary opens the editor for the region under the pointer.
func (pc *PageCanvas) tappedSecondary(p geometry.PointInt) {
	if hit, ok := pc.state.Regions.HitTest(p); ok {
		pc.state.Select(hit.ID)
		if pc.onEdit != nil {
			pc.onEdit(hit.ID)
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pageCanvasRenderer{canvas: pc}
}

type pageCanvasRenderer struct {
	canvas *PageCanvas
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
	r.canvas.CheckResize(size)
}

func (r *pageCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *pageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *pageCanvasRenderer) Destroy() {}

// zoomScroll wraps a scroll container but intercepts wheel events for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *PageCanvas
	raster *fynecanvas.Raster
}

func newDraggableContent(pc *PageCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{canvas: pc, raster: raster}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// contentPos converts an event position to content coordinates, adding the
// scroll offset.
func (dc *draggableContent) contentPos(pos fyne.Position) fyne.Position {
	offset := dc.canvas.scroll.Offset()
	return fyne.Position{X: pos.X + offset.X, Y: pos.Y + offset.Y}
}

func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	pos := dc.contentPos(ev.Position)
	p := dc.canvas.CanvasToImage(pos.X, pos.Y)

	if !dc.canvas.dragging {
		// Start point excludes the current drag delta.
		start := dc.canvas.CanvasToImage(pos.X-ev.Dragged.DX, pos.Y-ev.Dragged.DY)
		dc.canvas.beginDrag(start)
	}
	dc.canvas.updateDrag(p)
}

func (dc *draggableContent) DragEnd() {
	if dc.canvas.dragging {
		dc.canvas.endDrag()
	}
}

func (dc *draggableContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		dc.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		dc.canvas.ZoomOut()
	}
}

// Tapped handles left-click selection.
func (dc *draggableContent) Tapped(ev *fyne.PointEvent) {
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	pos := dc.contentPos(ev.Position)
	dc.canvas.tapped(dc.canvas.CanvasToImage(pos.X, pos.Y))
}

// TappedSecondary opens the region editor on right-click.
func (dc *draggableContent) TappedSecondary(ev *fyne.PointEvent) {
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	pos := dc.contentPos(ev.Position)
	dc.canvas.tappedSecondary(dc.canvas.CanvasToImage(pos.X, pos.Y))
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"text-overlay/internal/app"
	"text-overlay/internal/ocr"
	"text-overlay/internal/region"
	"text-overlay/internal/version"
	"text-overlay/ui/canvas"
	"text-overlay/ui/panels"
	"text-overlay/ui/prefs"
)

const ocrTimeout = 60 * time.Second

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	session   *prefs.Prefs
	canvas    *canvas.PageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	// Menu items that need state tracking
	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, session *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Text Overlay")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		session: session,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreViewState()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPageCanvas(mw.state)
	mw.canvas.OnOverflow(mw.reportOverflow)
	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", zoom*100))
		mw.session.SetFloat(prefs.KeyZoom, zoom)
	})

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil,     // bottom
		nil,     // left
		nil,     // right
		mw.canvas.Container(),
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25) // Side panel takes 25% of width

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)
	ocrBtn := widget.NewButton("Detect Text", mw.onRunOCR)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
		widget.NewSeparator(),
		ocrBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Document", mw.onNewDocument),
		fyne.NewMenuItem("Open Document...", mw.onOpenDocument),
		mw.recentMenuItem(),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Source Page...", mw.onImportSource),
		fyne.NewMenuItem("Import Target Page...", mw.onImportTarget),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Document", mw.onSaveDocument),
		fyne.NewMenuItem("Save Document As...", mw.onSaveDocumentAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Page...", mw.onExportPage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.session.Save()
			mw.app.Quit()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Delete Region", mw.onDeleteRegion),
		fyne.NewMenuItem("Toggle Region Visibility", mw.onToggleVisibility),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Detect Text Regions", mw.onRunOCR),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, toolsMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// recentMenuItem builds the Open Recent submenu from the session history.
func (mw *MainWindow) recentMenuItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Open Recent", nil)
	recent := mw.session.Recent()
	if len(recent) == 0 {
		item.Disabled = true
		return item
	}

	items := make([]*fyne.MenuItem, 0, len(recent))
	for _, path := range recent {
		p := path
		items = append(items, fyne.NewMenuItem(filepath.Base(p), func() {
			if err := mw.state.LoadDocument(p); err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			mw.session.SetString(prefs.KeyLastDocument, p)
			mw.session.Save()
		}))
	}
	item.ChildMenu = fyne.NewMenu("", items...)
	return item
}

// restoreViewState applies the previous session's zoom settings.
func (mw *MainWindow) restoreViewState() {
	if mw.session.Bool(prefs.KeyFitToWindow, false) {
		mw.canvas.SetFitToWindow(true)
		mw.fitToWindowItem.Label = "✓ Fit to Window"
		return
	}
	if zoom := mw.session.Float(prefs.KeyZoom, 0); zoom > 0 {
		mw.canvas.SetZoom(zoom)
	}
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventDocumentLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Text Overlay - " + filepath.Base(path))
			mw.updateStatus("Document loaded: " + path)
			mw.session.AddRecent(path)
		}
	})

	mw.state.On(app.EventDocumentSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Text Overlay - " + filepath.Base(path))
			mw.updateStatus("Saved " + path)
			mw.session.AddRecent(path)
		}
	})

	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		mw.updateStatus("Page loaded")
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventOCRComplete, func(data interface{}) {
		if n, ok := data.(int); ok {
			mw.updateStatus(fmt.Sprintf("OCR found %d text regions", n))
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// reportOverflow warns about regions whose text does not fit.
func (mw *MainWindow) reportOverflow(ids []int) {
	if len(ids) == 0 {
		return
	}
	mw.updateStatus(fmt.Sprintf("Warning: text overflows %d region(s)", len(ids)))
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.session.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.session.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
	if err := mw.session.Save(); err != nil {
		mw.updateStatus("Could not save session preferences")
	}
}

// RestoreLastDocument reopens the most recently used document, if any.
func (mw *MainWindow) RestoreLastDocument() {
	path := mw.session.String(prefs.KeyLastDocument)
	if path == "" {
		return
	}
	if err := mw.state.LoadDocument(path); err != nil {
		mw.updateStatus("Could not reopen " + filepath.Base(path))
	}
}

// Menu action handlers

func (mw *MainWindow) onNewDocument() {
	mw.state.Reset()
	mw.SetTitle("Text Overlay - New Document")
	mw.canvas.Invalidate()
}

func (mw *MainWindow) onOpenDocument() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.session.SetString(prefs.KeyLastDocument, path)
		mw.session.Save()
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".ovproj"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onImportSource() {
	mw.importPage(true)
}

func (mw *MainWindow) onImportTarget() {
	mw.importPage(false)
}

func (mw *MainWindow) importPage(source bool) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)

		var loadErr error
		if source {
			loadErr = mw.state.LoadSourceImage(path)
		} else {
			loadErr = mw.state.LoadTargetImage(path)
		}
		if loadErr != nil {
			dialog.ShowError(loadErr, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveDocument() {
	path := mw.state.Path()
	if path == "" {
		mw.onSaveDocumentAs()
		return
	}
	if err := mw.state.SaveDocument(path); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveDocumentAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".ovproj" {
			path += ".ovproj"
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveDocument(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.session.SetString(prefs.KeyLastDocument, path)
		mw.session.Save()
	}, mw.Window)
	fd.SetFileName("document.ovproj")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportPage() {
	comp, err := mw.state.Composite()
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) == "" {
			path += ".png"
		}
		mw.saveLastDir(path)

		overflowed, err := comp.Export(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + path)
		mw.reportOverflow(overflowed)
	}, mw.Window)
	fd.SetFileName("page.png")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onDeleteRegion() {
	if sel, ok := mw.state.Selected(); ok {
		mw.state.Select(0)
		mw.state.Regions.Apply(region.Delete{ID: sel.ID})
	}
}

func (mw *MainWindow) onToggleVisibility() {
	if sel, ok := mw.state.Selected(); ok {
		mw.state.Regions.Apply(region.SetVisible{ID: sel.ID, Visible: !sel.Visible})
	}
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(enabled)
	mw.session.SetBool(prefs.KeyFitToWindow, enabled)

	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.GetFitToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.session.SetBool(prefs.KeyFitToWindow, false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onRunOCR() {
	if !mw.state.Cloud.Configured() {
		dialog.ShowInformation("OCR",
			"No cloud credentials configured.\n\n"+
				"Set credentials_path in the application config to enable text detection.",
			mw.Window)
		return
	}

	mw.updateStatus("Detecting text regions...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ocrTimeout)
		defer cancel()

		n, err := mw.state.RunCloudOCR(ctx)
		if err != nil {
			mw.showOCRError(err)
			return
		}
		mw.updateStatus(fmt.Sprintf("OCR found %d text regions", n))
	}()
}

// showOCRError maps OCR failures to user-facing messages.
func (mw *MainWindow) showOCRError(err error) {
	switch {
	case errors.Is(err, ocr.ErrAuthentication):
		dialog.ShowError(fmt.Errorf("OCR authentication failed: check the credentials file"), mw.Window)
	case errors.Is(err, ocr.ErrServiceUnavailable):
		dialog.ShowError(fmt.Errorf("OCR service unavailable: try again later"), mw.Window)
	default:
		dialog.ShowError(err, mw.Window)
	}
	mw.updateStatus("OCR failed")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Text Overlay",
		fmt.Sprintf("Text Overlay v%s\n\n"+
			"A comic and manga translation lettering tool.\n\n"+
			"Detects source text with cloud OCR and typesets\n"+
			"replacement text onto the page.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"text-overlay/internal/app"
)

// SidePanel groups the region list and style editor into tabs.
type SidePanel struct {
	Regions *RegionList
	Style   *StylePanel

	tabs *container.AppTabs
}

// NewSidePanel creates the side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{
		Regions: NewRegionList(state),
		Style:   NewStylePanel(state),
	}

	sp.tabs = container.NewAppTabs(
		container.NewTabItem("Regions", sp.Regions.Container()),
		container.NewTabItem("Style", sp.Style.Container()),
	)

	// Jump to the style editor when a region is selected.
	state.On(app.EventSelectionChanged, func(data interface{}) {
		if id, ok := data.(int); ok && id != 0 {
			sp.tabs.SelectIndex(1)
		}
	})

	return sp
}

// SetWindow sets the parent window for panel dialogs.
func (sp *SidePanel) SetWindow(win fyne.Window) {
	sp.Style.SetWindow(win)
}

// Container returns the panel widget for embedding.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.tabs
}

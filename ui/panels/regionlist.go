// Package panels provides the side panel views for the main window.
package panels

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"text-overlay/internal/app"
	"text-overlay/internal/region"
)

// RegionList shows every region on the page with visibility toggles.
type RegionList struct {
	state *app.State

	list    *widget.List
	regions []region.Region

	container fyne.CanvasObject

	// Guard against selection feedback loops between list and state.
	syncing bool
}

// NewRegionList creates the region list panel.
func NewRegionList(state *app.State) *RegionList {
	rl := &RegionList{state: state}

	rl.list = widget.NewList(
		func() int { return len(rl.regions) },
		func() fyne.CanvasObject {
			check := widget.NewCheck("", nil)
			label := widget.NewLabel("region")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, check, nil, label)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(rl.regions) {
				return
			}
			r := rl.regions[id]
			border := obj.(*fyne.Container)
			check := border.Objects[1].(*widget.Check)
			label := border.Objects[0].(*widget.Label)

			label.SetText(itemLabel(r))
			check.OnChanged = nil
			check.SetChecked(r.Visible)
			check.OnChanged = func(visible bool) {
				rl.state.Regions.Apply(region.SetVisible{ID: r.ID, Visible: visible})
			}
		},
	)

	rl.list.OnSelected = func(id widget.ListItemID) {
		if rl.syncing || id >= len(rl.regions) {
			return
		}
		rl.state.Select(rl.regions[id].ID)
	}
	rl.list.OnUnselected = func(id widget.ListItemID) {
		if rl.syncing {
			return
		}
		rl.state.Select(0)
	}

	deleteBtn := widget.NewButton("Delete Region", func() {
		if sel, ok := rl.state.Selected(); ok {
			rl.state.Select(0)
			rl.state.Regions.Apply(region.Delete{ID: sel.ID})
		}
	})

	rl.container = container.NewBorder(nil, deleteBtn, nil, nil, rl.list)

	state.On(app.EventRegionsChanged, func(interface{}) { rl.Reload() })
	state.On(app.EventDocumentLoaded, func(interface{}) { rl.Reload() })
	state.On(app.EventSelectionChanged, func(data interface{}) {
		rl.syncSelection()
	})

	rl.Reload()
	return rl
}

// Container returns the panel widget for embedding.
func (rl *RegionList) Container() fyne.CanvasObject {
	return rl.container
}

// Reload refreshes the list from the region store.
func (rl *RegionList) Reload() {
	rl.regions = rl.state.Regions.Regions()
	rl.list.Refresh()
	rl.syncSelection()
}

// syncSelection mirrors the state selection into the list widget.
func (rl *RegionList) syncSelection() {
	rl.syncing = true
	defer func() { rl.syncing = false }()

	selected := rl.state.SelectedID
	if selected == 0 {
		rl.list.UnselectAll()
		return
	}
	for i, r := range rl.regions {
		if r.ID == selected {
			rl.list.Select(i)
			return
		}
	}
}

// itemLabel builds the one line list entry for a region.
func itemLabel(r region.Region) string {
	text := strings.ReplaceAll(r.Text, "\n", " ")
	if text == "" {
		text = "(empty)"
	}
	if len([]rune(text)) > 24 {
		text = string([]rune(text)[:24]) + "…"
	}

	tag := ""
	if r.Source == region.SourceOCR {
		tag = fmt.Sprintf(" [ocr %.0f%%]", r.Confidence*100)
	}
	return fmt.Sprintf("#%d %s%s", r.ID, text, tag)
}

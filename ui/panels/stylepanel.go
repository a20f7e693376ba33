package panels

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"text-overlay/internal/app"
	"text-overlay/internal/layout"
	"text-overlay/internal/region"
)

// StylePanel edits the text and style of the selected region.
type StylePanel struct {
	state *app.State
	win   fyne.Window

	textEntry    *widget.Entry
	familySelect *widget.Select
	sizeEntry    *widget.Entry
	alignSelect  *widget.Select
	valignSelect *widget.Select
	wrapSelect   *widget.Select
	spacingEntry *widget.Entry
	strokeEntry  *widget.Entry
	fillCheck    *widget.Check
	textColorBtn *widget.Button
	backColorBtn *widget.Button

	// Colors picked but not yet applied
	textColor region.Color
	backColor region.Color

	applyBtn  *widget.Button
	container fyne.CanvasObject
}

// NewStylePanel creates the style editor panel.
func NewStylePanel(state *app.State) *StylePanel {
	sp := &StylePanel{state: state}

	sp.textEntry = widget.NewMultiLineEntry()
	sp.textEntry.SetPlaceHolder("Replacement text")
	sp.textEntry.Wrapping = fyne.TextWrapWord

	sp.familySelect = widget.NewSelect(sp.familyOptions(), nil)
	sp.sizeEntry = widget.NewEntry()
	sp.alignSelect = widget.NewSelect([]string{
		string(region.AlignLeft), string(region.AlignCenter), string(region.AlignRight),
	}, nil)
	sp.valignSelect = widget.NewSelect([]string{
		string(region.VAlignTop), string(region.VAlignMiddle), string(region.VAlignBottom),
	}, nil)
	sp.wrapSelect = widget.NewSelect([]string{
		layout.ModeChar.String(), layout.ModeWord.String(),
	}, nil)
	sp.spacingEntry = widget.NewEntry()
	sp.strokeEntry = widget.NewEntry()
	sp.fillCheck = widget.NewCheck("Fill background", nil)

	sp.textColorBtn = widget.NewButton("Text Color...", func() {
		sp.pickColor("Text Color", &sp.textColor)
	})
	sp.backColorBtn = widget.NewButton("Background...", func() {
		sp.pickColor("Background Color", &sp.backColor)
	})

	sp.applyBtn = widget.NewButton("Apply", sp.apply)

	form := widget.NewForm(
		widget.NewFormItem("Font", sp.familySelect),
		widget.NewFormItem("Size", sp.sizeEntry),
		widget.NewFormItem("Align", sp.alignSelect),
		widget.NewFormItem("Valign", sp.valignSelect),
		widget.NewFormItem("Wrap", sp.wrapSelect),
		widget.NewFormItem("Spacing", sp.spacingEntry),
		widget.NewFormItem("Stroke", sp.strokeEntry),
	)

	sp.container = container.NewVScroll(container.NewVBox(
		widget.NewLabel("Text"),
		sp.textEntry,
		form,
		sp.fillCheck,
		container.NewHBox(sp.textColorBtn, sp.backColorBtn),
		sp.applyBtn,
	))

	state.On(app.EventSelectionChanged, func(interface{}) { sp.refresh() })
	state.On(app.EventDocumentLoaded, func(interface{}) { sp.refresh() })

	sp.refresh()
	return sp
}

// SetWindow sets the parent window for dialogs.
func (sp *StylePanel) SetWindow(win fyne.Window) {
	sp.win = win
}

// Container returns the panel widget for embedding.
func (sp *StylePanel) Container() fyne.CanvasObject {
	return sp.container
}

// familyOptions lists the registered font families plus the configured default.
func (sp *StylePanel) familyOptions() []string {
	families := sp.state.Fonts.Families()
	def := sp.state.Config.DefaultFontFamily

	for _, f := range families {
		if f == def {
			return families
		}
	}
	return append([]string{def}, families...)
}

// refresh loads the selected region into the editors.
func (sp *StylePanel) refresh() {
	sel, ok := sp.state.Selected()
	if !ok {
		sp.setEnabled(false)
		sp.textEntry.SetText("")
		return
	}
	sp.setEnabled(true)

	st := sel.Style
	sp.textEntry.SetText(sel.Text)
	sp.familySelect.SetSelected(st.FontFamily)
	sp.sizeEntry.SetText(strconv.Itoa(st.FontSize))
	sp.alignSelect.SetSelected(string(st.Align))
	sp.valignSelect.SetSelected(string(st.VAlign))
	sp.wrapSelect.SetSelected(st.WrapMode)
	sp.spacingEntry.SetText(strconv.FormatFloat(st.LineSpacing, 'f', -1, 64))
	sp.strokeEntry.SetText(strconv.Itoa(st.StrokeWidth))
	sp.fillCheck.SetChecked(st.FillBackground)
	sp.textColor = st.Color
	sp.backColor = st.Background
}

func (sp *StylePanel) setEnabled(enabled bool) {
	widgets := []fyne.Disableable{
		sp.textEntry, sp.familySelect, sp.sizeEntry, sp.alignSelect,
		sp.valignSelect, sp.wrapSelect, sp.spacingEntry, sp.strokeEntry,
		sp.fillCheck, sp.textColorBtn, sp.backColorBtn, sp.applyBtn,
	}
	for _, w := range widgets {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// pickColor opens the color chooser and stores the result.
func (sp *StylePanel) pickColor(title string, target *region.Color) {
	if sp.win == nil {
		return
	}
	picker := dialog.NewColorPicker(title, "", func(c color.Color) {
		r, g, b, a := c.RGBA()
		*target = region.Color{
			R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8),
		}
	}, sp.win)
	picker.Advanced = true
	picker.Show()
}

// apply pushes the edited text and style into the region store.
func (sp *StylePanel) apply() {
	sel, ok := sp.state.Selected()
	if !ok {
		return
	}

	style, err := sp.buildStyle(sel.Style)
	if err != nil {
		sp.showError(err)
		return
	}

	if _, err := sp.state.Regions.Apply(region.SetText{ID: sel.ID, Text: sp.textEntry.Text}); err != nil {
		sp.showError(err)
		return
	}
	if _, err := sp.state.Regions.Apply(region.SetStyle{ID: sel.ID, Style: *style}); err != nil {
		sp.showError(err)
	}
}

// buildStyle parses the editor fields into a style value.
func (sp *StylePanel) buildStyle(base region.Style) (*region.Style, error) {
	st := base

	size, err := strconv.Atoi(sp.sizeEntry.Text)
	if err != nil {
		return nil, fmt.Errorf("font size %q: %v", sp.sizeEntry.Text, err)
	}
	st.FontSize = size

	spacing, err := strconv.ParseFloat(sp.spacingEntry.Text, 64)
	if err != nil {
		return nil, fmt.Errorf("line spacing %q: %v", sp.spacingEntry.Text, err)
	}
	st.LineSpacing = spacing

	stroke, err := strconv.Atoi(sp.strokeEntry.Text)
	if err != nil || stroke < 0 {
		return nil, fmt.Errorf("stroke width %q must be a non-negative integer", sp.strokeEntry.Text)
	}
	st.StrokeWidth = stroke

	st.WrapMode = layout.ParseMode(sp.wrapSelect.Selected).String()

	st.FontFamily = sp.familySelect.Selected
	st.Align = region.Align(sp.alignSelect.Selected)
	st.VAlign = region.VAlign(sp.valignSelect.Selected)
	st.FillBackground = sp.fillCheck.Checked
	st.Color = sp.textColor
	st.Background = sp.backColor

	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &st, nil
}

func (sp *StylePanel) showError(err error) {
	if sp.win != nil {
		dialog.ShowError(err, sp.win)
	}
}

// Package panels provides the editor's side panel: the definition's
// editable fields, the hitbox readout, sprite replacement, and submit.
package panels

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"hitbox-editor/internal/session"
	"hitbox-editor/pkg/geometry"
)

const prefKeyLastDir = "lastDirectory"

// SidePanel is the form column next to the region editor.
type SidePanel struct {
	sess *session.Session
	win  fyne.Window

	typeEntry   *widget.Entry
	labelEntry  *widget.Entry
	frameWEntry *widget.Entry
	frameHEntry *widget.Entry
	spriteLabel *widget.Label

	attrEntries map[string]*widget.Entry
	attrBox     *fyne.Container

	hitboxLabel *widget.Label
	submitBtn   *widget.Button
	replaceBtn  *widget.Button

	content *fyne.Container
}

// NewSidePanel creates the panel bound to a session.
func NewSidePanel(sess *session.Session) *SidePanel {
	sp := &SidePanel{
		sess:        sess,
		attrEntries: make(map[string]*widget.Entry),
	}
	sp.buildUI()

	sess.On(session.EventDefinitionLoaded, func(_ interface{}) { sp.populate() })
	sess.On(session.EventRegionChanged, func(data interface{}) {
		if rect, ok := data.(geometry.RectInt); ok {
			sp.updateReadout(rect)
		}
	})

	return sp
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(win fyne.Window) {
	sp.win = win
}

// Container returns the panel for embedding in layouts.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return container.NewVScroll(sp.content)
}

func (sp *SidePanel) buildUI() {
	sp.typeEntry = widget.NewEntry()
	sp.labelEntry = widget.NewEntry()
	sp.frameWEntry = widget.NewEntry()
	sp.frameHEntry = widget.NewEntry()
	sp.spriteLabel = widget.NewLabel("")
	sp.spriteLabel.Wrapping = fyne.TextTruncate

	sp.frameWEntry.OnSubmitted = func(string) { sp.applyFrameSize() }
	sp.frameHEntry.OnSubmitted = func(string) { sp.applyFrameSize() }

	sp.hitboxLabel = widget.NewLabel("x=0 y=0 w=0 h=0")

	sp.attrBox = container.NewVBox()

	sp.replaceBtn = widget.NewButton("Replace Image…", sp.onReplaceImage)
	sp.submitBtn = widget.NewButton("Save", sp.onSubmit)

	form := widget.NewForm(
		widget.NewFormItem("Type", sp.typeEntry),
		widget.NewFormItem("Label", sp.labelEntry),
		widget.NewFormItem("Frame W", sp.frameWEntry),
		widget.NewFormItem("Frame H", sp.frameHEntry),
		widget.NewFormItem("Sprite", sp.spriteLabel),
	)

	sp.content = container.NewVBox(
		widget.NewLabelWithStyle("Definition", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		widget.NewLabelWithStyle("Attributes", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.attrBox,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Hitbox", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sp.hitboxLabel,
		widget.NewSeparator(),
		sp.replaceBtn,
		sp.submitBtn,
	)
}

// populate fills the form from the loaded definition.
func (sp *SidePanel) populate() {
	def := sp.sess.Definition()
	if def == nil {
		return
	}

	sp.typeEntry.SetText(def.Type)
	sp.labelEntry.SetText(def.Label)
	sp.frameWEntry.SetText(strconv.Itoa(def.FrameWidth))
	sp.frameHEntry.SetText(strconv.Itoa(def.FrameHeight))
	sp.spriteLabel.SetText(def.SpritePath)

	sp.attrBox.RemoveAll()
	sp.attrEntries = make(map[string]*widget.Entry)

	names := make([]string, 0, len(def.Attributes))
	for name := range def.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := widget.NewEntry()
		entry.SetText(strconv.FormatFloat(def.Attributes[name], 'f', -1, 64))
		sp.attrEntries[name] = entry
		sp.attrBox.Add(container.NewBorder(nil, nil, widget.NewLabel(name), nil, entry))
	}

	sp.updateReadout(def.Hitbox)
}

// updateReadout refreshes the hitbox position/size text.
func (sp *SidePanel) updateReadout(rect geometry.RectInt) {
	sp.hitboxLabel.SetText(fmt.Sprintf("x=%d y=%d w=%d h=%d", rect.X, rect.Y, rect.Width, rect.Height))
}

// applyForm copies the form fields back into the definition. Numeric
// parse failures abort and are reported to the caller.
func (sp *SidePanel) applyForm() error {
	def := sp.sess.Definition()
	if def == nil {
		return fmt.Errorf("no definition loaded")
	}

	frameW, err := strconv.Atoi(sp.frameWEntry.Text)
	if err != nil {
		return fmt.Errorf("frame width: %w", err)
	}
	frameH, err := strconv.Atoi(sp.frameHEntry.Text)
	if err != nil {
		return fmt.Errorf("frame height: %w", err)
	}

	def.Type = sp.typeEntry.Text
	def.Label = sp.labelEntry.Text
	def.FrameWidth = frameW
	def.FrameHeight = frameH

	for name, entry := range sp.attrEntries {
		val, err := strconv.ParseFloat(entry.Text, 64)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
		def.Attributes[name] = val
	}
	return nil
}

// applyFrameSize pushes edited frame dimensions into the display config
// so the render surface follows immediately.
func (sp *SidePanel) applyFrameSize() {
	if err := sp.applyForm(); err != nil {
		sp.sess.Emit(session.EventStatus, err.Error())
		return
	}
	sp.sess.RefreshDisplay()
}

// onReplaceImage lets the user pick a replacement sprite file. The
// committed hitbox is untouched; the image rides along with the next
// submission.
func (sp *SidePanel) onReplaceImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		sp.saveLastDir(path)

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, sp.win)
			return
		}
		if err := sp.sess.ReplaceImage(data); err != nil {
			dialog.ShowError(err, sp.win)
			return
		}
		sp.sess.Emit(session.EventStatus, "Replacement image loaded: "+filepath.Base(path))
	}, sp.win)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".webp"}))
	if loc := sp.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onSubmit validates and posts the edited definition. On failure the
// form keeps its state and the button is re-enabled for retry.
func (sp *SidePanel) onSubmit() {
	if err := sp.applyForm(); err != nil {
		dialog.ShowError(err, sp.win)
		return
	}

	sp.submitBtn.Disable()
	defer sp.submitBtn.Enable()

	receipt, err := sp.sess.Submit(context.Background())
	if err != nil {
		dialog.ShowError(err, sp.win)
		sp.sess.Emit(session.EventStatus, "Save failed: "+err.Error())
		return
	}
	sp.sess.Emit(session.EventStatus, "Saved "+receipt.Key+" (receipt "+receipt.Receipt+")")
}

// lastDir returns the last used directory as a ListableURI, or nil.
func (sp *SidePanel) lastDir() fyne.ListableURI {
	path := fyne.CurrentApp().Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (sp *SidePanel) saveLastDir(filePath string) {
	fyne.CurrentApp().Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"hitbox-editor/internal/session"
	"hitbox-editor/ui/editor"
	"hitbox-editor/ui/panels"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	sess      *session.Session
	editor    *editor.RegionEditor
	sidePanel *panels.SidePanel
	statusBar *widget.Label
}

// New creates a new main window for the given editing session.
func New(fyneApp fyne.App, sess *session.Session) *MainWindow {
	win := fyneApp.NewWindow("Hitbox Editor - " + sess.Key())

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		sess:   sess,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.editor = editor.New(mw.sess)

	mw.sidePanel = panels.NewSidePanel(mw.sess)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Loading " + mw.sess.Key() + "…")

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		container.NewCenter(mw.editor),
	)
	split.SetOffset(0.3)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(760, 520))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.sess.On(session.EventDefinitionLoaded, func(_ interface{}) {
		mw.updateStatus("Definition loaded: " + mw.sess.Key())
	})

	mw.sess.On(session.EventImageLoaded, func(_ interface{}) {
		mw.updateStatus("Sprite loaded")
	})

	mw.sess.On(session.EventImageLoadFailed, func(data interface{}) {
		if err, ok := data.(error); ok && err != nil {
			mw.updateStatus("Sprite unavailable: " + err.Error())
		} else {
			mw.updateStatus("Sprite unavailable")
		}
	})

	mw.sess.On(session.EventStatus, func(data interface{}) {
		if msg, ok := data.(string); ok {
			mw.updateStatus(msg)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Hitbox Editor",
		fmt.Sprintf("Hitbox Editor\n\n"+
			"Drag on the sprite to define the collision hitbox.\n"+
			"Editing: %s", mw.sess.Key()),
		mw.Window)
}

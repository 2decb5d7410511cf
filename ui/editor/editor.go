// Package editor provides the hitbox region editor widget: the sprite
// frame rendered at the resolved display scale, with drag-to-define
// rectangle interaction.
package editor

import (
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"hitbox-editor/internal/region"
	"hitbox-editor/internal/render"
	"hitbox-editor/internal/session"
	"hitbox-editor/pkg/geometry"
)

// RegionEditor displays the first frame of the session's sprite sheet
// and lets the user drag out the hitbox rectangle. Each drag replaces
// the whole rectangle; releasing a drag smaller than the micro-drag
// threshold reverts to the previous value.
type RegionEditor struct {
	widget.BaseWidget

	sess   *session.Session
	raster *fynecanvas.Raster
}

// New creates the editor widget bound to a session.
func New(sess *session.Session) *RegionEditor {
	re := &RegionEditor{sess: sess}

	re.raster = fynecanvas.NewRaster(re.draw)
	re.raster.ScaleMode = fynecanvas.ImageScalePixels
	re.ExtendBaseWidget(re)

	sess.On(session.EventDefinitionLoaded, func(_ interface{}) { re.Reload() })
	sess.On(session.EventImageLoaded, func(_ interface{}) { re.Reload() })
	sess.On(session.EventRegionChanged, func(_ interface{}) { re.Refresh() })

	return re
}

// Reload resizes the render surface after the displayed image or its
// frame size changed, then redraws.
func (re *RegionEditor) Reload() {
	cfg := re.sess.Display()
	w, h := cfg.SurfaceSize()
	if w < 1 || h < 1 {
		w, h = 320, 240
	}
	size := fyne.NewSize(float32(w), float32(h))
	re.raster.SetMinSize(size)
	re.raster.Resize(size)
	re.Refresh()
}

// Refresh redraws the render surface.
func (re *RegionEditor) Refresh() {
	re.raster.Refresh()
	re.BaseWidget.Refresh()
}

// draw is the raster drawing function.
func (re *RegionEditor) draw(w, h int) image.Image {
	cfg := re.sess.Display()
	return render.Surface(w, h, re.sess.Image(),
		cfg.SourceWidth, cfg.SourceHeight,
		re.sess.Controller().Rect(), cfg.Scale)
}

// Dragged drives the drag controller. The first event of a gesture
// carries the press offset, which recovers the anchor point.
func (re *RegionEditor) Dragged(ev *fyne.DragEvent) {
	cfg := re.sess.Display()
	if cfg.SourceWidth < 1 || cfg.SourceHeight < 1 {
		return
	}

	ctrl := re.sess.Controller()
	if !ctrl.Dragging() {
		press := fyne.NewPos(ev.Position.X-ev.Dragged.DX, ev.Position.Y-ev.Dragged.DY)
		ctrl.Begin(re.toSource(press, cfg))
	}
	ctrl.Update(re.toSource(ev.Position, cfg))
}

// DragEnd commits or reverts the candidate rectangle.
func (re *RegionEditor) DragEnd() {
	re.sess.Controller().End()
}

// toSource maps a widget-relative pointer position into sprite space.
func (re *RegionEditor) toSource(pos fyne.Position, cfg region.DisplayConfig) geometry.PointInt {
	return region.ToSourceSpace(
		geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)},
		geometry.Point2D{},
		cfg.Scale, cfg.SourceWidth, cfg.SourceHeight)
}

// CreateRenderer implements fyne.Widget.
func (re *RegionEditor) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(re.raster)
}

// MinSize reports the render surface size.
func (re *RegionEditor) MinSize() fyne.Size {
	return re.raster.MinSize()
}

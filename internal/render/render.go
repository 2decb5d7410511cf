// Package render draws the editor's render surface: the first sprite
// frame scaled to the display budget, with the hitbox rectangle overlaid
// as a translucent fill, a stroked outline, and corner handles.
package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"hitbox-editor/pkg/geometry"
)

var (
	// Background is the neutral clear color of the render surface.
	Background = color.RGBA{R: 34, G: 34, B: 34, A: 255}

	fillColor   = color.RGBA{R: 255, G: 64, B: 64, A: 255}
	strokeColor = color.RGBA{R: 255, G: 220, B: 0, A: 255}
)

const (
	fillOpacity = 0.25
	strokeWidth = 2

	// handleSize is the edge length of the corner handle squares in
	// screen pixels. Handles are visual feedback only.
	handleSize = 6
)

// Surface produces the complete w x h surface image for the given sprite
// sheet and hitbox rectangle. Only the top-left srcW x srcH sub-region of
// the sheet (the first frame) is drawn, scaled to fill the surface. img
// may be nil; the background and overlay still render. Same inputs always
// yield the same output.
func Surface(w, h int, img image.Image, srcW, srcH int, rect geometry.RectInt, scale float64) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	clear(out)

	if img != nil && srcW > 0 && srcH > 0 {
		blitFrame(out, img, srcW, srcH)
	}

	drawOverlay(out, rect, scale)
	return out
}

func clear(dst *image.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetRGBA(x, y, Background)
		}
	}
}

// blitFrame scales the first frame of the sheet onto the surface. A
// malformed image must not take down the redraw path, so any panic out
// of the source image is swallowed and the surface keeps its background.
func blitFrame(dst *image.RGBA, img image.Image, srcW, srcH int) {
	defer func() {
		_ = recover()
	}()

	min := img.Bounds().Min
	src := image.Rect(min.X, min.Y, min.X+srcW, min.Y+srcH)
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, src, xdraw.Over, nil)
}

// drawOverlay draws the hitbox rectangle scaled to screen space:
// translucent fill, solid outline, and a handle square centered on each
// corner.
func drawOverlay(dst *image.RGBA, rect geometry.RectInt, scale float64) {
	x1 := int(float64(rect.X) * scale)
	y1 := int(float64(rect.Y) * scale)
	x2 := int(float64(rect.X+rect.Width) * scale)
	y2 := int(float64(rect.Y+rect.Height) * scale)

	fillRect(dst, x1, y1, x2, y2)
	strokeRect(dst, x1, y1, x2, y2)

	for _, c := range rect.Corners() {
		cx := int(float64(c.X) * scale)
		cy := int(float64(c.Y) * scale)
		drawHandle(dst, cx, cy)
	}
}

func fillRect(dst *image.RGBA, x1, y1, x2, y2 int) {
	bounds := dst.Bounds()
	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			existing := dst.RGBAAt(x, y)
			dst.SetRGBA(x, y, blend(fillColor, existing, fillOpacity))
		}
	}
}

func strokeRect(dst *image.RGBA, x1, y1, x2, y2 int) {
	bounds := dst.Bounds()
	set := func(x, y int) {
		if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
			dst.SetRGBA(x, y, strokeColor)
		}
	}

	for t := 0; t < strokeWidth; t++ {
		for x := x1; x <= x2; x++ {
			set(x, y1+t)
			set(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			set(x1+t, y)
			set(x2-t, y)
		}
	}
}

func drawHandle(dst *image.RGBA, cx, cy int) {
	bounds := dst.Bounds()
	half := handleSize / 2
	for y := cy - half; y <= cy+half; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - half; x <= cx+half; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dst.SetRGBA(x, y, strokeColor)
		}
	}
}

func blend(src, dst color.RGBA, opacity float64) color.RGBA {
	inv := 1 - opacity
	return color.RGBA{
		R: uint8(float64(src.R)*opacity + float64(dst.R)*inv),
		G: uint8(float64(src.G)*opacity + float64(dst.G)*inv),
		B: uint8(float64(src.B)*opacity + float64(dst.B)*inv),
		A: 255,
	}
}

// Package region implements hitbox region editing: mapping pointer
// positions into sprite pixel space, resolving the display scale for a
// sprite sheet, and the drag state machine that produces a committed
// hitbox rectangle.
package region

import (
	"math"

	"hitbox-editor/pkg/geometry"
)

// ToSourceSpace converts a pointer position in viewport coordinates to
// sprite-space pixel coordinates, given the top-left offset of the render
// surface and the active display scale. The result is clamped to the
// sprite bounds, so dragging past the surface edge still yields a point
// on the sprite boundary.
func ToSourceSpace(pointer, origin geometry.Point2D, scale float64, srcWidth, srcHeight int) geometry.PointInt {
	sx := int(math.Round((pointer.X - origin.X) / scale))
	sy := int(math.Round((pointer.Y - origin.Y) / scale))

	if sx < 0 {
		sx = 0
	}
	if sx > srcWidth {
		sx = srcWidth
	}
	if sy < 0 {
		sy = 0
	}
	if sy > srcHeight {
		sy = srcHeight
	}
	return geometry.PointInt{X: sx, Y: sy}
}

package region

import (
	"hitbox-editor/pkg/geometry"
)

// MinDragSize is the smallest edge, in sprite pixels, a drag must span to
// count as an intentional region definition. Anything smaller is treated
// as a click or jitter and reverted.
const MinDragSize = 2

// Controller is the drag state machine. Between Begin and End it owns a
// candidate rectangle derived from the anchor point and the latest mapped
// pointer position; End either commits the candidate to the store or
// discards it.
type Controller struct {
	store    *Store
	minSize  int
	onChange func()

	dragging  bool
	anchor    geometry.PointInt
	candidate geometry.RectInt
}

// NewController creates a controller operating on the given store.
// onChange is invoked after every state change that requires a redraw;
// it may be nil.
func NewController(store *Store, onChange func()) *Controller {
	return &Controller{
		store:    store,
		minSize:  MinDragSize,
		onChange: onChange,
	}
}

// Dragging reports whether a drag session is active.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Rect returns the rectangle to display: the candidate while a drag is
// active, otherwise the committed value.
func (c *Controller) Rect() geometry.RectInt {
	if c.dragging {
		return c.candidate
	}
	return c.store.Committed()
}

// Begin starts a drag session at the given sprite-space point. The point
// becomes the anchor and the initial zero-size candidate.
func (c *Controller) Begin(p geometry.PointInt) {
	c.dragging = true
	c.anchor = p
	c.candidate = geometry.RectInt{X: p.X, Y: p.Y}
	c.notify()
}

// Update recomputes the candidate from the anchor and the current
// sprite-space point. Ignored when no drag is active.
func (c *Controller) Update(p geometry.PointInt) {
	if !c.dragging {
		return
	}
	c.candidate = geometry.RectFromCorners(c.anchor, p)
	c.notify()
}

// End finishes the drag session. A candidate smaller than the minimum
// drag size on either axis is discarded and the previously committed
// rectangle stays in place; otherwise the candidate is committed as-is.
// Returns true on commit.
func (c *Controller) End() bool {
	if !c.dragging {
		return false
	}
	c.dragging = false

	committed := c.candidate.Width >= c.minSize && c.candidate.Height >= c.minSize
	if committed {
		c.store.set(c.candidate)
	}
	c.candidate = geometry.RectInt{}
	c.notify()
	return committed
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

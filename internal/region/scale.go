package region

const (
	// DefaultMaxRenderSize is the largest edge, in screen pixels, the
	// render surface is allowed to occupy.
	DefaultMaxRenderSize = 420

	// DefaultScaleCap keeps small sprites from being blown up into huge
	// blurry squares. Policy constant, not an invariant.
	DefaultScaleCap = 4.0
)

// DisplayConfig describes how a sprite frame is mapped onto the render
// surface. Scale is fixed once an image is loaded and only recomputed
// when the displayed image changes.
type DisplayConfig struct {
	SourceWidth  int
	SourceHeight int
	Scale        float64
}

// ResolveScale computes the display scale for a frame of the given native
// size so it fits within maxRenderSize on both axes, capped at upperCap.
// A frame that already fits the budget is never rendered below native
// size, so the scale is floored at 1 in that case.
func ResolveScale(srcWidth, srcHeight, maxRenderSize int, upperCap float64) float64 {
	if srcWidth < 1 || srcHeight < 1 {
		return 1
	}

	scale := float64(maxRenderSize) / float64(srcWidth)
	if sy := float64(maxRenderSize) / float64(srcHeight); sy < scale {
		scale = sy
	}
	if scale > upperCap {
		scale = upperCap
	}
	if scale < 1 && srcWidth <= maxRenderSize && srcHeight <= maxRenderSize {
		scale = 1
	}
	return scale
}

// NewDisplayConfig resolves the scale for a frame using the default
// render budget and cap.
func NewDisplayConfig(srcWidth, srcHeight int) DisplayConfig {
	return DisplayConfig{
		SourceWidth:  srcWidth,
		SourceHeight: srcHeight,
		Scale:        ResolveScale(srcWidth, srcHeight, DefaultMaxRenderSize, DefaultScaleCap),
	}
}

// SurfaceSize returns the render surface size in screen pixels for the
// resolved scale.
func (c DisplayConfig) SurfaceSize() (w, h int) {
	return int(float64(c.SourceWidth)*c.Scale + 0.5), int(float64(c.SourceHeight)*c.Scale + 0.5)
}

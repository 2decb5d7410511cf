package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitbox-editor/pkg/geometry"
)

func testSheet(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSurfaceWithoutImage(t *testing.T) {
	out := Surface(80, 60, nil, 40, 30, geometry.RectInt{}, 2)
	require.NotNil(t, out)
	assert.Equal(t, image.Rect(0, 0, 80, 60), out.Bounds())

	// Far corner is untouched by the zero rect's overlay.
	assert.Equal(t, Background, out.RGBAAt(79, 59))
}

func TestSurfaceDrawsFrame(t *testing.T) {
	blue := color.RGBA{R: 0, G: 0, B: 200, A: 255}
	sheet := testSheet(120, 30, blue) // 3 frames of 40x30; only the first is shown

	out := Surface(80, 60, sheet, 40, 30, geometry.RectInt{}, 2)

	// Center of the surface shows the sprite, not the background.
	assert.Equal(t, blue, out.RGBAAt(40, 30))
}

func TestSurfaceOverlayStrokeAndHandles(t *testing.T) {
	out := Surface(100, 100, nil, 50, 50, geometry.NewRectInt(10, 10, 20, 20), 2)

	// Stroke runs along the scaled edges.
	assert.Equal(t, strokeColor, out.RGBAAt(30, 20)) // top edge x in [20,60], y=20
	assert.Equal(t, strokeColor, out.RGBAAt(20, 45)) // left edge
	assert.Equal(t, strokeColor, out.RGBAAt(60, 60)) // bottom-right corner

	// Handles sit centered on the corners, extending outside the rect.
	assert.Equal(t, strokeColor, out.RGBAAt(18, 18))
	assert.Equal(t, strokeColor, out.RGBAAt(62, 62))

	// Interior is the translucent fill over the background, so it is
	// neither pure background nor pure fill color.
	inside := out.RGBAAt(40, 40)
	assert.NotEqual(t, Background, inside)
	assert.NotEqual(t, strokeColor, inside)
	assert.Greater(t, inside.R, Background.R)
}

func TestSurfaceIdempotent(t *testing.T) {
	sheet := testSheet(40, 40, color.RGBA{R: 10, G: 200, B: 10, A: 255})
	rect := geometry.NewRectInt(4, 4, 12, 8)

	a := Surface(160, 160, sheet, 40, 40, rect, 4)
	b := Surface(160, 160, sheet, 40, 40, rect, 4)
	assert.Equal(t, a.Pix, b.Pix)
}

// panicImage panics when sampled, standing in for a corrupt source.
type panicImage struct{}

func (panicImage) ColorModel() color.Model { return color.RGBAModel }
func (panicImage) Bounds() image.Rectangle { return image.Rect(0, 0, 40, 40) }
func (panicImage) At(x, y int) color.Color { panic("corrupt image") }

func TestSurfaceSurvivesCorruptImage(t *testing.T) {
	out := Surface(80, 80, panicImage{}, 40, 40, geometry.NewRectInt(5, 5, 10, 10), 2)
	require.NotNil(t, out)

	// Overlay still rendered despite the failed blit.
	assert.Equal(t, strokeColor, out.RGBAAt(10, 10))
}

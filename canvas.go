package devverse

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/devverse/starfield"
)

// haloTextureSize is the edge length of the cached radial gradient.
const haloTextureSize = 64

// BackgroundZ is the ZIndex canvases use so they paint under page content.
const BackgroundZ = -1 << 20

var haloTexture *ebiten.Image

// haloPixels builds a white radial gradient that is opaque at the center and
// fully transparent at the edge of the inscribed circle.
func haloPixels(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := uint8(clamp01(1-d) * 255)
			img.SetRGBA(x, y, color.RGBA{a, a, a, a})
		}
	}
	return img
}

func halo() *ebiten.Image {
	if haloTexture == nil {
		haloTexture = ebiten.NewImageFromImage(haloPixels(haloTextureSize))
	}
	return haloTexture
}

// starColor converts a starfield color to a premultiplied color.RGBA.
func starColor(c starfield.Color) color.RGBA {
	return Color{c.R, c.G, c.B, c.A}.toRGBA()
}

// Canvas is an offscreen image shown through an image node at the bottom of
// the scene. It implements starfield.Canvas.
type Canvas struct {
	img  *ebiten.Image
	node *Node
}

// NewCanvas creates a w×h canvas and adds its node to parent.
func NewCanvas(parent *Node, w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	c := &Canvas{img: ebiten.NewImage(w, h)}
	c.node = NewImage("canvas", c.img)
	c.node.ZIndex = BackgroundZ
	if parent != nil {
		parent.AddChild(c.node)
	}
	return c
}

// Node returns the image node showing the canvas.
func (c *Canvas) Node() *Node {
	return c.node
}

// Size implements starfield.Canvas.
func (c *Canvas) Size() (int, int) {
	if c.img == nil {
		return 0, 0
	}
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the backing image. Existing content is dropped.
func (c *Canvas) Resize(w, h int) {
	if c.img == nil {
		return
	}
	if cw, ch := c.Size(); cw == w && ch == h {
		return
	}
	c.img.Deallocate()
	c.img = ebiten.NewImage(max(w, 1), max(h, 1))
	c.node.Image = c.img
}

// FillRect implements starfield.Canvas.
func (c *Canvas) FillRect(col starfield.Color) {
	if c.img == nil {
		return
	}
	w, h := c.Size()
	vector.DrawFilledRect(c.img, 0, 0, float32(w), float32(h), starColor(col), false)
}

// FillCircle implements starfield.Canvas.
func (c *Canvas) FillCircle(x, y, r float64, col starfield.Color) {
	if c.img == nil || r <= 0 {
		return
	}
	vector.DrawFilledCircle(c.img, float32(x), float32(y), float32(r), starColor(col), true)
}

// Halo implements starfield.Canvas by stretching the cached gradient.
func (c *Canvas) Halo(x, y, r float64, col starfield.Color) {
	if c.img == nil || r <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	s := 2 * r / haloTextureSize
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x-r, y-r)
	op.ColorScale.Scale(float32(col.R), float32(col.G), float32(col.B), 1)
	op.ColorScale.ScaleAlpha(float32(col.A))
	op.Filter = ebiten.FilterLinear
	c.img.DrawImage(halo(), op)
}

// Detach implements starfield.Canvas. It removes the node and frees the
// image; later draws are no-ops.
func (c *Canvas) Detach() {
	if c.node != nil {
		c.node.Dispose()
		c.node = nil
	}
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

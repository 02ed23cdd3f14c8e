package devverse

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawTree paints n and its descendants in painter order (ZIndex, then
// insertion order) and returns the number of draw calls issued.
func drawTree(dst *ebiten.Image, n *Node) int {
	if !n.Visible || n.disposed {
		return 0
	}
	draws := 0
	if n.worldAlpha > 0 {
		draws += drawNode(dst, n)
	}
	for _, child := range n.sorted() {
		draws += drawTree(dst, child)
	}
	return draws
}

// drawNode paints a single node's own content.
func drawNode(dst *ebiten.Image, n *Node) int {
	m := n.worldTransform
	switch n.Type {
	case NodeTypeRect:
		x0, y0, x1, y1 := worldBounds(m, 0, 0, n.Width, n.Height)
		if x1 <= x0 || y1 <= y0 {
			return 0
		}
		c := n.Color
		c.A *= n.worldAlpha
		vector.DrawFilledRect(dst, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), c.toRGBA(), true)
		if n.StrokeWidth > 0 {
			sc := n.StrokeColor
			sc.A *= n.worldAlpha
			vector.StrokeRect(dst, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0),
				float32(n.StrokeWidth), sc.toRGBA(), true)
			return 2
		}
		return 1

	case NodeTypeCircle:
		cx, cy := transformPoint(m, 0, 0)
		r := n.Radius * m[0]
		if r <= 0 {
			return 0
		}
		c := n.Color
		c.A *= n.worldAlpha
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(r), c.toRGBA(), true)
		if n.StrokeWidth > 0 {
			sc := n.StrokeColor
			sc.A *= n.worldAlpha
			vector.StrokeCircle(dst, float32(cx), float32(cy), float32(r), float32(n.StrokeWidth), sc.toRGBA(), true)
			return 2
		}
		return 1

	case NodeTypeText:
		if n.TextBlock == nil {
			return 0
		}
		drawText(dst, n)
		return 1

	case NodeTypeImage:
		if n.Image == nil {
			return 0
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = geoM(m)
		op.ColorScale.Scale(float32(n.Color.R), float32(n.Color.G), float32(n.Color.B), 1)
		op.ColorScale.ScaleAlpha(float32(n.Color.A * n.worldAlpha))
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(n.Image, op)
		return 1
	}
	return 0
}

// worldBounds maps a local rectangle through an axis-aligned transform.
func worldBounds(m [6]float64, x, y, w, h float64) (x0, y0, x1, y1 float64) {
	x0, y0 = transformPoint(m, x, y)
	x1, y1 = transformPoint(m, x+w, y+h)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return x0, y0, x1, y1
}

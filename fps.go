package devverse

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// NewFPSWidget creates a node that displays the current FPS and TPS plus the
// scene's node count. The image refreshes about twice a second.
func NewFPSWidget(s *Scene) *Node {
	img := ebiten.NewImage(120, 48)
	node := NewImage("fps_widget", img)
	node.ZIndex = 1 << 20

	lastUpdate := 0.5
	node.OnUpdate = func(dt float64) {
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return
		}
		lastUpdate = 0

		img.Clear()
		img.Fill(color.RGBA{0, 0, 0, 128})
		nodes := 0
		if s != nil {
			nodes = countNodes(s.root)
		}
		ebitenutil.DebugPrint(img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nNodes: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(), nodes))
	}
	return node
}

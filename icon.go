package devverse

import (
	"embed"
	"fmt"
	"image"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed icons/*.svg
var iconFS embed.FS

// Icon names shipped with the app. Theme icons match profile.Icon.
const (
	IconPlanet  = "planet"
	IconRocket  = "rocket"
	IconOrb     = "orb"
	IconBolt    = "bolt"
	IconPalette = "palette"
)

type iconKey struct {
	name  string
	color string
	size  int
}

var iconCache = map[iconKey]*ebiten.Image{}

// RasterizeIcon renders the named embedded SVG at size×size pixels with
// every "currentColor" replaced by color.
func RasterizeIcon(name, color string, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("icon %q: size must be positive, got %d", name, size)
	}
	data, err := iconFS.ReadFile("icons/" + name + ".svg")
	if err != nil {
		return nil, fmt.Errorf("icon %q: %w", name, err)
	}
	src := strings.ReplaceAll(string(data), "currentColor", color)
	icon, err := oksvg.ReadIconStream(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("icon %q: parse: %w", name, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1)
	return img, nil
}

// IconImage returns a cached GPU image of the named icon. Icons that fail to
// render yield nil.
func IconImage(name, color string, size int) *ebiten.Image {
	key := iconKey{name, color, size}
	if img, ok := iconCache[key]; ok {
		return img
	}
	rgba, err := RasterizeIcon(name, color, size)
	if err != nil {
		iconCache[key] = nil
		return nil
	}
	img := ebiten.NewImageFromImage(rgba)
	iconCache[key] = img
	return img
}

// NewIcon creates an image node showing the named icon, centered on the
// node's position.
func NewIcon(name, color string, size int) *Node {
	n := NewImage("icon:"+name, IconImage(name, color, size))
	n.SetPivot(float64(size)/2, float64(size)/2)
	return n
}

package devverse

import (
	"testing"

	"github.com/phanxgames/devverse/starfield"
)

func TestHaloPixelsFalloff(t *testing.T) {
	img := haloPixels(haloTextureSize)
	center := img.RGBAAt(haloTextureSize/2, haloTextureSize/2)
	if center.A < 240 {
		t.Errorf("center alpha = %d, want near opaque", center.A)
	}
	if corner := img.RGBAAt(0, 0); corner.A != 0 {
		t.Errorf("corner alpha = %d, want 0", corner.A)
	}
	// Premultiplied white: every channel equals alpha.
	mid := img.RGBAAt(haloTextureSize/2, haloTextureSize/4)
	if mid.R != mid.A || mid.G != mid.A || mid.B != mid.A {
		t.Errorf("mid = %v, want premultiplied white", mid)
	}
	if mid.A == 0 || mid.A >= center.A {
		t.Errorf("mid alpha = %d, want between 0 and %d", mid.A, center.A)
	}
}

func TestStarColor(t *testing.T) {
	got := starColor(starfield.Color{R: 1, G: 1, B: 1, A: 0.5})
	if got.R != 128 || got.A != 128 {
		t.Errorf("starColor = %v, want premultiplied half white", got)
	}
}

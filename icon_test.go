package devverse

import "testing"

func TestRasterizeIconUsesColor(t *testing.T) {
	img, err := RasterizeIcon(IconPlanet, "#FF0000", 100)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("bounds = %v, want 100x100", b)
	}
	if c := img.RGBAAt(50, 50); c.R != 255 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("center = %v, want opaque red", c)
	}
	if c := img.RGBAAt(1, 1); c.A != 0 {
		t.Errorf("corner alpha = %d, want 0", c.A)
	}
}

func TestRasterizeIconErrors(t *testing.T) {
	if _, err := RasterizeIcon("comet", "#FFFFFF", 32); err == nil {
		t.Error("unknown icon should fail")
	}
	if _, err := RasterizeIcon(IconOrb, "#FFFFFF", 0); err == nil {
		t.Error("zero size should fail")
	}
}

func TestEveryIconRasterizes(t *testing.T) {
	for _, name := range []string{IconPlanet, IconRocket, IconOrb, IconBolt, IconPalette} {
		if _, err := RasterizeIcon(name, "#00D9FF", 24); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

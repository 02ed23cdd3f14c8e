package devverse

import "testing"

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FF8000")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.G != 128.0/255 || c.B != 0 || c.A != 1 {
		t.Errorf("ParseHex = %+v", c)
	}

	c, err = ParseHex(" 00000080 ")
	if err != nil {
		t.Fatal(err)
	}
	if c.A != 128.0/255 {
		t.Errorf("alpha = %v, want %v", c.A, 128.0/255)
	}

	for _, bad := range []string{"", "#FFF", "#GGGGGG", "#1234567"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustHex should panic on bad input")
		}
	}()
	MustHex("nope")
}

func TestToRGBAPremultiplies(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 2, A: 0.5}.toRGBA()
	if got.R != 128 || got.G != 64 || got.B != 128 || got.A != 128 {
		t.Errorf("toRGBA = %v, want {128 64 128 128}", got)
	}
	if got := ColorWhite.WithAlpha(0).toRGBA(); got.A != 0 || got.R != 0 {
		t.Errorf("transparent = %v", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	if !r.Contains(10, 15) || r.Contains(9, 12) {
		t.Error("Rect.Contains edge handling wrong")
	}
}

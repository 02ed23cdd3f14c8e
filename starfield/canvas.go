package starfield

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Canvas is the drawing surface a Starfield paints on.
type Canvas interface {
	// Size returns the surface size in pixels.
	Size() (w, h int)
	// FillRect paints c over the whole surface, blending with what is there.
	FillRect(c Color)
	// FillCircle paints a filled circle.
	FillCircle(x, y, r float64, c Color)
	// Halo paints a radial gradient from c at the center to transparent at r.
	Halo(x, y, r float64, c Color)
	// Detach removes the surface from the display.
	Detach()
}

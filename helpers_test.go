package devverse

import "github.com/hajimehoshi/ebiten/v2"

const (
	fixedGlyphWidth = 10.0
	fixedLineHeight = 20.0
)

// fixedFont measures every rune as fixedGlyphWidth wide.
type fixedFont struct{}

func (fixedFont) MeasureString(s string) (float64, float64) {
	return float64(len([]rune(s))) * fixedGlyphWidth, fixedLineHeight
}

func (fixedFont) LineHeight() float64 { return fixedLineHeight }

// fakeInput is a scriptable InputSource.
type fakeInput struct {
	x, y    float64
	pressed bool
	button  MouseButton
	mods    KeyModifiers
	keys    []ebiten.Key
	chars   []rune
	wheel   float64
}

func (f *fakeInput) CursorPosition() (float64, float64) { return f.x, f.y }

func (f *fakeInput) PointerPressed() (bool, MouseButton) { return f.pressed, f.button }

func (f *fakeInput) Modifiers() KeyModifiers { return f.mods }

// AppendJustPressedKeys reports queued keys once.
func (f *fakeInput) AppendJustPressedKeys(keys []ebiten.Key) []ebiten.Key {
	keys = append(keys, f.keys...)
	f.keys = nil
	return keys
}

// AppendInputChars reports queued text once.
func (f *fakeInput) AppendInputChars(runes []rune) []rune {
	runes = append(runes, f.chars...)
	f.chars = nil
	return runes
}

func (f *fakeInput) Wheel() float64 {
	w := f.wheel
	f.wheel = 0
	return w
}

func (f *fakeInput) press(x, y float64) {
	f.x, f.y, f.pressed, f.button = x, y, true, MouseButtonLeft
}

func (f *fakeInput) release(x, y float64) {
	f.x, f.y, f.pressed = x, y, false
}

func newTestScene() (*Scene, *fakeInput) {
	in := &fakeInput{}
	return NewScene(WithInput(in)), in
}

// settle refreshes world transforms so hit testing sees current positions.
func settle(s *Scene) {
	updateWorldTransform(s.root, identityTransform, 1.0, false)
}

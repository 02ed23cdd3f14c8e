package devverse

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// InputSource reads device state once per frame.
type InputSource interface {
	// CursorPosition returns the pointer position in screen pixels.
	CursorPosition() (x, y float64)
	// PointerPressed reports whether a button is held and which one.
	PointerPressed() (bool, MouseButton)
	// Modifiers returns the held modifier keys.
	Modifiers() KeyModifiers
	// AppendJustPressedKeys appends keys pressed this frame.
	AppendJustPressedKeys(keys []ebiten.Key) []ebiten.Key
	// Wheel returns the vertical scroll delta for this frame.
	Wheel() float64
}

// CharSource is an optional InputSource extension that reports typed text.
type CharSource interface {
	AppendInputChars(runes []rune) []rune
}

// EbitenInput reads input from Ebitengine.
type EbitenInput struct{}

// CursorPosition implements InputSource.
func (EbitenInput) CursorPosition() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

// PointerPressed implements InputSource. The first touch counts as a left
// button press so tapping works like clicking.
func (EbitenInput) PointerPressed() (bool, MouseButton) {
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		return true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		return true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		return true, MouseButtonMiddle
	}
	if len(ebiten.AppendTouchIDs(nil)) > 0 {
		return true, MouseButtonLeft
	}
	return false, MouseButtonLeft
}

// Modifiers implements InputSource.
func (EbitenInput) Modifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// AppendJustPressedKeys implements InputSource.
func (EbitenInput) AppendJustPressedKeys(keys []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustPressedKeys(keys)
}

// Wheel implements InputSource.
func (EbitenInput) Wheel() float64 {
	_, y := ebiten.Wheel()
	return y
}

// AppendInputChars implements CharSource.
func (EbitenInput) AppendInputChars(runes []rune) []rune {
	return ebiten.AppendInputChars(runes)
}

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	x, y      float64
	hitNode   *Node
	hoverNode *Node
	button    MouseButton
}

// --- Hit testing ---

// nodeDimensions returns the local-space bounds of a node's own content.
func nodeDimensions(n *Node) (x, y, w, h float64) {
	switch n.Type {
	case NodeTypeRect:
		return 0, 0, n.Width, n.Height
	case NodeTypeCircle:
		return -n.Radius, -n.Radius, n.Radius * 2, n.Radius * 2
	case NodeTypeText:
		if n.TextBlock != nil {
			w, h := n.TextBlock.Size()
			return 0, 0, w, h
		}
	case NodeTypeImage:
		if n.Image != nil {
			b := n.Image.Bounds()
			return 0, 0, float64(b.Dx()), float64(b.Dy())
		}
	}
	return 0, 0, 0, 0
}

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise the node's own bounds. Circles hit on
// their disc. Containers with no HitShape are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Type == NodeTypeCircle {
		return HitCircle{Radius: n.Radius}.Contains(lx, ly)
	}
	x, y, w, h := nodeDimensions(n)
	if w == 0 && h == 0 {
		return false
	}
	return HitRect{x, y, w, h}.Contains(lx, ly)
}

// collectInteractable walks the tree in painter order, appending
// interactable nodes to buf. Invisible subtrees are skipped.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	if n.Interactable && (n.HitShape != nil || n.Type != NodeTypeContainer) {
		buf = append(buf, n)
	}
	for _, child := range n.sorted() {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = collectInteractable(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// processInput handles one frame of input. Injected pointer events replace
// the real pointer for the frame they are consumed in.
func (s *Scene) processInput() {
	mods := s.input.Modifiers()
	if !s.processInjectedInput(mods) {
		x, y := s.input.CursorPosition()
		pressed, button := s.input.PointerPressed()
		s.processPointer(x, y, pressed, button, mods)
	}

	s.wheel = s.input.Wheel()
	s.charBuf = s.charBuf[:0]
	if cs, ok := s.input.(CharSource); ok {
		s.charBuf = cs.AppendInputChars(s.charBuf)
	}
	s.keyBuf = s.input.AppendJustPressedKeys(s.keyBuf[:0])
	for _, k := range s.keyBuf {
		for _, h := range s.keyHandlers {
			h(k, mods)
		}
	}
}

// processPointer runs the pointer state machine. A click fires when the
// release lands on the node the press started on.
func (s *Scene) processPointer(x, y float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointer
	ps.x, ps.y = x, y
	target := s.hitTest(x, y)

	if target != ps.hoverNode {
		if ps.hoverNode != nil && !ps.hoverNode.disposed && ps.hoverNode.OnPointerLeave != nil {
			ps.hoverNode.OnPointerLeave(s.pointerContext(ps.hoverNode, x, y, button, mods))
		}
		if target != nil && target.OnPointerEnter != nil {
			target.OnPointerEnter(s.pointerContext(target, x, y, button, mods))
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitNode = target
	case !pressed && ps.down:
		if ps.hitNode != nil && ps.hitNode == target {
			s.fireClick(target, x, y, ps.button, mods)
		}
		ps.down = false
		ps.hitNode = nil
	}
}

func (s *Scene) pointerContext(n *Node, x, y float64, button MouseButton, mods KeyModifiers) PointerContext {
	lx, ly := n.WorldToLocal(x, y)
	return PointerContext{Node: n, GlobalX: x, GlobalY: y, LocalX: lx, LocalY: ly, Button: button, Modifiers: mods}
}

// fireClick runs the nearest OnClick at or above node, then hands the
// nearest Href to the link handler. Only left clicks follow links, and an
// Href of "#" is a placeholder that goes nowhere.
func (s *Scene) fireClick(node *Node, x, y float64, button MouseButton, mods KeyModifiers) {
	href := node.linkTarget()
	for p := node; p != nil; p = p.Parent {
		if p.OnClick != nil {
			lx, ly := p.WorldToLocal(x, y)
			p.OnClick(ClickContext{Node: p, GlobalX: x, GlobalY: y, LocalX: lx, LocalY: ly, Button: button, Modifiers: mods})
			break
		}
	}
	if href != "" && href != "#" && button == MouseButtonLeft && s.onLink != nil {
		s.onLink(href)
	}
}

// Pointer returns the last pointer position seen, real or injected.
func (s *Scene) Pointer() (x, y float64) {
	return s.pointer.x, s.pointer.y
}

// Wheel returns this frame's vertical scroll delta.
func (s *Scene) Wheel() float64 {
	return s.wheel
}

// Chars returns the text typed this frame. The slice is reused next frame.
func (s *Scene) Chars() []rune {
	return s.charBuf
}

// OnLink sets the handler that receives the Href of clicked link nodes.
func (s *Scene) OnLink(fn func(href string)) {
	s.onLink = fn
}

// OnKey registers a handler for keys pressed this frame.
func (s *Scene) OnKey(fn func(key ebiten.Key, mods KeyModifiers)) {
	s.keyHandlers = append(s.keyHandlers, fn)
}

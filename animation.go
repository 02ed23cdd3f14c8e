package devverse

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields on a Node simultaneously.
// Create one via the convenience constructors and call Update(dt) each frame,
// or hand it to an Animator. If the target node is disposed, the group stops
// immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	delay  float32
	Done   bool

	// OnDone runs once when every tween finishes.
	OnDone func()
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done is set
// to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}
	if g.delay > 0 {
		g.delay -= dt
		if g.delay > 0 {
			return
		}
		dt = -g.delay
		g.delay = 0
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
	if g.Done && g.OnDone != nil {
		g.OnDone()
	}
}

// Delay holds the group at its start values for d seconds before animating.
func (g *TweenGroup) Delay(d float32) *TweenGroup {
	g.delay = d
	return g
}

// TweenPosition creates a TweenGroup that animates node.X and node.Y to the
// given target coordinates over the specified duration using the easing function.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(node.Y), float32(toY), duration, fn)
	g.fields[0] = &node.X
	g.fields[1] = &node.Y
	return g
}

// TweenAlpha creates a TweenGroup that animates node.Alpha to the target value
// over the specified duration using the easing function.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Alpha), float32(to), duration, fn)
	g.fields[0] = &node.Alpha
	return g
}

// TweenWidth creates a TweenGroup that animates node.Width, used by skill bars.
func TweenWidth(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, target: node}
	g.tweens[0] = gween.New(float32(node.Width), float32(to), duration, fn)
	g.fields[0] = &node.Width
	return g
}

// TweenScale animates node.ScaleX and node.ScaleY to the same target, used
// for hover emphasis.
func TweenScale(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(node.ScaleX), float32(to), duration, fn)
	g.tweens[1] = gween.New(float32(node.ScaleY), float32(to), duration, fn)
	g.fields[0] = &node.ScaleX
	g.fields[1] = &node.ScaleY
	return g
}

// FadeIn sets node transparent and returns a group that fades it in after
// delay seconds while sliding it up by rise pixels.
func FadeIn(node *Node, delay, duration float32, rise float64) *TweenGroup {
	toY := node.Y
	node.Alpha = 0
	node.Y += rise
	node.MarkDirty()
	g := &TweenGroup{count: 2, target: node, delay: delay}
	g.tweens[0] = gween.New(0, 1, duration, ease.OutQuad)
	g.tweens[1] = gween.New(float32(node.Y), float32(toY), duration, ease.OutQuad)
	g.fields[0] = &node.Alpha
	g.fields[1] = &node.Y
	return g
}

// Animator owns running tween groups and drops them once finished.
type Animator struct {
	groups []*TweenGroup
}

// Add starts tracking g.
func (a *Animator) Add(g *TweenGroup) *TweenGroup {
	if g != nil {
		a.groups = append(a.groups, g)
	}
	return g
}

// Update advances every group and removes finished ones. Groups added by an
// OnDone callback start on the next update.
func (a *Animator) Update(dt float32) {
	n := len(a.groups)
	for i := 0; i < n; i++ {
		a.groups[i].Update(dt)
	}
	kept := a.groups[:0]
	for _, g := range a.groups {
		if !g.Done {
			kept = append(kept, g)
		}
	}
	for i := len(kept); i < len(a.groups); i++ {
		a.groups[i] = nil
	}
	a.groups = kept
}

// Len returns the number of running groups.
func (a *Animator) Len() int {
	return len(a.groups)
}

// Clear drops every group without finishing it.
func (a *Animator) Clear() {
	clear(a.groups)
	a.groups = a.groups[:0]
}

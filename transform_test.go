package devverse

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestLocalTransformPivotAndScale(t *testing.T) {
	n := NewContainer("n")
	n.SetPosition(100, 50)
	n.SetScale(2, 3)
	n.SetPivot(10, 5)

	m := computeLocalTransform(n)
	x, y := transformPoint(m, 10, 5)
	if !near(x, 100) || !near(y, 50) {
		t.Errorf("pivot maps to (%v, %v), want (100, 50)", x, y)
	}
	x, y = transformPoint(m, 11, 6)
	if !near(x, 102) || !near(y, 53) {
		t.Errorf("pivot+1 maps to (%v, %v), want (102, 53)", x, y)
	}
}

func TestWorldTransformNested(t *testing.T) {
	root := NewContainer("root")
	parent := NewContainer("parent")
	child := NewContainer("child")
	root.AddChild(parent)
	parent.AddChild(child)
	parent.SetPosition(10, 20)
	parent.SetScale(2, 2)
	child.SetPosition(5, 5)

	updateWorldTransform(root, identityTransform, 1, false)

	x, y := child.LocalToWorld(0, 0)
	if !near(x, 20) || !near(y, 30) {
		t.Errorf("child origin = (%v, %v), want (20, 30)", x, y)
	}
	lx, ly := child.WorldToLocal(x, y)
	if !near(lx, 0) || !near(ly, 0) {
		t.Errorf("round trip = (%v, %v), want (0, 0)", lx, ly)
	}
}

func TestWorldAlphaMultiplies(t *testing.T) {
	root := NewContainer("root")
	a := NewContainer("a")
	b := NewContainer("b")
	root.AddChild(a)
	a.AddChild(b)
	a.SetAlpha(0.5)
	b.SetAlpha(0.5)

	updateWorldTransform(root, identityTransform, 1, false)
	if !near(b.WorldAlpha(), 0.25) {
		t.Errorf("WorldAlpha = %v, want 0.25", b.WorldAlpha())
	}
}

func TestParentChangePropagates(t *testing.T) {
	root := NewContainer("root")
	child := NewContainer("child")
	root.AddChild(child)
	updateWorldTransform(root, identityTransform, 1, false)

	root.SetPosition(0, -120) // scroll
	updateWorldTransform(root, identityTransform, 1, false)

	_, y := child.LocalToWorld(0, 0)
	if !near(y, -120) {
		t.Errorf("child y = %v, want -120", y)
	}
}

func TestInvertSingularIsIdentity(t *testing.T) {
	if got := invertAffine([6]float64{0, 0, 0, 0, 5, 5}); got != identityTransform {
		t.Errorf("invert singular = %v, want identity", got)
	}
}

func TestWorldBoundsNormalizes(t *testing.T) {
	m := [6]float64{-1, 0, 0, 1, 100, 0}
	x0, y0, x1, y1 := worldBounds(m, 0, 0, 40, 10)
	if x0 != 60 || x1 != 100 || y0 != 0 || y1 != 10 {
		t.Errorf("bounds = (%v, %v, %v, %v), want (60, 0, 100, 10)", x0, y0, x1, y1)
	}
}

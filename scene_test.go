package devverse

import "testing"

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene()
	if s.Root() == nil || s.Root().Name != "root" {
		t.Fatal("scene should have a root container")
	}
	if _, ok := s.input.(EbitenInput); !ok {
		t.Errorf("input = %T, want EbitenInput", s.input)
	}
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q", s.ScreenshotDir)
	}
	if s.Debug() || s.TestRunner() != nil {
		t.Error("debug and runner should be off by default")
	}
}

func TestSceneUpdateRunsCallbacksBeforeInput(t *testing.T) {
	s, in := newTestScene()
	btn := NewRect("btn", 50, 50, ColorWhite)
	btn.Interactable = true
	s.Root().AddChild(btn)

	var order []string
	btn.OnUpdate = func(dt float64) {
		order = append(order, "update")
		// Moved this frame; input must see the new position.
		btn.SetPosition(100, 0)
	}
	btn.OnPointerEnter = func(PointerContext) { order = append(order, "enter") }

	in.x, in.y = 120, 10
	s.Update(1.0 / 60)

	if len(order) != 2 || order[0] != "update" || order[1] != "enter" {
		t.Errorf("order = %v, want [update enter]", order)
	}
}

func TestSceneUpdateSkipsDisposedSubtrees(t *testing.T) {
	s, _ := newTestScene()
	parent := NewContainer("parent")
	child := NewContainer("child")
	parent.AddChild(child)
	s.Root().AddChild(parent)

	calls := 0
	child.OnUpdate = func(float64) { calls++ }
	parent.OnUpdate = func(float64) { parent.Dispose() }

	s.Update(1.0 / 60)
	s.Update(1.0 / 60)
	if calls != 0 {
		t.Errorf("child updated %d times after its parent was disposed", calls)
	}
}

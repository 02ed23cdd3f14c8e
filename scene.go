package devverse

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Scene is the top-level object that owns the node tree, input state and
// the scripted-test hooks.
type Scene struct {
	root   *Node
	logger *zap.Logger
	debug  bool

	// Input
	input       InputSource
	pointer     pointerState
	hitBuf      []*Node
	keyBuf      []ebiten.Key
	charBuf     []rune
	keyHandlers []func(ebiten.Key, KeyModifiers)
	wheel       float64
	onLink      func(href string)

	// Scripted testing
	injectQueue     []syntheticPointerEvent
	screenshotQueue []string
	testRunner      *TestRunner

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	stats       debugStats
	debugFrames int
}

// SceneOption configures a Scene.
type SceneOption func(*Scene)

// WithInput replaces the device input source.
func WithInput(in InputSource) SceneOption {
	return func(s *Scene) {
		s.input = in
	}
}

// WithSceneLogger sets the scene logger.
func WithSceneLogger(l *zap.Logger) SceneOption {
	return func(s *Scene) {
		s.logger = l
	}
}

// WithDebug turns on per-frame stats logging and tree sanity checks.
func WithDebug(on bool) SceneOption {
	return func(s *Scene) {
		s.debug = on
	}
}

// NewScene creates a new scene with a pre-created root container.
func NewScene(opts ...SceneOption) *Scene {
	s := &Scene{
		root:          NewContainer("root"),
		ScreenshotDir: "screenshots",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.input == nil {
		s.input = EbitenInput{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.debug {
		SetDebugChecks(true)
	}
	return s
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Debug reports whether debug mode is on.
func (s *Scene) Debug() bool {
	return s.debug
}

// TestRunner returns the attached runner, or nil.
func (s *Scene) TestRunner() *TestRunner {
	return s.testRunner
}

// Update runs node callbacks, refreshes world transforms, advances the
// test runner and processes input, in that order.
func (s *Scene) Update(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	updateNodes(s.root, dt)
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInput()

	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
}

// Draw renders the tree onto screen and flushes queued screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	updateWorldTransform(s.root, identityTransform, 1.0, false)
	draws := drawTree(screen, s.root)
	s.flushScreenshots(screen)

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.stats.drawCount = draws
		s.stats.nodeCount = countNodes(s.root)
		s.debugLog(s.stats)
	}
}

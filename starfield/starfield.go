package starfield

import (
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/phanxgames/devverse/frameloop"
)

// Parallax is the fraction of depth applied to the pointer offset.
const Parallax = 0.1

// Tint is a star color with its relative selection weight.
type Tint struct {
	Color  Color
	Weight float64
}

// Config controls the field.
type Config struct {
	// Count is the number of stars. Fixed for the life of the field.
	Count int
	// MaxDepth is the far plane. Stars spawn at depths in [0, MaxDepth).
	MaxDepth float64
	// Speed scales every star's per-frame depth step.
	Speed float64
	// HaloThreshold is the projected radius above which a halo is drawn.
	HaloThreshold float64
	// Background is painted over the canvas each frame. A low alpha leaves
	// fading trails instead of a hard clear.
	Background Color
	// Tints picks each star's color by weight. Empty means white.
	Tints []Tint
	// Twinkle modulates each star's opacity with a per-star sine phase.
	Twinkle bool
}

// DefaultConfig returns the standard field settings.
func DefaultConfig() Config {
	return Config{
		Count:         800,
		MaxDepth:      2000,
		Speed:         0.5,
		HaloThreshold: 1.5,
		Background:    Color{R: 10.0 / 255, G: 14.0 / 255, B: 39.0 / 255, A: 0.1},
	}
}

// ColorfulTints is the cyan/purple/pink/white mix used by the landing page.
func ColorfulTints() []Tint {
	return []Tint{
		{Color: Color{R: 1, G: 1, B: 1, A: 1}, Weight: 0.55},
		{Color: Color{R: 1, G: 0, B: 229.0 / 255, A: 1}, Weight: 0.15},
		{Color: Color{R: 123.0 / 255, G: 47.0 / 255, B: 1, A: 1}, Weight: 0.15},
		{Color: Color{R: 0, G: 217.0 / 255, B: 1, A: 1}, Weight: 0.15},
	}
}

var white = Color{R: 1, G: 1, B: 1, A: 1}

// Star is one particle.
type Star struct {
	X, Y    float64
	Z       float64 // depth, always in [0, MaxDepth]
	Radius  float64
	Speed   float64
	Opacity float64
	Tint    Color
	Phase   float64 // twinkle phase in radians
}

// Projected is a star's draw-time geometry.
type Projected struct {
	X, Y    float64
	Radius  float64
	Opacity float64
}

// Option configures a Starfield.
type Option func(*Starfield)

// WithRand sets the random source. Tests use a seeded source.
func WithRand(r *rand.Rand) Option {
	return func(s *Starfield) {
		s.rng = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Starfield) {
		s.logger = l
	}
}

// Starfield owns a fixed-size star set. It is not safe for concurrent use;
// one instance belongs to one mounted page.
type Starfield struct {
	cfg      Config
	w, h     float64
	stars    []Star
	pointerX float64
	pointerY float64
	frame    uint64
	rng      *rand.Rand
	logger   *zap.Logger

	loop       *frameloop.Loop
	canvas     Canvas
	warnedNoCv bool
}

// New creates a field sized w×h and generates its stars.
func New(cfg Config, w, h int, opts ...Option) *Starfield {
	if cfg.Count < 0 {
		cfg.Count = 0
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultConfig().MaxDepth
	}
	if cfg.HaloThreshold <= 0 {
		cfg.HaloThreshold = DefaultConfig().HaloThreshold
	}
	s := &Starfield{cfg: cfg, w: float64(w), h: float64(h)}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.generate()
	return s
}

// Config returns the field's configuration.
func (s *Starfield) Config() Config {
	return s.cfg
}

// Stars returns the live star slice. Callers must not modify it.
func (s *Starfield) Stars() []Star {
	return s.stars
}

// Size returns the field dimensions.
func (s *Starfield) Size() (w, h float64) {
	return s.w, s.h
}

// Frame returns the number of updates since the last (re)generation.
func (s *Starfield) Frame() uint64 {
	return s.frame
}

// generate replaces every star.
func (s *Starfield) generate() {
	s.stars = make([]Star, s.cfg.Count)
	for i := range s.stars {
		st := &s.stars[i]
		st.X = s.rng.Float64() * s.w
		st.Y = s.rng.Float64() * s.h
		st.Z = s.rng.Float64() * s.cfg.MaxDepth
		st.Radius = s.rng.Float64()*2 + 0.5
		st.Speed = s.rng.Float64()*0.5 + 0.2
		st.Opacity = s.rng.Float64()*0.8 + 0.2
		st.Tint = s.pickTint()
		st.Phase = s.rng.Float64() * 2 * math.Pi
	}
	s.frame = 0
}

func (s *Starfield) pickTint() Color {
	if len(s.cfg.Tints) == 0 {
		return white
	}
	var total float64
	for _, t := range s.cfg.Tints {
		total += t.Weight
	}
	if total <= 0 {
		return s.cfg.Tints[0].Color
	}
	pick := s.rng.Float64() * total
	for _, t := range s.cfg.Tints {
		pick -= t.Weight
		if pick < 0 {
			return t.Color
		}
	}
	return s.cfg.Tints[len(s.cfg.Tints)-1].Color
}

// Resize changes the field dimensions and regenerates every star. No
// existing star survives a resize.
func (s *Starfield) Resize(w, h int) {
	s.w, s.h = float64(w), float64(h)
	s.generate()
}

// SetPointer sets the parallax pointer in normalized units, where (0, 0) is
// the center of the field and ±0.5 are the edges.
func (s *Starfield) SetPointer(x, y float64) {
	s.pointerX, s.pointerY = x, y
}

// PointerFromScreen sets the pointer from a cursor position in pixels.
func (s *Starfield) PointerFromScreen(cx, cy float64) {
	if s.w == 0 || s.h == 0 {
		return
	}
	s.pointerX = (cx - s.w/2) / s.w
	s.pointerY = (cy - s.h/2) / s.h
}

// Pointer returns the normalized pointer.
func (s *Starfield) Pointer() (x, y float64) {
	return s.pointerX, s.pointerY
}

// Update advances every star by one frame.
func (s *Starfield) Update() {
	step := s.cfg.Speed
	for i := range s.stars {
		st := &s.stars[i]
		st.Z -= st.Speed * step
		if st.Z <= 0 {
			st.X = s.rng.Float64() * s.w
			st.Y = s.rng.Float64() * s.h
			st.Z = s.cfg.MaxDepth
		} else if st.Z > s.cfg.MaxDepth {
			st.Z = s.cfg.MaxDepth
		}
	}
	s.frame++
}

// Project computes where and how large a star is drawn.
func (s *Starfield) Project(st Star) Projected {
	near := 1 - st.Z/s.cfg.MaxDepth
	opacity := st.Opacity
	if s.cfg.Twinkle {
		opacity = clamp(opacity+math.Sin(float64(s.frame)*0.02+st.Phase)*0.3, 0.2, 1)
	}
	return Projected{
		X:       st.X + s.pointerX*st.Z*Parallax,
		Y:       st.Y + s.pointerY*st.Z*Parallax,
		Radius:  st.Radius * near,
		Opacity: opacity * near,
	}
}

// Draw paints the fade layer and then every star. Stars whose projected
// radius exceeds the halo threshold get a halo beneath the disc.
func (s *Starfield) Draw(c Canvas) {
	if c == nil {
		if !s.warnedNoCv {
			s.logger.Warn("starfield has no canvas; skipping draw")
			s.warnedNoCv = true
		}
		return
	}
	c.FillRect(s.cfg.Background)
	for i := range s.stars {
		st := &s.stars[i]
		p := s.Project(*st)
		if p.Radius > s.cfg.HaloThreshold {
			c.Halo(p.X, p.Y, p.Radius*2, st.Tint.WithAlpha(p.Opacity*0.3))
		}
		c.FillCircle(p.X, p.Y, p.Radius, st.Tint.WithAlpha(p.Opacity))
	}
}

// Tick runs one frame: update, then draw onto the attached canvas.
func (s *Starfield) Tick() {
	s.Update()
	s.Draw(s.canvas)
}

// Attach binds the field to a canvas and starts a frame loop on sched. An
// existing attachment is torn down first.
func (s *Starfield) Attach(sched *frameloop.Scheduler, c Canvas) {
	s.Teardown()
	s.canvas = c
	s.warnedNoCv = false
	if c != nil {
		if w, h := c.Size(); float64(w) != s.w || float64(h) != s.h {
			s.Resize(w, h)
		}
	}
	s.loop = frameloop.NewLoop(sched, s.Tick)
	s.loop.Start()
}

// Running reports whether the field's frame loop is scheduled.
func (s *Starfield) Running() bool {
	return s.loop != nil && s.loop.Running()
}

// Teardown stops the frame loop and detaches the canvas. Safe to call when
// never attached or already torn down.
func (s *Starfield) Teardown() {
	if s.loop != nil {
		s.loop.Stop()
		s.loop = nil
	}
	if s.canvas != nil {
		s.canvas.Detach()
		s.canvas = nil
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

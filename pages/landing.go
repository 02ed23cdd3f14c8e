package pages

import (
	"context"
	"math"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/devverse"
	"github.com/phanxgames/devverse/config"
	"github.com/phanxgames/devverse/profile"
	"github.com/phanxgames/devverse/starfield"
)

const (
	planetRadius  = 40.0
	planetSpacing = 150.0
	hoverScale    = 1.1
	bobAmplitude  = 6.0
	themeIconSize = 28
)

// FieldConfig maps the configured starfield onto the renderer's settings.
func FieldConfig(c config.StarfieldConfig) starfield.Config {
	cfg := starfield.DefaultConfig()
	if c.Stars > 0 {
		cfg.Count = c.Stars
	}
	if c.Speed > 0 {
		cfg.Speed = c.Speed
	}
	if c.MaxDepth > 0 {
		cfg.MaxDepth = c.MaxDepth
	}
	cfg.Twinkle = c.Twinkle
	if c.Colorful {
		cfg.Tints = starfield.ColorfulTints()
	}
	return cfg
}

// planetButton is one planet link. The nodes in bob move together while the
// name label stays put.
type planetButton struct {
	planet config.Planet
	node   *devverse.Node
	bob    []*devverse.Node
}

// Landing is the portal: a starfield, one button per planet and the theme
// toggle.
type Landing struct {
	m       *devverse.Mount
	logger  *zap.Logger
	field   *starfield.Starfield
	canvas  *devverse.Canvas
	planets []planetButton

	title      *devverse.Node
	tagline    *devverse.Node
	toggle     *devverse.Node
	themeIcon  *devverse.Node
	themeLabel *devverse.Node

	sub     *profile.Subscription
	w, h    int
	elapsed float64
	closed  bool
}

// Mount implements devverse.Page.
func (p *Landing) Mount(_ context.Context, m *devverse.Mount) error {
	p.m = m
	p.logger = named(m, "landing")

	p.canvas = devverse.NewCanvas(m.Background, m.Width, m.Height)
	p.field = starfield.New(FieldConfig(m.Config.Starfield), m.Width, m.Height,
		starfield.WithLogger(named(m, "starfield")))
	p.field.Attach(m.Scheduler, p.canvas)

	name := m.Config.App.Name
	if name == "" {
		name = "DevVerse"
	}
	p.title = label(m.Root, "title", name, m.Fonts.Title, primary(m), 0, 0)
	p.title.TextBlock.Align = devverse.TextAlignCenter
	p.tagline = label(m.Root, "tagline", m.T("AppTagline", nil), m.Fonts.Body, mutedColor, 0, 0)

	for _, pl := range m.Config.Planets {
		p.planets = append(p.planets, p.addPlanet(pl))
	}

	p.toggle = button("theme_toggle", m.T("SwitchTheme", nil), m.Fonts.Body, primary(m), 200, 48, func() {
		if m.Theme != nil {
			m.Theme.Next()
		}
	})
	m.Root.AddChild(p.toggle)
	p.themeIcon = devverse.NewIcon(profile.Icon(p.theme()), palette(m).Primary, themeIconSize)
	m.Root.AddChild(p.themeIcon)
	p.themeLabel = label(m.Root, "theme_label", p.themeText(), m.Fonts.Small, mutedColor, 0, 0)

	if m.Bus != nil {
		p.sub = profile.On(m.Bus, func(profile.ThemeChanged) {
			m.Post(p.applyTheme)
		})
	}

	p.layout(m.Width, m.Height)
	for i, n := range []*devverse.Node{p.title, p.tagline} {
		m.Animator.Add(devverse.FadeIn(n, float32(i)*0.15, 0.6, 20))
	}
	p.logger.Debug("landing mounted", zap.Int("planets", len(p.planets)), zap.Int("stars", len(p.field.Stars())))
	return nil
}

func (p *Landing) addPlanet(pl config.Planet) planetButton {
	m := p.m
	c := hex(pl.Color, textColor)
	r := planetRadius * max(pl.Size, 0.5)

	body := devverse.NewCircle("planet_body", r, c.WithAlpha(0.35))
	body.StrokeColor = c
	body.StrokeWidth = 2
	link := devverse.NewLink("planet:"+pl.ID, pl.Path(), body)
	glow := devverse.NewCircle("planet_glow", r*1.3, c.WithAlpha(0.12))
	glow.ZIndex = -1
	link.AddChild(glow)
	icon := devverse.NewIcon(devverse.IconPlanet, pl.Color, int(r*1.4))
	link.AddChild(icon)

	name := label(link, "planet_label", pl.Name, m.Fonts.Small, textColor, 0, r+12)
	name.TextBlock.Align = devverse.TextAlignCenter
	w, _ := name.TextBlock.Size()
	name.SetPosition(-w/2, r+12)

	d := seconds(m.Config.Animation.HoverScale)
	body.OnPointerEnter = func(devverse.PointerContext) {
		m.Animator.Add(devverse.TweenScale(link, hoverScale, d, ease.OutQuad))
	}
	body.OnPointerLeave = func(devverse.PointerContext) {
		m.Animator.Add(devverse.TweenScale(link, 1, d, ease.OutQuad))
	}
	m.Root.AddChild(link)
	return planetButton{planet: pl, node: link, bob: []*devverse.Node{body, glow, icon}}
}

func (p *Landing) theme() string {
	if p.m.Theme == nil {
		return profile.ThemeSciFi
	}
	return p.m.Theme.Theme()
}

func (p *Landing) themeText() string {
	return p.m.T("ThemeLabel", map[string]any{"Theme": p.theme()})
}

func (p *Landing) applyTheme() {
	if p.closed {
		return
	}
	c := primary(p.m)
	p.title.TextBlock.Color = c
	p.toggle.StrokeColor = c
	p.toggle.Children()[0].TextBlock.Color = c
	p.themeIcon.Image = devverse.IconImage(profile.Icon(p.theme()), palette(p.m).Primary, themeIconSize)
	p.themeLabel.SetText(p.themeText())
	p.layout(p.w, p.h)
}

// layout centers the title block, the planet rows and the toggle.
func (p *Landing) layout(w, h int) {
	p.w, p.h = w, h
	fw, fh := float64(w), float64(h)

	tw, th := p.title.TextBlock.Size()
	p.title.SetPosition((fw-tw)/2, fh*0.18)
	gw, _ := p.tagline.TextBlock.Size()
	p.tagline.SetPosition((fw-gw)/2, fh*0.18+th+12)

	_, colW := column(w)
	perRow := max(1, int(colW/planetSpacing))
	top := fh * 0.5
	for i, pb := range p.planets {
		row, col := i/perRow, i%perRow
		inRow := min(perRow, len(p.planets)-row*perRow)
		x := fw/2 + (float64(col)-float64(inRow-1)/2)*planetSpacing
		y := top + float64(row)*planetSpacing
		pb.node.SetPosition(x, y)
	}
	rows := (len(p.planets) + perRow - 1) / perRow
	bottom := top + float64(max(rows-1, 0))*planetSpacing + planetSpacing*0.9

	p.toggle.SetPosition((fw-p.toggle.Width)/2, bottom)
	p.themeIcon.SetPosition((fw-p.toggle.Width)/2-themeIconSize, bottom+p.toggle.Height/2)
	lw, _ := p.themeLabel.TextBlock.Size()
	p.themeLabel.SetPosition((fw-lw)/2, bottom+p.toggle.Height+10)

	_, lh := p.themeLabel.TextBlock.Size()
	p.m.Root.Height = max(fh, bottom+p.toggle.Height+lh+margin)
}

// Update feeds the pointer into the starfield parallax and bobs the planets.
func (p *Landing) Update(dt float64) {
	p.field.PointerFromScreen(p.m.Scene.Pointer())
	p.elapsed += dt
	for _, pb := range p.planets {
		speed := pb.planet.OrbitSpeed
		if speed <= 0 {
			speed = 0.5
		}
		y := math.Sin(p.elapsed*speed*math.Pi) * bobAmplitude
		for _, n := range pb.bob {
			n.SetPosition(0, y)
		}
	}
}

// Resize implements devverse.Resizer.
func (p *Landing) Resize(w, h int) {
	p.canvas.Resize(w, h)
	p.field.Resize(w, h)
	p.layout(w, h)
}

// Field returns the page's starfield.
func (p *Landing) Field() *starfield.Starfield {
	return p.field
}

// Unmount stops the starfield, which removes its canvas from the scene.
func (p *Landing) Unmount() {
	p.closed = true
	if p.field != nil {
		p.field.Teardown()
	}
	p.sub.Unsubscribe()
}

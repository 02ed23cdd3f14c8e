package pages

import (
	"context"
	"strings"

	"github.com/phanxgames/devverse"
)

// sectionStagger is the delay between consecutive section fade-ins.
const sectionStagger = 0.2

// About shows the bio sections, fading them in one after another.
type About struct {
	sections []Section
	m        *devverse.Mount
	header   *pageHeader
	nodes    []*devverse.Node
}

// Mount implements devverse.Page.
func (p *About) Mount(_ context.Context, m *devverse.Mount) error {
	p.m = m
	p.header = newHeader(m, "AboutTitle", "/", "BackToPortal")
	for _, s := range p.sections {
		sec := devverse.NewContainer("section")
		sec.AddChild(devverse.NewRect("section_bg", 0, 0, panelColor))
		label(sec, "section_title", s.Title, m.Fonts.Heading, primary(m), gap, gap)
		label(sec, "section_body", strings.TrimSpace(s.Body), m.Fonts.Body, textColor, gap, 0)
		m.Root.AddChild(sec)
		p.nodes = append(p.nodes, sec)
	}
	p.layout(m.Width)
	d := seconds(m.Config.Animation.ScrollReveal)
	for i, sec := range p.nodes {
		m.Animator.Add(devverse.FadeIn(sec, float32(i)*sectionStagger, d, 30))
	}
	return nil
}

func (p *About) layout(w int) {
	m := p.m
	y := p.header.place(w)
	left, width := column(w)
	for _, sec := range p.nodes {
		bg := sec.Find("section_bg")
		title := sec.Find("section_title")
		body := sec.Find("section_body")

		_, th := title.TextBlock.Size()
		body.TextBlock.SetWrapWidth(width - 2*gap)
		body.SetPosition(gap, gap+th+12)
		_, bh := body.TextBlock.Size()

		bg.Width, bg.Height = width, gap+th+12+bh+gap
		sec.SetPosition(left, y)
		y += bg.Height + gap
	}
	m.Root.Height = y + margin
}

// Resize implements devverse.Resizer.
func (p *About) Resize(w, _ int) {
	p.layout(w)
}

// Unmount implements devverse.Page.
func (p *About) Unmount() {}

package pages

import (
	"context"
	"strings"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/devverse"
)

const (
	cardHeight     = 180.0
	cardHoverScale = 1.05
	twoColumnMin   = 600.0
)

// Projects lays the project cards out in a grid. Cards with a link open it;
// hovering a card lifts it.
type Projects struct {
	projects []Project
	m        *devverse.Mount
	header   *pageHeader
	cards    []*devverse.Node
}

// Mount implements devverse.Page.
func (p *Projects) Mount(_ context.Context, m *devverse.Mount) error {
	p.m = m
	p.header = newHeader(m, "ProjectsTitle", "/", "BackToPortal")
	for _, pr := range p.projects {
		p.cards = append(p.cards, p.addCard(pr))
	}
	p.layout(m.Width)
	d := seconds(m.Config.Animation.ScrollReveal)
	for i, c := range p.cards {
		m.Animator.Add(devverse.FadeIn(c, float32(i)*0.1, d, 20))
	}
	return nil
}

func (p *Projects) addCard(pr Project) *devverse.Node {
	m := p.m
	accent := primary(m)

	bg := devverse.NewRect("card_bg", 0, cardHeight, panelColor)
	bg.StrokeColor = accent.WithAlpha(0.4)
	bg.StrokeWidth = 1
	var card *devverse.Node
	if pr.Link != "" {
		card = devverse.NewLink("card", pr.Link, bg)
	} else {
		card = devverse.NewContainer("card")
		bg.Interactable = true
		card.AddChild(bg)
	}
	label(card, "card_title", pr.Name, m.Fonts.Heading, accent, gap, gap)
	label(card, "card_desc", pr.Description, m.Fonts.Body, textColor, gap, gap+40)
	label(card, "card_tags", strings.Join(pr.Tags, " · "), m.Fonts.Small, mutedColor, gap, cardHeight-gap-16)

	d := seconds(m.Config.Animation.HoverScale)
	bg.OnPointerEnter = func(devverse.PointerContext) {
		card.SetZIndex(1)
		bg.StrokeColor = accent
		m.Animator.Add(devverse.TweenScale(card, cardHoverScale, d, ease.OutQuad))
	}
	bg.OnPointerLeave = func(devverse.PointerContext) {
		card.SetZIndex(0)
		bg.StrokeColor = accent.WithAlpha(0.4)
		m.Animator.Add(devverse.TweenScale(card, 1, d, ease.OutQuad))
	}
	m.Root.AddChild(card)
	return card
}

func (p *Projects) layout(w int) {
	y := p.header.place(w)
	left, width := column(w)
	cols := 1
	if width >= twoColumnMin {
		cols = 2
	}
	cardW := (width - float64(cols-1)*gap) / float64(cols)
	for i, c := range p.cards {
		row, col := i/cols, i%cols
		c.Find("card_bg").Width = cardW
		c.Find("card_desc").TextBlock.SetWrapWidth(cardW - 2*gap)
		c.SetPivot(cardW/2, cardHeight/2)
		c.SetPosition(left+float64(col)*(cardW+gap)+cardW/2, y+float64(row)*(cardHeight+gap)+cardHeight/2)
	}
	rows := (len(p.cards) + cols - 1) / cols
	p.m.Root.Height = y + float64(rows)*(cardHeight+gap) + margin
}

// Resize implements devverse.Resizer.
func (p *Projects) Resize(w, _ int) {
	p.layout(w)
}

// Unmount implements devverse.Page.
func (p *Projects) Unmount() {}

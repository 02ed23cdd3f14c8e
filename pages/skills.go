package pages

import (
	"context"
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/devverse"
)

const (
	barHeight   = 12.0
	barRow      = 48.0
	barDuration = 1.5
	barDelay    = 0.1
)

type skillBar struct {
	skill Skill
	row   *devverse.Node
	track *devverse.Node
	fill  *devverse.Node
	tween *devverse.TweenGroup
}

// Skills shows each skill as a bar that grows to its level.
type Skills struct {
	groups []SkillGroup
	m      *devverse.Mount
	header *pageHeader
	titles []*devverse.Node
	bars   [][]*skillBar
}

// Mount implements devverse.Page.
func (p *Skills) Mount(_ context.Context, m *devverse.Mount) error {
	p.m = m
	p.header = newHeader(m, "SkillsTitle", "/", "BackToPortal")
	accent := primary(m)
	for _, g := range p.groups {
		p.titles = append(p.titles, label(m.Root, "group_title", g.Name, m.Fonts.Heading, accent, 0, 0))
		var bars []*skillBar
		for _, s := range g.Skills {
			row := devverse.NewContainer("skill:" + s.Name)
			label(row, "skill_name", s.Name, m.Fonts.Body, textColor, 0, 0)
			label(row, "skill_level", fmt.Sprintf("%d%%", s.Level), m.Fonts.Small, mutedColor, 0, 0)
			track := devverse.NewRect("skill_track", 0, barHeight, panelColor)
			track.SetPosition(0, barRow-barHeight-8)
			row.AddChild(track)
			fill := devverse.NewRect("skill_fill", 0, barHeight, accent)
			fill.SetPosition(0, barRow-barHeight-8)
			row.AddChild(fill)
			m.Root.AddChild(row)
			bars = append(bars, &skillBar{skill: s, row: row, track: track, fill: fill})
		}
		p.bars = append(p.bars, bars)
	}
	p.layout(m.Width)
	for _, group := range p.bars {
		for _, b := range group {
			b.tween = m.Animator.Add(devverse.TweenWidth(b.fill, b.target(), barDuration, ease.InOutQuad).Delay(barDelay))
		}
	}
	return nil
}

// target is the fill width for the bar's level.
func (b *skillBar) target() float64 {
	return b.track.Width * float64(b.skill.Level) / 100
}

func (p *Skills) layout(w int) {
	y := p.header.place(w)
	left, width := column(w)
	for i, g := range p.bars {
		p.titles[i].SetPosition(left, y)
		_, th := p.titles[i].TextBlock.Size()
		y += th + 12
		for _, b := range g {
			b.row.SetPosition(left, y)
			b.track.Width = width
			lvl := b.row.Find("skill_level")
			lw, _ := lvl.TextBlock.Size()
			lvl.SetPosition(width-lw, 0)
			if b.tween != nil && b.tween.Done {
				b.fill.Width = b.target()
			}
			y += barRow
		}
		y += gap
	}
	p.m.Root.Height = y + margin
}

// Resize implements devverse.Resizer. Bars that finished growing snap to
// the new track width.
func (p *Skills) Resize(w, _ int) {
	p.layout(w)
}

// Unmount implements devverse.Page.
func (p *Skills) Unmount() {}

package pages

import (
	"context"

	"github.com/phanxgames/devverse"
)

// NotFound is shown for any path no route matches.
type NotFound struct {
	m       *devverse.Mount
	code    *devverse.Node
	message *devverse.Node
	home    *devverse.Node
}

// Mount implements devverse.Page.
func (p *NotFound) Mount(_ context.Context, m *devverse.Mount) error {
	p.m = m
	p.code = label(m.Root, "code", m.T("NotFoundCode", nil), m.Fonts.Title, primary(m), 0, 0)
	p.message = label(m.Root, "message", m.T("NotFoundMessage", nil), m.Fonts.Body, mutedColor, 0, 0)
	p.message.TextBlock.Align = devverse.TextAlignCenter
	p.home = devverse.NewLink("home", "/",
		button("home_button", "← "+m.T("ReturnToPortal", nil), m.Fonts.Body, primary(m), 240, 48, nil))
	m.Root.AddChild(p.home)
	p.layout(m.Width, m.Height)
	m.Animator.Add(devverse.FadeIn(p.code, 0, seconds(m.Config.Animation.ScrollReveal), 20))
	return nil
}

func (p *NotFound) layout(w, h int) {
	fw, fh := float64(w), float64(h)
	_, width := column(w)
	p.message.TextBlock.SetWrapWidth(width)

	cw, ch := p.code.TextBlock.Size()
	mw, mh := p.message.TextBlock.Size()
	top := max(margin, fh*0.3)
	p.code.SetPosition((fw-cw)/2, top)
	p.message.SetPosition((fw-mw)/2, top+ch+16)
	btn := p.home.Children()[0]
	p.home.SetPosition((fw-btn.Width)/2, top+ch+16+mh+gap)
	p.m.Root.Height = max(fh, top+ch+16+mh+gap+btn.Height+margin)
}

// Resize implements devverse.Resizer.
func (p *NotFound) Resize(w, h int) {
	p.layout(w, h)
}

// Unmount implements devverse.Page.
func (p *NotFound) Unmount() {}

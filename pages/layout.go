package pages

import (
	"time"

	"go.uber.org/zap"

	"github.com/phanxgames/devverse"
	"github.com/phanxgames/devverse/profile"
)

const (
	margin    = 48.0
	maxColumn = 880.0
	minColumn = 240.0
	gap       = 24.0
)

var (
	textColor  = devverse.MustHex("#E8EEF7")
	mutedColor = devverse.MustHex("#B8C5D6")
	panelColor = devverse.MustHex("#141A3A").WithAlpha(0.85)
	errorColor = devverse.MustHex("#FF5C7A")
)

// column returns the left edge and width of the centered content column for
// a window w pixels wide.
func column(w int) (left, width float64) {
	width = max(minColumn, min(maxColumn, float64(w)-2*margin))
	return max(0, (float64(w)-width)/2), width
}

// palette is the active theme's palette, or the sci-fi one without a
// switcher.
func palette(m *devverse.Mount) profile.Palette {
	if m.Theme == nil {
		return profile.Colors(profile.ThemeSciFi)
	}
	return profile.Colors(m.Theme.Theme())
}

func hex(s string, def devverse.Color) devverse.Color {
	c, err := devverse.ParseHex(s)
	if err != nil {
		return def
	}
	return c
}

func primary(m *devverse.Mount) devverse.Color {
	return hex(palette(m).Primary, textColor)
}

// label adds a text node at (x, y) under parent.
func label(parent *devverse.Node, name, content string, font devverse.Font, c devverse.Color, x, y float64) *devverse.Node {
	n := devverse.NewText(name, content, font)
	n.TextBlock.Color = c
	n.SetPosition(x, y)
	parent.AddChild(n)
	return n
}

// pageHeader is the back link and title every planet page starts with.
type pageHeader struct {
	back  *devverse.Node
	title *devverse.Node
}

func newHeader(m *devverse.Mount, titleID, backHref, backID string) *pageHeader {
	back := devverse.NewLink("back", backHref,
		devverse.NewText("back_label", "← "+m.T(backID, nil), m.Fonts.Small))
	back.Children()[0].TextBlock.Color = primary(m)
	m.Root.AddChild(back)
	title := label(m.Root, "title", m.T(titleID, nil), m.Fonts.Title, textColor, 0, 0)
	return &pageHeader{back: back, title: title}
}

// place positions the header for a window w pixels wide and returns the y
// below it.
func (h *pageHeader) place(w int) float64 {
	left, _ := column(w)
	h.back.SetPosition(left, margin)
	h.title.SetPosition(left, margin+32)
	_, th := h.title.TextBlock.Size()
	return margin + 32 + th + gap
}

// button is a stroked rectangle with a centered caption. The caption node is
// named name+"_label".
func button(name, caption string, font devverse.Font, c devverse.Color, w, h float64, onClick func()) *devverse.Node {
	b := devverse.NewRect(name, w, h, panelColor)
	b.StrokeColor = c
	b.StrokeWidth = 2
	b.Interactable = true
	b.OnClick = func(ctx devverse.ClickContext) {
		if ctx.Button == devverse.MouseButtonLeft && onClick != nil {
			onClick()
		}
	}
	l := devverse.NewText(name+"_label", caption, font)
	l.TextBlock.Color = c
	b.AddChild(l)
	centerLabel(b)
	return b
}

// centerLabel re-centers a button's caption after its text changes.
func centerLabel(b *devverse.Node) {
	kids := b.Children()
	if len(kids) == 0 || kids[0].TextBlock == nil {
		return
	}
	l := kids[0]
	w, h := l.TextBlock.Size()
	l.SetPosition((b.Width-w)/2, (b.Height-h)/2)
}

func seconds(d time.Duration) float32 {
	return float32(d.Seconds())
}

// named returns the mount's logger under name, or a no-op logger.
func named(m *devverse.Mount, name string) *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger.Named(name)
}

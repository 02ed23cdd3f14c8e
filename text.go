package devverse

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Font is the interface for text measurement and layout.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}

// TextBlock holds text content, formatting, and cached layout state.
type TextBlock struct {
	Content    string
	Font       Font
	Align      TextAlign
	WrapWidth  float64 // 0 disables wrapping
	Color      Color
	LineHeight float64 // override; 0 = use Font.LineHeight()

	layoutDirty bool
	measuredW   float64
	measuredH   float64
	lines       []textLine
}

// textLine stores one wrapped line and its measured width.
type textLine struct {
	text  string
	width float64
}

// lineHeight returns the effective line height for this text block.
func (tb *TextBlock) lineHeight() float64 {
	if tb.LineHeight > 0 {
		return tb.LineHeight
	}
	if tb.Font != nil {
		return tb.Font.LineHeight()
	}
	return 0
}

// SetWrapWidth changes the wrap width, re-laying out the text when it
// differs.
func (tb *TextBlock) SetWrapWidth(w float64) {
	if tb.WrapWidth == w {
		return
	}
	tb.WrapWidth = w
	tb.layoutDirty = true
}

// Size returns the laid-out width and height.
func (tb *TextBlock) Size() (w, h float64) {
	tb.layout()
	return tb.measuredW, tb.measuredH
}

// Lines returns the wrapped lines.
func (tb *TextBlock) Lines() []string {
	tb.layout()
	out := make([]string, len(tb.lines))
	for i, l := range tb.lines {
		out[i] = l.text
	}
	return out
}

// layout recomputes line breaks if dirty. Returns the cached lines.
func (tb *TextBlock) layout() []textLine {
	if !tb.layoutDirty {
		return tb.lines
	}
	tb.layoutDirty = false
	tb.lines = tb.lines[:0]
	tb.measuredW, tb.measuredH = 0, 0
	if tb.Font == nil {
		return tb.lines
	}

	for _, para := range strings.Split(tb.Content, "\n") {
		tb.wrapParagraph(para)
	}
	for _, l := range tb.lines {
		tb.measuredW = max(tb.measuredW, l.width)
	}
	tb.measuredH = float64(len(tb.lines)) * tb.lineHeight()
	return tb.lines
}

// wrapParagraph breaks para at spaces so no line exceeds WrapWidth. A single
// word wider than WrapWidth gets a line of its own.
func (tb *TextBlock) wrapParagraph(para string) {
	words := strings.Fields(para)
	if len(words) == 0 {
		tb.lines = append(tb.lines, textLine{})
		return
	}
	if tb.WrapWidth <= 0 {
		line := strings.Join(words, " ")
		w, _ := tb.Font.MeasureString(line)
		tb.lines = append(tb.lines, textLine{text: line, width: w})
		return
	}
	cur := words[0]
	curW, _ := tb.Font.MeasureString(cur)
	for _, word := range words[1:] {
		candidate := cur + " " + word
		w, _ := tb.Font.MeasureString(candidate)
		if w <= tb.WrapWidth {
			cur, curW = candidate, w
			continue
		}
		tb.lines = append(tb.lines, textLine{text: cur, width: curW})
		cur = word
		curW, _ = tb.Font.MeasureString(word)
	}
	tb.lines = append(tb.lines, textLine{text: cur, width: curW})
}

// lineOffset returns the x offset of a line for the block's alignment.
func (tb *TextBlock) lineOffset(l textLine) float64 {
	switch tb.Align {
	case TextAlignCenter:
		return (tb.measuredW - l.width) / 2
	case TextAlignRight:
		return tb.measuredW - l.width
	}
	return 0
}

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face *text.GoTextFace
	size float64
	lh   float64
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("devverse: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &TTFFont{face: face, size: size, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Size returns the font size in pixels.
func (f *TTFFont) Size() float64 {
	return f.size
}

// Face returns the underlying GoTextFace for direct Ebitengine text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// FontSet is the set of faces the UI uses.
type FontSet struct {
	Title   Font
	Heading Font
	Body    Font
	Small   Font
}

var (
	fontsOnce sync.Once
	fonts     FontSet
	fontsErr  error
)

// DefaultFonts returns the Go font family at the sizes the pages use. The
// faces are parsed once.
func DefaultFonts() (FontSet, error) {
	fontsOnce.Do(func() {
		load := func(data []byte, size float64) Font {
			if fontsErr != nil {
				return nil
			}
			f, err := LoadTTFFont(data, size)
			if err != nil {
				fontsErr = err
				return nil
			}
			return f
		}
		fonts = FontSet{
			Title:   load(gobold.TTF, 48),
			Heading: load(gobold.TTF, 28),
			Body:    load(goregular.TTF, 18),
			Small:   load(goregular.TTF, 14),
		}
	})
	return fonts, fontsErr
}

// drawText draws a laid-out block with its node's world transform and alpha.
// Fonts other than *TTFFont measure but do not render.
func drawText(dst *ebiten.Image, n *Node) {
	tb := n.TextBlock
	lines := tb.layout()
	f, ok := tb.Font.(*TTFFont)
	if !ok || len(lines) == 0 {
		return
	}
	c := tb.Color
	c.A *= n.worldAlpha
	lh := tb.lineHeight()
	for i, l := range lines {
		if l.text == "" {
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(tb.lineOffset(l), float64(i)*lh)
		op.GeoM.Concat(geoM(n.worldTransform))
		op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
		op.LineSpacing = lh
		text.Draw(dst, l.text, f.face, op)
	}
}

// geoM converts an affine matrix to an ebiten.GeoM.
func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

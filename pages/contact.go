package pages

import (
	"context"
	"errors"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/devverse"
	"github.com/phanxgames/devverse/contact"
	"github.com/phanxgames/devverse/profile"
)

const (
	fieldHeight   = 44.0
	messageHeight = 140.0
	fieldPad      = 12.0
	sendWidth     = 220.0
	sendHeight    = 48.0
	cursorBlink   = 0.5 // seconds per phase
)

var errNoSubmitter = errors.New("no contact submitter configured")

// textField is one editable input of the contact form.
type textField struct {
	key       string
	multiline bool
	value     []rune

	caption *devverse.Node
	box     *devverse.Node
	text    *devverse.Node
	err     *devverse.Node
}

func (f *textField) String() string {
	return string(f.value)
}

// Contact is the contact form. A focused field captures the keyboard, so
// typing never triggers the app's shortcuts.
type Contact struct {
	m      *devverse.Mount
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	header      *pageHeader
	fields      []*textField
	send        *devverse.Node
	statusTitle *devverse.Node
	statusBody  *devverse.Node

	focus    int // index into fields, -1 for none
	blink    float64
	cursorOn bool
	sending  bool
	closed   bool
	w        int
}

// Mount implements devverse.Page.
func (p *Contact) Mount(ctx context.Context, m *devverse.Mount) error {
	p.m = m
	p.logger = named(m, "contact")
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.focus = -1

	p.header = newHeader(m, "ContactTitle", "/", "BackToPortal")
	for _, f := range []struct {
		key, caption string
		multiline    bool
	}{
		{contact.FieldName, "ContactName", false},
		{contact.FieldEmail, "ContactEmail", false},
		{contact.FieldMessage, "ContactMessage", true},
	} {
		p.fields = append(p.fields, p.addField(len(p.fields), f.key, f.caption, f.multiline))
	}
	p.send = button("send", m.T("ContactSend", nil), m.Fonts.Body, primary(m), sendWidth, sendHeight, p.submit)
	m.Root.AddChild(p.send)
	p.statusTitle = label(m.Root, "status_title", "", m.Fonts.Heading, primary(m), 0, 0)
	p.statusBody = label(m.Root, "status_body", "", m.Fonts.Body, textColor, 0, 0)
	p.layout(m.Width)
	return nil
}

func (p *Contact) addField(i int, key, captionID string, multiline bool) *textField {
	m := p.m
	f := &textField{key: key, multiline: multiline}
	f.caption = label(m.Root, "caption:"+key, m.T(captionID, nil), m.Fonts.Small, mutedColor, 0, 0)

	h := fieldHeight
	if multiline {
		h = messageHeight
	}
	f.box = devverse.NewRect("field:"+key, 0, h, panelColor)
	f.box.StrokeColor = mutedColor.WithAlpha(0.5)
	f.box.StrokeWidth = 1
	f.box.Interactable = true
	f.box.OnClick = func(ctx devverse.ClickContext) {
		if ctx.Button == devverse.MouseButtonLeft {
			p.setFocus(i)
		}
	}
	f.text = label(f.box, "field_text", "", m.Fonts.Body, textColor, fieldPad, fieldPad)
	m.Root.AddChild(f.box)
	f.err = label(m.Root, "error:"+key, "", m.Fonts.Small, errorColor, 0, 0)
	return f
}

func (p *Contact) layout(w int) {
	p.w = w
	y := p.header.place(w)
	left, width := column(w)
	for _, f := range p.fields {
		f.caption.SetPosition(left, y)
		y += 24
		f.box.Width = width
		f.box.SetPosition(left, y)
		if f.multiline {
			f.text.TextBlock.SetWrapWidth(width - 2*fieldPad)
		}
		y += f.box.Height + 4
		f.err.SetPosition(left, y)
		y += 28
	}
	p.send.SetPosition(left, y)
	y += sendHeight + gap
	p.statusTitle.SetPosition(left, y)
	_, th := p.statusTitle.TextBlock.Size()
	if th > 0 {
		y += th + 8
	}
	p.statusBody.TextBlock.SetWrapWidth(width)
	p.statusBody.SetPosition(left, y)
	_, bh := p.statusBody.TextBlock.Size()
	p.m.Root.Height = y + bh + margin
}

func (p *Contact) setFocus(i int) {
	if i >= len(p.fields) {
		i = -1
	}
	p.focus = i
	p.blink, p.cursorOn = 0, true
	accent := primary(p.m)
	for j, f := range p.fields {
		if j == i {
			f.box.StrokeColor = accent
			f.box.StrokeWidth = 2
		} else {
			f.box.StrokeColor = mutedColor.WithAlpha(0.5)
			f.box.StrokeWidth = 1
		}
		p.render(f, j == i)
	}
}

func (p *Contact) focused() *textField {
	if p.focus < 0 || p.focus >= len(p.fields) {
		return nil
	}
	return p.fields[p.focus]
}

// render refreshes a field's text, drawing the cursor when it has focus.
func (p *Contact) render(f *textField, focused bool) {
	s := f.String()
	if focused && p.cursorOn {
		s += "|"
	}
	f.text.SetText(s)
}

// CapturesKeys implements devverse.KeyCapturer.
func (p *Contact) CapturesKeys() bool {
	return p.focus >= 0
}

// HandleKey implements devverse.KeyHandler. Printable characters arrive
// through the scene in Update.
func (p *Contact) HandleKey(key ebiten.Key, mods devverse.KeyModifiers) {
	if key == ebiten.KeyEnter && mods&(devverse.ModCtrl|devverse.ModMeta) != 0 {
		p.submit()
		return
	}
	if key == ebiten.KeyTab {
		next := p.focus + 1
		if mods&devverse.ModShift != 0 {
			next = p.focus - 1
			if next < 0 {
				next = len(p.fields) - 1
			}
		}
		p.setFocus(next % len(p.fields))
		return
	}
	f := p.focused()
	if f == nil {
		return
	}
	switch key {
	case ebiten.KeyBackspace:
		if n := len(f.value); n > 0 {
			f.value = f.value[:n-1]
		}
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		if f.multiline {
			f.value = append(f.value, '\n')
		} else {
			p.setFocus(p.focus + 1)
			return
		}
	case ebiten.KeyEscape:
		p.setFocus(-1)
		return
	}
	p.render(f, true)
}

// Update appends typed characters to the focused field and blinks the
// cursor.
func (p *Contact) Update(dt float64) {
	f := p.focused()
	if f == nil {
		return
	}
	if chars := p.m.Scene.Chars(); len(chars) > 0 {
		f.value = append(f.value, chars...)
		p.blink, p.cursorOn = 0, true
		p.render(f, true)
		return
	}
	p.blink += dt
	if p.blink >= cursorBlink {
		p.blink -= cursorBlink
		p.cursorOn = !p.cursorOn
		p.render(f, true)
	}
}

// Form returns the current field values.
func (p *Contact) Form() contact.Form {
	return contact.Form{
		Name:    p.fields[0].String(),
		Email:   p.fields[1].String(),
		Message: p.fields[2].String(),
	}
}

// SetForm replaces the field values.
func (p *Contact) SetForm(f contact.Form) {
	p.fields[0].value = []rune(f.Name)
	p.fields[1].value = []rune(f.Email)
	p.fields[2].value = []rune(f.Message)
	for i, fl := range p.fields {
		p.render(fl, i == p.focus)
	}
}

// Sending reports whether a submission is in flight.
func (p *Contact) Sending() bool {
	return p.sending
}

func (p *Contact) showErrors(errs contact.FieldErrors) {
	for _, f := range p.fields {
		f.err.SetText(errs[f.key])
	}
}

func (p *Contact) setStatus(title, body string, titleColor, bodyColor devverse.Color) {
	p.statusTitle.SetText(title)
	p.statusTitle.TextBlock.Color = titleColor
	p.statusBody.SetText(body)
	p.statusBody.TextBlock.Color = bodyColor
	p.layout(p.w)
}

// submit validates the form and sends it on a goroutine. The result comes
// back through Mount.Post.
func (p *Contact) submit() {
	if p.sending || p.closed {
		return
	}
	form := p.Form()
	errs := form.Validate()
	p.showErrors(errs)
	if errs != nil {
		p.logger.Debug("contact form invalid", zap.Int("errors", len(errs)))
		return
	}
	p.setStatus("", "", textColor, textColor)
	sub := p.m.Submitter
	if sub == nil {
		p.finish(contact.Result{}, errNoSubmitter)
		return
	}
	p.sending = true
	p.setCaption("ContactSending")
	ctx := p.ctx
	go func() {
		res, err := sub.Submit(ctx, form.Trimmed())
		p.m.Post(func() { p.finish(res, err) })
	}()
}

func (p *Contact) setCaption(id string) {
	p.send.Children()[0].SetText(p.m.T(id, nil))
	centerLabel(p.send)
}

func (p *Contact) finish(res contact.Result, err error) {
	if p.closed {
		return
	}
	p.sending = false
	p.setCaption("ContactSend")
	if err != nil {
		var fe contact.FieldErrors
		if errors.As(err, &fe) {
			p.showErrors(fe)
		}
		p.logger.Warn("contact submission failed", zap.Error(err))
		p.setStatus("", p.m.T("ContactFailure", nil), errorColor, errorColor)
		return
	}
	p.logger.Info("contact message sent", zap.String("id", res.ID), zap.Int("status", res.Status))
	p.setStatus(p.m.T("ContactSuccessTitle", nil), p.m.T("ContactSuccess", nil), primary(p.m), textColor)
	p.SetForm(contact.Form{})
	p.setFocus(-1)
	if p.m.Tracker != nil {
		p.m.Tracker.Unlock(profile.Commented)
	}
}

// Status returns the banner text shown after a submission.
func (p *Contact) Status() string {
	return strings.TrimSpace(p.statusTitle.TextBlock.Content + " " + p.statusBody.TextBlock.Content)
}

// Unmount cancels an in-flight submission; its result is dropped.
func (p *Contact) Unmount() {
	p.closed = true
	if p.cancel != nil {
		p.cancel()
	}
}

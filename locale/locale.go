// Package locale localizes UI strings from embedded TOML message files.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var messages embed.FS

// Default is the fallback language.
var Default = language.English

// Localizer resolves message ids for a preferred language list.
type Localizer struct {
	bundle *i18n.Bundle
	loc    *i18n.Localizer
	tag    language.Tag
	logger *zap.Logger
	warned map[string]bool
}

// New builds a localizer over the embedded messages. langs are BCP 47 tags
// or Accept-Language strings in preference order; English is the fallback.
func New(logger *zap.Logger, langs ...string) (*Localizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bundle := i18n.NewBundle(Default)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	files, err := fs.Glob(messages, "messages/*.toml")
	if err != nil {
		return nil, fmt.Errorf("list message files: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(messages, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", path.Base(f), err)
		}
	}
	l := &Localizer{
		bundle: bundle,
		loc:    i18n.NewLocalizer(bundle, langs...),
		logger: logger,
		warned: make(map[string]bool),
	}
	l.tag = l.match(langs)
	return l, nil
}

func (l *Localizer) match(langs []string) language.Tag {
	supported := l.bundle.LanguageTags()
	matcher := language.NewMatcher(supported)
	for _, s := range langs {
		tags, _, err := language.ParseAcceptLanguage(s)
		if err != nil || len(tags) == 0 {
			continue
		}
		if _, idx, conf := matcher.Match(tags...); conf != language.No {
			return supported[idx]
		}
	}
	return Default
}

// Language returns the best supported match for the requested languages.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Languages returns the supported language tags, sorted.
func (l *Localizer) Languages() []string {
	tags := l.bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	sort.Strings(out)
	return out
}

// T returns the localized message for id, executing it as a template with
// data. A missing message returns id and is logged once.
func (l *Localizer) T(id string, data map[string]any) string {
	s, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		if !l.warned[id] {
			l.warned[id] = true
			l.logger.Warn("missing message", zap.String("id", id), zap.Error(err))
		}
		if s != "" {
			return s
		}
		return id
	}
	return s
}

// N returns the plural form of id for count. The template sees .Count.
func (l *Localizer) N(id string, count int) string {
	s, err := l.loc.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%d %s", count, id))
	}
	return s
}

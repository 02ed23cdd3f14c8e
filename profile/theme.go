package profile

import (
	"slices"

	"go.uber.org/zap"

	"github.com/phanxgames/devverse/storage"
)

// Built-in themes.
const (
	ThemeSciFi     = "sci-fi"
	ThemeFantasy   = "fantasy"
	ThemeCyberpunk = "cyberpunk"
)

// DefaultThemes lists the built-in themes in cycle order.
var DefaultThemes = []string{ThemeSciFi, ThemeFantasy, ThemeCyberpunk}

// Palette is a theme's color triple as CSS hex strings.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

var palettes = map[string]Palette{
	ThemeSciFi:     {Primary: "#00D9FF", Secondary: "#FF00E5", Accent: "#7B2FFF"},
	ThemeFantasy:   {Primary: "#FFD700", Secondary: "#9B30FF", Accent: "#FF1493"},
	ThemeCyberpunk: {Primary: "#00FF00", Secondary: "#FF00FF", Accent: "#FFFF00"},
}

var icons = map[string]string{
	ThemeSciFi:     "rocket",
	ThemeFantasy:   "orb",
	ThemeCyberpunk: "bolt",
}

// ThemeSwitcher tracks the active theme and persists it.
type ThemeSwitcher struct {
	themes  []string
	def     string
	current string
	key     string
	prefs   *storage.Prefs
	bus     *Bus
	logger  *zap.Logger
}

// ThemeOptions configures a ThemeSwitcher. Zero fields take defaults.
type ThemeOptions struct {
	Themes     []string
	Default    string
	StorageKey string
	Logger     *zap.Logger
}

// NewThemeSwitcher loads the saved theme from prefs (falling back to the
// default) and applies it. prefs and bus may be nil.
func NewThemeSwitcher(prefs *storage.Prefs, bus *Bus, opts ThemeOptions) *ThemeSwitcher {
	if len(opts.Themes) == 0 {
		opts.Themes = DefaultThemes
	}
	if opts.Default == "" || !slices.Contains(opts.Themes, opts.Default) {
		opts.Default = opts.Themes[0]
	}
	if opts.StorageKey == "" {
		opts.StorageKey = "devverse_theme"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ts := &ThemeSwitcher{
		themes: slices.Clone(opts.Themes),
		def:    opts.Default,
		key:    opts.StorageKey,
		prefs:  prefs,
		bus:    bus,
		logger: opts.Logger,
	}
	saved := opts.Default
	if prefs != nil {
		saved = prefs.String(ts.key, opts.Default)
	}
	ts.Apply(saved)
	return ts
}

// Themes returns the theme names in cycle order.
func (ts *ThemeSwitcher) Themes() []string {
	return slices.Clone(ts.themes)
}

// Theme returns the active theme.
func (ts *ThemeSwitcher) Theme() string {
	return ts.current
}

// Apply activates theme, persists it and publishes ThemeChanged. Unknown
// themes fall back to the default. It returns the theme actually applied.
func (ts *ThemeSwitcher) Apply(theme string) string {
	if !slices.Contains(ts.themes, theme) {
		ts.logger.Warn("theme not found, using default",
			zap.String("theme", theme), zap.String("default", ts.def))
		theme = ts.def
	}
	ts.current = theme
	if ts.prefs != nil {
		ts.prefs.Put(ts.key, theme)
	}
	if ts.bus != nil {
		ts.bus.Publish(ThemeChanged{Theme: theme})
	}
	return theme
}

// Next applies the theme after the active one, wrapping around.
func (ts *ThemeSwitcher) Next() string {
	i := slices.Index(ts.themes, ts.current)
	return ts.Apply(ts.themes[(i+1)%len(ts.themes)])
}

// Colors returns the palette for theme, or the sci-fi palette when unknown.
func Colors(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[ThemeSciFi]
}

// Icon returns the icon name for theme, or "palette" when unknown.
func Icon(theme string) string {
	if name, ok := icons[theme]; ok {
		return name
	}
	return "palette"
}

// Package config loads DevVerse settings from built-in defaults, an optional
// YAML file and DEVVERSE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DEVVERSE_"

// Config holds all DevVerse configuration.
type Config struct {
	App         AppConfig         `yaml:"app" envPrefix:"APP_"`
	Planets     []Planet          `yaml:"planets"`
	Starfield   StarfieldConfig   `yaml:"starfield" envPrefix:"STARFIELD_"`
	Animation   AnimationConfig   `yaml:"animation" envPrefix:"ANIMATION_"`
	StorageKeys StorageKeysConfig `yaml:"storage_keys"`
	Window      WindowConfig      `yaml:"window" envPrefix:"WINDOW_"`
	Storage     StorageConfig     `yaml:"storage" envPrefix:"STORAGE_"`
	Contact     ContactConfig     `yaml:"contact" envPrefix:"CONTACT_"`
	Blog        BlogConfig        `yaml:"blog" envPrefix:"BLOG_"`
	Log         LogConfig         `yaml:"log" envPrefix:"LOG_"`
}

// AppConfig is product metadata and theming.
type AppConfig struct {
	Name         string   `yaml:"name" env:"NAME"`
	Version      string   `yaml:"version"`
	Author       string   `yaml:"author" env:"AUTHOR"`
	DefaultTheme string   `yaml:"default_theme" env:"DEFAULT_THEME"`
	Themes       []string `yaml:"themes"`
	Language     string   `yaml:"language" env:"LANGUAGE"`
}

// Vec3 is a planet's scene position.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Planet is one navigable destination on the landing page.
type Planet struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Color         string  `yaml:"color"`
	Size          float64 `yaml:"size"`
	OrbitSpeed    float64 `yaml:"orbit_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	Position      Vec3    `yaml:"position"`
}

// Path is the planet's route.
func (p Planet) Path() string {
	return "/" + p.ID
}

// StarfieldConfig sizes the background field.
type StarfieldConfig struct {
	Stars    int     `yaml:"stars" env:"STARS"`
	Speed    float64 `yaml:"speed" env:"SPEED"`
	MaxDepth float64 `yaml:"max_depth" env:"MAX_DEPTH"`
	FOV      float64 `yaml:"fov"`
	Colorful bool    `yaml:"colorful" env:"COLORFUL"`
	Twinkle  bool    `yaml:"twinkle" env:"TWINKLE"`
}

// AnimationConfig holds UI durations.
type AnimationConfig struct {
	PageTransition time.Duration `yaml:"page_transition" env:"PAGE_TRANSITION"`
	ModalFade      time.Duration `yaml:"modal_fade"`
	HoverScale     time.Duration `yaml:"hover_scale"`
	ScrollReveal   time.Duration `yaml:"scroll_reveal"`
	LoadingHide    time.Duration `yaml:"loading_hide"`
	Toast          time.Duration `yaml:"toast"`
}

// StorageKeysConfig names the persisted preference keys.
type StorageKeysConfig struct {
	Theme        string `yaml:"theme"`
	Achievements string `yaml:"achievements"`
	Visited      string `yaml:"visited"`
	PostsRead    string `yaml:"posts_read"`
	BlogComments string `yaml:"blog_comments"`
	UserPrefs    string `yaml:"user_prefs"`
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Title  string `yaml:"title" env:"TITLE"`
	Width  int    `yaml:"width" env:"WIDTH"`
	Height int    `yaml:"height" env:"HEIGHT"`
}

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// StorageConfig selects the preferences backend.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`
	Path   string `yaml:"path" env:"PATH"`
}

// ContactConfig points the contact form at a form relay.
type ContactConfig struct {
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// BlogConfig locates the markdown posts.
type BlogConfig struct {
	Dir   string `yaml:"dir" env:"DIR"`
	Watch bool   `yaml:"watch" env:"WATCH"`
}

// LogConfig controls zap.
type LogConfig struct {
	Level       string `yaml:"level" env:"LEVEL"`
	Development bool   `yaml:"development" env:"DEVELOPMENT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:         "DevVerse",
			Version:      "1.0.0",
			Author:       "Your Name",
			DefaultTheme: "sci-fi",
			Themes:       []string{"sci-fi", "fantasy", "cyberpunk"},
			Language:     "en",
		},
		Planets: []Planet{
			{ID: "about", Name: "About Me", Color: "#4A90E2", Size: 1.2, OrbitSpeed: 0.5, RotationSpeed: 0.02, Position: Vec3{X: -3, Y: 1}},
			{ID: "projects", Name: "Projects", Color: "#E24A4A", Size: 1.5, OrbitSpeed: 0.3, RotationSpeed: 0.015, Position: Vec3{X: 3, Y: -1}},
			{ID: "skills", Name: "Skills", Color: "#4AE290", Size: 1.0, OrbitSpeed: 0.7, RotationSpeed: 0.025, Position: Vec3{Y: 2.5, Z: -2}},
			{ID: "blog", Name: "Blog", Color: "#E2D44A", Size: 1.1, OrbitSpeed: 0.4, RotationSpeed: 0.018, Position: Vec3{X: -2.5, Y: -2, Z: 1}},
			{ID: "contact", Name: "Contact", Color: "#9B4AE2", Size: 1.3, OrbitSpeed: 0.6, RotationSpeed: 0.022, Position: Vec3{X: 2.5, Y: 1.5, Z: 1}},
		},
		Starfield: StarfieldConfig{
			Stars:    800,
			Speed:    0.5,
			MaxDepth: 2000,
			FOV:      100,
		},
		Animation: AnimationConfig{
			PageTransition: 800 * time.Millisecond,
			ModalFade:      300 * time.Millisecond,
			HoverScale:     200 * time.Millisecond,
			ScrollReveal:   600 * time.Millisecond,
			LoadingHide:    500 * time.Millisecond,
			Toast:          4 * time.Second,
		},
		StorageKeys: StorageKeysConfig{
			Theme:        "devverse_theme",
			Achievements: "devverse_achievements",
			Visited:      "devverse_visited",
			PostsRead:    "devverse_posts_read",
			BlogComments: "devverse_blog_comments",
			UserPrefs:    "devverse_user_prefs",
		},
		Window: WindowConfig{
			Title:  "DevVerse",
			Width:  1280,
			Height: 720,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "devverse.db",
		},
		Contact: ContactConfig{
			Timeout: 10 * time.Second,
		},
		Blog: BlogConfig{
			Dir: "posts",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path or a missing file yields the defaults
// (plus environment).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := Decode(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals YAML data over cfg. Keys absent from data keep their
// current values; a planets list replaces the whole list.
func Decode(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from DEVVERSE_* environment variables.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{Prefix: EnvPrefix})
}

func (c *Config) applyEnv(opts env.Options) error {
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports every invalid setting, joined.
func (c *Config) Validate() error {
	var errs []error
	if len(c.App.Themes) == 0 {
		errs = append(errs, errors.New("app.themes must not be empty"))
	} else if !slices.Contains(c.App.Themes, c.App.DefaultTheme) {
		errs = append(errs, fmt.Errorf("app.default_theme %q is not in app.themes", c.App.DefaultTheme))
	}
	seen := make(map[string]bool, len(c.Planets))
	for i, p := range c.Planets {
		switch {
		case p.ID == "" || strings.Contains(p.ID, "/"):
			errs = append(errs, fmt.Errorf("planets[%d]: invalid id %q", i, p.ID))
		case seen[p.ID]:
			errs = append(errs, fmt.Errorf("planets[%d]: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = true
	}
	if c.Starfield.Stars < 0 {
		errs = append(errs, errors.New("starfield.stars must not be negative"))
	}
	if c.Starfield.MaxDepth <= 0 {
		errs = append(errs, errors.New("starfield.max_depth must be positive"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, errors.New("window size must be positive"))
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			errs = append(errs, errors.New("storage.path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q must be %q or %q", c.Storage.Driver, DriverMemory, DriverSQLite))
	}
	if c.Contact.Timeout < 0 {
		errs = append(errs, errors.New("contact.timeout must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// PlanetIDs returns the planet ids in order.
func (c *Config) PlanetIDs() []string {
	ids := make([]string, len(c.Planets))
	for i, p := range c.Planets {
		ids[i] = p.ID
	}
	return ids
}

// Planet looks up a planet by id.
func (c *Config) Planet(id string) (Planet, bool) {
	for _, p := range c.Planets {
		if p.ID == id {
			return p, true
		}
	}
	return Planet{}, false
}

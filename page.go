package devverse

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/phanxgames/devverse/blog"
	"github.com/phanxgames/devverse/config"
	"github.com/phanxgames/devverse/contact"
	"github.com/phanxgames/devverse/frameloop"
	"github.com/phanxgames/devverse/locale"
	"github.com/phanxgames/devverse/profile"
	"github.com/phanxgames/devverse/router"
	"github.com/phanxgames/devverse/storage"
)

// ErrUnknownPage is returned when a registry has no factory for a page id.
var ErrUnknownPage = errors.New("unknown page")

// Services are the long-lived collaborators every page may use.
type Services struct {
	Config    *config.Config
	Logger    *zap.Logger
	Prefs     *storage.Prefs
	Bus       *profile.Bus
	Theme     *profile.ThemeSwitcher
	Tracker   *profile.Tracker
	Locale    *locale.Localizer
	Blog      *blog.Library
	Submitter contact.Submitter
	Fonts     FontSet
}

// Mount is what a page gets when it is shown.
type Mount struct {
	*Services

	// Root is the page's container. The app disposes it after Unmount.
	Root *Node
	// Background is the layer under all page content, for canvases.
	Background *Node
	Scene      *Scene
	Animator   *Animator
	Scheduler  *frameloop.Scheduler

	Path   string
	Params router.Params
	Width  int
	Height int

	// Navigate requests a navigation. It runs after the current frame's
	// input handling, never re-entrantly.
	Navigate func(path string)
	// Post runs fn on the frame goroutine. Safe to call from any goroutine.
	Post func(fn func())
}

// T is shorthand for the mount's localizer.
func (m *Mount) T(id string, data map[string]any) string {
	if m.Locale == nil {
		return id
	}
	return m.Locale.T(id, data)
}

// Page is one screen of the app.
type Page interface {
	// Mount builds the page under m.Root. On error the app calls Unmount,
	// discards the node tree and shows an error banner, so Unmount must cope
	// with a partial mount.
	Mount(ctx context.Context, m *Mount) error
	// Unmount releases anything the page owns outside its node tree, such as
	// frame loops and goroutines.
	Unmount()
}

// Updater is implemented by pages that need a per-frame callback.
type Updater interface {
	Update(dt float64)
}

// Resizer is implemented by pages that re-layout on window resize.
type Resizer interface {
	Resize(w, h int)
}

// PageFactory creates a fresh page instance.
type PageFactory func() Page

// Registry maps page ids to factories.
type Registry struct {
	factories map[string]PageFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]PageFactory)}
}

// Register adds or replaces the factory for id.
func (r *Registry) Register(id string, f PageFactory) *Registry {
	if f == nil {
		panic("devverse: nil page factory for " + id)
	}
	r.factories[id] = f
	return r
}

// New creates the page registered as id.
func (r *Registry) New(id string) (Page, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, id)
	}
	return f(), nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.factories[id]
	return ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Page ids the default route table uses.
const (
	PageLanding  = "landing"
	PageAbout    = "about"
	PageProjects = "projects"
	PageSkills   = "skills"
	PageBlog     = "blog"
	PagePost     = "post"
	PageContact  = "contact"
	PageNotFound = "notfound"
)

// RouteSpec binds a route pattern to a page id.
type RouteSpec struct {
	Pattern string
	Page    string
	// Planet is the tracker name visiting this route counts for; empty for
	// none.
	Planet string
}

// DefaultRoutes is the app's route table in registration order.
func DefaultRoutes() []RouteSpec {
	return []RouteSpec{
		{Pattern: "/", Page: PageLanding},
		{Pattern: "/about", Page: PageAbout, Planet: "about"},
		{Pattern: "/projects", Page: PageProjects, Planet: "projects"},
		{Pattern: "/skills", Page: PageSkills, Planet: "skills"},
		{Pattern: "/blog", Page: PageBlog, Planet: "blog"},
		{Pattern: "/blog/:slug", Page: PagePost, Planet: "blog"},
		{Pattern: "/contact", Page: PageContact, Planet: "contact"},
	}
}

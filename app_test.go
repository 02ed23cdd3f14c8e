package devverse

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/devverse/config"
	"github.com/phanxgames/devverse/profile"
	"github.com/phanxgames/devverse/storage"
)

const frame = 1.0 / 60

// fakePage records its lifecycle in a shared log.
type fakePage struct {
	id       string
	log      *[]string
	mountErr error
	capture  bool
	height   float64
	mount    *Mount
	updates  int
	resized  [2]int
}

func (p *fakePage) Mount(_ context.Context, m *Mount) error {
	*p.log = append(*p.log, "mount "+p.id)
	p.mount = m
	m.Root.Height = p.height
	link := NewLink("to_about", "/about", NewRect("to_about_bg", 100, 40, ColorWhite))
	m.Root.AddChild(link)
	return p.mountErr
}

func (p *fakePage) Unmount() {
	*p.log = append(*p.log, "unmount "+p.id)
}

func (p *fakePage) Update(float64) { p.updates++ }

func (p *fakePage) Resize(w, h int) { p.resized = [2]int{w, h} }

func (p *fakePage) CapturesKeys() bool { return p.capture }

type appFixture struct {
	app     *App
	in      *fakeInput
	log     []string
	pages   map[string]*fakePage
	tracker *profile.Tracker
	theme   *profile.ThemeSwitcher

	// configure runs on each page right after it is created.
	configure func(*fakePage)
}

func newAppFixture(t *testing.T, ids ...string) *appFixture {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{PageLanding, PageAbout, PageProjects, PageSkills, PageBlog, PagePost, PageContact, PageNotFound}
	}
	f := &appFixture{pages: map[string]*fakePage{}}

	cfg := config.Default()
	prefs := storage.NewPrefs(storage.NewMemory(), nil)
	bus := profile.NewBus(nil)
	f.theme = profile.NewThemeSwitcher(prefs, bus, profile.ThemeOptions{})
	f.tracker = profile.NewTracker(cfg.PlanetIDs(), profile.DefaultKeys(), prefs, bus, nil)

	reg := NewRegistry()
	for _, id := range ids {
		reg.Register(id, func() Page {
			p := &fakePage{id: id, log: &f.log}
			if f.configure != nil {
				f.configure(p)
			}
			f.pages[id] = p
			return p
		})
	}

	svc := &Services{Config: cfg, Prefs: prefs, Bus: bus, Theme: f.theme, Tracker: f.tracker}
	scene, in := newTestScene()
	app, err := NewApp(svc, reg, WithScene(scene))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(app.Close)
	f.app, f.in = app, in
	return f
}

func (f *appFixture) steps(n int) {
	for i := 0; i < n; i++ {
		f.app.Step(frame)
	}
}

func (f *appFixture) pressKeys(mods KeyModifiers, keys ...ebiten.Key) {
	for _, k := range keys {
		f.in.mods = mods
		f.in.keys = []ebiten.Key{k}
		f.app.Step(frame)
	}
	f.in.mods = 0
}

func TestNewAppRequiresPages(t *testing.T) {
	cfg := config.Default()
	reg := NewRegistry().Register(PageLanding, func() Page { return stubPage{} })
	_, err := NewApp(&Services{Config: cfg}, reg, WithScene(NewScene(WithInput(&fakeInput{}))))
	if err == nil || !strings.Contains(err.Error(), "unregistered pages") || !strings.Contains(err.Error(), PageNotFound) {
		t.Errorf("err = %v, want unregistered pages including notfound", err)
	}
	if _, err := NewApp(nil, reg); err == nil {
		t.Error("nil services should fail")
	}
	if _, err := NewApp(&Services{Config: cfg}, nil); err == nil {
		t.Error("nil registry should fail")
	}
}

func TestAppStartMountsLanding(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("")

	if f.app.PageID() != PageLanding {
		t.Errorf("PageID = %q, want landing", f.app.PageID())
	}
	if got := f.app.Router().CurrentPath(); got != "/" {
		t.Errorf("CurrentPath = %q, want /", got)
	}
	if !f.tracker.Unlocked(profile.FirstVisit) {
		t.Error("first visit should be unlocked after Start")
	}
	if f.tracker.Visited("landing") {
		t.Error("landing is not a planet")
	}
}

func TestAppNavigateIsQueuedUntilStep(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	f.app.Navigate("/about")
	if f.app.PageID() != PageLanding {
		t.Fatal("navigation ran before Step")
	}
	f.steps(1)
	if f.app.PageID() != PageAbout {
		t.Errorf("PageID = %q, want about", f.app.PageID())
	}
	want := "mount landing|unmount landing|mount about"
	if got := strings.Join(f.log, "|"); got != want {
		t.Errorf("log = %q, want %q", got, want)
	}
	if !f.tracker.Visited("about") {
		t.Error("about planet should be visited")
	}
}

func TestAppPostRouteParams(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/blog/hello-world")
	p := f.pages[PagePost]
	if p == nil || p.mount == nil {
		t.Fatal("post page not mounted")
	}
	if p.mount.Params["slug"] != "hello-world" || p.mount.Path != "/blog/hello-world" {
		t.Errorf("mount = (%v, %q)", p.mount.Params, p.mount.Path)
	}
	if p.mount.Width != 1280 || p.mount.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", p.mount.Width, p.mount.Height)
	}
}

func TestAppNotFound(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/nowhere")
	if f.app.PageID() != PageNotFound {
		t.Errorf("PageID = %q, want notfound", f.app.PageID())
	}
	if got := f.app.Router().CurrentPath(); got != "/nowhere" {
		t.Errorf("CurrentPath = %q", got)
	}
}

func TestAppLinkClickNavigates(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	f.steps(1)

	f.in.press(10, 10)
	f.steps(1)
	f.in.release(10, 10)
	f.steps(1)

	if f.app.PageID() != PageAbout {
		t.Errorf("PageID = %q, want about after clicking the link", f.app.PageID())
	}
}

func TestAppExternalLinksStayPut(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	f.app.followLink("https://example.com")
	f.app.followLink("mailto:hi@example.com")
	f.app.followLink("#")
	f.app.followLink("")
	f.steps(1)
	if f.app.PageID() != PageLanding {
		t.Errorf("PageID = %q, want landing", f.app.PageID())
	}
}

func TestAppKeyboardHistory(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	f.app.Navigate("/about")
	f.steps(1)

	f.pressKeys(0, ebiten.KeyBackspace)
	if f.app.PageID() != PageLanding {
		t.Fatalf("PageID = %q after Backspace, want landing", f.app.PageID())
	}
	f.pressKeys(ModAlt, ebiten.KeyArrowRight)
	if f.app.PageID() != PageAbout {
		t.Fatalf("PageID = %q after Alt+Right, want about", f.app.PageID())
	}
	f.pressKeys(ModAlt, ebiten.KeyArrowLeft)
	if f.app.PageID() != PageLanding {
		t.Errorf("PageID = %q after Alt+Left, want landing", f.app.PageID())
	}
}

func TestAppCapturingPageSuppressesShortcuts(t *testing.T) {
	f := newAppFixture(t)
	f.configure = func(p *fakePage) { p.capture = p.id == PageContact }
	f.app.Start("/")
	f.app.Navigate("/contact")
	f.steps(1)

	before := f.theme.Theme()
	f.pressKeys(0, ebiten.KeyBackspace, ebiten.KeyT)
	if f.app.PageID() != PageContact {
		t.Errorf("PageID = %q, want contact while it captures keys", f.app.PageID())
	}
	if f.theme.Theme() != before {
		t.Error("theme changed while keys were captured")
	}
}

func TestAppThemeShortcut(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	before := f.theme.Theme()

	f.pressKeys(0, ebiten.KeyT)
	if f.theme.Theme() == before {
		t.Error("T should switch theme")
	}
	if !f.tracker.Unlocked(profile.ThemeSwitch) {
		t.Error("theme switch achievement should unlock")
	}

	// Modified T is not the shortcut.
	now := f.theme.Theme()
	f.pressKeys(ModCtrl, ebiten.KeyT)
	if f.theme.Theme() != now {
		t.Error("Ctrl+T should not switch theme")
	}
}

func TestAppSecretSequence(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")

	f.pressKeys(0, ebiten.KeyArrowUp) // stray key before the sequence
	f.pressKeys(0, secretSequence[:len(secretSequence)-1]...)
	if f.tracker.Unlocked(profile.EasterEgg) {
		t.Fatal("unlocked before the sequence finished")
	}
	f.pressKeys(0, secretSequence[len(secretSequence)-1])
	if !f.tracker.Unlocked(profile.EasterEgg) {
		t.Error("secret sequence should unlock the easter egg")
	}
}

func TestAppAchievementToast(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	// First visit was published during Start; the toast is posted.
	if f.app.Toasts() != 0 {
		t.Fatal("toast shown before the next frame")
	}
	f.steps(1)
	if f.app.Toasts() != 1 {
		t.Fatalf("Toasts = %d, want 1", f.app.Toasts())
	}
	// Fade in, hold for the toast duration, fade out.
	secs := 0.1 + 0.3 + f.app.svc.Config.Animation.Toast.Seconds() + 0.3
	f.steps(int(secs*60) + 10)
	if f.app.Toasts() != 0 {
		t.Errorf("Toasts = %d, want 0 after it expires", f.app.Toasts())
	}
}

func TestAppMountErrorKeepsRunning(t *testing.T) {
	f := newAppFixture(t)
	f.configure = func(p *fakePage) {
		if p.id == PageSkills {
			p.mountErr = errors.New("boom")
		}
	}
	f.app.Start("/")
	f.app.Navigate("/skills")
	f.steps(1)

	if f.app.PageID() != "" || f.app.Page() != nil {
		t.Errorf("PageID = %q, want no page after a failed mount", f.app.PageID())
	}
	if got := strings.Join(f.log, "|"); got != "mount landing|unmount landing|mount skills|unmount skills" {
		t.Errorf("log = %q", got)
	}
	if f.app.content.Find("page:skills") != nil {
		t.Error("failed page tree should be discarded")
	}
	if f.tracker.Visited("skills") {
		t.Error("failed mount should not count as a visit")
	}
	if f.app.overlay.Find("error_banner") == nil {
		t.Error("expected an error banner")
	}
	f.app.Navigate("/about")
	f.steps(1)
	if f.app.PageID() != PageAbout {
		t.Errorf("PageID = %q, want about", f.app.PageID())
	}
}

func TestAppUpdaterAndResizer(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	f.steps(2)
	p := f.pages[PageLanding]
	if p.updates != 2 {
		t.Errorf("updates = %d, want 2", p.updates)
	}

	f.app.Layout(800, 600)
	f.steps(5)
	if p.resized != [2]int{} {
		t.Fatalf("resized before the debounce: %v", p.resized)
	}
	f.steps(20)
	if p.resized != [2]int{800, 600} {
		t.Errorf("resized = %v, want [800 600]", p.resized)
	}
}

func TestAppWheelScrollClamps(t *testing.T) {
	f := newAppFixture(t)
	f.configure = func(p *fakePage) { p.height = 1000 }
	f.app.Start("/")

	f.in.wheel = -3
	f.steps(1)
	if f.app.ScrollY() != 3*wheelStep {
		t.Errorf("ScrollY = %v, want %v", f.app.ScrollY(), 3*wheelStep)
	}
	f.in.wheel = -100
	f.steps(1)
	if f.app.ScrollY() != 280 {
		t.Errorf("ScrollY = %v, want 280 (1000-720)", f.app.ScrollY())
	}
	f.app.Navigate("/about")
	f.steps(1)
	if f.app.ScrollY() != 0 {
		t.Errorf("ScrollY = %v after navigation, want 0", f.app.ScrollY())
	}
}

func TestAppPostFromGoroutine(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")

	var wg sync.WaitGroup
	ran := 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.app.Post(func() { ran++ })
		}()
	}
	wg.Wait()
	f.steps(1)
	if ran != 4 {
		t.Errorf("ran = %d, want 4", ran)
	}
}

func TestAppLoadingOverlayHides(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	if !f.app.LoadingVisible() {
		t.Fatal("loading overlay should show during navigation")
	}
	anim := f.app.svc.Config.Animation
	f.steps(int((anim.LoadingHide+anim.ModalFade).Seconds()*60) + 10)
	if f.app.LoadingVisible() {
		t.Error("loading overlay should hide after the delay")
	}
}

func TestAppCloseUnmounts(t *testing.T) {
	f := newAppFixture(t)
	f.app.Start("/")
	f.app.Close()
	if f.log[len(f.log)-1] != "unmount landing" {
		t.Errorf("log = %v, want trailing unmount", f.log)
	}
	if err := f.app.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update after Close = %v, want Termination", err)
	}
}

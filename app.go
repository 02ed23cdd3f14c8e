package devverse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/devverse/frameloop"
	"github.com/phanxgames/devverse/profile"
	"github.com/phanxgames/devverse/router"
)

const (
	resizeDebounce = 0.25 // seconds
	wheelStep      = 48.0 // pixels per wheel notch
	bannerSeconds  = 5
	toastWidth     = 320.0
	toastHeight    = 84.0
)

// secretSequence unlocks the easter egg achievement when typed on any page
// that is not capturing keys.
var secretSequence = []ebiten.Key{
	ebiten.KeyArrowUp, ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowDown,
	ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyB, ebiten.KeyA,
}

// KeyCapturer is implemented by pages with focused text fields. While
// CapturesKeys reports true, global shortcuts are ignored.
type KeyCapturer interface {
	CapturesKeys() bool
}

// KeyHandler is implemented by pages that react to keys themselves. It runs
// before the global shortcuts.
type KeyHandler interface {
	HandleKey(key ebiten.Key, mods KeyModifiers)
}

type navKind uint8

const (
	navPush navKind = iota
	navBack
	navForward
)

type navRequest struct {
	kind navKind
	path string
}

// AppOption configures an App.
type AppOption func(*App)

// WithRoutes replaces DefaultRoutes.
func WithRoutes(routes []RouteSpec) AppOption {
	return func(a *App) {
		a.routes = routes
	}
}

// WithScene supplies a pre-built scene, typically with a fake input source.
func WithScene(s *Scene) AppOption {
	return func(a *App) {
		a.scene = s
	}
}

// WithHistory sets the router's history.
func WithHistory(h router.History) AppOption {
	return func(a *App) {
		a.history = h
	}
}

// WithExitOnScriptDone ends the game once an attached test script finishes.
func WithExitOnScriptDone() AppOption {
	return func(a *App) {
		a.exitOnScriptDone = true
	}
}

// App is the DevVerse game: it owns the scene, the router and the mounted
// page, and implements ebiten.Game.
type App struct {
	svc      *Services
	logger   *zap.Logger
	registry *Registry
	routes   []RouteSpec
	history  router.History
	router   *router.Router
	scene    *Scene
	sched    *frameloop.Scheduler
	anim     Animator

	ctx    context.Context
	cancel context.CancelFunc

	background *Node
	content    *Node
	overlay    *Node
	loading    *Node
	fps        *Node

	loadingFade *TweenGroup
	toasts      []*Node

	page     Page
	pageRoot *Node
	pageID   string

	width, height    int
	resizeW, resizeH int
	resizeWait       float64
	scrollY          float64

	navQueue  []navRequest
	postMu    sync.Mutex
	postQueue []func()

	keyTrail         []ebiten.Key
	subs             []*profile.Subscription
	exitOnScriptDone bool
	closed           bool
}

// NewApp wires the router to the page registry. Every page id in the route
// table, plus PageNotFound, must be registered.
func NewApp(svc *Services, registry *Registry, opts ...AppOption) (*App, error) {
	if svc == nil || svc.Config == nil {
		return nil, errors.New("devverse: services with a config are required")
	}
	if registry == nil {
		return nil, errors.New("devverse: page registry is required")
	}
	a := &App{
		svc:      svc,
		logger:   svc.Logger,
		registry: registry,
		routes:   DefaultRoutes(),
		sched:    frameloop.NewScheduler(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
		svc.Logger = a.logger
	}
	var missing []string
	for _, rt := range a.routes {
		if !registry.Has(rt.Page) {
			missing = append(missing, rt.Page)
		}
	}
	if !registry.Has(PageNotFound) {
		missing = append(missing, PageNotFound)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("devverse: unregistered pages: %s", strings.Join(missing, ", "))
	}
	if a.scene == nil {
		a.scene = NewScene(WithSceneLogger(a.logger.Named("scene")))
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.width, a.height = svc.Config.Window.Width, svc.Config.Window.Height
	a.buildLayers()
	a.buildRouter()

	a.scene.OnLink(a.followLink)
	a.scene.OnKey(a.handleKey)
	if svc.Bus != nil {
		a.subs = append(a.subs,
			profile.On(svc.Bus, func(e profile.AchievementUnlocked) {
				a.Post(func() { a.showToast(e.Achievement) })
			}),
			profile.On(svc.Bus, func(e profile.ThemeChanged) {
				a.logger.Info("theme changed", zap.String("theme", e.Theme))
				a.Post(a.applyTheme)
			}),
		)
	}
	a.applyTheme()
	if a.scene.Debug() {
		a.ToggleFPS()
	}
	return a, nil
}

func (a *App) buildLayers() {
	root := a.scene.Root()
	a.background = NewContainer("background")
	a.background.ZIndex = -1
	a.content = NewContainer("content")
	a.overlay = NewContainer("overlay")
	a.overlay.ZIndex = 1
	root.AddChild(a.background)
	root.AddChild(a.content)
	root.AddChild(a.overlay)

	a.loading = NewContainer("loading")
	a.loading.Visible = false
	a.loading.AddChild(NewRect("loading_bg", float64(a.width), float64(a.height), MustHex("#0A0E27")))
	label := NewText("loading_label", a.t("Loading", nil), a.svc.Fonts.Heading)
	label.TextBlock.Align = TextAlignCenter
	a.loading.AddChild(label)
	a.overlay.AddChild(a.loading)
	a.layoutLoading()
}

func (a *App) layoutLoading() {
	bg := a.loading.Find("loading_bg")
	bg.Width, bg.Height = float64(a.width), float64(a.height)
	label := a.loading.Find("loading_label")
	w, h := label.TextBlock.Size()
	label.SetPosition((float64(a.width)-w)/2, (float64(a.height)-h)/2)
}

func (a *App) buildRouter() {
	ropts := []router.Option{
		router.WithLogger(a.logger.Named("router")),
		router.WithScroller(router.ScrollFunc(func(_, y float64) { a.scrollTo(y) })),
	}
	if a.history != nil {
		ropts = append(ropts, router.WithHistory(a.history))
	}
	a.router = router.New(ropts...)

	table := make([]router.Route, 0, len(a.routes))
	for _, rt := range a.routes {
		table = append(table, router.Route{
			Pattern: rt.Pattern,
			Handler: func(ctx context.Context, params router.Params, path string) error {
				return a.show(ctx, rt, params, path)
			},
		})
	}
	a.router.RegisterRoutes(table)

	a.router.SetNotFound(func(ctx context.Context, path string) error {
		a.logger.Warn("page not found", zap.String("path", path))
		a.hideLoading()
		return a.show(ctx, RouteSpec{Page: PageNotFound}, router.Params{}, path)
	})

	a.router.BeforeEach(func(_ context.Context, to, from string) (bool, error) {
		if from == "" {
			from = "initial"
		}
		a.logger.Info("navigating", zap.String("from", from), zap.String("to", to))
		a.showLoading()
		return true, nil
	})

	a.router.AfterEach(func(_ context.Context, path string) error {
		a.hideLoading()
		a.logger.Debug("page visit", zap.String("page", profile.PageFromPath(path)))
		if a.svc.Tracker != nil {
			a.svc.Tracker.Save()
		}
		return nil
	})
}

// Router returns the app's router.
func (a *App) Router() *router.Router {
	return a.router
}

// Scene returns the app's scene.
func (a *App) Scene() *Scene {
	return a.scene
}

// Scheduler returns the frame scheduler pages attach loops to.
func (a *App) Scheduler() *frameloop.Scheduler {
	return a.sched
}

// PageID returns the id of the mounted page.
func (a *App) PageID() string {
	return a.pageID
}

// Page returns the mounted page.
func (a *App) Page() Page {
	return a.page
}

// Start performs the initial navigation and records the first visit.
func (a *App) Start(path string) router.Result {
	if path == "" {
		path = "/"
	}
	res := a.router.Start(a.ctx, path)
	if a.svc.Tracker != nil {
		a.svc.Tracker.TrackFirstVisit()
	}
	return res
}

// Navigate queues a navigation for the end of the current frame's input pass.
func (a *App) Navigate(path string) {
	a.navQueue = append(a.navQueue, navRequest{kind: navPush, path: path})
}

// Back queues a history back step.
func (a *App) Back() {
	a.navQueue = append(a.navQueue, navRequest{kind: navBack})
}

// Forward queues a history forward step.
func (a *App) Forward() {
	a.navQueue = append(a.navQueue, navRequest{kind: navForward})
}

// Post runs fn on the frame goroutine at the start of the next update.
// Safe to call from any goroutine.
func (a *App) Post(fn func()) {
	a.postMu.Lock()
	a.postQueue = append(a.postQueue, fn)
	a.postMu.Unlock()
}

func (a *App) drainPosted() {
	a.postMu.Lock()
	q := a.postQueue
	a.postQueue = nil
	a.postMu.Unlock()
	for _, fn := range q {
		fn()
	}
}

func (a *App) runNavigations() {
	for len(a.navQueue) > 0 {
		req := a.navQueue[0]
		a.navQueue = a.navQueue[1:]
		switch req.kind {
		case navPush:
			a.router.Navigate(a.ctx, req.path)
		case navBack:
			if _, ok := a.router.Back(a.ctx); !ok {
				a.logger.Debug("no history to go back to")
			}
		case navForward:
			if _, ok := a.router.Forward(a.ctx); !ok {
				a.logger.Debug("no history to go forward to")
			}
		}
	}
}

// followLink handles clicks on link nodes. Absolute URLs leave the app and
// are only logged.
func (a *App) followLink(href string) {
	if href == "" || href == "#" {
		return
	}
	if strings.Contains(href, "://") || strings.HasPrefix(href, "mailto:") {
		a.logger.Info("external link", zap.String("href", href))
		return
	}
	a.Navigate(href)
}

func (a *App) handleKey(k ebiten.Key, mods KeyModifiers) {
	if kh, ok := a.page.(KeyHandler); ok {
		kh.HandleKey(k, mods)
	}
	if kc, ok := a.page.(KeyCapturer); ok && kc.CapturesKeys() {
		a.keyTrail = a.keyTrail[:0]
		return
	}
	a.trackSecret(k)
	switch {
	case k == ebiten.KeyArrowLeft && mods&ModAlt != 0, k == ebiten.KeyBackspace:
		a.Back()
	case k == ebiten.KeyArrowRight && mods&ModAlt != 0:
		a.Forward()
	case k == ebiten.KeyT && mods == 0:
		if a.svc.Theme != nil {
			a.svc.Theme.Next()
		}
	case k == ebiten.KeyF3:
		a.ToggleFPS()
	}
}

func (a *App) trackSecret(k ebiten.Key) {
	a.keyTrail = append(a.keyTrail, k)
	if len(a.keyTrail) > len(secretSequence) {
		a.keyTrail = a.keyTrail[len(a.keyTrail)-len(secretSequence):]
	}
	if len(a.keyTrail) < len(secretSequence) {
		return
	}
	for i, want := range secretSequence {
		if a.keyTrail[i] != want {
			return
		}
	}
	a.keyTrail = a.keyTrail[:0]
	if a.svc.Tracker != nil {
		a.svc.Tracker.Unlock(profile.EasterEgg)
	}
}

// show unmounts the current page and mounts the page for rt. A page that
// fails to mount is unmounted again, leaving only the error banner.
func (a *App) show(ctx context.Context, rt RouteSpec, params router.Params, path string) error {
	a.unmount()

	page, err := a.registry.New(rt.Page)
	if err != nil {
		a.showError(a.t("PageLoadFailed", map[string]any{"Page": rt.Page}))
		return err
	}
	root := NewContainer("page:" + rt.Page)
	a.content.AddChild(root)
	a.page, a.pageRoot, a.pageID = page, root, rt.Page

	m := &Mount{
		Services:   a.svc,
		Root:       root,
		Background: a.background,
		Scene:      a.scene,
		Animator:   &a.anim,
		Scheduler:  a.sched,
		Path:       path,
		Params:     params,
		Width:      a.width,
		Height:     a.height,
		Navigate:   a.Navigate,
		Post:       a.Post,
	}
	a.logger.Debug("mounting page", zap.String("page", rt.Page), zap.Any("params", params))
	if err := page.Mount(ctx, m); err != nil {
		a.unmount()
		a.showError(a.t("PageLoadFailed", map[string]any{"Page": rt.Page}))
		return fmt.Errorf("mount %s: %w", rt.Page, err)
	}

	root.Alpha = 0
	a.anim.Add(TweenAlpha(root, 1, seconds(a.svc.Config.Animation.ModalFade), ease.OutQuad))

	if rt.Planet != "" && a.svc.Tracker != nil {
		a.svc.Tracker.VisitPlanet(rt.Planet)
	}
	return nil
}

func (a *App) unmount() {
	if a.page != nil {
		a.page.Unmount()
		a.page = nil
	}
	if a.pageRoot != nil {
		a.pageRoot.Dispose()
		a.pageRoot = nil
	}
	a.pageID = ""
}

func (a *App) showLoading() {
	if a.loadingFade != nil {
		a.loadingFade.Done = true
		a.loadingFade = nil
	}
	a.loading.Visible = true
	a.loading.SetAlpha(1)
}

func (a *App) hideLoading() {
	if !a.loading.Visible || a.loadingFade != nil {
		return
	}
	g := TweenAlpha(a.loading, 0, seconds(a.svc.Config.Animation.ModalFade), ease.InQuad)
	g.Delay(seconds(a.svc.Config.Animation.LoadingHide))
	g.OnDone = func() {
		a.loading.Visible = false
		a.loadingFade = nil
	}
	a.loadingFade = a.anim.Add(g)
}

// LoadingVisible reports whether the loading overlay is showing.
func (a *App) LoadingVisible() bool {
	return a.loading.Visible
}

func (a *App) showError(msg string) {
	a.logger.Error("page error", zap.String("message", msg))
	banner := NewContainer("error_banner")
	bg := NewRect("error_bg", float64(a.width), 48, MustHex("#B00020").WithAlpha(0.9))
	banner.AddChild(bg)
	label := NewText("error_label", msg, a.svc.Fonts.Body)
	label.SetPosition(16, 12)
	banner.AddChild(label)
	a.overlay.AddChild(banner)

	g := TweenAlpha(banner, 0, 0.3, ease.Linear).Delay(bannerSeconds)
	g.OnDone = banner.Dispose
	a.anim.Add(g)
}

// showToast slides in an achievement notification that fades out after the
// configured toast duration.
func (a *App) showToast(ach profile.Achievement) {
	toast := NewContainer("toast:" + ach.ID)
	palette := profile.Colors(a.themeName())
	bg := NewRect("toast_bg", toastWidth, toastHeight, MustHex("#111633").WithAlpha(0.92))
	bg.StrokeColor = colorOr(palette.Primary, ColorWhite)
	bg.StrokeWidth = 2
	toast.AddChild(bg)

	title := NewText("toast_title", a.t("AchievementUnlocked", nil)+": "+ach.Name, a.svc.Fonts.Body)
	title.TextBlock.Color = colorOr(palette.Primary, ColorWhite)
	title.SetPosition(16, 14)
	toast.AddChild(title)

	desc := NewText("toast_desc", ach.Desc, a.svc.Fonts.Small)
	desc.TextBlock.WrapWidth = toastWidth - 32
	desc.SetPosition(16, 46)
	toast.AddChild(desc)

	a.toasts = append(a.toasts, toast)
	toast.SetPosition(float64(a.width)-toastWidth-20, 20+float64(len(a.toasts)-1)*(toastHeight+12))
	a.overlay.AddChild(toast)

	in := FadeIn(toast, 0.1, 0.3, -20)
	in.OnDone = func() {
		out := TweenAlpha(toast, 0, 0.3, ease.InQuad).Delay(seconds(a.svc.Config.Animation.Toast))
		out.OnDone = func() { a.removeToast(toast) }
		a.anim.Add(out)
	}
	a.anim.Add(in)
}

func (a *App) removeToast(toast *Node) {
	for i, t := range a.toasts {
		if t == toast {
			a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
			break
		}
	}
	toast.Dispose()
}

// Toasts returns the number of achievement toasts on screen.
func (a *App) Toasts() int {
	return len(a.toasts)
}

func (a *App) applyTheme() {
	label := a.loading.Find("loading_label")
	label.TextBlock.Color = colorOr(profile.Colors(a.themeName()).Primary, ColorWhite)
}

func (a *App) themeName() string {
	if a.svc.Theme == nil {
		return profile.ThemeSciFi
	}
	return a.svc.Theme.Theme()
}

// ToggleFPS shows or hides the frame stats widget.
func (a *App) ToggleFPS() {
	if a.fps != nil {
		a.fps.Dispose()
		a.fps = nil
		return
	}
	a.fps = NewFPSWidget(a.scene)
	a.fps.SetPosition(8, 8)
	a.overlay.AddChild(a.fps)
}

func (a *App) scrollTo(y float64) {
	a.scrollY = y
	a.clampScroll()
}

func (a *App) clampScroll() {
	limit := 0.0
	if a.pageRoot != nil {
		limit = max(0, a.pageRoot.Height-float64(a.height))
	}
	a.scrollY = max(0, min(a.scrollY, limit))
	a.content.SetPosition(0, -a.scrollY)
}

// ScrollY returns the content scroll offset.
func (a *App) ScrollY() float64 {
	return a.scrollY
}

func (a *App) requestResize(w, h int) {
	if w == a.resizeW && h == a.resizeH {
		return
	}
	a.resizeW, a.resizeH = w, h
	a.resizeWait = 0
}

func (a *App) applyResize(dt float64) {
	if a.resizeW == 0 || (a.resizeW == a.width && a.resizeH == a.height) {
		return
	}
	a.resizeWait += dt
	if a.resizeWait < resizeDebounce {
		return
	}
	a.width, a.height = a.resizeW, a.resizeH
	a.logger.Debug("resize", zap.Int("width", a.width), zap.Int("height", a.height))
	a.layoutLoading()
	if r, ok := a.page.(Resizer); ok {
		r.Resize(a.width, a.height)
	}
	a.clampScroll()
}

// Step advances the app by dt seconds. Update calls it with the tick length.
func (a *App) Step(dt float64) {
	a.drainPosted()
	a.scene.Update(dt)
	a.runNavigations()
	a.applyResize(dt)
	if w := a.scene.Wheel(); w != 0 {
		a.scrollTo(a.scrollY - w*wheelStep)
	}
	if u, ok := a.page.(Updater); ok {
		u.Update(dt)
	}
	a.anim.Update(float32(dt))
	a.sched.Tick()
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if a.closed {
		return ebiten.Termination
	}
	a.Step(1 / float64(ebiten.TPS()))
	if r := a.scene.TestRunner(); a.exitOnScriptDone && r != nil && r.Done() {
		a.logger.Info("test script finished")
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(MustHex("#0A0E27").toRGBA())
	a.scene.Draw(screen)
}

// Layout implements ebiten.Game. Size changes reach pages after a short
// debounce.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.requestResize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close unmounts the page, drops bus subscriptions and ends the game on the
// next update.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.cancel()
	a.unmount()
	for _, s := range a.subs {
		s.Unsubscribe()
	}
	a.subs = nil
}

func (a *App) t(id string, data map[string]any) string {
	if a.svc.Locale == nil {
		return id
	}
	return a.svc.Locale.T(id, data)
}

func seconds(d time.Duration) float32 {
	return float32(d.Seconds())
}

func colorOr(hex string, def Color) Color {
	c, err := ParseHex(hex)
	if err != nil {
		return def
	}
	return c
}

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/devverse/storage"
)

var planets = []string{"about", "projects", "skills", "blog", "contact"}

func newPrefs(t *testing.T) *storage.Prefs {
	t.Helper()
	p := storage.NewPrefs(storage.NewMemory(), nil)
	require.True(t, p.Available())
	return p
}

func TestBusDeliversInOrderAndUnsubscribes(t *testing.T) {
	b := NewBus(nil)
	var got []string
	s1 := b.Subscribe(func(ev Event) { got = append(got, "a:"+ev.EventName()) })
	On(b, func(e ThemeChanged) { got = append(got, "b:"+e.Theme) })

	b.Publish(ThemeChanged{Theme: "fantasy"})
	b.Publish(PlanetVisited{Planet: "about"})
	assert.Equal(t, []string{"a:themechange", "b:fantasy", "a:planetvisit"}, got)

	s1.Unsubscribe()
	s1.Unsubscribe()
	assert.Equal(t, 1, b.Len())
}

func TestBusRecoversSubscriberPanic(t *testing.T) {
	b := NewBus(nil)
	called := false
	b.Subscribe(func(Event) { panic("boom") })
	b.Subscribe(func(Event) { called = true })

	assert.NotPanics(t, func() { b.Publish(ThemeChanged{Theme: "x"}) })
	assert.True(t, called, "later subscribers still run")
}

func TestThemeSwitcherDefaultsAndPersists(t *testing.T) {
	prefs := newPrefs(t)
	bus := NewBus(nil)
	var events []string
	On(bus, func(e ThemeChanged) { events = append(events, e.Theme) })

	ts := NewThemeSwitcher(prefs, bus, ThemeOptions{})
	assert.Equal(t, ThemeSciFi, ts.Theme())

	assert.Equal(t, ThemeFantasy, ts.Apply(ThemeFantasy))
	assert.Equal(t, ThemeFantasy, prefs.String("devverse_theme", ""))

	reloaded := NewThemeSwitcher(prefs, nil, ThemeOptions{})
	assert.Equal(t, ThemeFantasy, reloaded.Theme())

	assert.Equal(t, []string{ThemeSciFi, ThemeFantasy}, events)
}

func TestThemeSwitcherUnknownFallsBack(t *testing.T) {
	prefs := newPrefs(t)
	require.True(t, prefs.Put("devverse_theme", "vaporwave"))

	ts := NewThemeSwitcher(prefs, nil, ThemeOptions{})
	assert.Equal(t, ThemeSciFi, ts.Theme())
	assert.Equal(t, ThemeSciFi, ts.Apply("nope"))
	assert.Equal(t, ThemeSciFi, prefs.String("devverse_theme", ""))
}

func TestThemeSwitcherNextCycles(t *testing.T) {
	ts := NewThemeSwitcher(nil, nil, ThemeOptions{})
	assert.Equal(t, ThemeFantasy, ts.Next())
	assert.Equal(t, ThemeCyberpunk, ts.Next())
	assert.Equal(t, ThemeSciFi, ts.Next())
}

func TestColorsAndIcon(t *testing.T) {
	assert.Equal(t, "#FFD700", Colors(ThemeFantasy).Primary)
	assert.Equal(t, Colors(ThemeSciFi), Colors("unknown"))
	assert.Equal(t, "bolt", Icon(ThemeCyberpunk))
	assert.Equal(t, "palette", Icon("unknown"))
}

func TestTrackerAllPlanets(t *testing.T) {
	bus := NewBus(nil)
	var unlocked []string
	On(bus, func(e AchievementUnlocked) { unlocked = append(unlocked, e.Achievement.ID) })

	tr := NewTracker(planets, DefaultKeys(), newPrefs(t), bus, nil)
	defer tr.Close()

	assert.False(t, tr.VisitPlanet("landing"))
	for _, p := range planets[:4] {
		assert.True(t, tr.VisitPlanet(p))
	}
	assert.False(t, tr.VisitPlanet("about"))
	assert.False(t, tr.Unlocked(AllPlanets))

	assert.True(t, tr.VisitPlanet("contact"))
	assert.True(t, tr.Unlocked(AllPlanets))
	assert.Equal(t, []string{AllPlanets}, unlocked)
}

func TestTrackerFirstVisitOnce(t *testing.T) {
	prefs := newPrefs(t)
	tr := NewTracker(planets, DefaultKeys(), prefs, nil, nil)
	assert.True(t, tr.TrackFirstVisit())
	assert.False(t, tr.TrackFirstVisit())

	again := NewTracker(planets, DefaultKeys(), prefs, nil, nil)
	assert.False(t, again.TrackFirstVisit(), "unlock survives reload")
}

func TestTrackerThemeSwitchUnlock(t *testing.T) {
	bus := NewBus(nil)
	ts := NewThemeSwitcher(nil, bus, ThemeOptions{})
	tr := NewTracker(planets, DefaultKeys(), nil, bus, nil)
	assert.False(t, tr.Unlocked(ThemeSwitch), "startup apply happens before tracking")

	ts.Next()
	assert.True(t, tr.Unlocked(ThemeSwitch))

	tr.Close()
	assert.Equal(t, 0, bus.Len())
}

func TestTrackerBlogReader(t *testing.T) {
	tr := NewTracker(planets, DefaultKeys(), nil, nil, nil)
	for _, slug := range []string{"a", "b", "c", "d", "d"} {
		tr.ReadPost(slug)
	}
	assert.False(t, tr.Unlocked(BlogReader))
	tr.ReadPost("e")
	assert.True(t, tr.Unlocked(BlogReader))
}

func TestTrackerPersistsAndResets(t *testing.T) {
	prefs := newPrefs(t)
	tr := NewTracker(planets, DefaultKeys(), prefs, nil, nil)
	tr.VisitPlanet("skills")
	tr.Unlock(EasterEgg)
	tr.Save()

	got := NewTracker(planets, DefaultKeys(), prefs, nil, nil).State()
	assert.Equal(t, []string{"skills"}, got.Visited)
	assert.Equal(t, []string{EasterEgg}, got.Achievements)

	tr.Reset()
	got = NewTracker(planets, DefaultKeys(), prefs, nil, nil).State()
	assert.Empty(t, got.Visited)
	assert.Empty(t, got.Achievements)
}

func TestPageFromPath(t *testing.T) {
	cases := map[string]string{
		"/":           "landing",
		"":            "landing",
		"/about":      "about",
		"/blog/hello": "blog",
	}
	for in, want := range cases {
		assert.Equal(t, want, PageFromPath(in), in)
	}
}

package profile

import (
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/phanxgames/devverse/storage"
)

// Achievement ids.
const (
	FirstVisit  = "first_visit"
	AllPlanets  = "all_planets"
	ThemeSwitch = "theme_switch"
	EasterEgg   = "easter_egg"
	BlogReader  = "blog_reader"
	Commented   = "commented"
)

// PostsForScholar is how many distinct posts unlock BlogReader.
const PostsForScholar = 5

// Achievement describes an unlockable badge.
type Achievement struct {
	ID   string
	Name string
	Desc string
}

// Achievements is the catalog, keyed by id.
var Achievements = map[string]Achievement{
	FirstVisit:  {ID: FirstVisit, Name: "Explorer", Desc: "Visited DevVerse for the first time"},
	AllPlanets:  {ID: AllPlanets, Name: "Cartographer", Desc: "Visited all planets"},
	ThemeSwitch: {ID: ThemeSwitch, Name: "Fashionista", Desc: "Changed themes"},
	EasterEgg:   {ID: EasterEgg, Name: "Detective", Desc: "Found a hidden secret"},
	BlogReader:  {ID: BlogReader, Name: "Scholar", Desc: "Read 5 blog posts"},
	Commented:   {ID: Commented, Name: "Contributor", Desc: "Left a comment"},
}

// Keys names the preference keys the tracker persists under.
type Keys struct {
	Visited      string
	Achievements string
	PostsRead    string
}

// DefaultKeys returns the standard preference keys.
func DefaultKeys() Keys {
	return Keys{
		Visited:      "devverse_visited",
		Achievements: "devverse_achievements",
		PostsRead:    "devverse_posts_read",
	}
}

// State is a snapshot of the tracker.
type State struct {
	Visited      []string
	Achievements []string
	PostsRead    []string
}

// Tracker records planet visits, blog reads and achievements.
type Tracker struct {
	planets      []string
	keys         Keys
	visited      map[string]bool
	achievements map[string]bool
	postsRead    map[string]bool
	prefs        *storage.Prefs
	bus          *Bus
	logger       *zap.Logger
	themeSub     *Subscription
}

// NewTracker loads saved state from prefs. planets lists every planet that
// counts toward AllPlanets. prefs, bus and logger may be nil. Every
// ThemeChanged published on bus afterwards unlocks ThemeSwitch, so build the
// ThemeSwitcher first.
func NewTracker(planets []string, keys Keys, prefs *storage.Prefs, bus *Bus, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		planets:      slices.Clone(planets),
		keys:         keys,
		visited:      make(map[string]bool),
		achievements: make(map[string]bool),
		postsRead:    make(map[string]bool),
		prefs:        prefs,
		bus:          bus,
		logger:       logger,
	}
	if prefs != nil {
		for _, v := range prefs.Strings(keys.Visited, nil) {
			t.visited[v] = true
		}
		for _, a := range prefs.Strings(keys.Achievements, nil) {
			t.achievements[a] = true
		}
		for _, p := range prefs.Strings(keys.PostsRead, nil) {
			t.postsRead[p] = true
		}
	}
	logger.Debug("loaded profile",
		zap.Int("visited", len(t.visited)),
		zap.Int("achievements", len(t.achievements)))
	if bus != nil {
		t.themeSub = On(bus, func(ThemeChanged) {
			t.Unlock(ThemeSwitch)
		})
	}
	return t
}

// Close detaches the tracker from the bus.
func (t *Tracker) Close() {
	t.themeSub.Unsubscribe()
}

// TrackFirstVisit unlocks FirstVisit if it is not already unlocked.
func (t *Tracker) TrackFirstVisit() bool {
	return t.Unlock(FirstVisit)
}

// PageFromPath maps a route path to its page name: "/" and "" are
// "landing", otherwise the first segment.
func PageFromPath(path string) string {
	seg := strings.Split(strings.TrimPrefix(path, "/"), "/")[0]
	if seg == "" {
		return "landing"
	}
	return seg
}

// VisitPlanet records a first visit to name and unlocks AllPlanets once
// every configured planet has been visited. The landing page is not a
// planet and is ignored. It reports whether this was a first visit.
func (t *Tracker) VisitPlanet(name string) bool {
	if name == "" || name == "landing" || t.visited[name] {
		return false
	}
	t.visited[name] = true
	t.logger.Info("first visit to planet", zap.String("planet", name))
	if t.bus != nil {
		t.bus.Publish(PlanetVisited{Planet: name})
	}
	if len(t.planets) > 0 && t.visitedAll() {
		t.Unlock(AllPlanets)
	}
	return true
}

func (t *Tracker) visitedAll() bool {
	for _, p := range t.planets {
		if !t.visited[p] {
			return false
		}
	}
	return true
}

// ReadPost records that slug was read and unlocks BlogReader at
// PostsForScholar distinct posts.
func (t *Tracker) ReadPost(slug string) {
	if slug == "" || t.postsRead[slug] {
		return
	}
	t.postsRead[slug] = true
	if len(t.postsRead) >= PostsForScholar {
		t.Unlock(BlogReader)
	}
	t.Save()
}

// Unlock marks id as unlocked, persists, and publishes AchievementUnlocked
// for catalog entries. It reports whether id was newly unlocked.
func (t *Tracker) Unlock(id string) bool {
	if id == "" || t.achievements[id] {
		return false
	}
	t.achievements[id] = true
	if a, ok := Achievements[id]; ok {
		t.logger.Info("achievement unlocked", zap.String("id", id), zap.String("name", a.Name))
		if t.bus != nil {
			t.bus.Publish(AchievementUnlocked{Achievement: a})
		}
	}
	t.Save()
	return true
}

// Unlocked reports whether id is unlocked.
func (t *Tracker) Unlocked(id string) bool {
	return t.achievements[id]
}

// Visited reports whether planet has been visited.
func (t *Tracker) Visited(planet string) bool {
	return t.visited[planet]
}

// Save persists the tracker. Failures are logged by prefs.
func (t *Tracker) Save() {
	if t.prefs == nil {
		return
	}
	st := t.State()
	t.prefs.Put(t.keys.Visited, st.Visited)
	t.prefs.Put(t.keys.Achievements, st.Achievements)
	t.prefs.Put(t.keys.PostsRead, st.PostsRead)
}

// State returns a sorted snapshot.
func (t *Tracker) State() State {
	return State{
		Visited:      sortedKeys(t.visited),
		Achievements: sortedKeys(t.achievements),
		PostsRead:    sortedKeys(t.postsRead),
	}
}

// Reset forgets everything and persists the empty state.
func (t *Tracker) Reset() {
	clear(t.visited)
	clear(t.achievements)
	clear(t.postsRead)
	t.Save()
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

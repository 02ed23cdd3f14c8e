package pages

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/devverse/blog"
)

func TestAboutFadesSectionsIn(t *testing.T) {
	h := newHarness(t)
	p := &About{sections: []Section{
		{Title: "One", Body: "First section body."},
		{Title: "Two", Body: "Second section body."},
	}}
	h.mount(t, p)

	require.Len(t, p.nodes, 2)
	assert.Zero(t, p.nodes[1].Alpha)
	assert.Greater(t, p.nodes[1].Y, p.nodes[0].Y)

	h.animate(2)
	for _, n := range p.nodes {
		assert.InDelta(t, 1, n.Alpha, 1e-6)
	}
	assert.Greater(t, h.m.Root.Height, p.nodes[1].Y)
}

func TestProjectsUseLinksWhenSet(t *testing.T) {
	h := newHarness(t)
	p := &Projects{projects: []Project{
		{Name: "Linked", Link: "https://example.com/linked"},
		{Name: "Plain"},
	}}
	h.mount(t, p)

	require.Len(t, p.cards, 2)
	assert.Equal(t, "https://example.com/linked", p.cards[0].Href)
	assert.Empty(t, p.cards[1].Href)
	assert.True(t, p.cards[1].Find("card_bg").Interactable)

	// 880 wide column fits two cards per row.
	assert.Equal(t, p.cards[0].Y, p.cards[1].Y)
	p.Resize(500, 720)
	assert.Greater(t, p.cards[1].Y, p.cards[0].Y)
}

func TestSkillBarsGrowToLevel(t *testing.T) {
	h := newHarness(t)
	p := &Skills{groups: []SkillGroup{{
		Name:   "Languages",
		Skills: []Skill{{Name: "Go", Level: 90}, {Name: "SQL", Level: 50}},
	}}}
	h.mount(t, p)

	bar := p.bars[0][1]
	assert.Zero(t, bar.fill.Width)
	assert.Equal(t, maxColumn, bar.track.Width)

	h.animate(barDelay + barDuration + 0.2)
	assert.InDelta(t, maxColumn*0.5, bar.fill.Width, 1e-3)
	assert.InDelta(t, maxColumn*0.9, p.bars[0][0].fill.Width, 1e-3)

	p.Resize(500, 720)
	_, width := column(500)
	assert.InDelta(t, width*0.5, bar.fill.Width, 1e-3)
}

func newLibrary(t *testing.T, fsys fstest.MapFS) *blog.Library {
	t.Helper()
	lib := blog.NewLibrary(fsys, "posts", nil)
	require.NoError(t, lib.Reload())
	return lib
}

func TestBlogListRebuildsAfterReload(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/first.md": {Data: []byte("---\ndate: \"2024-01-01\"\n---\n# First\n\nHello.\n")},
	}
	h := newHarness(t)
	h.m.Blog = newLibrary(t, fsys)
	p := &BlogList{}
	h.mount(t, p)

	require.Equal(t, 1, p.Cards())
	assert.Equal(t, "/blog/first", h.m.Root.Find("post:first").Href)

	p.Update(0.016)
	assert.Equal(t, 1, p.Cards())

	fsys["posts/second.md"] = &fstest.MapFile{Data: []byte("---\ndate: \"2024-02-01\"\n---\n# Second\n")}
	require.NoError(t, h.m.Blog.Reload())
	p.Update(0.016)
	assert.Equal(t, 2, p.Cards())
	assert.NotNil(t, h.m.Root.Find("post:second"))
}

func TestBlogListWithoutLibraryShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	p := &BlogList{}
	h.mount(t, p)
	assert.Equal(t, 1, p.Cards())
	assert.NotNil(t, h.m.Root.Find("post:"+blog.Placeholder().Slug))
}

func TestBlogPostRecordsRead(t *testing.T) {
	h := newHarness(t)
	h.m.Blog = newLibrary(t, fstest.MapFS{
		"posts/hello.md": {Data: []byte("# Hello\n\nBody text.\n\n- one\n- two\n")},
	})
	h.m.Params = map[string]string{"slug": "hello"}
	p := &BlogPost{}
	h.mount(t, p)

	assert.True(t, p.Found())
	assert.NotEmpty(t, p.blocks)
	assert.Contains(t, h.m.Tracker.State().PostsRead, "hello")
}

func TestBlogPostUnknownSlug(t *testing.T) {
	h := newHarness(t)
	h.m.Blog = newLibrary(t, fstest.MapFS{})
	h.m.Params = map[string]string{"slug": "missing"}
	p := &BlogPost{}
	h.mount(t, p)

	assert.False(t, p.Found())
	assert.Equal(t, "PostNotFound", p.header.title.TextBlock.Content)
	assert.Empty(t, h.m.Tracker.State().PostsRead)
	assert.Equal(t, "/blog", p.header.back.Href)
}

func TestNotFoundLinksHome(t *testing.T) {
	h := newHarness(t)
	p := &NotFound{}
	h.mount(t, p)

	assert.Equal(t, "NotFoundCode", p.code.TextBlock.Content)
	assert.Equal(t, "/", p.home.Href)
	assert.True(t, p.home.Children()[0].Interactable)
}

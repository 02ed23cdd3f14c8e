package pages

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/phanxgames/devverse"
	"github.com/phanxgames/devverse/blog"
)

const (
	postCardHeight = 150.0
	dateLayout     = "January 2, 2006"
)

// posts returns the library's posts, or the placeholder without a library.
func posts(m *devverse.Mount) []blog.Post {
	if m.Blog == nil {
		return []blog.Post{blog.Placeholder()}
	}
	return m.Blog.Posts()
}

func postsCount(m *devverse.Mount, n int) string {
	if m.Locale == nil {
		return fmt.Sprintf("%d posts", n)
	}
	return m.Locale.N("PostsCount", n)
}

// BlogList shows one card per post, newest first. It rebuilds when the blog
// library reloads.
type BlogList struct {
	m       *devverse.Mount
	header  *pageHeader
	count   *devverse.Node
	list    *devverse.Node
	cards   []*devverse.Node
	version uint64
	w       int
}

// Mount implements devverse.Page.
func (p *BlogList) Mount(_ context.Context, m *devverse.Mount) error {
	p.m = m
	p.header = newHeader(m, "BlogTitle", "/", "BackToPortal")
	p.count = label(m.Root, "post_count", "", m.Fonts.Small, mutedColor, 0, 0)
	p.list = devverse.NewContainer("post_list")
	m.Root.AddChild(p.list)
	p.build()
	p.layout(m.Width)
	return nil
}

func (p *BlogList) build() {
	m := p.m
	p.list.RemoveChildren()
	p.cards = p.cards[:0]
	if m.Blog != nil {
		p.version = m.Blog.Version()
	}
	all := posts(m)
	p.count.SetText(postsCount(m, len(all)))
	accent := primary(m)
	for _, post := range all {
		bg := devverse.NewRect("post_bg", 0, postCardHeight, panelColor)
		bg.StrokeColor = accent.WithAlpha(0.4)
		bg.StrokeWidth = 1
		card := devverse.NewLink("post:"+post.Slug, "/blog/"+post.Slug, bg)
		label(card, "post_title", post.Title, m.Fonts.Heading, accent, gap, gap)
		meta := post.Date.Format(dateLayout)
		if len(post.Tags) > 0 {
			meta += "  ·  " + strings.Join(post.Tags, ", ")
		}
		label(card, "post_meta", meta, m.Fonts.Small, mutedColor, gap, gap+38)
		label(card, "post_summary", post.Summary, m.Fonts.Body, textColor, gap, gap+62)
		label(card, "post_more", m.T("ReadMore", nil)+" →", m.Fonts.Small, accent, gap, postCardHeight-gap-14)
		p.list.AddChild(card)
		p.cards = append(p.cards, card)
	}
}

func (p *BlogList) layout(w int) {
	p.w = w
	y := p.header.place(w)
	left, width := column(w)
	p.count.SetPosition(left, y-gap+4)
	y += 28
	for _, c := range p.cards {
		c.Find("post_bg").Width = width
		c.Find("post_summary").TextBlock.SetWrapWidth(width - 2*gap)
		c.SetPosition(left, y)
		y += postCardHeight + gap
	}
	p.m.Root.Height = y + margin
}

// Update rebuilds the list after the library reloads.
func (p *BlogList) Update(float64) {
	if p.m.Blog == nil || p.m.Blog.Version() == p.version {
		return
	}
	named(p.m, "blog").Debug("posts reloaded, rebuilding list", zap.Uint64("version", p.m.Blog.Version()))
	p.build()
	p.layout(p.w)
}

// Resize implements devverse.Resizer.
func (p *BlogList) Resize(w, _ int) {
	p.layout(w)
}

// Unmount implements devverse.Page.
func (p *BlogList) Unmount() {}

// Cards returns the number of post cards shown.
func (p *BlogList) Cards() int {
	return len(p.cards)
}

// BlogPost shows one post and records that it was read.
type BlogPost struct {
	m      *devverse.Mount
	header *pageHeader
	meta   *devverse.Node
	blocks []*devverse.Node
	found  bool
}

// Mount implements devverse.Page. An unknown slug shows a short notice
// instead of the post.
func (p *BlogPost) Mount(_ context.Context, m *devverse.Mount) error {
	p.m = m
	slug := m.Params["slug"]
	var post blog.Post
	if m.Blog != nil {
		post, p.found = m.Blog.Post(slug)
	} else if ph := blog.Placeholder(); ph.Slug == slug {
		post, p.found = ph, true
	}

	p.header = newHeader(m, "BlogTitle", "/blog", "BackToBlog")
	if !p.found {
		named(m, "blog").Info("post not found", zap.String("slug", slug))
		p.header.title.SetText(m.T("PostNotFound", nil))
		p.layout(m.Width)
		return nil
	}

	p.header.title.SetText(post.Title)
	meta := post.Date.Format(dateLayout)
	if len(post.Tags) > 0 {
		meta += "  ·  " + strings.Join(post.Tags, ", ")
	}
	p.meta = label(m.Root, "post_meta", meta, m.Fonts.Small, mutedColor, 0, 0)
	for _, b := range post.Blocks {
		p.blocks = append(p.blocks, p.addBlock(b))
	}
	p.layout(m.Width)

	if m.Tracker != nil {
		m.Tracker.ReadPost(post.Slug)
	}
	return nil
}

func (p *BlogPost) addBlock(b blog.Block) *devverse.Node {
	m := p.m
	var n *devverse.Node
	switch b.Kind {
	case blog.Heading:
		font := m.Fonts.Heading
		if b.Level > 2 {
			font = m.Fonts.Body
		}
		n = devverse.NewText("block_heading", b.Text, font)
		n.TextBlock.Color = primary(m)
	case blog.Code:
		n = devverse.NewText("block_code", b.Text, m.Fonts.Small)
		n.TextBlock.Color = devverse.MustHex("#9EF0C4")
	case blog.ListItem:
		n = devverse.NewText("block_item", strings.Repeat("  ", max(b.Level-1, 0))+"• "+b.Text, m.Fonts.Body)
		n.TextBlock.Color = textColor
	case blog.Quote:
		n = devverse.NewText("block_quote", "“"+b.Text+"”", m.Fonts.Body)
		n.TextBlock.Color = mutedColor
	default:
		n = devverse.NewText("block_paragraph", b.Text, m.Fonts.Body)
		n.TextBlock.Color = textColor
	}
	m.Root.AddChild(n)
	return n
}

func (p *BlogPost) layout(w int) {
	left, width := column(w)
	p.header.title.TextBlock.SetWrapWidth(width)
	y := p.header.place(w)
	if p.meta != nil {
		p.meta.SetPosition(left, y-gap+4)
		y += 28
	}
	for _, n := range p.blocks {
		indent := 0.0
		if n.Name == "block_code" || n.Name == "block_quote" {
			indent = gap
		}
		if n.Name == "block_code" {
			n.TextBlock.SetWrapWidth(0)
		} else {
			n.TextBlock.SetWrapWidth(width - indent)
		}
		n.SetPosition(left+indent, y)
		_, h := n.TextBlock.Size()
		y += h + 14
	}
	p.m.Root.Height = y + margin
}

// Resize implements devverse.Resizer.
func (p *BlogPost) Resize(w, _ int) {
	p.layout(w)
}

// Found reports whether the slug matched a post.
func (p *BlogPost) Found() bool {
	return p.found
}

// Unmount implements devverse.Page.
func (p *BlogPost) Unmount() {}

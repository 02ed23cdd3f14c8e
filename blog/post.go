// Package blog loads markdown posts into renderable blocks.
package blog

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// BlockKind classifies a Block.
type BlockKind int

// Block kinds.
const (
	Paragraph BlockKind = iota
	Heading
	Code
	ListItem
	Quote
)

var kindNames = [...]string{"paragraph", "heading", "code", "list-item", "quote"}

// String returns the kind name.
func (k BlockKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// Block is one renderable unit of a post body.
type Block struct {
	Kind  BlockKind
	Level int // heading level, or list nesting depth starting at 1
	Text  string
}

// Post is a parsed markdown post.
type Post struct {
	Slug    string
	Title   string
	Date    time.Time
	Tags    []string
	Summary string
	Blocks  []Block
}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
}

const summaryLimit = 160

var dateLayouts = []string{"2006-01-02", time.RFC3339, "January 2, 2006"}

var md = goldmark.New()

// Parse parses src as a post. Optional YAML front matter between leading
// "---" lines supplies the title, date, tags and summary. The title falls
// back to the first level-one heading, then to slug. The summary falls back
// to the first paragraph.
func Parse(slug string, src []byte) (Post, error) {
	fm, body, err := splitFrontMatter(src)
	if err != nil {
		return Post{}, fmt.Errorf("post %q: %w", slug, err)
	}
	p := Post{
		Slug:    slug,
		Title:   strings.TrimSpace(fm.Title),
		Tags:    fm.Tags,
		Summary: strings.TrimSpace(fm.Summary),
		Blocks:  blocks(body),
	}
	if fm.Date != "" {
		d, err := parseDate(fm.Date)
		if err != nil {
			return Post{}, fmt.Errorf("post %q: %w", slug, err)
		}
		p.Date = d
	}
	if p.Title == "" {
		p.Title = slug
		for _, b := range p.Blocks {
			if b.Kind == Heading && b.Level == 1 {
				p.Title = b.Text
				break
			}
		}
	}
	if p.Summary == "" {
		for _, b := range p.Blocks {
			if b.Kind == Paragraph {
				p.Summary = truncate(b.Text, summaryLimit)
				break
			}
		}
	}
	return p, nil
}

func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return fm, src, nil
	}
	rest := normalized[len("---\n"):]
	var head, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---\n")):
		body = rest[len("---\n"):]
	default:
		end := bytes.Index(rest, []byte("\n---\n"))
		if end < 0 {
			if !bytes.HasSuffix(rest, []byte("\n---")) {
				return fm, nil, fmt.Errorf("unterminated front matter")
			}
			end = len(rest) - len("\n---")
			head, body = rest[:end], nil
		} else {
			head, body = rest[:end], rest[end+len("\n---\n"):]
		}
	}
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return fm, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, body, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func blocks(src []byte) []Block {
	doc := md.Parser().Parse(text.NewReader(src))
	var out []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			out = append(out, Block{Kind: Heading, Level: n.Level, Text: inlineText(n, src)})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			out = append(out, Block{Kind: Code, Text: linesText(n, src)})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			b := Block{Kind: Paragraph, Text: inlineText(n, src)}
			switch n.Parent().(type) {
			case *ast.ListItem:
				b.Kind, b.Level = ListItem, listDepth(n)
			case *ast.Blockquote:
				b.Kind = Quote
			}
			if b.Text != "" {
				out = append(out, b)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				sb.Write(c.Segment.Value(src))
				if c.SoftLineBreak() || c.HardLineBreak() {
					sb.WriteByte(' ')
				}
			case *ast.String:
				sb.Write(c.Value)
			case *ast.AutoLink:
				sb.Write(c.Label(src))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func linesText(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func listDepth(n ast.Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}
	return depth
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:limit-1])) + "…"
}

// Placeholder is shown when no post could be loaded.
func Placeholder() Post {
	return Post{
		Slug:    "welcome",
		Title:   "Welcome to My Blog",
		Date:    time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Tags:    []string{"Coming Soon"},
		Summary: "Blog posts will be available soon. I'm currently working on some cosmic content!",
		Blocks: []Block{
			{Kind: Paragraph, Text: "Blog posts will be available soon. I'm currently working on some cosmic content!"},
		},
	}
}

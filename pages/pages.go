// Package pages holds the DevVerse screens: the landing portal, one page per
// planet, the blog post reader and the not-found page.
//
// Pages build their node trees under Mount.Root, tween themselves in through
// Mount.Animator and release anything else they own in Unmount. RegisterAll
// adds every page to a registry for the app's default route table.
package pages

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/devverse"
)

//go:embed content.yaml
var defaultContent []byte

// Content is the static copy the about, projects and skills pages show.
type Content struct {
	About    []Section    `yaml:"about"`
	Projects []Project    `yaml:"projects"`
	Skills   []SkillGroup `yaml:"skills"`
}

// Section is one titled block of the about page.
type Section struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Project is one card on the projects page.
type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Link        string   `yaml:"link"`
}

// SkillGroup is a titled list of skill bars.
type SkillGroup struct {
	Name   string  `yaml:"name"`
	Skills []Skill `yaml:"skills"`
}

// Skill is one bar; Level is a percentage.
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

// ParseContent decodes YAML page content and checks skill levels.
func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse page content: %w", err)
	}
	for _, g := range c.Skills {
		for _, s := range g.Skills {
			if s.Level < 0 || s.Level > 100 {
				return nil, fmt.Errorf("parse page content: skill %q: level %d outside 0..100", s.Name, s.Level)
			}
		}
	}
	return &c, nil
}

var loadDefault = sync.OnceValues(func() (*Content, error) {
	return ParseContent(defaultContent)
})

// DefaultContent returns the embedded page content.
func DefaultContent() *Content {
	c, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return c
}

// RegisterAll registers every page under the ids the default routes use. A
// nil content uses DefaultContent.
func RegisterAll(reg *devverse.Registry, content *Content) *devverse.Registry {
	if content == nil {
		content = DefaultContent()
	}
	return reg.
		Register(devverse.PageLanding, func() devverse.Page { return &Landing{} }).
		Register(devverse.PageAbout, func() devverse.Page { return &About{sections: content.About} }).
		Register(devverse.PageProjects, func() devverse.Page { return &Projects{projects: content.Projects} }).
		Register(devverse.PageSkills, func() devverse.Page { return &Skills{groups: content.Skills} }).
		Register(devverse.PageBlog, func() devverse.Page { return &BlogList{} }).
		Register(devverse.PagePost, func() devverse.Page { return &BlogPost{} }).
		Register(devverse.PageContact, func() devverse.Page { return &Contact{} }).
		Register(devverse.PageNotFound, func() devverse.Page { return &NotFound{} })
}

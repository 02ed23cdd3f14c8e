package blog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Load parses every *.md file in dir of fsys and returns the posts newest
// first, ties broken by slug. Unreadable or malformed posts are logged and
// skipped. A missing directory yields no posts and no error.
func Load(fsys fs.FS, dir string, logger *zap.Logger) ([]Post, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("blog directory not found", zap.String("dir", dir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blog dir: %w", err)
	}
	var posts []Post
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".md") {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		src, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			logger.Warn("could not read post", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		p, err := Parse(slug, src)
		if err != nil {
			logger.Warn("could not parse post", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		logger.Debug("loaded post", zap.String("slug", slug))
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
	return posts, nil
}

// Library holds the current post set. It is safe for concurrent use.
type Library struct {
	fsys   fs.FS
	dir    string
	logger *zap.Logger

	mu      sync.RWMutex
	posts   []Post
	version uint64
}

// NewLibrary creates a library over dir in fsys. Call Reload to populate it.
func NewLibrary(fsys fs.FS, dir string, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{fsys: fsys, dir: dir, logger: logger, posts: []Post{Placeholder()}}
}

// Reload re-reads every post. When nothing loads the library holds only
// the placeholder post. On error the previous posts are kept.
func (l *Library) Reload() error {
	posts, err := Load(l.fsys, l.dir, l.logger)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		l.logger.Info("no blog posts found, showing placeholder")
		posts = []Post{Placeholder()}
	}
	l.mu.Lock()
	l.posts = posts
	l.version++
	l.mu.Unlock()
	return nil
}

// Posts returns the posts, newest first.
func (l *Library) Posts() []Post {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Post, len(l.posts))
	copy(out, l.posts)
	return out
}

// Post looks up a post by slug.
func (l *Library) Post(slug string) (Post, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// Version increments on every successful Reload.
func (l *Library) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

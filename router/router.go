package router

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Handler runs when a route resolves. params holds the bound ":name"
// segments (empty for exact matches) and path is the normalized path.
type Handler func(ctx context.Context, params Params, path string) error

// BeforeHook runs before a navigation resolves. Returning false cancels the
// navigation. A hook may block; hooks run one after another.
type BeforeHook func(ctx context.Context, to, from string) (bool, error)

// AfterHook runs after a navigation resolved to a route or fell through
// with no not-found handler.
type AfterHook func(ctx context.Context, path string) error

// NotFoundHandler runs when no route resolves.
type NotFoundHandler func(ctx context.Context, path string) error

// Scroller resets the viewport after a navigation.
type Scroller interface {
	ScrollTo(x, y float64)
}

// ScrollFunc adapts a function to Scroller.
type ScrollFunc func(x, y float64)

// ScrollTo calls f(x, y).
func (f ScrollFunc) ScrollTo(x, y float64) { f(x, y) }

// Route pairs a pattern with its handler for bulk registration.
type Route struct {
	Pattern string
	Handler Handler
}

// Option configures a Router.
type Option func(*Router)

// WithHistory sets the history the router pushes to. Defaults to a new
// MemoryHistory.
func WithHistory(h History) Option {
	return func(r *Router) {
		r.history = h
	}
}

// WithScroller sets the viewport scroller reset after each navigation.
func WithScroller(s Scroller) Option {
	return func(r *Router) {
		r.scroller = s
	}
}

// WithLogger sets the logger used for contained faults and tracing.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// Router maps paths to handlers and runs the navigation hook pipeline.
// It is not safe for concurrent use; drive it from the frame goroutine.
type Router struct {
	routes   map[string]Handler
	order    []string // registration order, used for pattern matching
	current  string
	before   []BeforeHook
	after    []AfterHook
	notFound NotFoundHandler
	history  History
	scroller Scroller
	logger   *zap.Logger
}

// New creates a router with an empty route table.
func New(opts ...Option) *Router {
	r := &Router{
		routes: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewMemoryHistory()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Register adds a route. Registering an existing pattern replaces its handler
// and keeps its original position in pattern-matching order.
func (r *Router) Register(pattern string, handler Handler) *Router {
	if _, exists := r.routes[pattern]; !exists {
		r.order = append(r.order, pattern)
	}
	r.routes[pattern] = handler
	return r
}

// RegisterRoutes registers each route in slice order.
func (r *Router) RegisterRoutes(routes []Route) *Router {
	for _, rt := range routes {
		r.Register(rt.Pattern, rt.Handler)
	}
	return r
}

// SetNotFound sets (or replaces) the handler for unresolved paths.
func (r *Router) SetNotFound(handler NotFoundHandler) *Router {
	r.notFound = handler
	return r
}

// BeforeEach appends a before-navigation hook.
func (r *Router) BeforeEach(hook BeforeHook) *Router {
	r.before = append(r.before, hook)
	return r
}

// AfterEach appends an after-navigation hook.
func (r *Router) AfterEach(hook AfterHook) *Router {
	r.after = append(r.after, hook)
	return r
}

// Patterns returns the registered patterns in registration order.
func (r *Router) Patterns() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// CurrentPath returns the last path the router resolved, successfully or not.
// It is empty before the first navigation.
func (r *Router) CurrentPath() string {
	return r.current
}

// History returns the router's history.
func (r *Router) History() History {
	return r.history
}

// Resolve finds the handler for an already-normalized path: an exact match
// first, then registered patterns in registration order.
func (r *Router) Resolve(path string) (pattern string, handler Handler, params Params, ok bool) {
	if h, exists := r.routes[path]; exists {
		return path, h, Params{}, true
	}
	for _, p := range r.order {
		if bound, matched := Match(p, path); matched {
			return p, r.routes[p], bound, true
		}
	}
	return "", nil, nil, false
}

// Start performs the initial navigation, replacing rather than pushing the
// history entry.
func (r *Router) Start(ctx context.Context, path string) Result {
	return r.Navigate(ctx, path, WithReplace())
}

// Navigate runs the navigation pipeline for path:
//
//  1. normalize the path;
//  2. run before-hooks in order with (target, current); false cancels;
//  3. resolve a route;
//  4. with no route and a not-found handler, run it and stop;
//  5. with a route, push or replace history and run the handler;
//  6. record the path as current;
//  7. run after-hooks in order;
//  8. scroll the viewport to the top.
//
// Faults are logged, never returned.
func (r *Router) Navigate(ctx context.Context, path string, opts ...NavigateOption) Result {
	var o NavigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	path = NormalizePath(path)
	res := Result{Path: path, Outcome: Cancelled}
	from := r.current

	for i, hook := range r.before {
		if err := ctx.Err(); err != nil {
			r.logger.Debug("navigation abandoned", zap.String("to", path), zap.Error(err))
			return res
		}
		proceed, err := r.runBefore(ctx, hook, path, from)
		if err != nil {
			r.logger.Error("before hook failed",
				zap.Int("hook", i), zap.String("to", path), zap.Error(err))
			return res
		}
		if !proceed {
			r.logger.Debug("navigation cancelled", zap.Int("hook", i), zap.String("to", path))
			return res
		}
	}

	pattern, handler, params, found := r.Resolve(path)
	switch {
	case !found && r.notFound != nil:
		if err := r.runNotFound(ctx, path); err != nil {
			r.logger.Error("not found handler failed", zap.String("path", path), zap.Error(err))
		}
		r.current = path
		res.Outcome = NotFound
		return res

	case found:
		entry := Entry{Path: path, State: o.State}
		if o.Replace {
			r.history.Replace(entry)
		} else {
			r.history.Push(entry)
		}
		if err := r.runHandler(ctx, handler, params, path); err != nil {
			r.logger.Error("route handler failed",
				zap.String("pattern", pattern), zap.String("path", path), zap.Error(err))
		}
		res.Outcome = Matched
		res.Pattern = pattern
		res.Params = params

	default:
		res.Outcome = Unhandled
	}

	r.current = path

	for i, hook := range r.after {
		if err := r.runAfter(ctx, hook, path); err != nil {
			r.logger.Error("after hook failed",
				zap.Int("hook", i), zap.String("path", path), zap.Error(err))
		}
	}

	if r.scroller != nil {
		r.scroller.ScrollTo(0, 0)
	}
	return res
}

// Back moves history one entry back and resyncs to it with a replace
// navigation. It reports false when there is nothing to go back to.
func (r *Router) Back(ctx context.Context) (Result, bool) {
	e, ok := r.history.Back()
	if !ok {
		return Result{}, false
	}
	return r.Navigate(ctx, e.Path, WithReplace(), WithState(e.State)), true
}

// Forward moves history one entry forward and resyncs to it with a replace
// navigation. It reports false when there is nothing to go forward to.
func (r *Router) Forward(ctx context.Context) (Result, bool) {
	e, ok := r.history.Forward()
	if !ok {
		return Result{}, false
	}
	return r.Navigate(ctx, e.Path, WithReplace(), WithState(e.State)), true
}

// QueryParams parses the query string of rawURL into a flat map. Repeated
// keys keep their last value.
func QueryParams(rawURL string) map[string]string {
	out := map[string]string{}
	_, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		return out
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return out
	}
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}

func (r *Router) runBefore(ctx context.Context, hook BeforeHook, to, from string) (proceed bool, err error) {
	defer recoverFault(&err)
	return hook(ctx, to, from)
}

func (r *Router) runHandler(ctx context.Context, h Handler, params Params, path string) (err error) {
	defer recoverFault(&err)
	return h(ctx, params, path)
}

func (r *Router) runNotFound(ctx context.Context, path string) (err error) {
	defer recoverFault(&err)
	return r.notFound(ctx, path)
}

func (r *Router) runAfter(ctx context.Context, hook AfterHook, path string) (err error) {
	defer recoverFault(&err)
	return hook(ctx, path)
}

// recoverFault turns a panic in user code into an error.
func recoverFault(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("panic: %v", v)
	}
}

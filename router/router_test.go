package router

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type call struct {
	name   string
	params Params
	path   string
}

type recorder struct {
	calls []call
}

func (rec *recorder) handler(name string) Handler {
	return func(_ context.Context, params Params, path string) error {
		rec.calls = append(rec.calls, call{name: name, params: params, path: path})
		return nil
	}
}

func (rec *recorder) last() call {
	if len(rec.calls) == 0 {
		return call{}
	}
	return rec.calls[len(rec.calls)-1]
}

func TestNavigateExactRoutesHaveEmptyParams(t *testing.T) {
	rec := &recorder{}
	r := New()
	for _, p := range []string{"/", "/about", "/projects", "/skills", "/blog", "/contact"} {
		r.Register(p, rec.handler(p))
	}

	for _, p := range []string{"/", "/about", "/projects", "/skills", "/blog", "/contact"} {
		res := r.Navigate(context.Background(), p)
		if res.Outcome != Matched {
			t.Fatalf("Navigate(%q) outcome = %v, want matched", p, res.Outcome)
		}
		got := rec.last()
		want := call{name: p, params: Params{}, path: p}
		if diff := cmp.Diff(want, got, cmp.AllowUnexported(call{})); diff != "" {
			t.Errorf("Navigate(%q) handler call mismatch (-want +got):\n%s", p, diff)
		}
	}
}

func TestNavigateBindsSlug(t *testing.T) {
	rec := &recorder{}
	r := New()
	r.Register("/blog", rec.handler("list"))
	r.Register("/blog/:slug", rec.handler("post"))

	res := r.Navigate(context.Background(), "/blog/hello-world")
	if res.Outcome != Matched {
		t.Fatalf("outcome = %v, want matched", res.Outcome)
	}
	if res.Pattern != "/blog/:slug" {
		t.Errorf("pattern = %q, want /blog/:slug", res.Pattern)
	}
	if diff := cmp.Diff(Params{"slug": "hello-world"}, rec.last().params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchSegmentCounts(t *testing.T) {
	tests := []struct {
		path string
		ok   bool
	}{
		{"/blog/hello-world", true},
		{"/blog", false},
		{"/blog/a/b", false},
		{"blog/x/", true},
		{"/Blog/x", false},
	}
	for _, tt := range tests {
		_, ok := Match("/blog/:slug", tt.path)
		if ok != tt.ok {
			t.Errorf("Match(/blog/:slug, %q) = %v, want %v", tt.path, ok, tt.ok)
		}
	}
}

func TestMatchIgnoresEmptySegments(t *testing.T) {
	params, ok := Match("/a/:x", "//a///b")
	if !ok {
		t.Fatal("expected match with repeated slashes")
	}
	if params["x"] != "b" {
		t.Errorf("x = %q, want b", params["x"])
	}
}

func TestFirstRegisteredPatternWins(t *testing.T) {
	rec := &recorder{}
	r := New()
	r.Register("/a/:x", rec.handler("param"))
	r.Register("/a/b", rec.handler("literal"))

	// "/a/b" is an exact key, so the exact lookup wins over patterns.
	r.Navigate(context.Background(), "/a/b")
	if rec.last().name != "literal" {
		t.Errorf("exact path resolved to %q, want literal", rec.last().name)
	}

	// Through pattern matching the earlier parameterized route is reached first.
	_, _, params, ok := r.Resolve("/a/c")
	if !ok || params["x"] != "c" {
		t.Errorf("Resolve(/a/c) = %v %v, want x=c", params, ok)
	}
}

func TestFirstStructuralMatchWinsOverMoreSpecificPattern(t *testing.T) {
	rec := &recorder{}
	r := New()
	r.Register("/a/:x", rec.handler("first"))
	r.Register("/a/:y/", rec.handler("second"))

	r.Navigate(context.Background(), "/a/b")
	if rec.last().name != "first" {
		t.Errorf("resolved to %q, want first", rec.last().name)
	}
	if diff := cmp.Diff(Params{"x": "b"}, rec.last().params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterOverwriteKeepsOrder(t *testing.T) {
	rec := &recorder{}
	r := New()
	r.Register("/p/:a", rec.handler("a1"))
	r.Register("/p/:b", rec.handler("b"))
	r.Register("/p/:a", rec.handler("a2"))

	if diff := cmp.Diff([]string{"/p/:a", "/p/:b"}, r.Patterns()); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}
	r.Navigate(context.Background(), "/p/1")
	if rec.last().name != "a2" {
		t.Errorf("resolved to %q, want a2", rec.last().name)
	}
}

func TestBeforeHookFalseCancels(t *testing.T) {
	rec := &recorder{}
	hist := NewMemoryHistory()
	r := New(WithHistory(hist))
	r.Register("/", rec.handler("home"))
	r.Register("/about", rec.handler("about"))
	afterRan := false
	r.AfterEach(func(context.Context, string) error {
		afterRan = true
		return nil
	})

	r.Start(context.Background(), "/")
	afterRan = false
	calls := len(rec.calls)

	r.BeforeEach(func(_ context.Context, to, from string) (bool, error) {
		if from != "/" || to != "/about" {
			t.Errorf("hook args = (%q, %q), want (/about, /)", to, from)
		}
		return false, nil
	})
	res := r.Navigate(context.Background(), "/about")

	if res.Outcome != Cancelled {
		t.Errorf("outcome = %v, want cancelled", res.Outcome)
	}
	if r.CurrentPath() != "/" {
		t.Errorf("CurrentPath = %q, want /", r.CurrentPath())
	}
	if len(rec.calls) != calls {
		t.Error("handler should not run after cancellation")
	}
	if afterRan {
		t.Error("after hooks should not run after cancellation")
	}
	if hist.Len() != 1 {
		t.Errorf("history len = %d, want 1", hist.Len())
	}
}

func TestBeforeHooksRunInOrderAndStopAtVeto(t *testing.T) {
	r := New()
	r.Register("/x", func(context.Context, Params, string) error { return nil })
	var order []int
	r.BeforeEach(func(context.Context, string, string) (bool, error) {
		order = append(order, 1)
		return true, nil
	})
	r.BeforeEach(func(context.Context, string, string) (bool, error) {
		order = append(order, 2)
		return false, nil
	})
	r.BeforeEach(func(context.Context, string, string) (bool, error) {
		order = append(order, 3)
		return true, nil
	})
	r.Navigate(context.Background(), "/x")
	if diff := cmp.Diff([]int{1, 2}, order); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}
}

func TestBeforeHookErrorCancels(t *testing.T) {
	r := New()
	ran := false
	r.Register("/x", func(context.Context, Params, string) error {
		ran = true
		return nil
	})
	r.BeforeEach(func(context.Context, string, string) (bool, error) {
		return true, errors.New("boom")
	})
	res := r.Navigate(context.Background(), "/x")
	if res.Outcome != Cancelled || ran {
		t.Errorf("outcome = %v, ran = %v; want cancelled without handler", res.Outcome, ran)
	}
}

func TestCancelledContextStopsBeforeHooks(t *testing.T) {
	r := New()
	r.Register("/x", func(context.Context, Params, string) error { return nil })
	r.BeforeEach(func(context.Context, string, string) (bool, error) { return true, nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if res := r.Navigate(ctx, "/x"); res.Outcome != Cancelled {
		t.Errorf("outcome = %v, want cancelled", res.Outcome)
	}
	if r.CurrentPath() != "" {
		t.Errorf("CurrentPath = %q, want empty", r.CurrentPath())
	}
}

func TestUnhandledPathUpdatesCurrentAndRunsAfterHooks(t *testing.T) {
	r := New()
	r.Register("/", func(context.Context, Params, string) error { return nil })
	var after []string
	r.AfterEach(func(_ context.Context, p string) error {
		after = append(after, p)
		return nil
	})
	r.AfterEach(func(_ context.Context, p string) error {
		after = append(after, p+"#2")
		return nil
	})

	res := r.Navigate(context.Background(), "/nowhere/")
	if res.Outcome != Unhandled {
		t.Errorf("outcome = %v, want unhandled", res.Outcome)
	}
	if r.CurrentPath() != "/nowhere" {
		t.Errorf("CurrentPath = %q, want /nowhere", r.CurrentPath())
	}
	if diff := cmp.Diff([]string{"/nowhere", "/nowhere#2"}, after); diff != "" {
		t.Errorf("after hooks mismatch (-want +got):\n%s", diff)
	}
}

func TestNotFoundSkipsHistoryAndAfterHooks(t *testing.T) {
	hist := NewMemoryHistory()
	scrolled := 0
	r := New(WithHistory(hist), WithScroller(ScrollFunc(func(float64, float64) { scrolled++ })))
	var notFound string
	r.SetNotFound(func(_ context.Context, p string) error {
		notFound = p
		return nil
	})
	afterRan := false
	r.AfterEach(func(context.Context, string) error {
		afterRan = true
		return nil
	})

	res := r.Navigate(context.Background(), "missing")
	if res.Outcome != NotFound {
		t.Errorf("outcome = %v, want not_found", res.Outcome)
	}
	if notFound != "/missing" {
		t.Errorf("not found handler got %q, want /missing", notFound)
	}
	if hist.Len() != 0 {
		t.Errorf("history len = %d, want 0", hist.Len())
	}
	if afterRan {
		t.Error("after hooks should not run for not-found")
	}
	if scrolled != 0 {
		t.Errorf("scrolled %d times, want 0", scrolled)
	}
	if r.CurrentPath() != "/missing" {
		t.Errorf("CurrentPath = %q, want /missing", r.CurrentPath())
	}
}

func TestPathNormalization(t *testing.T) {
	rec := &recorder{}
	r := New()
	r.Register("/about", rec.handler("about"))
	r.Register("/", rec.handler("root"))

	for _, p := range []string{"about/", "/about", "about"} {
		res := r.Navigate(context.Background(), p)
		if res.Path != "/about" || rec.last().name != "about" {
			t.Errorf("Navigate(%q) = %q via %q, want /about", p, res.Path, rec.last().name)
		}
	}
	res := r.Navigate(context.Background(), "/")
	if res.Path != "/" || rec.last().name != "root" {
		t.Errorf("Navigate(/) = %q via %q, want / via root", res.Path, rec.last().name)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":        "/",
		"/":       "/",
		"about":   "/about",
		"about/":  "/about",
		"/about/": "/about",
		"/a/b//":  "/a/b/",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandlerFaultsAreContained(t *testing.T) {
	r := New()
	r.Register("/err", func(context.Context, Params, string) error { return errors.New("bad") })
	r.Register("/panic", func(context.Context, Params, string) error { panic("kaboom") })
	afterCount := 0
	r.AfterEach(func(context.Context, string) error {
		afterCount++
		return nil
	})
	r.AfterEach(func(context.Context, string) error { panic("after") })

	for _, p := range []string{"/err", "/panic"} {
		res := r.Navigate(context.Background(), p)
		if res.Outcome != Matched {
			t.Errorf("Navigate(%q) outcome = %v, want matched", p, res.Outcome)
		}
		if r.CurrentPath() != p {
			t.Errorf("CurrentPath = %q, want %q", r.CurrentPath(), p)
		}
	}
	if afterCount != 2 {
		t.Errorf("after hooks ran %d times, want 2", afterCount)
	}
}

func TestHistoryPushReplaceAndBackForward(t *testing.T) {
	rec := &recorder{}
	hist := NewMemoryHistory()
	r := New(WithHistory(hist))
	for _, p := range []string{"/", "/about", "/skills"} {
		r.Register(p, rec.handler(p))
	}
	ctx := context.Background()

	r.Start(ctx, "/")
	r.Navigate(ctx, "/about", WithState("s1"))
	r.Navigate(ctx, "/skills")
	if hist.Len() != 3 {
		t.Fatalf("history len = %d, want 3", hist.Len())
	}

	res, ok := r.Back(ctx)
	if !ok || res.Path != "/about" {
		t.Fatalf("Back = %q %v, want /about", res.Path, ok)
	}
	if hist.Len() != 3 {
		t.Errorf("Back should not add entries, len = %d", hist.Len())
	}
	cur, _ := hist.Current()
	if cur.State != "s1" {
		t.Errorf("state after Back = %v, want s1", cur.State)
	}

	res, ok = r.Forward(ctx)
	if !ok || res.Path != "/skills" {
		t.Errorf("Forward = %q %v, want /skills", res.Path, ok)
	}
	if _, ok := r.Forward(ctx); ok {
		t.Error("Forward at end should report false")
	}

	r.Back(ctx)
	r.Back(ctx)
	if _, ok := r.Back(ctx); ok {
		t.Error("Back at start should report false")
	}
	r.Navigate(ctx, "/skills")
	want := []Entry{{Path: "/"}, {Path: "/skills"}}
	if diff := cmp.Diff(want, hist.Entries()); diff != "" {
		t.Errorf("push after back should truncate forward entries (-want +got):\n%s", diff)
	}
}

func TestScrollResetAfterNavigation(t *testing.T) {
	var got [][2]float64
	r := New(WithScroller(ScrollFunc(func(x, y float64) { got = append(got, [2]float64{x, y}) })))
	r.Register("/", func(context.Context, Params, string) error { return nil })
	r.Navigate(context.Background(), "/")
	if diff := cmp.Diff([][2]float64{{0, 0}}, got); diff != "" {
		t.Errorf("scroll calls mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryParams(t *testing.T) {
	got := QueryParams("/blog?tag=go&page=2&tag=ebiten")
	want := map[string]string{"tag": "ebiten", "page": "2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("QueryParams mismatch (-want +got):\n%s", diff)
	}
	if len(QueryParams("/blog")) != 0 {
		t.Error("expected no params without a query string")
	}
}

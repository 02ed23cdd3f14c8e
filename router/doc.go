// Package router maps URL-style paths to handlers for a single-window
// application.
//
// A [Router] owns a route table, an in-process [History], and an ordered
// pipeline of before and after hooks that runs around every navigation:
//
//	r := router.New(router.WithLogger(logger))
//	r.Register("/", home)
//	r.Register("/blog/:slug", post)
//	r.BeforeEach(func(ctx context.Context, to, from string) (bool, error) {
//		return to != "/secret", nil
//	})
//	r.Navigate(ctx, "/blog/hello-world")
//
// Exact paths are tried first. Otherwise patterns are tried in registration
// order and the first structural match wins; a literal pattern registered
// after a parameterized one with the same shape is never reached through
// pattern matching.
//
// Faults inside hooks and handlers (errors and panics) are logged and
// contained. Navigate never returns an error; its [Result] reports what
// happened.
package router

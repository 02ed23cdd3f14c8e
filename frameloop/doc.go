// Package frameloop provides the per-frame callback plumbing that visual
// components use instead of scheduling themselves.
//
// A [Scheduler] holds the active callbacks and runs them once per Tick. The
// game's Update method ticks it on the frame goroutine; headless programs and
// tests drive it with a [Ticker]. A [Loop] is one component's registration:
// Start and Stop are idempotent, so a page can always call Stop on teardown
// whether or not its loop ever ran.
package frameloop

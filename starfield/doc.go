// Package starfield simulates and draws a perspective star field with
// pointer-driven parallax.
//
// Each star has a screen position and a depth in [0, MaxDepth]. Every frame
// the depth shrinks by the star's speed; a star reaching depth 0 respawns at a
// random position at MaxDepth, so the field never runs out. Drawing projects
// each star: the pointer offset is multiplied by the current depth (distant
// stars shift more), and radius and opacity scale with 1 - depth/MaxDepth.
//
// Drawing goes through the [Canvas] interface so the simulation has no
// dependency on a graphics backend.
package starfield

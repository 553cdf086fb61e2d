// Package anim holds the animation primitives shared by every surface:
// the Phase lifecycle (Idle, Opening, Steady, Closing), a Transition that
// tracks phase timing, easing ramps and the wheel Arc.
//
// Phases only move forward (Opening, Steady, Closing, gone). The single
// backwards move is Closing to Opening when a new request supersedes an
// outgoing surface.
package anim

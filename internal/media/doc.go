/*
Package media implements the Media Load Orchestrator.

# Overview

Loads run in worker goroutines bounded by a semaphore. Workers own no
engine state: each computes a renderable result and posts a closure back
to the UI loop, which is the only place onDone runs.

# Ordering

Loads are keyed by slot ("playfield", "popup", "wheel/<game>"). Issuing a
new load for a slot cancels the previous one and bumps the slot's
sequence number; a completion whose sequence is no longer current is
dropped on the UI thread. Only the most recent request's onDone fires.

# Fallback Chain

Inside the worker, candidates are tried in order:

 1. explicit request paths
 2. resolver candidates for each media type
 3. the configured system default for each media type
 4. a rendered title card

The orchestrator never reports failure; every load resolves to something
the renderer can draw.

# Resolution

PatternResolver expands per-type glob patterns (doublestar syntax) with
game fields. Until an Index of the media root has been built it globs the
file system directly; afterwards it matches against the in-memory index.
*/
package media

// Package wheel implements the game wheel: a window of slots centered on
// the current selection, slid along an arc when the selection changes.
//
// Normal and fast timings are chosen per request. Jumps of ReseedThreshold
// or more games reseed a fresh window around the destination instead of
// sliding through every game in between. New input during a slide snaps
// the slide to its end before the next one starts.
package wheel

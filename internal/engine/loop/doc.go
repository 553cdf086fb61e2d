// Package loop implements the single UI thread of the engine.
//
// Every state mutation happens inside Step. Worker goroutines (media loads,
// launcher monitors, the debug server) never touch engine state; they hand
// a closure to Post and the closure runs during the next Step.
//
// Step order is fixed and part of the contract:
//  1. queued input events
//  2. posted messages (FIFO)
//  3. animation clock
//  4. due script tasks
//  5. controller timers (attract mode)
//  6. device effects drain
//  7. frame submission
//
// Run drives Step from a single timer aimed at the earliest stage deadline.
// A host with its own frame callback (ebiten's Update) calls Step directly.
package loop

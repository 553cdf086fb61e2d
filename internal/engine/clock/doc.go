// Package clock implements the Animation Clock: one periodic tick that
// advances every animating surface machine. Machines never schedule their
// own timers; they register once and the clock asks each one, in
// registration order, to Advance to the time elapsed since its phase began.
//
// The clock is armed by StartIfNeeded and disarms itself after a tick that
// leaves no machine animating.
package clock

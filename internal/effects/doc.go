// Package effects drives an external feedback device (DOF-style named
// effects) from the UI thread.
//
// Pulses are queued as ON/OFF pairs and drained at most one event per
// interval so a polling device driver sees every transition. A pulse for
// an effect that is already pending extends the existing pulse instead of
// queuing a new one. State effects (Set) bypass the queue.
package effects

// Package mode implements the UI mode controller, the single writer of
// the authoritative surface.
//
// The wheel is always present. At most one of menu and popup is active at
// a time: a request made while another surface is open starts that
// surface's close animation and waits as the pending incoming surface
// until the close finishes. Lifecycle events fire through the script
// bridge before anything changes, and a listener can cancel the request.
//
// The controller also routes input, runs the launch lifecycle and the
// running-game overlay, queues error popups, and drives attract mode as a
// loop stage.
package mode

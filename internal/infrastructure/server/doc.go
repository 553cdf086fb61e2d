// Package server provides the optional debug HTTP server.
//
// Routes:
//   - GET  /health        liveness
//   - GET  /metrics       Prometheus exposition
//   - GET  /api/state     controller snapshot read on the UI thread, plus counters
//   - POST /api/pulse/:name  queue a device pulse (rate limited)
//   - GET  /api/events    websocket feed of fired script events
//
// The server never touches engine state directly: reads go through
// Engine.State and writes are posted to the UI thread.
package server

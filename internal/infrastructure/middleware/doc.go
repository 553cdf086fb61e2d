// Package middleware provides the gin middleware used by the debug server.
//
// Features:
//   - CORS for browser-based debug consoles
//   - Per-client and global rate limiting with golang.org/x/time/rate
//
// Rate limits apply to mutating routes (pulses) so a runaway client
// can't flood the UI thread's message queue.
package middleware

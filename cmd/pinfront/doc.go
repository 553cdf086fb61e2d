// Package main is the PinballY front-end host.
//
// It loads configuration, builds the engine over the YAML game list and
// the exec launcher, and drives it from an ebiten window: every Update is
// one engine Step on the UI thread.
//
// Usage:
//
//	# Windowed, default config
//	./pinfront -config pinfront.toml
//
//	# Development mode (colored logs, debug level)
//	./pinfront -dev
//
//	# No window; the engine runs on its own timer
//	./pinfront -headless
//
// The debug server starts when debug.addr is set.
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main

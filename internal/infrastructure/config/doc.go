// Package config provides layered configuration for the front-end engine.
//
// Values are resolved in three layers:
//  1. Default(): the built-in tuning
//  2. An optional file (.toml or .yaml/.yml) overlaying any subset of fields
//  3. Environment variables (PINFRONT_*) overriding individual fields
//
// Configuration Sections:
//   - Logging: Log level and output format
//   - Loop: UI tick interval and message queue size
//   - Menu, Popup, Running: open/close animation timings
//   - Wheel: step timings, fade, reseed threshold for long jumps
//   - Playfield: crossfade time and target media size
//   - Media: media root, worker count, load timeout, per-type patterns
//   - Script: script files and the per-call watchdog
//   - Effects: feedback device selection and pulse pacing
//   - Attract: idle and switch intervals
//   - Input: key bindings
//   - Debug: optional HTTP debug server
//
// Example Usage:
//
//	cfg, err := config.Load("pinfront.toml")
//	if err != nil {
//		return err
//	}
//	tick := cfg.Loop.TickInterval.Std()
package config

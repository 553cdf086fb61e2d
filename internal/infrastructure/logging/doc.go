// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every engine component receives a named child logger so log lines can be
// filtered by component:
//
//	logger := logging.NewDefault()
//	clockLog := logger.Component("clock")
//	clockLog.Debug("armed", zap.Duration("interval", 8*time.Millisecond))
//
// Script console output is routed through ScriptLevel so console.warn and
// console.error land at the matching zap level.
package logging

/*
Package monitoring provides metrics collection for the front-end engine.

# Overview

Metrics are Prometheus collectors registered against a caller-supplied
registerer, so several engines (tests, tools) can coexist in one process.
A nil *Metrics records nothing.

# Features

- Loop step rate and duration, animations ticking
- UI mode transitions and script-canceled show requests
- Media load outcomes, durations and gate timeouts
- Script events, exceptions, watchdog interrupts, task count
- Device effect signals sent, dropped and queued
- Debug HTTP server requests and event feed connections

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	timer := monitoring.NewTimer(metrics, "playfield")
	// ... load ...
	timer.Stop("ok")
*/
package monitoring

/*
Package resilience provides the circuit breaker in front of feedback
device calls.

A feedback device (cabinet toys, button deck) can vanish or wedge at any
time. The effects queue routes every device call through a Breaker so a
dead device trips the circuit and signals are dropped cheaply until the
cooldown elapses and a probe call succeeds.

	Closed --[Threshold failures]--> Open --[Cooldown]--> Probing
	   ^                              ^                      |
	   +-------[probe succeeds]-------|----------------------+
	                                  +----[probe fails]-----+
*/
package resilience

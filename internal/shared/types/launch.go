package types

// LaunchEvent is a launcher lifecycle notification
type LaunchEvent int

const (
	LaunchStarting LaunchEvent = iota
	LaunchLoaded
	LaunchExited
)

// String returns the string representation of the event
func (e LaunchEvent) String() string {
	switch e {
	case LaunchStarting:
		return "starting"
	case LaunchLoaded:
		return "loaded"
	case LaunchExited:
		return "exited"
	default:
		return "unknown"
	}
}

// LaunchNotice is posted by the launcher as the external process moves
// through its lifecycle. Err is set on LaunchExited when the process failed.
type LaunchNotice struct {
	Event LaunchEvent
	Game  GameRef
	Err   error
}

// Launcher starts an external game process and reports its lifecycle
// through notify, which may be called from any goroutine.
type Launcher interface {
	Launch(game GameRef, notify func(LaunchNotice)) error
}

// EffectClient is a feedback device accepting named states (0 or 1)
type EffectClient interface {
	Ready() bool
	SetNamedState(name string, value int) error
}

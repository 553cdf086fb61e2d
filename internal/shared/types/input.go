package types

// InputKind distinguishes key and joystick transitions
type InputKind int

const (
	KeyDown InputKind = iota
	KeyUp
	JoystickDown
	JoystickUp
)

// String returns the script event name for the kind
func (k InputKind) String() string {
	switch k {
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	case JoystickDown:
		return "joystickbuttondown"
	case JoystickUp:
		return "joystickbuttonup"
	default:
		return "unknown"
	}
}

// Down reports whether this is a press rather than a release
func (k InputKind) Down() bool {
	return k == KeyDown || k == JoystickDown
}

// Input is one key or joystick event
type Input struct {
	Kind   InputKind
	Key    string
	Unit   int
	Button int
	Repeat bool
	// Background is set when the window did not have focus
	Background bool
}

// Command is a bound input command
type Command string

const (
	CmdNone     Command = ""
	CmdNext     Command = "next"
	CmdPrev     Command = "prev"
	CmdNextPage Command = "nextpage"
	CmdPrevPage Command = "prevpage"
	CmdSelect   Command = "select"
	CmdExit     Command = "exit"
	CmdLaunch   Command = "launch"
	CmdInfo     Command = "info"
)

// CommandHandler handles menu commands the engine doesn't implement
// itself. It returns false for unknown commands.
type CommandHandler interface {
	HandleCommand(cmd string) bool
}

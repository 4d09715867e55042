package reload

// State is the loop's position in its state machine.
type State int

const (
	// Waiting means the script file does not exist.
	Waiting State = iota
	// Bound means an entry point is loaded and runs every tick.
	Bound
	// LoadError means the current file version failed to load.
	LoadError
	// RunError means the bound entry point faulted on its last call.
	RunError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Waiting:
		return "WAITING"
	case Bound:
		return "BOUND"
	case LoadError:
		return "LOAD_ERROR"
	case RunError:
		return "RUN_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Stage tags where a failure happened.
type Stage string

const (
	// StageLoad covers reading, compiling and running the top level, and
	// resolving the entry point.
	StageLoad Stage = "load"
	// StageExecution covers calling the entry point.
	StageExecution Stage = "execution"
)

// label is the word used for the stage in on-screen reports.
func (s Stage) label() string {
	if s == StageExecution {
		return "draw"
	}
	return string(s)
}

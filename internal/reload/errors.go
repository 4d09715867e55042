package reload

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEntryPoint is returned when a script loads but defines none of
	// the accepted entry points.
	ErrNoEntryPoint = errors.New("no entry point")

	// ErrPanic wraps a panic recovered from a runtime.
	ErrPanic = errors.New("runtime panic")
)

// Error is a captured script failure.
type Error struct {
	Stage Stage
	// Kind classifies the failure, for example SyntaxError. It is empty
	// for failures reported as a plain message.
	Kind string
	// Msg is the human-readable message.
	Msg string
	Err error
}

func (e *Error) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("%s: %s", e.Stage, e.Msg)
	}
	return fmt.Sprintf("%s error: %s: %s", e.Stage, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Lines returns the report drawn on screen.
func (e *Error) Lines() []string {
	if e.Kind == "" {
		return []string{e.Msg}
	}
	return []string{fmt.Sprintf("%s error: %s", e.Stage.label(), e.Kind), e.Msg}
}

// captureError converts an error from a runtime into an Error. Runtimes
// may classify their errors by implementing ErrorKind and ErrorMessage.
func captureError(stage Stage, err error) *Error {
	e := &Error{Stage: stage, Kind: "Error", Msg: err.Error(), Err: err}

	var kinded interface{ ErrorKind() string }
	if errors.As(err, &kinded) {
		e.Kind = kinded.ErrorKind()
	}
	var messaged interface{ ErrorMessage() string }
	if errors.As(err, &messaged) {
		e.Msg = messaged.ErrorMessage()
	}
	return e
}

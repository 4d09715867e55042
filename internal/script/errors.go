package script

import (
	"errors"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrTimeout is returned when a call exceeds the execution timeout.
	ErrTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned when a looked-up global is not callable.
	ErrNotFunction = errors.New("not a function")
)

// Error describes a failure raised while running Lua code.
type Error struct {
	// Kind is a short classification such as SyntaxError or RuntimeError.
	Kind string
	// Msg is the error message without the traceback.
	Msg string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	return e.Kind + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind returns the classification of the failure.
func (e *Error) ErrorKind() string { return e.Kind }

// ErrorMessage returns the message without the classification.
func (e *Error) ErrorMessage() string { return e.Msg }

// wrapError classifies err. Nil stays nil.
func wrapError(err error, timedOut bool) error {
	if err == nil {
		return nil
	}
	if timedOut {
		return &Error{Kind: "Timeout", Msg: ErrTimeout.Error(), Err: errors.Join(ErrTimeout, err)}
	}

	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return &Error{Kind: "Error", Msg: err.Error(), Err: err}
	}

	kind := "Error"
	switch apiErr.Type {
	case lua.ApiErrorSyntax:
		kind = "SyntaxError"
	case lua.ApiErrorRun:
		kind = "RuntimeError"
	case lua.ApiErrorFile:
		kind = "FileError"
	case lua.ApiErrorError:
		kind = "HandlerError"
	case lua.ApiErrorPanic:
		kind = "Panic"
	}
	msg := err.Error()
	if apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	// Drop any traceback appended to the message.
	if i := strings.Index(msg, "\nstack traceback:"); i >= 0 {
		msg = msg[:i]
	}
	return &Error{Kind: kind, Msg: strings.TrimSpace(msg), Err: err}
}

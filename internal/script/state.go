package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/monolcd/internal/logging"
)

// DefaultExecutionTimeout bounds a single call into Lua.
const DefaultExecutionTimeout = 2 * time.Second

// State wraps a gopher-lua state configured for running drawing scripts.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes calls
// made through State; code holding the raw LState must not run
// concurrently with them.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	log              *logging.Logger

	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the limit for a single call into Lua. Zero or
// a negative duration disables the limit.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithLogger sets the logger that receives script print output.
func WithLogger(l *logging.Logger) StateOption {
	return func(s *State) {
		s.log = logging.OrNop(l).WithComponent("script")
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
		log:              logging.Nop(),
	}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.log)
	state.sandbox.Install()

	return state
}

// openSafeLibraries opens only the Lua standard libraries a drawing script
// needs. io, debug and package are never opened; os is reduced by the
// sandbox.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
		{lua.OsLibName, lua.OpenOs},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// DoString compiles src under the chunk name name and runs its top level.
func (s *State) DoString(name, src string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	fn, err := s.L.Load(strings.NewReader(src), name)
	if err != nil {
		return wrapError(err, false)
	}
	return s.call(fn)
}

// CallFunc calls fn with args, discarding any results.
func (s *State) CallFunc(fn *lua.LFunction, args ...lua.LValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if fn == nil {
		return ErrNotFunction
	}
	return s.call(fn, args...)
}

// call runs fn under the execution timeout with panic recovery. The
// caller holds s.mu.
func (s *State) call(fn *lua.LFunction, args ...lua.LValue) (err error) {
	ctx := context.Background()
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	top := s.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			err = wrapError(fmt.Errorf("lua panic: %v", r), false)
		}
		s.L.SetTop(top)
	}()

	s.L.Push(fn)
	for _, arg := range args {
		s.L.Push(arg)
	}
	callErr := s.L.PCall(len(args), 0, nil)
	return wrapError(callErr, callErr != nil && errors.Is(ctx.Err(), context.DeadlineExceeded))
}

// Lookup returns the first global in names that holds a function, along
// with its name.
func (s *State) Lookup(names ...string) (*lua.LFunction, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, "", false
	}
	for _, name := range names {
		if fn, ok := s.L.GetGlobal(name).(*lua.LFunction); ok {
			return fn, name, true
		}
	}
	return nil, "", false
}

// Close releases the Lua state. It is safe to call more than once.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

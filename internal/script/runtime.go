package script

// Runtime loads one drawing script into a fresh sandboxed State and
// exposes its entry point. A Runtime is used for a single version of a
// script; reloading creates a new one.
type Runtime struct {
	state  *State
	bridge *Bridge
}

// NewRuntime creates a Runtime whose lcd object draws on surface.
func NewRuntime(surface Surface, opts ...StateOption) *Runtime {
	state := NewState(opts...)
	return &Runtime{
		state:  state,
		bridge: NewBridge(state.L, surface),
	}
}

// Exec compiles src and runs its top level. name labels the chunk in
// error messages.
func (r *Runtime) Exec(name string, src []byte) error {
	return r.state.DoString(name, string(src))
}

// Entry returns a function calling the first global in names that is a
// Lua function, passing the lcd object.
func (r *Runtime) Entry(names ...string) (func() error, string, bool) {
	fn, name, ok := r.state.Lookup(names...)
	if !ok {
		return nil, "", false
	}
	lcd := r.bridge.Value()
	return func() error { return r.state.CallFunc(fn, lcd) }, name, true
}

// Close releases the Lua state.
func (r *Runtime) Close() error { return r.state.Close() }

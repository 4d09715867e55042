package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/monolcd/internal/logging"
)

// Sandbox restricts what a drawing script can reach.
type Sandbox struct {
	L   *lua.LState
	log *logging.Logger
}

// safeModules may be loaded with require.
var safeModules = map[string]bool{
	lua.StringLibName: true,
	lua.TabLibName:    true,
	lua.MathLibName:   true,
}

// safeOSFuncs are the members of the os library kept for scripts.
var safeOSFuncs = []string{"time", "clock", "date", "difftime"}

// NewSandbox creates a sandbox for the Lua state.
func NewSandbox(L *lua.LState, log *logging.Logger) *Sandbox {
	return &Sandbox{L: L, log: logging.OrNop(log)}
}

// Install applies the restrictions.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installSafeOS()
	s.installSafePrint()
	s.installSafeRequire()
}

// installSafeOS replaces os with a table holding only the clock and date
// functions.
func (s *Sandbox) installSafeOS() {
	full, ok := s.L.GetGlobal(lua.OsLibName).(*lua.LTable)
	safe := s.L.NewTable()
	if ok {
		for _, name := range safeOSFuncs {
			if fn := full.RawGetString(name); fn != lua.LNil {
				safe.RawSetString(name, fn)
			}
		}
	}
	s.L.SetGlobal(lua.OsLibName, safe)
}

// installSafePrint routes print to the logger.
func (s *Sandbox) installSafePrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.log.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}

// installSafeRequire replaces require with a version that only returns
// the already opened safe libraries.
func (s *Sandbox) installSafeRequire() {
	originalRequire := s.L.GetGlobal("require")
	if originalRequire == lua.LNil {
		return
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !safeModules[modName] {
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}

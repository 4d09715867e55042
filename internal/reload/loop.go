package reload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/monolcd/internal/framebuffer"
	"github.com/dshills/monolcd/internal/logging"
	"github.com/dshills/monolcd/internal/watcher"
)

// DefaultEntryPoints are the accepted entry point names, in lookup order.
var DefaultEntryPoints = []string{"draw", "demo_draw"}

// Report layout for placeholder and error frames.
const (
	reportX       = 2
	reportTop     = 12
	reportSpacing = 10
	// reportGap separates an error header from its message.
	reportGap = 12
)

// EntryPoint draws one frame.
type EntryPoint = func() error

// Runtime is one loaded version of a script.
type Runtime interface {
	// Exec compiles src and runs its top level.
	Exec(name string, src []byte) error
	// Entry returns the first of names defined by the script.
	Entry(names ...string) (EntryPoint, string, bool)
	// Close releases the runtime.
	Close() error
}

// RuntimeFactory creates a fresh Runtime for each load attempt.
type RuntimeFactory func() (Runtime, error)

// Frame describes the outcome of a tick.
type Frame struct {
	State State
	// Reloaded is true when this tick attempted a reload.
	Reloaded bool
	// Entry is the name of the bound entry point, if any.
	Entry string
	// Err is the failure shown on screen, if any.
	Err *Error
}

// Loop drives a script through its reload state machine.
//
// A Loop is not safe for concurrent use; ticks must not overlap.
type Loop struct {
	path    string
	fb      *framebuffer.Framebuffer
	factory RuntimeFactory
	entries []string
	stat    watcher.StatFunc
	read    func(string) ([]byte, error)
	log     *logging.Logger

	state     State
	modTime   time.Time
	known     bool
	runtime   Runtime
	entry     EntryPoint
	entryName string
	lastErr   *Error
	reloads   int
	ticks     uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithEntryPoints sets the accepted entry point names in lookup order.
func WithEntryPoints(names ...string) Option {
	return func(l *Loop) {
		if len(names) > 0 {
			l.entries = append([]string(nil), names...)
		}
	}
}

// WithStat replaces the function used to stat the script.
func WithStat(fn watcher.StatFunc) Option {
	return func(l *Loop) {
		if fn != nil {
			l.stat = fn
		}
	}
}

// WithReadFile replaces the function used to read the script.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(l *Loop) {
		if fn != nil {
			l.read = fn
		}
	}
}

// WithLogger sets the logger for state transitions and failures.
func WithLogger(lg *logging.Logger) Option {
	return func(l *Loop) {
		l.log = logging.OrNop(lg).WithComponent("reload")
	}
}

// New creates a Loop for the script at path drawing on fb.
func New(path string, fb *framebuffer.Framebuffer, factory RuntimeFactory, opts ...Option) *Loop {
	l := &Loop{
		path:    path,
		fb:      fb,
		factory: factory,
		entries: append([]string(nil), DefaultEntryPoints...),
		stat:    os.Stat,
		read:    os.ReadFile,
		log:     logging.Nop(),
		state:   Waiting,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tick runs one step of the state machine and draws one frame.
func (l *Loop) Tick() Frame {
	l.ticks++
	frame := Frame{}

	obs := watcher.Probe(l.path, l.stat)
	if !obs.Exists {
		if obs.Err != nil && l.state != Waiting {
			l.log.Warn("stat %s: %v", l.path, obs.Err)
		}
		l.unbind()
		l.known = false
		l.lastErr = nil
		l.setState(Waiting)
		l.drawReport([]string{fmt.Sprintf("Waiting for %s ...", filepath.Base(l.path))})
		frame.State = l.state
		return frame
	}

	if obs.Changed(l.modTime, l.known) {
		frame.Reloaded = true
		l.reload(obs.ModTime)
	}

	switch l.state {
	case LoadError:
		l.drawReport(l.lastErr.Lines())
	case Bound, RunError:
		l.invoke()
	}

	frame.State = l.state
	frame.Entry = l.entryName
	if l.state == LoadError || l.state == RunError {
		frame.Err = l.lastErr
	}
	return frame
}

// reload discards the current binding and loads the file as of modTime.
// The modification time is recorded whether or not loading succeeds, so a
// broken file is not reloaded until it changes again.
func (l *Loop) reload(modTime time.Time) {
	l.unbind()
	l.modTime = modTime
	l.known = true
	l.reloads++

	if err := l.load(); err != nil {
		l.lastErr = err
		l.setState(LoadError)
		l.log.Warn("%v", err)
		return
	}
	l.lastErr = nil
	l.setState(Bound)
	l.log.Info("loaded %s, entry point %s", l.path, l.entryName)
}

func (l *Loop) load() *Error {
	src, err := l.read(l.path)
	if err != nil {
		return &Error{Stage: StageLoad, Msg: "Read error: " + err.Error(), Err: err}
	}

	rt, err := l.factory()
	if err != nil {
		return captureError(StageLoad, err)
	}
	if err := protect(func() error { return rt.Exec(filepath.Base(l.path), src) }); err != nil {
		_ = rt.Close()
		return captureError(StageLoad, err)
	}

	entry, name, ok := rt.Entry(l.entries...)
	if !ok {
		_ = rt.Close()
		return &Error{Stage: StageLoad, Msg: l.missingEntryMessage(), Err: ErrNoEntryPoint}
	}

	l.runtime = rt
	l.entry = entry
	l.entryName = name
	return nil
}

// invoke calls the bound entry point. A fault keeps the binding.
func (l *Loop) invoke() {
	err := protect(l.entry)
	if err == nil {
		l.lastErr = nil
		l.setState(Bound)
		return
	}

	captured := captureError(StageExecution, err)
	if l.state != RunError || l.lastErr == nil || l.lastErr.Error() != captured.Error() {
		l.log.Warn("%v", captured)
	}
	l.lastErr = captured
	l.setState(RunError)
	l.drawReport(captured.Lines())
}

// unbind drops the entry point and closes its runtime.
func (l *Loop) unbind() {
	if l.runtime != nil {
		if err := l.runtime.Close(); err != nil {
			l.log.Debug("close runtime: %v", err)
		}
	}
	l.runtime = nil
	l.entry = nil
	l.entryName = ""
}

func (l *Loop) setState(s State) {
	if s != l.state {
		l.log.Debug("state %s -> %s", l.state, s)
		l.state = s
	}
}

func (l *Loop) missingEntryMessage() string {
	names := make([]string, len(l.entries))
	for i, n := range l.entries {
		names[i] = n + "(lcd)"
	}
	return fmt.Sprintf("No %s found", strings.Join(names, " or "))
}

// drawReport clears the framebuffer and writes lines of text in the
// built-in font. The first line is set apart when more follow.
func (l *Loop) drawReport(lines []string) {
	face := l.fb.Font()
	defer l.fb.SetFont(face)

	l.fb.Clear()
	l.fb.SetDrawColor(framebuffer.On)
	l.fb.SetFont(nil)

	ascent, _ := l.fb.FontAscentDescent()
	y := reportTop
	for i, line := range lines {
		for _, row := range wrap(l.fb, line, l.fb.Width()-reportX) {
			if y-ascent >= l.fb.Height() {
				return
			}
			l.fb.DrawStr(reportX, y, row)
			y += reportSpacing
		}
		if i == 0 && len(lines) > 1 {
			y += reportGap - reportSpacing
		}
	}
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// LastModTime returns the modification time of the last load attempt.
func (l *Loop) LastModTime() (time.Time, bool) { return l.modTime, l.known }

// LastError returns the failure currently shown, if any.
func (l *Loop) LastError() *Error { return l.lastErr }

// Reloads returns the number of load attempts.
func (l *Loop) Reloads() int { return l.reloads }

// Ticks returns the number of ticks run.
func (l *Loop) Ticks() uint64 { return l.ticks }

// EntryName returns the bound entry point's name.
func (l *Loop) EntryName() string { return l.entryName }

// Path returns the script path.
func (l *Loop) Path() string { return l.path }

// Close releases the bound runtime.
func (l *Loop) Close() error {
	l.unbind()
	return nil
}

// protect runs fn, turning a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

package reload

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/inconsolata"

	"github.com/dshills/monolcd/internal/framebuffer"
)

// marker is the pixel every fake entry point draws.
var marker = image.Pt(127, 63)

type kindError struct{ kind, msg string }

func (e *kindError) Error() string        { return e.kind + ": " + e.msg }
func (e *kindError) ErrorKind() string    { return e.kind }
func (e *kindError) ErrorMessage() string { return e.msg }

// fakeEnv records what the fake runtimes do. A script's source selects
// its behaviour:
//
//	syntax...   Exec fails with a SyntaxError
//	noentry...  loads but defines no entry point
//	demo...     defines only demo_draw
//	panic...    the entry point panics
//	anything    defines draw
type fakeEnv struct {
	fb       *framebuffer.Framebuffer
	execs    int
	closed   int
	calls    map[string]int
	failures map[string]int
}

func newFakeEnv(fb *framebuffer.Framebuffer) *fakeEnv {
	return &fakeEnv{fb: fb, calls: map[string]int{}, failures: map[string]int{}}
}

func (e *fakeEnv) factory() (Runtime, error) { return &fakeRuntime{env: e}, nil }

type fakeRuntime struct {
	env *fakeEnv
	src string
}

func (r *fakeRuntime) Exec(name string, src []byte) error {
	r.env.execs++
	r.src = string(src)
	if strings.HasPrefix(r.src, "syntax") {
		return &kindError{kind: "SyntaxError", msg: name + ":1: unexpected symbol"}
	}
	return nil
}

func (r *fakeRuntime) Entry(names ...string) (EntryPoint, string, bool) {
	if strings.HasPrefix(r.src, "noentry") {
		return nil, "", false
	}
	want := "draw"
	if strings.HasPrefix(r.src, "demo") {
		want = "demo_draw"
	}
	for _, n := range names {
		if n != want {
			continue
		}
		src := r.src
		return func() error {
			r.env.calls[src]++
			if strings.HasPrefix(src, "panic") {
				panic("entry exploded")
			}
			if r.env.failures[src] > 0 {
				r.env.failures[src]--
				return &kindError{kind: "RuntimeError", msg: "attempt to index a nil value"}
			}
			r.env.fb.Clear()
			r.env.fb.DrawPixel(marker.X, marker.Y)
			return nil
		}, n, true
	}
	return nil, "", false
}

func (r *fakeRuntime) Close() error {
	r.env.closed++
	return nil
}

type fixture struct {
	t    *testing.T
	path string
	mod  time.Time
	fb   *framebuffer.Framebuffer
	env  *fakeEnv
	loop *Loop
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	fb, err := framebuffer.New(128, 64)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		t:    t,
		path: filepath.Join(t.TempDir(), "draw.lua"),
		mod:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		fb:   fb,
		env:  newFakeEnv(fb),
	}
	f.loop = New(f.path, fb, f.env.factory, opts...)
	t.Cleanup(func() { _ = f.loop.Close() })
	return f
}

// write replaces the script and advances its modification time.
func (f *fixture) write(src string) {
	f.t.Helper()
	if err := os.WriteFile(f.path, []byte(src), 0o644); err != nil {
		f.t.Fatal(err)
	}
	f.mod = f.mod.Add(time.Second)
	if err := os.Chtimes(f.path, f.mod, f.mod); err != nil {
		f.t.Fatal(err)
	}
}

func (f *fixture) onlyMarker() bool {
	return reflect.DeepEqual(f.fb.Lit(), []image.Point{marker})
}

func TestLoopWaiting(t *testing.T) {
	f := newFixture(t)

	frame := f.loop.Tick()
	if frame.State != Waiting || f.loop.State() != Waiting {
		t.Fatalf("state = %v, want WAITING", frame.State)
	}
	if f.env.execs != 0 {
		t.Errorf("execs = %d while waiting", f.env.execs)
	}
	if len(f.fb.Lit()) == 0 {
		t.Error("no placeholder drawn")
	}
	if _, known := f.loop.LastModTime(); known {
		t.Error("LastModTime known while waiting")
	}
}

func TestLoopBindsAndRunsEachTick(t *testing.T) {
	f := newFixture(t)
	f.write("v1")

	frame := f.loop.Tick()
	if frame.State != Bound || !frame.Reloaded || frame.Entry != "draw" || frame.Err != nil {
		t.Fatalf("frame = %+v", frame)
	}
	if !f.onlyMarker() {
		t.Errorf("lit = %v, want the script's output", f.fb.Lit())
	}

	frame = f.loop.Tick()
	if frame.Reloaded {
		t.Error("unchanged file reloaded")
	}
	if f.env.calls["v1"] != 2 || f.env.execs != 1 {
		t.Errorf("calls = %d, execs = %d; want 2, 1", f.env.calls["v1"], f.env.execs)
	}
	if mod, known := f.loop.LastModTime(); !known || !mod.Equal(f.mod) {
		t.Errorf("LastModTime() = %v, %v", mod, known)
	}
}

func TestLoopDemoEntryPoint(t *testing.T) {
	f := newFixture(t)
	f.write("demo")

	if frame := f.loop.Tick(); frame.State != Bound || frame.Entry != "demo_draw" {
		t.Errorf("frame = %+v, want BOUND with demo_draw", frame)
	}
	if f.loop.EntryName() != "demo_draw" {
		t.Errorf("EntryName() = %q", f.loop.EntryName())
	}
}

func TestLoopStaleEntryNotInvokedAfterBrokenEdit(t *testing.T) {
	f := newFixture(t)
	f.write("v1")
	f.loop.Tick()

	f.write("syntax error here")
	frame := f.loop.Tick()
	if frame.State != LoadError {
		t.Fatalf("state = %v, want LOAD_ERROR", frame.State)
	}
	if f.env.calls["v1"] != 1 {
		t.Errorf("stale entry point called %d times, want 1", f.env.calls["v1"])
	}
	if f.env.closed != 2 {
		t.Errorf("closed = %d, want 2 (old runtime and failed load)", f.env.closed)
	}
	if frame.Err == nil || frame.Err.Stage != StageLoad || frame.Err.Kind != "SyntaxError" {
		t.Errorf("frame.Err = %+v", frame.Err)
	}
	if len(f.fb.Lit()) == 0 || f.fb.Pixel(marker.X, marker.Y) == framebuffer.On {
		t.Error("error report not drawn in place of the script output")
	}
	if f.loop.EntryName() != "" {
		t.Errorf("EntryName() = %q after failed reload", f.loop.EntryName())
	}

	// The broken version is not recompiled while unchanged.
	f.loop.Tick()
	if f.env.execs != 2 || f.env.calls["v1"] != 1 {
		t.Errorf("execs = %d, calls = %d after unchanged tick", f.env.execs, f.env.calls["v1"])
	}
	if f.loop.State() != LoadError {
		t.Errorf("state = %v", f.loop.State())
	}

	f.write("v2")
	if frame := f.loop.Tick(); frame.State != Bound || !f.onlyMarker() {
		t.Errorf("after fix frame = %+v", frame)
	}
	if f.loop.Reloads() != 3 {
		t.Errorf("Reloads() = %d, want 3", f.loop.Reloads())
	}
}

func TestLoopExecutionFaultRetries(t *testing.T) {
	f := newFixture(t)
	f.env.failures["flaky"] = 1
	f.write("flaky")

	frame := f.loop.Tick()
	if frame.State != RunError {
		t.Fatalf("tick 1 state = %v, want RUN_ERROR", frame.State)
	}
	if frame.Err == nil || frame.Err.Stage != StageExecution || frame.Err.Kind != "RuntimeError" {
		t.Errorf("frame.Err = %+v", frame.Err)
	}
	if f.fb.Pixel(marker.X, marker.Y) == framebuffer.On || len(f.fb.Lit()) == 0 {
		t.Error("tick 1 did not render an error report")
	}

	frame = f.loop.Tick()
	if frame.State != Bound || frame.Reloaded || frame.Err != nil {
		t.Fatalf("tick 2 frame = %+v, want BOUND without reload", frame)
	}
	if !f.onlyMarker() {
		t.Errorf("tick 2 lit = %v", f.fb.Lit())
	}
	if f.loop.Reloads() != 1 || f.env.execs != 1 {
		t.Errorf("Reloads() = %d, execs = %d; want 1, 1", f.loop.Reloads(), f.env.execs)
	}
	if f.env.calls["flaky"] != 2 {
		t.Errorf("calls = %d, want 2", f.env.calls["flaky"])
	}
}

func TestLoopMissingEntryPoint(t *testing.T) {
	f := newFixture(t)
	f.write("noentry")

	frame := f.loop.Tick()
	if frame.State != LoadError {
		t.Fatalf("state = %v", frame.State)
	}
	if !errors.Is(frame.Err, ErrNoEntryPoint) {
		t.Errorf("error = %v, want ErrNoEntryPoint", frame.Err)
	}
	if frame.Err.Msg != "No draw(lcd) or demo_draw(lcd) found" {
		t.Errorf("Msg = %q", frame.Err.Msg)
	}
	if got := frame.Err.Lines(); len(got) != 1 {
		t.Errorf("Lines() = %v, want the message alone", got)
	}
}

func TestLoopCustomEntryPoints(t *testing.T) {
	f := newFixture(t, WithEntryPoints("setup_draw"))
	f.write("v1")

	frame := f.loop.Tick()
	if frame.State != LoadError || frame.Err.Msg != "No setup_draw(lcd) found" {
		t.Errorf("frame = %+v", frame)
	}
}

func TestLoopFileRemovedAndRestored(t *testing.T) {
	f := newFixture(t)
	f.write("v1")
	f.loop.Tick()

	if err := os.Remove(f.path); err != nil {
		t.Fatal(err)
	}
	if frame := f.loop.Tick(); frame.State != Waiting {
		t.Fatalf("state = %v, want WAITING", frame.State)
	}
	if f.env.closed != 1 || f.loop.EntryName() != "" {
		t.Errorf("binding kept while waiting: closed = %d", f.env.closed)
	}
	calls := f.env.calls["v1"]

	// Restoring the same content with the same time still reloads.
	if err := os.WriteFile(f.path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(f.path, f.mod, f.mod); err != nil {
		t.Fatal(err)
	}
	frame := f.loop.Tick()
	if frame.State != Bound || !frame.Reloaded {
		t.Errorf("frame = %+v, want a reload to BOUND", frame)
	}
	if f.env.calls["v1"] != calls+1 {
		t.Errorf("calls = %d, want %d", f.env.calls["v1"], calls+1)
	}
}

func TestLoopReadError(t *testing.T) {
	f := newFixture(t, WithReadFile(func(string) ([]byte, error) {
		return nil, errors.New("permission denied")
	}))
	f.write("v1")

	frame := f.loop.Tick()
	if frame.State != LoadError || !strings.HasPrefix(frame.Err.Msg, "Read error: ") {
		t.Errorf("frame = %+v", frame)
	}
	if f.env.execs != 0 {
		t.Errorf("execs = %d after read error", f.env.execs)
	}
}

func TestLoopFactoryError(t *testing.T) {
	fb, _ := framebuffer.New(32, 16)
	path := filepath.Join(t.TempDir(), "draw.lua")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}
	loop := New(path, fb, func() (Runtime, error) { return nil, errors.New("no runtime") })

	frame := loop.Tick()
	if frame.State != LoadError || frame.Err.Stage != StageLoad {
		t.Errorf("frame = %+v", frame)
	}
}

func TestLoopEntryPanic(t *testing.T) {
	f := newFixture(t)
	f.write("panic")

	frame := f.loop.Tick()
	if frame.State != RunError || !errors.Is(frame.Err, ErrPanic) {
		t.Errorf("frame = %+v", frame)
	}
	// The binding survives and is retried.
	f.loop.Tick()
	if f.env.calls["panic"] != 2 {
		t.Errorf("calls = %d, want 2", f.env.calls["panic"])
	}
}

func TestLoopReportKeepsScriptFont(t *testing.T) {
	f := newFixture(t)
	f.fb.SetFont(inconsolata.Regular8x16)
	f.loop.Tick()

	if f.fb.Font() != inconsolata.Regular8x16 {
		t.Error("drawing a report changed the script's font")
	}
	if f.fb.DrawColor() != framebuffer.On {
		t.Errorf("draw color = %v, want On", f.fb.DrawColor())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		Waiting: "WAITING", Bound: "BOUND", LoadError: "LOAD_ERROR", RunError: "RUN_ERROR", State(9): "UNKNOWN",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestErrorLines(t *testing.T) {
	err := &Error{Stage: StageExecution, Kind: "RuntimeError", Msg: "draw.lua:3: boom"}
	want := []string{"draw error: RuntimeError", "draw.lua:3: boom"}
	if got := err.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
	if got := err.Error(); got != "execution error: RuntimeError: draw.lua:3: boom" {
		t.Errorf("Error() = %q", got)
	}

	plain := captureError(StageLoad, errors.New("plain"))
	if plain.Kind != "Error" || plain.Msg != "plain" {
		t.Errorf("captureError(plain) = %+v", plain)
	}
}

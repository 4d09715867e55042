package app

import (
	"context"
	"errors"
	"io"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/monolcd/internal/bitmap"
	"github.com/dshills/monolcd/internal/config"
	"github.com/dshills/monolcd/internal/display"
	"github.com/dshills/monolcd/internal/font"
	"github.com/dshills/monolcd/internal/framebuffer"
	"github.com/dshills/monolcd/internal/logging"
	"github.com/dshills/monolcd/internal/reload"
	"github.com/dshills/monolcd/internal/script"
	"github.com/dshills/monolcd/internal/watcher"
)

// Application is the central coordinator for all monolcd components.
// It manages component lifecycles, wiring, and the tick loop.
type Application struct {
	cfg config.Config
	log *logging.Logger

	// Drawing components
	fb      *framebuffer.Framebuffer
	fonts   *font.Provider
	bitmaps *bitmap.Blitter
	loop    *reload.Loop

	// Output
	sink     display.Sink
	fps      *display.FPSCounter
	notifier *watcher.Notifier
	metrics  *Metrics

	// Shared with the display's event goroutine and the script
	invert     atomic.Bool
	aspect     atomic.Uint64
	clearCache atomic.Bool

	// State
	running      atomic.Bool
	quit         chan struct{}
	quitOnce     sync.Once
	shutdownOnce sync.Once
	closers      []io.Closer
	lastStatus   string
}

// Options configures the application.
type Options struct {
	// Config holds the settings. It must pass Validate.
	Config config.Config

	// Logger receives component logs. Nil discards them.
	Logger *logging.Logger

	// Sink overrides the display built from Config.
	Sink display.Sink

	// Stat overrides how the script file is observed.
	Stat watcher.StatFunc

	// DisableNotifier skips file notifications; polling alone drives reloads.
	DisableNotifier bool
}

// New creates an Application and initializes every component.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	app := &Application{
		cfg:     cfg,
		log:     logging.OrNop(opts.Logger),
		fps:     display.NewFPSCounter(),
		metrics: NewMetrics(),
		quit:    make(chan struct{}),
	}
	app.invert.Store(cfg.Invert)
	app.aspect.Store(math.Float64bits(cfg.Aspect))

	if err := app.bootstrap(opts); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	var err error
	cfg := app.cfg

	// 1. Framebuffer
	app.fb, err = framebuffer.New(cfg.Width, cfg.Height)
	if err != nil {
		return &InitError{Component: "framebuffer", Err: err}
	}

	// 2. Fonts and bitmaps
	baseDir := filepath.Dir(cfg.Source)
	app.fonts = font.NewProvider(
		font.WithFontDir(font.U8g2FontDir(cfg.U8g2Root)),
		font.WithCacheDir(cfg.FontCache),
		font.WithBaseDir(baseDir),
		font.WithSize(cfg.FontSize),
		font.WithLogger(app.log),
	)
	app.bitmaps = bitmap.NewBlitter(cfg.CacheSize, bitmap.WithLogger(app.log))

	// 3. Reload loop
	loopOpts := []reload.Option{
		reload.WithEntryPoints(cfg.EntryPoints...),
		reload.WithLogger(app.log),
	}
	if opts.Stat != nil {
		loopOpts = append(loopOpts, reload.WithStat(opts.Stat))
	}
	app.loop = reload.New(cfg.Source, app.fb, app.newRuntime, loopOpts...)
	app.closers = append(app.closers, app.loop)

	// 4. Display
	app.sink = opts.Sink
	if app.sink == nil {
		app.sink, err = app.buildSink()
		if err != nil {
			return err
		}
	}
	app.closers = append(app.closers, app.sink)

	// 5. File notifications (optional)
	if !opts.DisableNotifier {
		n, err := watcher.NewNotifier(cfg.Source, watcher.WithLogger(app.log))
		if err != nil {
			app.log.Warn("file notifications unavailable: %v; polling only", err)
		} else {
			app.notifier = n
			app.closers = append(app.closers, n)
		}
	}

	return nil
}

// buildSink creates the terminal and snapshot sinks selected by config.
func (app *Application) buildSink() (display.Sink, error) {
	palette, err := display.ParsePalette(app.cfg.OnColor, app.cfg.OffColor)
	if err != nil {
		return nil, &InitError{Component: "display", Err: err}
	}

	var sinks display.Multi
	if !app.cfg.Headless {
		term, err := display.NewTerminal(
			display.WithControls(app),
			display.WithPalette(palette),
			display.WithTerminalLogger(app.log),
		)
		if err != nil {
			return nil, &InitError{Component: "display", Err: err}
		}
		sinks = append(sinks, term)
	}
	if app.cfg.Snapshot != "" {
		sinks = append(sinks, display.NewPNG(app.cfg.Snapshot, palette))
	}
	if len(sinks) == 0 {
		return display.NewMemory(), nil
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}

// newRuntime creates a sandboxed Lua runtime for one load attempt.
func (app *Application) newRuntime() (reload.Runtime, error) {
	surface := script.Surface{
		FB:      app.fb,
		Bitmaps: app.bitmaps,
		Fonts:   app.fonts,
		Display: app,
		BaseDir: filepath.Dir(app.cfg.Source),
	}
	return script.NewRuntime(surface,
		script.WithExecutionTimeout(app.cfg.ExecTimeout.Std()),
		script.WithLogger(app.log),
	), nil
}

// Run drives the tick loop until ctx is cancelled, Quit is called, or the
// configured tick count is reached. Blocks until then.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	poll := app.cfg.Poll.Std()
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var wake <-chan struct{}
	if app.notifier != nil {
		wake = app.notifier.Wake()
	}

	app.log.Info("watching %s", app.cfg.Source)
	for {
		if err := app.step(poll); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-app.quit:
			return nil
		case <-ticker.C:
		case <-wake:
			ticker.Reset(poll)
		}
	}
}

// step runs one tick and reports ErrQuit when the run should end.
func (app *Application) step(poll time.Duration) error {
	select {
	case <-app.quit:
		return ErrQuit
	default:
	}

	elapsed, err := app.Tick()
	if elapsed > poll {
		app.metrics.RecordOverrun()
	}
	if err != nil {
		return err
	}
	if n := app.cfg.Ticks; n > 0 && app.loop.Ticks() >= uint64(n) {
		return ErrQuit
	}
	return nil
}

// Tick advances the reload loop once and presents the frame. It returns
// the time spent. A sink that has been closed ends the run with ErrQuit;
// other present failures are logged and counted.
func (app *Application) Tick() (time.Duration, error) {
	timer := StartTimer()

	if app.clearCache.Swap(false) {
		app.bitmaps.ClearCache()
		app.log.Info("bitmap cache cleared")
	}

	frame := app.loop.Tick()
	app.metrics.RecordTick(frame)

	status := frame.State.String()
	if frame.Entry != "" {
		status += " " + frame.Entry
	}
	if status != app.lastStatus {
		app.log.Debug("state %s", status)
		app.lastStatus = status
	}

	sx, sy := app.scale()
	opts := display.PresentOptions{
		ScaleX: sx,
		ScaleY: sy,
		Invert: app.invert.Load(),
		Status: status,
	}
	if rate := app.fps.Frame(); app.cfg.ShowFPS {
		opts.FPS = rate
	}

	err := app.sink.Present(app.fb.Image(), opts)
	elapsed := timer.Elapsed()
	app.metrics.RecordFrame(elapsed)

	if err != nil {
		if errors.Is(err, display.ErrClosed) {
			return elapsed, ErrQuit
		}
		app.metrics.RecordPresentError()
		app.log.Error("%v", NewOperationError("present", app.cfg.Source, err))
	}
	return elapsed, nil
}

// scale returns the output size of a display pixel, applying the current
// pixel aspect ratio vertically.
func (app *Application) scale() (x, y float64) {
	aspect := math.Float64frombits(app.aspect.Load())
	return app.cfg.Scale, app.cfg.Scale * aspect
}

// Shutdown releases every component in reverse initialization order.
// It is safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.Quit()
		for i := len(app.closers) - 1; i >= 0; i-- {
			if err := app.closers[i].Close(); err != nil {
				app.log.Warn("shutdown: %v", err)
			}
		}
		s := app.metrics.Snapshot()
		app.log.Info("stopped after %d ticks, %d reloads, avg %.2f ms per tick, %.1f%% overruns",
			s.FrameCount, s.Reloads, s.AvgFrameMs(), s.OverrunRate())
		if app.bitmaps != nil {
			cs := app.bitmaps.CacheStats()
			app.log.Debug("bitmap cache: %d hits, %d misses, %d evictions",
				cs.Hits, cs.Misses, cs.Evictions)
		}
	})
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the settings the application was built with.
func (app *Application) Config() config.Config { return app.cfg }

// Framebuffer returns the display framebuffer.
func (app *Application) Framebuffer() *framebuffer.Framebuffer { return app.fb }

// Loop returns the reload loop.
func (app *Application) Loop() *reload.Loop { return app.loop }

// Bitmaps returns the bitmap blitter.
func (app *Application) Bitmaps() *bitmap.Blitter { return app.bitmaps }

// Sink returns the display sink.
func (app *Application) Sink() display.Sink { return app.sink }

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics { return app.metrics }

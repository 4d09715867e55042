package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/monolcd/internal/logging"
)

// Defaults.
const (
	DefaultWidth       = 128
	DefaultHeight      = 64
	DefaultScale       = 6.0
	DefaultAspect      = 1.0
	DefaultPoll        = Duration(200 * time.Millisecond)
	DefaultCacheSize   = 64
	DefaultU8g2Root    = "u8g2"
	DefaultFontCache   = "fontcache"
	DefaultFontSize    = 10.0
	DefaultExecTimeout = Duration(2 * time.Second)
	DefaultOnColor     = "#ffffff"
	DefaultOffColor    = "#000000"
	DefaultLogLevel    = "info"
)

// DefaultEntryPoints are the global function names tried, in order, after
// a script loads.
var DefaultEntryPoints = []string{"draw", "demo_draw"}

// Config holds every monolcd setting.
type Config struct {
	// Source is the drawing script to watch.
	Source string `toml:"source" yaml:"source"`

	// Width and Height are the display size in pixels.
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`

	// Scale is the output size of one display pixel.
	Scale float64 `toml:"scale" yaml:"scale"`
	// Aspect stretches pixels vertically (height / width).
	Aspect float64 `toml:"aspect" yaml:"aspect"`
	// Invert swaps lit and unlit pixels on output.
	Invert bool `toml:"invert" yaml:"invert"`
	// OnColor and OffColor are hex colors for lit and unlit pixels.
	OnColor  string `toml:"on_color" yaml:"on_color"`
	OffColor string `toml:"off_color" yaml:"off_color"`
	// ShowFPS enables the frame rate counter.
	ShowFPS bool `toml:"show_fps" yaml:"show_fps"`

	// Poll is the tick interval.
	Poll Duration `toml:"poll" yaml:"poll"`
	// EntryPoints are tried in order after a script loads.
	EntryPoints []string `toml:"entry_points" yaml:"entry_points"`
	// ExecTimeout bounds a single script load or draw call.
	ExecTimeout Duration `toml:"exec_timeout" yaml:"exec_timeout"`

	// CacheSize is the bitmap cache capacity.
	CacheSize int `toml:"cache_size" yaml:"cache_size"`

	// U8g2Root is the u8g2 checkout holding tools/font/bdf.
	U8g2Root string `toml:"u8g2_root" yaml:"u8g2_root"`
	// FontCache is a directory of pre-converted fonts.
	FontCache string `toml:"font_cache" yaml:"font_cache"`
	// FontSize is the point size for outline fonts.
	FontSize float64 `toml:"font_size" yaml:"font_size"`

	// Headless disables the terminal display.
	Headless bool `toml:"headless" yaml:"headless"`
	// Snapshot is a PNG path written with every frame.
	Snapshot string `toml:"snapshot" yaml:"snapshot"`
	// Ticks stops the run after this many ticks; zero runs until quit.
	Ticks int `toml:"ticks" yaml:"ticks"`

	// LogLevel is the minimum log level.
	LogLevel string `toml:"log_level" yaml:"log_level"`
	// LogFile receives log output; empty means standard error, or no
	// logging at all while the terminal display is active.
	LogFile string `toml:"log_file" yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Scale:       DefaultScale,
		Aspect:      DefaultAspect,
		OnColor:     DefaultOnColor,
		OffColor:    DefaultOffColor,
		ShowFPS:     true,
		Poll:        DefaultPoll,
		EntryPoints: append([]string(nil), DefaultEntryPoints...),
		ExecTimeout: DefaultExecTimeout,
		CacheSize:   DefaultCacheSize,
		U8g2Root:    DefaultU8g2Root,
		FontCache:   DefaultFontCache,
		FontSize:    DefaultFontSize,
		LogLevel:    DefaultLogLevel,
	}
}

// ScaleXY returns the output size of one display pixel on each axis.
func (c Config) ScaleXY() (x, y float64) {
	return c.Scale, c.Scale * c.Aspect
}

// Validate checks every setting and returns all problems joined together.
func (c Config) Validate() error {
	var errs []error
	bad := func(setting, msg string, v any) {
		errs = append(errs, &ValidationError{Setting: setting, Message: msg, Value: v})
	}

	if strings.TrimSpace(c.Source) == "" {
		bad("source", "required", c.Source)
	}
	if c.Width <= 0 {
		bad("width", "must be positive", c.Width)
	}
	if c.Height <= 0 {
		bad("height", "must be positive", c.Height)
	}
	if c.Scale <= 0 {
		bad("scale", "must be positive", c.Scale)
	}
	if c.Aspect <= 0 {
		bad("aspect", "must be positive", c.Aspect)
	}
	if c.Poll <= 0 {
		bad("poll", "must be positive", c.Poll)
	}
	if c.ExecTimeout <= 0 {
		bad("exec_timeout", "must be positive", c.ExecTimeout)
	}
	if c.CacheSize <= 0 {
		bad("cache_size", "must be positive", c.CacheSize)
	}
	if c.FontSize <= 0 {
		bad("font_size", "must be positive", c.FontSize)
	}
	if c.Ticks < 0 {
		bad("ticks", "must not be negative", c.Ticks)
	}
	if len(c.EntryPoints) == 0 {
		bad("entry_points", "at least one name required", c.EntryPoints)
	}
	for _, name := range c.EntryPoints {
		if strings.TrimSpace(name) == "" {
			bad("entry_points", "empty name", c.EntryPoints)
			break
		}
	}
	if _, err := colorful.Hex(c.OnColor); err != nil {
		bad("on_color", "not a hex color", c.OnColor)
	}
	if _, err := colorful.Hex(c.OffColor); err != nil {
		bad("off_color", "not a hex color", c.OffColor)
	}
	if !logging.ValidLevel(c.LogLevel) {
		bad("log_level", "unknown level", c.LogLevel)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidationFailed, errors.Join(errs...))
}

// Package main is the entry point for monolcd, a live-reloading preview
// for monochrome LCD drawing scripts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/dshills/monolcd/internal/app"
	"github.com/dshills/monolcd/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the command line. Pointer flags are nil unless given, so only
// explicit flags override the config file and environment.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`

	File   string `help:"Lua drawing script to watch." short:"f" type:"path"`
	Config string `help:"Config file (.toml, .yaml or .yml)." short:"c" type:"path"`

	Width     *int     `help:"Display width in pixels."`
	Height    *int     `help:"Display height in pixels."`
	Scale     *float64 `help:"Output size of one display pixel."`
	Aspect    *float64 `help:"Pixel aspect ratio (height / width)."`
	Invert    bool     `help:"Invert the output."`
	Poll      *int     `help:"Tick interval in milliseconds."`
	CacheSize *int     `help:"Bitmap cache capacity." name:"cache-size"`
	U8g2Root  *string  `help:"u8g2 checkout holding tools/font/bdf." name:"u8g2-root"`

	OnColor  *string `help:"Hex color of lit pixels." name:"on-color"`
	OffColor *string `help:"Hex color of unlit pixels." name:"off-color"`
	NoFPS    bool    `help:"Hide the frame rate counter." name:"no-fps"`

	Timeout *time.Duration `help:"Limit for one script load or draw call." name:"exec-timeout"`

	Headless bool    `help:"Run without the terminal display."`
	Snapshot *string `help:"Write every frame to this PNG file."`
	Ticks    *int    `help:"Stop after this many ticks."`

	LogLevel *string `help:"Log level (debug, info, warn, error)." name:"log-level"`
	LogFile  *string `help:"Append logs to this file." name:"log-file"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("monolcd"),
		kong.Description("Live preview for monochrome LCD drawing scripts."),
		kong.Vars{"version": fmt.Sprintf("monolcd %s (commit %s, built %s)", version, commit, date)},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if _, err := parser.Parse(args); err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	cfg, err := cli.resolve(os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, logCloser, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = logCloser.Close() }()

	application, err := app.New(app.Options{Config: cfg, Logger: log})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// resolve layers defaults, the config file, the environment and the flags,
// then validates the result.
func (c *CLI) resolve(lookup config.LookupFunc) (config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}
	c.apply(&cfg)
	return cfg, cfg.Validate()
}

// apply overrides cfg with every flag that was given.
func (c *CLI) apply(cfg *config.Config) {
	if c.File != "" {
		cfg.Source = c.File
	}
	setIf(&cfg.Width, c.Width)
	setIf(&cfg.Height, c.Height)
	setIf(&cfg.Scale, c.Scale)
	setIf(&cfg.Aspect, c.Aspect)
	setIf(&cfg.CacheSize, c.CacheSize)
	setIf(&cfg.U8g2Root, c.U8g2Root)
	setIf(&cfg.OnColor, c.OnColor)
	setIf(&cfg.OffColor, c.OffColor)
	setIf(&cfg.Snapshot, c.Snapshot)
	setIf(&cfg.Ticks, c.Ticks)
	setIf(&cfg.LogLevel, c.LogLevel)
	setIf(&cfg.LogFile, c.LogFile)
	if c.Poll != nil {
		cfg.Poll = config.Duration(time.Duration(*c.Poll) * time.Millisecond)
	}
	if c.Timeout != nil {
		cfg.ExecTimeout = config.Duration(*c.Timeout)
	}
	if c.NoFPS {
		cfg.ShowFPS = false
	}
	if c.Headless {
		cfg.Headless = true
	}
	if c.Invert {
		cfg.Invert = true
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

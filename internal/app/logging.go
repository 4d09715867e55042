package app

import (
	"io"
	"os"

	"github.com/dshills/monolcd/internal/config"
	"github.com/dshills/monolcd/internal/logging"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the process logger from cfg.
//
// With a log file the logger appends to it. Without one it writes to
// standard error in headless mode and is silent otherwise, since the
// terminal display owns the screen. The returned closer releases the file.
func NewLogger(cfg config.Config) (*logging.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.LogLevel)

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, NewOperationError("open log", cfg.LogFile, err)
		}
		return logging.New(logging.Config{Level: level, Output: f, Prefix: "monolcd"}), f, nil
	}

	if !cfg.Headless {
		return logging.Nop(), nopCloser{}, nil
	}
	return logging.New(logging.Config{Level: level, Output: os.Stderr, Prefix: "monolcd"}), nopCloser{}, nil
}

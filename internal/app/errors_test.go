package app

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/dshills/monolcd/internal/config"
)

func TestOperationError(t *testing.T) {
	tests := []struct {
		name string
		err  *OperationError
		want string
	}{
		{"full", NewOperationError("present", "demo.lua", errors.New("boom")), "present demo.lua: boom"},
		{"no target", NewOperationError("present", "", errors.New("boom")), "present: boom"},
		{"no cause", NewOperationError("open log", "x.log", nil), "open log x.log"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}

	var nilErr *OperationError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Error("nil OperationError should be empty")
	}

	wrapped := NewOperationError("open log", "x.log", fs.ErrPermission)
	if !errors.Is(wrapped, fs.ErrPermission) {
		t.Error("expected errors.Is to see the cause")
	}
}

func TestInitError(t *testing.T) {
	cause := errors.New("no tty")
	err := &InitError{Component: "display", Err: cause}
	if !errors.Is(err, ErrInitialization) || !errors.Is(err, cause) {
		t.Errorf("InitError does not match its sentinels: %v", err)
	}
	if err.Error() != "initialize display: no tty" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = t.TempDir() + "/monolcd.log"
	log, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	log.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	cfg.LogFile = t.TempDir() + "/missing/dir/monolcd.log"
	if _, _, err := NewLogger(cfg); err == nil {
		t.Error("expected error for unwritable log file")
	}

	cfg.LogFile = ""
	if _, closer, err := NewLogger(cfg); err != nil || closer == nil {
		t.Errorf("NewLogger() without file = %v", err)
	}
}

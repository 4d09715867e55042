package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draw.lua")

	if obs := Probe(path, nil); obs.Exists || obs.Err != nil {
		t.Errorf("Probe(missing) = %+v", obs)
	}

	if err := os.WriteFile(path, []byte("-- draw"), 0o644); err != nil {
		t.Fatal(err)
	}
	mod := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}

	obs := Probe(path, nil)
	if !obs.Exists || !obs.ModTime.Equal(mod) {
		t.Errorf("Probe() = %+v, want mod time %v", obs, mod)
	}
	if obs.Changed(mod, true) {
		t.Error("Changed() = true for the same time")
	}
	if !obs.Changed(mod, false) {
		t.Error("Changed() = false without a recorded time")
	}
	if !obs.Changed(mod.Add(-time.Second), true) {
		t.Error("Changed() = false for a different time")
	}
}

func TestProbeStatError(t *testing.T) {
	boom := errors.New("permission denied")
	obs := Probe("x", func(string) (fs.FileInfo, error) { return nil, boom })
	if obs.Exists || !errors.Is(obs.Err, boom) {
		t.Errorf("Probe() = %+v", obs)
	}

	obs = Probe("x", func(string) (fs.FileInfo, error) { return nil, fs.ErrNotExist })
	if obs.Exists || obs.Err != nil {
		t.Errorf("Probe(not exist) = %+v", obs)
	}
}

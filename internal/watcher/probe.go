package watcher

import (
	"errors"
	"io/fs"
	"os"
	"time"
)

// StatFunc reports file metadata. os.Stat is the default.
type StatFunc func(name string) (fs.FileInfo, error)

// Observation is the result of a single stat of the watched file.
type Observation struct {
	// Exists is false when the file is missing or could not be stat'ed.
	Exists bool
	// ModTime is the modification time when Exists is true.
	ModTime time.Time
	// Err holds a stat failure other than the file not existing.
	Err error
}

// Probe stats path once. A nil stat uses os.Stat.
func Probe(path string, stat StatFunc) Observation {
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Observation{}
		}
		return Observation{Err: err}
	}
	return Observation{Exists: true, ModTime: info.ModTime()}
}

// Changed reports whether o differs from a previously recorded
// modification time. A missing record always counts as a change.
func (o Observation) Changed(last time.Time, known bool) bool {
	return !known || !o.ModTime.Equal(last)
}

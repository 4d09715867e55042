package bitmap

import (
	"io/fs"
	"os"
	"path/filepath"
)

// StatFunc reports file metadata. os.Stat is the default.
type StatFunc func(name string) (fs.FileInfo, error)

// Key identifies a decoded file image.
//
// Two keys are equal only when the absolute path, modification time and
// inversion flag all match. A key whose file could not be stat'ed has
// Known set to false; such keys are never stored or looked up, so every
// blit of an unreadable-metadata file decodes afresh.
type Key struct {
	Path    string
	ModTime int64 // nanoseconds since the Unix epoch
	Known   bool
	Invert  bool
}

// Cacheable reports whether the key may be used for cache lookups.
func (k Key) Cacheable() bool { return k.Known }

// ResolveKey computes the cache identity of path. A nil stat uses os.Stat.
func ResolveKey(path string, invert bool, stat StatFunc) Key {
	if stat == nil {
		stat = os.Stat
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{Path: path, Invert: invert}
	}
	info, err := stat(abs)
	if err != nil {
		return Key{Path: abs, Invert: invert}
	}
	return Key{
		Path:    abs,
		ModTime: info.ModTime().UnixNano(),
		Known:   true,
		Invert:  invert,
	}
}

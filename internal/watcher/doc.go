// Package watcher observes the drawing script on disk.
//
// Probe is the source of truth: the reload loop stats the file once per
// tick and compares modification times. Notifier adds fsnotify on top so
// that a save wakes the driver immediately instead of after the next
// poll interval. If fsnotify is unavailable the driver simply polls.
package watcher

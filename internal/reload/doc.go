// Package reload implements the live-reload loop that binds a drawing
// script to the framebuffer.
//
// Every call to Loop.Tick stats the script, reloads it when its
// modification time changed, and then produces exactly one frame: the
// script's own drawing, a waiting placeholder, or an on-screen error
// report. Nothing that goes wrong inside a script stops the loop.
//
// The loop is in one of four states:
//
//	WAITING     the script file does not exist
//	BOUND       an entry point is loaded and its last call succeeded
//	LOAD_ERROR  the current file version failed to load
//	RUN_ERROR   the entry point faulted on its last call
//
// A changed file always discards the previous entry point before the new
// version is loaded, so old code never runs against a new file. A fault
// inside the entry point keeps the binding and the next tick retries it.
package reload

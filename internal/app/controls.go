package app

import "math"

// The Application is both the display's Controls and the script's
// Display. Controls are called from the display's event goroutine, so
// everything here touches only atomics and channels.

// ToggleInvert flips output inversion.
func (app *Application) ToggleInvert() {
	for {
		old := app.invert.Load()
		if app.invert.CompareAndSwap(old, !old) {
			return
		}
	}
}

// ClearCache empties the bitmap cache before the next tick.
func (app *Application) ClearCache() {
	app.clearCache.Store(true)
}

// Quit asks Run to return after the current tick.
func (app *Application) Quit() {
	app.quitOnce.Do(func() { close(app.quit) })
}

// SetInverse sets output inversion.
func (app *Application) SetInverse(on bool) {
	app.invert.Store(on)
}

// Inverse reports whether output is inverted.
func (app *Application) Inverse() bool {
	return app.invert.Load()
}

// SetAspect sets the pixel aspect ratio (height / width). Non-positive
// ratios are ignored.
func (app *Application) SetAspect(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return
	}
	app.aspect.Store(math.Float64bits(ratio))
}

// Aspect returns the pixel aspect ratio.
func (app *Application) Aspect() float64 {
	return math.Float64frombits(app.aspect.Load())
}

// Package font resolves font names used by drawing scripts into
// golang.org/x/image/font faces.
//
// Three kinds of font are understood: the built-in 7x13 bitmap face,
// OpenType/TrueType files rasterized at a fixed pixel size, and BDF
// bitmap fonts such as the ones shipped in the u8g2 tree under
// tools/font/bdf. A name is looked up along a search path and the parsed
// face is memoized, so a script that calls setFont every frame pays for
// parsing once.
package font

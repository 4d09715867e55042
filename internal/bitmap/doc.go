// Package bitmap blits monochrome images onto a drawing target.
//
// Two sources are supported: packed 1-bit-per-pixel byte sequences (the
// u8g2 drawBitmap/XBM layout, rows padded to whole bytes and decoded most
// significant bit first) and image files. File images are decoded once,
// thresholded to two levels and kept in a bounded LRU cache keyed by the
// file's absolute path, modification time and inversion flag, so an edited
// file is decoded again while an unchanged one is reused.
//
// Both paths are sparse overlays: set bits are drawn in the target's
// current draw color and unset bits leave the destination untouched.
package bitmap

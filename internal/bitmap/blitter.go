package bitmap

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoding
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io"
	"os"

	_ "github.com/spakin/netpbm" // register PBM, PGM and PPM decoding
	_ "golang.org/x/image/bmp"   // register BMP decoding
	_ "golang.org/x/image/tiff"  // register TIFF decoding

	"github.com/dshills/monolcd/internal/cache"
	"github.com/dshills/monolcd/internal/logging"
)

// DefaultCacheSize is the number of decoded images kept by default.
const DefaultCacheSize = 64

// maxPixels bounds the size of a decoded image.
const maxPixels = 1 << 26

// DecodeFunc opens and decodes an image file.
type DecodeFunc func(path string) (image.Image, error)

// Blitter draws file images through a bounded cache of decoded bitmaps.
//
// The cache belongs to the Blitter and is not shared. A Blitter is not safe
// for concurrent use.
type Blitter struct {
	cache  *cache.LRU[Key, *Mono]
	decode DecodeFunc
	stat   StatFunc
	log    *logging.Logger

	decodes uint64
}

// BlitterOption configures a Blitter.
type BlitterOption func(*Blitter)

// WithDecoder replaces the file decoder.
func WithDecoder(fn DecodeFunc) BlitterOption {
	return func(b *Blitter) {
		if fn != nil {
			b.decode = fn
		}
	}
}

// WithStat replaces the function used to read modification times.
func WithStat(fn StatFunc) BlitterOption {
	return func(b *Blitter) {
		if fn != nil {
			b.stat = fn
		}
	}
}

// WithLogger sets the logger used to report decode failures.
func WithLogger(l *logging.Logger) BlitterOption {
	return func(b *Blitter) {
		b.log = logging.OrNop(l).WithComponent("bitmap")
	}
}

// NewBlitter creates a Blitter caching at most capacity decoded images.
// A capacity below 1 is raised to 1.
func NewBlitter(capacity int, opts ...BlitterOption) *Blitter {
	b := &Blitter{
		cache:  cache.New[Key, *Mono](capacity),
		decode: DecodeFile,
		stat:   os.Stat,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DecodeFile opens path and decodes it with the registered image formats.
// The header is checked first so an empty or oversized image is rejected
// before its pixels are allocated.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's drawing script
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, err
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return ErrEmptyImage
	}
	if w > maxPixels/h {
		return fmt.Errorf("%w: %dx%d", ErrImageTooLarge, w, h)
	}
	return nil
}

// Load returns the two-level image for path, decoding it on a cache miss.
// The returned image is shared with the cache and must not be modified.
func (b *Blitter) Load(path string, invert bool) (*Mono, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	key := ResolveKey(path, invert, b.stat)
	if key.Cacheable() {
		if m, ok := b.cache.Get(key); ok {
			return m, nil
		}
	}

	b.decodes++
	img, err := b.decode(path)
	if err != nil {
		return nil, fmt.Errorf("bitmap: decode %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("bitmap: decode %s: %w", path, ErrEmptyImage)
	}

	m := Threshold(img)
	if invert {
		m.Invert()
	}

	if key.Cacheable() {
		b.cache.Put(key, m)
	} else {
		b.log.Debug("not caching %s: modification time unavailable", path)
	}
	return m, nil
}

// BlitFile overlays the image stored at path with its top-left corner at
// (x, y). Open and decode failures are logged and draw nothing.
func (b *Blitter) BlitFile(dst Target, path string, x, y int, invert bool) {
	m, err := b.Load(path, invert)
	if err != nil {
		b.log.Warn("%v", err)
		return
	}
	BlitMono(dst, m, x, y)
}

// ClearCache drops every cached image.
func (b *Blitter) ClearCache() {
	b.cache.Clear()
	b.log.Info("bitmap cache cleared")
}

// CacheLen returns the number of cached images.
func (b *Blitter) CacheLen() int { return b.cache.Len() }

// CacheStats returns the cache counters.
func (b *Blitter) CacheStats() cache.Stats { return b.cache.Stats() }

// Decodes returns how many times a file has been decoded.
func (b *Blitter) Decodes() uint64 { return b.decodes }

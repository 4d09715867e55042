package font

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/dshills/monolcd/internal/cache"
	"github.com/dshills/monolcd/internal/logging"
)

// Defaults for OpenType rasterization.
const (
	DefaultSize = 10.0
	DefaultDPI  = 72.0
)

// DefaultCacheDir is the directory searched for pre-converted fonts.
const DefaultCacheDir = "fontcache"

// faceCacheSize bounds the number of memoized faces.
const faceCacheSize = 16

// Default returns the built-in 7x13 face.
func Default() xfont.Face { return basicfont.Face7x13 }

// U8g2FontDir returns the BDF directory inside a u8g2 checkout.
func U8g2FontDir(root string) string {
	if root == "" {
		return ""
	}
	return filepath.Join(root, "tools", "font", "bdf")
}

// Provider turns font names into faces.
//
// A Provider is not safe for concurrent use.
type Provider struct {
	fontDir  string
	cacheDir string
	baseDir  string
	size     float64
	dpi      float64

	faces *cache.LRU[string, xfont.Face]
	log   *logging.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithFontDir sets the directory searched last for <name>.bdf.
func WithFontDir(dir string) Option {
	return func(p *Provider) { p.fontDir = dir }
}

// WithCacheDir sets the directory searched for <name>.bdf right after the
// name itself.
func WithCacheDir(dir string) Option {
	return func(p *Provider) { p.cacheDir = dir }
}

// WithBaseDir adds a directory that relative names are also resolved
// against, after the working directory.
func WithBaseDir(dir string) Option {
	return func(p *Provider) { p.baseDir = dir }
}

// WithSize sets the pixel size used for OpenType fonts.
func WithSize(size float64) Option {
	return func(p *Provider) {
		if size > 0 {
			p.size = size
		}
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *logging.Logger) Option {
	return func(p *Provider) {
		p.log = logging.OrNop(l).WithComponent("font")
	}
}

// NewProvider creates a Provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		cacheDir: DefaultCacheDir,
		size:     DefaultSize,
		dpi:      DefaultDPI,
		faces:    cache.New[string, xfont.Face](faceCacheSize),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Candidates returns the paths tried for name, in order.
func (p *Provider) Candidates(name string) []string {
	var out []string
	add := func(path string) {
		if path != "" {
			out = append(out, path)
		}
	}

	add(name)
	if p.relative(name) {
		add(filepath.Join(p.baseDir, name))
	}
	if p.cacheDir != "" {
		add(filepath.Join(p.cacheDir, name+".bdf"))
	}
	for _, ext := range []string{".bdf", ".ttf", ".otf"} {
		add(name + ext)
		if p.relative(name) {
			add(filepath.Join(p.baseDir, name+ext))
		}
	}
	if p.fontDir != "" {
		add(filepath.Join(p.fontDir, name+".bdf"))
	}
	return out
}

func (p *Provider) relative(name string) bool {
	return p.baseDir != "" && !filepath.IsAbs(name)
}

// Find returns the first existing candidate file for name.
func (p *Provider) Find(name string) (string, error) {
	for _, path := range p.Candidates(name) {
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Resolve returns the face for name. An empty name yields the default face.
func (p *Provider) Resolve(name string) (xfont.Face, error) {
	if name == "" {
		return Default(), nil
	}

	path, err := p.Find(name)
	if err != nil {
		return nil, err
	}
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if face, ok := p.faces.Get(key); ok {
		return face, nil
	}

	face, err := p.open(path)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", path, err)
	}
	p.faces.Put(key, face)
	p.log.Debug("loaded font %s", path)
	return face, nil
}

// Load returns the face for name, or the default face if it cannot be
// resolved. Failures are logged.
func (p *Provider) Load(name string) xfont.Face {
	face, err := p.Resolve(name)
	if err != nil {
		p.log.Warn("failed to load font: %v; using default", err)
		return Default()
	}
	return face
}

// Cached returns the number of memoized faces.
func (p *Provider) Cached() int { return p.faces.Len() }

func (p *Provider) open(path string) (xfont.Face, error) {
	data, err := os.ReadFile(path) //nolint:gosec // font names come from the user's drawing script
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".bdf":
		return openBDF(data)
	case ".ttf", ".otf", ".ttc":
		return p.openType(data)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), bdfMagic) {
		return openBDF(data)
	}
	return p.openType(data)
}

func openBDF(data []byte) (xfont.Face, error) {
	f, err := ParseBDF(data)
	if err != nil {
		return nil, err
	}
	return f.NewFace(), nil
}

func (p *Provider) openType(data []byte) (xfont.Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    p.size,
		DPI:     p.dpi,
		Hinting: xfont.HintingFull,
	})
}

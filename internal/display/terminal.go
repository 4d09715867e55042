package display

import (
	"fmt"
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/monolcd/internal/logging"
)

// TerminalUnit is the pixel scale that maps one display pixel to one
// terminal column and half a row.
const TerminalUnit = 6

// upperHalf draws the top pixel in the foreground color and the bottom
// pixel in the background color.
const upperHalf = '▀'

// Terminal is a sink that draws frames into a tcell screen.
type Terminal struct {
	screen   tcell.Screen
	palette  Palette
	controls Controls
	log      *logging.Logger

	mu       sync.Mutex
	closed   bool
	once     sync.Once
	done     chan struct{}
	resizes  int
	lastSize image.Point
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithScreen uses screen instead of the process terminal.
func WithScreen(screen tcell.Screen) TerminalOption {
	return func(t *Terminal) { t.screen = screen }
}

// WithControls forwards key presses to c.
func WithControls(c Controls) TerminalOption {
	return func(t *Terminal) { t.controls = c }
}

// WithPalette sets the pixel colors.
func WithPalette(p Palette) TerminalOption {
	return func(t *Terminal) { t.palette = p }
}

// WithTerminalLogger sets the logger.
func WithTerminalLogger(l *logging.Logger) TerminalOption {
	return func(t *Terminal) { t.log = logging.OrNop(l).WithComponent("display") }
}

// NewTerminal initializes the screen and starts reading key events.
func NewTerminal(opts ...TerminalOption) (*Terminal, error) {
	t := &Terminal{
		palette: DefaultPalette(),
		log:     logging.Nop(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("display: open terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return nil, fmt.Errorf("display: init terminal: %w", err)
	}
	t.screen.HideCursor()
	t.screen.Clear()

	go t.pollEvents()
	return t, nil
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen { return t.screen }

// Done is closed when the event loop exits.
func (t *Terminal) Done() <-chan struct{} { return t.done }

func (t *Terminal) pollEvents() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		t.HandleEvent(ev)
	}
}

// HandleEvent applies one terminal event and reports whether it was
// recognized.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(e)
	case *tcell.EventResize:
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.closed {
			return true
		}
		t.resizes++
		t.screen.Clear()
		t.screen.Sync()
		return true
	default:
		return false
	}
}

func (t *Terminal) handleKey(e *tcell.EventKey) bool {
	if t.controls == nil {
		return false
	}
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.controls.Quit()
		return true
	case tcell.KeyRune:
		switch e.Rune() {
		case 'i', 'I':
			t.controls.ToggleInvert()
		case 'c', 'C':
			t.controls.ClearCache()
		case 'q', 'Q':
			t.controls.Quit()
		default:
			return false
		}
		return true
	}
	return false
}

// Present draws frame at the top-left of the screen with a status line
// beneath it.
func (t *Terminal) Present(frame *image.Gray, opts PresentOptions) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}

	sx, sy := terminalScale(opts)
	b := frame.Bounds()
	cols := b.Dx() * sx
	halfRows := b.Dy() * sy
	rows := (halfRows + 1) / 2

	size := image.Pt(cols, rows)
	if size != t.lastSize {
		t.screen.Clear()
		t.lastSize = size
	}

	sample := func(col, half int) bool {
		if half >= halfRows {
			return false
		}
		return lit(frame, b.Min.X+col/sx, b.Min.Y+half/sy, opts.Invert)
	}

	sw, sh := t.screen.Size()
	for row := 0; row < rows && row < sh; row++ {
		for col := 0; col < cols && col < sw; col++ {
			top := t.palette.Color(sample(col, row*2))
			bottom := t.palette.Color(sample(col, row*2+1))
			style := tcell.StyleDefault.
				Foreground(tcellColor(top)).
				Background(tcellColor(bottom))
			t.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}

	if rows < sh {
		t.drawStatus(rows, sw, statusLine(opts))
	}
	t.screen.Show()
	return nil
}

func (t *Terminal) drawStatus(row, width int, text string) {
	style := tcell.StyleDefault.Foreground(tcellColor(t.palette.Contrast()))
	col := 0
	for _, r := range text {
		if col >= width {
			break
		}
		t.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		t.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
	}
}

func statusLine(opts PresentOptions) string {
	s := ""
	if opts.FPS > 0 {
		s = fmt.Sprintf("%d FPS  ", opts.FPS)
	}
	if opts.Status != "" {
		s += opts.Status + "  "
	}
	return s + "[i]nvert [c]lear cache [q]uit"
}

func terminalScale(opts PresentOptions) (sx, sy int) {
	return roundScale(opts.ScaleX / TerminalUnit), roundScale(opts.ScaleY / TerminalUnit)
}

// Close restores the terminal. It is safe to call more than once.
func (t *Terminal) Close() error {
	t.once.Do(func() {
		t.mu.Lock()
		t.closed = true
		resizes := t.resizes
		t.mu.Unlock()
		t.screen.Fini()
		t.log.Debug("terminal closed after %d resizes", resizes)
	})
	return nil
}

// Package ansicell is a cell addressed raw terminal surface for widgets:
// raw mode lifecycle, decoded key/mouse events with subscriptions, focus
// and mouse capture, and ANSI drawing primitives including half pixel
// image blits. A Screen constructed with just Out set works headless,
// which is how tests and http streaming use it.
package ansicell // import "fortio.org/tpick/ansicell"

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fortio.org/log"
	"fortio.org/safecast"
	"fortio.org/tpick/webcolor"
	"github.com/rivo/uniseg"
	"golang.org/x/term"
)

// ErrSignal is returned by [Screen.Wait] when an interrupt or term
// signal is received.
var ErrSignal = errors.New("terminal interrupted by signal")

// Clock schedules zero delay callbacks to run after the current event,
// cancellable until they fire. The Screen itself is the real
// implementation (callbacks run on the next [Screen.RunScheduled]);
// tests substitute a manual one.
type Clock interface {
	Schedule(fn func()) (cancel func())
}

type scheduled struct {
	token uint64
	fn    func()
}

// Used by the goroutine based input fallback (non unix).
type pumpRead struct {
	data []byte
	err  error
}

// Screen is the terminal. The zero value plus an Out writer is a usable
// headless screen (set W and H manually); Open() takes over the real tty.
type Screen struct {
	In        *os.File
	Out       Bufio
	FdIn      int
	W, H      int
	TrueColor bool
	// Background is the terminal background color, updated by
	// [Screen.RequestBackgroundColor] once the reply arrives.
	Background    webcolor.RGBA
	GotBackground bool
	OnResize      func() error

	fps      float64
	state    *term.State
	sigc     chan os.Signal
	winch    chan os.Signal
	data     []byte
	buf      [1024]byte
	restored bool

	subs      []*Handler
	nextSubID int
	focused   int
	captured  int
	mouseMode int // 0 off, 1 click, 2 track

	schedQueue []scheduled
	schedToken uint64

	backgroundRequested bool
	stats               FrameStats
	frameStart          time.Duration
	pump                chan pumpRead
}

// NewScreen returns a Screen reading fps frames per second from stdin
// and writing to stdout. fps 0 blocks on input (no animation ticks).
func NewScreen(fps float64) *Screen {
	return &Screen{
		In:   os.Stdin,
		Out:  bufio.NewWriter(os.Stdout),
		FdIn: safecast.MustConvert[int](os.Stdin.Fd()),
		fps:  fps,
	}
}

// DetectTrueColor reports whether COLORTERM advertises 24 bit color.
func DetectTrueColor() bool {
	ct := os.Getenv("COLORTERM")
	return strings.Contains(ct, "truecolor") || strings.Contains(ct, "24bit")
}

// Open puts the terminal in raw mode, gets the initial size and starts
// signal delivery. Logging is switched to a CRLF writer until Restore.
func (s *Screen) Open() error {
	state, err := term.MakeRaw(s.FdIn)
	if err != nil {
		return err
	}
	s.state = state
	s.restored = false
	s.TrueColor = s.TrueColor || DetectTrueColor()
	s.sigc = make(chan os.Signal, 1)
	signal.Notify(s.sigc, os.Interrupt, syscall.SIGTERM)
	s.winch = make(chan os.Signal, 1)
	notifyResize(s.winch)
	log.SetOutput(&CRLFWriter{Out: os.Stderr})
	return s.GetSize()
}

// GetSize refreshes W and H from the terminal.
func (s *Screen) GetSize() (err error) {
	s.W, s.H, err = term.GetSize(s.FdIn)
	return err
}

// Restore leaves raw mode and undoes mouse reporting, cursor hiding and
// the log redirection. Safe to call more than once.
func (s *Screen) Restore() {
	if s.restored {
		return
	}
	s.restored = true
	s.MouseOff()
	s.ShowCursor()
	_, _ = s.Out.WriteString("\033[0m")
	_ = s.Out.Flush()
	if s.sigc != nil {
		signal.Stop(s.sigc)
	}
	if s.winch != nil {
		signal.Stop(s.winch)
	}
	log.SetOutput(os.Stderr)
	if s.state != nil {
		err := term.Restore(s.FdIn, s.state)
		if err != nil {
			log.Errf("Error restoring terminal: %v", err)
		}
	}
}

// Wait blocks until input, resize or signal. Resizes run OnResize and
// continue waiting. With fps > 0 a frame timeout returns an empty event
// slice (animation tick). Signals return [ErrSignal].
func (s *Screen) Wait() ([]Event, error) {
	timeout := time.Duration(0)
	if s.fps > 0 {
		timeout = time.Duration(float64(time.Second) / s.fps)
	}
	for {
		select {
		case <-s.sigc:
			return nil, ErrSignal
		case <-s.winch:
			if err := s.GetSize(); err != nil {
				return nil, err
			}
			if s.OnResize != nil {
				if err := s.OnResize(); err != nil {
					return nil, err
				}
			}
			continue
		default:
		}
		n, err := s.readWithTimeout(timeout)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if s.fps > 0 {
				return nil, nil // animation tick
			}
			continue
		}
		s.data = append(s.data, s.buf[:n]...)
		evs := s.decodeEvents()
		if len(evs) > 0 {
			return evs, nil
		}
	}
}

// Schedule implements [Clock] on the screen's event loop: fn runs on the
// next RunScheduled unless cancelled first.
func (s *Screen) Schedule(fn func()) (cancel func()) {
	s.schedToken++
	token := s.schedToken
	s.schedQueue = append(s.schedQueue, scheduled{token: token, fn: fn})
	return func() {
		for i, entry := range s.schedQueue {
			if entry.token == token {
				s.schedQueue = append(s.schedQueue[:i], s.schedQueue[i+1:]...)
				return
			}
		}
	}
}

// RunScheduled runs the callbacks scheduled so far. Callbacks scheduled
// while running are kept for the next call.
func (s *Screen) RunScheduled() {
	queue := s.schedQueue
	s.schedQueue = nil
	for _, entry := range queue {
		entry.fn()
	}
}

// Drawing primitives.

func (s *Screen) WriteString(str string) {
	_, _ = s.Out.WriteString(str)
}

func (s *Screen) WriteRune(r rune) {
	_, _ = s.Out.WriteRune(r)
}

func (s *Screen) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.Out, format, args...)
}

// MoveCursor moves to 0 based cell coordinates.
func (s *Screen) MoveCursor(x, y int) {
	s.Printf("\033[%d;%dH", y+1, x+1)
}

func (s *Screen) WriteAtStr(x, y int, msg string) {
	s.MoveCursor(x, y)
	s.WriteString(msg)
}

func (s *Screen) WriteAt(x, y int, msg string, args ...any) {
	s.MoveCursor(x, y)
	s.Printf(msg, args...)
}

// WriteCentered writes horizontally centered, double width runes counted.
func (s *Screen) WriteCentered(y int, msg string, args ...any) {
	str := fmt.Sprintf(msg, args...)
	x := (s.W - uniseg.StringWidth(str)) / 2
	s.WriteAtStr(x, y, str)
}

// StringWidth returns the screen width of a string (double width runes
// count as 2).
func StringWidth(str string) int {
	return uniseg.StringWidth(str)
}

func (s *Screen) ClearScreen() {
	s.WriteString(clearScreen)
}

func (s *Screen) ClearEndOfLine() {
	s.WriteString(clearEOL)
}

// ClearRect blanks a rectangle (used to erase a closed popup).
func (s *Screen) ClearRect(r Rect) {
	blank := strings.Repeat(" ", r.W)
	for y := r.Y; y < r.Y+r.H; y++ {
		s.WriteAtStr(r.X, y, blank)
	}
}

func (s *Screen) HideCursor() {
	s.WriteString(hideCursor)
}

func (s *Screen) ShowCursor() {
	s.WriteString(showCursor)
}

// StartSyncMode brackets a redraw so the terminal presents it atomically.
func (s *Screen) StartSyncMode() {
	s.WriteString(startSync)
}

func (s *Screen) EndSyncMode() {
	s.WriteString(endSync)
	_ = s.Out.Flush()
}

func (s *Screen) DrawRoundBox(r Rect) {
	s.drawBox(r, RoundTopLeft, RoundTopRight, RoundBottomLeft, RoundBottomRight)
}

func (s *Screen) DrawSquareBox(r Rect) {
	s.drawBox(r, SquareTopLeft, SquareTopRight, SquareBottomLeft, SquareBottomRight)
}

func (s *Screen) drawBox(r Rect, tl, tr, bl, br string) {
	if r.W < 2 || r.H < 2 {
		return
	}
	horiz := strings.Repeat(Horizontal, r.W-2)
	s.WriteAtStr(r.X, r.Y, tl+horiz+tr)
	for y := r.Y + 1; y < r.Y+r.H-1; y++ {
		s.WriteAtStr(r.X, y, Vertical)
		s.WriteAtStr(r.X+r.W-1, y, Vertical)
	}
	s.WriteAtStr(r.X, r.Y+r.H-1, bl+horiz+br)
}

// Mouse reporting modes. Click only is the steady state; full tracking
// is enabled during drag captures and reverted on release.

func (s *Screen) MouseClickOn() {
	if s.mouseMode == 2 {
		s.WriteString(mouseTrackOff)
	}
	s.WriteString(mouseClickOn)
	s.mouseMode = 1
}

func (s *Screen) MouseTrackingOn() {
	s.WriteString(mouseTrackOn)
	s.mouseMode = 2
}

func (s *Screen) MouseOff() {
	switch s.mouseMode {
	case 1:
		s.WriteString(mouseClickOff)
	case 2:
		s.WriteString(mouseTrackOff)
		s.WriteString(mouseClickOff)
	}
	s.mouseMode = 0
}

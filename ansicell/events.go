package ansicell

import (
	"bytes"
	"unicode/utf8"

	"fortio.org/log"
)

// Rect is a cell rectangle, 0 based, W and H in cells.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Event is either a [KeyEvent] or a [MouseEvent].
type Event any

type KeyKind uint8

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyEscape
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
)

type KeyEvent struct {
	Kind KeyKind
	Rune rune // only for KeyRune, control runes included
}

// Mouse button bits, straight from the wire protocol (value - 32).
const (
	MouseLeft      = 0b00
	MouseMiddle    = 0b01
	MouseRight     = 0b10
	MouseRelease   = 0b11
	Shift          = 0b000100
	Alt            = 0b001000
	Ctrl           = 0b010000
	MouseMove      = 0b100000
	MouseWheelUp   = 0b1000000
	MouseWheelDown = 0b1000001

	allModifiers    = Shift | Alt | Ctrl
	anyModifierMask = ^allModifiers
)

// MouseEvent is one decoded mouse report. X and Y are 0 based cells.
type MouseEvent struct {
	X, Y    int
	Buttons int
}

func (m MouseEvent) LeftClick() bool {
	return m.Buttons&anyModifierMask == MouseLeft
}

func (m MouseEvent) LeftDrag() bool {
	return m.Buttons&anyModifierMask == MouseMove|MouseLeft
}

func (m MouseEvent) Released() bool {
	return m.Buttons&anyModifierMask == MouseRelease
}

// Handler receives events for a subscribed region. Key events go to the
// focused handler only; mouse events to the handler whose Rect contains
// them (most recently subscribed first) or to the capture owner during a
// drag. Focus is called with true/false as keyboard focus moves in/out.
type Handler struct {
	Rect  Rect
	Mouse func(MouseEvent) bool
	Key   func(KeyEvent) bool
	Focus func(gained bool)

	id int
}

// Subscribe registers a handler and returns its id (never 0).
func (s *Screen) Subscribe(h Handler) int {
	s.nextSubID++
	h.id = s.nextSubID
	s.subs = append(s.subs, &h)
	return h.id
}

// Unsubscribe removes a handler; focus and capture held by it are dropped.
func (s *Screen) Unsubscribe(id int) {
	for i, h := range s.subs {
		if h.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
	if s.focused == id {
		s.focused = 0
	}
	if s.captured == id {
		s.captured = 0
	}
}

func (s *Screen) SubscriptionCount() int {
	return len(s.subs)
}

// SetRect repositions a subscription (relayout after a resize).
func (s *Screen) SetRect(id int, r Rect) {
	if h := s.handler(id); h != nil {
		h.Rect = r
	}
}

func (s *Screen) handler(id int) *Handler {
	if id == 0 {
		return nil
	}
	for _, h := range s.subs {
		if h.id == id {
			return h
		}
	}
	return nil
}

// Focus moves keyboard focus to the given subscription (0 to blur all).
// The losing handler is notified before the gaining one.
func (s *Screen) Focus(id int) {
	if id == s.focused {
		return
	}
	old := s.handler(s.focused)
	s.focused = id
	if old != nil && old.Focus != nil {
		old.Focus(false)
	}
	if h := s.handler(id); h != nil && h.Focus != nil {
		h.Focus(true)
	}
}

func (s *Screen) Focused() int {
	return s.focused
}

// Capture routes all mouse events to one subscription until release (0
// clears). The real screen also flips motion reporting on so drags
// stream even between cells.
func (s *Screen) Capture(id int) {
	s.captured = id
	if s.mouseMode == 0 {
		return // headless
	}
	if id != 0 {
		s.MouseTrackingOn()
	} else {
		s.MouseClickOn()
	}
}

func (s *Screen) Captured() int {
	return s.captured
}

// Dispatch routes one event. Mouse presses focus the handler they hit
// and start a capture; the capture owner sees everything up to and
// including the release. Returns whether some handler consumed it.
func (s *Screen) Dispatch(ev Event) bool {
	switch e := ev.(type) {
	case KeyEvent:
		if h := s.handler(s.focused); h != nil && h.Key != nil {
			return h.Key(e)
		}
		return false
	case MouseEvent:
		if s.captured != 0 {
			h := s.handler(s.captured)
			released := e.Released()
			handled := false
			if h != nil && h.Mouse != nil {
				handled = h.Mouse(e)
			}
			if released {
				s.Capture(0)
			}
			return handled
		}
		for i := len(s.subs) - 1; i >= 0; i-- {
			h := s.subs[i]
			if h.Mouse == nil || !h.Rect.Contains(e.X, e.Y) {
				continue
			}
			if e.LeftClick() {
				s.Focus(h.id)
			}
			if !h.Mouse(e) {
				return false
			}
			if e.LeftClick() {
				s.Capture(h.id)
			}
			return true
		}
		if e.LeftClick() {
			s.Focus(0) // clicked outside everything
		}
		return false
	}
	return false
}

var mouseDataPrefix = []byte{0x1b, '[', 'M'}

// decodeEvents turns the accumulated raw bytes into events. Incomplete
// trailing sequences stay buffered for the next read.
func (s *Screen) decodeEvents() []Event {
	var evs []Event
	for len(s.data) > 0 {
		b := s.data[0]
		if b != 0x1b {
			ev, n := decodeKey(s.data)
			evs = append(evs, ev)
			s.data = s.data[n:]
			continue
		}
		// Escape: lone, CSI sequence, mouse report or OSC reply.
		if len(s.data) == 1 {
			evs = append(evs, KeyEvent{Kind: KeyEscape})
			s.data = nil
			break
		}
		switch s.data[1] {
		case '[':
			if bytes.HasPrefix(s.data, mouseDataPrefix) {
				if len(s.data) < 6 {
					return evs // wait for the remaining bytes
				}
				evs = append(evs, MouseEvent{
					Buttons: int(s.data[3]) - 32,
					X:       int(s.data[4]) - 32 - 1,
					Y:       int(s.data[5]) - 32 - 1,
				})
				s.data = s.data[6:]
				continue
			}
			ev, n, complete := decodeCSI(s.data)
			if !complete {
				return evs
			}
			if ev != nil {
				evs = append(evs, ev)
			}
			s.data = s.data[n:]
		case ']':
			n, complete := s.oscDecode()
			if !complete {
				return evs
			}
			s.data = s.data[n:]
		default:
			// Esc followed by an unrelated key.
			evs = append(evs, KeyEvent{Kind: KeyEscape})
			s.data = s.data[1:]
		}
	}
	if len(s.data) == 0 {
		s.data = nil
	}
	return evs
}

func decodeKey(data []byte) (Event, int) {
	switch data[0] {
	case '\r', '\n':
		return KeyEvent{Kind: KeyEnter}, 1
	case '\t':
		return KeyEvent{Kind: KeyTab}, 1
	case 0x7f, 0x08:
		return KeyEvent{Kind: KeyBackspace}, 1
	}
	r, n := utf8.DecodeRune(data)
	return KeyEvent{Kind: KeyRune, Rune: r}, n
}

// decodeCSI handles \033[ ... sequences other than mouse reports.
func decodeCSI(data []byte) (Event, int, bool) {
	// data[0]=ESC data[1]='['; find the final byte (0x40-0x7e).
	i := 2
	for ; i < len(data); i++ {
		if data[i] >= 0x40 && data[i] <= 0x7e {
			break
		}
	}
	if i >= len(data) {
		return nil, 0, false
	}
	final := data[i]
	n := i + 1
	var kind KeyKind
	switch final {
	case 'A':
		kind = KeyUp
	case 'B':
		kind = KeyDown
	case 'C':
		kind = KeyRight
	case 'D':
		kind = KeyLeft
	case 'H':
		kind = KeyHome
	case 'F':
		kind = KeyEnd
	case 'Z':
		kind = KeyBacktab
	case '~':
		switch string(data[2:i]) {
		case "1", "7":
			kind = KeyHome
		case "4", "8":
			kind = KeyEnd
		case "3":
			kind = KeyDelete
		default:
			return nil, n, true // unknown, skip
		}
	default:
		log.LogVf("Ignoring CSI sequence %q", data[:n])
		return nil, n, true
	}
	return KeyEvent{Kind: kind}, n, true
}

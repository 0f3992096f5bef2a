package ansicell

import (
	"bytes"
	"strconv"

	"fortio.org/log"
	"fortio.org/safecast"
	"fortio.org/tpick/webcolor"
)

// RequestBackgroundColor asks the terminal for its background color
// (OSC 11). The reply is decoded from the input stream and lands in
// Background/GotBackground; callers typically request once after Open
// and pick it up on the next Wait.
func (s *Screen) RequestBackgroundColor() {
	s.WriteString("\033]11;?\x07")
	_ = s.Out.Flush()
	s.backgroundRequested = true
}

var osc11ReplyPrefix = []byte("]11;rgb:")

// oscDecode consumes one OSC reply starting at s.data[0] == ESC.
// Returns the consumed length and whether the sequence was complete.
func (s *Screen) oscDecode() (int, bool) {
	// Find the terminator: BEL or ESC backslash.
	end := -1
	term := 0
	for i := 2; i < len(s.data); i++ {
		if s.data[i] == '\007' {
			end = i
			term = 1
			break
		}
		if s.data[i] == '\033' && i+1 < len(s.data) && s.data[i+1] == '\\' {
			end = i
			term = 2
			break
		}
	}
	if end == -1 {
		return 0, false
	}
	n := end + term
	if !s.backgroundRequested || !bytes.HasPrefix(s.data[1:], osc11ReplyPrefix) {
		log.LogVf("Ignoring OSC reply %q", s.data[:n])
		return n, true
	}
	parts := bytes.Split(s.data[1+len(osc11ReplyPrefix):end], []byte{'/'})
	if len(parts) != 3 {
		log.Errf("Unexpected OSC 11 reply %q", s.data[:n])
		return n, true
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(string(p), 16, 16)
		if err != nil {
			log.Errf("Bad OSC 11 channel %q: %v", p, err)
			return n, true
		}
		// Channels are scaled to their hex width (4 digits common).
		switch len(p) {
		case 1:
			v *= 17
		case 3:
			v >>= 4
		case 4:
			v >>= 8
		}
		ch[i] = safecast.MustConvert[uint8](v)
	}
	s.Background = webcolor.RGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}
	s.GotBackground = true
	s.backgroundRequested = false
	log.Debugf("Terminal background %v", s.Background)
	return n, true
}

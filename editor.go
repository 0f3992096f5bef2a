package tpick

import (
	"fortio.org/tpick/ansicell"
)

// editorField is the single line text input: a rune buffer, a caret and
// a scroll offset for text wider than the field.
type editorField struct {
	text   []rune
	caret  int
	scroll int
}

func (e *editorField) setText(s string) {
	e.text = []rune(s)
	e.caret = len(e.text)
}

func (e *editorField) String() string {
	return string(e.text)
}

// caretTo places the caret from a click at the given visible column.
func (e *editorField) caretTo(col int) {
	e.caret = min(e.scroll+col, len(e.text))
}

// handleKey edits the buffer. changed reports a text mutation (caller
// reparses), handled whether the key was consumed at all.
func (e *editorField) handleKey(k ansicell.KeyEvent) (changed, handled bool) {
	switch k.Kind {
	case ansicell.KeyRune:
		if k.Rune < ' ' {
			return false, false
		}
		e.text = append(e.text[:e.caret], append([]rune{k.Rune}, e.text[e.caret:]...)...)
		e.caret++
		return true, true
	case ansicell.KeyBackspace:
		if e.caret == 0 {
			return false, true
		}
		e.text = append(e.text[:e.caret-1], e.text[e.caret:]...)
		e.caret--
		return true, true
	case ansicell.KeyDelete:
		if e.caret >= len(e.text) {
			return false, true
		}
		e.text = append(e.text[:e.caret], e.text[e.caret+1:]...)
		return true, true
	case ansicell.KeyLeft:
		if e.caret > 0 {
			e.caret--
		}
		return false, true
	case ansicell.KeyRight:
		if e.caret < len(e.text) {
			e.caret++
		}
		return false, true
	case ansicell.KeyHome:
		e.caret = 0
		return false, true
	case ansicell.KeyEnd:
		e.caret = len(e.text)
		return false, true
	}
	return false, false
}

// window returns the visible slice and the caret column for a field of
// the given width, adjusting the scroll to keep the caret in view.
func (e *editorField) window(w int) (visible string, caretCol int) {
	if e.caret < e.scroll {
		e.scroll = e.caret
	}
	if e.caret >= e.scroll+w {
		e.scroll = e.caret - w + 1
	}
	end := min(e.scroll+w, len(e.text))
	return string(e.text[e.scroll:end]), e.caret - e.scroll
}

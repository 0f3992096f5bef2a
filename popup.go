package tpick

import (
	"fortio.org/tpick/ansicell"
)

// PopupState is the popup lifecycle state. Inline pickers bypass the
// machine entirely (permanently open).
type PopupState uint8

const (
	Closed PopupState = iota
	Open
)

func (s PopupState) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// surface identifies which track owns the live drag.
type surface uint8

const (
	surfaceNone surface = iota
	surfaceHue
	surfaceSL
	surfaceAlpha
)

func (p *Picker) inline() bool {
	return p.opts.Popup == PlacementNone
}

func (p *Picker) layoutPanel() {
	lay := layouts[p.opts.Layout]
	w, h := panelSize(&p.opts, lay)
	p.panel = placePanel(p.screen.W, p.screen.H, p.opts.Anchor, p.opts.Popup, w, h)
	p.regions = computeRegions(p.panel, &p.opts, lay)
}

func (p *Picker) panelHandler() ansicell.Handler {
	return ansicell.Handler{
		Rect:  p.panel,
		Mouse: p.panelMouse,
		Key:   p.panelKey,
		Focus: p.panelFocus,
	}
}

// open transitions Closed to Open: lay out and draw the panel, bind it,
// schedule the deferred focus transfer (so the keystroke that opened the
// popup cannot land in the editor) and fire the open listener.
func (p *Picker) open() bool {
	if p.destroyed || p.inline() || p.state == Open {
		return false
	}
	p.state = Open
	p.layoutPanel()
	p.panelSub = p.screen.Subscribe(p.panelHandler())
	p.draw()
	p.cancelFocus = p.clock.Schedule(p.focusPanel)
	if p.opts.OnOpen != nil {
		p.opts.OnOpen(p.View())
	}
	return true
}

func (p *Picker) focusPanel() {
	p.cancelFocus = nil
	if p.state == Open && p.panelSub != 0 {
		p.screen.Focus(p.panelSub)
	}
}

// close transitions Open to Closed: cancel pending deferred actions,
// unbind and clear the panel, optionally return focus to the anchor,
// fire the close listener. Unsubscribing drops panel focus without
// notifications, so closing never re-enters the blur path.
func (p *Picker) close(refocus bool) bool {
	if p.inline() || p.state != Open {
		return false
	}
	p.state = Closed
	p.cancelPending()
	if p.panelSub != 0 {
		p.screen.Unsubscribe(p.panelSub)
		p.panelSub = 0
	}
	p.dragging = surfaceNone
	p.screen.ClearRect(p.panel)
	if refocus && p.anchorSub != 0 {
		p.screen.Focus(p.anchorSub)
	}
	if p.opts.OnClose != nil {
		p.opts.OnClose(p.View())
	}
	return true
}

func (p *Picker) cancelPending() {
	if p.cancelClose != nil {
		p.cancelClose()
		p.cancelClose = nil
	}
	if p.cancelFocus != nil {
		p.cancelFocus()
		p.cancelFocus = nil
	}
}

// dismiss is the Escape/Cancel path: close, always refocusing the anchor.
func (p *Picker) dismiss() {
	p.close(true)
}

// confirm is the Enter/OK path: fire the done listener with the current
// view, then close like a dismiss, anchor refocused.
func (p *Picker) confirm() {
	if p.opts.OnDone != nil {
		p.opts.OnDone(p.View())
	}
	p.close(true)
}

// panelFocus implements the blur debounce: losing focus schedules a zero
// delay close; focus re-entering the panel before it fires cancels it.
// The deferred close does not refocus the anchor, the focus change that
// caused the blur already directed focus elsewhere.
func (p *Picker) panelFocus(gained bool) {
	if gained {
		if p.cancelClose != nil {
			p.cancelClose()
			p.cancelClose = nil
		}
		return
	}
	if p.state != Open {
		return
	}
	if p.cancelClose != nil {
		p.cancelClose()
	}
	p.cancelClose = p.clock.Schedule(p.deferredClose)
}

func (p *Picker) deferredClose() {
	p.cancelClose = nil
	p.close(false)
}

// anchorMouse opens on click when closed. While open every anchor
// pointer interaction is swallowed, so a click can close via the blur
// path but never re-opens in the same breath.
func (p *Picker) anchorMouse(e ansicell.MouseEvent) bool {
	if p.state == Open {
		return true
	}
	if e.LeftClick() {
		p.open()
	}
	return true
}

func (p *Picker) anchorKey(k ansicell.KeyEvent) bool {
	if p.state == Open {
		return true
	}
	if k.Kind == ansicell.KeyEnter || (k.Kind == ansicell.KeyRune && k.Rune == ' ') {
		p.open()
		return true
	}
	return false
}

// panelMouse consumes all pointer interaction on the panel. Presses on a
// track start a drag; every motion report while captured reapplies the
// mapper, live preview included. The release that ends a drag is
// consumed here and never reaches the anchor.
func (p *Picker) panelMouse(e ansicell.MouseEvent) bool {
	switch {
	case e.LeftClick():
		p.panelClick(e)
	case e.LeftDrag() && p.dragging != surfaceNone:
		p.dragTo(e.X, e.Y)
	case e.Released():
		p.dragging = surfaceNone
	}
	return true
}

func (p *Picker) panelClick(e ansicell.MouseEvent) {
	r := &p.regions
	switch {
	case r.hue.Contains(e.X, e.Y):
		p.dragging = surfaceHue
		p.dragTo(e.X, e.Y)
	case r.sl.Contains(e.X, e.Y):
		p.dragging = surfaceSL
		p.dragTo(e.X, e.Y)
	case r.alpha.Contains(e.X, e.Y):
		p.dragging = surfaceAlpha
		p.dragTo(e.X, e.Y)
	case r.editor.Contains(e.X, e.Y):
		p.editor.caretTo(e.X - r.editor.X)
		p.draw()
	case r.ok.Contains(e.X, e.Y):
		p.confirm()
	case r.cancel.Contains(e.X, e.Y):
		p.dismiss()
	}
}

// dragTo normalizes the pointer against the active track and applies the
// mapped channel update.
func (p *Picker) dragTo(ex, ey int) {
	switch p.dragging {
	case surfaceHue:
		x, y := normPos(p.regions.hue, ex, ey)
		p.applyChannelUpdate(ChannelUpdate{H: F(hueFromPos(x, y))}, updateFlags{})
	case surfaceSL:
		x, y := normPos(p.regions.sl, ex, ey)
		sat, light := slFromPos(x, y)
		p.applyChannelUpdate(ChannelUpdate{S: F(sat), L: F(light)}, updateFlags{})
	case surfaceAlpha:
		x, y := normPos(p.regions.alpha, ex, ey)
		p.applyChannelUpdate(ChannelUpdate{A: F(alphaFromPos(x, y))}, updateFlags{})
	case surfaceNone:
	}
}

func (p *Picker) panelKey(k ansicell.KeyEvent) bool {
	switch k.Kind {
	case ansicell.KeyEscape:
		p.dismiss()
		return true
	case ansicell.KeyEnter:
		p.confirm()
		return true
	}
	if !p.opts.Editor {
		return false
	}
	changed, handled := p.editor.handleKey(k)
	if !handled {
		return false
	}
	if changed {
		// Live typing: apply when parseable, otherwise keep the prior
		// color untouched and let the user keep editing.
		_ = p.setFullColor(p.editor.String(), updateFlags{fromEditor: true, failSilently: true})
	}
	p.draw()
	return true
}

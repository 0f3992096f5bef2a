// Package tpick is an embeddable color picker widget for terminal UIs
// built on ansicell screens: a hue strip, a saturation/lightness plane,
// an optional vertical alpha track, a text editor field and OK/Cancel
// actions, kept in sync around a single canonical HSLA color. It can
// run as a popup anchored to a cell region of the host application or
// inline as a permanently visible panel.
package tpick // import "fortio.org/tpick"

import (
	"fortio.org/log"
	"fortio.org/tpick/ansicell"
	"fortio.org/tpick/webcolor"
)

// Picker is one picker instance bound to a screen. Not safe for
// concurrent use, like the screen itself: drive it from the event loop.
type Picker struct {
	screen *ansicell.Screen
	clock  ansicell.Clock
	opts   Options

	color webcolor.HSLA
	state PopupState

	panel   ansicell.Rect
	regions regions

	anchorSub int
	panelSub  int

	editor   editorField
	dragging surface

	cancelClose func()
	cancelFocus func()

	destroyed bool
}

// New builds a picker on the given screen. The initial color string must
// parse (default "gold"). Popup mode binds the anchor region for
// click/Space/Enter opening unless ManualPopup is set; inline mode
// renders immediately into the anchor region and stays up.
func New(screen *ansicell.Screen, opts Options) (*Picker, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	ensureRenderTables()
	c, err := webcolor.Parse(opts.Color)
	if err != nil {
		return nil, err
	}
	if !opts.Alpha {
		c = c.WithAlpha(1)
	}
	p := &Picker{screen: screen, clock: screen, opts: opts, color: c}
	if opts.Editor {
		p.editor.setText(p.editorText())
	}
	if p.inline() {
		p.state = Open
		p.layoutPanel()
		p.panelSub = screen.Subscribe(p.panelHandler())
		p.draw()
	} else if !opts.ManualPopup && !opts.Anchor.Empty() {
		p.bindAnchor()
	}
	return p, nil
}

func (p *Picker) bindAnchor() {
	p.anchorSub = p.screen.Subscribe(ansicell.Handler{
		Rect:  p.opts.Anchor,
		Mouse: p.anchorMouse,
		Key:   p.anchorKey,
	})
}

// SetColor replaces the current color from any recognized color string
// (named, hex, rgb()/rgba(), hsl()/hsla()). With silent set the change
// listener is not invoked. On parse error the prior color is kept.
func (p *Picker) SetColor(value string, silent bool) error {
	return p.setFullColor(value, updateFlags{silent: silent})
}

// SetRGBA replaces the current color from [r, g, b] or [r, g, b, a]
// component values in [0, 255] (alpha in [0, 1]).
func (p *Picker) SetRGBA(values []float64, silent bool) error {
	c, err := webcolor.FromValues(values)
	if err != nil {
		return err
	}
	p.setParsed(c, updateFlags{silent: silent})
	return nil
}

// Show opens the popup and reports whether a transition happened.
// Inline pickers are always open and report false.
func (p *Picker) Show() bool {
	return p.open()
}

// Hide closes the popup without moving focus and reports whether a
// transition happened.
func (p *Picker) Hide() bool {
	return p.close(false)
}

// State reports the popup state. Inline pickers report Open.
func (p *Picker) State() PopupState {
	return p.state
}

// Bounds is the panel rectangle from the last layout.
func (p *Picker) Bounds() ansicell.Rect {
	return p.panel
}

// Redraw repaints the panel if it is up, for hosts that repaint the
// screen under it every frame.
func (p *Picker) Redraw() {
	p.draw()
}

// Relayout recomputes the panel placement (after a resize) and redraws
// when the panel is up.
func (p *Picker) Relayout() {
	if p.state != Open {
		return
	}
	p.screen.ClearRect(p.panel)
	p.layoutPanel()
	if p.panelSub != 0 {
		p.screen.SetRect(p.panelSub, p.panel)
	}
	p.draw()
}

// Reconfigure rebuilds the picker with new options. An open popup is
// closed first without returning focus, as if it had blurred. The color
// is reparsed only when the new options name one, otherwise the current
// color is kept. With openImmediately the popup reopens once rebound.
func (p *Picker) Reconfigure(opts Options, openImmediately bool) error {
	if p.destroyed {
		return &ConfigurationError{Option: "picker", Detail: "already destroyed"}
	}
	colorGiven := opts.Color != ""
	if err := opts.validate(); err != nil {
		return err
	}
	newColor := p.color
	if colorGiven {
		var err error
		newColor, err = webcolor.Parse(opts.Color)
		if err != nil {
			return err
		}
	}
	if p.inline() {
		p.teardownInline()
	} else {
		p.close(false)
	}
	if p.anchorSub != 0 {
		p.screen.Unsubscribe(p.anchorSub)
		p.anchorSub = 0
	}
	p.cancelPending()
	p.opts = opts
	// Reapply even when the color is unchanged so derived state follows
	// the new options (alpha pinning, editor format).
	p.setParsed(newColor, updateFlags{silent: true})
	if p.inline() {
		p.state = Open
		p.layoutPanel()
		p.panelSub = p.screen.Subscribe(p.panelHandler())
		p.draw()
		return nil
	}
	p.state = Closed
	if !opts.ManualPopup && !opts.Anchor.Empty() {
		p.bindAnchor()
	}
	if openImmediately {
		p.open()
	}
	return nil
}

func (p *Picker) teardownInline() {
	if p.panelSub != 0 {
		p.screen.Unsubscribe(p.panelSub)
		p.panelSub = 0
	}
	p.screen.ClearRect(p.panel)
	p.state = Closed
}

// Destroy forces a close with focus return, removes every subscription
// and clears the panel. The picker is inert afterwards; Destroy is
// idempotent.
func (p *Picker) Destroy() {
	if p.destroyed {
		return
	}
	if p.inline() {
		p.teardownInline()
	} else if !p.close(true) {
		log.LogVf("destroying already closed picker")
	}
	if p.anchorSub != 0 {
		p.screen.Unsubscribe(p.anchorSub)
		p.anchorSub = 0
	}
	p.cancelPending()
	p.destroyed = true
}

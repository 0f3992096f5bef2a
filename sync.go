package tpick

import (
	"fortio.org/tpick/webcolor"
)

// ChannelUpdate is a partial color mutation: nil channels are left
// untouched, non nil ones overwrite, explicit zero included. Values are
// clamped to [0,1].
type ChannelUpdate struct {
	H, S, L, A *float64
}

// F wraps a value for a ChannelUpdate field.
func F(v float64) *float64 {
	return &v
}

// ColorView is the callback payload: every derived view of the current
// color, regenerated on each update.
type ColorView struct {
	RGBA       [4]uint8
	HSLA       [4]float64
	RGBString  string
	RGBAString string
	HSLString  string
	HSLAString string
	Hex        string
}

func makeView(c webcolor.HSLA) ColorView {
	v := c.RGBA()
	return ColorView{
		RGBA:       [4]uint8{v.R, v.G, v.B, v.A},
		HSLA:       [4]float64{c.H, c.S, c.L, c.A},
		RGBString:  c.RGBString(false),
		RGBAString: c.RGBString(true),
		HSLString:  c.HSLString(false),
		HSLAString: c.HSLString(true),
		Hex:        c.Hex(true),
	}
}

// View returns the derived views of the current color.
func (p *Picker) View() ColorView {
	return makeView(p.color)
}

// ViewOf builds the derived view set for any color, no picker needed.
func ViewOf(c webcolor.HSLA) ColorView {
	return makeView(c)
}

// Color returns the canonical color state.
func (p *Picker) Color() webcolor.HSLA {
	return p.color
}

type updateFlags struct {
	// silent suppresses the change listener.
	silent bool
	// fromEditor suppresses the editor text refresh, so live keystrokes
	// are not overwritten by their own effect.
	fromEditor bool
	// failSilently discards parse failures (live typing) instead of
	// returning them.
	failSilently bool
}

// applyChannelUpdate overwrites the provided channels on a copy of the
// live color, swaps the copy in and refreshes every derived view.
func (p *Picker) applyChannelUpdate(u ChannelUpdate, flags updateFlags) {
	c := p.color
	if u.H != nil {
		c.H = clamp01(*u.H)
	}
	if u.S != nil {
		c.S = clamp01(*u.S)
	}
	if u.L != nil {
		c.L = clamp01(*u.L)
	}
	if u.A != nil {
		c.A = clamp01(*u.A)
	}
	if !p.opts.Alpha {
		c.A = 1
	}
	p.color = c
	p.refresh(flags)
}

// setFullColor replaces the color from a parsed string. Parse failures
// propagate to the caller except with failSilently, where the attempt is
// discarded and the prior state fully preserved.
func (p *Picker) setFullColor(input string, flags updateFlags) error {
	c, err := webcolor.Parse(input)
	if err != nil {
		if flags.failSilently {
			return nil
		}
		return err
	}
	p.setParsed(c, flags)
	return nil
}

func (p *Picker) setParsed(c webcolor.HSLA, flags updateFlags) {
	if !p.opts.Alpha {
		c = c.WithAlpha(1)
	}
	p.color = c
	p.refresh(flags)
}

// refresh regenerates the derived views after a color change: editor
// text (unless the change came from the editor), panel visuals, change
// listener (unless silent).
func (p *Picker) refresh(flags updateFlags) {
	if !flags.fromEditor && p.opts.Editor {
		p.editor.setText(p.editorText())
	}
	p.draw()
	if !flags.silent && p.opts.OnChange != nil {
		p.opts.OnChange(p.View())
	}
}

// editorText renders the current color in the configured editor format.
func (p *Picker) editorText() string {
	switch p.opts.EditorFormat {
	case FormatHSL:
		return p.color.HSLString(p.opts.Alpha)
	case FormatRGB:
		return p.color.RGBString(p.opts.Alpha)
	default:
		return p.color.Hex(p.opts.Alpha)
	}
}

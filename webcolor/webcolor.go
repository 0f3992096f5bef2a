// Package webcolor parses and formats CSS style colors for terminal UIs.
// The canonical representation is HSLA with every channel normalized to
// [0,1]; 8 bit RGBA, hex and css function strings are derived views.
// Also provides ANSI output of arbitrary colors with a 256 color fallback.
package webcolor // import "fortio.org/tpick/webcolor"

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/image/colornames"
)

// HSLA is the canonical color state. All four channels are in [0,1],
// hue included (multiply by 360 for degrees).
type HSLA struct {
	H, S, L, A float64
}

// RGBA is the 8 bit view of an [HSLA] color.
type RGBA struct {
	R, G, B, A uint8
}

// InvalidColorError is returned by [Parse] and [FromValues] when the input
// doesn't match any recognized color form. Match with errors.As.
type InvalidColorError struct {
	Input  string
	Detail string
	Err    error // underlying number parse error, if any
}

func (e *InvalidColorError) Error() string {
	msg := fmt.Sprintf("invalid color %q", e.Input)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidColorError) Unwrap() error {
	return e.Err
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Parse converts a color string to its canonical HSLA form.
// Accepted, case insensitively and with surrounding spaces ignored:
// css named colors (plus "transparent"), hex with optional leading #
// in 3, 4, 6 or 8 digit form, and the rgb()/rgba()/hsl()/hsla()
// function forms. Anything else returns an [InvalidColorError].
func Parse(input string) (HSLA, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return HSLA{}, &InvalidColorError{Input: input, Detail: "empty"}
	}
	if s == "transparent" {
		return HSLA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return FromRGBA(RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}), nil
	}
	if strings.HasPrefix(s, "rgb") {
		return parseRGBFunc(input, s)
	}
	if strings.HasPrefix(s, "hsl") {
		return parseHSLFunc(input, s)
	}
	return parseHex(input, s)
}

// FromValues builds a color from [r, g, b] or [r, g, b, a] with the rgb
// channels in 0-255 and alpha in [0,1] (defaults to 1).
func FromValues(v []float64) (HSLA, error) {
	if len(v) != 3 && len(v) != 4 {
		return HSLA{}, &InvalidColorError{Input: fmt.Sprint(v), Detail: "need 3 or 4 values"}
	}
	a := 1.
	if len(v) == 4 {
		a = clamp01(v[3])
	}
	h, s, l := rgbToHSL(clamp01(v[0]/255.), clamp01(v[1]/255.), clamp01(v[2]/255.))
	return HSLA{H: h, S: s, L: l, A: a}, nil
}

// FromRGBA converts the 8 bit view back to canonical HSLA.
func FromRGBA(c RGBA) HSLA {
	h, s, l := rgbToHSL(float64(c.R)/255., float64(c.G)/255., float64(c.B)/255.)
	return HSLA{H: h, S: s, L: l, A: float64(c.A) / 255.}
}

// RGBA returns the 8 bit view, rounding each channel.
func (c HSLA) RGBA() RGBA {
	r, g, b := hslToRGB(c.H, c.S, c.L)
	return RGBA{
		R: safecast.MustRound[uint8](r * 255),
		G: safecast.MustRound[uint8](g * 255),
		B: safecast.MustRound[uint8](b * 255),
		A: safecast.MustRound[uint8](c.A * 255),
	}
}

// WithAlpha returns the color with the alpha channel replaced (clamped).
func (c HSLA) WithAlpha(a float64) HSLA {
	c.A = clamp01(a)
	return c
}

func (c HSLA) String() string {
	return c.Hex(true)
}

// Hex returns the css hex string. 8 digits only when includeAlpha is set
// and alpha isn't exactly 1, 6 digits otherwise.
func (c HSLA) Hex(includeAlpha bool) string {
	v := c.RGBA()
	if includeAlpha && c.A != 1 {
		return fmt.Sprintf("#%02x%02x%02x%02x", v.R, v.G, v.B, v.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", v.R, v.G, v.B)
}

// HSLString returns hsl(h, s%, l%) or hsla(h, s%, l%, a) when includeAlpha
// is set. Degrees and percentages are rounded to integers.
func (c HSLA) HSLString(includeAlpha bool) string {
	h := safecast.MustRound[int](c.H * 360)
	s := safecast.MustRound[int](c.S * 100)
	l := safecast.MustRound[int](c.L * 100)
	if includeAlpha {
		return fmt.Sprintf("hsla(%d, %d%%, %d%%, %s)", h, s, l, formatAlpha(c.A))
	}
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", h, s, l)
}

// RGBString returns rgb(r, g, b) or rgba(r, g, b, a) when includeAlpha is set.
func (c HSLA) RGBString(includeAlpha bool) string {
	v := c.RGBA()
	if includeAlpha {
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", v.R, v.G, v.B, formatAlpha(c.A))
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", v.R, v.G, v.B)
}

// Alpha rendered with up to 3 decimals, trailing zeros trimmed ("0.5" not "0.500").
func formatAlpha(a float64) string {
	return strconv.FormatFloat(math.Round(a*1000)/1000, 'f', -1, 64)
}

func parseHex(orig, s string) (HSLA, error) {
	s = strings.TrimPrefix(s, "#")
	n := len(s)
	if n != 3 && n != 4 && n != 6 && n != 8 {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "not a color name, hex, rgb() or hsl() form"}
	}
	if n <= 4 {
		// Shorthand: each digit doubled (f -> ff).
		var sb strings.Builder
		for _, r := range s {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		s = sb.String()
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "bad hex digits", Err: err}
	}
	a := uint8(0xff)
	if len(s) == 8 {
		a = safecast.MustConvert[uint8](v & 0xff)
		v >>= 8
	}
	h, sat, l := rgbToHSL(float64(v>>16)/255., float64((v>>8)&0xff)/255., float64(v&0xff)/255.)
	return HSLA{H: h, S: sat, L: l, A: float64(a) / 255.}, nil
}

// Splits "name(a, b, c)" into name and args. Commas, spaces and the css
// slash alpha separator are all accepted between arguments.
func funcArgs(s string) (string, []string) {
	open := strings.IndexByte(s, '(')
	closing := strings.LastIndexByte(s, ')')
	if open < 0 || closing != len(s)-1 || closing < open {
		return "", nil
	}
	args := strings.FieldsFunc(s[open+1:closing], func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t'
	})
	return s[:open], args
}

func parseRGBFunc(orig, s string) (HSLA, error) {
	name, args := funcArgs(s)
	if name != "rgb" && name != "rgba" {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "expecting rgb(...) or rgba(...)"}
	}
	if len(args) != 3 && len(args) != 4 {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "rgb() needs 3 or 4 arguments"}
	}
	var ch [3]float64
	for i := range 3 {
		v, err := rgbChannel(args[i])
		if err != nil {
			return HSLA{}, &InvalidColorError{Input: orig, Detail: "bad rgb channel", Err: err}
		}
		ch[i] = v
	}
	a := 1.
	if len(args) == 4 {
		var err error
		a, err = alphaChannel(args[3])
		if err != nil {
			return HSLA{}, &InvalidColorError{Input: orig, Detail: "bad alpha", Err: err}
		}
	}
	h, sat, l := rgbToHSL(ch[0], ch[1], ch[2])
	return HSLA{H: h, S: sat, L: l, A: a}, nil
}

func parseHSLFunc(orig, s string) (HSLA, error) {
	name, args := funcArgs(s)
	if name != "hsl" && name != "hsla" {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "expecting hsl(...) or hsla(...)"}
	}
	if len(args) != 3 && len(args) != 4 {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "hsl() needs 3 or 4 arguments"}
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "bad hue", Err: err}
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sat, err := percentChannel(args[1])
	if err != nil {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "bad saturation", Err: err}
	}
	l, err := percentChannel(args[2])
	if err != nil {
		return HSLA{}, &InvalidColorError{Input: orig, Detail: "bad lightness", Err: err}
	}
	a := 1.
	if len(args) == 4 {
		a, err = alphaChannel(args[3])
		if err != nil {
			return HSLA{}, &InvalidColorError{Input: orig, Detail: "bad alpha", Err: err}
		}
	}
	return HSLA{H: h / 360., S: sat, L: l, A: a}, nil
}

// 0-255 number or percentage, normalized to [0,1].
func rgbChannel(s string) (float64, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		return clamp01(v / 100.), err
	}
	v, err := strconv.ParseFloat(s, 64)
	return clamp01(v / 255.), err
}

// Percentage with optional % sign; bare values above 1 are percentages too.
func percentChannel(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if v > 1 {
		v /= 100.
	}
	return clamp01(v), err
}

// 0-1 number or percentage.
func alphaChannel(s string) (float64, error) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		return clamp01(v / 100.), err
	}
	v, err := strconv.ParseFloat(s, 64)
	return clamp01(v), err
}

// rgbToHSL converts [0,1] rgb floats to hsl, all in [0,1].
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	mx := max(r, g, b)
	mn := min(r, g, b)
	l = (mx + mn) / 2
	if mx == mn {
		return 0, 0, l // achromatic
	}
	d := mx - mn
	if l > 0.5 {
		s = d / (2 - mx - mn)
	} else {
		s = d / (mx + mn)
	}
	switch mx {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6
	return h, s, l
}

// hslToRGB converts h, s, l in [0,1] to [0,1] rgb floats.
func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1. + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h+1/3.)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1/3.)
	return r, g, b
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1.
	}
	if t > 1 {
		t -= 1.
	}
	if t < 1/6. {
		return p + (q-p)*6*t
	}
	if t < 0.5 {
		return q
	}
	if t < 2/3. {
		return p + (q-p)*(2/3.-t)*6
	}
	return p
}

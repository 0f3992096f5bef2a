package webcolor

import (
	"fmt"

	"fortio.org/safecast"
)

// Misc useful sequences.
const (
	Bold       = "\x1b[1m"
	Dim        = "\x1b[2m"
	Underlined = "\x1b[4m"
	Inverse    = "\033[7m"
	Reset      = "\033[0m"
)

// Foreground returns the true color foreground escape for the color.
func (c RGBA) Foreground() string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Background returns the true color background escape for the color.
func (c RGBA) Background() string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// To216 quantizes to the 256 color palette: 16-231 is the 6x6x6 color
// cube, 232-255 the grayscale ramp (with 16 and 231 for pure black/white).
func (c RGBA) To216() uint8 {
	// Check if grayscale
	shift := 4
	if (c.R>>shift) == (c.G>>shift) && (c.G>>shift) == (c.B>>shift) {
		lum := (uint16(c.R) + uint16(c.G) + uint16(c.B)) / 3
		if lum < 9 { // 0-8, 9 levels
			return 16 // -> black
		}
		if lum > 247 { // 248-255 (incl) 8 levels
			return 231 // -> white
		}
		return safecast.MustConvert[uint8](min(255, 232+((lum-9)*(256-232))/(247-9)))
	}
	// 6x6x6 color cube
	return 16 + 36*(c.R/51) + 6*(c.G/51) + c.B/51
}

// ColorOutput emits foreground/background escapes for a color, degrading
// to the 256 color palette when the terminal lacks true color support.
type ColorOutput struct {
	TrueColor bool // true if the output supports true color, false for 256 colors
}

func (co ColorOutput) Foreground(c RGBA) string {
	if co.TrueColor {
		return c.Foreground()
	}
	return fmt.Sprintf("\033[38;5;%dm", c.To216())
}

func (co ColorOutput) Background(c RGBA) string {
	if co.TrueColor {
		return c.Background()
	}
	return fmt.Sprintf("\033[48;5;%dm", c.To216())
}

package ansicell

// Ansi sequences used by the screen. Colors come from webcolor.
const (
	clearScreen   = "\033[2J\033[H"
	clearEOL      = "\033[K"
	hideCursor    = "\033[?25l"
	showCursor    = "\033[?25h"
	startSync     = "\033[?2026h"
	endSync       = "\033[?2026l"
	mouseClickOn  = "\033[?1000h"
	mouseTrackOn  = "\033[?1003h"
	mouseClickOff = "\033[?1000l"
	mouseTrackOff = "\033[?1003l"

	// Half pixels, used to get 2 vertical pixels out of one cell.
	FullPixel       = '█'
	TopHalfPixel    = '▀'
	BottomHalfPixel = '▄'
)

// Box drawing characters.
const (
	RoundTopLeft     = "╭"
	RoundTopRight    = "╮"
	RoundBottomLeft  = "╰"
	RoundBottomRight = "╯"

	SquareTopLeft     = "┌"
	SquareTopRight    = "┐"
	SquareBottomLeft  = "└"
	SquareBottomRight = "┘"

	Horizontal = "─"
	Vertical   = "│"
)

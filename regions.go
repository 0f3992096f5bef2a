package tpick

import (
	"fortio.org/safecast"
	"fortio.org/tpick/ansicell"
)

// layoutSpec is a panel geometry preset, sized by its SL plane.
type layoutSpec struct {
	planeW, planeH int
}

var layouts = map[string]layoutSpec{
	"default": {planeW: 14, planeH: 6},
	"wide":    {planeW: 22, planeH: 8},
}

// Panel rows: border, hue strip, SL plane (alpha strip alongside),
// editor + swatch, buttons, border. One cell of padding inside the box.
func panelSize(opts *Options, lay layoutSpec) (w, h int) {
	innerW := lay.planeW
	if opts.Alpha {
		innerW += 2 // gap + vertical alpha strip
	}
	return innerW + 4, lay.planeH + 5
}

// placePanel positions the panel against the anchor, clamped to the
// screen so popups near an edge stay visible.
func placePanel(sw, sh int, anchor ansicell.Rect, pl Placement, w, h int) ansicell.Rect {
	var x, y int
	switch pl {
	case PlacementBottom:
		x, y = anchor.X, anchor.Y+anchor.H
	case PlacementTop:
		x, y = anchor.X, anchor.Y-h
	case PlacementLeft:
		x, y = anchor.X-w, anchor.Y
	case PlacementRight:
		x, y = anchor.X+anchor.W, anchor.Y
	case PlacementNone:
		x, y = anchor.X, anchor.Y
	}
	x = max(0, min(x, sw-w))
	y = max(0, min(y, sh-h))
	return ansicell.Rect{X: x, Y: y, W: w, H: h}
}

// regions are the named cell rectangles the engine addresses; empty
// rects mark disabled parts (alpha track, editor, cancel).
type regions struct {
	hue, sl, alpha, editor, swatch, ok, cancel ansicell.Rect
}

func computeRegions(panel ansicell.Rect, opts *Options, lay layoutSpec) regions {
	innerW := panel.W - 4
	x := panel.X + 2
	var r regions
	r.hue = ansicell.Rect{X: x, Y: panel.Y + 1, W: innerW, H: 1}
	r.sl = ansicell.Rect{X: x, Y: panel.Y + 2, W: lay.planeW, H: lay.planeH}
	if opts.Alpha {
		r.alpha = ansicell.Rect{X: x + lay.planeW + 1, Y: panel.Y + 2, W: 1, H: lay.planeH}
	}
	rowY := panel.Y + 2 + lay.planeH
	if opts.Editor {
		r.editor = ansicell.Rect{X: x, Y: rowY, W: innerW - 4, H: 1}
	}
	r.swatch = ansicell.Rect{X: x + innerW - 3, Y: rowY, W: 3, H: 1}
	btnY := rowY + 1
	r.ok = ansicell.Rect{X: x + innerW - 4, Y: btnY, W: 4, H: 1}
	if opts.CancelButton {
		r.cancel = ansicell.Rect{X: r.ok.X - 9, Y: btnY, W: 8, H: 1}
	}
	return r
}

// normPos maps a cell position against a track rect to normalized
// [0,1]x[0,1] drag coordinates, clamped, both endpoints reachable.
// Degenerate axes (1 cell) report 0.
func normPos(r ansicell.Rect, ex, ey int) (x, y float64) {
	if r.W > 1 {
		x = clamp01(float64(ex-r.X) / float64(r.W-1))
	}
	if r.H > 1 {
		y = clamp01(float64(ey-r.Y) / float64(r.H-1))
	}
	return x, y
}

// thumbCell is the inverse of normPos: the cell a normalized thumb
// position lands on.
func thumbCell(r ansicell.Rect, tx, ty float64) (x, y int) {
	x, y = r.X, r.Y
	if r.W > 1 {
		x += safecast.MustRound[int](tx * float64(r.W-1))
	}
	if r.H > 1 {
		y += safecast.MustRound[int](ty * float64(r.H-1))
	}
	return x, y
}

package tpick

import (
	"testing"

	"fortio.org/tpick/ansicell"
)

func TestPanelSize(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		alpha  bool
		w, h   int
	}{
		{"default with alpha", "default", true, 20, 11},
		{"default no alpha", "default", false, 18, 11},
		{"wide with alpha", "wide", true, 28, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Layout = tt.layout
			opts.Alpha = tt.alpha
			w, h := panelSize(&opts, layouts[tt.layout])
			if w != tt.w || h != tt.h {
				t.Errorf("panelSize = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestPlacePanel(t *testing.T) {
	anchor := ansicell.Rect{X: 30, Y: 10, W: 8, H: 1}
	tests := []struct {
		name string
		pl   Placement
		want ansicell.Rect
	}{
		{"bottom", PlacementBottom, ansicell.Rect{X: 30, Y: 11, W: 20, H: 11}},
		{"top", PlacementTop, ansicell.Rect{X: 30, Y: 0, W: 20, H: 11}}, // 10-11 clamps to 0
		{"left", PlacementLeft, ansicell.Rect{X: 10, Y: 10, W: 20, H: 11}},
		{"right", PlacementRight, ansicell.Rect{X: 38, Y: 10, W: 20, H: 11}},
		{"inline", PlacementNone, ansicell.Rect{X: 30, Y: 10, W: 20, H: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placePanel(80, 24, anchor, tt.pl, 20, 11)
			if got != tt.want {
				t.Errorf("placePanel = %+v, want %+v", got, tt.want)
			}
		})
	}
	// Clamping against the far edges.
	got := placePanel(80, 24, ansicell.Rect{X: 75, Y: 22, W: 4, H: 1}, PlacementBottom, 20, 11)
	want := ansicell.Rect{X: 60, Y: 13, W: 20, H: 11}
	if got != want {
		t.Errorf("edge clamp = %+v, want %+v", got, want)
	}
	// Screen smaller than the panel pins to the origin.
	got = placePanel(15, 8, ansicell.Rect{X: 2, Y: 2, W: 4, H: 1}, PlacementBottom, 20, 11)
	if got.X != 0 || got.Y != 0 {
		t.Errorf("tiny screen placement = %+v, want origin", got)
	}
}

func TestComputeRegions(t *testing.T) {
	opts := DefaultOptions()
	opts.CancelButton = true
	if err := opts.validate(); err != nil {
		t.Fatal(err)
	}
	panel := ansicell.Rect{X: 5, Y: 3, W: 20, H: 11}
	r := computeRegions(panel, &opts, layouts["default"])
	checks := []struct {
		name string
		got  ansicell.Rect
		want ansicell.Rect
	}{
		{"hue", r.hue, ansicell.Rect{X: 7, Y: 4, W: 16, H: 1}},
		{"sl", r.sl, ansicell.Rect{X: 7, Y: 5, W: 14, H: 6}},
		{"alpha", r.alpha, ansicell.Rect{X: 22, Y: 5, W: 1, H: 6}},
		{"editor", r.editor, ansicell.Rect{X: 7, Y: 11, W: 12, H: 1}},
		{"swatch", r.swatch, ansicell.Rect{X: 20, Y: 11, W: 3, H: 1}},
		{"ok", r.ok, ansicell.Rect{X: 19, Y: 12, W: 4, H: 1}},
		{"cancel", r.cancel, ansicell.Rect{X: 10, Y: 12, W: 8, H: 1}},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s region = %+v, want %+v", c.name, c.got, c.want)
		}
	}
	// The alpha track is vertical, the hue strip horizontal.
	if r.alpha.W != 1 || r.alpha.H <= 1 {
		t.Errorf("alpha track not vertical: %+v", r.alpha)
	}
	if r.hue.H != 1 || r.hue.W <= 1 {
		t.Errorf("hue strip not horizontal: %+v", r.hue)
	}
}

func TestComputeRegionsDisabledParts(t *testing.T) {
	opts := DefaultOptions()
	opts.Alpha = false
	opts.Editor = false
	if err := opts.validate(); err != nil {
		t.Fatal(err)
	}
	panel := ansicell.Rect{X: 0, Y: 0, W: 18, H: 11}
	r := computeRegions(panel, &opts, layouts["default"])
	if !r.alpha.Empty() {
		t.Errorf("alpha region with alpha disabled: %+v", r.alpha)
	}
	if !r.editor.Empty() {
		t.Errorf("editor region with editor disabled: %+v", r.editor)
	}
	if !r.cancel.Empty() {
		t.Errorf("cancel region without cancel button: %+v", r.cancel)
	}
}

// Every enabled region must fit inside the panel border for every
// layout preset and option combination.
func TestRegionsFitPanel(t *testing.T) {
	inside := func(r, panel ansicell.Rect) bool {
		return r.X > panel.X && r.Y > panel.Y &&
			r.X+r.W < panel.X+panel.W && r.Y+r.H < panel.Y+panel.H
	}
	for name, lay := range layouts {
		for _, alpha := range []bool{false, true} {
			for _, cancel := range []bool{false, true} {
				opts := DefaultOptions()
				opts.Layout = name
				opts.Alpha = alpha
				opts.CancelButton = cancel
				if err := opts.validate(); err != nil {
					t.Fatal(err)
				}
				w, h := panelSize(&opts, lay)
				panel := ansicell.Rect{X: 3, Y: 2, W: w, H: h}
				r := computeRegions(panel, &opts, lay)
				regs := map[string]ansicell.Rect{
					"hue": r.hue, "sl": r.sl, "alpha": r.alpha,
					"editor": r.editor, "swatch": r.swatch,
					"ok": r.ok, "cancel": r.cancel,
				}
				for rn, reg := range regs {
					if reg.Empty() {
						continue
					}
					if !inside(reg, panel) {
						t.Errorf("%s/alpha=%v/cancel=%v: %s region %+v outside panel %+v",
							name, alpha, cancel, rn, reg, panel)
					}
				}
			}
		}
	}
}

func TestNormPosThumbCellRoundTrip(t *testing.T) {
	r := ansicell.Rect{X: 7, Y: 4, W: 16, H: 1}
	for ex := r.X; ex < r.X+r.W; ex++ {
		nx, ny := normPos(r, ex, r.Y)
		if ny != 0 {
			t.Errorf("degenerate axis at %d: y = %g, want 0", ex, ny)
		}
		gx, gy := thumbCell(r, nx, ny)
		if gx != ex || gy != r.Y {
			t.Errorf("cell %d: normPos %g -> thumbCell (%d,%d)", ex, nx, gx, gy)
		}
	}
	// Vertical track.
	v := ansicell.Rect{X: 22, Y: 5, W: 1, H: 6}
	for ey := v.Y; ey < v.Y+v.H; ey++ {
		nx, ny := normPos(v, v.X, ey)
		if nx != 0 {
			t.Errorf("degenerate axis at %d: x = %g, want 0", ey, nx)
		}
		_, gy := thumbCell(v, nx, ny)
		if gy != ey {
			t.Errorf("cell %d: normPos %g -> thumbCell y %d", ey, ny, gy)
		}
	}
}

func TestNormPosClamps(t *testing.T) {
	r := ansicell.Rect{X: 10, Y: 10, W: 5, H: 5}
	x, y := normPos(r, -3, 100)
	if x != 0 || y != 1 {
		t.Errorf("normPos outside = (%g,%g), want (0,1)", x, y)
	}
	x, y = normPos(r, 14, 10)
	if x != 1 || y != 0 {
		t.Errorf("normPos far corner = (%g,%g), want (1,0)", x, y)
	}
}

// Package cli is the terminal color picker demo: a host screen with an
// anchor button, an optional image to sample colors from, and a status
// line showing every derived form of the current color.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"image"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/tpick"
	"fortio.org/tpick/ansicell"
	"fortio.org/tpick/webcolor"
)

type demo struct {
	s       *ansicell.Screen
	p       *tpick.Picker
	img     image.Image
	scaled  *image.RGBA
	imgRect ansicell.Rect
	anchor  ansicell.Rect
	current tpick.ColorView
	picked  string
	timing  bool
	done    bool
}

func Main() int {
	fpsFlag := flag.Float64("fps", 0., "Redraw `fps` when idle (0 blocks on input)")
	colorFlag := flag.String("color", "gold", "Initial `color` (name, #hex, rgb(), hsl())")
	formatFlag := flag.String("format", "hex", "Editor format: hex, hsl or rgb")
	popupFlag := flag.String("popup", "bottom", "Panel placement: bottom, top, left, right or inline")
	layoutFlag := flag.String("layout", "default", "Panel layout preset: default or wide")
	noAlpha := flag.Bool("no-alpha", false, "Disable the alpha channel")
	noEditor := flag.Bool("no-editor", false, "Disable the text editor field")
	cancelFlag := flag.Bool("cancel-button", false, "Add a [Cancel] button to the panel")
	timingFlag := flag.Bool("timing", false, "Print frame timing stats on exit")
	imageFlag := flag.String("image", "", "Image `file` to show and sample colors from (click)")
	cli.Main()
	placement, err := tpick.ParsePlacement(*popupFlag)
	if err != nil {
		return log.FErrf("Bad -popup: %v", err)
	}
	format, err := tpick.ParseEditorFormat(*formatFlag)
	if err != nil {
		return log.FErrf("Bad -format: %v", err)
	}
	d := &demo{timing: *timingFlag, anchor: ansicell.Rect{X: 2, Y: 1, W: 9, H: 1}}
	if *imageFlag != "" {
		img, err := ansicell.LoadImage(*imageFlag)
		if err != nil {
			return log.FErrf("Error loading image %q: %v", *imageFlag, err)
		}
		d.img = img
	}
	opts := tpick.DefaultOptions()
	opts.Anchor = d.anchor
	opts.Popup = placement
	opts.Layout = *layoutFlag
	opts.Alpha = !*noAlpha
	opts.Editor = !*noEditor
	opts.EditorFormat = format
	opts.CancelButton = *cancelFlag
	opts.Color = *colorFlag
	opts.OnChange = func(v tpick.ColorView) { d.current = v }
	opts.OnDone = func(v tpick.ColorView) {
		d.picked = pickedString(format, v)
		log.LogVf("picked %s", d.picked)
	}
	opts.OnOpen = func(tpick.ColorView) { log.Debugf("panel open") }
	opts.OnClose = func(tpick.ColorView) { log.Debugf("panel closed") }
	if placement == tpick.PlacementNone {
		// Inline panel renders below the title row instead of popping up.
		opts.Anchor = ansicell.Rect{X: 2, Y: 3, W: 1, H: 1}
	}
	return d.run(*fpsFlag, opts)
}

// pickedString renders the confirmed color for stdout in the -format
// form, dropping the alpha component when fully opaque (like hex does).
func pickedString(f tpick.EditorFormat, v tpick.ColorView) string {
	opaque := v.HSLA[3] == 1
	switch f {
	case tpick.FormatHSL:
		if opaque {
			return v.HSLString
		}
		return v.HSLAString
	case tpick.FormatRGB:
		if opaque {
			return v.RGBString
		}
		return v.RGBAString
	default:
		return v.Hex
	}
}

func (d *demo) run(fps float64, opts tpick.Options) int {
	s := ansicell.NewScreen(fps)
	d.s = s
	if err := s.Open(); err != nil {
		return log.FErrf("Error opening terminal: %v", err)
	}
	defer s.Restore()
	s.HideCursor()
	s.MouseClickOn()
	s.RequestBackgroundColor()
	p, err := tpick.New(s, opts)
	if err != nil {
		return log.FErrf("Picker setup: %v", err)
	}
	d.p = p
	d.current = p.View()
	s.OnResize = func() error {
		d.layout()
		return nil
	}
	d.layout()
	for !d.done {
		evs, err := s.Wait()
		if err != nil {
			if errors.Is(err, ansicell.ErrSignal) {
				log.Infof("Interrupted, exiting")
				break
			}
			return log.FErrf("Input error: %v", err)
		}
		s.StartFrame()
		s.StartSyncMode()
		for _, ev := range evs {
			if s.Dispatch(ev) {
				continue
			}
			d.unclaimed(ev)
		}
		s.RunScheduled()
		d.redraw()
		s.EndSyncMode()
		s.EndFrame()
	}
	s.Restore()
	if d.timing {
		fmt.Printf("Frame times: %v\n", s.Stats())
	}
	if d.picked != "" {
		fmt.Println(d.picked)
	}
	return 0
}

func (d *demo) layout() {
	s := d.s
	if d.img != nil {
		w := s.W / 2
		d.imgRect = ansicell.Rect{X: s.W - w - 1, Y: 2, W: w, H: max(1, s.H-4)}
		d.scaled = ansicell.ScaleImage(ansicell.ToRGBA(d.img), d.imgRect.W, 2*d.imgRect.H)
	}
	d.p.Relayout()
	d.redraw()
	_ = s.Out.Flush()
}

func (d *demo) redraw() {
	s := d.s
	s.ClearScreen()
	co := webcolor.ColorOutput{TrueColor: s.TrueColor}
	s.WriteAtStr(d.anchor.X, d.anchor.Y, webcolor.Bold+"[pick]"+webcolor.Reset)
	cur := webcolor.RGBA{R: d.current.RGBA[0], G: d.current.RGBA[1], B: d.current.RGBA[2], A: d.current.RGBA[3]}
	bg := webcolor.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}
	if s.GotBackground {
		bg = s.Background
	}
	s.WriteString(" " + co.Background(cur.Over(bg)) + "  " + webcolor.Reset)
	if d.img != nil {
		s.Blit(d.scaled, d.imgRect)
	}
	s.WriteAtStr(0, s.H-1,
		d.current.Hex+"  "+d.current.RGBAString+"  "+d.current.HSLAString+"  (q to quit)")
	d.p.Redraw()
}

func (d *demo) unclaimed(ev ansicell.Event) {
	switch e := ev.(type) {
	case ansicell.KeyEvent:
		if e.Kind == ansicell.KeyRune && (e.Rune == 'q' || e.Rune == 'Q' || e.Rune == 3) {
			d.done = true
		}
	case ansicell.MouseEvent:
		if e.LeftClick() && d.scaled != nil && d.imgRect.Contains(e.X, e.Y) {
			d.sample(e.X, e.Y)
		}
	}
}

// sample is the eyedropper: pick the already scaled pixel under the
// cell that was clicked (top half pixel of the cell).
func (d *demo) sample(x, y int) {
	px := x - d.imgRect.X
	py := 2 * (y - d.imgRect.Y)
	c := d.scaled.RGBAAt(px, py)
	if c.A == 0 {
		return
	}
	if err := d.p.SetRGBA([]float64{float64(c.R), float64(c.G), float64(c.B), float64(c.A) / 255.}, false); err != nil {
		log.Errf("sample: %v", err)
		return
	}
	log.LogVf("sampled %d,%d -> #%02x%02x%02x", px, py, c.R, c.G, c.B)
}

package tpick

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"fortio.org/safecast"
	"fortio.org/tpick/webcolor"
)

// Render tables shared by all pickers, built once on first use.
var renderTables struct {
	once    sync.Once
	hue     [256]webcolor.RGBA
	checker [2]webcolor.RGBA
}

func ensureRenderTables() {
	renderTables.once.Do(func() {
		for i := range renderTables.hue {
			renderTables.hue[i] = webcolor.HSLA{H: float64(i) / 255., S: 1, L: 0.5, A: 1}.RGBA()
		}
		renderTables.checker = [2]webcolor.RGBA{
			{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
			{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
		}
	})
}

func hueRampColor(t float64) webcolor.RGBA {
	return renderTables.hue[safecast.MustRound[int](clamp01(t)*255)]
}

// contrastColor picks black or white, whichever reads against c.
func contrastColor(c webcolor.RGBA) webcolor.RGBA {
	lum := (int(c.R) + int(c.G) + int(c.B)) / 3
	if lum < 128 {
		return webcolor.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return webcolor.RGBA{A: 255}
}

// draw paints the whole panel. No-op unless the panel is up, so model
// updates on a closed popup stay cheap and headless tests stay quiet.
func (p *Picker) draw() {
	if p.state != Open || p.panelSub == 0 {
		return
	}
	s := p.screen
	co := webcolor.ColorOutput{TrueColor: s.TrueColor}
	s.ClearRect(p.panel)
	s.DrawRoundBox(p.panel)
	p.drawHue(co)
	p.drawPlane(co)
	p.drawAlpha(co)
	p.drawEditor()
	p.drawSwatch(co)
	p.drawButtons()
}

func (p *Picker) drawHue(co webcolor.ColorOutput) {
	r := p.regions.hue
	tx, _ := thumbCell(r, hueToPos(p.color.H), 0)
	p.screen.MoveCursor(r.X, r.Y)
	for i := range r.W {
		c := hueRampColor(float64(i) / float64(r.W-1))
		p.screen.WriteString(co.Background(c))
		if r.X+i == tx {
			p.screen.WriteString(co.Foreground(contrastColor(c)) + "┃")
		} else {
			p.screen.WriteString(" ")
		}
	}
	p.screen.WriteString(webcolor.Reset)
}

func (p *Picker) drawPlane(co webcolor.ColorOutput) {
	r := p.regions.sl
	img := image.NewRGBA(image.Rect(0, 0, r.W, 2*r.H))
	for py := range 2 * r.H {
		light := 1 - float64(py)/float64(2*r.H-1)
		for px := range r.W {
			sat := float64(px) / float64(r.W-1)
			c := webcolor.HSLA{H: p.color.H, S: sat, L: light, A: 1}.RGBA()
			img.SetRGBA(px, py, color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	p.screen.Blit(img, r)
	// The thumb sits on the cell whose color is the current color.
	x, y := slToPos(p.color.S, p.color.L)
	cx, cy := thumbCell(r, x, y)
	under := p.color.WithAlpha(1).RGBA()
	p.screen.WriteAtStr(cx, cy,
		co.Background(under)+co.Foreground(contrastColor(under))+"+"+webcolor.Reset)
}

func (p *Picker) drawAlpha(co webcolor.ColorOutput) {
	r := p.regions.alpha
	if r.Empty() {
		return
	}
	cur := p.color.RGBA()
	img := image.NewRGBA(image.Rect(0, 0, 1, 2*r.H))
	for py := range 2 * r.H {
		a := 1 - float64(py)/float64(2*r.H-1)
		over := webcolor.RGBA{R: cur.R, G: cur.G, B: cur.B, A: safecast.MustRound[uint8](a * 255)}
		c := over.Over(renderTables.checker[(py/2)%2])
		img.SetRGBA(0, py, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	p.screen.Blit(img, r)
	_, cy := thumbCell(r, 0, alphaToPos(p.color.A))
	under := cur.Over(renderTables.checker[0])
	p.screen.WriteAtStr(r.X, cy,
		co.Background(under)+co.Foreground(contrastColor(under))+"◆"+webcolor.Reset)
}

func (p *Picker) drawEditor() {
	r := p.regions.editor
	if r.Empty() {
		return
	}
	visible, caretCol := p.editor.window(r.W)
	runes := []rune(visible)
	for len(runes) < r.W {
		runes = append(runes, ' ')
	}
	showCaret := p.panelSub != 0 && p.screen.Focused() == p.panelSub
	var sb strings.Builder
	sb.WriteString(webcolor.Underlined)
	for i, ch := range runes {
		if showCaret && i == caretCol {
			sb.WriteString(webcolor.Inverse)
			sb.WriteRune(ch)
			sb.WriteString(webcolor.Reset + webcolor.Underlined)
		} else {
			sb.WriteRune(ch)
		}
	}
	sb.WriteString(webcolor.Reset)
	p.screen.WriteAtStr(r.X, r.Y, sb.String())
}

func (p *Picker) drawSwatch(co webcolor.ColorOutput) {
	r := p.regions.swatch
	bg := renderTables.checker[0]
	if p.screen.GotBackground {
		bg = p.screen.Background
	}
	c := p.color.RGBA().Over(bg)
	p.screen.WriteAtStr(r.X, r.Y, co.Background(c)+strings.Repeat(" ", r.W)+webcolor.Reset)
}

func (p *Picker) drawButtons() {
	r := p.regions.ok
	p.screen.WriteAtStr(r.X, r.Y, webcolor.Bold+"[OK]"+webcolor.Reset)
	if c := p.regions.cancel; !c.Empty() {
		p.screen.WriteAtStr(c.X, c.Y, "[Cancel]")
	}
}

package webcolor

import "math"

// sRGB <-> linear helpers.
func srgbToLinear(c uint8) float64 {
	f := float64(c) / 255.0
	if f <= 0.04045 {
		return f / 12.92
	}
	return math.Pow((f+0.055)/1.055, 2.4)
}

func linearToSrgb(f float64) uint8 {
	if f <= 0.0 {
		return 0
	}
	if f >= 1.0 {
		return 255
	}
	var c float64
	if f <= 0.0031308 {
		c = f * 12.92
	} else {
		c = 1.055*math.Pow(f, 1./2.4) - 0.055
	}
	return uint8(math.Round(c * 255.0))
}

// Blend mixes a and b in linear light (gamma aware): t=0 gives a, t=1
// gives b. The alpha channels are mixed linearly.
func Blend(a, b RGBA, t float64) RGBA {
	t = clamp01(t)
	return RGBA{
		R: linearToSrgb((1-t)*srgbToLinear(a.R) + t*srgbToLinear(b.R)),
		G: linearToSrgb((1-t)*srgbToLinear(a.G) + t*srgbToLinear(b.G)),
		B: linearToSrgb((1-t)*srgbToLinear(a.B) + t*srgbToLinear(b.B)),
		A: uint8(math.Round((1-t)*float64(a.A) + t*float64(b.A))),
	}
}

// Over composites the color over an opaque background using its alpha,
// returning an opaque result. Used for swatches over checkerboards.
func (c RGBA) Over(bg RGBA) RGBA {
	out := Blend(RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}, RGBA{R: c.R, G: c.G, B: c.B, A: 255}, float64(c.A)/255.)
	out.A = 255
	return out
}

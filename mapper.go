package tpick

// Drag position to channel value mapping for the three surfaces, and the
// exact algebraic inverses used to place the thumbs. Positions are
// normalized [0,1]x[0,1] with the origin at the top left, so lightness
// and alpha run top down (top of the plane is maximum lightness, top of
// the alpha track is opaque). Out of range input is clamped, never
// rejected: an overshooting drag commits the boundary value.

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Hue surface: only x matters.
func hueFromPos(x, _ float64) float64 {
	return clamp01(x)
}

func hueToPos(h float64) float64 {
	return clamp01(h)
}

// Saturation/lightness plane.
func slFromPos(x, y float64) (sat, light float64) {
	return clamp01(x), 1 - clamp01(y)
}

func slToPos(sat, light float64) (x, y float64) {
	return clamp01(sat), 1 - clamp01(light)
}

// Alpha surface: only y matters.
func alphaFromPos(_, y float64) float64 {
	return 1 - clamp01(y)
}

func alphaToPos(a float64) float64 {
	return 1 - clamp01(a)
}

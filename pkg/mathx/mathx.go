// Package mathx holds small numeric helpers shared by the surface extractor
// and the renderer.
package mathx

// Sign returns -1, 0 or +1 according to the sign of x. NaN maps to 0.
func Sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Saturate converts x to a byte, clamping to [0, 255].
func Saturate(x float64) uint8 {
	return uint8(Clamp(x, 0, 255))
}

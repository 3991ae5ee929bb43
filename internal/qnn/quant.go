package qnn

import "math"

// Dequantize decodes q under (scale, zp).
func Dequantize(q uint8, scale float32, zp int) float32 {
	return scale * float32(int(q)-zp)
}

// Requantize encodes r under (scale, zp), rounding half away from zero and
// saturating to [0,255]. Saturation is silent.
func Requantize(r, scale float32, zp int) uint8 {
	q := float64(zp) + math.Round(float64(r/scale))
	switch {
	case math.IsNaN(q):
		return clampCode(zp)
	case q < 0:
		return 0
	case q > 255:
		return 255
	}
	return uint8(q)
}

// Relu6Ceiling returns the code for real 6.0 under (scale, zp), clamped to
// [0,255].
func Relu6Ceiling(scale float32, zp int) uint8 {
	return clampCode(zp + int(math.Round(float64(6.0/scale))))
}

// clampRelu6 applies ReLU6 to an already requantized code without leaving the
// quantized domain: codes above the 6.0 code are pinned to it and codes below
// the zero-point (real < 0) are pinned to the zero-point.
func clampRelu6(q, ceil uint8, zp int) uint8 {
	if q > ceil {
		q = ceil
	}
	if int(q) < zp {
		q = clampCode(zp)
	}
	return q
}

func clampCode(q int) uint8 {
	if q < 0 {
		return 0
	}
	if q > 255 {
		return 255
	}
	return uint8(q)
}

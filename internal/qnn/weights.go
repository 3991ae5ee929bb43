package qnn

import (
	"fmt"
	"math"
)

// DepthwiseTaps is the number of weights per channel of a 3x3 depthwise kernel.
const DepthwiseTaps = 9

// Weights is an externally owned 8-bit weight buffer with one shared
// quantization pair. Bias, when non-nil, holds one int32 per output channel in
// accumulator units: it enters the accumulator as Bias[c]*in.Scale*Scale.
//
// Depthwise layout is C groups of 9 taps, channel-major then row-major 3x3.
// Pointwise layout is Cout groups of Cin, output-channel-major.
type Weights struct {
	Data      []uint8
	Scale     float32
	ZeroPoint int
	Bias      []int32
}

// DepthwiseIndex returns the offset of tap (ky, kx), ky and kx in {-1,0,1},
// of channel c.
func DepthwiseIndex(c, ky, kx int) int {
	return c*DepthwiseTaps + (ky+1)*3 + (kx + 1)
}

// PointwiseIndex returns the offset of weight (co, ci) for cin input channels.
func PointwiseIndex(co, ci, cin int) int {
	return co*cin + ci
}

// CheckDepthwise validates w against a depthwise layer over c channels.
func (w Weights) CheckDepthwise(c int) error {
	if len(w.Data) != c*DepthwiseTaps {
		return fmt.Errorf("%w: depthwise have %d, want %d", ErrWeightLength, len(w.Data), c*DepthwiseTaps)
	}
	return w.checkCommon(c)
}

// CheckPointwise validates w against a cin -> cout pointwise layer.
func (w Weights) CheckPointwise(cin, cout int) error {
	if len(w.Data) != cin*cout {
		return fmt.Errorf("%w: pointwise have %d, want %d", ErrWeightLength, len(w.Data), cin*cout)
	}
	return w.checkCommon(cout)
}

func (w Weights) checkCommon(channels int) error {
	if w.Bias != nil && len(w.Bias) != channels {
		return fmt.Errorf("%w: have %d, want %d", ErrBiasLength, len(w.Bias), channels)
	}
	if !(w.Scale > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, w.Scale)
	}
	if w.ZeroPoint < 0 || w.ZeroPoint > 255 {
		return fmt.Errorf("%w: %d", ErrInvalidZeroPoint, w.ZeroPoint)
	}
	return nil
}

// ChooseWeightScale picks one symmetric scale covering every layer's float
// weights: maxAbs/127, or 0.01 when all weights are (near) zero.
func ChooseWeightScale(layers ...[]float32) float32 {
	var maxAbs float64
	for _, l := range layers {
		for _, v := range l {
			maxAbs = math.Max(maxAbs, math.Abs(float64(v)))
		}
	}
	if maxAbs <= 1e-12 {
		return 0.01
	}
	return float32(maxAbs / 127.0)
}

// QuantizeWeights encodes src into dst under (scale, zp).
func QuantizeWeights(dst []uint8, src []float32, scale float32, zp int) {
	for i, v := range src {
		dst[i] = Requantize(v, scale, zp)
	}
}

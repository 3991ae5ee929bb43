package qnn

import "math"

// MaxSoftmaxChannels is the largest channel count Softmax accepts.
const MaxSoftmaxChannels = 2048

// Softmax normalises the 1x1xC channel vector in into probabilities and
// requantizes them into out (conventionally scale 1/255, zero-point 0).
//
// The maximum decoded value is subtracted before exponentiation. When in.C
// exceeds MaxSoftmaxChannels nothing is written and ErrSoftmaxCapacity is
// returned. in and out may share a buffer.
func Softmax(in Tensor, out Tensor) error {
	c := in.C
	if c > MaxSoftmaxChannels {
		return ErrSoftmaxCapacity
	}
	if c <= 0 {
		return nil
	}
	tmp := make([]float32, c)
	maxv := float32(-1e30)
	for i := range c {
		r := Dequantize(in.Data[i], in.Scale, in.ZeroPoint)
		tmp[i] = r
		if r > maxv {
			maxv = r
		}
	}
	var sum float32
	for i := range tmp {
		tmp[i] = float32(math.Exp(float64(tmp[i] - maxv)))
		sum += tmp[i]
	}
	for i := range tmp {
		out.Data[i] = Requantize(tmp[i]/sum, out.Scale, out.ZeroPoint)
	}
	return nil
}

package qnn

// DepthwiseConv3x3 convolves each channel of in with its own 3x3 kernel
// (unit stride, same size) and writes the result into out, which must share
// in's H, W and C.
//
// Taps that fall outside the image are skipped rather than fed a padded code,
// so border pixels accumulate fewer than nine products. This differs from
// padding with code 0 whenever the input zero-point is non-zero.
//
// With relu6 set the requantized code is clamped to [out.ZeroPoint, code(6.0)].
func DepthwiseConv3x3(in Tensor, w Weights, out Tensor, relu6 bool) {
	h, wd, c := in.H, in.W, in.C
	ceil := Relu6Ceiling(out.Scale, out.ZeroPoint)
	for y := 0; y < h; y++ {
		for x := 0; x < wd; x++ {
			for ch := 0; ch < c; ch++ {
				var acc float32
				if w.Bias != nil {
					acc = float32(w.Bias[ch]) * in.Scale * w.Scale
				}
				for ky := -1; ky <= 1; ky++ {
					iy := y + ky
					if iy < 0 || iy >= h {
						continue
					}
					for kx := -1; kx <= 1; kx++ {
						ix := x + kx
						if ix < 0 || ix >= wd {
							continue
						}
						qIn := in.Data[(iy*wd+ix)*c+ch]
						qK := w.Data[DepthwiseIndex(ch, ky, kx)]
						acc += Dequantize(qIn, in.Scale, in.ZeroPoint) * Dequantize(qK, w.Scale, w.ZeroPoint)
					}
				}
				q := Requantize(acc, out.Scale, out.ZeroPoint)
				if relu6 {
					q = clampRelu6(q, ceil, out.ZeroPoint)
				}
				out.Data[(y*wd+x)*c+ch] = q
			}
		}
	}
}

package qnn

// GlobalAvgPool reduces in (H, W, C) to the 1x1xC tensor out by averaging
// each channel's decoded values over all H*W positions.
func GlobalAvgPool(in Tensor, out Tensor) {
	h, wd, c := in.H, in.W, in.C
	n := float32(h * wd)
	for ch := 0; ch < c; ch++ {
		var sum float32
		for y := 0; y < h; y++ {
			for x := 0; x < wd; x++ {
				sum += Dequantize(in.Data[(y*wd+x)*c+ch], in.Scale, in.ZeroPoint)
			}
		}
		out.Data[ch] = Requantize(sum/n, out.Scale, out.ZeroPoint)
	}
}

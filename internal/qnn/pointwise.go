package qnn

// PointwiseConv1x1 projects every pixel of in (Cin = in.C channels) onto
// out.C output channels. Each output pixel depends only on the input pixel at
// the same position.
func PointwiseConv1x1(in Tensor, w Weights, out Tensor) {
	h, wd, cin, cout := in.H, in.W, in.C, out.C
	for y := 0; y < h; y++ {
		for x := 0; x < wd; x++ {
			pix := y*wd + x
			vin := in.Data[pix*cin : pix*cin+cin]
			for co := 0; co < cout; co++ {
				var acc float32
				if w.Bias != nil {
					acc = float32(w.Bias[co]) * in.Scale * w.Scale
				}
				row := w.Data[co*cin : co*cin+cin]
				for ci := range cin {
					acc += Dequantize(vin[ci], in.Scale, in.ZeroPoint) * Dequantize(row[ci], w.Scale, w.ZeroPoint)
				}
				out.Data[pix*cout+co] = Requantize(acc, out.Scale, out.ZeroPoint)
			}
		}
	}
}

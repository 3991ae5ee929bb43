// Package qnn implements the fixed-point kernels of a depthwise-separable
// classifier over 8-bit affine-quantized NHWC tensors.
//
// Every kernel is a pure function of its inputs: it reads the input tensor and
// weight buffer, overwrites the output tensor's Data in place and keeps no
// state between calls. Kernels never allocate, resize or check output
// buffers; shapes are the caller's responsibility.
package qnn

import "fmt"

// Tensor is an NHWC buffer of uint8 codes sharing one affine (Scale,
// ZeroPoint) pair. Channel is the fastest-varying axis, so element (y, x, c)
// lives at Data[(y*W+x)*C+c].
//
// The decoded value of a code q is Scale * (q - ZeroPoint).
type Tensor struct {
	H, W, C   int
	Data      []uint8
	Scale     float32
	ZeroPoint int
}

// NewTensor allocates a zeroed tensor with the given shape and quantization
// pair. It panics on negative dimensions, like tensor.NewMat.
func NewTensor(h, w, c int, scale float32, zp int) Tensor {
	if h < 0 || w < 0 || c < 0 {
		panic("negative dimension for tensor")
	}
	return Tensor{
		H:         h,
		W:         w,
		C:         c,
		Data:      make([]uint8, h*w*c),
		Scale:     scale,
		ZeroPoint: zp,
	}
}

// View wraps an existing buffer without copying it.
func View(h, w, c int, data []uint8, scale float32, zp int) Tensor {
	return Tensor{H: h, W: w, C: c, Data: data, Scale: scale, ZeroPoint: zp}
}

// Len returns H*W*C.
func (t Tensor) Len() int {
	return t.H * t.W * t.C
}

// Index returns the flat offset of (y, x, c).
func (t Tensor) Index(y, x, c int) int {
	return (y*t.W+x)*t.C + c
}

// At returns the code stored at (y, x, c).
func (t Tensor) At(y, x, c int) uint8 {
	return t.Data[t.Index(y, x, c)]
}

// Real returns the decoded value at (y, x, c).
func (t Tensor) Real(y, x, c int) float32 {
	return Dequantize(t.At(y, x, c), t.Scale, t.ZeroPoint)
}

// Reals decodes the whole buffer into dst, which must hold Len() values.
func (t Tensor) Reals(dst []float32) {
	for i, q := range t.Data[:t.Len()] {
		dst[i] = Dequantize(q, t.Scale, t.ZeroPoint)
	}
}

// Validate checks the descriptor invariants. Kernels do not call it; callers
// that build tensors from external input should.
func (t Tensor) Validate() error {
	if t.H <= 0 || t.W <= 0 || t.C <= 0 {
		return fmt.Errorf("%w: %dx%dx%d", ErrInvalidShape, t.H, t.W, t.C)
	}
	if len(t.Data) != t.Len() {
		return fmt.Errorf("%w: have %d, want %d", ErrBufferLength, len(t.Data), t.Len())
	}
	if !(t.Scale > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, t.Scale)
	}
	if t.ZeroPoint < 0 || t.ZeroPoint > 255 {
		return fmt.Errorf("%w: %d", ErrInvalidZeroPoint, t.ZeroPoint)
	}
	return nil
}

func (t Tensor) String() string {
	return fmt.Sprintf("%dx%dx%d(scale=%g zp=%d)", t.H, t.W, t.C, t.Scale, t.ZeroPoint)
}

package qnn

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestSoftmaxUniform(t *testing.T) {
	in := View(1, 1, 4, []uint8{7, 7, 7, 7}, 0.02, 128)
	out := NewTensor(1, 1, 4, 1.0/255.0, 0)
	if err := Softmax(in, out); err != nil {
		t.Fatalf("Softmax: %v", err)
	}
	// 0.25 * 255 = 63.75
	for i, q := range out.Data {
		if q != 64 {
			t.Fatalf("out[%d] = %d, want 64", i, q)
		}
	}
}

func TestSoftmaxNormalisesAndPreservesArgmax(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		c := 1 + rng.Intn(32)
		in := NewTensor(1, 1, c, 0.1, 128)
		for i := range in.Data {
			in.Data[i] = uint8(rng.Intn(256))
		}
		out := NewTensor(1, 1, c, 1.0/255.0, 0)
		if err := Softmax(in, out); err != nil {
			t.Fatalf("Softmax: %v", err)
		}

		var sum float64
		for _, q := range out.Data {
			sum += float64(Dequantize(q, out.Scale, out.ZeroPoint))
		}
		if tol := float64(c) / 255.0; math.Abs(sum-1) > tol {
			t.Fatalf("trial %d: sum = %v, want 1 +/- %v", trial, sum, tol)
		}

		best := 0
		for i := range in.Data {
			if in.Data[i] > in.Data[best] {
				best = i
			}
		}
		for i := range out.Data {
			if out.Data[i] > out.Data[best] {
				t.Fatalf("trial %d: out[%d]=%d exceeds argmax out[%d]=%d", trial, i, out.Data[i], best, out.Data[best])
			}
		}
	}
}

func TestSoftmaxLargeLogitsDoNotOverflow(t *testing.T) {
	in := View(1, 1, 3, []uint8{255, 0, 255}, 10, 0)
	out := NewTensor(1, 1, 3, 1.0/255.0, 0)
	if err := Softmax(in, out); err != nil {
		t.Fatalf("Softmax: %v", err)
	}
	// exp(-2550) underflows to zero; the two maxima share the mass.
	if out.Data[0] != 128 || out.Data[1] != 0 || out.Data[2] != 128 {
		t.Fatalf("out = %v, want [128 0 128]", out.Data)
	}
}

func TestSoftmaxInPlace(t *testing.T) {
	buf := []uint8{128, 128}
	in := View(1, 1, 2, buf, 1.0/255.0, 0)
	if err := Softmax(in, in); err != nil {
		t.Fatalf("Softmax: %v", err)
	}
	if buf[0] != 128 || buf[1] != 128 {
		t.Fatalf("buf = %v, want [128 128]", buf)
	}
}

func TestSoftmaxCapacity(t *testing.T) {
	c := MaxSoftmaxChannels + 1
	in := NewTensor(1, 1, c, 0.02, 128)
	out := NewTensor(1, 1, c, 1.0/255.0, 0)
	for i := range out.Data {
		out.Data[i] = 0xAB
	}
	err := Softmax(in, out)
	if !errors.Is(err, ErrSoftmaxCapacity) {
		t.Fatalf("err = %v, want ErrSoftmaxCapacity", err)
	}
	for i, q := range out.Data {
		if q != 0xAB {
			t.Fatalf("out[%d] written (%d) despite rejection", i, q)
		}
	}

	in = NewTensor(1, 1, MaxSoftmaxChannels, 0.02, 128)
	out = NewTensor(1, 1, MaxSoftmaxChannels, 1.0/255.0, 0)
	if err := Softmax(in, out); err != nil {
		t.Fatalf("Softmax at capacity: %v", err)
	}
}

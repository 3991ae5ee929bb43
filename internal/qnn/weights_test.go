package qnn

import (
	"errors"
	"math"
	"testing"
)

func TestChooseWeightScale(t *testing.T) {
	got := ChooseWeightScale([]float32{0.5, -0.2}, []float32{-1.27, 0.9})
	if math.Abs(float64(got)-0.01) > 1e-7 {
		t.Fatalf("scale = %v, want 0.01", got)
	}
	if got := ChooseWeightScale([]float32{0, 0}); got != 0.01 {
		t.Fatalf("zero weights scale = %v, want 0.01", got)
	}
	if got := ChooseWeightScale(); got != 0.01 {
		t.Fatalf("no weights scale = %v, want 0.01", got)
	}
}

func TestQuantizeWeights(t *testing.T) {
	src := []float32{0, 0.5, -1.27, 2}
	dst := make([]uint8, len(src))
	QuantizeWeights(dst, src, 0.01, 128)
	want := []uint8{128, 178, 1, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestLayoutIndices(t *testing.T) {
	if got := DepthwiseIndex(0, -1, -1); got != 0 {
		t.Fatalf("DepthwiseIndex(0,-1,-1) = %d", got)
	}
	if got := DepthwiseIndex(2, 1, 1); got != 26 {
		t.Fatalf("DepthwiseIndex(2,1,1) = %d", got)
	}
	if got := DepthwiseIndex(1, 0, 0); got != 13 {
		t.Fatalf("DepthwiseIndex(1,0,0) = %d", got)
	}
	if got := PointwiseIndex(9, 2, 3); got != 29 {
		t.Fatalf("PointwiseIndex(9,2,3) = %d", got)
	}
}

func TestWeightsCheck(t *testing.T) {
	ok := Weights{Data: make([]uint8, 27), Scale: 0.002, ZeroPoint: 128}
	if err := ok.CheckDepthwise(3); err != nil {
		t.Fatalf("CheckDepthwise: %v", err)
	}
	if err := ok.CheckDepthwise(4); !errors.Is(err, ErrWeightLength) {
		t.Fatalf("err = %v, want ErrWeightLength", err)
	}

	pw := Weights{Data: make([]uint8, 30), Scale: 0.002, ZeroPoint: 128, Bias: make([]int32, 10)}
	if err := pw.CheckPointwise(3, 10); err != nil {
		t.Fatalf("CheckPointwise: %v", err)
	}
	pw.Bias = make([]int32, 3)
	if err := pw.CheckPointwise(3, 10); !errors.Is(err, ErrBiasLength) {
		t.Fatalf("err = %v, want ErrBiasLength", err)
	}
	pw.Bias = nil
	pw.Scale = 0
	if err := pw.CheckPointwise(3, 10); !errors.Is(err, ErrInvalidScale) {
		t.Fatalf("err = %v, want ErrInvalidScale", err)
	}
	pw.Scale = 1
	pw.ZeroPoint = 300
	if err := pw.CheckPointwise(3, 10); !errors.Is(err, ErrInvalidZeroPoint) {
		t.Fatalf("err = %v, want ErrInvalidZeroPoint", err)
	}
}

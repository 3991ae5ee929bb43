package qnn

import (
	"errors"
	"testing"
)

func TestTensorIndexing(t *testing.T) {
	tt := NewTensor(2, 3, 4, 0.5, 2)
	if tt.Len() != 24 || len(tt.Data) != 24 {
		t.Fatalf("len = %d/%d, want 24", tt.Len(), len(tt.Data))
	}
	if got := tt.Index(1, 2, 3); got != 23 {
		t.Fatalf("Index(1,2,3) = %d, want 23", got)
	}
	tt.Data[tt.Index(1, 0, 1)] = 6
	if got := tt.Real(1, 0, 1); got != 2 {
		t.Fatalf("Real = %v, want 2", got)
	}
	reals := make([]float32, tt.Len())
	tt.Reals(reals)
	if reals[tt.Index(1, 0, 1)] != 2 || reals[0] != -1 {
		t.Fatalf("Reals mismatch: %v", reals[:8])
	}
}

func TestTensorValidate(t *testing.T) {
	tests := []struct {
		name string
		t    Tensor
		want error
	}{
		{"ok", NewTensor(2, 2, 3, 0.02, 128), nil},
		{"zero dim", Tensor{H: 0, W: 1, C: 1, Scale: 1}, ErrInvalidShape},
		{"short buffer", View(2, 2, 1, make([]uint8, 3), 1, 0), ErrBufferLength},
		{"zero scale", View(1, 1, 1, make([]uint8, 1), 0, 0), ErrInvalidScale},
		{"zp high", View(1, 1, 1, make([]uint8, 1), 1, 256), ErrInvalidZeroPoint},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.t.Validate()
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewTensorNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_ = NewTensor(-1, 1, 1, 1, 0)
}

package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/dsconv/internal/qnn"
)

func TestQuantizeSharedScale(t *testing.T) {
	fw := FloatWeights{
		Depthwise: [][]float32{
			{0, 0, 0, 0, 1, 0, 0, 0, 0},
			{0, 0, 0, 0, -0.25, 0, 0, 0, 0},
		},
		Pointwise: [][]float32{
			{0.254, 0},
			{0, -0.254},
			{0.127, 0.127},
		},
		Labels: []string{"a", "b", "c"},
	}
	b, scale, err := Quantize(fw, 128)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if want := float32(1.0 / 127.0); scale != want {
		t.Fatalf("scale = %v, want %v", scale, want)
	}
	if len(b.Depthwise) != 18 || len(b.Pointwise) != 6 {
		t.Fatalf("lengths = %d/%d, want 18/6", len(b.Depthwise), len(b.Pointwise))
	}
	// 1.0 -> 128+127, -0.25 -> 128-32 (31.75 rounds to 32).
	if got := b.Depthwise[qnn.DepthwiseIndex(0, 0, 0)]; got != 255 {
		t.Fatalf("dw[0] centre = %d, want 255", got)
	}
	if got := b.Depthwise[qnn.DepthwiseIndex(1, 0, 0)]; got != 96 {
		t.Fatalf("dw[1] centre = %d, want 96", got)
	}
	if got := b.Depthwise[qnn.DepthwiseIndex(1, -1, -1)]; got != 128 {
		t.Fatalf("dw[1] corner = %d, want 128", got)
	}
	// 0.254 * 127 = 32.258 -> 32
	if got := b.Pointwise[qnn.PointwiseIndex(0, 0, 2)]; got != 160 {
		t.Fatalf("pw[0][0] = %d, want 160", got)
	}
	if got := b.Pointwise[qnn.PointwiseIndex(1, 1, 2)]; got != 96 {
		t.Fatalf("pw[1][1] = %d, want 96", got)
	}
	if len(b.Labels) != 3 {
		t.Fatalf("labels = %v", b.Labels)
	}
}

func TestQuantizeShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		fw   FloatWeights
	}{
		{"empty", FloatWeights{}},
		{"short depthwise row", FloatWeights{
			Depthwise: [][]float32{{1, 2, 3}},
			Pointwise: [][]float32{{1}},
		}},
		{"pointwise width", FloatWeights{
			Depthwise: [][]float32{make([]float32, 9)},
			Pointwise: [][]float32{{1, 2}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Quantize(tt.fw, 128); !errors.Is(err, ErrFloatShape) {
				t.Fatalf("err = %v, want ErrFloatShape", err)
			}
		})
	}
}

func TestLoadFloatWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float.json")
	doc := `{"depthwise":[[0,0,0,0,1,0,0,0,0]],"pointwise":[[0.5],[-0.5]],"labels":["x","y"]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	fw, err := LoadFloatWeights(path)
	if err != nil {
		t.Fatalf("LoadFloatWeights: %v", err)
	}
	cin, cout, err := fw.Shape()
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if cin != 1 || cout != 2 {
		t.Fatalf("shape = %d->%d, want 1->2", cin, cout)
	}
	if fw.Labels[1] != "y" {
		t.Fatalf("labels = %v", fw.Labels)
	}
}

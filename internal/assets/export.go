package assets

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/samcharles93/dsconv/internal/qnn"
)

var ErrFloatShape = errors.New("assets: float weight shape mismatch")

// FloatWeights is a trained float model as exported from the training side.
// Depthwise is [Cin][9] in row-major 3x3 tap order; Pointwise is [Cout][Cin].
type FloatWeights struct {
	Depthwise [][]float32 `json:"depthwise"`
	Pointwise [][]float32 `json:"pointwise"`
	Labels    []string    `json:"labels,omitempty"`
}

// LoadFloatWeights decodes a float weight JSON file.
func LoadFloatWeights(path string) (FloatWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FloatWeights{}, err
	}
	var fw FloatWeights
	if err := json.Unmarshal(data, &fw); err != nil {
		return FloatWeights{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return fw, nil
}

// Shape returns (Cin, Cout) after checking every row has the right width.
func (fw FloatWeights) Shape() (cin, cout int, err error) {
	cin, cout = len(fw.Depthwise), len(fw.Pointwise)
	if cin == 0 || cout == 0 {
		return 0, 0, fmt.Errorf("%w: empty layer (cin=%d cout=%d)", ErrFloatShape, cin, cout)
	}
	for c, row := range fw.Depthwise {
		if len(row) != qnn.DepthwiseTaps {
			return 0, 0, fmt.Errorf("%w: depthwise[%d] has %d taps, want %d", ErrFloatShape, c, len(row), qnn.DepthwiseTaps)
		}
	}
	for co, row := range fw.Pointwise {
		if len(row) != cin {
			return 0, 0, fmt.Errorf("%w: pointwise[%d] has %d inputs, want %d", ErrFloatShape, co, len(row), cin)
		}
	}
	return cin, cout, nil
}

// Quantize encodes fw with one weight scale shared by both layers and the
// given zero point. It returns the bundle and the chosen scale.
func Quantize(fw FloatWeights, zp int) (Bundle, float32, error) {
	cin, cout, err := fw.Shape()
	if err != nil {
		return Bundle{}, 0, err
	}
	dw := flatten(fw.Depthwise)
	pw := flatten(fw.Pointwise)
	scale := qnn.ChooseWeightScale(dw, pw)

	b := Bundle{
		Depthwise: make([]uint8, cin*qnn.DepthwiseTaps),
		Pointwise: make([]uint8, cout*cin),
		Labels:    fw.Labels,
	}
	qnn.QuantizeWeights(b.Depthwise, dw, scale, zp)
	qnn.QuantizeWeights(b.Pointwise, pw, scale, zp)
	return b, scale, nil
}

func flatten(rows [][]float32) []float32 {
	n := 0
	for _, r := range rows {
		n += len(r)
	}
	out := make([]float32, 0, n)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

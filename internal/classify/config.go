package classify

import (
	"errors"
	"fmt"

	"github.com/samcharles93/dsconv/internal/qnn"
)

var ErrInvalidConfig = errors.New("classify: invalid config")

// QuantPair is one per-tensor (scale, zero-point) calibration pair.
type QuantPair struct {
	Scale     float32 `json:"scale" yaml:"scale"`
	ZeroPoint int     `json:"zero_point" yaml:"zero_point"`
}

func (q QuantPair) validate(name string) error {
	if !(q.Scale > 0) {
		return fmt.Errorf("%w: %s scale %v must be positive", ErrInvalidConfig, name, q.Scale)
	}
	if q.ZeroPoint < 0 || q.ZeroPoint > 255 {
		return fmt.Errorf("%w: %s zero-point %d outside [0,255]", ErrInvalidConfig, name, q.ZeroPoint)
	}
	return nil
}

// OperatingPoint holds every calibration pair of the pipeline. Weight is
// shared by the depthwise and pointwise layers. Logits quantizes the pooled
// class scores that feed softmax; Softmax quantizes the probabilities.
type OperatingPoint struct {
	Input   QuantPair `json:"input" yaml:"input"`
	Weight  QuantPair `json:"weight" yaml:"weight"`
	Output  QuantPair `json:"output" yaml:"output"`
	Logits  QuantPair `json:"logits" yaml:"logits"`
	Softmax QuantPair `json:"softmax" yaml:"softmax"`
}

// DefaultOperatingPoint is the calibration the bundled digit weights were
// exported with.
func DefaultOperatingPoint() OperatingPoint {
	return OperatingPoint{
		Input:   QuantPair{Scale: 0.02, ZeroPoint: 128},
		Weight:  QuantPair{Scale: 0.0019579321, ZeroPoint: 128},
		Output:  QuantPair{Scale: 0.02, ZeroPoint: 128},
		Logits:  QuantPair{Scale: 1.0 / 255.0, ZeroPoint: 0},
		Softmax: QuantPair{Scale: 1.0 / 255.0, ZeroPoint: 0},
	}
}

// Config describes the network shape and calibration.
type Config struct {
	H     int            `json:"h"`
	W     int            `json:"w"`
	Cin   int            `json:"cin"`
	Cout  int            `json:"cout"`
	TopK  int            `json:"top_k"`
	Relu6 bool           `json:"relu6"`
	Quant OperatingPoint `json:"quant"`
}

// DefaultConfig is a 32x32 RGB input classified into 10 digits.
func DefaultConfig() Config {
	return Config{
		H:     32,
		W:     32,
		Cin:   3,
		Cout:  10,
		TopK:  5,
		Relu6: true,
		Quant: DefaultOperatingPoint(),
	}
}

// Validate checks shapes and calibration pairs.
func (c Config) Validate() error {
	if c.H <= 0 || c.W <= 0 || c.Cin <= 0 || c.Cout <= 0 {
		return fmt.Errorf("%w: shape %dx%dx%d -> %d", ErrInvalidConfig, c.H, c.W, c.Cin, c.Cout)
	}
	if c.Cin != 3 {
		return fmt.Errorf("%w: input must be RGB (cin=3), got %d", ErrInvalidConfig, c.Cin)
	}
	if c.Cout > qnn.MaxSoftmaxChannels {
		return fmt.Errorf("%w: %d classes exceeds softmax capacity %d", ErrInvalidConfig, c.Cout, qnn.MaxSoftmaxChannels)
	}
	if c.TopK < 0 {
		return fmt.Errorf("%w: top-k %d", ErrInvalidConfig, c.TopK)
	}
	q := c.Quant
	for _, p := range []struct {
		name string
		pair QuantPair
	}{
		{"input", q.Input},
		{"weight", q.Weight},
		{"output", q.Output},
		{"logits", q.Logits},
		{"softmax", q.Softmax},
	} {
		if err := p.pair.validate(p.name); err != nil {
			return err
		}
	}
	return nil
}

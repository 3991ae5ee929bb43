// Package classify runs the depthwise-separable digit classifier:
// preprocess -> depthwise 3x3 (+ReLU6) -> pointwise 1x1 -> global average
// pool -> softmax -> top-K.
package classify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/imageio"
	"github.com/samcharles93/dsconv/internal/logger"
	"github.com/samcharles93/dsconv/internal/qnn"
)

var ErrImageSize = errors.New("classify: image size does not match model input")

// Timings records the wall time of each kernel stage.
type Timings struct {
	Depthwise time.Duration `json:"depthwise"`
	Pointwise time.Duration `json:"pointwise"`
	AvgPool   time.Duration `json:"avgpool"`
	Softmax   time.Duration `json:"softmax"`
	Total     time.Duration `json:"total"`
}

// Memory is the size in bytes of each activation buffer of one run.
type Memory struct {
	Input     int `json:"in"`
	Depthwise int `json:"dw_out"`
	Pointwise int `json:"pw_out"`
	Softmax   int `json:"sm"`
}

// Result is the outcome of one classification.
type Result struct {
	Probs   []float32
	Codes   []uint8
	Top     []Score
	Timings Timings
	Memory  Memory
}

// Model is a loaded classifier. It is safe for concurrent use: every call to
// Classify works on its own buffers and the weights are never written.
type Model struct {
	cfg    Config
	dw, pw qnn.Weights
	labels []string
	log    logger.Logger
}

// New validates cfg against the bundle and builds a Model.
func New(cfg Config, b assets.Bundle, log logger.Logger) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := cfg.Quant.Weight
	m := &Model{
		cfg:    cfg,
		dw:     qnn.Weights{Data: b.Depthwise, Scale: w.Scale, ZeroPoint: w.ZeroPoint},
		pw:     qnn.Weights{Data: b.Pointwise, Scale: w.Scale, ZeroPoint: w.ZeroPoint},
		labels: b.Labels,
		log:    log,
	}
	if err := m.dw.CheckDepthwise(cfg.Cin); err != nil {
		return nil, fmt.Errorf("depthwise: %w", err)
	}
	if err := m.pw.CheckPointwise(cfg.Cin, cfg.Cout); err != nil {
		return nil, fmt.Errorf("pointwise: %w", err)
	}
	return m, nil
}

// Config returns the model configuration.
func (m *Model) Config() Config {
	return m.cfg
}

// Labels returns the class labels as loaded; it may be shorter than Cout.
func (m *Model) Labels() []string {
	return m.labels
}

// Classify runs the full pipeline on img. The context is checked between
// stages; kernels themselves run to completion.
func (m *Model) Classify(ctx context.Context, img imageio.RGB) (*Result, error) {
	c := m.cfg
	if img.W != c.W || img.H != c.H {
		return nil, fmt.Errorf("%w: got %dx%d, want %dx%d", ErrImageSize, img.W, img.H, c.W, c.H)
	}
	q := c.Quant
	res := &Result{}
	start := time.Now()

	in := img.ToTensor(q.Input.Scale, q.Input.ZeroPoint)
	dw := qnn.NewTensor(c.H, c.W, c.Cin, q.Output.Scale, q.Output.ZeroPoint)
	pw := qnn.NewTensor(c.H, c.W, c.Cout, q.Output.Scale, q.Output.ZeroPoint)
	logits := qnn.NewTensor(1, 1, c.Cout, q.Logits.Scale, q.Logits.ZeroPoint)
	sm := qnn.NewTensor(1, 1, c.Cout, q.Softmax.Scale, q.Softmax.ZeroPoint)
	res.Memory = Memory{Input: in.Len(), Depthwise: dw.Len(), Pointwise: pw.Len(), Softmax: sm.Len()}

	stop := logger.Stage(m.log, "dwconv")
	qnn.DepthwiseConv3x3(in, m.dw, dw, c.Relu6)
	res.Timings.Depthwise = stop()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop = logger.Stage(m.log, "pwconv")
	qnn.PointwiseConv1x1(dw, m.pw, pw)
	res.Timings.Pointwise = stop()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop = logger.Stage(m.log, "avgpool")
	qnn.GlobalAvgPool(pw, logits)
	res.Timings.AvgPool = stop()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop = logger.Stage(m.log, "softmax")
	if err := qnn.Softmax(logits, sm); err != nil {
		return nil, err
	}
	res.Timings.Softmax = stop()
	res.Timings.Total = time.Since(start)

	res.Codes = sm.Data
	res.Probs = make([]float32, c.Cout)
	sm.Reals(res.Probs)
	res.Top = TopK(res.Probs, m.labels, c.TopK)
	return res, nil
}

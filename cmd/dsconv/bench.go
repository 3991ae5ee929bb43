package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/classify"
	"github.com/samcharles93/dsconv/internal/logger"
	"github.com/samcharles93/dsconv/internal/qnn"
)

// stageStats accumulates min/mean/max over benchmark runs.
type stageStats struct {
	name          string
	min, max, sum time.Duration
	n             int
}

func (s *stageStats) add(d time.Duration) {
	if s.n == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	s.sum += d
	s.n++
}

func (s *stageStats) mean() time.Duration {
	if s.n == 0 {
		return 0
	}
	return s.sum / time.Duration(s.n)
}

func benchCmd() *cli.Command {
	var (
		warmupRuns int64
		benchRuns  int64
		synthetic  bool
		seed       int64
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Time each kernel stage over a random input",
		Flags: append(modelFlags(),
			&cli.Int64Flag{
				Name:        "warmup",
				Usage:       "number of warmup runs",
				Value:       3,
				Destination: &warmupRuns,
			},
			&cli.Int64Flag{
				Name:        "runs",
				Usage:       "number of benchmark runs",
				Value:       100,
				Destination: &benchRuns,
			},
			&cli.BoolFlag{
				Name:        "synthetic",
				Usage:       "use random weights instead of the assets directory",
				Destination: &synthetic,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "random seed for the input image and synthetic weights",
				Value:       1,
				Destination: &seed,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if benchRuns < 1 {
				return cli.Exit("error: --runs must be at least 1", 1)
			}

			r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
			var model *classify.Model
			if synthetic {
				applyModelConfig(cmd, fileConfig)
				mc := modelConfig(fileConfig)
				m, err := classify.New(mc, syntheticBundle(mc.Cin, mc.Cout, r), logger.Discard())
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				model = m
			} else {
				m, _, err := loadModel(cmd, log)
				if err != nil {
					return err
				}
				model = m
			}
			mc := model.Config()
			img := randomImage(mc.H, mc.W, r)

			log.Info("warming up", "runs", warmupRuns)
			for range warmupRuns {
				if _, err := model.Classify(ctx, img); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
			}

			stages := []*stageStats{{name: "dwconv"}, {name: "pwconv"}, {name: "avgpool"}, {name: "softmax"}, {name: "total"}}
			log.Info("benchmarking", "runs", benchRuns)
			for range benchRuns {
				res, err := model.Classify(ctx, img)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				t := res.Timings
				for i, d := range []time.Duration{t.Depthwise, t.Pointwise, t.AvgPool, t.Softmax, t.Total} {
					stages[i].add(d)
				}
			}

			fmt.Printf("%dx%dx%d -> %d, %d runs\n\n", mc.H, mc.W, mc.Cin, mc.Cout, benchRuns)
			table := newTable(os.Stdout, "STAGE", "MIN", "MEAN", "MAX")
			for _, s := range stages {
				table.Append([]string{s.name, formatMS(s.min), formatMS(s.mean()), formatMS(s.max)})
			}
			table.Render()
			return nil
		},
	}
}

// syntheticBundle returns random weight codes for a cin -> cout model.
func syntheticBundle(cin, cout int, r *rand.Rand) assets.Bundle {
	b := assets.Bundle{
		Depthwise: make([]uint8, cin*qnn.DepthwiseTaps),
		Pointwise: make([]uint8, cout*cin),
		Labels:    defaultLabels(cout),
	}
	for i := range b.Depthwise {
		b.Depthwise[i] = uint8(r.UintN(256))
	}
	for i := range b.Pointwise {
		b.Pointwise[i] = uint8(r.UintN(256))
	}
	return b
}

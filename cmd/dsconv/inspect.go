package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/classify"
	"github.com/samcharles93/dsconv/internal/logger"
	"github.com/samcharles93/dsconv/internal/qnn"
)

// channelStats summarises the dequantized weights feeding one output channel.
type channelStats struct {
	Layer   string  `json:"layer"`
	Channel int     `json:"channel"`
	Min     float32 `json:"min"`
	Max     float32 `json:"max"`
	Mean    float32 `json:"mean"`
	Zeros   int     `json:"zeros"`
	Clipped int     `json:"clipped"`
}

type inspectReport struct {
	Config classify.Config `json:"config"`
	Files  []assets.Digest `json:"files"`
	Labels []string        `json:"labels"`
	Stats  []channelStats  `json:"weights"`
}

// weightStats splits codes into groups of per codes and dequantizes each.
// Zeros counts codes equal to zp; Clipped counts codes at 0 or 255.
func weightStats(layer string, codes []uint8, per int, scale float32, zp int) []channelStats {
	if per <= 0 {
		return nil
	}
	out := make([]channelStats, 0, len(codes)/per)
	for ch := 0; (ch+1)*per <= len(codes); ch++ {
		group := codes[ch*per : (ch+1)*per]
		s := channelStats{Layer: layer, Channel: ch}
		var sum float64
		for i, q := range group {
			v := qnn.Dequantize(q, scale, zp)
			if i == 0 || v < s.Min {
				s.Min = v
			}
			if i == 0 || v > s.Max {
				s.Max = v
			}
			sum += float64(v)
			if int(q) == zp {
				s.Zeros++
			}
			if q == 0 || q == 255 {
				s.Clipped++
			}
		}
		s.Mean = float32(sum / float64(per))
		out = append(out, s)
	}
	return out
}

func inspectCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the operating point, asset digests and weight statistics",
		Flags: append(modelFlags(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the report as JSON",
				Destination: &asJSON,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			applyModelConfig(cmd, fileConfig)
			mc := modelConfig(fileConfig)
			if err := mc.Validate(); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			layout := assetLayout(mc)
			bundle, err := assets.Load(log, layout)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load assets: %v", err), 1)
			}
			files, err := assets.Digests(layout)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: hash assets: %v", err), 1)
			}

			w := mc.Quant.Weight
			stats := weightStats("depthwise", bundle.Depthwise, qnn.DepthwiseTaps, w.Scale, w.ZeroPoint)
			stats = append(stats, weightStats("pointwise", bundle.Pointwise, mc.Cin, w.Scale, w.ZeroPoint)...)

			if asJSON {
				return writeJSON(inspectReport{Config: mc, Files: files, Labels: bundle.Labels, Stats: stats})
			}

			fmt.Printf("input %dx%dx%d -> %d classes, relu6=%t, top_k=%d\n\n", mc.H, mc.W, mc.Cin, mc.Cout, mc.Relu6, mc.TopK)

			q := mc.Quant
			table := newTable(os.Stdout, "TENSOR", "SCALE", "ZERO POINT", "MIN", "MAX")
			for _, row := range []struct {
				name string
				p    classify.QuantPair
			}{
				{"input", q.Input},
				{"weight", q.Weight},
				{"output", q.Output},
				{"logits", q.Logits},
				{"softmax", q.Softmax},
			} {
				table.Append([]string{
					row.name,
					strconv.FormatFloat(float64(row.p.Scale), 'g', 8, 32),
					strconv.Itoa(row.p.ZeroPoint),
					formatFloat(qnn.Dequantize(0, row.p.Scale, row.p.ZeroPoint)),
					formatFloat(qnn.Dequantize(255, row.p.Scale, row.p.ZeroPoint)),
				})
			}
			table.Render()
			fmt.Println()

			table = newTable(os.Stdout, "FILE", "SIZE", "SHA256")
			for _, f := range files {
				table.Append([]string{f.Name, strconv.Itoa(f.Size), f.SHA256})
			}
			table.Render()
			fmt.Println()

			table = newTable(os.Stdout, "LAYER", "CH", "LABEL", "MIN", "MAX", "MEAN", "ZEROS", "CLIPPED")
			for _, s := range stats {
				label := ""
				if s.Layer == "pointwise" {
					label = classify.NoLabel
					if s.Channel < len(bundle.Labels) {
						label = bundle.Labels[s.Channel]
					}
				}
				table.Append([]string{
					s.Layer,
					strconv.Itoa(s.Channel),
					label,
					formatFloat(s.Min),
					formatFloat(s.Max),
					formatFloat(s.Mean),
					strconv.Itoa(s.Zeros),
					strconv.Itoa(s.Clipped),
				})
			}
			table.Render()
			return nil
		},
	}
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 4, 32)
}

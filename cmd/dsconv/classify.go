package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/classify"
	"github.com/samcharles93/dsconv/internal/imageio"
	"github.com/samcharles93/dsconv/internal/logger"
)

type classifyReport struct {
	Image   string           `json:"image"`
	Top     []classify.Score `json:"top"`
	Probs   []float32        `json:"probabilities"`
	Codes   []uint8          `json:"codes"`
	Timings map[string]int64 `json:"timings_us"`
	Memory  classify.Memory  `json:"memory"`
}

func classifyCmd() *cli.Command {
	var (
		imagePath string
		asJSON    bool
	)

	return &cli.Command{
		Name:  "classify",
		Usage: "Classify a 24-bit BMP image",
		Flags: append(modelFlags(),
			&cli.StringFlag{
				Name:        "image",
				Aliases:     []string{"i"},
				Usage:       "path to a 24-bit uncompressed BMP",
				Required:    true,
				Destination: &imagePath,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the result as JSON",
				Destination: &asJSON,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			model, _, err := loadModel(cmd, log)
			if err != nil {
				return err
			}
			img, err := imageio.LoadBMPFile(imagePath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load image: %v", err), 1)
			}
			log.Debug("image loaded", "path", imagePath, "w", img.W, "h", img.H)

			res, err := model.Classify(ctx, img)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: classify: %v", err), 1)
			}

			if asJSON {
				t := res.Timings
				return writeJSON(classifyReport{
					Image: imagePath,
					Top:   res.Top,
					Probs: res.Probs,
					Codes: res.Codes,
					Timings: map[string]int64{
						"dwconv":  t.Depthwise.Microseconds(),
						"pwconv":  t.Pointwise.Microseconds(),
						"avgpool": t.AvgPool.Microseconds(),
						"softmax": t.Softmax.Microseconds(),
						"total":   t.Total.Microseconds(),
					},
					Memory: res.Memory,
				})
			}

			printTimings(os.Stdout, res.Timings)
			fmt.Println()
			fmt.Printf("Top-%d:\n", len(res.Top))
			printTop(os.Stdout, res.Top)
			fmt.Println()
			printMemory(os.Stdout, res.Memory)
			return nil
		},
	}
}

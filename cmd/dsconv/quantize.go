package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/classify"
	"github.com/samcharles93/dsconv/internal/imageio"
	"github.com/samcharles93/dsconv/internal/logger"
)

func quantizeCmd() *cli.Command {
	var (
		weightsPath string
		outDir      string
		zeroPoint   int64
		samplePath  string
		writeConfig bool
	)

	return &cli.Command{
		Name:  "quantize",
		Usage: "Quantize float weights (JSON) into a uint8 asset bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "weights",
				Aliases:     []string{"w"},
				Usage:       "float weights JSON ({\"depthwise\": [[9]...], \"pointwise\": [[cin]...], \"labels\": [...]})",
				Required:    true,
				Destination: &weightsPath,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output assets directory",
				Value:       "assets",
				Destination: &outDir,
			},
			&cli.Int64Flag{
				Name:        "zero-point",
				Usage:       "weight zero point",
				Value:       128,
				Destination: &zeroPoint,
			},
			&cli.StringFlag{
				Name:        "sample",
				Usage:       "also write a random 24-bit sample BMP to this path",
				Destination: &samplePath,
			},
			&cli.BoolFlag{
				Name:        "write-config",
				Usage:       "write config.yaml with the chosen weight scale next to the bundle",
				Destination: &writeConfig,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			if zeroPoint < 0 || zeroPoint > 255 {
				return cli.Exit(fmt.Sprintf("error: zero point %d outside [0,255]", zeroPoint), 1)
			}
			fw, err := assets.LoadFloatWeights(weightsPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			bundle, scale, err := assets.Quantize(fw, int(zeroPoint))
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			cin, cout, _ := fw.Shape()
			if len(bundle.Labels) == 0 {
				bundle.Labels = defaultLabels(cout)
			}

			layout := assets.DefaultLayout(outDir)
			layout.Cin, layout.Cout = cin, cout
			if err := assets.Write(layout, bundle); err != nil {
				return cli.Exit(fmt.Sprintf("error: write bundle: %v", err), 1)
			}
			log.Info("bundle written", "dir", outDir, "cin", cin, "cout", cout, "scale", scale, "zero_point", zeroPoint)

			if writeConfig {
				path := filepath.Join(outDir, "config.yaml")
				if err := WriteConfig(path, bundleConfig(outDir, cout, scale, int(zeroPoint))); err != nil {
					return cli.Exit(fmt.Sprintf("error: write config: %v", err), 1)
				}
				log.Info("config written", "path", path)
			}

			if samplePath != "" {
				mc := classify.DefaultConfig()
				img := randomImage(mc.H, mc.W, rand.New(rand.NewPCG(1, 2)))
				f, err := os.Create(samplePath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				if err := imageio.EncodeBMP(f, img); err != nil {
					_ = f.Close()
					return cli.Exit(fmt.Sprintf("error: write sample: %v", err), 1)
				}
				if err := f.Close(); err != nil {
					return cli.Exit(fmt.Sprintf("error: %v", err), 1)
				}
				log.Info("sample written", "path", samplePath)
			}

			files, err := assets.Digests(layout)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: hash bundle: %v", err), 1)
			}
			fmt.Printf("weight scale: %.9g  zero point: %d\n\n", scale, zeroPoint)
			table := newTable(os.Stdout, "FILE", "SIZE", "SHA256")
			for _, f := range files {
				table.Append([]string{f.Name, strconv.Itoa(f.Size), f.SHA256})
			}
			table.Render()
			return nil
		},
	}
}

// bundleConfig is the config file that reproduces a freshly quantized bundle.
func bundleConfig(dir string, cout int, scale float32, zp int) Config {
	return Config{
		AssetsDir: dir,
		Classes:   &cout,
		Quant: QuantConfig{
			Weight: &classify.QuantPair{Scale: scale, ZeroPoint: zp},
		},
	}
}

func defaultLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// randomImage fills an h x w image with uniform random bytes.
func randomImage(h, w int, r *rand.Rand) imageio.RGB {
	img := imageio.RGB{W: w, H: h, Pix: make([]uint8, h*w*3)}
	for i := range img.Pix {
		img.Pix[i] = uint8(r.UintN(256))
	}
	return img
}

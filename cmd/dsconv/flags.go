package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/assets"
)

var (
	configFile    string
	assetsDir     string
	depthwiseFile string
	pointwiseFile string
	labelsFile    string
	topK          int64
	noRelu6       bool
	logLevel      string
	logFormat     string
	debug         bool

	// fileConfig is loaded once by the root Before hook.
	fileConfig Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: user config dir)",
			Value:       configPath(),
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "assets",
			Aliases:     []string{"a"},
			Usage:       "directory holding weights and labels",
			Value:       "assets",
			Destination: &assetsDir,
		},
		&cli.StringFlag{
			Name:        "dw-weights",
			Usage:       "depthwise weight file inside the assets directory",
			Value:       assets.DefaultDepthwiseFile,
			Destination: &depthwiseFile,
		},
		&cli.StringFlag{
			Name:        "pw-weights",
			Usage:       "pointwise weight file inside the assets directory",
			Value:       assets.DefaultPointwiseFile,
			Destination: &pointwiseFile,
		},
		&cli.StringFlag{
			Name:        "labels",
			Usage:       "label file inside the assets directory",
			Value:       assets.DefaultLabelsFile,
			Destination: &labelsFile,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Aliases:     []string{"k"},
			Usage:       "number of classes to report",
			Value:       5,
			Destination: &topK,
		},
		&cli.BoolFlag{
			Name:        "no-relu6",
			Usage:       "disable the ReLU6 clamp after the depthwise layer",
			Destination: &noRelu6,
		},
	}
}

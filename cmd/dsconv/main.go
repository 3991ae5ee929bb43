package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/logger"
)

func main() {
	app := &cli.Command{
		Name:  "dsconv",
		Usage: "Quantized depthwise-separable image classifier",
		Flags: globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := LoadConfig(configFile, cmd.IsSet("config"))
			if err != nil {
				return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fileConfig = cfg
			applyLoggingConfig(cmd, cfg)
			if debug {
				logLevel = "debug"
			}
			log := logger.Setup(os.Stderr, logFormat, logLevel)
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			classifyCmd(),
			serveCmd(),
			inspectCmd(),
			quantizeCmd(),
			benchCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

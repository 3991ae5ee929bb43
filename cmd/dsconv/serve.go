package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/api"
	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		maxBody     int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the classification REST API",
		Flags: append(modelFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.Int64Flag{
				Name:        "max-body",
				Usage:       "maximum request body size in bytes",
				Value:       api.DefaultMaxBody,
				Destination: &maxBody,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			if fileConfig.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = fileConfig.ServerAddress
			}
			model, layout, err := loadModel(cmd, log)
			if err != nil {
				return err
			}
			files, err := assets.Digests(layout)
			if err != nil {
				log.Warn("could not hash asset files", "error", err)
			}

			server := api.NewServer(model, files, log.With("component", "api"))
			server.SetMaxBody(maxBody)
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "classes", model.Config().Cout)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/classify"
	"github.com/samcharles93/dsconv/internal/logger"
)

// loadModel resolves the model flags against the config file, reads the
// asset bundle and builds the classifier.
func loadModel(cmd *cli.Command, log logger.Logger) (*classify.Model, assets.Layout, error) {
	applyModelConfig(cmd, fileConfig)
	mc := modelConfig(fileConfig)
	if err := mc.Validate(); err != nil {
		return nil, assets.Layout{}, cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	layout := assetLayout(mc)

	log.Info("loading assets", "dir", layout.Dir, "cin", layout.Cin, "cout", layout.Cout)
	bundle, err := assets.Load(log, layout)
	if err != nil {
		return nil, layout, cli.Exit(fmt.Sprintf("error: load assets: %v", err), 1)
	}
	model, err := classify.New(mc, bundle, log)
	if err != nil {
		return nil, layout, cli.Exit(fmt.Sprintf("error: build model: %v", err), 1)
	}
	return model, layout, nil
}

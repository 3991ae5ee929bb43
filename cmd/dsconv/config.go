package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/dsconv/internal/assets"
	"github.com/samcharles93/dsconv/internal/classify"
)

// Config represents the dsconv configuration file (~/.config/dsconv/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	AssetsDir     string `yaml:"assets_dir,omitempty"`
	DepthwiseFile string `yaml:"depthwise_file,omitempty"`
	PointwiseFile string `yaml:"pointwise_file,omitempty"`
	LabelsFile    string `yaml:"labels_file,omitempty"`

	// Network shape
	Height  *int `yaml:"height,omitempty"`
	Width   *int `yaml:"width,omitempty"`
	Classes *int `yaml:"classes,omitempty"`

	TopK  *int64 `yaml:"top_k,omitempty"`
	Relu6 *bool  `yaml:"relu6,omitempty"`

	Quant QuantConfig `yaml:"quant,omitempty"`

	// Server
	ServerAddress string `yaml:"server_address,omitempty"`

	// Output
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`
}

// QuantConfig overrides individual calibration pairs.
type QuantConfig struct {
	Input   *classify.QuantPair `yaml:"input,omitempty"`
	Weight  *classify.QuantPair `yaml:"weight,omitempty"`
	Output  *classify.QuantPair `yaml:"output,omitempty"`
	Logits  *classify.QuantPair `yaml:"logits,omitempty"`
	Softmax *classify.QuantPair `yaml:"softmax,omitempty"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dsconv", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config
// unless the path was given explicitly.
func LoadConfig(path string, explicit bool) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig stores cfg as YAML.
func WriteConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyModelConfig applies config file defaults to the model flags that were
// not set explicitly.
func applyModelConfig(c *cli.Command, cfg Config) {
	if cfg.AssetsDir != "" && !c.IsSet("assets") {
		assetsDir = cfg.AssetsDir
	}
	if cfg.DepthwiseFile != "" && !c.IsSet("dw-weights") {
		depthwiseFile = cfg.DepthwiseFile
	}
	if cfg.PointwiseFile != "" && !c.IsSet("pw-weights") {
		pointwiseFile = cfg.PointwiseFile
	}
	if cfg.LabelsFile != "" && !c.IsSet("labels") {
		labelsFile = cfg.LabelsFile
	}
	if cfg.TopK != nil && !c.IsSet("top-k") {
		topK = *cfg.TopK
	}
	if cfg.Relu6 != nil && !c.IsSet("no-relu6") {
		noRelu6 = !*cfg.Relu6
	}
}

// modelConfig builds the classifier configuration from defaults, the config
// file and the current flag values.
func modelConfig(cfg Config) classify.Config {
	mc := classify.DefaultConfig()
	if cfg.Height != nil {
		mc.H = *cfg.Height
	}
	if cfg.Width != nil {
		mc.W = *cfg.Width
	}
	if cfg.Classes != nil {
		mc.Cout = *cfg.Classes
	}
	mc.TopK = int(topK)
	mc.Relu6 = !noRelu6

	q := cfg.Quant
	for _, o := range []struct {
		src *classify.QuantPair
		dst *classify.QuantPair
	}{
		{q.Input, &mc.Quant.Input},
		{q.Weight, &mc.Quant.Weight},
		{q.Output, &mc.Quant.Output},
		{q.Logits, &mc.Quant.Logits},
		{q.Softmax, &mc.Quant.Softmax},
	} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return mc
}

func assetLayout(mc classify.Config) assets.Layout {
	return assets.Layout{
		Dir:           assetsDir,
		DepthwiseFile: depthwiseFile,
		PointwiseFile: pointwiseFile,
		LabelsFile:    labelsFile,
		Cin:           mc.Cin,
		Cout:          mc.Cout,
	}
}

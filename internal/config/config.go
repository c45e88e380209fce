// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDPI         = 200
	DefaultImageFormat = "png"
)

type Config struct {
	OutputDir   string `yaml:"output_dir"`
	DPI         int    `yaml:"dpi"`
	ImageFormat string `yaml:"image_format"`
	Verbose     bool   `yaml:"verbose"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.DPI < 0 {
		return nil, fmt.Errorf("dpi must be positive, got %d", cfg.DPI)
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.DPI == 0 {
		cfg.DPI = DefaultDPI
	}
	if cfg.ImageFormat == "" {
		cfg.ImageFormat = DefaultImageFormat
	}
}

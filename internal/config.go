package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional config file. Unset keys keep their defaults.
type fileConfig struct {
	IgnoreCase  *bool   `toml:"ignore_case" yaml:"ignore_case"`
	Context     *int    `toml:"context" yaml:"context"`
	MaxBlocks   *int    `toml:"max_blocks" yaml:"max_blocks"`
	Replacement *string `toml:"replacement" yaml:"replacement"`
	Theme       *string `toml:"theme" yaml:"theme"`
	Color       *bool   `toml:"color" yaml:"color"`
	Workers     *int    `toml:"workers" yaml:"workers"`
	Timeout     string  `toml:"timeout" yaml:"timeout"`
}

// LoadConfigFile reads a .toml, .yaml or .yml file on top of d.
func LoadConfigFile(path string, d Defaults) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return d, fmt.Errorf("%w: unsupported config format %q", ErrConfig, filepath.Ext(path))
	}
	if err != nil {
		return d, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return fc.apply(d)
}

func (fc fileConfig) apply(d Defaults) (Defaults, error) {
	if fc.IgnoreCase != nil {
		d.IgnoreCase = *fc.IgnoreCase
	}
	if fc.Context != nil {
		d.Context = *fc.Context
	}
	if fc.MaxBlocks != nil {
		d.MaxBlocks = *fc.MaxBlocks
	}
	if fc.Replacement != nil {
		d.Replacement = *fc.Replacement
	}
	if fc.Theme != nil {
		d.Theme = *fc.Theme
	}
	if fc.Color != nil {
		d.Color = *fc.Color
	}
	if fc.Workers != nil {
		d.Workers = *fc.Workers
	}
	if fc.Timeout != "" {
		t, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return d, fmt.Errorf("%w: timeout: %v", ErrConfig, err)
		}
		d.Timeout = t
	}
	return d, nil
}

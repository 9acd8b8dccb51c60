package main

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/rybkr/xdiff/internal/diffserver"
)

// fileConfig is the shape of an optional .xdiffrc.toml, letting users
// pin a default listen address, merge style, and favor mode instead
// of repeating flags on every invocation of `xdiff serve`.
type fileConfig struct {
	Addr  string `toml:"addr"`
	Merge struct {
		Style string `toml:"style"`
		Level string `toml:"level"`
		Favor string `toml:"favor"`
	} `toml:"merge"`
}

// loadFileConfig reads path, or ".xdiffrc.toml" in the current
// directory if path is empty. A missing default file is not an
// error; an explicitly named missing file is.
func loadFileConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if path == "" {
		path = ".xdiffrc.toml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, err
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyFileConfig(cfg *diffserver.Config, fc *fileConfig) {
	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.Merge.Style != "" {
		cfg.MergeConfig.Style = parseStyle(fc.Merge.Style)
	}
	if fc.Merge.Level != "" {
		cfg.MergeConfig.Level = parseLevel(fc.Merge.Level)
	}
	if fc.Merge.Favor != "" {
		cfg.MergeConfig.Favor = parseFavor(fc.Merge.Favor)
	}
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Monkey MonkeyConfig `toml:"monkey"`
	UI     UIConfig     `toml:"ui"`
}

// MonkeyConfig maps typing-session settings.
type MonkeyConfig struct {
	Lang         *string `toml:"lang"`
	SpeedMs      *int    `toml:"speed-ms"`
	Duration     *int    `toml:"duration"`
	TieBreak     *string `toml:"tiebreak"`
	Seed         *int64  `toml:"seed"`
	CharsPerLine *int    `toml:"chars-per-line"`
	LinesPerPage *int    `toml:"lines-per-page"`
}

// UIConfig maps display and diagnostics settings.
type UIConfig struct {
	Stars    *bool   `toml:"stars"`
	Repo     *string `toml:"repo"`
	LogLevel *string `toml:"log-level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Package config loads shared tool defaults from the user's config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath          string `toml:"db_path"`
	EmotionModel    string `toml:"emotion_model"`
	TranscribeModel string `toml:"transcribe_model"`
	Language        string `toml:"language"`
	Concurrency     int    `toml:"concurrency"`
}

// Load returns the built-in defaults overridden by
// ~/.config/couplechart/config.toml when it exists.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:       filepath.Join(home, ".config", "couplechart", "couplechart.db"),
		EmotionModel: "gpt-5-mini",
		Language:     "ko",
		Concurrency:  4,
	}

	cfgPath := filepath.Join(home, ".config", "couplechart", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.DBPath = expandHome(cfg.DBPath, home)
	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

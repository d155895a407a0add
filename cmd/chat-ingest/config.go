package main

import (
	"errors"
)

type Config struct {
	InPath   string
	CoupleID string
	DBPath   string
	OutPath  string
	Language string
	STTModel string
	APIKey   string
	Pretty   bool
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	if c.DBPath != "" && c.CoupleID == "" {
		return errors.New("missing -couple (required when writing to -db)")
	}
	if c.DBPath == "" && c.OutPath == "" {
		return errors.New("nothing to do: pass -db and/or -out")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Language: "ko",
	}
}

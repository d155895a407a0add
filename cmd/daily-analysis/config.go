package main

import (
	"errors"
	"time"
)

type Config struct {
	DBPath      string
	CoupleID    string
	Date        string
	Model       string
	APIKey      string
	Concurrency int
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("missing -db")
	}
	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return errors.New("-date must be YYYY-MM-DD")
		}
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency must be >= 0")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Model:       "gpt-5-mini",
		Concurrency: 4,
	}
}

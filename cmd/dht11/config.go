// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/GermanBionicSystems/dht11/dht11"
	"github.com/rs/zerolog"
)

type fileConfig struct {
	Pin       string `toml:"pin"`
	Interval  string `toml:"interval"`
	StartLow  string `toml:"start_low"`
	StartHigh string `toml:"start_high"`
	LogLevel  string `toml:"log_level"`
	NoColor   bool   `toml:"no_color"`
}

type config struct {
	Pin      string
	Interval time.Duration
	// Count is the number of readings to take, 0 means forever.
	Count    int
	Opts     dht11.Opts
	LogLevel zerolog.Level
	NoColor  bool
}

func defaultConfig() config {
	return config{
		Pin:      "GPIO23",
		Interval: 10 * time.Second,
		Opts:     dht11.DefaultOpts,
		LogLevel: zerolog.InfoLevel,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load dht11 config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return config{}, fmt.Errorf("load dht11 config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("pin") {
		cfg.Pin = strings.TrimSpace(raw.Pin)
	}

	if meta.IsDefined("interval") {
		if cfg.Interval, err = parseDuration("interval", raw.Interval); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("start_low") {
		if cfg.Opts.StartLow, err = parseDuration("start_low", raw.StartLow); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("start_high") {
		if cfg.Opts.StartHigh, err = parseDuration("start_high", raw.StartHigh); err != nil {
			return config{}, err
		}
	}

	if meta.IsDefined("log_level") {
		lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw.LogLevel)))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("no_color") {
		cfg.NoColor = raw.NoColor
	}

	return cfg, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func (c config) validate() error {
	if c.Pin == "" {
		return errors.New("pin is required")
	}
	if c.Interval < dht11.MinInterval {
		return fmt.Errorf("interval %s is below the sensor minimum of %s", c.Interval, dht11.MinInterval)
	}
	if c.Opts.StartLow < 18*time.Millisecond {
		return fmt.Errorf("start_low %s is below the 18ms the sensor needs", c.Opts.StartLow)
	}
	if c.Count < 0 {
		return fmt.Errorf("count %d is negative", c.Count)
	}
	return nil
}

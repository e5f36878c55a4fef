// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dht11 reads a DHT11 sensor periodically and logs the readings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/dht11/dht11"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// reader is the part of dht11.Dev used by the poll loop.
type reader interface {
	Read() (dht11.Measurement, error)
}

func mainImpl() error {
	configPath := flag.String("config", "", "path to a TOML config file")
	pin := flag.String("pin", "", "GPIO pin the sensor data line is attached to")
	interval := flag.Duration("interval", 0, "time between readings, at least 1s")
	count := flag.Int("n", 0, "number of readings to take, 0 for no limit")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			return err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pin":
			cfg.Pin = *pin
		case "interval":
			cfg.Interval = *interval
		case "n":
			cfg.Count = *count
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	logger := initLogger(cfg)

	if _, err := host.Init(); err != nil {
		return err
	}
	p := gpioreg.ByName(cfg.Pin)
	if p == nil {
		return fmt.Errorf("failed to find pin %q", cfg.Pin)
	}
	d, err := dht11.NewPin(p, &cfg.Opts)
	if err != nil {
		return err
	}
	logger.Info().Str("pin", cfg.Pin).Dur("interval", cfg.Interval).Msg("sensor ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return poll(ctx, logger, d, cfg.Interval, cfg.Count)
}

// poll reads r every interval until ctx is done or count readings were
// taken. Failed readings are logged and retried on the next tick.
func poll(ctx context.Context, logger zerolog.Logger, r reader, interval time.Duration, count int) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for n := 1; ; n++ {
		m, err := r.Read()
		if err != nil {
			logger.Warn().Err(err).Str("kind", errorKind(err)).Msg("reading failed")
		} else {
			logger.Info().Uint8("humidity", m.Humidity).Uint8("temperature", m.Temperature).Msg("reading")
		}
		if n == count {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, dht11.ErrTimeout):
		return "timeout"
	case errors.Is(err, dht11.ErrChecksum):
		return "checksum"
	case errors.Is(err, dht11.ErrDriverFault):
		return "driver"
	default:
		return "unknown"
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dht11: %s.\n", err)
		os.Exit(1)
	}
}

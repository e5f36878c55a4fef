// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initLogger sets up the global console logger on stdout.
func initLogger(cfg config) zerolog.Logger {
	fd := os.Stdout.Fd()
	noColor := cfg.NoColor || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	logger := newLogger(colorable.NewColorableStdout(), noColor, cfg.LogLevel)
	log.Logger = logger
	return logger
}

func newLogger(w io.Writer, noColor bool, lvl zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "dht11").Logger()
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dht11 reads the AOSONG DHT11 temperature/humidity sensor over a
// single GPIO line.
//
// The sensor talks a half-duplex, pulse-width encoded protocol on one wire
// that is held high by a pull-up while idle:
//
//  1. The host pulls the line low for 20ms (the datasheet minimum is 18ms),
//     drives it high for 20µs and releases it.
//  2. The sensor acknowledges by pulling the line low for 80µs and releasing
//     it for 80µs.
//  3. The sensor sends 40 bits, most significant first. Each bit is a 50µs low
//     followed by a high pulse; a pulse longer than 30µs is a 1, otherwise 0.
//  4. The 5 bytes are humidity, humidity fraction, temperature, temperature
//     fraction and a checksum equal to the low byte of the sum of the other
//     four.
//
// Some sensor revisions document a 5µs high pulse before the low start pulse
// instead; the timing used here can be changed through Opts.
//
// Every level transition is busy polled with a 250ms ceiling, so a missing
// sensor makes Read fail with a TimeoutError instead of blocking.
//
// Readings must be at least a second apart. The driver never retries; a
// failed reading is reported and the caller decides when to try again.
//
// # Datasheet
//
// https://www.mouser.com/datasheet/2/758/DHT11-Technical-Data-Sheet-Translated-Version-1143054.pdf
package dht11

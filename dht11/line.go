// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Line is the single wire the sensor is attached to. It is both driven by the
// host during the handshake and sensed while the sensor transmits.
//
// Any GPIO library can be adapted to it; NewPin adapts a periph gpio.PinIO.
type Line interface {
	// Out switches the line to output and drives it to the given level.
	Out(l gpio.Level) error
	// In releases the line so the sensor can drive it. The line must read
	// high while nobody pulls it down.
	In() error
	// Read returns the current level of the line.
	Read() (gpio.Level, error)
}

// Clock measures elapsed time and sleeps. Both are needed for the handshake
// and the pulse width measurements; tests replace it with a simulated clock.
//
// Sleep must not overshoot short durations by more than a few microseconds:
// the host is still driving the line while it sleeps before releasing it.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// pinLine adapts a periph gpio.PinIO to Line.
type pinLine struct {
	p gpio.PinIO
}

func (l *pinLine) Out(v gpio.Level) error {
	return l.p.Out(v)
}

// In enables the internal pull-up so the idle line reads high even without an
// external resistor.
func (l *pinLine) In() error {
	return l.p.In(gpio.PullUp, gpio.NoEdge)
}

func (l *pinLine) Read() (gpio.Level, error) {
	return l.p.Read(), nil
}

func (l *pinLine) String() string {
	return l.p.String()
}

// spinBelow is the duration under which hostClock busy waits. time.Sleep
// overshoots by tens of microseconds on Linux.
const spinBelow = time.Millisecond

type hostClock struct{}

func (hostClock) Now() time.Time {
	return time.Now()
}

func (hostClock) Sleep(d time.Duration) {
	if d >= spinBelow {
		time.Sleep(d)
		return
	}
	for start := time.Now(); time.Since(start) < d; {
	}
}

var _ Line = &pinLine{}
var _ Clock = hostClock{}

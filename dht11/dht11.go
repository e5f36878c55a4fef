// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// MinInterval is the shortest interval accepted by SenseContinuous. The
// sensor needs about a second to recover between two readings.
const MinInterval = time.Second

// frameBits is the number of bits sent by the sensor, most significant first.
const frameBits = 8 * len(Frame{})

// Opts holds the configuration options for the device. Zero durations and a
// nil Clock fall back to the value in DefaultOpts.
type Opts struct {
	// StartLow is how long the host pulls the line low to request a reading.
	// The datasheet requires at least 18ms.
	StartLow time.Duration
	// StartHigh is how long the host drives the line high after StartLow,
	// before releasing it to the sensor.
	StartHigh time.Duration
	// WaitTimeout bounds every wait for a level transition.
	WaitTimeout time.Duration
	// BitThreshold is the high pulse width above which a bit decodes as 1.
	BitThreshold time.Duration
	// Clock is used for sleeping and measuring pulse widths. Defaults to the
	// host clock.
	Clock Clock
	// KeepGC leaves the Go garbage collector running during a reading. By
	// default it is turned off from the start of the handshake until the
	// frame is received, so a collection cannot stretch a measured pulse.
	KeepGC bool
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	StartLow:     20 * time.Millisecond,
	StartHigh:    20 * time.Microsecond,
	WaitTimeout:  250 * time.Millisecond,
	BitThreshold: 30 * time.Microsecond,
	Clock:        hostClock{},
}

// Dev represents a DHT11 temperature/humidity sensor on a single line.
type Dev struct {
	line Line
	opts Opts

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewPin returns a Dev reading a DHT11 attached to a periph GPIO pin. The pin
// is driven high so the first reading can start right away. The Opts can be
// nil.
func NewPin(p gpio.PinIO, opts *Opts) (*Dev, error) {
	if p == nil {
		return nil, errors.New("dht11: nil pin")
	}
	return New(&pinLine{p: p}, opts)
}

// New returns a Dev reading a DHT11 attached to l. The line is driven high so
// the first reading can start right away. The Opts can be nil.
func New(l Line, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{line: l, opts: *opts}
	if d.opts.StartLow <= 0 {
		d.opts.StartLow = DefaultOpts.StartLow
	}
	if d.opts.StartHigh <= 0 {
		d.opts.StartHigh = DefaultOpts.StartHigh
	}
	if d.opts.WaitTimeout <= 0 {
		d.opts.WaitTimeout = DefaultOpts.WaitTimeout
	}
	if d.opts.BitThreshold <= 0 {
		d.opts.BitThreshold = DefaultOpts.BitThreshold
	}
	if d.opts.Clock == nil {
		d.opts.Clock = hostClock{}
	}
	if err := l.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("dht11: failed to idle line: %w", &DriverFaultError{Op: "out high", Err: err})
	}
	return d, nil
}

// Read requests one reading from the sensor and decodes it.
//
// The call blocks for roughly 25ms on success. Every wait for a level
// transition is bounded by WaitTimeout. It never retries: a DriverFaultError,
// TimeoutError or ChecksumError ends the reading. Callers should leave at
// least MinInterval between two calls.
func (d *Dev) Read() (Measurement, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := d.readFrame()
	if err != nil {
		var fault *DriverFaultError
		if !errors.As(err, &fault) {
			// Leave the line idle for the next handshake.
			if err2 := d.line.Out(gpio.High); err2 != nil {
				return Measurement{}, &DriverFaultError{Op: "out high", Err: err2}
			}
		}
		return Measurement{}, err
	}
	if err := d.line.Out(gpio.High); err != nil {
		return Measurement{}, &DriverFaultError{Op: "out high", Err: err}
	}
	return f.Measurement()
}

// readFrame runs the handshake and receives the 40 data bits.
func (d *Dev) readFrame() (Frame, error) {
	var f Frame
	if !d.opts.KeepGC {
		defer debug.SetGCPercent(debug.SetGCPercent(-1))
	}
	if err := d.handshake(); err != nil {
		return f, err
	}

	// Acknowledgment: the sensor pulls low for 80µs, releases for 80µs, then
	// pulls low again to start the first bit.
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if _, err := d.waitWhile(l); err != nil {
			return f, err
		}
	}

	// Every bit is a ~50µs low followed by a high whose width carries the
	// value: 26-28µs for 0, 70µs for 1.
	for i := range frameBits {
		if _, err := d.waitWhile(gpio.Low); err != nil {
			return f, err
		}
		w, err := d.waitWhile(gpio.High)
		if err != nil {
			return f, err
		}
		f[i/8] <<= 1
		if w > d.opts.BitThreshold {
			f[i/8] |= 1
		}
	}
	return f, nil
}

// handshake pulls the line low long enough for the sensor to notice, then
// hands the line over to the sensor.
func (d *Dev) handshake() error {
	if err := d.line.Out(gpio.Low); err != nil {
		return &DriverFaultError{Op: "out low", Err: err}
	}
	d.opts.Clock.Sleep(d.opts.StartLow)
	if err := d.line.Out(gpio.High); err != nil {
		return &DriverFaultError{Op: "out high", Err: err}
	}
	d.opts.Clock.Sleep(d.opts.StartHigh)
	if err := d.line.In(); err != nil {
		return &DriverFaultError{Op: "in", Err: err}
	}
	return nil
}

// waitWhile busy polls the line while it is at level and returns how long it
// stayed there. It gives up once WaitTimeout has elapsed.
func (d *Dev) waitWhile(level gpio.Level) (time.Duration, error) {
	start := d.opts.Clock.Now()
	for {
		l, err := d.line.Read()
		if err != nil {
			return 0, &DriverFaultError{Op: "read", Err: err}
		}
		elapsed := d.opts.Clock.Now().Sub(start)
		if l != level {
			return elapsed, nil
		}
		if elapsed > d.opts.WaitTimeout {
			return elapsed, &TimeoutError{Level: level, Elapsed: elapsed}
		}
	}
}

// Sense implements physic.SenseEnv. Pressure is always 0.
func (d *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0
	m, err := d.Read()
	if err != nil {
		return err
	}
	*e = m.Env()
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval. Failed readings are dropped; the
// next tick tries again. Call Halt() to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < MinInterval {
		return nil, fmt.Errorf("dht11: invalid interval %s, minimum %s", interval, MinInterval)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("dht11: sense continuous already running")
	}

	sensing := make(chan physic.Env)
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(sensing)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				var e physic.Env
				if err := d.Sense(&e); err != nil {
					continue
				}
				select {
				case sensing <- e:
				case <-stop:
					return
				}
			}
		}
	}(d.stop)
	return sensing, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Kelvin
	e.Pressure = 0
	e.Humidity = physic.PercentRH
}

// Halt stops a running SenseContinuous(). A Read in progress cannot be
// interrupted and completes first.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop == nil {
		return nil
	}
	close(stop)
	d.wg.Wait()
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("dht11{%v}", d.line)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}

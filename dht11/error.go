// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrDriverFault matches every DriverFaultError.
	ErrDriverFault = errors.New("dht11: line driver fault")
	// ErrTimeout matches every TimeoutError.
	ErrTimeout = errors.New("dht11: timeout waiting for the sensor")
	// ErrChecksum matches every ChecksumError.
	ErrChecksum = errors.New("dht11: checksum mismatch")
)

// DriverFaultError is returned when the underlying line operation failed. The
// read is aborted at the failing step.
type DriverFaultError struct {
	// Op is the line operation that failed: "out low", "out high", "in" or
	// "read".
	Op  string
	Err error
}

func (e *DriverFaultError) Error() string {
	return fmt.Sprintf("dht11: line %s failed: %v", e.Op, e.Err)
}

func (e *DriverFaultError) Unwrap() error {
	return e.Err
}

func (e *DriverFaultError) Is(target error) bool {
	return target == ErrDriverFault
}

// TimeoutError is returned when the line stayed at Level for longer than
// Opts.WaitTimeout. The sensor is absent, disconnected or out of sync.
type TimeoutError struct {
	Level   gpio.Level
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("dht11: line stuck %s for %s", e.Level, e.Elapsed)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ChecksumError is returned when all 40 bits were received but the checksum
// byte does not match the data bytes.
type ChecksumError struct {
	Frame Frame
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("dht11: checksum mismatch in %s: want %#02x", e.Frame, e.Frame.Checksum())
}

func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksum
}

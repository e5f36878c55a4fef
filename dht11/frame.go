// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dht11

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Frame is the raw payload of one reading, in transmission order.
type Frame [5]byte

const (
	humidityInt = iota
	humidityFrac
	temperatureInt
	temperatureFrac
	checksum
)

// Checksum returns the checksum expected for the four data bytes. The
// fraction bytes are always zero on a DHT11 but still take part in the sum.
func (f Frame) Checksum() byte {
	return f[humidityInt] + f[humidityFrac] + f[temperatureInt] + f[temperatureFrac]
}

// Valid reports whether the checksum byte matches the data bytes.
func (f Frame) Valid() bool {
	return f[checksum] == f.Checksum()
}

// Measurement returns the values carried by the frame, or a ChecksumError.
func (f Frame) Measurement() (Measurement, error) {
	if !f.Valid() {
		return Measurement{}, &ChecksumError{Frame: f}
	}
	return Measurement{Humidity: f[humidityInt], Temperature: f[temperatureInt]}, nil
}

func (f Frame) String() string {
	return fmt.Sprintf("[%#02x %#02x %#02x %#02x %#02x]", f[0], f[1], f[2], f[3], f[4])
}

// Measurement is one successful reading. The DHT11 only reports whole
// percents of relative humidity and whole degrees Celsius.
type Measurement struct {
	Humidity    uint8
	Temperature uint8
}

// Env returns the measurement in periph units. Pressure is not measured.
func (m Measurement) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(m.Temperature)*physic.Celsius,
		Humidity:    physic.RelativeHumidity(m.Humidity) * physic.PercentRH,
	}
}

func (m Measurement) String() string {
	return fmt.Sprintf("%d°C %d%%rH", m.Temperature, m.Humidity)
}

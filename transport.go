// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package icm20948

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// DebugF the debug function type.
type DebugF func(string, ...interface{})

// Chip select timing. The select line must be stable before the first
// clock edge and held past the last one.
const (
	csSetup = 200 * time.Nanosecond
	csHold  = 200 * time.Nanosecond
)

// sleep is a seam so playback tests do not wait out real delays.
var sleep = time.Sleep

// transport frames single register accesses as chip-select bracketed
// duplex SPI exchanges. Every higher-level operation of the driver is
// serialized through it.
type transport struct {
	conn  spi.Conn
	cs    gpio.PinOut
	debug DebugF
}

// exchange runs one duplex transfer with the select line asserted. A
// transfer failure is returned unchanged after the line is released; no
// retry happens at this level.
func (t *transport) exchange(tx, rx []byte) error {
	if err := t.cs.Out(gpio.Low); err != nil {
		return err
	}
	sleep(csSetup)
	if err := t.conn.Tx(tx, rx); err != nil {
		_ = t.cs.Out(gpio.High)
		return err
	}
	sleep(csHold)
	return t.cs.Out(gpio.High)
}

func (t *transport) readReg(reg byte) (byte, error) {
	t.debug("read register %#02x", reg)
	var (
		tx = [...]byte{reg | readMarker, 0}
		rx [2]byte
	)
	if err := t.exchange(tx[:], rx[:]); err != nil {
		return 0, err
	}
	t.debug("register content %#02x", rx[1])
	return rx[1], nil
}

func (t *transport) writeReg(reg, value byte) error {
	t.debug("write register %#02x value %#02x", reg, value)
	var (
		tx = [...]byte{reg &^ readMarker, value}
		rx [2]byte
	)
	return t.exchange(tx[:], rx[:])
}

// readRegs reads len(buf) consecutive registers starting at reg in a
// single exchange. The whole frame must fit the device's 8 byte limit.
func (t *transport) readRegs(reg byte, buf []byte) error {
	if len(buf) > maxFrame-1 {
		return fmt.Errorf("icm20948: burst of %d bytes exceeds one frame", len(buf))
	}
	t.debug("read %d registers from %#02x", len(buf), reg)
	var tx, rx [maxFrame]byte
	tx[0] = reg | readMarker
	n := len(buf) + 1
	if err := t.exchange(tx[:n], rx[:n]); err != nil {
		return err
	}
	copy(buf, rx[1:n])
	return nil
}

func noop(string, ...interface{}) {}

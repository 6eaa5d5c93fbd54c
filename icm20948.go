// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package icm20948

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPI parameters used to connect to the device.
var (
	SpiFrequency = 1 * physic.MegaHertz
	SpiMode      = spi.Mode3 // the device supports modes 0 and 3
	SpiBits      = 8
)

// Settle delays mandated after the corresponding PWR_MGMT_1 writes.
const (
	resetSettle = 100 * time.Millisecond
	wakeSettle  = 80 * time.Millisecond
)

// ErrWrongDevice is returned when the identification register does not
// answer with the ICM-20948 device ID, typically because another chip
// sits on the select line or the device is not powered.
var ErrWrongDevice = errors.New("icm20948: unexpected device identification")

// Filter configures one channel's digital low-pass filter. Cutoff is
// mapped to the nearest supported bandwidth at or above it; when no
// supported bandwidth is high enough the filter is left wide open.
type Filter struct {
	Enabled bool
	Cutoff  physic.Frequency
}

// Opts holds the configuration consumed by New.
type Opts struct {
	Accel       bool // power the accelerometer axes
	Gyro        bool // power the gyroscope axes
	AccelRange  AccelRange
	GyroRange   GyroRange
	Clock       ClockSource
	AccelFilter Filter
	GyroFilter  Filter
}

// DefaultOpts enables both channels at conservative ranges with the
// low-pass filters at roughly half the default output rate.
var DefaultOpts = Opts{
	Accel:       true,
	Gyro:        true,
	AccelRange:  AccelRange4G,
	GyroRange:   GyroRange250DPS,
	Clock:       ClockAuto,
	AccelFilter: Filter{Enabled: true, Cutoff: 50 * physic.Hertz},
	GyroFilter:  Filter{Enabled: true, Cutoff: 51 * physic.Hertz},
}

// Motion is a 3-axis sample converted to physical units: g for the
// accelerometer, °/s for the gyroscope.
type Motion struct {
	X, Y, Z float64
}

func (m Motion) String() string {
	return fmt.Sprintf("X:%.4f Y:%.4f Z:%.4f", m.X, m.Y, m.Z)
}

// RawMotion is a 3-axis sample as read from the device, in LSB.
type RawMotion struct {
	X, Y, Z int16
}

// Dev is a driver for the ICM-20948 accelerometer/gyroscope over SPI.
//
// A Dev must be driven by a single goroutine at a time; its bank mirror
// and cached samples are unsynchronized. Several Devs may share one SPI
// bus on distinct chip select pins as long as their calls do not
// interleave.
type Dev struct {
	t    *transport
	opts Opts

	// bank mirrors the device's active register bank, bankUnknown when
	// the hardware state cannot be trusted.
	bank byte

	scaleAccel float64 // LSB per g
	scaleGyro  float64 // LSB per °/s

	rawAccel RawMotion
	rawGyro  RawMotion
	accel    Motion
	gyro     Motion
}

// New connects to an ICM-20948 on the given port, driving cs as its
// chip select line, and runs the full initialization sequence: reset,
// wake, identity check, SPI-only interface selection, channel power-up
// and per-channel range/filter configuration.
//
// The caller keeps ownership of the port and the pin; both must outlive
// the returned Dev.
func New(p spi.Port, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	c, err := p.Connect(SpiFrequency, SpiMode, SpiBits)
	if err != nil {
		return nil, err
	}
	d := &Dev{
		t:    &transport{conn: c, cs: cs, debug: noop},
		opts: *opts,
		bank: bankUnknown,
	}
	if err := d.init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ICM20948{%s, %s}", d.opts.AccelRange, d.opts.GyroRange)
}

// EnableDebug sets the debugging output using the local print function.
func (d *Dev) EnableDebug(f DebugF) {
	d.t.debug = f
}

// init is strictly ordered; the first failing step aborts and its error
// is returned untouched, leaving the handle only as configured as the
// steps that completed.
func (d *Dev) init(opts *Opts) error {
	if err := d.setBank(0); err != nil {
		return err
	}
	if err := d.t.writeReg(regPwrMgmt1, bitReset); err != nil {
		return err
	}
	sleep(resetSettle)
	if err := d.t.writeReg(regPwrMgmt1, byte(opts.Clock)); err != nil {
		return err
	}
	sleep(wakeSettle)
	id, err := d.t.readReg(regWhoAmI)
	if err != nil {
		return err
	}
	if id != deviceID {
		return fmt.Errorf("%w: got %#02x, want %#02x", ErrWrongDevice, id, deviceID)
	}
	if err := d.t.writeReg(regUserCtrl, bitI2CIfDis); err != nil {
		return err
	}
	var off byte
	if !opts.Accel {
		off |= bitsAccelOff
	}
	if !opts.Gyro {
		off |= bitsGyroOff
	}
	if err := d.t.writeReg(regPwrMgmt2, off); err != nil {
		return err
	}
	if err := d.setBank(2); err != nil {
		return err
	}
	if err := d.t.writeReg(regOdrAlignEn, 0x01); err != nil {
		return err
	}
	if err := d.configureAccel(opts.AccelRange, opts.AccelFilter); err != nil {
		return err
	}
	if err := d.configureGyro(opts.GyroRange, opts.GyroFilter); err != nil {
		return err
	}
	return d.setBank(0)
}

// setBank switches the device's active register bank. It is a no-op
// when the handle already mirrors the wanted bank. On a failed switch
// the mirror is marked stale so the next access retries the write.
func (d *Dev) setBank(bank byte) error {
	if d.bank == bank {
		return nil
	}
	if err := d.t.writeReg(regBankSel, bank<<bankShift); err != nil {
		d.bank = bankUnknown
		return err
	}
	d.bank = bank
	return nil
}

// configureAccel writes the bank 2 accelerometer configuration and, on
// success, fixes the handle's accelerometer scale factor.
func (d *Dev) configureAccel(r AccelRange, f Filter) error {
	scale, err := accelScale(r)
	if err != nil {
		return err
	}
	if err := d.setBank(2); err != nil {
		return err
	}
	if err := d.t.writeReg(regAccelConfig, configByte(byte(r), f, accelFilterTable)); err != nil {
		return err
	}
	d.scaleAccel = scale
	return nil
}

// configureGyro is the gyroscope counterpart of configureAccel, driven
// entirely by the gyroscope's own range and filter inputs.
func (d *Dev) configureGyro(r GyroRange, f Filter) error {
	scale, err := gyroScale(r)
	if err != nil {
		return err
	}
	if err := d.setBank(2); err != nil {
		return err
	}
	if err := d.t.writeReg(regGyroConfig1, configByte(byte(r), f, gyroFilterTable)); err != nil {
		return err
	}
	d.scaleGyro = scale
	return nil
}

// ReadAccel burst-reads the accelerometer, refreshes the cached raw and
// converted samples and returns the converted one, in g.
func (d *Dev) ReadAccel() (Motion, error) {
	if err := d.readMotion(regAccelXOutH, &d.rawAccel, &d.accel, d.scaleAccel); err != nil {
		return Motion{}, err
	}
	return d.accel, nil
}

// ReadGyro burst-reads the gyroscope, refreshes the cached raw and
// converted samples and returns the converted one, in °/s.
func (d *Dev) ReadGyro() (Motion, error) {
	if err := d.readMotion(regGyroXOutH, &d.rawGyro, &d.gyro, d.scaleGyro); err != nil {
		return Motion{}, err
	}
	return d.gyro, nil
}

func (d *Dev) readMotion(reg byte, raw *RawMotion, m *Motion, scale float64) error {
	if err := d.setBank(0); err != nil {
		return err
	}
	var buf [6]byte
	if err := d.t.readRegs(reg, buf[:]); err != nil {
		return err
	}
	raw.X = int16(binary.BigEndian.Uint16(buf[0:2]))
	raw.Y = int16(binary.BigEndian.Uint16(buf[2:4]))
	raw.Z = int16(binary.BigEndian.Uint16(buf[4:6]))
	m.X = float64(raw.X) / scale
	m.Y = float64(raw.Y) / scale
	m.Z = float64(raw.Z) / scale
	return nil
}

// Poll reads the data-ready status register and burst-reads only the
// channels that report a fresh sample. A channel whose ready bit is
// clear is skipped silently; that is normal flow, not an error. When
// the status register itself cannot be read, no data read is attempted.
func (d *Dev) Poll() (accelFresh, gyroFresh bool, err error) {
	if err = d.setBank(0); err != nil {
		return
	}
	var status byte
	status, err = d.t.readReg(regDataRdyStatus)
	if err != nil {
		return
	}
	if status&bitAccelRdy != 0 {
		accelFresh = true
		if _, err = d.ReadAccel(); err != nil {
			return
		}
	}
	if status&bitGyroRdy != 0 {
		gyroFresh = true
		if _, err = d.ReadGyro(); err != nil {
			return
		}
	}
	return
}

// Accel returns the last converted accelerometer sample, in g.
func (d *Dev) Accel() Motion { return d.accel }

// Gyro returns the last converted gyroscope sample, in °/s.
func (d *Dev) Gyro() Motion { return d.gyro }

// RawAccel returns the last raw accelerometer sample, in LSB.
func (d *Dev) RawAccel() RawMotion { return d.rawAccel }

// RawGyro returns the last raw gyroscope sample, in LSB.
func (d *Dev) RawGyro() RawMotion { return d.rawGyro }

// Halt implements conn.Resource; it puts the device to sleep.
func (d *Dev) Halt() error {
	if err := d.setBank(0); err != nil {
		return err
	}
	return d.t.writeReg(regPwrMgmt1, bitSleep)
}

var _ conn.Resource = &Dev{}

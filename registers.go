// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package icm20948

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

const (
	// deviceID is the value the WHO_AM_I register must return.
	deviceID = 0xEA

	// readMarker set on the address byte selects a read; a write has it
	// cleared. The register address itself is 7 bit.
	readMarker = 0x80

	// regBankSel is decoded in every bank. The bank index sits in the
	// high nibble of the written value.
	regBankSel = 0x7F
	bankShift  = 4

	// bankUnknown marks the handle's bank mirror as stale, forcing the
	// next bank-sensitive access to issue a real switch.
	bankUnknown = 0xFF

	// Bank 0.
	regWhoAmI        = 0x00
	regUserCtrl      = 0x03
	regPwrMgmt1      = 0x06
	regPwrMgmt2      = 0x07
	regAccelXOutH    = 0x2D // X/Y/Z, high byte first, 6 contiguous bytes
	regGyroXOutH     = 0x33
	regDataRdyStatus = 0x74

	// Bank 1. Factory accelerometer trim, high/low pairs per axis.
	regXAOffsH = 0x14
	regYAOffsH = 0x17
	regZAOffsH = 0x1A

	// Bank 2.
	regGyroConfig1 = 0x01
	regOdrAlignEn  = 0x09
	regAccelConfig = 0x14

	bitReset    = 0x80 // PWR_MGMT_1: DEVICE_RESET
	bitSleep    = 0x40 // PWR_MGMT_1: SLEEP
	bitI2CIfDis = 0x10 // USER_CTRL: kill the I2C slave interface, SPI only

	bitsAccelOff = 0x38 // PWR_MGMT_2: all accelerometer axes off
	bitsGyroOff  = 0x07 // PWR_MGMT_2: all gyroscope axes off

	bitAccelRdy = 0x01 // DATA_RDY_STATUS: fresh accelerometer sample
	bitGyroRdy  = 0x02 // DATA_RDY_STATUS: fresh gyroscope sample

	// filterCodeWideOpen is the DLPF code with the widest bandwidth,
	// used when the requested cutoff exceeds every breakpoint.
	filterCodeWideOpen = 7

	// maxFrame is the longest SPI exchange the device understands: the
	// address byte plus up to 7 data bytes.
	maxFrame = 8
)

// AccelRange selects the accelerometer full-scale range. The values are
// the ACCEL_FS_SEL codes of ACCEL_CONFIG.
type AccelRange byte

const (
	AccelRange2G AccelRange = iota
	AccelRange4G
	AccelRange8G
	AccelRange16G
)

func (r AccelRange) String() string {
	switch r {
	case AccelRange2G:
		return "±2g"
	case AccelRange4G:
		return "±4g"
	case AccelRange8G:
		return "±8g"
	case AccelRange16G:
		return "±16g"
	}
	return fmt.Sprintf("AccelRange(%d)", byte(r))
}

// GyroRange selects the gyroscope full-scale range. The values are the
// GYRO_FS_SEL codes of GYRO_CONFIG_1.
type GyroRange byte

const (
	GyroRange250DPS GyroRange = iota
	GyroRange500DPS
	GyroRange1000DPS
	GyroRange2000DPS
)

func (r GyroRange) String() string {
	switch r {
	case GyroRange250DPS:
		return "±250°/s"
	case GyroRange500DPS:
		return "±500°/s"
	case GyroRange1000DPS:
		return "±1000°/s"
	case GyroRange2000DPS:
		return "±2000°/s"
	}
	return fmt.Sprintf("GyroRange(%d)", byte(r))
}

// ClockSource selects the CLKSEL field written to PWR_MGMT_1 when the
// device is woken up.
type ClockSource byte

const (
	// ClockInternal is the 20MHz internal oscillator.
	ClockInternal ClockSource = 0x00
	// ClockAuto picks the best available source, the PLL when ready.
	// Required for full gyroscope performance.
	ClockAuto ClockSource = 0x01
)

// accelScale returns the accelerometer sensitivity in LSB per g for a
// full-scale range code.
func accelScale(r AccelRange) (float64, error) {
	switch r {
	case AccelRange2G:
		return 16384, nil
	case AccelRange4G:
		return 8192, nil
	case AccelRange8G:
		return 4096, nil
	case AccelRange16G:
		return 2048, nil
	}
	return 0, fmt.Errorf("icm20948: invalid accelerometer range %d", byte(r))
}

// gyroScale returns the gyroscope sensitivity in LSB per °/s for a
// full-scale range code.
func gyroScale(r GyroRange) (float64, error) {
	switch r {
	case GyroRange250DPS:
		return 131, nil
	case GyroRange500DPS:
		return 65.5, nil
	case GyroRange1000DPS:
		return 32.8, nil
	case GyroRange2000DPS:
		return 16.4, nil
	}
	return 0, fmt.Errorf("icm20948: invalid gyroscope range %d", byte(r))
}

type filterBreakpoint struct {
	cutoff physic.Frequency // 3dB bandwidth of the code
	code   byte
}

// The DLPF tables are ordered by ascending bandwidth; the first
// breakpoint at or above the requested cutoff wins. Anything beyond the
// last breakpoint falls through to filterCodeWideOpen.
var (
	accelFilterTable = []filterBreakpoint{
		{5700 * physic.MilliHertz, 6},
		{11500 * physic.MilliHertz, 5},
		{23900 * physic.MilliHertz, 4},
		{50400 * physic.MilliHertz, 3},
		{111400 * physic.MilliHertz, 2},
		{246 * physic.Hertz, 1},
		{473 * physic.Hertz, 7},
	}
	gyroFilterTable = []filterBreakpoint{
		{5700 * physic.MilliHertz, 6},
		{11600 * physic.MilliHertz, 5},
		{23900 * physic.MilliHertz, 4},
		{51200 * physic.MilliHertz, 3},
		{119500 * physic.MilliHertz, 2},
		{151800 * physic.MilliHertz, 1},
		{196600 * physic.MilliHertz, 0},
	}
)

func filterCode(cutoff physic.Frequency, table []filterBreakpoint) byte {
	for _, bp := range table {
		if bp.cutoff >= cutoff {
			return bp.code
		}
	}
	return filterCodeWideOpen
}

// configByte composes an ACCEL_CONFIG/GYRO_CONFIG_1 value: DLPF code in
// bits 5:3, full-scale range in bits 2:1, filter enable in bit 0. A
// disabled filter forces the code to zero.
func configByte(rangeCode byte, f Filter, table []filterBreakpoint) byte {
	if !f.Enabled {
		return rangeCode << 1
	}
	return filterCode(f.Cutoff, table)<<3 | rangeCode<<1 | 0x01
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package icm20948

// AccelOffsets reads the factory accelerometer trim from bank 1. Each
// axis is a 15 bit value; bit 0 of the low byte is reserved. The driver
// does not apply these offsets to its conversions.
//
// TODO: add the matching offset write once it has been verified on
// hardware.
func (d *Dev) AccelOffsets() (RawMotion, error) {
	if err := d.setBank(1); err != nil {
		return RawMotion{}, err
	}
	var o RawMotion
	for _, axis := range []struct {
		reg byte
		v   *int16
	}{
		{regXAOffsH, &o.X},
		{regYAOffsH, &o.Y},
		{regZAOffsH, &o.Z},
	} {
		h, err := d.t.readReg(axis.reg)
		if err != nil {
			return RawMotion{}, err
		}
		l, err := d.t.readReg(axis.reg + 1)
		if err != nil {
			return RawMotion{}, err
		}
		*axis.v = int16(uint16(h)<<8|uint16(l)) >> 1
	}
	return o, d.setBank(0)
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package icm20948

import (
	"testing"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func testTransport(t *testing.T, ops []conntest.IO) (*transport, *spitest.Playback, *gpiotest.Pin) {
	t.Helper()
	pb := playback(ops)
	c, err := pb.Connect(SpiFrequency, SpiMode, SpiBits)
	if err != nil {
		t.Fatal(err)
	}
	pin := &gpiotest.Pin{N: "CS"}
	return &transport{conn: c, cs: pin, debug: noop}, pb, pin
}

func TestReadFraming(t *testing.T) {
	// Bit 7 of the emitted address byte is set on reads no matter what
	// the input address carries in bit 7.
	for _, reg := range []byte{0x00, 0x74, 0xF4} {
		tr, pb, pin := testTransport(t, []conntest.IO{
			{W: []byte{reg | 0x80, 0}, R: []byte{0, 0x5A}},
		})
		got, err := tr.readReg(reg)
		if err != nil {
			t.Fatal(err)
		}
		if got != 0x5A {
			t.Errorf("readReg(%#02x) = %#02x, want 0x5a", reg, got)
		}
		if pin.L != gpio.High {
			t.Errorf("readReg(%#02x): chip select left asserted", reg)
		}
		if err := pb.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWriteFraming(t *testing.T) {
	// Bit 7 of the emitted address byte is cleared on writes.
	for _, reg := range []byte{0x06, 0x7F, 0xF4} {
		tr, pb, pin := testTransport(t, []conntest.IO{
			{W: []byte{reg &^ 0x80, 0xA5}, R: []byte{0, 0}},
		})
		if err := tr.writeReg(reg, 0xA5); err != nil {
			t.Fatal(err)
		}
		if pin.L != gpio.High {
			t.Errorf("writeReg(%#02x): chip select left asserted", reg)
		}
		if err := pb.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBurstFraming(t *testing.T) {
	tr, pb, _ := testTransport(t, []conntest.IO{
		{W: []byte{0xAD, 0, 0, 0, 0, 0, 0}, R: []byte{0, 1, 2, 3, 4, 5, 6}},
	})
	var buf [6]byte
	if err := tr.readRegs(regAccelXOutH, buf[:]); err != nil {
		t.Fatal(err)
	}
	for i, b := range buf {
		if b != byte(i+1) {
			t.Errorf("buf[%d] = %d, want %d", i, b, i+1)
		}
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestBurstTooLong(t *testing.T) {
	tr, pb, _ := testTransport(t, nil)
	if err := tr.readRegs(regAccelXOutH, make([]byte, maxFrame)); err == nil {
		t.Fatal("expected an error for a burst exceeding one frame")
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestTxErrorReleasesChipSelect(t *testing.T) {
	// A failed transfer surfaces verbatim but the select line is not
	// left asserted.
	tr, _, pin := testTransport(t, nil)
	if err := tr.writeReg(regPwrMgmt1, 0x01); err == nil {
		t.Fatal("expected the playback exhaustion error")
	}
	if pin.L != gpio.High {
		t.Error("chip select left asserted after a failed transfer")
	}
}

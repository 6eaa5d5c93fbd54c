// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package example

import (
	"image/color"
	"log"
	"os"
	"time"

	"github.com/GermanBionicSystems/icm20948"
	"github.com/GermanBionicSystems/icm20948/tiltbar"
	"github.com/GermanBionicSystems/icm20948/trace"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Example polls the IMU at 50Hz for ten seconds, showing the live
// deflections in the terminal and writing a PNG of the gyroscope trace
// at the end.
func Example() {

	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	cs := gpioreg.ByName("GPIO25")
	if cs == nil {
		log.Fatal("chip select pin not found")
	}

	d, err := icm20948.New(p, cs, &icm20948.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer d.Halt()

	bar := tiltbar.New(&tiltbar.Opts{Max: 2})
	defer bar.Halt()

	var gx, gy, gz []float64

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	stop := time.After(10 * time.Second)

	for {
		select {
		case <-stop:
			f, err := os.Create("gyro.png")
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			err = trace.Render(f, 800, 240, []trace.Series{
				{Name: "gx", Color: color.NRGBA{R: 255, G: 64, B: 64, A: 255}, Values: gx},
				{Name: "gy", Color: color.NRGBA{R: 64, G: 255, B: 64, A: 255}, Values: gy},
				{Name: "gz", Color: color.NRGBA{R: 64, G: 128, B: 255, A: 255}, Values: gz},
			})
			if err != nil {
				log.Fatal(err)
			}
			return
		case <-ticker.C:
			if _, fresh, err := d.Poll(); err != nil {
				log.Fatal(err)
			} else if fresh {
				g := d.Gyro()
				gx = append(gx, g.X)
				gy = append(gy, g.Y)
				gz = append(gz, g.Z)
				_ = bar.Update(g.X, g.Y, g.Z)
			}
		}
	}
}

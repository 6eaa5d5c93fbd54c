// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tiltbar renders a 3-axis sample as centered deflection bars
// on the terminal (stdout) using ANSI color codes.
//
// Useful to eyeball IMU output without attaching a display.
package tiltbar

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for the bar display.
type Opts struct {
	// Width is the number of cells on each side of a bar's center.
	Width int
	// Max is the value at which a bar is fully deflected.
	Max float64
	// Palette maps cell colors to terminal codes.
	Palette *ansi256.Palette
	// Writer overrides the output, mainly for tests.
	Writer io.Writer

	_ struct{}
}

// Bar displays one line of X/Y/Z deflection bars, redrawn in place.
type Bar struct {
	w       io.Writer
	width   int
	max     float64
	palette ansi256.Palette

	buf bytes.Buffer
}

var axisColors = [3]color.NRGBA{
	{R: 255, G: 64, B: 64, A: 255},
	{R: 64, G: 255, B: 64, A: 255},
	{R: 64, G: 128, B: 255, A: 255},
}

var dim = color.NRGBA{R: 24, G: 24, B: 24, A: 255}

// New returns a Bar that displays at the console.
func New(opts *Opts) *Bar {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	width := opts.Width
	if width <= 0 {
		width = 16
	}
	max := opts.Max
	if max <= 0 {
		max = 1
	}
	return &Bar{w: w, width: width, max: max, palette: *p}
}

func (b *Bar) String() string {
	return "TiltBar"
}

// Halt moves off the bar line and resets the terminal colors.
func (b *Bar) Halt() error {
	_, err := b.w.Write([]byte("\n\033[0m"))
	return err
}

// Update redraws the three bars in place.
func (b *Bar) Update(x, y, z float64) error {
	// This code is designed to minimize the amount of memory allocated
	// per call.
	b.buf.Reset()
	_, _ = b.buf.WriteString("\r\033[0m")
	for i, v := range [3]float64{x, y, z} {
		b.channel(i, v)
	}
	_, _ = b.buf.WriteString("\033[0m ")
	_, err := b.buf.WriteTo(b.w)
	return err
}

// channel renders one centered bar: cells left of center light up for
// negative deflection, cells right of center for positive.
func (b *Bar) channel(i int, v float64) {
	fmt.Fprintf(&b.buf, " %c ", 'X'+i)
	if v > b.max {
		v = b.max
	}
	if v < -b.max {
		v = -b.max
	}
	n := int(v / b.max * float64(b.width))
	for cell := -b.width; cell < b.width; cell++ {
		lit := (cell < 0 && n <= cell) || (cell >= 0 && n > cell)
		c := dim
		if lit {
			c = axisColors[i]
		}
		_, _ = io.WriteString(&b.buf, b.palette.Block(c))
	}
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package trace renders captured sensor sample series as a PNG chart.
package trace

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Series is one named channel of samples, drawn as a polyline.
type Series struct {
	Name   string
	Color  color.Color
	Values []float64
}

const margin = 8

// Render draws the series onto a white canvas with a shared vertical
// scale and writes the result as PNG. Series with fewer than two
// samples are skipped.
func Render(w io.Writer, width, height int, series []Series) error {
	if width <= 4*margin || height <= 4*margin {
		return fmt.Errorf("trace: canvas %dx%d is too small", width, height)
	}
	min, max := bounds(series)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: 11}))

	plotW := float64(width - 2*margin)
	plotH := float64(height - 2*margin)
	yFor := func(v float64) float64 {
		return margin + (max-v)/(max-min)*plotH
	}

	if min < 0 && max > 0 {
		dc.SetRGBA(0, 0, 0, 0.3)
		dc.SetLineWidth(1)
		dc.DrawLine(margin, yFor(0), float64(width-margin), yFor(0))
		dc.Stroke()
	}

	for si, s := range series {
		if len(s.Values) < 2 {
			continue
		}
		dc.SetColor(s.Color)
		dc.SetLineWidth(1.5)
		step := plotW / float64(len(s.Values)-1)
		for i, v := range s.Values {
			x := float64(margin) + step*float64(i)
			if i == 0 {
				dc.MoveTo(x, yFor(v))
			} else {
				dc.LineTo(x, yFor(v))
			}
		}
		dc.Stroke()
		dc.DrawString(s.Name, float64(margin)+float64(si)*48, float64(margin)+11)
	}
	return dc.EncodePNG(w)
}

// bounds returns the shared vertical range, padded when degenerate so
// the projection never divides by zero.
func bounds(series []Series) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if min > max {
		return -1, 1
	}
	if min == max {
		return min - 1, max + 1
	}
	return min, max
}

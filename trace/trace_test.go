// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package trace

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{
		{Name: "gx", Color: color.NRGBA{R: 255, A: 255}, Values: []float64{0, 1, 0.5, -1, 0}},
		{Name: "gy", Color: color.NRGBA{G: 255, A: 255}, Values: []float64{-0.5, 0.25, 0.75}},
		{Name: "flat", Color: color.NRGBA{B: 255, A: 255}, Values: []float64{0.1}},
	}
	if err := Render(&buf, 320, 120, series); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 120 {
		t.Errorf("bounds = %v, want 320x120", b)
	}
}

func TestRenderFlatSeries(t *testing.T) {
	// A constant series must not collapse the vertical scale.
	var buf bytes.Buffer
	series := []Series{
		{Name: "z", Color: color.NRGBA{B: 255, A: 255}, Values: []float64{1, 1, 1, 1}},
	}
	if err := Render(&buf, 160, 80, series); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatal(err)
	}
}

func TestRenderTooSmall(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, 16, 16, nil); err == nil {
		t.Fatal("expected an error for a tiny canvas")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}

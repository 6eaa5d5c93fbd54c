// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tiltbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestUpdate(t *testing.T) {
	var buf bytes.Buffer
	b := New(&Opts{Width: 4, Max: 2, Writer: &buf})
	if err := b.Update(2, 0, -2); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\r") {
		t.Error("update must redraw in place")
	}
	for _, label := range []string{" X ", " Y ", " Z "} {
		if !strings.Contains(out, label) {
			t.Errorf("missing %q in output", label)
		}
	}
}

func TestUpdateClamps(t *testing.T) {
	// Out of range deflections render like full deflection.
	var full, over bytes.Buffer
	if err := New(&Opts{Width: 4, Max: 1, Writer: &full}).Update(1, -1, 0); err != nil {
		t.Fatal(err)
	}
	if err := New(&Opts{Width: 4, Max: 1, Writer: &over}).Update(5, -5, 0); err != nil {
		t.Fatal(err)
	}
	if full.String() != over.String() {
		t.Error("clamped output differs from full deflection")
	}
}

func TestHalt(t *testing.T) {
	var buf bytes.Buffer
	b := New(&Opts{Writer: &buf})
	if err := b.Halt(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", got)
	}
}

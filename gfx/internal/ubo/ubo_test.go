// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ubo

import (
	"bytes"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"float", Float(1), []byte{0x00, 0x00, 0x80, 0x3f}},
		{"vec2", Vec2([2]float32{1, -2}), []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0}},
		{"int", Int(-1), []byte{0xff, 0xff, 0xff, 0xff}},
		{"int positive", Int(7), []byte{0x07, 0x00, 0x00, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.Equal(tt.got, tt.want) {
				t.Errorf("got % x, want % x", tt.got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	tests := []struct{ in, want uint32 }{
		{0, 16},
		{4, 16},
		{16, 16},
		{17, 32},
		{24, 32},
	}
	for _, tt := range tests {
		if got := Size(tt.in); got != tt.want {
			t.Errorf("Size(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ubo encodes uniform values for uniform buffers.
//
// WGSL uniform address space and GLSL std140 blocks agree on the layout
// of the scalar and vec2 members written through gfx.Context: values are
// little-endian and placed at the reflected member offset.
package ubo

import (
	"encoding/binary"
	"math"
)

// Float encodes an f32.
func Float(x float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(x))
	return b
}

// Vec2 encodes a vec2<f32>.
func Vec2(v [2]float32) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v[1]))
	return b
}

// Int encodes an i32.
func Int(x int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(x))
	return b
}

// Size rounds a uniform buffer size up to 16 bytes. Zero yields 16.
func Size(size uint32) uint32 {
	if size == 0 {
		size = 16
	}
	return (size + 15) &^ 15
}

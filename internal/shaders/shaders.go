// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shaders holds the built-in programs used by the commands when no
// shader files are configured.
package shaders

import (
	_ "embed"
)

// Built-in shader sources, embedded at build time.

// QuadVertex draws a full-screen triangle and passes UV coordinates at
// location 0.
//
//go:embed quad.wgsl
var QuadVertex string

// PlasmaFragment shades the quad from u_time, u_resolution and u_frame.
//
//go:embed plasma.wgsl
var PlasmaFragment string

// ParamsFragment reads its inputs from a uniform structure.
//
//go:embed params.wgsl
var ParamsFragment string

// PlasmaKage is PlasmaFragment written in Kage for ebiten hosts. Kage has a
// built-in vertex stage, so there is no vertex counterpart.
//
//go:embed plasma.kage
var PlasmaKage string

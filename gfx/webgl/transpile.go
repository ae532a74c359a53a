// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package webgl implements gfx.Context on top of a browser WebGL2
// rendering context.
//
// Programs are written in WGSL, like every other backend. Each stage is
// transpiled to GLSL ES 3.00 with gogpu/naga before it is handed to the
// driver, so the shader sources of an application do not depend on the
// host it runs in. naga turns every WGSL uniform binding into a std140
// uniform block; the context backs each block with a uniform buffer and
// writes uniform values at the offsets reflected from the WGSL source.
//
// The transpiler and the buffer layout are pure Go and available on every
// platform; the context itself is only built for js/wasm.
package webgl

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/gfx/wgslinfo"
)

// ErrNoEntryPoint is returned when the source has no entry point for the
// requested stage.
var ErrNoEntryPoint = errors.New("webgl: no entry point for stage")

// uniformBlock matches the std140 block naga emits for a uniform binding:
// "uniform <Block> { <type> _group_<G>_binding_<B>_<stage>; };".
var uniformBlock = regexp.MustCompile(`uniform (\w+) \{[^{};]*\b_group_(\d+)_binding_(\d+)_`)

// Block is a GLSL uniform block standing for a WGSL uniform binding.
type Block struct {
	Name    string
	Group   uint32
	Binding uint32
}

// Transpiled is a single shader stage translated to GLSL ES 3.00.
type Transpiled struct {
	Source     string
	EntryPoint string
	Module     *wgslinfo.Module
	Blocks     []Block
}

// Transpile translates the entry point of the given stage in a WGSL
// module to GLSL ES 3.00 (WebGL2).
func Transpile(source string, stage gfx.Stage) (*Transpiled, error) {
	module, err := wgslinfo.Parse(source)
	if err != nil {
		return nil, err
	}

	irStage := ir.StageVertex
	if stage == gfx.StageFragment {
		irStage = ir.StageFragment
	}
	ep, ok := module.EntryPoint(irStage)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrNoEntryPoint, stage)
	}

	out, _, err := glsl.Compile(module.IR(), glsl.Options{
		LangVersion:        glsl.VersionES300,
		EntryPoint:         ep.Name,
		ForceHighPrecision: true,
	})
	if err != nil {
		return nil, err
	}

	t := &Transpiled{
		Source:     out,
		EntryPoint: ep.Name,
		Module:     module,
	}
	for _, m := range uniformBlock.FindAllStringSubmatch(out, -1) {
		group, _ := strconv.ParseUint(m[2], 10, 32)
		binding, _ := strconv.ParseUint(m[3], 10, 32)
		t.Blocks = append(t.Blocks, Block{Name: m[1], Group: uint32(group), Binding: uint32(binding)})
	}
	return t, nil
}

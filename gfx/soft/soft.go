// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package soft implements gfx.Context without a GPU.
//
// Shader stages are compiled with gogpu/naga (parse, lower, validate) and
// programs are linked by matching the vertex outputs against the fragment
// inputs. Uniform values are stored per program, so the results of uniform
// writes can be inspected. The context behaves like a strict GL driver:
// invalid calls never panic, they raise the error flag reported by Err.
//
// Example:
//
//	ctx := soft.New()
//	p := ctx.CreateProgram()
//	vs := ctx.CreateShader(gfx.StageVertex)
//	ctx.ShaderSource(vs, vertexWGSL)
//	ctx.CompileShader(vs)
//	...
package soft

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga/ir"

	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/gfx/internal/objects"
	"github.com/gogpu/display/gfx/wgslinfo"
)

// Value is the stored value of a uniform.
type Value struct {
	Kind  wgslinfo.Kind
	Float [2]float32
	Int   int32
	// Set reports whether the uniform was ever written.
	Set bool
}

type uniformSlot struct {
	info  wgslinfo.Uniform
	value Value
}

type shaderData struct {
	module *wgslinfo.Module
}

type programData struct {
	uniforms []uniformSlot
}

type table = objects.Table[shaderData, programData]

// Context is a headless graphics context. The zero value is not usable;
// create one with New.
type Context struct {
	*table
}

// New creates an empty context.
func New() *Context {
	return &Context{table: objects.New(objects.Hooks[shaderData, programData]{})}
}

var (
	_ gfx.Context       = (*Context)(nil)
	_ gfx.ErrorReporter = (*Context)(nil)
)

// CompileShader compiles s with naga and checks that the module has an
// entry point for the shader's stage.
func (c *Context) CompileShader(s gfx.Shader) {
	obj, ok := c.table.Shader(s)
	if !ok {
		return
	}

	obj.Compiled = false
	obj.Data.module = nil

	module, err := wgslinfo.Parse(obj.Source)
	if err != nil {
		obj.Log = fmt.Sprintf("ERROR: %s shader: %v", obj.Stage, err)
		return
	}
	if _, ok := module.EntryPoint(irStage(obj.Stage)); !ok {
		obj.Log = fmt.Sprintf("ERROR: %s shader: no @%s entry point", obj.Stage, obj.Stage)
		return
	}

	obj.Compiled = true
	obj.Data.module = module
	obj.Log = strings.Join(module.Warnings, "\n")
}

// LinkProgram links the attached stages of p.
func (c *Context) LinkProgram(p gfx.Program) {
	prog, ok := c.table.Program(p)
	if !ok {
		return
	}

	prog.Linked = false
	prog.Data.uniforms = nil

	if problems := c.CheckStages(prog); len(problems) > 0 {
		prog.Log = strings.Join(problems, "\n")
		return
	}

	vs, fs := prog.Stage(gfx.StageVertex), prog.Stage(gfx.StageFragment)
	reflected, problems := wgslinfo.Link(vs.Data.module, fs.Data.module)
	if len(problems) > 0 {
		prog.Log = strings.Join(problems, "\n")
		return
	}

	prog.Linked = true
	prog.Log = ""
	prog.Data.uniforms = make([]uniformSlot, len(reflected))
	for i, u := range reflected {
		prog.Data.uniforms[i] = uniformSlot{info: u, value: Value{Kind: u.Kind}}
	}
}

// UniformLocation returns the location of name in p.
func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	prog, ok := c.Linked(p)
	if !ok {
		return gfx.NoUniform
	}
	for i, slot := range prog.Data.uniforms {
		if slot.info.Name == name || slot.info.Qualified == name {
			return gfx.Uniform(i)
		}
	}
	return gfx.NoUniform
}

// slot resolves u in the current program. NoUniform yields nil without
// raising an error.
func (c *Context) slot(u gfx.Uniform, kind wgslinfo.Kind) *uniformSlot {
	if u == gfx.NoUniform {
		return nil
	}
	prog, ok := c.CurrentProgram()
	if !ok {
		return nil
	}
	if u < 0 || int(u) >= len(prog.Data.uniforms) {
		c.Raise(gfx.InvalidOperation)
		return nil
	}
	s := &prog.Data.uniforms[u]
	if s.info.Kind != kind {
		c.Raise(gfx.InvalidOperation)
		return nil
	}
	return s
}

// Uniform1f writes a f32 uniform of the current program.
func (c *Context) Uniform1f(u gfx.Uniform, x float32) {
	if s := c.slot(u, wgslinfo.KindFloat); s != nil {
		s.value.Float = [2]float32{x, 0}
		s.value.Set = true
	}
}

// Uniform2f writes a vec2<f32> uniform of the current program.
func (c *Context) Uniform2f(u gfx.Uniform, x, y float32) {
	c.Uniform2fv(u, [2]float32{x, y})
}

// Uniform2fv writes a vec2<f32> uniform of the current program.
func (c *Context) Uniform2fv(u gfx.Uniform, v [2]float32) {
	if s := c.slot(u, wgslinfo.KindVec2); s != nil {
		s.value.Float = v
		s.value.Set = true
	}
}

// Uniform1i writes an i32 uniform of the current program.
func (c *Context) Uniform1i(u gfx.Uniform, x int32) {
	if s := c.slot(u, wgslinfo.KindInt); s != nil {
		s.value.Int = x
		s.value.Set = true
	}
}

// UniformValue returns the stored value of the named uniform of p.
func (c *Context) UniformValue(p gfx.Program, name string) (Value, bool) {
	prog, ok := c.Lookup(p)
	if !ok {
		return Value{}, false
	}
	for _, slot := range prog.Data.uniforms {
		if slot.info.Name == name || slot.info.Qualified == name {
			return slot.value, true
		}
	}
	return Value{}, false
}

func irStage(s gfx.Stage) ir.ShaderStage {
	if s == gfx.StageFragment {
		return ir.StageFragment
	}
	return ir.StageVertex
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package kage implements gfx.Context with ebiten Kage shaders.
//
// Kage programs have a built-in vertex stage: the vertex shader object of
// a program must be left empty, and only the fragment source is compiled,
// with ebiten.NewShader. Uniform writes are collected per program and
// passed to DrawRectShaderOptions by Draw.
package kage

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/gfx/internal/objects"
	"github.com/gogpu/display/gfx/wgslinfo"
	"github.com/gogpu/display/internal/kagesrc"
)

// compiled is a Kage shader shared by a shader object and the programs
// linked from it. The shader is deallocated when the last holder drops it.
type compiled struct {
	shader *ebiten.Shader
	refs   int
}

type shaderData struct {
	info *kagesrc.Module
	code *compiled
}

type programData struct {
	code     *compiled
	uniforms []kagesrc.Uniform
	values   map[string]any
}

type (
	table         = objects.Table[shaderData, programData]
	shaderObject  = objects.Shader[shaderData]
	programObject = objects.Program[shaderData, programData]
)

// Context is a gfx.Context backed by ebiten.
type Context struct {
	*table

	op ebiten.DrawRectShaderOptions

	newShader  func(src []byte) (*ebiten.Shader, error)
	freeShader func(*ebiten.Shader)
}

var (
	_ gfx.Context       = (*Context)(nil)
	_ gfx.ErrorReporter = (*Context)(nil)
)

// New creates an empty context.
func New() *Context {
	c := &Context{
		newShader:  ebiten.NewShader,
		freeShader: (*ebiten.Shader).Deallocate,
	}
	c.table = objects.New(objects.Hooks[shaderData, programData]{
		ReleaseShader: func(s *shaderObject) {
			c.drop(s.Data.code)
			s.Data.code = nil
		},
		ReleaseProgram: func(p *programObject) {
			c.drop(p.Data.code)
			p.Data.code = nil
		},
	})
	return c
}

func retain(k *compiled) *compiled {
	if k != nil {
		k.refs++
	}
	return k
}

func (c *Context) drop(k *compiled) {
	if k == nil {
		return
	}
	k.refs--
	if k.refs == 0 && k.shader != nil {
		c.freeShader(k.shader)
		k.shader = nil
	}
}

// CompileShader compiles s. A vertex shader compiles only when its source
// is blank. Programs linked from a previous compilation keep their shader.
func (c *Context) CompileShader(s gfx.Shader) {
	obj, ok := c.table.Shader(s)
	if !ok {
		return
	}
	obj.Compiled = false
	obj.Data.info = nil
	c.drop(obj.Data.code)
	obj.Data.code = nil

	if obj.Stage == gfx.StageVertex {
		if strings.TrimSpace(obj.Source) != "" {
			obj.Log = "ERROR: vertex shader: Kage programs use the built-in vertex stage; leave the vertex source empty"
			return
		}
		obj.Compiled = true
		obj.Log = ""
		return
	}

	info, err := kagesrc.Parse(obj.Source)
	if err != nil {
		obj.Log = fmt.Sprintf("ERROR: fragment shader: %v", err)
		return
	}
	shader, err := c.newShader([]byte(obj.Source))
	if err != nil {
		obj.Log = fmt.Sprintf("ERROR: fragment shader: %v", err)
		return
	}
	obj.Compiled = true
	obj.Data.info = info
	obj.Data.code = &compiled{shader: shader, refs: 1}
	obj.Log = ""
}

// LinkProgram links p. Only the fragment stage carries code.
func (c *Context) LinkProgram(p gfx.Program) {
	prog, ok := c.table.Program(p)
	if !ok {
		return
	}
	prog.Linked = false
	c.drop(prog.Data.code)
	prog.Data.code = nil
	prog.Data.uniforms = nil

	if problems := c.CheckStages(prog); len(problems) > 0 {
		prog.Log = strings.Join(problems, "\n")
		return
	}

	fragment := prog.Stage(gfx.StageFragment)
	prog.Linked = true
	prog.Log = ""
	prog.Data.code = retain(fragment.Data.code)
	prog.Data.uniforms = fragment.Data.info.Uniforms
	prog.Data.values = make(map[string]any, len(prog.Data.uniforms))
}

// UniformLocation returns the location of name in p.
func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	prog, ok := c.Linked(p)
	if !ok {
		return gfx.NoUniform
	}
	for i, u := range prog.Data.uniforms {
		if u.Name == name {
			return gfx.Uniform(i)
		}
	}
	return gfx.NoUniform
}

func (c *Context) set(u gfx.Uniform, kind wgslinfo.Kind, v any) {
	if u == gfx.NoUniform {
		return
	}
	prog, ok := c.CurrentProgram()
	if !ok {
		return
	}
	if u < 0 || int(u) >= len(prog.Data.uniforms) {
		c.Raise(gfx.InvalidOperation)
		return
	}
	info := prog.Data.uniforms[u]
	if info.Kind != kind || info.Array != 0 {
		c.Raise(gfx.InvalidOperation)
		return
	}
	prog.Data.values[info.Name] = v
}

// Uniform1f writes a float uniform of the current program.
func (c *Context) Uniform1f(u gfx.Uniform, x float32) {
	c.set(u, wgslinfo.KindFloat, x)
}

// Uniform2f writes a vec2 uniform of the current program.
func (c *Context) Uniform2f(u gfx.Uniform, x, y float32) {
	c.set(u, wgslinfo.KindVec2, []float32{x, y})
}

// Uniform2fv writes a vec2 uniform of the current program.
func (c *Context) Uniform2fv(u gfx.Uniform, v [2]float32) {
	c.Uniform2f(u, v[0], v[1])
}

// Uniform1i writes an int uniform of the current program.
func (c *Context) Uniform1i(u gfx.Uniform, x int32) {
	c.set(u, wgslinfo.KindInt, int(x))
}

// Shader returns the compiled Kage shader of a linked program, or nil.
func (c *Context) Shader(p gfx.Program) *ebiten.Shader {
	if prog, ok := c.Lookup(p); ok && prog.Data.code != nil {
		return prog.Data.code.shader
	}
	return nil
}

// Uniforms returns the uniform values written to p.
func (c *Context) Uniforms(p gfx.Program) map[string]any {
	if prog, ok := c.Lookup(p); ok {
		return prog.Data.values
	}
	return nil
}

// Draw runs the current program over a width x height rectangle of dst.
// images are bound as imageSrc0..3. Draw is a no-op without a current
// program.
func (c *Context) Draw(dst *ebiten.Image, width, height int, images [4]*ebiten.Image) {
	prog, ok := c.Lookup(c.Current())
	if !ok || prog.Data.code == nil || prog.Data.code.shader == nil {
		return
	}
	c.op.Images = images
	c.op.Uniforms = prog.Data.values
	dst.DrawRectShader(width, height, prog.Data.code.shader, &c.op)
}

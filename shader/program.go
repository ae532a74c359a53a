// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader builds GPU programs from a vertex and fragment source pair
// and sets their uniforms by name.
//
// Build failures are not errors by default: they are logged at error level
// through display.Logger and recorded in Program.Status, and the program
// handle is kept. WithStrictLink turns them into errors.
//
// Example:
//
//	gc, err := surface.GraphicsContext()
//	...
//	prog, err := shader.New(gc, vertexWGSL, fragmentWGSL)
//	if err != nil {
//	    return err
//	}
//	defer prog.Close()
//
//	prog.Bind()
//	prog.SetUniform1f("u_time", t)
//	prog.SetUniform2f("u_resolution", w, h)
package shader

import (
	"github.com/gogpu/display"
	"github.com/gogpu/display/gfx"
)

// Program is a linked pair of shader stages.
//
// Setters write to whichever program is current in the context, so call
// Bind first. A Program is not safe for concurrent use.
type Program struct {
	ctx      gfx.Context
	id       gfx.Program
	vertex   string
	fragment string
	status   Status

	locations map[string]gfx.Uniform
	closed    bool
}

// New compiles vertex and fragment, attaches them to a new program and
// links it. The stage objects are deleted afterwards whatever the outcome.
func New(ctx gfx.Context, vertex, fragment string, opts ...Option) (*Program, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := ctx.CreateProgram()
	if id == 0 {
		return nil, ErrProgramUnavailable
	}

	p := &Program{
		ctx:      ctx,
		id:       id,
		vertex:   vertex,
		fragment: fragment,
	}
	if o.cache {
		p.locations = make(map[string]gfx.Uniform)
	}

	vs, vsOK, vsLog := compile(ctx, gfx.StageVertex, vertex)
	fs, fsOK, fsLog := compile(ctx, gfx.StageFragment, fragment)
	p.status.VertexCompiled, p.status.VertexLog = vsOK, vsLog
	p.status.FragmentCompiled, p.status.FragmentLog = fsOK, fsLog

	ctx.AttachShader(id, vs)
	ctx.AttachShader(id, fs)
	ctx.LinkProgram(id)
	p.status.Linked = ctx.ProgramLinked(id)
	p.status.LinkLog = ctx.ProgramInfoLog(id)
	if !p.status.Linked {
		display.Logger().Error("shader: link failed", "program", id, "log", p.status.LinkLog)
	}

	ctx.DeleteShader(vs)
	ctx.DeleteShader(fs)

	if o.strict && !p.status.OK() {
		ctx.DeleteProgram(id)
		p.closed = true
		return nil, p.status.Err()
	}

	display.Logger().Debug("shader: program built", "program", id, "linked", p.status.Linked)
	return p, nil
}

// compile creates and compiles one stage and logs a failure.
func compile(ctx gfx.Context, stage gfx.Stage, source string) (gfx.Shader, bool, string) {
	s := ctx.CreateShader(stage)
	ctx.ShaderSource(s, source)
	ctx.CompileShader(s)
	ok := ctx.ShaderCompiled(s)
	log := ctx.ShaderInfoLog(s)
	if !ok {
		display.Logger().Error("shader: compilation failed", "stage", stage, "log", log)
	}
	return s, ok, log
}

// ID returns the program handle.
func (p *Program) ID() gfx.Program { return p.id }

// Status returns the build outcome.
func (p *Program) Status() Status { return p.status }

// Sources returns the vertex and fragment sources.
func (p *Program) Sources() (vertex, fragment string) {
	return p.vertex, p.fragment
}

// Bind makes the program current.
func (p *Program) Bind() {
	if p.closed {
		return
	}
	p.ctx.UseProgram(p.id)
}

// Unbind clears the current program.
func (p *Program) Unbind() {
	if p.closed {
		return
	}
	p.ctx.UseProgram(0)
}

// location resolves name. Unknown names yield gfx.NoUniform.
func (p *Program) location(name string) gfx.Uniform {
	if p.locations != nil {
		if u, ok := p.locations[name]; ok {
			return u
		}
	}
	u := p.ctx.UniformLocation(p.id, name)
	if u == gfx.NoUniform {
		display.Logger().Debug("shader: unknown uniform", "program", p.id, "name", name)
	}
	if p.locations != nil {
		p.locations[name] = u
	}
	return u
}

// SetUniform1f sets a float uniform. Unknown names are ignored.
func (p *Program) SetUniform1f(name string, x float32) {
	if p.closed {
		return
	}
	p.ctx.Uniform1f(p.location(name), x)
}

// SetUniform2f sets a vec2 uniform. Unknown names are ignored.
func (p *Program) SetUniform2f(name string, x, y float32) {
	if p.closed {
		return
	}
	p.ctx.Uniform2f(p.location(name), x, y)
}

// SetUniform2fv sets a vec2 uniform. Unknown names are ignored.
func (p *Program) SetUniform2fv(name string, v [2]float32) {
	if p.closed {
		return
	}
	p.ctx.Uniform2fv(p.location(name), v)
}

// SetUniform1i sets an int uniform. Unknown names are ignored.
func (p *Program) SetUniform1i(name string, x int32) {
	if p.closed {
		return
	}
	p.ctx.Uniform1i(p.location(name), x)
}

// Close deletes the program object. Close is idempotent; Bind and the
// setters do nothing afterwards.
func (p *Program) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.ctx.DeleteProgram(p.id)
	p.locations = nil
	return nil
}

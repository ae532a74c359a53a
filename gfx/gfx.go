// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gfx defines the graphics context consumed by shader programs.
//
// The interface mirrors the subset of an immediate-mode GL-style API that
// is needed to build and drive a program: shader stage objects, program
// objects, link/compile status queries and typed uniform writes. Handles
// are plain integers owned by the context, in the manner of GL object names.
//
// Implementations:
//   - gfx/soft: naga-backed headless context (tests, tooling)
//   - gfx/webgl: WebGL2 in the browser (js/wasm)
//   - gfx/webgpu: gogpu/wgpu devices
//   - gfx/kage: ebiten Kage shaders
//
// A Context is not safe for concurrent use. All calls must come from the
// goroutine that drives the host's frame loop.
package gfx

// Program names a linked program object. Zero means "no program";
// UseProgram(0) unbinds the current program.
type Program uint32

// Shader names a single shader stage object. Zero is never a valid shader.
type Shader uint32

// Uniform is a uniform location inside a linked program.
// NoUniform (-1) is returned for names the program does not define;
// writes through it are silently ignored.
type Uniform int32

// NoUniform is the location of a uniform that does not exist.
const NoUniform Uniform = -1

// Valid reports whether u refers to an existing uniform.
func (u Uniform) Valid() bool { return u >= 0 }

// Stage identifies a programmable pipeline stage.
type Stage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota + 1
	// StageFragment is the fragment stage.
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Context is a graphics context capable of building programs.
//
// Compile and link failures are never returned as Go errors: they are
// reported through ShaderCompiled/ShaderInfoLog and
// ProgramLinked/ProgramInfoLog, as GL drivers do.
type Context interface {
	// CreateProgram creates an empty program object.
	// Returns 0 if the context cannot allocate one.
	CreateProgram() Program

	// CreateShader creates a shader object for the given stage.
	// Returns 0 for an unknown stage.
	CreateShader(stage Stage) Shader

	// ShaderSource replaces the source of a shader object.
	ShaderSource(s Shader, source string)

	// CompileShader compiles the current source of s.
	CompileShader(s Shader)

	// ShaderCompiled reports the outcome of the last CompileShader call.
	ShaderCompiled(s Shader) bool

	// ShaderInfoLog returns the diagnostics of the last compilation.
	ShaderInfoLog(s Shader) string

	// AttachShader attaches a shader object to a program.
	AttachShader(p Program, s Shader)

	// LinkProgram links the attached stages of p.
	LinkProgram(p Program)

	// ProgramLinked reports the outcome of the last LinkProgram call.
	ProgramLinked(p Program) bool

	// ProgramInfoLog returns the diagnostics of the last link.
	ProgramInfoLog(p Program) string

	// DeleteShader releases a shader object. Programs the shader is
	// attached to keep the compiled stage.
	DeleteShader(s Shader)

	// DeleteProgram releases a program object.
	DeleteProgram(p Program)

	// UseProgram makes p the current program. Zero unbinds.
	UseProgram(p Program)

	// UniformLocation returns the location of the named uniform in p,
	// or NoUniform.
	UniformLocation(p Program, name string) Uniform

	// Uniform1f writes a float uniform of the current program.
	Uniform1f(u Uniform, x float32)

	// Uniform2f writes a vec2 uniform of the current program.
	Uniform2f(u Uniform, x, y float32)

	// Uniform2fv writes a vec2 uniform of the current program.
	Uniform2fv(u Uniform, v [2]float32)

	// Uniform1i writes an int uniform of the current program.
	Uniform1i(u Uniform, x int32)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

package webgl

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/gfx/internal/ubo"
	"github.com/gogpu/display/gfx/wgslinfo"
)

type shaderObject struct {
	value js.Value
	stage gfx.Stage
	// log holds transpiler diagnostics, which the driver never sees.
	log       string
	translate *Transpiled
}

type locationKey struct {
	program gfx.Program
	name    string
}

// uniformRef is what a gfx.Uniform handed out by the context points at.
type uniformRef struct {
	program gfx.Program
	field   int
}

type programObject struct {
	value  js.Value
	stages map[gfx.Stage]*Transpiled
	// log holds layout problems found after the driver linked.
	log     string
	layout  *Layout
	buffers []js.Value
}

// Context is a gfx.Context backed by a WebGL2RenderingContext.
type Context struct {
	gl       js.Value
	next     uint32
	shaders  map[gfx.Shader]*shaderObject
	programs map[gfx.Program]*programObject
	current  gfx.Program

	refs  []uniformRef
	index map[locationKey]gfx.Uniform

	vertexShader   js.Value
	fragmentShader js.Value
	compileStatus  js.Value
	linkStatus     js.Value
	uniformBuffer  js.Value
	dynamicDraw    js.Value
	invalidIndex   js.Value
	triangles      js.Value
	uint8Array     js.Value
}

var _ gfx.Context = (*Context)(nil)

// New wraps a WebGL2RenderingContext value as returned by
// canvas.getContext("webgl2").
func New(gl js.Value) *Context {
	return &Context{
		gl:             gl,
		shaders:        make(map[gfx.Shader]*shaderObject),
		programs:       make(map[gfx.Program]*programObject),
		index:          make(map[locationKey]gfx.Uniform),
		vertexShader:   gl.Get("VERTEX_SHADER"),
		fragmentShader: gl.Get("FRAGMENT_SHADER"),
		compileStatus:  gl.Get("COMPILE_STATUS"),
		linkStatus:     gl.Get("LINK_STATUS"),
		uniformBuffer:  gl.Get("UNIFORM_BUFFER"),
		dynamicDraw:    gl.Get("DYNAMIC_DRAW"),
		invalidIndex:   gl.Get("INVALID_INDEX"),
		triangles:      gl.Get("TRIANGLES"),
		uint8Array:     js.Global().Get("Uint8Array"),
	}
}

// Value returns the underlying WebGL2RenderingContext.
func (c *Context) Value() js.Value { return c.gl }

func valid(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

func (c *Context) name() uint32 {
	c.next++
	return c.next
}

// CreateProgram creates a WebGL program object.
func (c *Context) CreateProgram() gfx.Program {
	v := c.gl.Call("createProgram")
	if !valid(v) {
		return 0
	}
	p := gfx.Program(c.name())
	c.programs[p] = &programObject{value: v, stages: make(map[gfx.Stage]*Transpiled)}
	return p
}

// CreateShader creates a WebGL shader object for the given stage.
func (c *Context) CreateShader(stage gfx.Stage) gfx.Shader {
	var kind js.Value
	switch stage {
	case gfx.StageVertex:
		kind = c.vertexShader
	case gfx.StageFragment:
		kind = c.fragmentShader
	default:
		return 0
	}
	v := c.gl.Call("createShader", kind)
	if !valid(v) {
		return 0
	}
	s := gfx.Shader(c.name())
	c.shaders[s] = &shaderObject{value: v, stage: stage}
	return s
}

// ShaderSource transpiles the WGSL source of s to GLSL ES and hands the
// result to the driver. Transpiler errors are reported by ShaderInfoLog.
func (c *Context) ShaderSource(s gfx.Shader, source string) {
	obj, ok := c.shaders[s]
	if !ok {
		return
	}
	obj.translate = nil
	obj.log = ""

	t, err := Transpile(source, obj.stage)
	if err != nil {
		obj.log = fmt.Sprintf("ERROR: %s shader: %v", obj.stage, err)
		c.gl.Call("shaderSource", obj.value, "")
		return
	}
	obj.translate = t
	c.gl.Call("shaderSource", obj.value, t.Source)
}

// CompileShader compiles s.
func (c *Context) CompileShader(s gfx.Shader) {
	if obj, ok := c.shaders[s]; ok && obj.translate != nil {
		c.gl.Call("compileShader", obj.value)
	}
}

// ShaderCompiled reports whether s compiled.
func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	obj, ok := c.shaders[s]
	if !ok || obj.translate == nil {
		return false
	}
	return c.gl.Call("getShaderParameter", obj.value, c.compileStatus).Truthy()
}

// ShaderInfoLog returns the transpiler or driver diagnostics of s.
func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	obj, ok := c.shaders[s]
	if !ok {
		return ""
	}
	if obj.log != "" {
		return obj.log
	}
	return c.gl.Call("getShaderInfoLog", obj.value).String()
}

// AttachShader attaches s to p.
func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) {
	prog, ok := c.programs[p]
	obj, ok2 := c.shaders[s]
	if !ok || !ok2 {
		return
	}
	prog.stages[obj.stage] = obj.translate
	c.gl.Call("attachShader", prog.value, obj.value)
}

// LinkProgram links p and creates one uniform buffer per WGSL uniform
// binding, bound to the blocks that stand for it.
func (c *Context) LinkProgram(p gfx.Program) {
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	c.releaseBuffers(prog)
	prog.layout = nil
	prog.log = ""
	c.forget(p)

	c.gl.Call("linkProgram", prog.value)
	if !c.gl.Call("getProgramParameter", prog.value, c.linkStatus).Truthy() {
		return
	}
	vs, fs := prog.stages[gfx.StageVertex], prog.stages[gfx.StageFragment]
	if vs == nil || fs == nil {
		prog.log = "ERROR: program stages were not transpiled"
		return
	}
	layout, problems := NewLayout(vs, fs)
	if len(problems) > 0 {
		prog.log = strings.Join(problems, "\n")
		return
	}

	for _, b := range layout.Buffers {
		buf := c.gl.Call("createBuffer")
		c.gl.Call("bindBuffer", c.uniformBuffer, buf)
		c.gl.Call("bufferData", c.uniformBuffer, b.Size, c.dynamicDraw)
		for _, name := range b.Blocks {
			idx := c.gl.Call("getUniformBlockIndex", prog.value, name)
			// Blocks the driver optimized out have no index.
			if idx.Equal(c.invalidIndex) {
				continue
			}
			c.gl.Call("uniformBlockBinding", prog.value, idx, b.Point)
		}
		prog.buffers = append(prog.buffers, buf)
	}
	c.gl.Call("bindBuffer", c.uniformBuffer, js.Null())
	prog.layout = layout
}

func (c *Context) releaseBuffers(prog *programObject) {
	for _, b := range prog.buffers {
		c.gl.Call("deleteBuffer", b)
	}
	prog.buffers = nil
}

// forget drops the cached uniform locations of p.
func (c *Context) forget(p gfx.Program) {
	for key := range c.index {
		if key.program == p {
			delete(c.index, key)
		}
	}
}

// ProgramLinked reports whether p linked.
func (c *Context) ProgramLinked(p gfx.Program) bool {
	prog, ok := c.programs[p]
	if !ok || prog.log != "" {
		return false
	}
	return c.gl.Call("getProgramParameter", prog.value, c.linkStatus).Truthy()
}

// ProgramInfoLog returns the link diagnostics for p.
func (c *Context) ProgramInfoLog(p gfx.Program) string {
	prog, ok := c.programs[p]
	if !ok {
		return ""
	}
	if prog.log != "" {
		return prog.log
	}
	return c.gl.Call("getProgramInfoLog", prog.value).String()
}

// DeleteShader deletes s.
func (c *Context) DeleteShader(s gfx.Shader) {
	if obj, ok := c.shaders[s]; ok {
		c.gl.Call("deleteShader", obj.value)
		delete(c.shaders, s)
	}
}

// DeleteProgram deletes p and its uniform buffers.
func (c *Context) DeleteProgram(p gfx.Program) {
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	c.releaseBuffers(prog)
	c.gl.Call("deleteProgram", prog.value)
	delete(c.programs, p)
	c.forget(p)
	if c.current == p {
		c.current = 0
	}
}

// UseProgram makes p current and binds its uniform buffers. Zero
// unbinds.
func (c *Context) UseProgram(p gfx.Program) {
	if p == 0 {
		c.gl.Call("useProgram", js.Null())
		c.current = 0
		return
	}
	prog, ok := c.programs[p]
	if !ok || prog.layout == nil {
		return
	}
	c.gl.Call("useProgram", prog.value)
	for i, b := range prog.buffers {
		c.gl.Call("bindBufferBase", c.uniformBuffer, prog.layout.Buffers[i].Point, b)
	}
	c.current = p
}

// Current returns the current program.
func (c *Context) Current() gfx.Program { return c.current }

// UniformLocation looks up name in p. Struct members may be addressed by
// member name or by "var.member".
func (c *Context) UniformLocation(p gfx.Program, name string) gfx.Uniform {
	prog, ok := c.programs[p]
	if !ok || prog.layout == nil {
		return gfx.NoUniform
	}
	key := locationKey{program: p, name: name}
	if u, ok := c.index[key]; ok {
		return u
	}
	field, ok := prog.layout.Lookup(name)
	if !ok {
		c.index[key] = gfx.NoUniform
		return gfx.NoUniform
	}
	c.refs = append(c.refs, uniformRef{program: p, field: field})
	u := gfx.Uniform(len(c.refs) - 1)
	c.index[key] = u
	return u
}

// write stores data in the uniform buffer of u. Locations of programs
// other than the current one are ignored.
func (c *Context) write(u gfx.Uniform, kind wgslinfo.Kind, data []byte) {
	if u < 0 || int(u) >= len(c.refs) {
		return
	}
	ref := c.refs[u]
	if ref.program != c.current {
		return
	}
	prog, ok := c.programs[ref.program]
	if !ok || prog.layout == nil || ref.field >= len(prog.layout.Fields) {
		return
	}
	f := prog.layout.Fields[ref.field]
	if f.Kind != kind {
		return
	}
	arr := c.uint8Array.New(len(data))
	js.CopyBytesToJS(arr, data)
	c.gl.Call("bindBuffer", c.uniformBuffer, prog.buffers[f.Buffer])
	c.gl.Call("bufferSubData", c.uniformBuffer, f.Offset, arr)
	c.gl.Call("bindBuffer", c.uniformBuffer, js.Null())
}

// Uniform1f writes a float uniform of the current program.
func (c *Context) Uniform1f(u gfx.Uniform, x float32) {
	c.write(u, wgslinfo.KindFloat, ubo.Float(x))
}

// Uniform2f writes a vec2 uniform of the current program.
func (c *Context) Uniform2f(u gfx.Uniform, x, y float32) {
	c.Uniform2fv(u, [2]float32{x, y})
}

// Uniform2fv writes a vec2 uniform of the current program.
func (c *Context) Uniform2fv(u gfx.Uniform, v [2]float32) {
	c.write(u, wgslinfo.KindVec2, ubo.Vec2(v))
}

// Uniform1i writes an int uniform of the current program.
func (c *Context) Uniform1i(u gfx.Uniform, x int32) {
	c.write(u, wgslinfo.KindInt, ubo.Int(x))
}

// Draw runs the current program over a full-viewport triangle of a
// width x height drawing buffer. The vertex stage generates the
// triangle from the vertex index. Draw is a no-op without a current
// program.
func (c *Context) Draw(width, height int) {
	if c.current == 0 {
		return
	}
	c.gl.Call("viewport", 0, 0, width, height)
	c.gl.Call("drawArrays", c.triangles, 0, 3)
}

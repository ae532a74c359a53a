// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !(js && wasm)

// Package webgpu implements gfx.Context on a gogpu/wgpu device.
//
// A shader object compiles to a wgpu shader module. Linking a program
// creates one bind group layout per @group, one uniform buffer per
// @binding, the bind groups and a render pipeline targeting the configured
// color format. Uniform setters write into the uniform buffers through
// the device queue at the offsets reflected from the WGSL source.
//
// The pipeline and bind groups of a linked program are exposed through
// Pipeline and BindGroups so that a renderer can record draws with them.
package webgpu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/display"
	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/gfx/internal/objects"
	"github.com/gogpu/display/gfx/internal/ubo"
	"github.com/gogpu/display/gfx/wgslinfo"
)

// ErrNoDevice is returned by New for a nil device or a device without a
// queue.
var ErrNoDevice = errors.New("webgpu: device has no queue")

// Option configures a Context.
type Option func(*options)

type options struct {
	format gputypes.TextureFormat
	label  string
}

// WithTargetFormat sets the color target format of linked pipelines.
// The default is RGBA8Unorm.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithLabel sets the label prefix of the GPU objects the context creates.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

type shaderData struct {
	info   *wgslinfo.Module
	module *wgpu.ShaderModule
}

type bindingKey struct {
	group, binding uint32
}

type uniformSlot struct {
	info   wgslinfo.Uniform
	buffer *wgpu.Buffer
}

type programData struct {
	uniforms     []uniformSlot
	buffers      map[bindingKey]*wgpu.Buffer
	groupLayouts []*wgpu.BindGroupLayout
	bindGroups   []*wgpu.BindGroup
	layout       *wgpu.PipelineLayout
	pipeline     *wgpu.RenderPipeline
}

type (
	table         = objects.Table[shaderData, programData]
	shaderObject  = objects.Shader[shaderData]
	programObject = objects.Program[shaderData, programData]
)

// Context is a gfx.Context on a wgpu device.
type Context struct {
	*table

	device *wgpu.Device
	queue  *wgpu.Queue
	opts   options
}

var (
	_ gfx.Context       = (*Context)(nil)
	_ gfx.ErrorReporter = (*Context)(nil)
)

// New creates a context on device. The device stays owned by the caller.
func New(device *wgpu.Device, opts ...Option) (*Context, error) {
	if device == nil || device.Queue() == nil {
		return nil, ErrNoDevice
	}
	o := options{format: gputypes.TextureFormatRGBA8Unorm, label: "display"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{
		table: objects.New(objects.Hooks[shaderData, programData]{
			ReleaseShader:  releaseModule,
			ReleaseProgram: func(p *programObject) { p.Data.release() },
		}),
		device: device,
		queue:  device.Queue(),
		opts:   o,
	}, nil
}

// Device returns the device the context was created on.
func (c *Context) Device() *wgpu.Device { return c.device }

// Pipeline returns the render pipeline of a linked program, or nil.
func (c *Context) Pipeline(p gfx.Program) *wgpu.RenderPipeline {
	if prog, ok := c.Lookup(p); ok {
		return prog.Data.pipeline
	}
	return nil
}

// BindGroups returns the bind groups of a linked program, indexed by
// @group.
func (c *Context) BindGroups(p gfx.Program) []*wgpu.BindGroup {
	if prog, ok := c.Lookup(p); ok {
		return prog.Data.bindGroups
	}
	return nil
}

func (c *Context) label(kind string, id uint32) string {
	return fmt.Sprintf("%s-%s-%d", c.opts.label, kind, id)
}

// CompileShader reflects the source of s and creates its shader module.
// Pipelines linked from the previous module are not affected.
func (c *Context) CompileShader(s gfx.Shader) {
	obj, ok := c.table.Shader(s)
	if !ok {
		return
	}
	obj.Compiled = false
	obj.Data.info = nil
	releaseModule(obj)

	info, err := wgslinfo.Parse(obj.Source)
	if err != nil {
		obj.Log = fmt.Sprintf("ERROR: %s shader: %v", obj.Stage, err)
		return
	}
	stage := ir.StageVertex
	if obj.Stage == gfx.StageFragment {
		stage = ir.StageFragment
	}
	if _, ok := info.EntryPoint(stage); !ok {
		obj.Log = fmt.Sprintf("ERROR: %s shader: no @%s entry point", obj.Stage, obj.Stage)
		return
	}

	module, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: c.label(obj.Stage.String(), uint32(s)),
		WGSL:  obj.Source,
	})
	if err != nil {
		obj.Log = fmt.Sprintf("ERROR: %s shader: %v", obj.Stage, err)
		return
	}

	obj.Compiled = true
	obj.Data.info = info
	obj.Data.module = module
	obj.Log = strings.Join(info.Warnings, "\n")
}

func releaseModule(s *shaderObject) {
	if s.Data.module != nil {
		s.Data.module.Release()
		s.Data.module = nil
	}
}

// LinkProgram builds the GPU objects of p from its attached stages.
func (c *Context) LinkProgram(p gfx.Program) {
	prog, ok := c.table.Program(p)
	if !ok {
		return
	}
	prog.Data.release()
	prog.Linked = false

	if problems := c.CheckStages(prog); len(problems) > 0 {
		prog.Log = strings.Join(problems, "\n")
		return
	}

	vs, fs := prog.Stage(gfx.StageVertex), prog.Stage(gfx.StageFragment)
	uniforms, problems := wgslinfo.Link(vs.Data.info, fs.Data.info)
	if len(problems) > 0 {
		prog.Log = strings.Join(problems, "\n")
		return
	}

	if err := c.buildPipeline(uint32(p), &prog.Data, vs, fs, uniforms); err != nil {
		prog.Data.release()
		prog.Log = "ERROR: " + err.Error()
		return
	}
	prog.Linked = true
	prog.Log = ""
}

// buildPipeline creates the uniform buffers, bind groups and render
// pipeline of a program.
func (c *Context) buildPipeline(id uint32, prog *programData, vs, fs *shaderObject, uniforms []wgslinfo.Uniform) error {
	sizes := make(map[bindingKey]uint32)
	var groups uint32
	for _, u := range uniforms {
		key := bindingKey{u.Group, u.Binding}
		if u.BufferSize > sizes[key] {
			sizes[key] = u.BufferSize
		}
		if u.Group+1 > groups {
			groups = u.Group + 1
		}
	}
	keys := make([]bindingKey, 0, len(sizes))
	for k := range sizes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].group != keys[j].group {
			return keys[i].group < keys[j].group
		}
		return keys[i].binding < keys[j].binding
	})

	prog.buffers = make(map[bindingKey]*wgpu.Buffer, len(keys))
	for _, k := range keys {
		buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: c.label(fmt.Sprintf("uniforms-%d-%d", k.group, k.binding), id),
			Size:  uint64(ubo.Size(sizes[k])),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("uniform buffer @group(%d) @binding(%d): %w", k.group, k.binding, err)
		}
		prog.buffers[k] = buf
	}

	for g := uint32(0); g < groups; g++ {
		var layoutEntries []gputypes.BindGroupLayoutEntry
		var entries []wgpu.BindGroupEntry
		for _, k := range keys {
			if k.group != g {
				continue
			}
			layoutEntries = append(layoutEntries, gputypes.BindGroupLayoutEntry{
				Binding:    k.binding,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			})
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: k.binding,
				Buffer:  prog.buffers[k],
				Size:    uint64(ubo.Size(sizes[k])),
			})
		}
		layout, err := c.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   c.label(fmt.Sprintf("group-%d-layout", g), id),
			Entries: layoutEntries,
		})
		if err != nil {
			return fmt.Errorf("bind group layout %d: %w", g, err)
		}
		prog.groupLayouts = append(prog.groupLayouts, layout)

		group, err := c.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   c.label(fmt.Sprintf("group-%d", g), id),
			Layout:  layout,
			Entries: entries,
		})
		if err != nil {
			return fmt.Errorf("bind group %d: %w", g, err)
		}
		prog.bindGroups = append(prog.bindGroups, group)
	}

	layout, err := c.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            c.label("pipeline-layout", id),
		BindGroupLayouts: prog.groupLayouts,
	})
	if err != nil {
		return fmt.Errorf("pipeline layout: %w", err)
	}
	prog.layout = layout

	vep, _ := vs.Data.info.EntryPoint(ir.StageVertex)
	fep, _ := fs.Data.info.EntryPoint(ir.StageFragment)
	pipeline, err := c.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  c.label("pipeline", id),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vs.Data.module,
			EntryPoint: vep.Name,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &wgpu.FragmentState{
			Module:     fs.Data.module,
			EntryPoint: fep.Name,
			Targets: []gputypes.ColorTargetState{{
				Format:    c.opts.format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("render pipeline: %w", err)
	}
	prog.pipeline = pipeline

	prog.uniforms = make([]uniformSlot, len(uniforms))
	for i, u := range uniforms {
		prog.uniforms[i] = uniformSlot{info: u, buffer: prog.buffers[bindingKey{u.Group, u.Binding}]}
	}
	return nil
}

// release frees the GPU objects of a program, keeping its attachments.
func (p *programData) release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	for _, g := range p.bindGroups {
		g.Release()
	}
	p.bindGroups = nil
	for _, l := range p.groupLayouts {
		l.Release()
	}
	p.groupLayouts = nil
	for _, b := range p.buffers {
		b.Release()
	}
	p.buffers = nil
	p.uniforms = nil
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

// write stores data into the buffer of uniform u of the current program.
func (c *Context) write(u gfx.Uniform, kind wgslinfo.Kind, data []byte) {
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
	slot := prog.Data.uniforms[u]
	if slot.info.Kind != kind {
		c.Raise(gfx.InvalidOperation)
		return
	}
	if err := c.queue.WriteBuffer(slot.buffer, uint64(slot.info.Offset), data); err != nil {
		display.Logger().Warn("webgpu: uniform write failed",
			"uniform", slot.info.Qualified, "error", err)
		c.Raise(gfx.InvalidOperation)
	}
}

// Uniform1f writes a f32 uniform of the current program.
func (c *Context) Uniform1f(u gfx.Uniform, x float32) {
	c.write(u, wgslinfo.KindFloat, ubo.Float(x))
}

// Uniform2f writes a vec2<f32> uniform of the current program.
func (c *Context) Uniform2f(u gfx.Uniform, x, y float32) {
	c.Uniform2fv(u, [2]float32{x, y})
}

// Uniform2fv writes a vec2<f32> uniform of the current program.
func (c *Context) Uniform2fv(u gfx.Uniform, v [2]float32) {
	c.write(u, wgslinfo.KindVec2, ubo.Vec2(v))
}

// Uniform1i writes an i32 uniform of the current program.
func (c *Context) Uniform1i(u gfx.Uniform, x int32) {
	c.write(u, wgslinfo.KindInt, ubo.Int(x))
}

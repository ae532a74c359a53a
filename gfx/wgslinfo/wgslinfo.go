// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgslinfo extracts the pipeline interface of a WGSL module:
// entry points, location-bound stage inputs and outputs, and uniforms.
//
// Parsing, lowering and validation are done with gogpu/naga. The result
// is what a graphics context needs to compile a stage, match stages at
// link time and resolve uniform names to buffer slots.
package wgslinfo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"
)

// ErrEmptySource is returned by Parse for blank source text.
var ErrEmptySource = errors.New("wgslinfo: empty source")

// Kind classifies the type of a uniform or varying.
type Kind uint8

const (
	// KindOther is any type without a dedicated kind (matrices, arrays...).
	KindOther Kind = iota
	// KindFloat is f32.
	KindFloat
	// KindVec2 is vec2<f32>.
	KindVec2
	// KindVec3 is vec3<f32>.
	KindVec3
	// KindVec4 is vec4<f32>.
	KindVec4
	// KindInt is i32.
	KindInt
	// KindUint is u32.
	KindUint
	// KindStruct is a structure.
	KindStruct
)

var kindNames = [...]string{
	KindOther:  "other",
	KindFloat:  "f32",
	KindVec2:   "vec2<f32>",
	KindVec3:   "vec3<f32>",
	KindVec4:   "vec4<f32>",
	KindInt:    "i32",
	KindUint:   "u32",
	KindStruct: "struct",
}

// String returns the WGSL spelling of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

// Uniform describes one addressable uniform value.
//
// Top-level `var<uniform>` declarations of a non-struct type produce one
// Uniform named after the variable. Struct-typed declarations produce one
// Uniform per member, addressable by the member name or by "var.member".
type Uniform struct {
	Name      string
	Qualified string
	Kind      Kind
	Group     uint32
	Binding   uint32
	// Offset is the byte offset inside the binding's buffer.
	Offset uint32
	Size   uint32
	// BufferSize is the size of the whole binding.
	BufferSize uint32
}

// Varying is a location-bound stage input or output.
type Varying struct {
	Name     string
	Location uint32
	Kind     Kind
}

// EntryPoint is a shader entry point with its stage interface.
type EntryPoint struct {
	Name    string
	Stage   ir.ShaderStage
	Inputs  []Varying
	Outputs []Varying
}

// Module is the reflected interface of a WGSL module.
type Module struct {
	EntryPoints []EntryPoint
	Uniforms    []Uniform
	Warnings    []string

	ir *ir.Module
}

// IR returns the lowered naga module.
func (m *Module) IR() *ir.Module { return m.ir }

// EntryPoint returns the first entry point of the given stage.
func (m *Module) EntryPoint(stage ir.ShaderStage) (EntryPoint, bool) {
	for _, ep := range m.EntryPoints {
		if ep.Stage == stage {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// Uniform looks up a uniform by name or qualified name.
func (m *Module) Uniform(name string) (Uniform, bool) {
	for _, u := range m.Uniforms {
		if u.Name == name || u.Qualified == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Parse parses, lowers and validates WGSL source and reflects its interface.
// The returned error carries the compiler diagnostics and is suitable for a
// shader info log.
func Parse(source string) (*Module, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}

	lowered, err := wgsl.LowerWithWarnings(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lowering error: %w", err)
	}
	module := lowered.Module

	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i := range verrs {
			msgs[i] = verrs[i].Error()
		}
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	m := &Module{ir: module}
	for _, w := range lowered.Warnings {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%d:%d: %s", w.Span.Start.Line, w.Span.Start.Column, w.Message))
	}
	for i := range module.EntryPoints {
		m.EntryPoints = append(m.EntryPoints, reflectEntryPoint(module, &module.EntryPoints[i]))
	}
	m.Uniforms = reflectUniforms(module)
	return m, nil
}

func reflectUniforms(module *ir.Module) []Uniform {
	var out []Uniform
	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		if gv.Space != ir.SpaceUniform {
			continue
		}

		var group, binding uint32
		if gv.Binding != nil {
			group, binding = gv.Binding.Group, gv.Binding.Binding
		}
		bufferSize := ir.TypeSize(module, gv.Type)

		if st, ok := innerType(module, gv.Type).(ir.StructType); ok {
			for _, member := range st.Members {
				out = append(out, Uniform{
					Name:       member.Name,
					Qualified:  gv.Name + "." + member.Name,
					Kind:       kindOf(module, member.Type),
					Group:      group,
					Binding:    binding,
					Offset:     member.Offset,
					Size:       ir.TypeSize(module, member.Type),
					BufferSize: bufferSize,
				})
			}
			continue
		}

		out = append(out, Uniform{
			Name:       gv.Name,
			Qualified:  gv.Name,
			Kind:       kindOf(module, gv.Type),
			Group:      group,
			Binding:    binding,
			Size:       bufferSize,
			BufferSize: bufferSize,
		})
	}
	return out
}

func reflectEntryPoint(module *ir.Module, ep *ir.EntryPoint) EntryPoint {
	out := EntryPoint{Name: ep.Name, Stage: ep.Stage}
	for _, arg := range ep.Function.Arguments {
		out.Inputs = appendVaryings(out.Inputs, module, arg.Name, arg.Type, arg.Binding)
	}
	if res := ep.Function.Result; res != nil {
		out.Outputs = appendVaryings(out.Outputs, module, "", res.Type, res.Binding)
	}
	return out
}

// appendVaryings adds the location-bound values of a stage argument or
// result. Unbound struct values contribute their bound members.
func appendVaryings(dst []Varying, module *ir.Module, name string, th ir.TypeHandle, b *ir.Binding) []Varying {
	if b != nil {
		if loc, ok := (*b).(ir.LocationBinding); ok {
			dst = append(dst, Varying{Name: name, Location: loc.Location, Kind: kindOf(module, th)})
		}
		return dst
	}
	st, ok := innerType(module, th).(ir.StructType)
	if !ok {
		return dst
	}
	for _, member := range st.Members {
		if member.Binding == nil {
			continue
		}
		if loc, ok := (*member.Binding).(ir.LocationBinding); ok {
			dst = append(dst, Varying{Name: member.Name, Location: loc.Location, Kind: kindOf(module, member.Type)})
		}
	}
	return dst
}

func innerType(module *ir.Module, th ir.TypeHandle) ir.TypeInner {
	if int(th) >= len(module.Types) {
		return nil
	}
	return module.Types[th].Inner
}

func kindOf(module *ir.Module, th ir.TypeHandle) Kind {
	switch t := innerType(module, th).(type) {
	case ir.ScalarType:
		return scalarKind(t)
	case ir.VectorType:
		if t.Scalar.Kind != ir.ScalarFloat {
			return KindOther
		}
		switch t.Size {
		case ir.Vec2:
			return KindVec2
		case ir.Vec3:
			return KindVec3
		case ir.Vec4:
			return KindVec4
		}
	case ir.StructType:
		return KindStruct
	}
	return KindOther
}

func scalarKind(s ir.ScalarType) Kind {
	switch s.Kind {
	case ir.ScalarFloat:
		return KindFloat
	case ir.ScalarSint:
		return KindInt
	case ir.ScalarUint:
		return KindUint
	}
	return KindOther
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webgl

import (
	"github.com/gogpu/display/gfx/internal/ubo"
	"github.com/gogpu/display/gfx/wgslinfo"
)

// Buffer is a uniform buffer of a linked program. The blocks of both
// stages that stand for the same WGSL binding share it through one
// binding point.
type Buffer struct {
	Group   uint32
	Binding uint32
	// Point is the uniform buffer binding point.
	Point  uint32
	Size   uint32
	Blocks []string
}

// Field is a uniform value stored in one of the layout's buffers.
type Field struct {
	wgslinfo.Uniform
	// Buffer indexes Layout.Buffers.
	Buffer int
}

// Layout places the uniforms of a program in uniform buffers.
type Layout struct {
	Buffers []Buffer
	Fields  []Field
}

// NewLayout builds the uniform buffer layout of a vertex and a fragment
// stage. It returns the link problems of the two stages instead when
// there are any.
func NewLayout(vs, fs *Transpiled) (*Layout, []string) {
	uniforms, problems := wgslinfo.Link(vs.Module, fs.Module)
	if len(problems) > 0 {
		return nil, problems
	}

	type key struct{ group, binding uint32 }
	index := make(map[key]int)
	l := &Layout{}
	for _, u := range uniforms {
		k := key{u.Group, u.Binding}
		i, ok := index[k]
		if !ok {
			i = len(l.Buffers)
			index[k] = i
			l.Buffers = append(l.Buffers, Buffer{Group: u.Group, Binding: u.Binding, Point: uint32(i)})
		}
		if size := ubo.Size(u.BufferSize); size > l.Buffers[i].Size {
			l.Buffers[i].Size = size
		}
		l.Fields = append(l.Fields, Field{Uniform: u, Buffer: i})
	}
	for _, t := range []*Transpiled{vs, fs} {
		for _, b := range t.Blocks {
			if i, ok := index[key{b.Group, b.Binding}]; ok {
				l.Buffers[i].Blocks = append(l.Buffers[i].Blocks, b.Name)
			}
		}
	}
	return l, nil
}

// Lookup returns the index of the field addressed by a uniform name or a
// "var.member" name.
func (l *Layout) Lookup(name string) (int, bool) {
	for i, f := range l.Fields {
		if f.Name == name || f.Qualified == name {
			return i, true
		}
	}
	return 0, false
}

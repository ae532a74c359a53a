// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package webgl

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/internal/shaders"
)

func TestTranspileStages(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stage  gfx.Stage
		entry  string
		blocks int
	}{
		{"vertex", shaders.QuadVertex, gfx.StageVertex, "vs_main", 0},
		{"fragment", shaders.PlasmaFragment, gfx.StageFragment, "fs_main", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Transpile(tt.source, tt.stage)
			if err != nil {
				t.Fatalf("Transpile: %v", err)
			}
			if !strings.HasPrefix(out.Source, "#version 300 es") {
				t.Errorf("source does not start with the ES 3.00 directive:\n%s", out.Source)
			}
			if out.EntryPoint != tt.entry {
				t.Errorf("EntryPoint = %q, want %q", out.EntryPoint, tt.entry)
			}
			if !strings.Contains(out.Source, "void main(") {
				t.Errorf("source has no main:\n%s", out.Source)
			}
			if len(out.Blocks) != tt.blocks {
				t.Fatalf("len(Blocks) = %d, want %d:\n%s", len(out.Blocks), tt.blocks, out.Source)
			}
			for i, b := range out.Blocks {
				if b.Group != 0 || b.Binding != uint32(i) {
					t.Errorf("Blocks[%d] = @group(%d) @binding(%d), want @group(0) @binding(%d)", i, b.Group, b.Binding, i)
				}
				if !strings.Contains(out.Source, "uniform "+b.Name+" {") {
					t.Errorf("block %q not declared in:\n%s", b.Name, out.Source)
				}
			}
		})
	}
}

func TestTranspileErrors(t *testing.T) {
	if _, err := Transpile(shaders.PlasmaFragment, gfx.StageVertex); !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("wrong stage: error = %v, want ErrNoEntryPoint", err)
	}
	if _, err := Transpile("fn (", gfx.StageFragment); err == nil {
		t.Error("invalid source: error = nil")
	}
}

func transpileBoth(t *testing.T, vs, fs string) (*Transpiled, *Transpiled) {
	t.Helper()
	v, err := Transpile(vs, gfx.StageVertex)
	if err != nil {
		t.Fatalf("Transpile(vertex): %v", err)
	}
	f, err := Transpile(fs, gfx.StageFragment)
	if err != nil {
		t.Fatalf("Transpile(fragment): %v", err)
	}
	return v, f
}

func TestLayoutResolvesWGSLNames(t *testing.T) {
	vs, fs := transpileBoth(t, shaders.QuadVertex, shaders.PlasmaFragment)
	l, problems := NewLayout(vs, fs)
	if len(problems) > 0 {
		t.Fatalf("NewLayout: %v", problems)
	}
	if len(l.Buffers) != 3 {
		t.Fatalf("len(Buffers) = %d, want 3", len(l.Buffers))
	}

	tests := []struct {
		name    string
		binding uint32
	}{
		{"u_time", 0},
		{"u_resolution", 1},
		{"u_frame", 2},
	}
	for _, tt := range tests {
		i, ok := l.Lookup(tt.name)
		if !ok {
			t.Errorf("Lookup(%q) not found", tt.name)
			continue
		}
		f := l.Fields[i]
		b := l.Buffers[f.Buffer]
		if b.Binding != tt.binding || f.Offset != 0 {
			t.Errorf("%s: binding %d offset %d, want binding %d offset 0", tt.name, b.Binding, f.Offset, tt.binding)
		}
		if b.Point != uint32(f.Buffer) || b.Size != 16 {
			t.Errorf("%s: point %d size %d, want point %d size 16", tt.name, b.Point, b.Size, f.Buffer)
		}
		if len(b.Blocks) != 1 || !strings.Contains(fs.Source, "uniform "+b.Blocks[0]+" {") {
			t.Errorf("%s: blocks %v not declared in the fragment source", tt.name, b.Blocks)
		}
	}
	if _, ok := l.Lookup("u_missing"); ok {
		t.Error("Lookup(u_missing) found")
	}
}

func TestLayoutStructMembers(t *testing.T) {
	vs, fs := transpileBoth(t, shaders.QuadVertex, shaders.ParamsFragment)
	l, problems := NewLayout(vs, fs)
	if len(problems) > 0 {
		t.Fatalf("NewLayout: %v", problems)
	}
	if len(l.Buffers) != 1 {
		t.Fatalf("len(Buffers) = %d, want 1", len(l.Buffers))
	}

	tests := []struct {
		name   string
		offset uint32
	}{
		{"scale", 0},
		{"params.scale", 0},
		{"offset", 8},
		{"params.offset", 8},
	}
	for _, tt := range tests {
		i, ok := l.Lookup(tt.name)
		if !ok {
			t.Errorf("Lookup(%q) not found", tt.name)
			continue
		}
		if f := l.Fields[i]; f.Offset != tt.offset || f.Buffer != 0 {
			t.Errorf("%s: buffer %d offset %d, want 0 and %d", tt.name, f.Buffer, f.Offset, tt.offset)
		}
	}
	if size := l.Buffers[0].Size; size != 16 {
		t.Errorf("Size = %d, want 16", size)
	}
}

func TestLayoutLinkProblems(t *testing.T) {
	const wrongType = `
@fragment
fn fs_main(@location(0) uv: vec4<f32>) -> @location(0) vec4<f32> {
    return uv;
}
`
	vs, fs := transpileBoth(t, shaders.QuadVertex, wrongType)
	l, problems := NewLayout(vs, fs)
	if l != nil || len(problems) == 0 {
		t.Fatalf("NewLayout = %v, %v, want link problems", l, problems)
	}
	if !strings.Contains(problems[0], "location 0 type mismatch") {
		t.Errorf("problems = %v", problems)
	}
}

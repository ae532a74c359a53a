// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kagesrc

import (
	"errors"
	"testing"

	"github.com/gogpu/display/gfx/wgslinfo"
	"github.com/gogpu/display/internal/shaders"
)

func TestParse(t *testing.T) {
	m, err := Parse(shaders.PlasmaKage)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Unit != "pixels" {
		t.Errorf("Unit = %q, want pixels", m.Unit)
	}

	tests := []struct {
		name string
		kind wgslinfo.Kind
	}{
		{"Time", wgslinfo.KindFloat},
		{"Resolution", wgslinfo.KindVec2},
		{"Frame", wgslinfo.KindInt},
	}
	for _, tt := range tests {
		u, ok := m.Uniform(tt.name)
		if !ok {
			t.Errorf("uniform %s not found", tt.name)
			continue
		}
		if u.Kind != tt.kind {
			t.Errorf("%s: Kind = %v, want %v", tt.name, u.Kind, tt.kind)
		}
	}
	if _, ok := m.Uniform("Missing"); ok {
		t.Error("Uniform(Missing) found")
	}
}

func TestParseArrays(t *testing.T) {
	const src = `package main

var Matrix [20]float
var A, B vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	return A
}
`
	m, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Unit != "" {
		t.Errorf("Unit = %q, want empty", m.Unit)
	}
	u, _ := m.Uniform("Matrix")
	if u.Kind != wgslinfo.KindFloat || u.Array != 20 {
		t.Errorf("Matrix = %+v, want [20]float", u)
	}
	if len(m.Uniforms) != 3 {
		t.Errorf("len(Uniforms) = %d, want 3", len(m.Uniforms))
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(" "); !errors.Is(err, ErrEmptySource) {
		t.Errorf("blank: error = %v, want ErrEmptySource", err)
	}
	if _, err := Parse("package main\n\nvar X float\n"); !errors.Is(err, ErrNoFragment) {
		t.Errorf("no Fragment: error = %v, want ErrNoFragment", err)
	}
	if _, err := Parse("package main\nfunc ("); err == nil {
		t.Error("syntax error: error = nil")
	}
}

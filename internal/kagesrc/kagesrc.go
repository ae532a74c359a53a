// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package kagesrc reflects the uniforms of a Kage shader.
//
// Kage is Go syntax, so the source is parsed with go/parser. Ebiten does
// not expose the uniform table of a compiled shader; this package fills
// the gap so that a Kage program can resolve uniform names and check value
// types before they reach DrawRectShaderOptions.
package kagesrc

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/gogpu/display/gfx/wgslinfo"
)

// Errors returned by Parse.
var (
	ErrEmptySource = errors.New("kagesrc: empty source")
	ErrNoFragment  = errors.New("kagesrc: no Fragment function")
)

// Uniform is a package-level variable of a Kage shader.
type Uniform struct {
	Name string
	Kind wgslinfo.Kind
	// Array is the element count of an array uniform, zero otherwise.
	Array int
}

// Module is the reflected interface of a Kage shader.
type Module struct {
	// Unit is the value of the //kage:unit directive ("pixels", "texels"
	// or empty).
	Unit     string
	Uniforms []Uniform
}

// Uniform looks up a uniform by name.
func (m *Module) Uniform(name string) (Uniform, bool) {
	for _, u := range m.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Parse parses Kage source and returns its uniforms. The source must
// declare a Fragment function.
func Parse(source string) (*Module, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySource
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "shader.kage", source, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	m := &Module{Unit: unit(file)}
	fragment := false
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil && d.Name.Name == "Fragment" {
				fragment = true
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs := spec.(*ast.ValueSpec)
				kind, n, err := typeOf(vs.Type)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", fset.Position(vs.Pos()), err)
				}
				for _, name := range vs.Names {
					m.Uniforms = append(m.Uniforms, Uniform{Name: name.Name, Kind: kind, Array: n})
				}
			}
		}
	}
	if !fragment {
		return nil, ErrNoFragment
	}
	return m, nil
}

func unit(file *ast.File) string {
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if v, ok := strings.CutPrefix(c.Text, "//kage:unit "); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}

var kinds = map[string]wgslinfo.Kind{
	"float": wgslinfo.KindFloat,
	"vec2":  wgslinfo.KindVec2,
	"vec3":  wgslinfo.KindVec3,
	"vec4":  wgslinfo.KindVec4,
	"int":   wgslinfo.KindInt,
}

func typeOf(expr ast.Expr) (wgslinfo.Kind, int, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if k, ok := kinds[t.Name]; ok {
			return k, 0, nil
		}
		return wgslinfo.KindOther, 0, nil
	case *ast.ArrayType:
		lit, ok := t.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return 0, 0, errors.New("uniform arrays need a constant length")
		}
		var n int
		if _, err := fmt.Sscan(lit.Value, &n); err != nil {
			return 0, 0, err
		}
		k, _, err := typeOf(t.Elt)
		return k, n, err
	case nil:
		return 0, 0, errors.New("uniform without a type")
	}
	return wgslinfo.KindOther, 0, nil
}

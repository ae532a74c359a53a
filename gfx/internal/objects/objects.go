// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package objects holds the GL-style object tables shared by the gfx
// backends.
//
// A Table names shader and program objects, tracks attachments, compile
// and link status, the current program and the error queue. Backends embed
// a Table, keep their own state in the Data fields and implement
// compilation, linking and uniform storage on top of it.
package objects

import (
	"fmt"

	"github.com/gogpu/display/gfx"
)

// Shader is a shader object with backend data S.
type Shader[S any] struct {
	Stage    gfx.Stage
	Source   string
	Compiled bool
	Log      string
	// Refs counts the programs the shader is attached to.
	Refs    int
	Deleted bool
	Data    S
}

// Program is a program object with backend data P.
type Program[S, P any] struct {
	Attached []*Shader[S]
	Linked   bool
	Log      string
	Data     P
}

// Stage returns the attached shader of the given stage, or nil.
func (p *Program[S, P]) Stage(stage gfx.Stage) *Shader[S] {
	for _, s := range p.Attached {
		if s.Stage == stage {
			return s
		}
	}
	return nil
}

// Hooks release backend resources. Nil hooks are skipped.
type Hooks[S, P any] struct {
	// ReleaseShader runs once a deleted shader is attached to no program.
	ReleaseShader func(*Shader[S])
	// ReleaseProgram runs when a program is deleted.
	ReleaseProgram func(*Program[S, P])
}

// Table is the object table of one context.
type Table[S, P any] struct {
	hooks    Hooks[S, P]
	next     uint32
	shaders  map[gfx.Shader]*Shader[S]
	programs map[gfx.Program]*Program[S, P]
	current  gfx.Program
	errs     []gfx.ErrorCode
}

// New creates an empty table.
func New[S, P any](hooks Hooks[S, P]) *Table[S, P] {
	return &Table[S, P]{
		hooks:    hooks,
		shaders:  make(map[gfx.Shader]*Shader[S]),
		programs: make(map[gfx.Program]*Program[S, P]),
	}
}

func (t *Table[S, P]) name() uint32 {
	t.next++
	return t.next
}

// Raise records an error.
func (t *Table[S, P]) Raise(code gfx.ErrorCode) {
	t.errs = append(t.errs, code)
}

// Err returns the oldest recorded error and removes it.
func (t *Table[S, P]) Err() gfx.ErrorCode {
	if len(t.errs) == 0 {
		return gfx.NoError
	}
	code := t.errs[0]
	t.errs = t.errs[1:]
	return code
}

// Shader returns the shader object s, raising InvalidValue when it does
// not exist.
func (t *Table[S, P]) Shader(s gfx.Shader) (*Shader[S], bool) {
	obj, ok := t.shaders[s]
	if !ok {
		t.Raise(gfx.InvalidValue)
	}
	return obj, ok
}

// Program returns the program object p, raising InvalidValue when it does
// not exist.
func (t *Table[S, P]) Program(p gfx.Program) (*Program[S, P], bool) {
	obj, ok := t.programs[p]
	if !ok {
		t.Raise(gfx.InvalidValue)
	}
	return obj, ok
}

// Lookup returns the program object p without recording an error.
func (t *Table[S, P]) Lookup(p gfx.Program) (*Program[S, P], bool) {
	obj, ok := t.programs[p]
	return obj, ok
}

// Linked returns the program object p if it exists and is linked. It
// raises InvalidValue or InvalidOperation otherwise.
func (t *Table[S, P]) Linked(p gfx.Program) (*Program[S, P], bool) {
	obj, ok := t.Program(p)
	if !ok {
		return nil, false
	}
	if !obj.Linked {
		t.Raise(gfx.InvalidOperation)
		return nil, false
	}
	return obj, true
}

// CurrentProgram returns the current program object. It raises
// InvalidOperation when no program is current.
func (t *Table[S, P]) CurrentProgram() (*Program[S, P], bool) {
	obj, ok := t.programs[t.current]
	if !ok || t.current == 0 {
		t.Raise(gfx.InvalidOperation)
		return nil, false
	}
	return obj, true
}

// CreateProgram creates an empty program object.
func (t *Table[S, P]) CreateProgram() gfx.Program {
	p := gfx.Program(t.name())
	t.programs[p] = &Program[S, P]{}
	return p
}

// CreateShader creates a shader object for the given stage.
func (t *Table[S, P]) CreateShader(stage gfx.Stage) gfx.Shader {
	if stage != gfx.StageVertex && stage != gfx.StageFragment {
		t.Raise(gfx.InvalidEnum)
		return 0
	}
	s := gfx.Shader(t.name())
	t.shaders[s] = &Shader[S]{Stage: stage}
	return s
}

// ShaderSource replaces the source of s.
func (t *Table[S, P]) ShaderSource(s gfx.Shader, source string) {
	if obj, ok := t.Shader(s); ok {
		obj.Source = source
	}
}

// ShaderCompiled reports whether the last compilation of s succeeded.
func (t *Table[S, P]) ShaderCompiled(s gfx.Shader) bool {
	obj, ok := t.Shader(s)
	return ok && obj.Compiled
}

// ShaderInfoLog returns the diagnostics of the last compilation of s.
func (t *Table[S, P]) ShaderInfoLog(s gfx.Shader) string {
	if obj, ok := t.Shader(s); ok {
		return obj.Log
	}
	return ""
}

// AttachShader attaches s to p. Attaching a second shader of the same
// stage is an invalid operation.
func (t *Table[S, P]) AttachShader(p gfx.Program, s gfx.Shader) {
	prog, ok := t.programs[p]
	sh, ok2 := t.shaders[s]
	if !ok || !ok2 {
		t.Raise(gfx.InvalidValue)
		return
	}
	for _, a := range prog.Attached {
		if a == sh || a.Stage == sh.Stage {
			t.Raise(gfx.InvalidOperation)
			return
		}
	}
	sh.Refs++
	prog.Attached = append(prog.Attached, sh)
}

// CheckStages returns the link problems caused by missing or uncompiled
// stages of prog.
func (t *Table[S, P]) CheckStages(prog *Program[S, P]) []string {
	var problems []string
	for _, stage := range []gfx.Stage{gfx.StageVertex, gfx.StageFragment} {
		obj := prog.Stage(stage)
		switch {
		case obj == nil:
			problems = append(problems, fmt.Sprintf("ERROR: no %s shader attached", stage))
		case !obj.Compiled:
			problems = append(problems, fmt.Sprintf("ERROR: %s shader not compiled", stage))
		}
	}
	return problems
}

// ProgramLinked reports whether the last link of p succeeded.
func (t *Table[S, P]) ProgramLinked(p gfx.Program) bool {
	obj, ok := t.Program(p)
	return ok && obj.Linked
}

// ProgramInfoLog returns the diagnostics of the last link of p.
func (t *Table[S, P]) ProgramInfoLog(p gfx.Program) string {
	if obj, ok := t.Program(p); ok {
		return obj.Log
	}
	return ""
}

// DeleteShader deletes s. Programs that have s attached keep it until
// they are deleted.
func (t *Table[S, P]) DeleteShader(s gfx.Shader) {
	if s == 0 {
		return
	}
	obj, ok := t.Shader(s)
	if !ok {
		return
	}
	delete(t.shaders, s)
	obj.Deleted = true
	if obj.Refs == 0 {
		t.releaseShader(obj)
	}
}

// DeleteProgram deletes p and the stages only it kept alive. Deleting the
// current program unbinds it.
func (t *Table[S, P]) DeleteProgram(p gfx.Program) {
	if p == 0 {
		return
	}
	prog, ok := t.Program(p)
	if !ok {
		return
	}
	if t.hooks.ReleaseProgram != nil {
		t.hooks.ReleaseProgram(prog)
	}
	for _, s := range prog.Attached {
		s.Refs--
		if s.Deleted && s.Refs == 0 {
			t.releaseShader(s)
		}
	}
	delete(t.programs, p)
	if t.current == p {
		t.current = 0
	}
}

func (t *Table[S, P]) releaseShader(s *Shader[S]) {
	if t.hooks.ReleaseShader != nil {
		t.hooks.ReleaseShader(s)
	}
}

// UseProgram makes p current. Only linked programs can be made current.
func (t *Table[S, P]) UseProgram(p gfx.Program) {
	if p == 0 {
		t.current = 0
		return
	}
	if _, ok := t.Linked(p); ok {
		t.current = p
	}
}

// Current returns the current program.
func (t *Table[S, P]) Current() gfx.Program { return t.current }

// ShaderCount returns the number of live shader objects.
func (t *Table[S, P]) ShaderCount() int { return len(t.shaders) }

// ProgramCount returns the number of live program objects.
func (t *Table[S, P]) ProgramCount() int { return len(t.programs) }

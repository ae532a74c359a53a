// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import "github.com/gogpu/display/gfx"

// Status is the outcome of building a Program.
type Status struct {
	VertexCompiled   bool
	FragmentCompiled bool
	Linked           bool

	VertexLog   string
	FragmentLog string
	LinkLog     string
}

// OK reports whether both stages compiled and the program linked.
func (s Status) OK() bool {
	return s.VertexCompiled && s.FragmentCompiled && s.Linked
}

// Err returns the first failure as a *CompileError or *LinkError, or nil.
func (s Status) Err() error {
	switch {
	case !s.VertexCompiled:
		return &CompileError{Stage: gfx.StageVertex, Log: s.VertexLog}
	case !s.FragmentCompiled:
		return &CompileError{Stage: gfx.StageFragment, Log: s.FragmentLog}
	case !s.Linked:
		return &LinkError{Log: s.LinkLog}
	}
	return nil
}

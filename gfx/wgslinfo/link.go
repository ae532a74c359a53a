// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgslinfo

import (
	"fmt"

	"github.com/gogpu/naga/ir"
)

// Link checks that a vertex and a fragment module form a valid pipeline
// and returns the uniforms of the combined program.
//
// Every fragment input location must be written by the vertex stage with
// the same type, and a uniform declared in both stages must have the same
// kind and binding. Problems are returned as info-log lines; the uniform
// table is only meaningful when there are none.
func Link(vs, fs *Module) ([]Uniform, []string) {
	var problems []string

	vep, ok := vs.EntryPoint(ir.StageVertex)
	if !ok {
		problems = append(problems, "ERROR: vertex module has no @vertex entry point")
	}
	fep, ok := fs.EntryPoint(ir.StageFragment)
	if !ok {
		problems = append(problems, "ERROR: fragment module has no @fragment entry point")
	}
	if len(problems) > 0 {
		return nil, problems
	}

	outputs := make(map[uint32]Varying, len(vep.Outputs))
	for _, o := range vep.Outputs {
		outputs[o.Location] = o
	}
	for _, in := range fep.Inputs {
		out, ok := outputs[in.Location]
		if !ok {
			problems = append(problems, fmt.Sprintf("ERROR: fragment input %q at location %d is not written by the vertex shader", in.Name, in.Location))
			continue
		}
		if out.Kind != in.Kind {
			problems = append(problems, fmt.Sprintf("ERROR: location %d type mismatch: vertex %s, fragment %s", in.Location, out.Kind, in.Kind))
		}
	}

	var uniforms []Uniform
	seen := make(map[string]int)
	for _, m := range []*Module{vs, fs} {
		for _, u := range m.Uniforms {
			i, ok := seen[u.Qualified]
			if !ok {
				seen[u.Qualified] = len(uniforms)
				uniforms = append(uniforms, u)
				continue
			}
			prev := uniforms[i]
			if prev.Kind != u.Kind {
				problems = append(problems, fmt.Sprintf("ERROR: uniform %q declared as %s and %s", u.Qualified, prev.Kind, u.Kind))
			} else if prev.Group != u.Group || prev.Binding != u.Binding || prev.Offset != u.Offset {
				problems = append(problems, fmt.Sprintf("ERROR: uniform %q bound at @group(%d) @binding(%d) and @group(%d) @binding(%d)", u.Qualified, prev.Group, prev.Binding, u.Group, u.Binding))
			}
		}
	}
	return uniforms, problems
}

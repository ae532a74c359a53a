// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/display/gfx"
)

var (
	// ErrNilContext is returned by New when no graphics context is given.
	ErrNilContext = errors.New("shader: nil graphics context")

	// ErrProgramUnavailable is returned by New when the context cannot
	// allocate a program object (it returned handle 0).
	ErrProgramUnavailable = errors.New("shader: program object unavailable")
)

// CompileError reports a failed stage compilation.
type CompileError struct {
	Stage gfx.Stage
	Log   string
}

func (e *CompileError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("shader: %s compilation failed", e.Stage)
	}
	return fmt.Sprintf("shader: %s compilation failed: %s", e.Stage, e.Log)
}

// LinkError reports a failed program link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	if e.Log == "" {
		return "shader: link failed"
	}
	return "shader: link failed: " + e.Log
}

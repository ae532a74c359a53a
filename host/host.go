// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package host defines the environment a display Surface runs in.
//
// A host supplies three things: a UI tree (Document and Element) in which
// the surface mounts its container and drawable, a Window reporting the
// viewport size and device pixel density, and drawing contexts obtained
// from elements by mode name. Implementations live in sub-packages:
//
//   - host/headless: in-memory tree with a simple layout (tests, tooling)
//   - host/browser: the browser DOM through syscall/js (js/wasm)
//   - host/ebitenhost: an ebiten game window
package host

import (
	"errors"

	"github.com/gogpu/gpucontext"
)

// ErrNotChild is returned by RemoveChild when the element is not a child
// of the receiver.
var ErrNotChild = errors.New("host: element is not a child")

// ContextMode names a kind of drawing context.
type ContextMode string

// Context modes.
const (
	Mode2D     ContextMode = "2d"
	ModeWebGL  ContextMode = "webgl"
	ModeWebGL2 ContextMode = "webgl2"
	ModeWebGPU ContextMode = "webgpu"
	ModeKage   ContextMode = "kage"
)

// GPU reports whether the mode yields a GPU-accelerated context.
func (m ContextMode) GPU() bool {
	switch m {
	case ModeWebGL, ModeWebGL2, ModeWebGPU, ModeKage:
		return true
	}
	return false
}

// Element is a node of the host UI tree.
type Element interface {
	// ID returns the element identifier.
	ID() string
	// SetID sets the element identifier.
	SetID(id string)

	// AppendChild appends child as the last child of the element.
	// An element already in the tree is moved.
	AppendChild(child Element) error
	// RemoveChild detaches child from the element.
	RemoveChild(child Element) error

	// SetStyleSize sets the styled width and height.
	SetStyleSize(width, height Length)
	// StyleSize returns the styled width and height.
	StyleSize() (width, height Length)
	// ClientSize returns the laid out size in logical pixels.
	ClientSize() (width, height int)

	// BufferSize returns the size of the element's backing pixel buffer.
	// Elements without a buffer report 0x0.
	BufferSize() (width, height int)
	// SetBufferSize reallocates the backing pixel buffer.
	SetBufferSize(width, height int)

	// Context returns a drawing context of the given mode, or nil when the
	// element cannot provide one.
	Context(mode ContextMode) any
}

// Document creates elements and exposes the root of the UI tree.
type Document interface {
	// CreateElement creates a detached element with the given tag name.
	CreateElement(tag string) (Element, error)
	// Body returns the root element content is mounted into.
	Body() Element
}

// Window reports the viewport size in logical pixels and the device pixel
// density (ScaleFactor).
type Window = gpucontext.WindowProvider

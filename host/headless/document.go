// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless implements the display host interfaces in memory.
//
// A Document holds a tree of elements laid out against a Window. Sizes
// follow CSS rules closely enough to drive a Surface: percentages resolve
// against the parent's client box, vw/vh against the viewport, and the
// body always fills the viewport. Canvas elements own a backing buffer
// (300x150 until resized) and hand out drawing contexts from a
// host.ContextRegistry:
//
//   - "2d": a *gg.Context sized to the buffer and resized with it
//   - "webgl", "webgl2": a *soft.Context
//
// Further modes, such as "webgpu" backed by gfx/webgpu, can be registered
// with WithContext.
//
// Example:
//
//	doc := headless.NewDocument(headless.WithWindow(headless.NewWindow(800, 600, 2)))
//	s, err := display.New(doc, doc.Window())
package headless

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/display"
	"github.com/gogpu/display/gfx/soft"
	"github.com/gogpu/display/host"
)

// ErrInvalidTag is returned by CreateElement for an empty or malformed tag.
var ErrInvalidTag = errors.New("headless: invalid tag name")

// Option configures a Document.
type Option func(*Document)

// WithWindow sets the viewport. The default is 1280x720 at density 1.
func WithWindow(w *Window) Option {
	return func(d *Document) {
		d.win = w
	}
}

// WithContext registers (or replaces) a context mode.
func WithContext(mode host.ContextMode, priority int, factory host.ContextFactory, available func() bool) Option {
	return func(d *Document) {
		d.registry.Register(mode, priority, factory, available)
	}
}

// WithoutGPU removes the GPU context modes, simulating a host without
// hardware acceleration.
func WithoutGPU() Option {
	return func(d *Document) {
		for _, mode := range d.registry.List() {
			if mode.GPU() {
				d.registry.Unregister(mode)
			}
		}
	}
}

// Document is an in-memory host document.
type Document struct {
	win      *Window
	body     *Element
	registry *host.ContextRegistry
}

var _ host.Document = (*Document)(nil)

// NewDocument creates a document with an empty body.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		win:      NewWindow(1280, 720, 1),
		registry: defaultRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.body = &Element{doc: d, tag: "body"}
	return d
}

// defaultRegistry returns the built-in context modes.
func defaultRegistry() *host.ContextRegistry {
	r := host.NewContextRegistry()
	r.Register(host.Mode2D, 10, func(target host.Element) (any, error) {
		w, h := target.BufferSize()
		return gg.NewContext(max(w, 1), max(h, 1)), nil
	}, nil)
	r.Register(host.ModeWebGL, 50, func(host.Element) (any, error) {
		return soft.New(), nil
	}, nil)
	r.Register(host.ModeWebGL2, 100, func(host.Element) (any, error) {
		return soft.New(), nil
	}, nil)
	return r
}

// Window returns the document's viewport.
func (d *Document) Window() *Window { return d.win }

// Registry returns the context registry used by canvas elements.
func (d *Document) Registry() *host.ContextRegistry { return d.registry }

// Body returns the root element.
func (d *Document) Body() host.Element { return d.body }

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) (host.Element, error) {
	if !validTag(tag) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	el := &Element{doc: d, tag: tag}
	if tag == "canvas" {
		el.bufW, el.bufH = defaultCanvasWidth, defaultCanvasHeight
	}
	return el, nil
}

// ElementByID returns the first element in the tree with the given id.
func (d *Document) ElementByID(id string) *Element {
	return d.body.find(id)
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func logContextMiss(mode host.ContextMode, err error) {
	display.Logger().Debug("headless: context unavailable", "mode", mode, "error", err)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/display"
	"github.com/gogpu/display/host"
)

// Default canvas buffer size, as in browsers.
const (
	defaultCanvasWidth  = 300
	defaultCanvasHeight = 150
)

const (
	pointsToPixels = 4.0 / 3.0
	emPixels       = 16.0
)

// Element is a node of a headless Document.
type Element struct {
	doc      *Document
	tag      string
	id       string
	parent   *Element
	children []*Element

	styleW, styleH host.Length
	bufW, bufH     int

	mode    host.ContextMode
	context any
}

var _ host.Element = (*Element)(nil)

// Tag returns the tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the element identifier.
func (e *Element) ID() string { return e.id }

// SetID sets the element identifier.
func (e *Element) SetID(id string) { e.id = id }

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// AppendChild appends child as the last child of e.
func (e *Element) AppendChild(child host.Element) error {
	c, err := e.own(child)
	if err != nil {
		return err
	}
	for p := e; p != nil; p = p.parent {
		if p == c {
			return fmt.Errorf("headless: cannot append %s to its own subtree", c.tag)
		}
	}
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = e
	e.children = append(e.children, c)
	return nil
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child host.Element) error {
	c, err := e.own(child)
	if err != nil {
		return err
	}
	if c.parent != e {
		return host.ErrNotChild
	}
	e.detach(c)
	c.parent = nil
	return nil
}

func (e *Element) own(child host.Element) (*Element, error) {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return nil, fmt.Errorf("headless: foreign element %T", child)
	}
	if c.doc != e.doc {
		return nil, fmt.Errorf("headless: element belongs to another document")
	}
	return c, nil
}

func (e *Element) detach(c *Element) {
	for i, x := range e.children {
		if x == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

func (e *Element) find(id string) *Element {
	if e.id == id {
		return e
	}
	for _, c := range e.children {
		if found := c.find(id); found != nil {
			return found
		}
	}
	return nil
}

// SetStyleSize sets the styled width and height.
func (e *Element) SetStyleSize(width, height host.Length) {
	e.styleW, e.styleH = width, height
}

// StyleSize returns the styled width and height.
func (e *Element) StyleSize() (width, height host.Length) {
	return e.styleW, e.styleH
}

// ClientSize lays out e and returns its size in logical pixels.
//
// The body fills the window. Unset widths fill the parent; unset heights
// are 0, except for canvases which fall back to their buffer size.
// Detached elements resolve percentages against a 0x0 parent.
func (e *Element) ClientSize() (width, height int) {
	if e.parent == nil && e == e.doc.body {
		return e.doc.win.Size()
	}

	var pw, ph int
	if e.parent != nil {
		pw, ph = e.parent.ClientSize()
	}

	w, h := float64(pw), 0.0
	if e.tag == "canvas" {
		w, h = float64(e.bufW), float64(e.bufH)
	}
	if !e.styleW.IsZero() {
		w = e.resolve(e.styleW, pw)
	}
	if !e.styleH.IsZero() {
		h = e.resolve(e.styleH, ph)
	}
	return int(math.Round(math.Max(w, 0))), int(math.Round(math.Max(h, 0)))
}

func (e *Element) resolve(l host.Length, parent int) float64 {
	vw, vh := e.doc.win.Size()
	switch l.Unit {
	case host.Percent:
		return l.Value * float64(parent) / 100
	case host.VW:
		return l.Value * float64(vw) / 100
	case host.VH:
		return l.Value * float64(vh) / 100
	case host.Points:
		return l.Value * pointsToPixels
	case host.Em:
		return l.Value * emPixels
	}
	return l.Value
}

// BufferSize returns the canvas buffer size, 0x0 for other elements.
func (e *Element) BufferSize() (width, height int) {
	return e.bufW, e.bufH
}

// SetBufferSize reallocates the canvas buffer. An attached 2d context is
// resized along with it; it keeps its previous size when the buffer is
// empty. Non-canvas elements ignore the call.
func (e *Element) SetBufferSize(width, height int) {
	if e.tag != "canvas" {
		return
	}
	e.bufW, e.bufH = max(width, 0), max(height, 0)
	if dc, ok := e.context.(*gg.Context); ok {
		if err := dc.Resize(e.bufW, e.bufH); err != nil {
			display.Logger().Warn("headless: 2d context not resized",
				"width", e.bufW, "height", e.bufH, "error", err)
		}
	}
}

// Context returns a drawing context of the given mode.
//
// Only canvases have contexts. The first mode that succeeds is locked in:
// asking for it again returns the same object, and any other mode yields
// nil.
func (e *Element) Context(mode host.ContextMode) any {
	if e.tag != "canvas" {
		return nil
	}
	if e.context != nil {
		if mode == e.mode {
			return e.context
		}
		return nil
	}
	ctx, err := e.doc.registry.New(mode, e)
	if err != nil {
		logContextMiss(mode, err)
		return nil
	}
	e.mode, e.context = mode, ctx
	return ctx
}

// ContextMode returns the locked-in context mode, or "" if none.
func (e *Element) ContextMode() host.ContextMode { return e.mode }

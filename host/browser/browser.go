// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

// Package browser implements the display host interfaces on the browser
// DOM through syscall/js.
//
// Canvas contexts come from a host.ContextRegistry:
//
//   - "2d": the CanvasRenderingContext2D js.Value
//   - "webgl2", "webgl": a *webgl.Context over a WebGL2RenderingContext
//
// Both GL modes request a WebGL2 context because the shader backend emits
// GLSL ES 3.00.
package browser

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"syscall/js"

	"github.com/gogpu/display"
	"github.com/gogpu/display/gfx/webgl"
	"github.com/gogpu/display/host"
)

// ErrNoContext is returned by a context factory when getContext yields null.
var ErrNoContext = errors.New("browser: getContext returned null")

// Document wraps the global document object.
type Document struct {
	doc      js.Value
	win      *Window
	registry *host.ContextRegistry
}

var _ host.Document = (*Document)(nil)

// NewDocument wraps js.Global().Get("document").
func NewDocument() *Document {
	d := &Document{
		doc:      js.Global().Get("document"),
		win:      &Window{win: js.Global()},
		registry: host.NewContextRegistry(),
	}
	d.registry.Register(host.Mode2D, 10, func(target host.Element) (any, error) {
		return getContext(target, "2d")
	}, nil)
	gl := func(target host.Element) (any, error) {
		v, err := getContext(target, "webgl2")
		if err != nil {
			return nil, err
		}
		return webgl.New(v), nil
	}
	d.registry.Register(host.ModeWebGL2, 100, gl, hasWebGL2)
	d.registry.Register(host.ModeWebGL, 50, gl, hasWebGL2)
	return d
}

func hasWebGL2() bool {
	return !js.Global().Get("WebGL2RenderingContext").IsUndefined()
}

func getContext(target host.Element, kind string) (js.Value, error) {
	el, ok := target.(*Element)
	if !ok {
		return js.Value{}, fmt.Errorf("browser: foreign element %T", target)
	}
	v := el.v.Call("getContext", kind)
	if v.IsNull() || v.IsUndefined() {
		return js.Value{}, fmt.Errorf("%w: %s", ErrNoContext, kind)
	}
	return v, nil
}

// Window returns the browser window.
func (d *Document) Window() *Window { return d.win }

// Registry returns the context registry used by canvas elements.
func (d *Document) Registry() *host.ContextRegistry { return d.registry }

// CreateElement calls document.createElement.
func (d *Document) CreateElement(tag string) (el host.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser: createElement(%q): %v", tag, r)
		}
	}()
	return d.wrap(d.doc.Call("createElement", tag)), nil
}

// Body returns document.body.
func (d *Document) Body() host.Element {
	return d.wrap(d.doc.Get("body"))
}

// ElementByID calls document.getElementById. It returns nil when no
// element has the id.
func (d *Document) ElementByID(id string) *Element {
	v := d.doc.Call("getElementById", id)
	if v.IsNull() {
		return nil
	}
	return d.wrap(v)
}

func (d *Document) wrap(v js.Value) *Element {
	return &Element{doc: d, v: v}
}

// Element wraps a DOM element.
type Element struct {
	doc *Document
	v   js.Value

	mode host.ContextMode
	ctx  any
}

var _ host.Element = (*Element)(nil)

// Value returns the DOM element.
func (e *Element) Value() js.Value { return e.v }

// ID returns the id attribute.
func (e *Element) ID() string { return e.v.Get("id").String() }

// SetID sets the id attribute.
func (e *Element) SetID(id string) { e.v.Set("id", id) }

// AppendChild calls appendChild. DOM exceptions are returned as errors.
func (e *Element) AppendChild(child host.Element) (err error) {
	c, ok := child.(*Element)
	if !ok {
		return fmt.Errorf("browser: foreign element %T", child)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser: appendChild: %v", r)
		}
	}()
	e.v.Call("appendChild", c.v)
	return nil
}

// RemoveChild calls removeChild.
func (e *Element) RemoveChild(child host.Element) (err error) {
	c, ok := child.(*Element)
	if !ok {
		return fmt.Errorf("browser: foreign element %T", child)
	}
	if !c.v.Get("parentNode").Equal(e.v) {
		return host.ErrNotChild
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("browser: removeChild: %v", r)
		}
	}()
	e.v.Call("removeChild", c.v)
	return nil
}

// SetStyleSize writes style.width and style.height.
func (e *Element) SetStyleSize(width, height host.Length) {
	style := e.v.Get("style")
	style.Set("width", width.String())
	style.Set("height", height.String())
}

// StyleSize reads style.width and style.height. Values the host cannot
// parse, such as "auto", are reported as unset.
func (e *Element) StyleSize() (width, height host.Length) {
	style := e.v.Get("style")
	return parseStyle(style.Get("width").String()), parseStyle(style.Get("height").String())
}

func parseStyle(s string) host.Length {
	if strings.TrimSpace(s) == "" {
		return host.Length{}
	}
	l, err := host.ParseLength(s)
	if err != nil {
		return host.Length{}
	}
	return l
}

// ClientSize returns clientWidth and clientHeight.
func (e *Element) ClientSize() (width, height int) {
	return e.v.Get("clientWidth").Int(), e.v.Get("clientHeight").Int()
}

// BufferSize returns the width and height properties of a canvas, 0x0 for
// other elements.
func (e *Element) BufferSize() (width, height int) {
	if !e.isCanvas() {
		return 0, 0
	}
	return e.v.Get("width").Int(), e.v.Get("height").Int()
}

// SetBufferSize sets the width and height properties of a canvas.
func (e *Element) SetBufferSize(width, height int) {
	if !e.isCanvas() {
		return
	}
	e.v.Set("width", max(width, 0))
	e.v.Set("height", max(height, 0))
}

func (e *Element) isCanvas() bool {
	return strings.EqualFold(e.v.Get("tagName").String(), "canvas")
}

// Context returns a drawing context of the given mode. The wrapper is
// cached on e, so repeated calls through the same Element return the same
// value. The browser itself locks the canvas to the first kind requested.
func (e *Element) Context(mode host.ContextMode) any {
	if !e.isCanvas() {
		return nil
	}
	if e.ctx != nil {
		if mode == e.mode {
			return e.ctx
		}
		return nil
	}
	ctx, err := e.doc.registry.New(mode, e)
	if err != nil {
		display.Logger().Debug("browser: context unavailable", "mode", mode, "error", err)
		return nil
	}
	e.mode, e.ctx = mode, ctx
	return ctx
}

// Window wraps the global window object.
type Window struct {
	win js.Value
}

var _ host.Window = (*Window)(nil)

// Size returns innerWidth and innerHeight.
func (w *Window) Size() (int, int) {
	return w.win.Get("innerWidth").Int(), w.win.Get("innerHeight").Int()
}

// ScaleFactor returns devicePixelRatio.
func (w *Window) ScaleFactor() float64 {
	r := w.win.Get("devicePixelRatio")
	if r.Type() != js.TypeNumber {
		return 1
	}
	f := r.Float()
	if f <= 0 || math.IsNaN(f) {
		return 1
	}
	return f
}

// RequestRedraw does nothing: the page redraws on its own frame loop.
func (w *Window) RequestRedraw() {}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import "github.com/gogpu/gpucontext"

// Window is a resizable in-memory viewport.
type Window struct {
	gpucontext.NullWindowProvider
	redraws int
}

var _ gpucontext.WindowProvider = (*Window)(nil)

// NewWindow creates a width x height viewport with the given device pixel
// density. A zero scale factor means 1.
func NewWindow(width, height int, scaleFactor float64) *Window {
	return &Window{
		NullWindowProvider: gpucontext.NullWindowProvider{W: width, H: height, SF: scaleFactor},
	}
}

// Resize changes the viewport size.
func (w *Window) Resize(width, height int) {
	w.W, w.H = width, height
}

// SetScaleFactor changes the device pixel density.
func (w *Window) SetScaleFactor(f float64) {
	w.SF = f
}

// RequestRedraw counts redraw requests.
func (w *Window) RequestRedraw() { w.redraws++ }

// Redraws returns the number of RequestRedraw calls.
func (w *Window) Redraws() int { return w.redraws }

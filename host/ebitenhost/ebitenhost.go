// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitenhost runs a display Surface inside an ebiten game.
//
// The UI tree and its layout come from host/headless. The viewport is the
// outside size ebiten passes to Layout and the scale factor is the
// monitor's device scale factor. Canvas buffers are *ebiten.Image values
// owned by the Host. Context modes:
//
//   - "2d": a *Canvas giving access to the canvas buffer image
//   - "kage": a *kage.Context whose programs draw into the canvas buffer
//
// Wiring into a game:
//
//	func (g *Game) Layout(w, h int) (int, int) { return g.host.Layout(w, h) }
//
//	func (g *Game) Update() error {
//	    g.surface.Tick(time.Second / time.Duration(ebiten.TPS()))
//	    return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//	    g.prog.Bind()
//	    g.prog.SetUniform1f("Time", g.t)
//	    g.host.Present(screen, g.surface.Canvas(), [4]*ebiten.Image{})
//	}
package ebitenhost

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/display/gfx/kage"
	"github.com/gogpu/display/host"
	"github.com/gogpu/display/host/headless"
)

// Host adapts an ebiten game window to the display host interfaces.
type Host struct {
	doc     *headless.Document
	targets map[*headless.Element]*ebiten.Image

	// scaleFactor reads the device scale factor; replaced in tests.
	scaleFactor func() float64
}

// New creates a host with an empty tree. The viewport is 0x0 until the
// first Layout call.
func New() *Host {
	h := &Host{
		targets:     make(map[*headless.Element]*ebiten.Image),
		scaleFactor: monitorScale,
	}
	h.doc = headless.NewDocument(
		headless.WithWindow(headless.NewWindow(0, 0, 1)),
		headless.WithoutGPU(),
		headless.WithContext(host.Mode2D, 10, h.newCanvas, nil),
		headless.WithContext(host.ModeKage, 100, func(host.Element) (any, error) {
			return kage.New(), nil
		}, nil),
	)
	return h
}

func monitorScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Document returns the UI tree.
func (h *Host) Document() *headless.Document { return h.doc }

// Window returns the viewport.
func (h *Host) Window() host.Window { return h.doc.Window() }

// Layout records the outside size and scale factor and returns the screen
// size in device pixels. Call it from the game's Layout.
func (h *Host) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	sf := h.scaleFactor()
	if sf <= 0 || math.IsNaN(sf) {
		sf = 1
	}
	win := h.doc.Window()
	win.Resize(outsideWidth, outsideHeight)
	win.SetScaleFactor(sf)
	return int(math.Ceil(float64(outsideWidth) * sf)), int(math.Ceil(float64(outsideHeight) * sf))
}

// target returns the buffer image of el, reallocating it when the buffer
// size changed. It returns nil for an empty buffer.
func (h *Host) target(el *headless.Element) *ebiten.Image {
	w, ht := el.BufferSize()
	img := h.targets[el]
	if img != nil {
		if b := img.Bounds(); b.Dx() == w && b.Dy() == ht {
			return img
		}
		img.Deallocate()
		delete(h.targets, el)
	}
	if w <= 0 || ht <= 0 {
		return nil
	}
	img = ebiten.NewImage(w, ht)
	h.targets[el] = img
	return img
}

// Present renders the canvas and draws its buffer onto screen, scaled to
// the canvas client box. A kage program must be bound before the call;
// images are passed to it as source textures.
func (h *Host) Present(screen *ebiten.Image, canvas host.Element, images [4]*ebiten.Image) error {
	el, ok := canvas.(*headless.Element)
	if !ok {
		return fmt.Errorf("ebitenhost: foreign element %T", canvas)
	}
	img := h.target(el)
	if img == nil {
		return nil
	}
	if kc, ok := el.Context(el.ContextMode()).(*kage.Context); ok {
		img.Clear()
		b := img.Bounds()
		kc.Draw(img, b.Dx(), b.Dy(), images)
	}

	cw, ch := el.ClientSize()
	sf := h.doc.Window().ScaleFactor()
	b := img.Bounds()
	sx, sy := fit(b.Dx(), b.Dy(), float64(cw)*sf, float64(ch)*sf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(sx, sy)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
	return nil
}

// fit returns the scale that maps a bw x bh buffer onto a dw x dh box.
func fit(bw, bh int, dw, dh float64) (float64, float64) {
	if bw <= 0 || bh <= 0 {
		return 0, 0
	}
	return dw / float64(bw), dh / float64(bh)
}

// Close releases all buffer images.
func (h *Host) Close() {
	for el, img := range h.targets {
		img.Deallocate()
		delete(h.targets, el)
	}
}

// Canvas is the "2d" context of an ebiten host canvas.
type Canvas struct {
	host *Host
	el   *headless.Element
}

func (h *Host) newCanvas(target host.Element) (any, error) {
	el, ok := target.(*headless.Element)
	if !ok {
		return nil, fmt.Errorf("ebitenhost: foreign element %T", target)
	}
	return &Canvas{host: h, el: el}, nil
}

// Image returns the buffer image to draw into. The image is replaced when
// the buffer is resized, so fetch it every frame. It is nil while the
// buffer is empty.
func (c *Canvas) Image() *ebiten.Image {
	return c.host.target(c.el)
}

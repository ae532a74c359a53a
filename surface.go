package display

import (
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween"

	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/host"
)

// Element ids of the nodes a Surface creates.
const (
	ContainerID = "Display"
	CanvasID    = "DisplayRenderer"
)

// Surface is a drawable region of a host UI tree and its backing pixel
// buffer.
//
// A Surface is not safe for concurrent use. Call its methods from the
// goroutine driving the host frame loop.
type Surface struct {
	doc host.Document
	win host.Window

	container     host.Element
	canvas        host.Element
	ownsContainer bool

	scale      float64
	maxScale   float64
	autoResize bool
	modes      []host.ContextMode

	tween       *gween.Tween
	tweenTarget float64
	closed      bool
}

// New mounts a Surface in the host UI tree.
//
// Without WithContainer a div with id "Display" is created and appended
// to the document body. A canvas with id "DisplayRenderer", styled to fill
// the container, is always created and appended to the container. The
// container is then sized to 100% of its parent and the backing buffer
// is allocated.
//
// If the host cannot create or attach an element, New returns an error
// wrapping ErrHostMutation.
func New(doc host.Document, win host.Window, opts ...Option) (*Surface, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if win == nil {
		return nil, ErrNilWindow
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Surface{
		doc:        doc,
		win:        win,
		container:  o.container,
		maxScale:   o.maxScale,
		autoResize: o.autoResize,
		modes:      o.modes,
	}
	s.scale = s.clampScale(o.scale)

	if s.container == nil {
		div, err := doc.CreateElement("div")
		if err != nil {
			return nil, fmt.Errorf("%w: create container: %w", ErrHostMutation, err)
		}
		div.SetID(ContainerID)
		if err := doc.Body().AppendChild(div); err != nil {
			return nil, fmt.Errorf("%w: append container: %w", ErrHostMutation, err)
		}
		s.container = div
		s.ownsContainer = true
	}

	canvas, err := doc.CreateElement("canvas")
	if err != nil {
		s.detachContainer()
		return nil, fmt.Errorf("%w: create canvas: %w", ErrHostMutation, err)
	}
	canvas.SetID(CanvasID)
	canvas.SetStyleSize(host.Pct(100), host.Pct(100))
	if err := s.container.AppendChild(canvas); err != nil {
		s.detachContainer()
		return nil, fmt.Errorf("%w: append canvas: %w", ErrHostMutation, err)
	}
	s.canvas = canvas

	s.SetFillToContainer()
	s.Resize()

	Logger().Info("display: surface mounted",
		"container", s.container.ID(),
		"buffer_width", s.BufferWidth(),
		"buffer_height", s.BufferHeight())
	return s, nil
}

// Container returns the element the canvas is mounted in.
func (s *Surface) Container() host.Element { return s.container }

// Canvas returns the drawable element.
func (s *Surface) Canvas() host.Element { return s.canvas }

// SetFillToContainer sizes the surface to 100% of its parent's box.
func (s *Surface) SetFillToContainer() {
	s.SetSizeUnit(100, 100, host.Percent)
}

// SetSize sets the logical size of the surface in pixels. A zero height
// makes the region square.
func (s *Surface) SetSize(width, height float64) {
	s.SetSizeUnit(width, height, host.Pixels)
}

// SetSizeUnit sets the logical size of the surface in the given unit.
// A zero height makes the region square.
func (s *Surface) SetSizeUnit(width, height float64, unit host.Unit) {
	if s.closed {
		return
	}
	if height == 0 {
		height = width
	}
	s.container.SetStyleSize(
		host.Length{Value: width, Unit: unit},
		host.Length{Value: height, Unit: unit},
	)
}

// Tick advances a running resolution-scale animation by dt and, when auto
// resize is enabled, recomputes the backing buffer. It reports whether
// the buffer was reallocated.
func (s *Surface) Tick(dt time.Duration) bool {
	if s.closed {
		return false
	}
	animating := s.advance(dt)
	if !s.autoResize && !animating {
		return false
	}
	return s.Resize()
}

// Resize recomputes the backing buffer size from the canvas client size,
// the device pixel density and the resolution scale. The buffer is
// reallocated only when the size differs from the current one; Resize
// reports whether it was.
func (s *Surface) Resize() bool {
	if s.closed {
		return false
	}
	cw, ch := s.canvas.ClientSize()
	ratio := s.win.ScaleFactor() * s.scale
	w := int(math.Round(float64(cw) * ratio))
	h := int(math.Round(float64(ch) * ratio))

	bw, bh := s.canvas.BufferSize()
	if w == bw && h == bh {
		return false
	}
	s.canvas.SetBufferSize(w, h)
	Logger().Debug("display: buffer resized",
		"from_width", bw, "from_height", bh,
		"width", w, "height", h)
	return true
}

// SetResolutionScale sets the resolution scale and resizes immediately.
// The scale is clamped at zero and at the maximum set with
// WithMaxResolutionScale. NaN and infinite scales are treated as zero. A
// running animation is cancelled.
func (s *Surface) SetResolutionScale(scale float64) {
	if s.closed {
		return
	}
	s.tween = nil
	s.scale = s.clampScale(scale)
	s.Resize()
}

// ResolutionScale returns the current resolution scale.
func (s *Surface) ResolutionScale() float64 { return s.scale }

func (s *Surface) clampScale(scale float64) float64 {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 0 {
		return 0
	}
	if s.maxScale > 0 && scale > s.maxScale {
		scale = s.maxScale
	}
	return scale
}

// Window returns the host window.
func (s *Surface) Window() host.Window { return s.win }

// WindowWidth returns the host viewport width.
func (s *Surface) WindowWidth() int {
	w, _ := s.win.Size()
	return w
}

// WindowHeight returns the host viewport height.
func (s *Surface) WindowHeight() int {
	_, h := s.win.Size()
	return h
}

// DisplayWidth returns the container width in logical pixels.
func (s *Surface) DisplayWidth() int {
	w, _ := s.container.ClientSize()
	return w
}

// DisplayHeight returns the container height in logical pixels.
func (s *Surface) DisplayHeight() int {
	_, h := s.container.ClientSize()
	return h
}

// DisplayWidthPixelRatio returns the container width in device pixels.
func (s *Surface) DisplayWidthPixelRatio() float64 {
	return float64(s.DisplayWidth()) * s.win.ScaleFactor()
}

// DisplayHeightPixelRatio returns the container height in device pixels.
func (s *Surface) DisplayHeightPixelRatio() float64 {
	return float64(s.DisplayHeight()) * s.win.ScaleFactor()
}

// BufferWidth returns the width of the backing buffer.
func (s *Surface) BufferWidth() int {
	w, _ := s.canvas.BufferSize()
	return w
}

// BufferHeight returns the height of the backing buffer.
func (s *Surface) BufferHeight() int {
	_, h := s.canvas.BufferSize()
	return h
}

// AspectRatio returns BufferWidth / BufferHeight. It is +Inf or NaN when
// the buffer height is zero.
func (s *Surface) AspectRatio() float64 {
	w, h := s.canvas.BufferSize()
	return float64(w) / float64(h)
}

// RenderingContext returns a drawing context of the given mode, or nil
// when the host does not support it. As in the DOM, the first mode
// requested from a surface fixes its context kind.
func (s *Surface) RenderingContext(mode host.ContextMode) any {
	if s.closed {
		return nil
	}
	return s.canvas.Context(mode)
}

// GraphicsContext returns a GPU-accelerated context, trying the modes set
// with WithGraphicsModes in order. It returns ErrContextUnavailable when
// none can be obtained.
func (s *Surface) GraphicsContext() (gfx.Context, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	modes := s.modes
	if len(modes) == 0 {
		modes = s.gpuModes()
	}
	for _, mode := range modes {
		if gc, ok := s.canvas.Context(mode).(gfx.Context); ok {
			return gc, nil
		}
	}
	Logger().Warn("display: no graphics context", "modes", modes)
	return nil, ErrContextUnavailable
}

// gpuModes returns the available GPU modes of the document registry,
// best first.
func (s *Surface) gpuModes() []host.ContextMode {
	p, ok := s.doc.(host.RegistryProvider)
	if !ok {
		return nil
	}
	var modes []host.ContextMode
	for _, mode := range p.Registry().Available() {
		if mode.GPU() {
			modes = append(modes, mode)
		}
	}
	return modes
}

// Close detaches the canvas, and the container when the surface created
// it. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.tween = nil

	var err error
	if rmErr := s.container.RemoveChild(s.canvas); rmErr != nil {
		err = rmErr
	}
	if detachErr := s.detachContainer(); detachErr != nil && err == nil {
		err = detachErr
	}
	Logger().Info("display: surface closed", "container", s.container.ID())
	return err
}

// detachContainer removes a container created by New from the body.
func (s *Surface) detachContainer() error {
	if !s.ownsContainer || s.container == nil {
		return nil
	}
	return s.doc.Body().RemoveChild(s.container)
}

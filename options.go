package display

import "github.com/gogpu/display/host"

// Option configures a Surface during creation.
//
// Example:
//
//	// Mount into an existing element at half resolution
//	s, err := display.New(doc, win,
//	    display.WithContainer(app),
//	    display.WithResolutionScale(0.5),
//	)
type Option func(*options)

// options holds optional configuration for Surface creation.
type options struct {
	container  host.Element
	scale      float64
	maxScale   float64
	autoResize bool
	modes      []host.ContextMode
}

// defaultOptions returns the default surface options.
func defaultOptions() options {
	return options{
		scale:      1,
		autoResize: true,
		modes:      []host.ContextMode{host.ModeWebGL},
	}
}

// WithContainer mounts the surface into an existing element instead of
// creating its own container under the document body.
func WithContainer(el host.Element) Option {
	return func(o *options) {
		o.container = el
	}
}

// WithResolutionScale sets the initial resolution scale. Values below
// zero are clamped to zero.
func WithResolutionScale(scale float64) Option {
	return func(o *options) {
		o.scale = scale
	}
}

// WithMaxResolutionScale sets an upper bound for the resolution scale.
// Zero or a negative value means no bound, which is the default.
func WithMaxResolutionScale(limit float64) Option {
	return func(o *options) {
		o.maxScale = limit
	}
}

// WithAutoResize controls whether Tick recomputes the backing buffer.
// Explicit calls to Resize and SetResolutionScale always do.
func WithAutoResize(enabled bool) Option {
	return func(o *options) {
		o.autoResize = enabled
	}
}

// WithGraphicsModes sets the context modes GraphicsContext tries, in
// order. The default is webgl. With no modes, GraphicsContext tries the
// available GPU modes of the document's context registry, best first.
func WithGraphicsModes(modes ...host.ContextMode) Option {
	return func(o *options) {
		o.modes = append([]host.ContextMode(nil), modes...)
	}
}

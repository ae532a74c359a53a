package display

import "errors"

// Errors returned by Surface.
var (
	// ErrNilDocument is returned by New when no host document is given.
	ErrNilDocument = errors.New("display: nil host document")

	// ErrNilWindow is returned by New when no host window is given.
	ErrNilWindow = errors.New("display: nil host window")

	// ErrHostMutation is returned when the host refuses to create or
	// attach an element. The surface cannot be used.
	ErrHostMutation = errors.New("display: host cannot attach elements")

	// ErrContextUnavailable is returned by GraphicsContext when the host
	// cannot provide a GPU-accelerated context.
	ErrContextUnavailable = errors.New("display: graphics context unavailable")

	// ErrSurfaceClosed is returned when using a closed surface.
	ErrSurfaceClosed = errors.New("display: surface closed")
)

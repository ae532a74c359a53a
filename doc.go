// Package display provides a device-independent rendering surface.
//
// # Overview
//
// A Surface owns a drawable region mounted in a host UI tree and the
// backing pixel buffer behind it. It resolves the laid out size of the
// region, the device pixel density reported by the host window and a
// caller-controlled resolution scale into physical buffer dimensions:
//
//	buffer = round(clientSize × ScaleFactor × resolutionScale)
//
// The buffer is reallocated only when this size actually changes, so
// calling Tick once per frame is cheap.
//
// # Quick Start
//
//	doc := headless.NewDocument(headless.WithWindow(headless.NewWindow(800, 600, 2)))
//	s, err := display.New(doc, doc.Window())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	gc, err := s.GraphicsContext()
//	if err != nil {
//	    log.Fatal(err) // display.ErrContextUnavailable
//	}
//	prog, err := shader.New(gc, vertexWGSL, fragmentWGSL)
//
//	for frame := range frames {
//	    s.Tick(frame.Delta)
//	    prog.Bind()
//	    prog.SetUniform2f("u_resolution", float32(s.BufferWidth()), float32(s.BufferHeight()))
//	}
//
// # Hosts
//
// The UI tree, window and drawing contexts come from package host:
// host/headless for tests and tooling, host/browser for js/wasm and
// host/ebitenhost for ebiten games.
//
// # Logging
//
// display is silent by default. Use SetLogger to route diagnostics of
// display and its sub-packages to a log/slog logger.
package display

//go:build js && wasm

// Command displayweb runs the plasma shader on a browser page.
//
//	GOOS=js GOARCH=wasm go build -o displayweb.wasm ./cmd/displayweb
//
// The surface mounts itself under document.body and follows the window
// size and device pixel ratio every animation frame.
package main

import (
	"log"
	"log/slog"
	"os"
	"syscall/js"
	"time"

	"github.com/gogpu/display"
	"github.com/gogpu/display/gfx/webgl"
	"github.com/gogpu/display/host"
	"github.com/gogpu/display/host/browser"
	"github.com/gogpu/display/internal/shaders"
	"github.com/gogpu/display/shader"
)

func main() {
	display.SetLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	doc := browser.NewDocument()
	s, err := display.New(doc, doc.Window(), display.WithGraphicsModes(host.ModeWebGL2, host.ModeWebGL))
	if err != nil {
		log.Fatal(err)
	}
	gc, err := s.GraphicsContext()
	if err != nil {
		log.Fatal(err)
	}
	wgl, ok := gc.(*webgl.Context)
	if !ok {
		log.Fatalf("displayweb: unexpected graphics context %T", gc)
	}
	prog, err := shader.New(gc, shaders.QuadVertex, shaders.PlasmaFragment, shader.WithLocationCache())
	if err != nil {
		log.Fatal(err)
	}

	var (
		frame int32
		last  float64
		draw  js.Func
	)
	draw = js.FuncOf(func(_ js.Value, args []js.Value) any {
		now := args[0].Float()
		if last != 0 {
			s.Tick(time.Duration((now - last) * float64(time.Millisecond)))
		}
		last = now

		prog.Bind()
		prog.SetUniform1f("u_time", float32(now/1000))
		prog.SetUniform2f("u_resolution", float32(s.BufferWidth()), float32(s.BufferHeight()))
		prog.SetUniform1i("u_frame", frame)
		wgl.Draw(s.BufferWidth(), s.BufferHeight())
		frame++

		js.Global().Call("requestAnimationFrame", draw)
		return nil
	})
	js.Global().Call("requestAnimationFrame", draw)

	select {}
}

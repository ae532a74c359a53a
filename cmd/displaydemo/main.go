// Command displaydemo drives a display Surface on a headless host.
//
// It mounts a surface, obtains a graphics context, builds a shader program
// and simulates a number of frames, resizing the window and animating the
// resolution scale along the way.
//
//	displaydemo -frames 240 -v
//	displaydemo -config display.toml -watch
//	displaydemo -backend webgpu -png layout.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gg"
	"github.com/tanema/gween/ease"

	"github.com/gogpu/display"
	"github.com/gogpu/display/config"
	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/host"
	"github.com/gogpu/display/host/headless"
	"github.com/gogpu/display/internal/shaders"
	"github.com/gogpu/display/shader"
	"github.com/gogpu/display/shader/hotreload"
)

const frameTime = time.Second / 60

type flags struct {
	config  string
	frames  int
	scale   float64
	watch   bool
	verbose bool
	backend string
	png     string
}

func main() {
	var f flags
	flag.StringVar(&f.config, "config", "", "TOML configuration file")
	flag.IntVar(&f.frames, "frames", 120, "number of frames to simulate")
	flag.Float64Var(&f.scale, "scale", -1, "resolution scale (negative keeps the configured value)")
	flag.BoolVar(&f.watch, "watch", false, "rebuild the shader program when its files change")
	flag.BoolVar(&f.verbose, "v", false, "verbose logging")
	flag.StringVar(&f.backend, "backend", "soft", "graphics backend: soft or webgpu")
	flag.StringVar(&f.png, "png", "", "write a picture of the surface layout to this file")
	flag.Parse()

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

func run(f flags) error {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	display.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return err
		}
	}

	docOpts := []headless.Option{
		headless.WithWindow(headless.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.ScaleFactor)),
	}
	surfaceOpts := cfg.SurfaceOptions()
	switch f.backend {
	case "soft":
	case "webgpu":
		dev, err := openDevice()
		if err != nil {
			return fmt.Errorf("webgpu backend: %w", err)
		}
		defer dev.Release()
		docOpts = append(docOpts, headless.WithContext(host.ModeWebGPU, 200, dev.newContext, nil))
		surfaceOpts = append(surfaceOpts, display.WithGraphicsModes(host.ModeWebGPU))
	default:
		return fmt.Errorf("unknown backend %q", f.backend)
	}

	doc := headless.NewDocument(docOpts...)
	s, err := display.New(doc, doc.Window(), surfaceOpts...)
	if err != nil {
		return err
	}
	defer s.Close()
	cfg.ApplySize(s)
	if f.scale >= 0 {
		s.SetResolutionScale(f.scale)
	}
	s.Resize()

	gc, err := s.GraphicsContext()
	if err != nil {
		return err
	}

	src, err := newSource(gc, cfg, f.watch)
	if err != nil {
		return err
	}
	defer src.Close()

	resizes := 0
	for i := 0; i < f.frames; i++ {
		switch i {
		case f.frames / 3:
			w, h := doc.Window().Size()
			doc.Window().Resize(w/2, h/2)
		case f.frames / 2:
			s.AnimateResolutionScale(s.ResolutionScale()/2, 500*time.Millisecond, ease.InOutQuad)
		}
		if s.Tick(frameTime) {
			resizes++
		}

		prog := src.Program()
		prog.Bind()
		prog.SetUniform1f("u_time", float32(i)*float32(frameTime.Seconds()))
		prog.SetUniform2f("u_resolution", float32(s.BufferWidth()), float32(s.BufferHeight()))
		prog.SetUniform1i("u_frame", int32(i))
		reportErrors(gc)

		if f.watch {
			time.Sleep(frameTime)
		}
	}

	display.Logger().Info("displaydemo: done",
		"frames", f.frames,
		"resizes", resizes,
		"buffer_width", s.BufferWidth(),
		"buffer_height", s.BufferHeight(),
		"resolution_scale", s.ResolutionScale(),
		"aspect_ratio", s.AspectRatio())

	if f.png != "" {
		if err := drawLayout(s, f.png); err != nil {
			return err
		}
		display.Logger().Info("displaydemo: layout written", "path", f.png)
	}
	return nil
}

// reportErrors drains the error flag of contexts that have one.
func reportErrors(gc gfx.Context) {
	er, ok := gc.(gfx.ErrorReporter)
	if !ok {
		return
	}
	for code := er.Err(); code != gfx.NoError; code = er.Err() {
		display.Logger().Warn("displaydemo: graphics error", "code", code.String())
	}
}

// source yields the program to draw with: fixed, or rebuilt from files.
type source struct {
	prog     *shader.Program
	reloader *hotreload.Reloader
}

func newSource(gc gfx.Context, cfg config.Config, watch bool) (*source, error) {
	opts := cfg.ShaderOptions()
	if cfg.Shader.Vertex == "" {
		if watch {
			return nil, errors.New("-watch needs shader.vertex and shader.fragment in the configuration")
		}
		p, err := shader.New(gc, shaders.QuadVertex, shaders.PlasmaFragment, opts...)
		if err != nil {
			return nil, err
		}
		return &source{prog: p}, nil
	}
	if watch {
		r, err := hotreload.New(gc, cfg.Shader.Vertex, cfg.Shader.Fragment, opts...)
		if err != nil {
			return nil, err
		}
		return &source{reloader: r}, nil
	}
	vs, err := os.ReadFile(cfg.Shader.Vertex)
	if err != nil {
		return nil, err
	}
	fs, err := os.ReadFile(cfg.Shader.Fragment)
	if err != nil {
		return nil, err
	}
	p, err := shader.New(gc, string(vs), string(fs), opts...)
	if err != nil {
		return nil, err
	}
	if !p.Status().OK() {
		display.Logger().Warn("displaydemo: program did not build", "error", p.Status().Err())
	}
	return &source{prog: p}, nil
}

func (s *source) Program() *shader.Program {
	if s.reloader != nil {
		p, _ := s.reloader.Poll()
		return p
	}
	return s.prog
}

func (s *source) Close() error {
	if s.reloader != nil {
		return s.reloader.Close()
	}
	return s.prog.Close()
}

// drawLayout pictures the window, the surface and its buffer size.
func drawLayout(s *display.Surface, path string) error {
	ww, wh := max(s.WindowWidth(), 1), max(s.WindowHeight(), 1)
	dc := gg.NewContext(ww, wh)
	defer dc.Close()

	dc.SetRGB(0.12, 0.12, 0.14)
	dc.DrawRectangle(0, 0, float64(ww), float64(wh))
	_ = dc.Fill()

	dw, dh := float64(s.DisplayWidth()), float64(s.DisplayHeight())
	dc.SetRGBA(0.2, 0.5, 0.9, 0.6)
	dc.DrawRectangle(0, 0, dw, dh)
	_ = dc.Fill()

	// Buffer size in logical pixels: smaller than the display when the
	// resolution scale is below one.
	if ratio := s.Window().ScaleFactor(); ratio > 0 {
		bw, bh := float64(s.BufferWidth())/ratio, float64(s.BufferHeight())/ratio
		dc.SetRGB(1, 0.8, 0)
		dc.SetLineWidth(2)
		dc.DrawRectangle(1, 1, bw-2, bh-2)
		_ = dc.Stroke()
	}
	return dc.SavePNG(path)
}

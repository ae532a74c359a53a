// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hotreload rebuilds a shader.Program when its source files change.
//
// File events are collected by an fsnotify watcher goroutine. The rebuild
// itself happens in Poll, on the goroutine that owns the graphics context,
// typically once per host tick:
//
//	r, err := hotreload.New(gc, "quad.wgsl", "plasma.wgsl")
//	...
//	defer r.Close()
//	for frame := range frames {
//	    prog, _ := r.Poll()
//	    prog.Bind()
//	    ...
//	}
//
// A source that fails to build is logged and the previous program is kept.
package hotreload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/display"
	"github.com/gogpu/display/gfx"
	"github.com/gogpu/display/shader"
)

// ErrClosed is returned by Reload after Close.
var ErrClosed = errors.New("hotreload: reloader closed")

// Reloader owns a Program built from two files and replaces it when either
// file changes.
type Reloader struct {
	ctx          gfx.Context
	vertexPath   string
	fragmentPath string
	opts         []shader.Option

	watcher *fsnotify.Watcher
	changed chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup

	program *shader.Program
	builds  int
	closed  bool
}

// New builds the initial program and starts watching the two files. The
// initial build must succeed.
func New(ctx gfx.Context, vertexPath, fragmentPath string, opts ...shader.Option) (*Reloader, error) {
	r := &Reloader{
		ctx:          ctx,
		vertexPath:   filepath.Clean(vertexPath),
		fragmentPath: filepath.Clean(fragmentPath),
		opts:         append(append([]shader.Option(nil), opts...), shader.WithStrictLink()),
		changed:      make(chan struct{}, 1),
		done:         make(chan struct{}),
	}

	p, err := r.build()
	if err != nil {
		return nil, err
	}
	r.program = p

	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("hotreload: %w", err)
	}
	// Watch directories: editors often replace files by renaming.
	dirs := map[string]bool{filepath.Dir(r.vertexPath): true, filepath.Dir(r.fragmentPath): true}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			_ = p.Close()
			return nil, fmt.Errorf("hotreload: watch %s: %w", dir, err)
		}
	}
	r.watcher = w

	r.wg.Add(1)
	go r.watch()
	return r, nil
}

func (r *Reloader) watch() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !r.relevant(ev) {
				continue
			}
			display.Logger().Debug("hotreload: source changed", "file", ev.Name, "op", ev.Op.String())
			select {
			case r.changed <- struct{}{}:
			default:
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			display.Logger().Warn("hotreload: watcher error", "error", err)
		}
	}
}

func (r *Reloader) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == r.vertexPath || name == r.fragmentPath
}

func (r *Reloader) build() (*shader.Program, error) {
	vs, err := os.ReadFile(r.vertexPath)
	if err != nil {
		return nil, fmt.Errorf("hotreload: %w", err)
	}
	fs, err := os.ReadFile(r.fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("hotreload: %w", err)
	}
	p, err := shader.New(r.ctx, string(vs), string(fs), r.opts...)
	if err != nil {
		return nil, err
	}
	r.builds++
	return p, nil
}

// Program returns the current program.
func (r *Reloader) Program() *shader.Program { return r.program }

// Builds returns the number of successful builds, including the initial one.
func (r *Reloader) Builds() int { return r.builds }

// Poll rebuilds the program if a source file changed since the last call.
// It returns the current program and whether it was replaced. Poll never
// blocks.
func (r *Reloader) Poll() (*shader.Program, bool) {
	select {
	case <-r.changed:
	default:
		return r.program, false
	}
	if err := r.Reload(); err != nil {
		display.Logger().Error("hotreload: rebuild failed", "error", err)
		return r.program, false
	}
	return r.program, true
}

// Reload rebuilds the program now. On failure the current program is kept
// and the build error is returned.
func (r *Reloader) Reload() error {
	if r.closed {
		return ErrClosed
	}
	p, err := r.build()
	if err != nil {
		return err
	}
	old := r.program
	r.program = p
	if old != nil {
		_ = old.Close()
	}
	display.Logger().Info("hotreload: program rebuilt", "program", p.ID(), "builds", r.builds)
	return nil
}

// Close stops watching and deletes the current program. Close is
// idempotent.
func (r *Reloader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.done)
	err := r.watcher.Close()
	r.wg.Wait()
	if r.program != nil {
		_ = r.program.Close()
	}
	return err
}

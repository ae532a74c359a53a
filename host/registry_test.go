// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"errors"
	"testing"
)

type fakeContext struct{ mode ContextMode }

func factoryFor(mode ContextMode) ContextFactory {
	return func(Element) (any, error) {
		return &fakeContext{mode: mode}, nil
	}
}

// TestRegistryRegister tests mode registration.
func TestRegistryRegister(t *testing.T) {
	r := NewContextRegistry()
	r.Register(ModeWebGL, 50, factoryFor(ModeWebGL), nil)

	if list := r.List(); len(list) != 1 || list[0] != ModeWebGL {
		t.Fatalf("List() = %v, want [webgl]", list)
	}
	if available := r.Available(); len(available) != 1 {
		t.Error("mode should be available (nil Available func)")
	}
	ctx, err := r.New(ModeWebGL, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ctx.(*fakeContext).mode != ModeWebGL {
		t.Errorf("context mode = %s, want webgl", ctx.(*fakeContext).mode)
	}
}

// TestRegistryUnregister tests mode removal.
func TestRegistryUnregister(t *testing.T) {
	r := NewContextRegistry()
	r.Register(Mode2D, 10, factoryFor(Mode2D), nil)
	r.Unregister(Mode2D)

	if list := r.List(); len(list) != 0 {
		t.Errorf("List() = %v after unregister, want empty", list)
	}
	var notFound *ModeNotFoundError
	if _, err := r.New(Mode2D, nil); !errors.As(err, &notFound) {
		t.Errorf("New(2d) error = %v, want ModeNotFoundError", err)
	}
}

// TestRegistryList tests listing modes by priority.
func TestRegistryList(t *testing.T) {
	r := NewContextRegistry()
	r.Register(Mode2D, 10, factoryFor(Mode2D), nil)
	r.Register(ModeWebGL2, 100, factoryFor(ModeWebGL2), nil)
	r.Register(ModeWebGL, 50, factoryFor(ModeWebGL), nil)

	list := r.List()
	want := []ContextMode{ModeWebGL2, ModeWebGL, Mode2D}
	if len(list) != len(want) {
		t.Fatalf("List() = %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, list[i], want[i])
		}
	}
}

// TestRegistryAvailable tests filtering by availability.
func TestRegistryAvailable(t *testing.T) {
	r := NewContextRegistry()
	r.Register(ModeWebGL, 100, factoryFor(ModeWebGL), func() bool { return true })
	r.Register(ModeWebGPU, 200, factoryFor(ModeWebGPU), func() bool { return false })

	available := r.Available()
	if len(available) != 1 || available[0] != ModeWebGL {
		t.Errorf("Available() = %v, want [webgl]", available)
	}
}

// TestRegistryErrors tests the typed errors.
func TestRegistryErrors(t *testing.T) {
	r := NewContextRegistry()
	if available := r.Available(); available != nil {
		t.Errorf("Available() on empty registry = %v, want nil", available)
	}

	_, err := r.New(ModeKage, nil)
	var notFound *ModeNotFoundError
	if !errors.As(err, &notFound) || notFound.Mode != ModeKage {
		t.Errorf("New(kage) error = %v, want ModeNotFoundError", err)
	}

	r.Register(ModeWebGPU, 100, factoryFor(ModeWebGPU), func() bool { return false })
	_, err = r.New(ModeWebGPU, nil)
	var unavailable *ModeUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("New(webgpu) error = %v, want ModeUnavailableError", err)
	}

	factoryErr := errors.New("creation failed")
	r.Register(ModeWebGL, 50, func(Element) (any, error) { return nil, factoryErr }, nil)
	if _, err := r.New(ModeWebGL, nil); !errors.Is(err, factoryErr) {
		t.Errorf("New(webgl) error = %v, want factory error", err)
	}
}

// TestRegistryOverwrite tests that re-registering overwrites.
func TestRegistryOverwrite(t *testing.T) {
	r := NewContextRegistry()
	r.Register(Mode2D, 10, factoryFor(Mode2D), nil)
	r.Register(Mode2D, 50, factoryFor(Mode2D), nil)
	r.Register(ModeWebGL, 40, factoryFor(ModeWebGL), nil)

	list := r.List()
	if len(list) != 2 || list[0] != Mode2D {
		t.Errorf("List() = %v, want [2d webgl] (priority should be overwritten)", list)
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (&ModeNotFoundError{Mode: ModeWebGPU}).Error(); got != "host: context mode not found: webgpu" {
		t.Errorf("ModeNotFoundError = %q", got)
	}
	if got := (&ModeUnavailableError{Mode: ModeKage}).Error(); got != "host: context mode unavailable: kage" {
		t.Errorf("ModeUnavailableError = %q", got)
	}
}

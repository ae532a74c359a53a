// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package host

import (
	"sort"
	"sync"
)

// ContextFactory creates a drawing context for an element.
type ContextFactory func(target Element) (any, error)

// RegistryEntry represents a registered context mode.
type RegistryEntry struct {
	// Mode is the unique identifier of the entry.
	Mode ContextMode

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU contexts (webgpu, webgl2)
	//   - 50: older GPU contexts (webgl)
	//   - 10: software contexts (2d)
	Priority int

	// Factory creates context instances.
	Factory ContextFactory

	// Available reports whether the mode can be used on this host.
	Available func() bool
}

// ContextRegistry maps context modes to factories.
//
// Hosts keep one registry each and consult it from Element.Context.
//
// Example:
//
//	r := host.NewContextRegistry()
//	r.Register(host.Mode2D, 10, newCanvas2D, nil)
//	r.Register(host.ModeWebGL2, 100, newWebGL2, hasWebGL2)
//	for _, mode := range r.Available() {
//		if ctx, err := r.New(mode, canvas); err == nil {
//			return ctx, nil
//		}
//	}
type ContextRegistry struct {
	mu      sync.RWMutex
	entries map[ContextMode]*RegistryEntry
}

// NewContextRegistry creates a new empty registry.
func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{
		entries: make(map[ContextMode]*RegistryEntry),
	}
}

// Register adds a mode to the registry.
//
// If available is nil, the mode is assumed always available.
// Registering a mode that already exists replaces the previous entry.
func (r *ContextRegistry) Register(mode ContextMode, priority int, factory ContextFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[ContextMode]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[mode] = &RegistryEntry{
		Mode:      mode,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a mode from the registry.
func (r *ContextRegistry) Unregister(mode ContextMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, mode)
}

// List returns all registered modes sorted by priority.
func (r *ContextRegistry) List() []ContextMode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedModes(false)
}

// Available returns all available modes sorted by priority.
func (r *ContextRegistry) Available() []ContextMode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedModes(true)
}

// New creates a context of a specific mode.
func (r *ContextRegistry) New(mode ContextMode, target Element) (any, error) {
	r.mu.RLock()
	entry, ok := r.entries[mode]
	r.mu.RUnlock()

	if !ok {
		return nil, &ModeNotFoundError{Mode: mode}
	}

	if !entry.Available() {
		return nil, &ModeUnavailableError{Mode: mode}
	}

	return entry.Factory(target)
}

// sortedModes returns modes sorted by priority (highest first), ties by
// name. Must be called with lock held.
func (r *ContextRegistry) sortedModes(onlyAvailable bool) []ContextMode {
	if len(r.entries) == 0 {
		return nil
	}

	entries := make([]*RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Mode < entries[j].Mode
	})

	modes := make([]ContextMode, len(entries))
	for i, e := range entries {
		modes[i] = e.Mode
	}
	return modes
}

// RegistryProvider is implemented by documents whose canvas elements
// create contexts from a ContextRegistry.
type RegistryProvider interface {
	Registry() *ContextRegistry
}

// ModeNotFoundError indicates a mode is not registered.
type ModeNotFoundError struct {
	Mode ContextMode
}

func (e *ModeNotFoundError) Error() string {
	return "host: context mode not found: " + string(e.Mode)
}

// ModeUnavailableError indicates a mode is registered but not available.
type ModeUnavailableError struct {
	Mode ContextMode
}

func (e *ModeUnavailableError) Error() string {
	return "host: context mode unavailable: " + string(e.Mode)
}

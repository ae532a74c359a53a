// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

// Option configures a Program during creation.
type Option func(*options)

type options struct {
	strict bool
	cache  bool
}

// WithStrictLink makes New fail when a stage does not compile or the
// program does not link. The program object is deleted and the error is
// the one returned by Status.Err.
func WithStrictLink() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithLocationCache caches uniform locations by name. Without it every
// setter queries the context.
func WithLocationCache() Option {
	return func(o *options) {
		o.cache = true
	}
}

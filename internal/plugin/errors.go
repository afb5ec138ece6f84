// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package plugin

import "errors"

// Sentinel errors for programmatic error checking.
var (
	// ErrHostClosed is returned when operations are attempted on a closed host.
	ErrHostClosed = errors.New("host is closed")
	// ErrNotFound is returned when no plugin artifact exists at the given path.
	ErrNotFound = errors.New("plugin artifact not found")
	// ErrBindFailed is returned when an artifact exists but cannot be
	// attached: launch failure, handshake failure, or a missing entry point.
	ErrBindFailed = errors.New("plugin bind failed")
	// ErrABIMismatch is returned when a plugin's declared ABI version does
	// not exactly match the host's.
	ErrABIMismatch = errors.New("plugin ABI version mismatch")
	// ErrNotLoaded is returned when operating on a plugin id that is not
	// currently loaded.
	ErrNotLoaded = errors.New("plugin not loaded")
	// ErrInUse is returned when unloading a plugin that has an invocation
	// in flight.
	ErrInUse = errors.New("plugin has a command in flight")
)

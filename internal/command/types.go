// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

// Package command provides the command registry, tokenizer, argument
// marshaling, and dispatch system.
package command

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

// Entry represents a registered plugin command. It holds only a non-owning
// reference to the serving plugin (its id plus the in-plugin entry name),
// never a handle into the plugin itself, so unloading invalidates every
// entry atomically by removal.
type Entry struct {
	Name     string                // name the user types (unique in the registry)
	Plugin   ulid.ULID             // owning plugin id
	Command  string                // entry-point name inside the plugin
	Usage    string                // usage pattern (e.g., "echo [words...]")
	Help     string                // short description (one line)
	Args     []pluginsdk.ArgKind   // declared argument kinds, in order
	Variadic bool                  // extra string arguments allowed after Args
	Returns  pluginsdk.ReturnKind  // what a successful invocation produces
	Errors   map[int32]string      // declared error codes and their labels
	Source   string                // plugin display name, for diagnostics
}

// Invoker delivers a marshaled invocation to a loaded plugin. Implemented
// by the plugin host; dispatch never touches plugin handles directly.
type Invoker interface {
	Invoke(ctx context.Context, id ulid.ULID, command string, args []pluginsdk.Value) (pluginsdk.InvokeReply, error)
}

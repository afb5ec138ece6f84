// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

// Registry maps live command names to the plugin entries serving them.
// At most one entry exists per name; the first registration wins and later
// ones are rejected with a collision error. It is thread-safe, although
// all mutation normally happens on the single dispatch goroutine.
type Registry struct {
	commands map[string]Entry
	mu       sync.RWMutex
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Entry),
	}
}

// Register adds a command to the registry. Returns a NAME_COLLISION error
// if the name already has a live entry; the existing entry is untouched.
func (r *Registry) Register(entry Entry) error {
	if err := pluginsdk.ValidateCommandName(entry.Name); err != nil {
		return oopsInvalidName(entry.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.commands[entry.Name]; ok {
		slog.Warn("command collision: keeping existing command",
			"command", entry.Name,
			"existing_source", existing.Source,
			"rejected_source", entry.Source)
		return ErrNameCollision(entry.Name, existing.Source, entry.Source)
	}

	r.commands[entry.Name] = entry
	return nil
}

// Resolve retrieves a command by name. Absence is not an error at this
// layer; the dispatch loop decides how to report an unknown command.
func (r *Registry) Resolve(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.commands[name]
	return entry, ok
}

// UnregisterAll removes every entry owned by the given plugin id and
// returns how many were removed. Idempotent.
func (r *Registry) UnregisterAll(id ulid.ULID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for name, entry := range r.commands {
		if entry.Plugin == id {
			delete(r.commands, name)
			removed++
		}
	}
	return removed
}

// All returns every registered command sorted by name.
// The returned slice is a copy and safe to modify.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.commands))
	for _, e := range r.commands {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	hashiplug "github.com/hashicorp/go-plugin"
	"github.com/oklog/ulid/v2"

	"github.com/plugsh/plugsh/internal/command"
	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

// Compile-time interface check: the host is the dispatcher's invoker.
var _ command.Invoker = (*Host)(nil)

// PluginClient wraps a go-plugin client for testability.
type PluginClient interface {
	// Client returns the RPC client protocol.
	Client() (hashiplug.ClientProtocol, error)
	// Kill terminates the plugin process.
	Kill()
}

// ClientFactory creates plugin clients.
type ClientFactory interface {
	// NewClient creates a client for the given executable path.
	NewClient(execPath string) PluginClient
}

// DefaultClientFactory creates real go-plugin clients.
type DefaultClientFactory struct{}

// NewClient creates a real go-plugin client.
func (f *DefaultClientFactory) NewClient(execPath string) PluginClient {
	return hashiplug.NewClient(&hashiplug.ClientConfig{
		HandshakeConfig: pluginsdk.HandshakeConfig,
		Plugins: map[string]hashiplug.Plugin{
			pluginsdk.PluginMapKey: &pluginsdk.CommandPlugin{},
		},
		Cmd: exec.Command(execPath), // #nosec G204 -- execPath comes from an operator-supplied load command or a validated manifest
	})
}

// Info is a read-only snapshot of one loaded plugin for listings.
type Info struct {
	ID         ulid.ULID
	Name       string
	ABIVersion uint32
	Path       string
	Commands   []string
	HasPrompt  bool
}

// loadedPlugin holds state for a single loaded plugin. It exclusively owns
// the child process handle; the command registry refers to it only by id.
type loadedPlugin struct {
	id        ulid.ULID
	path      string
	name      string
	abi       uint32
	hasPrompt bool
	commands  []string
	client    PluginClient
	conn      pluginsdk.Connector
}

// Host is the plugin loader and process-wide session state: the table of
// loaded plugins keyed by id, living from load until explicit unload or
// host shutdown. Loading registers the plugin's commands into the shared
// registry; unloading unregisters them before the process is killed so no
// new dispatch can resolve a command that is about to vanish.
type Host struct {
	registry      *command.Registry
	clientFactory ClientFactory
	plugins       map[ulid.ULID]*loadedPlugin
	order         []ulid.ULID
	busy          map[ulid.ULID]int
	mu            sync.RWMutex
	closed        bool
}

// NewHost creates a plugin host over the given command registry.
// Panics if registry is nil.
func NewHost(registry *command.Registry) *Host {
	if registry == nil {
		panic("plugin: registry cannot be nil")
	}
	return &Host{
		registry:      registry,
		clientFactory: &DefaultClientFactory{},
		plugins:       make(map[ulid.ULID]*loadedPlugin),
		busy:          make(map[ulid.ULID]int),
	}
}

// NewHostWithFactory creates a host with a custom client factory (for
// testing). Panics if registry or factory is nil.
func NewHostWithFactory(registry *command.Registry, factory ClientFactory) *Host {
	if factory == nil {
		panic("plugin: factory cannot be nil")
	}
	h := NewHost(registry)
	h.clientFactory = factory
	return h
}

// Load binds the artifact at path, validates its ABI version, registers
// its commands, and returns the fresh plugin id. path may be a plugin
// directory containing plugin.yaml or a bare executable. If binding or
// the version check fails, the child is killed and no state changes are
// observable. A command name collision does not abort the load: the
// colliding command is skipped with a warning and the rest register.
func (h *Host) Load(ctx context.Context, path string) (ulid.ULID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ulid.ULID{}, ErrHostClosed
	}

	execPath, err := resolveExecutable(path)
	if err != nil {
		return ulid.ULID{}, err
	}

	client := h.clientFactory.NewClient(execPath)

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return ulid.ULID{}, fmt.Errorf("%w: connect to %s: %w", ErrBindFailed, path, err)
	}

	raw, err := rpcClient.Dispense(pluginsdk.PluginMapKey)
	if err != nil {
		client.Kill()
		return ulid.ULID{}, fmt.Errorf("%w: dispense %s: %w", ErrBindFailed, path, err)
	}

	conn, ok := raw.(pluginsdk.Connector)
	if !ok {
		client.Kill()
		return ulid.ULID{}, fmt.Errorf("%w: %s does not implement the command contract", ErrBindFailed, path)
	}

	desc, err := conn.Describe()
	if err != nil {
		client.Kill()
		return ulid.ULID{}, fmt.Errorf("%w: describe %s: %w", ErrBindFailed, path, err)
	}

	if desc.ABIVersion != pluginsdk.ABIVersion {
		client.Kill()
		return ulid.ULID{}, fmt.Errorf("%w: %s declares ABI %d, host requires %d",
			ErrABIMismatch, path, desc.ABIVersion, pluginsdk.ABIVersion)
	}

	id := NewID()
	registered := make([]string, 0, len(desc.Commands))
	for _, info := range desc.Commands {
		entry := command.Entry{
			Name:     info.Name,
			Plugin:   id,
			Command:  info.Name,
			Usage:    info.Usage,
			Help:     info.Help,
			Args:     info.Args,
			Variadic: info.Variadic,
			Returns:  info.Returns,
			Errors:   info.Errors,
			Source:   desc.Name,
		}
		if rerr := h.registry.Register(entry); rerr != nil {
			slog.Warn("skipping plugin command",
				"plugin", desc.Name,
				"plugin_id", id.String(),
				"command", info.Name,
				"error", rerr)
			continue
		}
		registered = append(registered, info.Name)
	}

	h.plugins[id] = &loadedPlugin{
		id:        id,
		path:      path,
		name:      desc.Name,
		abi:       desc.ABIVersion,
		hasPrompt: desc.HasPrompt,
		commands:  registered,
		client:    client,
		conn:      conn,
	}
	h.order = append(h.order, id)
	command.PluginsLoaded.Set(float64(len(h.plugins)))

	slog.InfoContext(ctx, "loaded plugin",
		"plugin", desc.Name,
		"plugin_id", id.String(),
		"path", path,
		"abi_version", desc.ABIVersion,
		"commands", len(registered))

	return id, nil
}

// resolveExecutable maps a load path to the executable to launch. A
// directory must contain plugin.yaml naming the executable; anything else
// is treated as the executable itself.
func resolveExecutable(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("%w: stat %s: %w", ErrBindFailed, path, err)
	}

	if !fi.IsDir() {
		return path, nil
	}

	manifestPath := filepath.Join(path, ManifestFile)
	data, err := os.ReadFile(manifestPath) //nolint:gosec // path supplied by the operator at the console
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s has no %s", ErrNotFound, path, ManifestFile)
		}
		return "", fmt.Errorf("%w: read %s: %w", ErrBindFailed, manifestPath, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrBindFailed, manifestPath, err)
	}

	execPath := filepath.Join(path, manifest.Executable)
	if _, err := os.Stat(execPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: executable %s", ErrNotFound, execPath)
		}
		return "", fmt.Errorf("%w: stat %s: %w", ErrBindFailed, execPath, err)
	}
	return execPath, nil
}

// Unload removes every command owned by id from the registry, then kills
// the plugin process and drops the handle. Refused with ErrInUse while a
// command from that plugin is in flight. The id is never reused; loading
// the same artifact again produces a new id.
func (h *Host) Unload(ctx context.Context, id ulid.ULID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}

	p, ok := h.plugins[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotLoaded, id)
	}

	if h.busy[id] > 0 {
		return fmt.Errorf("%w: %s", ErrInUse, id)
	}

	// Unregister before unbind: no new dispatch may resolve to a plugin
	// that is mid-unload.
	removed := h.registry.UnregisterAll(id)

	if p.client != nil {
		p.client.Kill()
	}

	delete(h.plugins, id)
	h.order = removeID(h.order, id)
	command.PluginsLoaded.Set(float64(len(h.plugins)))

	slog.InfoContext(ctx, "unloaded plugin",
		"plugin", p.name,
		"plugin_id", id.String(),
		"commands_removed", removed)

	return nil
}

// Invoke delivers one marshaled invocation to a loaded plugin. The plugin
// is marked busy for the duration, which makes a concurrent unload refuse
// with ErrInUse. No deadline is imposed on the call.
func (h *Host) Invoke(_ context.Context, id ulid.ULID, cmd string, args []pluginsdk.Value) (pluginsdk.InvokeReply, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return pluginsdk.InvokeReply{}, ErrHostClosed
	}
	p, ok := h.plugins[id]
	if !ok {
		h.mu.Unlock()
		return pluginsdk.InvokeReply{}, fmt.Errorf("%w: %s", ErrNotLoaded, id)
	}
	h.busy[id]++
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.busy[id]--
		if h.busy[id] <= 0 {
			delete(h.busy, id)
		}
		h.mu.Unlock()
	}()

	reply, err := p.conn.Invoke(cmd, args)
	if err != nil {
		return pluginsdk.InvokeReply{}, fmt.Errorf("plugin %s invoke %s: %w", p.name, cmd, err)
	}
	return reply, nil
}

// Prompt returns the custom prompt of the most recently loaded plugin
// that declared one. The second return is false when no loaded plugin
// offers a prompt or the call fails.
func (h *Host) Prompt() (string, bool) {
	h.mu.RLock()
	var owner *loadedPlugin
	for i := len(h.order) - 1; i >= 0; i-- {
		if p := h.plugins[h.order[i]]; p != nil && p.hasPrompt {
			owner = p
			break
		}
	}
	h.mu.RUnlock()

	if owner == nil {
		return "", false
	}
	prompt, err := owner.conn.Prompt()
	if err != nil {
		slog.Warn("plugin prompt call failed",
			"plugin", owner.name,
			"error", err)
		return "", false
	}
	return prompt, true
}

// List returns snapshots of all loaded plugins in load order.
func (h *Host) List() []Info {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]Info, 0, len(h.plugins))
	for _, id := range h.order {
		p, ok := h.plugins[id]
		if !ok {
			continue
		}
		commands := make([]string, len(p.commands))
		copy(commands, p.commands)
		infos = append(infos, Info{
			ID:         p.id,
			Name:       p.name,
			ABIVersion: p.abi,
			Path:       p.path,
			Commands:   commands,
			HasPrompt:  p.hasPrompt,
		})
	}
	return infos
}

// Close unloads every remaining plugin and shuts the host down. Called at
// host shutdown; further operations return ErrHostClosed.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	for id, p := range h.plugins {
		h.registry.UnregisterAll(id)
		if p.client != nil {
			p.client.Kill()
		}
		slog.InfoContext(ctx, "unloaded plugin at shutdown",
			"plugin", p.name,
			"plugin_id", id.String())
	}

	h.closed = true
	clear(h.plugins)
	h.order = nil
	command.PluginsLoaded.Set(0)
	return nil
}

func removeID(ids []ulid.ULID, id ulid.ULID) []ulid.ULID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

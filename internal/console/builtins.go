// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/plugsh/plugsh/internal/plugin"
)

// builtin is a host command. Built-ins are resolved before the registry
// and cannot be shadowed by plugins.
type builtin struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

func (c *Console) installBuiltins() {
	builtins := []builtin{
		{
			name:  "help",
			usage: "help [pattern]",
			help:  "list commands, optionally filtered by a glob pattern",
			run:   c.runHelp,
		},
		{
			name:  "list",
			usage: "list",
			help:  "list loaded plugins",
			run:   c.runList,
		},
		{
			name:  "load",
			usage: "load <path>",
			help:  "load a plugin executable or plugin directory",
			run:   c.runLoad,
		},
		{
			name:  "unload",
			usage: "unload <id>",
			help:  "unload a plugin by id",
			run:   c.runUnload,
		},
		{
			name:  "quit",
			usage: "quit",
			help:  "unload all plugins and exit",
			run:   c.runQuit,
		},
	}

	c.builtins = make(map[string]builtin, len(builtins))
	for _, b := range builtins {
		c.builtins[b.name] = b
		c.order = append(c.order, b.name)
	}
}

func (c *Console) runHelp(_ context.Context, args []string) error {
	if len(args) > 1 {
		return errors.New("usage: help [pattern]")
	}

	var matcher glob.Glob
	if len(args) == 1 {
		g, err := glob.Compile(args[0])
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", args[0], err)
		}
		matcher = g
	}

	fmt.Fprintln(c.out, "built-in commands:")
	for _, name := range c.order {
		b := c.builtins[name]
		fmt.Fprintf(c.out, "  %-24s %s\n", b.usage, b.help)
	}

	entries := c.registry.All()
	if len(entries) == 0 {
		return nil
	}

	printed := false
	for _, e := range entries {
		if matcher != nil && !matcher.Match(e.Name) {
			continue
		}
		if !printed {
			fmt.Fprintln(c.out, "plugin commands:")
			printed = true
		}
		usage := e.Usage
		if usage == "" {
			usage = e.Name
		}
		fmt.Fprintf(c.out, "  %-24s %s [%s]\n", usage, e.Help, e.Source)
	}
	if matcher != nil && !printed {
		fmt.Fprintf(c.out, "no plugin commands match %q\n", args[0])
	}
	return nil
}

func (c *Console) runList(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errors.New("usage: list")
	}

	infos := c.host.List()
	if len(infos) == 0 {
		fmt.Fprintln(c.out, "no plugins loaded")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(c.out, "%s  %s  abi=%d  %s\n",
			info.ID, info.Name, info.ABIVersion, info.Path)
	}
	return nil
}

func (c *Console) runLoad(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <path>")
	}

	id, err := c.host.Load(ctx, args[0])
	if err != nil {
		return loadMessage(err)
	}
	fmt.Fprintf(c.out, "loaded plugin %s\n", id)
	return nil
}

func (c *Console) runUnload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: unload <id>")
	}

	id, err := plugin.ParseID(args[0])
	if err != nil {
		return err
	}

	if err := c.host.Unload(ctx, id); err != nil {
		return unloadMessage(err)
	}
	fmt.Fprintf(c.out, "unloaded plugin %s\n", id)
	return nil
}

func (c *Console) runQuit(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errors.New("usage: quit")
	}
	return errQuit
}

// loadMessage folds a load failure into its user-facing diagnostic.
func loadMessage(err error) error {
	switch {
	case errors.Is(err, plugin.ErrNotFound):
		return fmt.Errorf("load failed (not found): %w", err)
	case errors.Is(err, plugin.ErrABIMismatch):
		return fmt.Errorf("load failed (abi mismatch): %w", err)
	case errors.Is(err, plugin.ErrBindFailed):
		return fmt.Errorf("load failed (bind failed): %w", err)
	default:
		return fmt.Errorf("load failed: %w", err)
	}
}

// unloadMessage folds an unload failure into its user-facing diagnostic.
func unloadMessage(err error) error {
	switch {
	case errors.Is(err, plugin.ErrNotLoaded):
		return fmt.Errorf("unload failed (not loaded): %w", err)
	case errors.Is(err, plugin.ErrInUse):
		return fmt.Errorf("unload failed (in use): %w", err)
	default:
		return fmt.Errorf("unload failed: %w", err)
	}
}

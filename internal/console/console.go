// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

// Package console implements the interactive dispatch loop: it reads one
// line at a time, resolves built-in commands ahead of plugin commands,
// and renders every recovered failure as a one-line diagnostic.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/plugsh/plugsh/internal/command"
	"github.com/plugsh/plugsh/internal/plugin"
)

// DefaultPrompt is used when no plugin supplies a prompt hook.
const DefaultPrompt = "> "

// errQuit signals an explicit quit command.
var errQuit = errors.New("quit requested")

// LineReader supplies one textual line per call. Satisfied by
// readline.Instance; tests substitute a scripted reader.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Console is the interactive dispatch loop over a plugin host.
type Console struct {
	host       *plugin.Host
	registry   *command.Registry
	dispatcher *command.Dispatcher
	reader     LineReader
	out        io.Writer
	prompt     string
	builtins   map[string]builtin
	order      []string
}

// Option configures a Console.
type Option func(*Console)

// WithOutput sets the output sink. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *Console) { c.out = w }
}

// WithPrompt sets the static prompt used when no plugin provides one.
func WithPrompt(p string) Option {
	return func(c *Console) { c.prompt = p }
}

// New creates a console. All four collaborators are required.
func New(host *plugin.Host, registry *command.Registry, dispatcher *command.Dispatcher, reader LineReader, opts ...Option) (*Console, error) {
	if host == nil {
		return nil, errors.New("console: host cannot be nil")
	}
	if registry == nil {
		return nil, errors.New("console: registry cannot be nil")
	}
	if dispatcher == nil {
		return nil, errors.New("console: dispatcher cannot be nil")
	}
	if reader == nil {
		return nil, errors.New("console: reader cannot be nil")
	}
	c := &Console{
		host:       host,
		registry:   registry,
		dispatcher: dispatcher,
		reader:     reader,
		out:        os.Stdout,
		prompt:     DefaultPrompt,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.installBuiltins()
	return c, nil
}

// NewReadline creates the default line-editing reader.
func NewReadline(prompt, historyFile string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: historyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	return rl, nil
}

// Run drives the dispatch loop until quit or end-of-input, then unloads
// every remaining plugin. Exactly one command is ever in flight; all
// registry and session mutation happens between completed commands on
// this goroutine.
func (c *Console) Run(ctx context.Context) error {
	defer func() {
		if err := c.host.Close(ctx); err != nil {
			slog.Error("host close failed", "error", err)
		}
	}()

	for {
		c.reader.SetPrompt(c.currentPrompt())

		line, err := c.reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		} else if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if err := c.handleLine(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			return err
		}
	}

	fmt.Fprintln(c.out, "good bye")
	return nil
}

// handleLine runs one iteration of the loop: tokenize, resolve, invoke.
// Only errQuit and reader failures propagate; everything else renders as
// a diagnostic and the loop continues.
func (c *Console) handleLine(ctx context.Context, line string) error {
	parsed, err := command.Tokenize(line)
	if err != nil {
		c.diagnostic(command.UserMessage(err))
		return nil
	}
	if parsed == nil {
		return nil
	}

	// Built-ins occupy a host-reserved namespace and always win over a
	// plugin command of the same name.
	if b, ok := c.builtins[parsed.Name]; ok {
		if err := b.run(ctx, parsed.Args); err != nil {
			if errors.Is(err, errQuit) {
				return err
			}
			c.diagnostic(err.Error())
		}
		return nil
	}

	if err := c.dispatcher.Dispatch(ctx, parsed.Name, parsed.Args, c.out); err != nil {
		c.diagnostic(command.UserMessage(err))
	}
	return nil
}

// currentPrompt prefers the prompt hook of the most recently loaded
// plugin that declared one.
func (c *Console) currentPrompt() string {
	if p, ok := c.host.Prompt(); ok {
		return p
	}
	return c.prompt
}

func (c *Console) diagnostic(msg string) {
	fmt.Fprintf(c.out, "error: %s\n", strings.TrimSpace(msg))
}

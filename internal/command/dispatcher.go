// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

var tracer = otel.Tracer("plugsh/command")

// Dispatcher resolves parsed commands against the registry, marshals
// arguments, and invokes the serving plugin. It only handles plugin
// commands; the console resolves built-ins before it is consulted.
type Dispatcher struct {
	registry *Registry
	invoker  Invoker
}

// NewDispatcher creates a dispatcher over the given registry and invoker.
// Returns an error if either is nil.
func NewDispatcher(registry *Registry, invoker Invoker) (*Dispatcher, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if invoker == nil {
		return nil, ErrNilInvoker
	}
	return &Dispatcher{registry: registry, invoker: invoker}, nil
}

// Dispatch resolves and invokes one plugin command. Successful string
// output is written to out. Every returned error is recoverable and
// carries a code UserMessage can render; none terminate the session.
//
// No deadline is applied to the plugin call: the host has no preemption
// over plugin code, and a call that never returns is a documented trust
// boundary rather than a cancellable operation.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args []string, out io.Writer) (err error) {
	ctx, span := tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(
			attribute.String("command.name", name),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	entry, ok := d.registry.Resolve(name)
	if !ok {
		RecordExecution(name, "", StatusNotFound)
		err = ErrUnknownCommand(name)
		return err
	}

	span.SetAttributes(
		attribute.String("command.source", entry.Source),
		attribute.String("plugin.id", entry.Plugin.String()),
	)

	values, err := MarshalArgs(entry, args)
	if err != nil {
		RecordExecution(entry.Name, entry.Source, StatusBadArguments)
		return err
	}

	start := time.Now()
	reply, err := d.invoker.Invoke(ctx, entry.Plugin, entry.Command, values)
	RecordDuration(entry.Name, entry.Source, time.Since(start))
	if err != nil {
		RecordExecution(entry.Name, entry.Source, StatusError)
		slog.WarnContext(ctx, "plugin invocation failed",
			"command", entry.Name,
			"plugin_id", entry.Plugin.String(),
			"error", err,
		)
		err = ErrInvokeFailed(entry.Name, err)
		return err
	}

	if reply.ErrCode != 0 {
		RecordExecution(entry.Name, entry.Source, StatusError)
		err = ErrPluginReported(entry.Name, reply.ErrCode, entry.Errors[reply.ErrCode], reply.ErrMsg)
		return err
	}

	RecordExecution(entry.Name, entry.Source, StatusSuccess)

	if entry.Returns == pluginsdk.ReturnString {
		if _, werr := fmt.Fprintln(out, reply.Output); werr != nil {
			slog.WarnContext(ctx, "command output write failed",
				"command", entry.Name,
				"error", werr,
			)
		}
	}
	return nil
}

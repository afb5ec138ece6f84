// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

// fakeInvoker records invocations and replays a scripted reply.
type fakeInvoker struct {
	reply   pluginsdk.InvokeReply
	err     error
	calls   int
	lastID  ulid.ULID
	lastCmd string
	lastArg []pluginsdk.Value
}

func (f *fakeInvoker) Invoke(_ context.Context, id ulid.ULID, cmd string, args []pluginsdk.Value) (pluginsdk.InvokeReply, error) {
	f.calls++
	f.lastID = id
	f.lastCmd = cmd
	f.lastArg = args
	if f.err != nil {
		return pluginsdk.InvokeReply{}, f.err
	}
	return f.reply, nil
}

func newTestDispatcher(t *testing.T, invoker Invoker) (*Dispatcher, *Registry) {
	t.Helper()
	reg := NewRegistry()
	d, err := NewDispatcher(reg, invoker)
	require.NoError(t, err)
	return d, reg
}

func TestNewDispatcher_NilArgs(t *testing.T) {
	_, err := NewDispatcher(nil, &fakeInvoker{})
	assert.ErrorIs(t, err, ErrNilRegistry)

	_, err = NewDispatcher(NewRegistry(), nil)
	assert.ErrorIs(t, err, ErrNilInvoker)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	invoker := &fakeInvoker{}
	d, _ := newTestDispatcher(t, invoker)

	var out bytes.Buffer
	err := d.Dispatch(context.Background(), "unknowncmd", nil, &out)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnknownCommand, oopsErr.Code())
	assert.Zero(t, invoker.calls)
	assert.Empty(t, out.String())
}

func TestDispatch_BadArgumentsNeverCrossesBoundary(t *testing.T) {
	invoker := &fakeInvoker{}
	d, reg := newTestDispatcher(t, invoker)

	require.NoError(t, reg.Register(Entry{
		Name:    "echo",
		Plugin:  pluginA,
		Command: "echo",
		Usage:   "echo <text>",
		Args:    []pluginsdk.ArgKind{pluginsdk.KindString},
		Returns: pluginsdk.ReturnString,
		Source:  "echo",
	}))

	var out bytes.Buffer
	err := d.Dispatch(context.Background(), "echo", nil, &out)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeBadArguments, oopsErr.Code())
	assert.Zero(t, invoker.calls, "arity mismatch must not reach the plugin")
}

func TestDispatch_Success(t *testing.T) {
	invoker := &fakeInvoker{reply: pluginsdk.InvokeReply{Output: "hello"}}
	d, reg := newTestDispatcher(t, invoker)

	require.NoError(t, reg.Register(Entry{
		Name:    "echo",
		Plugin:  pluginA,
		Command: "echo",
		Args:    []pluginsdk.ArgKind{pluginsdk.KindString},
		Returns: pluginsdk.ReturnString,
		Source:  "echo",
	}))

	var out bytes.Buffer
	err := d.Dispatch(context.Background(), "echo", []string{"hello"}, &out)
	require.NoError(t, err)

	assert.Equal(t, 1, invoker.calls)
	assert.Equal(t, pluginA, invoker.lastID)
	assert.Equal(t, "echo", invoker.lastCmd)
	assert.Equal(t, []pluginsdk.Value{pluginsdk.StringValue("hello")}, invoker.lastArg)
	assert.Equal(t, "hello\n", out.String())
}

func TestDispatch_ReturnNoneWritesNothing(t *testing.T) {
	invoker := &fakeInvoker{reply: pluginsdk.InvokeReply{Output: "ignored"}}
	d, reg := newTestDispatcher(t, invoker)

	require.NoError(t, reg.Register(Entry{
		Name:    "reset",
		Plugin:  pluginA,
		Command: "reset",
		Returns: pluginsdk.ReturnNone,
		Source:  "counter",
	}))

	var out bytes.Buffer
	require.NoError(t, d.Dispatch(context.Background(), "reset", nil, &out))
	assert.Empty(t, out.String())
}

func TestDispatch_PluginReported(t *testing.T) {
	invoker := &fakeInvoker{reply: pluginsdk.InvokeReply{ErrCode: 2, ErrMsg: "nothing to shout"}}
	d, reg := newTestDispatcher(t, invoker)

	require.NoError(t, reg.Register(Entry{
		Name:    "shout",
		Plugin:  pluginA,
		Command: "shout",
		Args:    []pluginsdk.ArgKind{pluginsdk.KindString},
		Returns: pluginsdk.ReturnString,
		Errors:  map[int32]string{2: "empty message"},
		Source:  "echo",
	}))

	var out bytes.Buffer
	err := d.Dispatch(context.Background(), "shout", []string{""}, &out)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodePluginReported, oopsErr.Code())
	assert.Equal(t, "empty message", oopsErr.Context()["label"])
	assert.Equal(t, int32(2), oopsErr.Context()["plugin_code"])
}

func TestDispatch_InvokeTransportFailure(t *testing.T) {
	invoker := &fakeInvoker{err: errors.New("connection lost")}
	d, reg := newTestDispatcher(t, invoker)

	require.NoError(t, reg.Register(Entry{
		Name:     "echo",
		Plugin:   pluginA,
		Command:  "echo",
		Variadic: true,
		Returns:  pluginsdk.ReturnString,
		Source:   "echo",
	}))

	var out bytes.Buffer
	err := d.Dispatch(context.Background(), "echo", []string{"x"}, &out)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvokeFailed, oopsErr.Code())
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package pluginsdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet(t *testing.T) *CommandSet {
	t.Helper()
	set := NewCommandSet("wire")
	set.MustRegister(CommandInfo{
		Name:    "upper",
		Args:    []ArgKind{KindString},
		Returns: ReturnString,
	}, func(args []Value) (string, error) {
		return args[0].Str + "!", nil
	})
	set.SetPrompt(func() string { return "wire> " })
	return set
}

func TestCommandPlugin_Server_NilImpl(t *testing.T) {
	p := &CommandPlugin{}
	_, err := p.Server(nil)
	assert.Error(t, err)
}

func TestRPCServer_Describe(t *testing.T) {
	s := &rpcServer{impl: testSet(t)}

	var reply DescribeReply
	require.NoError(t, s.Describe(DescribeArgs{}, &reply))

	assert.Equal(t, ABIVersion, reply.ABIVersion)
	assert.Equal(t, "wire", reply.Name)
	assert.True(t, reply.HasPrompt)
	require.Len(t, reply.Commands, 1)
	assert.Equal(t, "upper", reply.Commands[0].Name)
}

func TestRPCServer_Invoke(t *testing.T) {
	s := &rpcServer{impl: testSet(t)}

	var reply InvokeReply
	args := InvokeArgs{Command: "upper", Args: []Value{StringValue("hey")}}
	require.NoError(t, s.Invoke(args, &reply))

	assert.Equal(t, int32(0), reply.ErrCode)
	assert.Equal(t, "hey!", reply.Output)
}

func TestRPCServer_Prompt(t *testing.T) {
	s := &rpcServer{impl: testSet(t)}

	var reply PromptReply
	require.NoError(t, s.Prompt(PromptArgs{}, &reply))
	assert.Equal(t, "wire> ", reply.Prompt)
}

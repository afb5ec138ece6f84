// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package pluginsdk

import (
	"errors"
	"fmt"
	"net/rpc"

	hashiplug "github.com/hashicorp/go-plugin"
)

// Connector is the host-side view of a live plugin: the three entry points
// of the contract. The host obtains one from go-plugin's Dispense.
type Connector interface {
	// Describe returns the plugin's ABI version, name, and command set.
	Describe() (DescribeReply, error)

	// Invoke runs one command with already-marshaled argument values.
	Invoke(command string, args []Value) (InvokeReply, error)

	// Prompt returns the plugin's current prompt string. Only valid when
	// the Describe reply declared HasPrompt.
	Prompt() (string, error)
}

// CommandPlugin implements go-plugin's Plugin interface over net/rpc.
// The wire structs are gob-encoded, so no generated code is involved.
type CommandPlugin struct {
	// Impl is used by the plugin process (not used by the host).
	Impl *CommandSet
}

// Server returns the RPC server, called in the plugin process.
func (p *CommandPlugin) Server(*hashiplug.MuxBroker) (interface{}, error) {
	if p.Impl == nil {
		return nil, errors.New("pluginsdk: command set is nil")
	}
	return &rpcServer{impl: p.Impl}, nil
}

// Client returns the host-side Connector, called in the host process.
func (p *CommandPlugin) Client(_ *hashiplug.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &rpcClient{client: c}, nil
}

// rpcServer adapts a CommandSet to net/rpc in the plugin process.
type rpcServer struct {
	impl *CommandSet
}

func (s *rpcServer) Describe(_ DescribeArgs, reply *DescribeReply) error {
	*reply = s.impl.describe()
	return nil
}

func (s *rpcServer) Invoke(args InvokeArgs, reply *InvokeReply) error {
	*reply = s.impl.invoke(args.Command, args.Args)
	return nil
}

func (s *rpcServer) Prompt(_ PromptArgs, reply *PromptReply) error {
	reply.Prompt = s.impl.prompt()
	return nil
}

// rpcClient is the host-side Connector over net/rpc.
type rpcClient struct {
	client *rpc.Client
}

var _ Connector = (*rpcClient)(nil)

func (c *rpcClient) Describe() (DescribeReply, error) {
	var reply DescribeReply
	if err := c.client.Call("Plugin.Describe", DescribeArgs{}, &reply); err != nil {
		return DescribeReply{}, fmt.Errorf("describe call: %w", err)
	}
	return reply, nil
}

func (c *rpcClient) Invoke(command string, args []Value) (InvokeReply, error) {
	var reply InvokeReply
	call := InvokeArgs{Command: command, Args: args}
	if err := c.client.Call("Plugin.Invoke", call, &reply); err != nil {
		return InvokeReply{}, fmt.Errorf("invoke call: %w", err)
	}
	return reply, nil
}

func (c *rpcClient) Prompt() (string, error) {
	var reply PromptReply
	if err := c.client.Call("Plugin.Prompt", PromptArgs{}, &reply); err != nil {
		return "", fmt.Errorf("prompt call: %w", err)
	}
	return reply.Prompt, nil
}

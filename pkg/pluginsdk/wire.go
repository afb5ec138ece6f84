// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package pluginsdk

import (
	hashiplug "github.com/hashicorp/go-plugin"
)

// ABIVersion is the contract version compiled into both the host and every
// plugin through this package. The host requires an exact match; there is no
// negotiation. Bump on any change to the wire structs below.
const ABIVersion uint32 = 1

// HandshakeConfig is the go-plugin handshake configuration.
// Both host and plugins must use the same values.
var HandshakeConfig = hashiplug.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PLUGSH_PLUGIN",
	MagicCookieValue: "plugsh-v1",
}

// PluginMapKey is the dispense key for the command plugin.
const PluginMapKey = "commands"

// ArgKind identifies the declared type of a command argument.
type ArgKind string

// Argument kinds a command may declare.
const (
	KindString ArgKind = "string"
	KindInt    ArgKind = "int"
	KindBool   ArgKind = "bool"
)

// ReturnKind identifies what a command invocation produces on success.
type ReturnKind string

// Return kinds a command may declare.
const (
	ReturnNone   ReturnKind = "none"
	ReturnString ReturnKind = "string"
)

// Value is a tagged argument value. Exactly one field besides Kind is
// meaningful, selected by Kind. Values are copied across the boundary;
// neither side retains references into the other's memory.
type Value struct {
	Kind ArgKind
	Str  string
	Int  int64
	Bool bool
}

// StringValue constructs a string-kinded Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// IntValue constructs an int-kinded Value.
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }

// BoolValue constructs a bool-kinded Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// CommandInfo describes one command a plugin offers: its invocation
// signature and usage text. Args lists the declared argument kinds in
// order; Variadic permits additional string arguments after them.
type CommandInfo struct {
	Name     string
	Usage    string
	Help     string
	Args     []ArgKind
	Variadic bool
	Returns  ReturnKind
	// Errors maps the command's declared error codes to short labels,
	// used by the host when rendering a reported failure.
	Errors map[int32]string
}

// DescribeArgs is the (empty) request for the Describe entry point.
type DescribeArgs struct{}

// DescribeReply is the mandatory version entry point's response: the
// plugin's compiled-in ABI version, display name, and command set.
type DescribeReply struct {
	ABIVersion uint32
	Name       string
	// HasPrompt reports whether the plugin serves the optional Prompt
	// entry point.
	HasPrompt bool
	Commands  []CommandInfo
}

// InvokeArgs carries one command invocation across the boundary.
// Args is caller-owned; the plugin must not retain it past the call.
type InvokeArgs struct {
	Command string
	Args    []Value
}

// InvokeReply is the tagged result of an invocation: ErrCode zero means
// success with Output, non-zero means failure with ErrMsg.
type InvokeReply struct {
	Output  string
	ErrCode int32
	ErrMsg  string
}

// PromptArgs is the (empty) request for the optional Prompt entry point.
type PromptArgs struct{}

// PromptReply carries a plugin-rendered prompt string.
type PromptReply struct {
	Prompt string
}

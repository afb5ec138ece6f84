// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

// Package pluginsdk provides the SDK for building plugsh plugins.
//
// Plugins are standalone executables that the host launches as child
// processes and talks to over go-plugin's net/rpc protocol. This package
// defines the wire contract shared by both sides and helpers that reduce a
// plugin main() to a few lines.
//
// Example usage:
//
//	package main
//
//	import "github.com/plugsh/plugsh/pkg/pluginsdk"
//
//	func main() {
//		set := pluginsdk.NewCommandSet("greeter")
//		set.MustRegister(pluginsdk.CommandInfo{
//			Name:    "greet",
//			Usage:   "greet <name>",
//			Args:    []pluginsdk.ArgKind{pluginsdk.KindString},
//			Returns: pluginsdk.ReturnString,
//		}, func(args []pluginsdk.Value) (string, error) {
//			return "hello, " + args[0].Str, nil
//		})
//		pluginsdk.Serve(&pluginsdk.ServeConfig{Commands: set})
//	}
package pluginsdk

import (
	"errors"
	"fmt"
	"regexp"

	hashiplug "github.com/hashicorp/go-plugin"
)

// MaxNameLength is the maximum length for command names.
const MaxNameLength = 20

// namePattern validates command names: must start with a letter, followed
// by letters, digits, or _!?@#$%^+-
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_!?@#$%^+\-]{0,19}$`)

// ValidateCommandName checks a command name against the naming rules the
// host enforces at registration time.
func ValidateCommandName(name string) error {
	if name == "" {
		return errors.New("command name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("command name exceeds maximum length of %d", MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("command name %q must start with a letter and contain only letters, digits, or _!?@#$%%^+-", name)
	}
	return nil
}

// CodeInternal is the error code reported when a command handler fails
// without declaring a specific code.
const CodeInternal int32 = 1

// Error is a declared command failure. Handlers return it (or wrap it) to
// report a specific error code to the host.
type Error struct {
	Code    int32
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("plugin error %d: %s", e.Code, e.Message)
}

// Errorf creates a declared failure with the given code.
func Errorf(code int32, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CommandFunc handles one invocation. args matches the declared kinds
// (plus any variadic string tail) and is only valid for the call's
// duration. Returning a *Error reports its code; any other error is
// reported as CodeInternal.
type CommandFunc func(args []Value) (string, error)

// registeredCommand pairs a command's declaration with its handler.
type registeredCommand struct {
	info CommandInfo
	fn   CommandFunc
}

// CommandSet holds a plugin's display name, commands, and optional prompt
// hook. Build one in main() and pass it to Serve.
type CommandSet struct {
	name     string
	promptFn func() string
	commands map[string]*registeredCommand
	order    []string
}

// NewCommandSet creates a command set with the plugin's display name.
func NewCommandSet(name string) *CommandSet {
	return &CommandSet{
		name:     name,
		commands: make(map[string]*registeredCommand),
	}
}

// Register adds a command. The name must satisfy ValidateCommandName and
// be unique within the set.
func (s *CommandSet) Register(info CommandInfo, fn CommandFunc) error {
	if fn == nil {
		return fmt.Errorf("command %q: handler is nil", info.Name)
	}
	if err := ValidateCommandName(info.Name); err != nil {
		return err
	}
	if _, ok := s.commands[info.Name]; ok {
		return fmt.Errorf("command %q already registered", info.Name)
	}
	if info.Returns == "" {
		info.Returns = ReturnNone
	}
	s.commands[info.Name] = &registeredCommand{info: info, fn: fn}
	s.order = append(s.order, info.Name)
	return nil
}

// MustRegister is Register but panics on error. Intended for plugin main()
// where a bad declaration is a programming error.
func (s *CommandSet) MustRegister(info CommandInfo, fn CommandFunc) {
	if err := s.Register(info, fn); err != nil {
		panic("pluginsdk: " + err.Error())
	}
}

// SetPrompt installs a prompt hook. The host calls it before each input
// read while this plugin is the prompt owner.
func (s *CommandSet) SetPrompt(fn func() string) {
	s.promptFn = fn
}

// describe builds the Describe reply. The ABI version is always the one
// this SDK was compiled with; a plugin cannot claim another.
func (s *CommandSet) describe() DescribeReply {
	infos := make([]CommandInfo, 0, len(s.order))
	for _, name := range s.order {
		infos = append(infos, s.commands[name].info)
	}
	return DescribeReply{
		ABIVersion: ABIVersion,
		Name:       s.name,
		HasPrompt:  s.promptFn != nil,
		Commands:   infos,
	}
}

// invoke runs a command handler and folds its result into the tagged reply.
func (s *CommandSet) invoke(command string, args []Value) InvokeReply {
	cmd, ok := s.commands[command]
	if !ok {
		// The host only invokes commands the plugin declared; reaching
		// here means the two sides disagree about the command set.
		return InvokeReply{
			ErrCode: CodeInternal,
			ErrMsg:  fmt.Sprintf("undeclared command %q", command),
		}
	}

	out, err := cmd.fn(args)
	if err != nil {
		var declared *Error
		if errors.As(err, &declared) {
			return InvokeReply{ErrCode: declared.Code, ErrMsg: declared.Message}
		}
		return InvokeReply{ErrCode: CodeInternal, ErrMsg: err.Error()}
	}
	return InvokeReply{Output: out}
}

func (s *CommandSet) prompt() string {
	if s.promptFn == nil {
		return ""
	}
	return s.promptFn()
}

// ServeConfig configures the plugin server.
type ServeConfig struct {
	// Commands is the plugin's command set.
	// Required; Serve will panic if nil or empty.
	Commands *CommandSet
}

// Serve starts the plugin server. This should be called from main().
// It blocks and never returns under normal operation.
func Serve(config *ServeConfig) {
	if config == nil {
		panic("pluginsdk: config cannot be nil")
	}
	if config.Commands == nil || len(config.Commands.commands) == 0 {
		panic("pluginsdk: config.Commands must declare at least one command")
	}
	hashiplug.Serve(&hashiplug.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]hashiplug.Plugin{
			PluginMapKey: &CommandPlugin{Impl: config.Commands},
		},
	})
}

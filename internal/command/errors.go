// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"errors"

	"github.com/samber/oops"
)

// Construction errors for the dispatcher.
var (
	ErrNilRegistry = errors.New("command: registry cannot be nil")
	ErrNilInvoker  = errors.New("command: invoker cannot be nil")
)

// Error codes for command dispatch failures.
const (
	CodeUnknownCommand = "UNKNOWN_COMMAND"
	CodeBadArguments   = "BAD_ARGUMENTS"
	CodePluginReported = "PLUGIN_REPORTED"
	CodeInvokeFailed   = "INVOKE_FAILED"
	CodeNameCollision  = "NAME_COLLISION"
	CodeInvalidName    = "INVALID_NAME"
	CodeParseError     = "PARSE_ERROR"
)

// ErrUnknownCommand creates an error for an unknown command.
func ErrUnknownCommand(cmd string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", cmd).
		Errorf("unknown command: %s", cmd)
}

// ErrBadArguments creates an error for an arity or type mismatch detected
// before the plugin boundary.
func ErrBadArguments(cmd, usage, reason string) error {
	return oops.Code(CodeBadArguments).
		With("command", cmd).
		With("usage", usage).
		With("reason", reason).
		Errorf("bad arguments for %s: %s", cmd, reason)
}

// ErrPluginReported creates an error for a failure the plugin reported
// through its declared error-code set.
func ErrPluginReported(cmd string, code int32, label, message string) error {
	return oops.Code(CodePluginReported).
		With("command", cmd).
		With("plugin_code", code).
		With("label", label).
		With("message", message).
		Errorf("plugin reported error %d", code)
}

// ErrInvokeFailed creates an error for a transport-level invocation
// failure (plugin process died, connection lost).
func ErrInvokeFailed(cmd string, cause error) error {
	return oops.Code(CodeInvokeFailed).
		With("command", cmd).
		Wrap(cause)
}

// ErrNameCollision creates an error for a registration that lost to an
// already-registered command of the same name.
func ErrNameCollision(name, existingSource, newSource string) error {
	return oops.Code(CodeNameCollision).
		With("command", name).
		With("existing_source", existingSource).
		With("new_source", newSource).
		Errorf("command %s is already registered", name)
}

// ErrParse creates an error for unparseable input (e.g., an unterminated
// quote).
func ErrParse(cause error) error {
	return oops.Code(CodeParseError).Wrap(cause)
}

// oopsInvalidName wraps a command-name validation failure.
func oopsInvalidName(name string, cause error) error {
	return oops.Code(CodeInvalidName).
		With("command", name).
		Wrap(cause)
}

// UserMessage extracts a one-line, user-facing message from a dispatch
// error. Every recovered error renders through here.
func UserMessage(err error) string {
	if err == nil {
		return "something went wrong, try again"
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "something went wrong, try again"
	}

	ctx := oopsErr.Context()
	switch oopsErr.Code() {
	case CodeUnknownCommand:
		if cmd, ok := ctx["command"].(string); ok {
			return "unknown command `" + cmd + "` (try `help`)"
		}
		return "unknown command (try `help`)"
	case CodeBadArguments:
		if usage, ok := ctx["usage"].(string); ok && usage != "" {
			return "usage: " + usage
		}
		return "invalid arguments"
	case CodePluginReported:
		msg, _ := ctx["message"].(string)
		if label, ok := ctx["label"].(string); ok && label != "" {
			if msg != "" {
				return label + ": " + msg
			}
			return label
		}
		if msg != "" {
			return msg
		}
		return "plugin reported an error"
	case CodeInvokeFailed:
		return "plugin call failed; the plugin may have crashed"
	case CodeNameCollision:
		if cmd, ok := ctx["command"].(string); ok {
			return "command `" + cmd + "` is already registered"
		}
		return "command is already registered"
	case CodeParseError:
		return "could not parse input: " + oopsErr.Error()
	default:
		return "something went wrong, try again"
	}
}

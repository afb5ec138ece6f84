// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ParsedCommand represents a tokenized input line.
type ParsedCommand struct {
	Name string   // command name (first token)
	Args []string // argument tokens, quoting resolved
	Raw  string   // original input
}

// Tokenize splits an input line into a command token and argument tokens.
// Whitespace delimits tokens; single and double quotes group arguments
// containing spaces. Empty or all-whitespace input yields (nil, nil) so
// the dispatch loop can return to idle without output.
func Tokenize(input string) (*ParsedCommand, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	tokens, err := shellquote.Split(input)
	if err != nil {
		return nil, ErrParse(err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	return &ParsedCommand{
		Name: tokens[0],
		Args: tokens[1:],
		Raw:  input,
	}, nil
}

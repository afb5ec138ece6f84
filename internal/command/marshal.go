// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"fmt"
	"strconv"

	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

// MarshalArgs converts argument tokens into the kinds the entry declares.
// An arity or type mismatch fails here with BAD_ARGUMENTS and never
// crosses the plugin boundary.
func MarshalArgs(entry Entry, tokens []string) ([]pluginsdk.Value, error) {
	declared := len(entry.Args)

	if len(tokens) < declared {
		return nil, ErrBadArguments(entry.Name, entry.Usage,
			fmt.Sprintf("expected at least %d argument(s), got %d", declared, len(tokens)))
	}
	if len(tokens) > declared && !entry.Variadic {
		return nil, ErrBadArguments(entry.Name, entry.Usage,
			fmt.Sprintf("expected %d argument(s), got %d", declared, len(tokens)))
	}

	values := make([]pluginsdk.Value, 0, len(tokens))
	for i, kind := range entry.Args {
		v, err := coerce(kind, tokens[i])
		if err != nil {
			return nil, ErrBadArguments(entry.Name, entry.Usage,
				fmt.Sprintf("argument %d: %v", i+1, err))
		}
		values = append(values, v)
	}

	// Variadic tail is always strings.
	for _, tok := range tokens[declared:] {
		values = append(values, pluginsdk.StringValue(tok))
	}

	return values, nil
}

func coerce(kind pluginsdk.ArgKind, token string) (pluginsdk.Value, error) {
	switch kind {
	case pluginsdk.KindString:
		return pluginsdk.StringValue(token), nil
	case pluginsdk.KindInt:
		n, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return pluginsdk.Value{}, fmt.Errorf("%q is not an integer", token)
		}
		return pluginsdk.IntValue(n), nil
	case pluginsdk.KindBool:
		b, err := strconv.ParseBool(token)
		if err != nil {
			return pluginsdk.Value{}, fmt.Errorf("%q is not a boolean", token)
		}
		return pluginsdk.BoolValue(b), nil
	default:
		return pluginsdk.Value{}, fmt.Errorf("unsupported argument kind %q", kind)
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package command

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs []string
	}{
		{"command only", "help", "help", []string{}},
		{"command with args", "echo hello world", "echo", []string{"hello", "world"}},
		{"double quoted arg", `echo "hello world"`, "echo", []string{"hello world"}},
		{"single quoted arg", "echo 'a b c' d", "echo", []string{"a b c", "d"}},
		{"extra whitespace", "  load   ./p  ", "load", []string{"./p"}},
		{"tabs", "unload\tabc", "unload", []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.NotNil(t, parsed)
			assert.Equal(t, tt.wantName, parsed.Name)
			assert.Equal(t, tt.wantArgs, parsed.Args)
			assert.Equal(t, tt.input, parsed.Raw)
		})
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t", "\n"} {
		parsed, err := Tokenize(input)
		assert.NoError(t, err)
		assert.Nil(t, parsed)
	}
}

func TestTokenize_UnterminatedQuote(t *testing.T) {
	_, err := Tokenize(`echo "unterminated`)
	require.Error(t, err)

	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok)
	assert.Equal(t, CodeParseError, oopsErr.Code())
}

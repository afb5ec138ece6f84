// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

// Package main implements the echo plugin for plugsh.
//
// Build:
//
//	go build -o echo ./plugins/echo
//
// Then from the console:
//
//	load plugins/echo/echo
//	echo hello world
package main

import (
	"strings"

	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

// codeEmptyMessage is reported when shout is given nothing to say.
const codeEmptyMessage int32 = 2

func main() {
	set := pluginsdk.NewCommandSet("echo")

	set.MustRegister(pluginsdk.CommandInfo{
		Name:     "echo",
		Usage:    "echo <text> [more...]",
		Help:     "echo the arguments back",
		Args:     []pluginsdk.ArgKind{pluginsdk.KindString},
		Variadic: true,
		Returns:  pluginsdk.ReturnString,
	}, func(args []pluginsdk.Value) (string, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Str
		}
		return strings.Join(parts, " "), nil
	})

	set.MustRegister(pluginsdk.CommandInfo{
		Name:    "shout",
		Usage:   "shout <text>",
		Help:    "echo the argument back, loudly",
		Args:    []pluginsdk.ArgKind{pluginsdk.KindString},
		Returns: pluginsdk.ReturnString,
		Errors:  map[int32]string{codeEmptyMessage: "empty message"},
	}, func(args []pluginsdk.Value) (string, error) {
		text := strings.TrimSpace(args[0].Str)
		if text == "" {
			return "", pluginsdk.Errorf(codeEmptyMessage, "nothing to shout")
		}
		return strings.ToUpper(text) + "!", nil
	})

	pluginsdk.Serve(&pluginsdk.ServeConfig{Commands: set})
}

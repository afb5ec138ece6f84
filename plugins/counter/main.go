// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

// Package main implements the counter plugin for plugsh. It keeps a
// counter that ticks up every time the console renders its prompt, and
// offers commands to inspect and reset it.
//
// Build:
//
//	go build -o counter ./plugins/counter
package main

import (
	"fmt"

	"github.com/plugsh/plugsh/pkg/pluginsdk"
)

func main() {
	// The plugin process serves one request at a time from a single
	// console, so plain state is fine here.
	counter := 0

	set := pluginsdk.NewCommandSet("counter")

	set.SetPrompt(func() string {
		p := fmt.Sprintf("%d $ ", counter)
		counter++
		return p
	})

	set.MustRegister(pluginsdk.CommandInfo{
		Name:     "count",
		Usage:    "count [args...]",
		Help:     "report how many arguments were provided",
		Variadic: true,
		Returns:  pluginsdk.ReturnString,
	}, func(args []pluginsdk.Value) (string, error) {
		return fmt.Sprintf("you provided %d arguments", len(args)), nil
	})

	set.MustRegister(pluginsdk.CommandInfo{
		Name:  "reset-counter",
		Usage: "reset-counter",
		Help:  "reset the prompt counter to zero",
	}, func(_ []pluginsdk.Value) (string, error) {
		counter = 0
		return "", nil
	})

	pluginsdk.Serve(&pluginsdk.ServeConfig{Commands: set})
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/plugsh/plugsh/internal/command"
	"github.com/plugsh/plugsh/internal/config"
	"github.com/plugsh/plugsh/internal/console"
	"github.com/plugsh/plugsh/internal/logging"
	"github.com/plugsh/plugsh/internal/observability"
	"github.com/plugsh/plugsh/internal/plugin"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the plugsh CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugsh",
		Short: "plugsh - an interactive plugin host console",
		Long: `plugsh loads separately built plugin executables at runtime and
exposes their commands through an interactive console.`,
		RunE: runConsole,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Dotted names map straight onto config keys through koanf's posflag
	// provider.
	cmd.Flags().String("plugins.dir", "", "directory scanned for plugins at startup")
	cmd.Flags().String("log.format", "", "log format (text or json)")
	cmd.Flags().String("log.level", "", "log level (debug, info, warn, error)")
	cmd.Flags().String("console.prompt", "", "static console prompt")
	cmd.Flags().String("console.history_file", "", "readline history file")
	cmd.Flags().String("metrics.addr", "", "serve prometheus metrics on this address")

	return cmd
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, configFile != "", cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("plugsh", version, cfg.Log.Format, cfg.Log.Level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	registry := command.NewRegistry()
	host := plugin.NewHost(registry)

	dispatcher, err := command.NewDispatcher(registry, host)
	if err != nil {
		return err
	}

	var metrics *observability.Server
	if cfg.Metrics.Addr != "" {
		metrics = observability.NewServer(cfg.Metrics.Addr)
		command.RegisterMetrics(prometheus.Registerer(metrics.Registry()))
		if err := metrics.Start(); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metrics.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics shutdown failed", "error", err)
			}
		}()
	}

	if err := host.LoadAll(ctx, cfg.Plugins.Dir); err != nil {
		return fmt.Errorf("plugin discovery: %w", err)
	}

	reader, err := console.NewReadline(cfg.Console.Prompt, cfg.Console.HistoryFile)
	if err != nil {
		return err
	}
	defer reader.Close()

	repl, err := console.New(host, registry, dispatcher, reader,
		console.WithOutput(cmd.OutOrStdout()),
		console.WithPrompt(cfg.Console.Prompt),
	)
	if err != nil {
		return err
	}

	return repl.Run(ctx)
}

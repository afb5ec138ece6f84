// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// LoadAll loads every plugin directory under dir that carries a manifest.
// Individual plugin failures are logged as warnings and skipped so the
// console still starts when some plugins are broken; a missing directory
// is not an error.
func (h *Host) LoadAll(ctx context.Context, dir string) error {
	if dir == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // no plugins directory
		}
		return fmt.Errorf("failed to read plugins directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginDir := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(filepath.Join(pluginDir, ManifestFile)); err != nil {
			slog.Warn("skipping directory without manifest",
				"dir", entry.Name(),
				"error", err)
			continue
		}

		if _, err := h.Load(ctx, pluginDir); err != nil {
			slog.Error("failed to load plugin",
				"dir", entry.Name(),
				"error", err)
			continue
		}
	}

	return nil
}

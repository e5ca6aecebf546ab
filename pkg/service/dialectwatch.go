// Kitanda Core
// Copyright (c) 2026 The Kitanda Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Kitanda Core.
//
// Kitanda Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Kitanda Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Kitanda Core.  If not, see <http://www.gnu.org/licenses/>.
package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/KitandaProject/kitanda-core/pkg/voice/corrections"
	"github.com/KitandaProject/kitanda-core/pkg/voice/dialect"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// WatchDialect reloads the dialect tables at path into store whenever the
// file is written or replaced. A file that fails to parse leaves the
// current tables in place. The returned func stops the watcher.
func WatchDialect(
	ctx context.Context,
	fs afero.Fs,
	path string,
	store *corrections.Store,
) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create dialect watcher: %w", err)
	}

	// editors often replace the file, so watch the directory
	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close dialect watcher")
		}
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				tables, err := dialect.Load(fs, path)
				if err != nil {
					log.Warn().Err(err).Str("path", path).Msg("keeping previous dialect tables")
					continue
				}
				store.SetTables(tables)
				log.Info().Str("path", path).Str("dialect", tables.Name).Msg("reloaded dialect tables")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("dialect watcher error")
			case <-ctx.Done():
				return
			}
		}
	}()

	return watcher.Close, nil
}

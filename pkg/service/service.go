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

// Package service assembles the voice order pipeline from configuration:
// it opens the user database, loads the dialect tables and builds the
// correction store and utterance processor behind the HTTP API.
package service

import (
	"context"
	"fmt"
	"os"

	"github.com/KitandaProject/kitanda-core/pkg/api"
	"github.com/KitandaProject/kitanda-core/pkg/config"
	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/database/catalogcsv"
	"github.com/KitandaProject/kitanda-core/pkg/database/userdb"
	"github.com/KitandaProject/kitanda-core/pkg/metrics"
	"github.com/KitandaProject/kitanda-core/pkg/service/voice"
	"github.com/KitandaProject/kitanda-core/pkg/voice/corrections"
	"github.com/KitandaProject/kitanda-core/pkg/voice/dialect"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Options struct {
	Clock   clockwork.Clock
	Fs      afero.Fs
	Metrics *metrics.Metrics
	DataDir string
}

type Service struct {
	Config    *config.Instance
	DB        *database.Database
	Store     *corrections.Store
	Processor *voice.Processor
	Importer  *catalogcsv.Importer
	fs        afero.Fs
}

func setupEnvironment(dataDir string) error {
	log.Info().Str("dir", dataDir).Msg("creating data directory")
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dataDir, err)
	}
	return nil
}

func makeDatabase(ctx context.Context, path string) (*database.Database, error) {
	log.Debug().Str("path", path).Msg("opening user database")
	userDB, err := userdb.OpenUserDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	log.Debug().Msg("running user database migrations")
	if err := userDB.MigrateUp(); err != nil {
		if closeErr := userDB.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close user database")
		}
		return nil, fmt.Errorf("error migrating userdb: %w", err)
	}

	return &database.Database{UserDB: userDB}, nil
}

// LoadDialect returns the configured dialect tables, or the built-in
// Angolan Portuguese tables when none is configured.
func LoadDialect(fs afero.Fs, cfg *config.Instance) (*dialect.Tables, error) {
	path := cfg.DictionaryPath()
	if path == "" {
		return dialect.Default(), nil
	}
	tables, err := dialect.Load(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dialect tables: %w", err)
	}
	log.Info().Str("path", path).Str("dialect", tables.Name).Msg("loaded dialect tables")
	return tables, nil
}

// New opens everything the pipeline needs. Close releases it.
func New(ctx context.Context, cfg *config.Instance, opts Options) (*Service, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.DefaultMetrics
	}

	if err := setupEnvironment(opts.DataDir); err != nil {
		return nil, err
	}

	tables, err := LoadDialect(fs, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("opening database")
	db, err := makeDatabase(ctx, cfg.DatabasePath(opts.DataDir))
	if err != nil {
		return nil, err
	}

	store := corrections.NewStore(db.UserDB, db.UserDB, corrections.Options{
		Clock:                  opts.Clock,
		Tables:                 tables,
		TTL:                    cfg.CacheTTL(),
		AutoLearn:              cfg.AutoLearn(),
		AutoLearnMinConfidence: cfg.AutoLearnMinConfidence(),
	})
	proc := voice.NewProcessor(store, db.UserDB, voice.Options{
		Clock:               opts.Clock,
		Metrics:             m,
		SuggestionThreshold: cfg.RankThreshold(),
		MaxSuggestions:      cfg.MaxSuggestions(),
	})

	return &Service{
		Config:    cfg,
		DB:        db,
		Store:     store,
		Processor: proc,
		Importer:  catalogcsv.NewImporter(fs, m),
		fs:        fs,
	}, nil
}

// Serve runs the HTTP API until ctx is cancelled. A configured dialect
// file is watched and reloaded while serving.
func (s *Service) Serve(ctx context.Context) error {
	if path := s.Config.DictionaryPath(); path != "" {
		stop, err := WatchDialect(ctx, s.fs, path, s.Store)
		if err != nil {
			log.Warn().Err(err).Msg("dialect hot reload disabled")
		} else {
			defer func() {
				if err := stop(); err != nil {
					log.Warn().Err(err).Msg("failed to stop dialect watcher")
				}
			}()
		}
	}

	if err := api.Start(ctx, s.Config, s.Processor); err != nil {
		return fmt.Errorf("failed to serve api: %w", err)
	}
	return nil
}

// ImportCatalog replaces userID's catalog with the entries in a CSV file.
func (s *Service) ImportCatalog(ctx context.Context, userID, path string) (int, error) {
	n, err := s.Importer.Import(ctx, s.DB.UserDB, userID, path)
	if err != nil {
		return 0, fmt.Errorf("failed to import catalog: %w", err)
	}
	return n, nil
}

func (s *Service) Close() error {
	if s.DB == nil || s.DB.UserDB == nil {
		return nil
	}
	if err := s.DB.UserDB.Close(); err != nil {
		return fmt.Errorf("failed to close user database: %w", err)
	}
	return nil
}

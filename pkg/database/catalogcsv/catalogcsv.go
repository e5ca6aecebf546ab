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

// Package catalogcsv imports a user's product catalog from the CSV export
// of the inventory module.
package catalogcsv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrNoEntries = errors.New("catalog file has no valid entries")

// CatalogWriter receives an imported catalog snapshot.
type CatalogWriter interface {
	ReplaceCatalog(ctx context.Context, userID string, entries []database.CatalogEntry) error
}

type row struct {
	Code     string  `csv:"code"`
	Name     string  `csv:"name" validate:"required,max=200"`
	Category string  `csv:"category"`
	ID       int64   `csv:"id" validate:"gt=0"`
	Price    float64 `csv:"price" validate:"gte=0"`
	Stock    int     `csv:"stock" validate:"gte=0"`
}

type Importer struct {
	fs       afero.Fs
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewImporter reads catalog files from fs. A nil fs means the OS filesystem
// and nil m the default metrics.
func NewImporter(fs afero.Fs, m *metrics.Metrics) *Importer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Importer{
		fs:       fs,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Parse decodes catalog rows from r. Rows failing validation, or repeating
// an earlier id, are logged and skipped.
func (im *Importer) Parse(r io.Reader) ([]database.CatalogEntry, error) {
	rows := make([]row, 0)
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode catalog csv: %w", err)
	}

	seen := make(map[int64]struct{}, len(rows))
	entries := make([]database.CatalogEntry, 0, len(rows))
	for i := range rows {
		rw := rows[i]
		rw.Name = strings.TrimSpace(rw.Name)
		rw.Code = strings.TrimSpace(rw.Code)
		rw.Category = strings.TrimSpace(rw.Category)
		if err := im.validate.Struct(rw); err != nil {
			log.Warn().Err(err).Int("line", i+2).Msg("skipping invalid catalog row")
			continue
		}
		if _, dup := seen[rw.ID]; dup {
			log.Warn().Int64("id", rw.ID).Int("line", i+2).Msg("skipping duplicate catalog id")
			continue
		}
		seen[rw.ID] = struct{}{}
		entries = append(entries, database.CatalogEntry{
			ID:       rw.ID,
			Code:     rw.Code,
			Name:     rw.Name,
			Category: rw.Category,
			Price:    rw.Price,
			Stock:    rw.Stock,
		})
	}
	return entries, nil
}

func (im *Importer) Read(path string) ([]database.CatalogEntry, error) {
	f, err := im.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close catalog file")
		}
	}()
	return im.Parse(f)
}

// Import reads path and replaces the user's catalog with its entries. It
// returns the number of entries written.
func (im *Importer) Import(ctx context.Context, dst CatalogWriter, userID, path string) (int, error) {
	entries, err := im.Read(path)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, ErrNoEntries
	}
	if err := dst.ReplaceCatalog(ctx, userID, entries); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}
	im.metrics.CatalogImported.Add(float64(len(entries)))
	log.Info().Str("user", userID).Str("path", path).Int("entries", len(entries)).Msg("imported catalog")
	return len(entries), nil
}

// Write encodes entries in the same layout Parse reads.
func Write(w io.Writer, entries []database.CatalogEntry) error {
	if err := gocsv.Marshal(entries, w); err != nil {
		return fmt.Errorf("failed to encode catalog csv: %w", err)
	}
	return nil
}

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

package database

import (
	"context"
	"errors"
	"time"
)

var ErrCorrectionNotFound = errors.New("correction not found")

// CorrectionRecord is a learned mapping from a mis-heard phrase to the text
// the user meant. OriginalText keeps the case it was stored with and is
// compared case-insensitively. Records are never deleted, only deactivated.
type CorrectionRecord struct {
	CreatedAt     time.Time `json:"createdAt"`
	UserID        string    `json:"userId"`
	OriginalText  string    `json:"originalText"`
	CorrectedText string    `json:"correctedText"`
	ID            int64     `json:"id"`
	Active        bool      `json:"active"`
}

// CatalogEntry is a sellable product as the inventory hands it over.
type CatalogEntry struct {
	Code     string  `json:"code" csv:"code"`
	Name     string  `json:"name" csv:"name"`
	Category string  `json:"category" csv:"category"`
	ID       int64   `json:"id" csv:"id"`
	Price    float64 `json:"price" csv:"price"`
	Stock    int     `json:"stock" csv:"stock"`
}

// CorrectionRepository is the persistence side of the correction store.
type CorrectionRepository interface {
	ListActiveCorrections(ctx context.Context, userID string) ([]CorrectionRecord, error)
	// UpsertCorrection updates the active record with the same original text
	// (case-insensitive) for the user, or inserts a new one.
	UpsertCorrection(ctx context.Context, userID, original, corrected string) error
	DeactivateCorrection(ctx context.Context, id int64) error
	// GetCorrection returns ErrCorrectionNotFound for unknown ids.
	GetCorrection(ctx context.Context, id int64) (CorrectionRecord, error)
}

type CatalogSource interface {
	ListCatalog(ctx context.Context, userID string) ([]CatalogEntry, error)
}

// UserDBI is everything the voice pipeline needs from the user database.
type UserDBI interface {
	CorrectionRepository
	CatalogSource
	ReplaceCatalog(ctx context.Context, userID string, entries []CatalogEntry) error
	MigrateUp() error
	Close() error
	GetDBPath() string
}

// Database is a portable holder for the opened databases.
type Database struct {
	UserDB UserDBI
}

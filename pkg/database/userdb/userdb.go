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

// Package userdb persists per-user correction records and catalog snapshots
// in SQLite.
package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNullSQL            = errors.New("UserDB is not connected")
	ErrCorrectionNotFound = database.ErrCorrectionNotFound
)

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

type UserDB struct {
	sql   *sql.DB
	ctx   context.Context
	clock clockwork.Clock
	path  string
}

var _ database.UserDBI = (*UserDB)(nil)

func OpenUserDB(ctx context.Context, path string) (*UserDB, error) {
	db := &UserDB{ctx: ctx, path: path, clock: clockwork.NewRealClock()}
	err := db.Open()
	return db, err
}

func (db *UserDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return nil
}

func (db *UserDB) GetDBPath() string {
	return db.path
}

func (db *UserDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *UserDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *UserDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.ctx, db.sql)
}

func (db *UserDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.ctx, db.sql)
}

func (db *UserDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *UserDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests to set up temporary databases.
func (db *UserDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, clock clockwork.Clock) error {
	db.sql = sqlDB
	db.ctx = ctx
	db.clock = clock
	if db.clock == nil {
		db.clock = clockwork.NewRealClock()
	}
	return db.Allocate()
}

func (db *UserDB) ListActiveCorrections(ctx context.Context, userID string) ([]database.CorrectionRecord, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListActiveCorrections(ctx, db.sql, userID)
}

func (db *UserDB) GetCorrection(ctx context.Context, id int64) (database.CorrectionRecord, error) {
	if db.sql == nil {
		return database.CorrectionRecord{}, ErrNullSQL
	}
	return sqlGetCorrection(ctx, db.sql, id)
}

// UpsertCorrection stores original→corrected for the user. An existing
// record with the same original text (ignoring case) is overwritten and
// reactivated. The lookup and the write are separate statements.
func (db *UserDB) UpsertCorrection(ctx context.Context, userID, original, corrected string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlUpsertCorrection(ctx, db.sql, database.CorrectionRecord{
		UserID:        userID,
		OriginalText:  original,
		CorrectedText: corrected,
		Active:        true,
		CreatedAt:     db.clock.Now(),
	})
}

func (db *UserDB) DeactivateCorrection(ctx context.Context, id int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeactivateCorrection(ctx, db.sql, id)
}

func (db *UserDB) ListCatalog(ctx context.Context, userID string) ([]database.CatalogEntry, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListCatalog(ctx, db.sql, userID)
}

// ReplaceCatalog swaps the user's catalog snapshot for entries in one
// transaction.
func (db *UserDB) ReplaceCatalog(ctx context.Context, userID string, entries []database.CatalogEntry) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlReplaceCatalog(ctx, db.sql, userID, entries)
}

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

package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/database/userdb"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

// NewInMemoryUserDB opens a migrated user database on a temp file. The
// clock stamps CreatedAt on new corrections; nil means the real clock.
func NewInMemoryUserDB(t *testing.T, clock clockwork.Clock) (db *userdb.UserDB, cleanup func()) {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "userdb_test.db")

	// A temp file persists across connection close/reopen, unlike :memory:.
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	db = &userdb.UserDB{}
	err = db.SetSQLForTesting(ctx, sqlDB, clock)
	if err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up UserDB for testing: %v", err)
	}

	cleanup = func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close UserDB: %v", err)
		}
	}

	return db, cleanup
}

// NewTestDatabase wraps a temp-file user database.
func NewTestDatabase(t *testing.T) (db *database.Database, cleanup func()) {
	t.Helper()

	userDB, cleanup := NewInMemoryUserDB(t, nil)
	return &database.Database{UserDB: userDB}, cleanup
}

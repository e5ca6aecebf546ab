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

package userdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/KitandaProject/kitanda-core/pkg/database"
	testsqlmock "github.com/KitandaProject/kitanda-core/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var correctionColumns = []string{"DBID", "UserID", "OriginalText", "CorrectedText", "Active", "CreatedAt"}

func TestSqlListActiveCorrections_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectPrepare(`select.*from Corrections.*where UserID = \? and Active = 1`).
		ExpectQuery().
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(correctionColumns).
			AddRow(int64(2), "user-1", "tibana", "tibone", true, created.UnixMilli()))

	list, err := sqlListActiveCorrections(context.Background(), db, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, database.CorrectionRecord{
		ID: 2, UserID: "user-1", OriginalText: "tibana", CorrectedText: "tibone",
		Active: true, CreatedAt: created,
	}, list[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlListActiveCorrections_QueryError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select.*from Corrections`).
		ExpectQuery().
		WillReturnError(errors.New("disk I/O error"))

	list, err := sqlListActiveCorrections(context.Background(), db, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query corrections")
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlListActiveCorrections_PrepareError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select.*from Corrections`).WillReturnError(errors.New("no such table"))

	_, err = sqlListActiveCorrections(context.Background(), db, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to prepare corrections query statement")
}

func TestSqlUpsertCorrection_Inserts(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectPrepare(`select DBID from Corrections`).
		ExpectQuery().
		WithArgs("user-1", "coca cola").
		WillReturnRows(sqlmock.NewRows([]string{"DBID"}))
	mock.ExpectPrepare(`insert into Corrections`).
		ExpectExec().
		WithArgs("user-1", "Coca Cola", "coca cola", "Coca-Cola", now.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sqlUpsertCorrection(context.Background(), db, database.CorrectionRecord{
		UserID: "user-1", OriginalText: " Coca Cola ", CorrectedText: "Coca-Cola", CreatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpsertCorrection_UpdatesExisting(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectPrepare(`select DBID from Corrections`).
		ExpectQuery().
		WithArgs("user-1", "tibana").
		WillReturnRows(sqlmock.NewRows([]string{"DBID"}).AddRow(int64(7)))
	mock.ExpectPrepare(`update Corrections\s+set OriginalText`).
		ExpectExec().
		WithArgs("TIBANA", "tibone", now.UnixMilli(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = sqlUpsertCorrection(context.Background(), db, database.CorrectionRecord{
		UserID: "user-1", OriginalText: "TIBANA", CorrectedText: "tibone", CreatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpsertCorrection_LookupError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select DBID from Corrections`).
		ExpectQuery().
		WillReturnError(errors.New("database is locked"))

	err = sqlUpsertCorrection(context.Background(), db, database.CorrectionRecord{
		UserID: "user-1", OriginalText: "a", CorrectedText: "b",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up correction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlDeactivateCorrection(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`update Corrections set Active = 0`).
		ExpectExec().
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare(`update Corrections set Active = 0`).
		ExpectExec().
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, sqlDeactivateCorrection(context.Background(), db, 3))
	err = sqlDeactivateCorrection(context.Background(), db, 99)
	require.ErrorIs(t, err, ErrCorrectionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetCorrection_NotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select.*from Corrections\s+where DBID = \?`).
		ExpectQuery().
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err = sqlGetCorrection(context.Background(), db, 5)
	require.ErrorIs(t, err, ErrCorrectionNotFound)
}

func TestSqlReplaceCatalog_RollsBackOnInsertError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`delete from Products where UserID = \?`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	prep := mock.ExpectPrepare(`insert into Products`)
	prep.ExpectExec().
		WithArgs("user-1", int64(1), "ARZ5", "Arroz", "Mercearia", 4500.0, 3).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err = sqlReplaceCatalog(context.Background(), db, "user-1", []database.CatalogEntry{
		{ID: 1, Code: "ARZ5", Name: "Arroz", Category: "Mercearia", Price: 4500, Stock: 3},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert catalog entry 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlListCatalog_ScanError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select.*from Products`).
		ExpectQuery().
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"ProductID", "Code", "Name", "Category", "Price", "Stock"}).
			AddRow("not-a-number", "X", "Arroz", "", 1.0, 1))

	_, err = sqlListCatalog(context.Background(), db, "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to scan catalog row")
}

func TestUserDB_NotConnected(t *testing.T) {
	t.Parallel()

	db := &UserDB{}
	ctx := context.Background()

	_, err := db.ListActiveCorrections(ctx, "u")
	require.ErrorIs(t, err, ErrNullSQL)
	require.ErrorIs(t, db.UpsertCorrection(ctx, "u", "a", "b"), ErrNullSQL)
	require.ErrorIs(t, db.DeactivateCorrection(ctx, 1), ErrNullSQL)
	_, err = db.ListCatalog(ctx, "u")
	require.ErrorIs(t, err, ErrNullSQL)
	require.ErrorIs(t, db.ReplaceCatalog(ctx, "u", nil), ErrNullSQL)
	require.ErrorIs(t, db.MigrateUp(), ErrNullSQL)
	require.NoError(t, db.Close())
}

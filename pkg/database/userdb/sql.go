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
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/rs/zerolog/log"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(ctx context.Context, db *sql.DB) error {
	if err := database.MigrateUp(ctx, db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run user database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(ctx context.Context, db *sql.DB) error {
	return sqlMigrateUp(ctx, db)
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from Corrections;
	delete from Products;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func closeStmt(stmt *sql.Stmt) {
	if closeErr := stmt.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("failed to close sql statement")
	}
}

func closeRows(rows *sql.Rows) {
	if closeErr := rows.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("failed to close sql rows")
	}
}

// correctionKey is the case-insensitive lookup key of an original text.
// SQLite's lower() only folds ASCII.
func correctionKey(original string) string {
	return strings.ToLower(strings.TrimSpace(original))
}

func scanCorrection(scan func(dest ...any) error) (database.CorrectionRecord, error) {
	var row database.CorrectionRecord
	var created int64
	err := scan(
		&row.ID,
		&row.UserID,
		&row.OriginalText,
		&row.CorrectedText,
		&row.Active,
		&created,
	)
	if err != nil {
		return row, err //nolint:wrapcheck // wrapped by callers
	}
	row.CreatedAt = time.UnixMilli(created).UTC()
	return row, nil
}

func sqlListActiveCorrections(ctx context.Context, db *sql.DB, userID string) ([]database.CorrectionRecord, error) {
	list := make([]database.CorrectionRecord, 0)

	q, err := db.PrepareContext(ctx, `
		select
		DBID, UserID, OriginalText, CorrectedText, Active, CreatedAt
		from Corrections
		where UserID = ? and Active = 1
		order by CreatedAt desc, DBID desc;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare corrections query statement: %w", err)
	}
	defer closeStmt(q)

	rows, err := q.QueryContext(ctx, userID)
	if err != nil {
		return list, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		row, scanErr := scanCorrection(rows.Scan)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan correction row: %w", scanErr)
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating correction rows: %w", err)
	}
	return list, nil
}

func sqlGetCorrection(ctx context.Context, db *sql.DB, id int64) (database.CorrectionRecord, error) {
	q, err := db.PrepareContext(ctx, `
		select
		DBID, UserID, OriginalText, CorrectedText, Active, CreatedAt
		from Corrections
		where DBID = ?;
	`)
	if err != nil {
		return database.CorrectionRecord{}, fmt.Errorf("failed to prepare correction query statement: %w", err)
	}
	defer closeStmt(q)

	row, err := scanCorrection(q.QueryRowContext(ctx, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return database.CorrectionRecord{}, fmt.Errorf("%w: %d", ErrCorrectionNotFound, id)
	}
	if err != nil {
		return database.CorrectionRecord{}, fmt.Errorf("failed to scan correction row: %w", err)
	}
	return row, nil
}

func sqlFindCorrectionID(ctx context.Context, db *sql.DB, userID, key string) (int64, bool, error) {
	q, err := db.PrepareContext(ctx, `
		select DBID from Corrections
		where UserID = ? and OriginalKey = ?
		order by DBID desc
		limit 1;
	`)
	if err != nil {
		return 0, false, fmt.Errorf("failed to prepare correction lookup statement: %w", err)
	}
	defer closeStmt(q)

	var id int64
	err = q.QueryRowContext(ctx, userID, key).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up correction: %w", err)
	}
	return id, true, nil
}

//nolint:gocritic // struct passed for DB insertion
func sqlUpsertCorrection(ctx context.Context, db *sql.DB, r database.CorrectionRecord) error {
	original := strings.TrimSpace(r.OriginalText)
	key := correctionKey(original)

	id, found, err := sqlFindCorrectionID(ctx, db, r.UserID, key)
	if err != nil {
		return err
	}

	if found {
		stmt, err := db.PrepareContext(ctx, `
			update Corrections
			set OriginalText = ?, CorrectedText = ?, Active = 1, CreatedAt = ?
			where DBID = ?;
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare correction update statement: %w", err)
		}
		defer closeStmt(stmt)
		_, err = stmt.ExecContext(ctx, original, r.CorrectedText, r.CreatedAt.UnixMilli(), id)
		if err != nil {
			return fmt.Errorf("failed to execute correction update: %w", err)
		}
		return nil
	}

	stmt, err := db.PrepareContext(ctx, `
		insert into Corrections(
			UserID, OriginalText, OriginalKey, CorrectedText, Active, CreatedAt
		) values (?, ?, ?, ?, 1, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare correction insert statement: %w", err)
	}
	defer closeStmt(stmt)
	_, err = stmt.ExecContext(ctx, r.UserID, original, key, r.CorrectedText, r.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to execute correction insert: %w", err)
	}
	return nil
}

func sqlDeactivateCorrection(ctx context.Context, db *sql.DB, id int64) error {
	stmt, err := db.PrepareContext(ctx, `
		update Corrections set Active = 0 where DBID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare correction deactivate statement: %w", err)
	}
	defer closeStmt(stmt)

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to execute correction deactivate: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrCorrectionNotFound, id)
	}
	return nil
}

func sqlListCatalog(ctx context.Context, db *sql.DB, userID string) ([]database.CatalogEntry, error) {
	list := make([]database.CatalogEntry, 0)

	q, err := db.PrepareContext(ctx, `
		select
		ProductID, Code, Name, Category, Price, Stock
		from Products
		where UserID = ?
		order by DBID asc;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare catalog query statement: %w", err)
	}
	defer closeStmt(q)

	rows, err := q.QueryContext(ctx, userID)
	if err != nil {
		return list, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var row database.CatalogEntry
		scanErr := rows.Scan(
			&row.ID,
			&row.Code,
			&row.Name,
			&row.Category,
			&row.Price,
			&row.Stock,
		)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan catalog row: %w", scanErr)
		}
		list = append(list, row)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating catalog rows: %w", err)
	}
	return list, nil
}

func sqlReplaceCatalog(ctx context.Context, db *sql.DB, userID string, entries []database.CatalogEntry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin catalog transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("failed to roll back catalog transaction")
		}
	}()

	if _, err := tx.ExecContext(ctx, `delete from Products where UserID = ?;`, userID); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		insert into Products(
			UserID, ProductID, Code, Name, Category, Price, Stock
		) values (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog insert statement: %w", err)
	}
	defer closeStmt(stmt)

	for _, e := range entries {
		_, err := stmt.ExecContext(ctx, userID, e.ID, e.Code, e.Name, e.Category, e.Price, e.Stock)
		if err != nil {
			return fmt.Errorf("failed to insert catalog entry %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

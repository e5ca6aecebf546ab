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

// Package helpers provides testing utilities for database operations.
//
// It includes a testify mock of the user database and helpers for opening a
// real SQLite user database on a temp file.
//
// Example usage:
//
//	userDB := helpers.NewMockUserDBI()
//	userDB.On("ListActiveCorrections", mock.Anything, "user-1").
//		Return([]database.CorrectionRecord{}, nil)
//
//	store := corrections.NewStore(userDB, userDB, corrections.Options{})
//	store.ApplyCorrections(ctx, "quero tibana", "user-1")
//	userDB.AssertExpectations(t)
package helpers

import (
	"context"
	"fmt"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockUserDBI is a mock implementation of the UserDBI interface using testify/mock
type MockUserDBI struct {
	mock.Mock
}

func (m *MockUserDBI) ListActiveCorrections(
	ctx context.Context,
	userID string,
) ([]database.CorrectionRecord, error) {
	args := m.Called(ctx, userID)
	records, _ := args.Get(0).([]database.CorrectionRecord)
	if err := args.Error(1); err != nil {
		return records, fmt.Errorf("mock UserDBI list corrections failed: %w", err)
	}
	return records, nil
}

func (m *MockUserDBI) UpsertCorrection(ctx context.Context, userID, original, corrected string) error {
	args := m.Called(ctx, userID, original, corrected)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI upsert correction failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) DeactivateCorrection(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI deactivate correction failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) GetCorrection(ctx context.Context, id int64) (database.CorrectionRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(database.CorrectionRecord)
	if err := args.Error(1); err != nil {
		return record, fmt.Errorf("mock UserDBI get correction failed: %w", err)
	}
	return record, nil
}

func (m *MockUserDBI) ListCatalog(ctx context.Context, userID string) ([]database.CatalogEntry, error) {
	args := m.Called(ctx, userID)
	entries, _ := args.Get(0).([]database.CatalogEntry)
	if err := args.Error(1); err != nil {
		return entries, fmt.Errorf("mock UserDBI list catalog failed: %w", err)
	}
	return entries, nil
}

func (m *MockUserDBI) ReplaceCatalog(ctx context.Context, userID string, entries []database.CatalogEntry) error {
	args := m.Called(ctx, userID, entries)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI replace catalog failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) MigrateUp() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI migrate up failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock UserDBI close failed: %w", err)
	}
	return nil
}

func (m *MockUserDBI) GetDBPath() string {
	args := m.Called()
	return args.String(0)
}

// NewMockUserDBI returns a mock with Close, MigrateUp and GetDBPath stubbed
// so tests only need to set up the calls they care about.
func NewMockUserDBI() *MockUserDBI {
	m := &MockUserDBI{}
	m.On("Close").Return(nil).Maybe()
	m.On("MigrateUp").Return(nil).Maybe()
	m.On("GetDBPath").Return(":memory:").Maybe()
	return m
}

// CorrectionMatcher matches any non-empty correction text argument.
func CorrectionMatcher() any {
	return mock.MatchedBy(func(s string) bool {
		return s != ""
	})
}

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

package catalogcsv

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/metrics"
	"github.com/KitandaProject/kitanda-core/pkg/testing/fixtures"
	"github.com/KitandaProject/kitanda-core/pkg/testing/helpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newImporter(t *testing.T) (*Importer, *helpers.FSHelper, *metrics.Metrics) {
	t.Helper()
	fs := helpers.NewMemoryFS()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return NewImporter(fs.Fs, m), fs, m
}

func TestParse_SkipsInvalidRows(t *testing.T) {
	t.Parallel()

	im, _, _ := newImporter(t)
	input := strings.Join([]string{
		"id,code,name,category,price,stock",
		"1,ARZ5, Arroz Premium 5kg ,Mercearia,4500,12",
		"2,FJP1,,Mercearia,1200,30",
		"3,OLS1,Óleo de Soja 1L,Mercearia,-1,20",
		"1,DUP,Outro Arroz,Mercearia,100,1",
		"0,ZER,Sem Id,Mercearia,100,1",
		"4,MTG,Manteiga,Lacticínios,400,50",
	}, "\n")

	entries, err := im.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []database.CatalogEntry{
		{ID: 1, Code: "ARZ5", Name: "Arroz Premium 5kg", Category: "Mercearia", Price: 4500, Stock: 12},
		{ID: 4, Code: "MTG", Name: "Manteiga", Category: "Lacticínios", Price: 400, Stock: 50},
	}, entries)
}

func TestParse_MalformedNumber(t *testing.T) {
	t.Parallel()

	im, _, _ := newImporter(t)
	_, err := im.Parse(strings.NewReader("id,code,name,category,price,stock\n1,A,Arroz,M,abc,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode catalog csv")
}

func TestRead_MissingFile(t *testing.T) {
	t.Parallel()

	im, _, _ := newImporter(t)
	_, err := im.Read("/nope.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog file")
}

func TestImport(t *testing.T) {
	t.Parallel()

	im, fs, m := newImporter(t)
	require.NoError(t, fs.WriteCatalogCSV("/data/catalog.csv",
		"9,TBN,Tibone,Talho,3500,5",
		"10,SAB,Sabão Azul,Limpeza,250,60",
	))

	want := []database.CatalogEntry{
		{ID: 9, Code: "TBN", Name: "Tibone", Category: "Talho", Price: 3500, Stock: 5},
		{ID: 10, Code: "SAB", Name: "Sabão Azul", Category: "Limpeza", Price: 250, Stock: 60},
	}
	db := &helpers.MockUserDBI{}
	db.On("ReplaceCatalog", mock.Anything, fixtures.TestUserID, want).Return(nil).Once()

	n, err := im.Import(context.Background(), db, fixtures.TestUserID, "/data/catalog.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CatalogImported), 0)
	db.AssertExpectations(t)
}

func TestImport_NoValidEntries(t *testing.T) {
	t.Parallel()

	im, fs, m := newImporter(t)
	require.NoError(t, fs.WriteCatalogCSV("/catalog.csv", "1,A,,M,1,1"))

	db := &helpers.MockUserDBI{}
	_, err := im.Import(context.Background(), db, fixtures.TestUserID, "/catalog.csv")
	require.ErrorIs(t, err, ErrNoEntries)
	db.AssertNotCalled(t, "ReplaceCatalog", mock.Anything, mock.Anything, mock.Anything)
	assert.InDelta(t, 0, testutil.ToFloat64(m.CatalogImported), 0)
}

func TestImport_StoreError(t *testing.T) {
	t.Parallel()

	im, fs, _ := newImporter(t)
	require.NoError(t, fs.WriteCatalogCSV("/catalog.csv", "1,A,Arroz,M,1,1"))

	storeErr := errors.New("disk full")
	db := &helpers.MockUserDBI{}
	db.On("ReplaceCatalog", mock.Anything, fixtures.TestUserID, mock.Anything).Return(storeErr)

	_, err := im.Import(context.Background(), db, fixtures.TestUserID, "/catalog.csv")
	require.ErrorIs(t, err, storeErr)
}

func TestWrite_ReadsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fixtures.Catalog()))
	assert.True(t, strings.HasPrefix(buf.String(), "code,name,category,id,price,stock\n"))

	im, _, _ := newImporter(t)
	got, err := im.Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, fixtures.Catalog(), got)
}

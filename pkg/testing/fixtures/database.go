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

package fixtures

import (
	"time"

	"github.com/KitandaProject/kitanda-core/pkg/database"
)

const TestUserID = "user-1"

// Corrections provides sample correction records for testing.
var Corrections = struct {
	Tibana     database.CorrectionRecord
	MultiWord  database.CorrectionRecord
	Inactive   database.CorrectionRecord
	Older      database.CorrectionRecord
	Newer      database.CorrectionRecord
	Collection []database.CorrectionRecord
}{
	Tibana: database.CorrectionRecord{
		ID:            1,
		UserID:        TestUserID,
		OriginalText:  "tibana",
		CorrectedText: "tibone",
		Active:        true,
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	},
	MultiWord: database.CorrectionRecord{
		ID:            2,
		UserID:        TestUserID,
		OriginalText:  "Coca Cola",
		CorrectedText: "Coca-Cola",
		Active:        true,
		CreatedAt:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	},
	Inactive: database.CorrectionRecord{
		ID:            3,
		UserID:        TestUserID,
		OriginalText:  "fuva",
		CorrectedText: "fuba",
		Active:        false,
		CreatedAt:     time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
	},
	Older: database.CorrectionRecord{
		ID:            4,
		UserID:        TestUserID,
		OriginalText:  "sumo",
		CorrectedText: "sumo de laranja",
		Active:        true,
		CreatedAt:     time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
	},
	Newer: database.CorrectionRecord{
		ID:            5,
		UserID:        TestUserID,
		OriginalText:  "SUMO",
		CorrectedText: "sumol",
		Active:        true,
		CreatedAt:     time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC),
	},
}

func init() {
	Corrections.Collection = []database.CorrectionRecord{
		Corrections.Tibana,
		Corrections.MultiWord,
		Corrections.Older,
		Corrections.Newer,
	}
}

// Catalog returns a fresh copy of a small grocery catalog.
func Catalog() []database.CatalogEntry {
	return []database.CatalogEntry{
		{ID: 1, Code: "ARZ5", Name: "Arroz Premium 5kg", Category: "Mercearia", Price: 4500, Stock: 12},
		{ID: 2, Code: "FJP1", Name: "Feijão Preto 1kg", Category: "Mercearia", Price: 1200, Stock: 30},
		{ID: 3, Code: "OLS1", Name: "Óleo de Soja 1L", Category: "Mercearia", Price: 1500, Stock: 20},
		{ID: 4, Code: "MTG", Name: "Manteiga", Category: "Lacticínios", Price: 400, Stock: 50},
		{ID: 5, Code: "CUC33", Name: "Cerveja Cuca Lata", Category: "Bebidas", Price: 300, Stock: 120},
		{ID: 6, Code: "NOC33", Name: "Cerveja Nocal 33cl", Category: "Bebidas", Price: 350, Stock: 80},
		{ID: 7, Code: "FUB1", Name: "Fuba de Milho 1kg", Category: "Mercearia", Price: 900, Stock: 40},
		{ID: 8, Code: "ACU1", Name: "Açúcar 1kg", Category: "Mercearia", Price: 800, Stock: 25},
		{ID: 9, Code: "TBN", Name: "Tibone", Category: "Talho", Price: 3500, Stock: 5},
		{ID: 10, Code: "SAB", Name: "Sabão Azul", Category: "Limpeza", Price: 250, Stock: 60},
	}
}

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

// Package resolver picks the single catalog entry a parsed order refers to.
package resolver

import (
	"math"
	"strings"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/voice/orderparse"
	"github.com/KitandaProject/kitanda-core/pkg/voice/phonetic"
)

const (
	// MinConfidence is the lowest score a match is returned with.
	MinConfidence = 0.3
	// MaxFuzzyConfidence keeps 1.0 reserved for exact matches.
	MaxFuzzyConfidence = 0.95

	prefixBonus      = 0.2
	categoryBonus    = 0.1
	closePriceBonus  = 0.2
	nearPriceBonus   = 0.1
	closePriceMargin = 0.10
	nearPriceMargin  = 0.20
	minWordLength    = 3
)

type Match struct {
	Entry      database.CatalogEntry `json:"entry"`
	Confidence float64               `json:"confidence"`
	Exact      bool                  `json:"exact"`
}

// ResolveBestMatch returns the best catalog entry for order. An entry whose
// normalized name or code equals the order name wins outright with
// confidence 1 and no price bonus. Otherwise entries are scored on word
// containment, name prefix, category and price proximity; ties keep catalog
// order. The reported score is capped at MaxFuzzyConfidence after ranking.
// ok is false when nothing reaches MinConfidence.
func ResolveBestMatch(order orderparse.ParsedOrderItem, catalog []database.CatalogEntry) (Match, bool) {
	query := strings.TrimSpace(phonetic.NormalizeText(order.Name))
	if query == "" || len(catalog) == 0 {
		return Match{}, false
	}

	for _, e := range catalog {
		if strings.TrimSpace(phonetic.NormalizeText(e.Name)) == query ||
			(e.Code != "" && strings.TrimSpace(phonetic.NormalizeText(e.Code)) == query) {
			return Match{Entry: e, Confidence: 1, Exact: true}, true
		}
	}

	words := queryWords(query)
	best := -1
	bestScore := 0.0
	for i, e := range catalog {
		if s := score(query, words, order.Price, e); s > bestScore {
			best, bestScore = i, s
		}
	}

	if best < 0 || bestScore < MinConfidence {
		return Match{}, false
	}
	return Match{Entry: catalog[best], Confidence: min(bestScore, MaxFuzzyConfidence)}, true
}

func queryWords(query string) []string {
	var words []string
	for _, w := range strings.Fields(query) {
		if len(w) >= minWordLength {
			words = append(words, w)
		}
	}
	return words
}

func score(query string, words []string, price *float64, e database.CatalogEntry) float64 {
	name := strings.TrimSpace(phonetic.NormalizeText(e.Name))
	category := phonetic.NormalizeText(e.Category)

	var s float64
	if len(words) > 0 {
		matched := 0
		for _, w := range words {
			if strings.Contains(name, w) {
				matched++
			}
		}
		s = float64(matched) / float64(len(words))
	}

	if strings.HasPrefix(name, query) {
		s += prefixBonus
	}
	if category != "" && strings.Contains(category, query) {
		s += categoryBonus
	}
	if price != nil && e.Price > 0 {
		diff := math.Abs(*price-e.Price) / e.Price
		switch {
		case diff <= closePriceMargin:
			s += closePriceBonus
		case diff <= nearPriceMargin:
			s += nearPriceBonus
		}
	}

	return s
}

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

package similarity

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/voice/dialect"
	"github.com/KitandaProject/kitanda-core/pkg/voice/phonetic"
)

const (
	DefaultRankThreshold = 0.35

	// verbatimBoost is added when a query token appears as-is in the entry.
	verbatimBoost = 0.2
)

const (
	StrategyBrand    = "brand"
	StrategyWord     = "word"
	StrategyPartial  = "partial"
	StrategyPhonetic = "phonetic"
	StrategyCategory = "category"
)

// Strategy scores one signal. ok is false when the signal has nothing to say
// about this entry.
type Strategy struct {
	Score func(query string, entry database.CatalogEntry) (score float64, ok bool)
	Name  string
}

type StrategyScore struct {
	Name  string
	Score float64
	OK    bool
}

type Result struct {
	Strategy string
	Score    float64
	Boosted  bool
}

type Candidate struct {
	Strategy string                `json:"strategy"`
	Entry    database.CatalogEntry `json:"entry"`
	Score    float64               `json:"score"`
}

// Scorer combines an ordered strategy list into one score. The highest
// strategy score wins and the earliest strategy wins ties.
type Scorer struct {
	strategies []Strategy
}

func NewScorer(tables *dialect.Tables) *Scorer {
	if tables == nil {
		tables = dialect.Default()
	}
	brands := tables.Brands

	return &Scorer{strategies: []Strategy{
		{
			Name: StrategyBrand,
			Score: func(q string, e database.CatalogEntry) (float64, bool) {
				s := BrandOverride(q, e.Name, brands)
				return s, s > 0
			},
		},
		{
			Name: StrategyWord,
			Score: func(q string, e database.CatalogEntry) (float64, bool) {
				s := WordSimilarity(q, e.Name)
				return s, s > 0
			},
		},
		{
			Name: StrategyPartial,
			Score: func(q string, e database.CatalogEntry) (float64, bool) {
				s := PartialMatchScore(q, e.Name)
				return s, s > 0
			},
		},
		{
			Name: StrategyPhonetic,
			Score: func(q string, e database.CatalogEntry) (float64, bool) {
				return PhoneticSimilarity(q, e.Name) * 0.85, true
			},
		},
		{
			Name: StrategyCategory,
			Score: func(q string, e database.CatalogEntry) (float64, bool) {
				if strings.TrimSpace(e.Category) == "" {
					return 0, false
				}
				return CategorySimilarity(q, e.Category) * 0.5, true
			},
		},
	}}
}

// NewScorerWith builds a scorer from an explicit strategy list.
func NewScorerWith(strategies ...Strategy) *Scorer {
	return &Scorer{strategies: strategies}
}

// Breakdown returns every strategy's raw answer in evaluation order.
func (s *Scorer) Breakdown(query string, entry database.CatalogEntry) []StrategyScore {
	out := make([]StrategyScore, 0, len(s.strategies))
	for _, st := range s.strategies {
		score, ok := st.Score(query, entry)
		out = append(out, StrategyScore{Name: st.Name, Score: clamp(score), OK: ok})
	}
	return out
}

// Score reduces the strategy list for one entry.
func (s *Scorer) Score(query string, entry database.CatalogEntry) Result {
	var res Result
	for _, b := range s.Breakdown(query, entry) {
		if b.OK && b.Score > res.Score {
			res.Score = b.Score
			res.Strategy = b.Name
		}
	}

	if res.Score > 0 && hasVerbatimToken(query, entry) {
		res.Score = min(1, res.Score+verbatimBoost)
		res.Boosted = true
	}
	return res
}

// Rank scores every entry, drops those under threshold and sorts the rest
// by descending score. Equal scores keep catalog order. A negative threshold
// uses DefaultRankThreshold; zero keeps every entry.
func (s *Scorer) Rank(query string, catalog []database.CatalogEntry, threshold float64) []Candidate {
	if threshold < 0 {
		threshold = DefaultRankThreshold
	}

	out := make([]Candidate, 0, len(catalog))
	for _, e := range catalog {
		res := s.Score(query, e)
		if res.Score < threshold {
			continue
		}
		out = append(out, Candidate{Entry: e, Score: res.Score, Strategy: res.Strategy})
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

var defaultScorer = sync.OnceValue(func() *Scorer {
	return NewScorer(dialect.Default())
})

// RankCandidates ranks catalog against query with the default dialect tables.
func RankCandidates(query string, catalog []database.CatalogEntry, threshold float64) []Candidate {
	return defaultScorer().Rank(query, catalog, threshold)
}

func hasVerbatimToken(query string, entry database.CatalogEntry) bool {
	qTokens := tokens(query)
	if len(qTokens) == 0 {
		return false
	}
	words := strings.Fields(phonetic.NormalizeText(entry.Name + " " + entry.Category))
	for _, qt := range qTokens {
		if slices.Contains(words, qt) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

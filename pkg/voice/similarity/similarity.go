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

// Package similarity scores how well a spoken query matches catalog text.
// Every score is in [0,1].
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/KitandaProject/kitanda-core/pkg/voice/dialect"
	"github.com/KitandaProject/kitanda-core/pkg/voice/phonetic"
	"github.com/hbollon/go-edlib"
)

const (
	// minTokenScore is the lowest per-token score counted by WordSimilarity.
	minTokenScore = 0.35

	phoneticEqualScore    = 0.9
	phoneticContainsScore = 0.8
	partialPhoneticScore  = 0.65
	brandScore            = 0.95
)

// Levenshtein returns the edit distance between a and b counted in runes.
func Levenshtein(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// TextSimilarity is 1 - distance/longest. Two empty strings are identical.
func TextSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

func PhoneticSimilarity(a, b string) float64 {
	return TextSimilarity(phonetic.Code(a), phonetic.Code(b))
}

// tokens splits normalized text on spaces and drops single letters.
func tokens(s string) []string {
	fields := strings.Fields(phonetic.NormalizeText(s))
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

type tokenMatch int

const (
	tokenFuzzy tokenMatch = iota
	tokenExact
	tokenPhonetic
)

// WordSimilarity compares query and candidate token by token. Each query
// token takes its best candidate token; exact and phonetic hits add a
// density bonus on top of the averaged token scores.
func WordSimilarity(query, candidate string) float64 {
	qTokens := tokens(query)
	cTokens := tokens(candidate)
	if len(qTokens) == 0 || len(cTokens) == 0 {
		return 0
	}

	cCodes := make([]string, len(cTokens))
	for i, ct := range cTokens {
		cCodes[i] = phonetic.Code(ct)
	}

	var total float64
	var counted, exact, phoneticHits int
	for _, qt := range qTokens {
		qCode := phonetic.Code(qt)
		best := 0.0
		kind := tokenFuzzy

		for i, ct := range cTokens {
			if qt == ct {
				best, kind = 1, tokenExact
				break
			}

			var score float64
			match := tokenFuzzy
			switch {
			case qCode != "" && qCode == cCodes[i]:
				score, match = phoneticEqualScore, tokenPhonetic
			case qCode != "" && cCodes[i] != "" &&
				(strings.Contains(qCode, cCodes[i]) || strings.Contains(cCodes[i], qCode)):
				score, match = phoneticContainsScore, tokenPhonetic
			default:
				score = TextSimilarity(qt, ct)
			}
			if score > best {
				best, kind = score, match
			}
		}

		if best > minTokenScore {
			total += best
			counted++
		}
		switch kind {
		case tokenExact:
			exact++
		case tokenPhonetic:
			phoneticHits++
		case tokenFuzzy:
		}
	}

	avg := 0.0
	if counted > 0 {
		avg = total / float64(counted)
	}
	n := float64(len(qTokens))
	return avg*0.5 + float64(exact)/n*0.3 + float64(phoneticHits)/n*0.2
}

// PartialMatchScore rewards a query that appears inside the candidate name,
// more so the larger the share of the name it covers.
func PartialMatchScore(query, name string) float64 {
	q := strings.TrimSpace(phonetic.NormalizeText(query))
	n := strings.TrimSpace(phonetic.NormalizeText(name))
	if q == "" || n == "" {
		return 0
	}
	if strings.Contains(n, q) {
		return 0.7 + 0.3*float64(len(q))/float64(len(n))
	}
	qCode := phonetic.Code(q)
	if qCode != "" && strings.Contains(phonetic.Code(n), qCode) {
		return partialPhoneticScore
	}
	return 0
}

// BrandOverride returns 0.95 when name carries a known brand and the whole
// query is one of the ways that brand gets mis-heard.
func BrandOverride(query, name string, brands []dialect.Entry) float64 {
	q := strings.TrimSpace(phonetic.NormalizeText(query))
	if q == "" {
		return 0
	}
	n := phonetic.NormalizeText(name)
	for _, b := range brands {
		if b.Canonical != "" && strings.Contains(n, b.Canonical) && b.HasVariant(q) {
			return brandScore
		}
	}
	return 0
}

func CategorySimilarity(query, category string) float64 {
	return TextSimilarity(
		strings.TrimSpace(phonetic.NormalizeText(query)),
		strings.TrimSpace(phonetic.NormalizeText(category)),
	)
}

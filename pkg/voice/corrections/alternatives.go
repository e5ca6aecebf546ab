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

package corrections

import (
	"context"
	"regexp"
	"strings"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/voice/dialect"
	"github.com/KitandaProject/kitanda-core/pkg/voice/phonetic"
	"github.com/KitandaProject/kitanda-core/pkg/voice/similarity"
	"golang.org/x/sync/errgroup"
)

const maxAlternativeDistance = 3

// ListAlternativeCorrections returns every plausible rewrite of text, used
// when no single correction is confident enough.
func (s *Store) ListAlternativeCorrections(ctx context.Context, text, userID string) []string {
	var records []database.CorrectionRecord
	var catalog []database.CatalogEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records = s.Records(gctx, userID)
		return nil
	})
	g.Go(func() error {
		catalog = s.listCatalog(gctx, userID)
		return nil
	})
	_ = g.Wait()

	return Alternatives(text, records, catalog, s.Tables())
}

type alternatives struct {
	seen  map[string]struct{}
	input string
	list  []string
}

func (a *alternatives) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, a.input) {
		return
	}
	key := strings.ToLower(s)
	if _, ok := a.seen[key]; ok {
		return
	}
	a.seen[key] = struct{}{}
	a.list = append(a.list, s)
}

// Alternatives collects candidate rewrites of text from learned records, the
// dialect variant tables and catalog names that sound or start alike. The
// list has no case-insensitive duplicates and never contains text itself.
func Alternatives(
	text string,
	records []database.CorrectionRecord,
	catalog []database.CatalogEntry,
	tables *dialect.Tables,
) []string {
	trimmed := strings.TrimSpace(text)
	norm := strings.TrimSpace(phonetic.NormalizeText(text))
	if norm == "" {
		return []string{}
	}
	if tables == nil {
		tables = dialect.Default()
	}

	alts := &alternatives{input: trimmed, seen: make(map[string]struct{})}
	lower := strings.ToLower(trimmed)

	for _, r := range records {
		original := strings.TrimSpace(r.OriginalText)
		if original == "" {
			continue
		}
		switch {
		case strings.EqualFold(original, trimmed):
			alts.add(r.CorrectedText)
		case strings.Contains(lower, strings.ToLower(original)):
			re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(original))
			alts.add(re.ReplaceAllLiteralString(trimmed, r.CorrectedText))
		default:
			origNorm := strings.TrimSpace(phonetic.NormalizeText(original))
			if similarity.Levenshtein(norm, origNorm) <= maxAlternativeDistance {
				alts.add(r.CorrectedText)
			}
		}
	}

	words := strings.Fields(norm)
	for _, table := range [][]dialect.Entry{tables.Families, tables.Brands, tables.Famous} {
		for _, e := range table {
			for _, v := range e.Variants {
				if v == "" || v == e.Canonical {
					continue
				}
				if out, ok := replacePhrase(trimmed, v, e.Canonical); ok {
					alts.add(out)
				}
			}
		}
	}

	for _, e := range catalog {
		name := strings.TrimSpace(phonetic.NormalizeText(e.Name))
		if name == "" {
			continue
		}
		switch {
		case similarity.Levenshtein(norm, name) <= maxAlternativeDistance:
			alts.add(e.Name)
		case sharesPrefix(norm, name):
			alts.add(e.Name)
		case sharesWordPrefix(words, strings.Fields(name), tables):
			alts.add(e.Name)
		}
	}

	if alts.list == nil {
		return []string{}
	}
	return alts.list
}

func sharesPrefix(a, b string) bool {
	return len(a) >= prefixLength && len(b) >= prefixLength && a[:prefixLength] == b[:prefixLength]
}

func sharesWordPrefix(query, product []string, tables *dialect.Tables) bool {
	for _, q := range query {
		if tables.IsStopword(q) {
			continue
		}
		for _, p := range product {
			if sharesPrefix(q, p) {
				return true
			}
		}
	}
	return false
}

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
	"regexp"
	"strings"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/voice/dialect"
	"github.com/KitandaProject/kitanda-core/pkg/voice/phonetic"
	"github.com/KitandaProject/kitanda-core/pkg/voice/similarity"
)

const (
	StrategyFamily   = "family"
	StrategyFamous   = "famous"
	StrategyDistance = "distance"
	StrategyPrefix   = "prefix"

	familyConfidence = 0.85
	famousConfidence = 0.9
	prefixConfidence = 0.5

	maxInferenceDistance = 3
	minDistanceLength    = 4
	prefixLength         = 3
	maxPrefixLengthDiff  = 2
)

// Inference is a correction guessed from the user's catalog.
type Inference struct {
	Text        string
	Original    string
	Replacement string
	Strategy    string
	Confidence  float64
}

// Infer guesses a correction for text from catalog product names. The
// strongest kind of evidence is tried across the whole catalog before the
// next one.
func Infer(text string, catalog []database.CatalogEntry, tables *dialect.Tables) (Inference, bool) {
	norm := strings.TrimSpace(phonetic.NormalizeText(text))
	if norm == "" || len(catalog) == 0 {
		return Inference{}, false
	}
	if tables == nil {
		tables = dialect.Default()
	}

	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = strings.TrimSpace(phonetic.NormalizeText(e.Name))
		if names[i] == norm {
			return Inference{}, false
		}
	}

	for _, infer := range []func() (Inference, bool){
		func() (Inference, bool) { return inferFamily(text, norm, catalog, names, tables) },
		func() (Inference, bool) { return inferFamous(text, norm, catalog, names, tables) },
		func() (Inference, bool) { return inferDistance(text, norm, catalog, names) },
		func() (Inference, bool) { return inferPrefix(text, norm, catalog, tables) },
	} {
		if inf, ok := infer(); ok {
			return inf, true
		}
	}
	return Inference{}, false
}

func inferFamily(
	text, norm string,
	catalog []database.CatalogEntry,
	names []string,
	tables *dialect.Tables,
) (Inference, bool) {
	words := strings.Fields(norm)
	for i, name := range names {
		fam, ok := tables.FamilyFor(name)
		if !ok {
			continue
		}
		for _, w := range words {
			if w == fam.Canonical || !fam.HasVariant(w) {
				continue
			}
			replacement := productWord(catalog[i].Name, fam.Canonical)
			out, ok := replacePhrase(text, w, replacement)
			if !ok {
				continue
			}
			return Inference{
				Text:        out,
				Original:    w,
				Replacement: replacement,
				Strategy:    StrategyFamily,
				Confidence:  familyConfidence,
			}, true
		}
	}
	return Inference{}, false
}

func inferFamous(
	text, norm string,
	catalog []database.CatalogEntry,
	names []string,
	tables *dialect.Tables,
) (Inference, bool) {
	padded := " " + norm + " "
	for _, pair := range tables.Famous {
		for _, variant := range pair.Variants {
			if variant == "" || !strings.Contains(padded, " "+variant+" ") {
				continue
			}
			for i, name := range names {
				if !strings.Contains(name, pair.Canonical) {
					continue
				}
				replacement := productWord(catalog[i].Name, pair.Canonical)
				out, ok := replacePhrase(text, variant, replacement)
				if !ok {
					continue
				}
				return Inference{
					Text:        out,
					Original:    variant,
					Replacement: replacement,
					Strategy:    StrategyFamous,
					Confidence:  famousConfidence,
				}, true
			}
		}
	}
	return Inference{}, false
}

func inferDistance(
	text, norm string,
	catalog []database.CatalogEntry,
	names []string,
) (Inference, bool) {
	if len(norm) < minDistanceLength {
		return Inference{}, false
	}
	best := -1
	bestDist := maxInferenceDistance + 1
	for i, name := range names {
		if len(name) < minDistanceLength {
			continue
		}
		if d := similarity.Levenshtein(norm, name); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Inference{}, false
	}
	return Inference{
		Text:        catalog[best].Name,
		Original:    strings.TrimSpace(text),
		Replacement: catalog[best].Name,
		Strategy:    StrategyDistance,
		Confidence:  similarity.TextSimilarity(norm, names[best]),
	}, true
}

func inferPrefix(
	text, norm string,
	catalog []database.CatalogEntry,
	tables *dialect.Tables,
) (Inference, bool) {
	out := text
	var originals, replacements []string

	known := make(map[string]struct{})
	for _, e := range catalog {
		for _, pw := range strings.Fields(phonetic.NormalizeText(e.Name)) {
			known[pw] = struct{}{}
		}
	}

	for _, w := range strings.Fields(norm) {
		if len(w) < prefixLength || tables.IsStopword(w) {
			continue
		}
		// words already spelled like a product word stay
		if _, ok := known[w]; ok {
			continue
		}
		pw, ok := prefixMatch(w, catalog, tables)
		if !ok {
			continue
		}
		next, ok := replacePhrase(out, w, pw)
		if !ok {
			continue
		}
		out = next
		originals = append(originals, w)
		replacements = append(replacements, pw)
	}

	if len(originals) == 0 {
		return Inference{}, false
	}
	return Inference{
		Text:        out,
		Original:    strings.Join(originals, " "),
		Replacement: strings.Join(replacements, " "),
		Strategy:    StrategyPrefix,
		Confidence:  prefixConfidence,
	}, true
}

// prefixMatch finds the product word closest to w among those sharing its
// first three letters whose length differs by at most two. Ties keep
// catalog order. The product word is returned lowercased.
func prefixMatch(w string, catalog []database.CatalogEntry, tables *dialect.Tables) (string, bool) {
	best := ""
	bestDist := -1
	for _, e := range catalog {
		for _, raw := range strings.Fields(e.Name) {
			pw := phonetic.NormalizeText(raw)
			if len(pw) < prefixLength || pw == w || tables.IsStopword(pw) {
				continue
			}
			if pw[:prefixLength] != w[:prefixLength] {
				continue
			}
			if diff := len(pw) - len(w); diff > maxPrefixLengthDiff || diff < -maxPrefixLengthDiff {
				continue
			}
			if d := similarity.Levenshtein(w, pw); bestDist < 0 || d < bestDist {
				best, bestDist = strings.ToLower(raw), d
			}
		}
	}
	return best, bestDist >= 0
}

// productWord returns the lowercased word of name whose normalized form
// contains canonical, keeping its accents. It falls back to canonical.
func productWord(name, canonical string) string {
	for _, raw := range strings.Fields(name) {
		if strings.Contains(phonetic.NormalizeText(raw), canonical) {
			return strings.ToLower(raw)
		}
	}
	return canonical
}

// replacePhrase swaps the first whole-word occurrence of a normalized phrase
// in text. The phrase is matched against text as written first and against
// its normalized form when accents or punctuation get in the way.
func replacePhrase(text, phrase, replacement string) (string, bool) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return text, false
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	re := regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])` + strings.Join(words, `\s+`) + `($|[^\p{L}\p{N}])`)
	repl := "${1}" + strings.ReplaceAll(replacement, "$", "$$") + "${2}"

	for _, candidate := range []string{text, phonetic.NormalizeText(text)} {
		loc := re.FindStringSubmatchIndex(candidate)
		if loc == nil {
			continue
		}
		var b []byte
		b = re.ExpandString(b, repl, candidate, loc)
		return candidate[:loc[0]] + string(b) + candidate[loc[1]:], true
	}
	return text, false
}

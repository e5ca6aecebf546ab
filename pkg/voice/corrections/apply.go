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
	"github.com/rs/zerolog/log"
)

// Source names the step that produced a corrected text.
type Source string

const (
	SourceNone      Source = "none"
	SourceExact     Source = "exact"
	SourceRecord    Source = "record"
	SourceInference Source = "inference"
	SourceMistake   Source = "mistake"
)

const (
	exactConfidence   = 1.0
	recordConfidence  = 0.9
	mistakeConfidence = 0.6
)

type Outcome struct {
	Text       string
	Source     Source
	Strategy   string
	Confidence float64
}

// ApplyCorrections returns the best corrected form of text for the user, or
// text unchanged when nothing applies.
func (s *Store) ApplyCorrections(ctx context.Context, text, userID string) string {
	return s.Apply(ctx, text, userID).Text
}

// Apply tries, in order: an exact learned record, learned records as
// substrings, inference from the catalog, then the static mistake table.
func (s *Store) Apply(ctx context.Context, text, userID string) Outcome {
	unchanged := Outcome{Text: text, Source: SourceNone}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return unchanged
	}

	records := s.Records(ctx, userID)

	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.OriginalText), trimmed) {
			return Outcome{Text: r.CorrectedText, Source: SourceExact, Confidence: exactConfidence}
		}
	}

	if out, ok := s.replaceRecords(text, records); ok {
		return Outcome{Text: out, Source: SourceRecord, Confidence: recordConfidence}
	}

	if inf, ok := Infer(text, s.listCatalog(ctx, userID), s.Tables()); ok {
		s.maybeLearn(ctx, userID, inf)
		return Outcome{
			Text:       inf.Text,
			Source:     SourceInference,
			Strategy:   inf.Strategy,
			Confidence: inf.Confidence,
		}
	}

	if out, ok := s.Tables().FixMistakes(text); ok {
		return Outcome{Text: out, Source: SourceMistake, Confidence: mistakeConfidence}
	}

	return unchanged
}

// replaceRecords replaces every occurrence of every record's original text.
// Multi-word originals get a second, word-bounded pass that tolerates any
// run of whitespace between the words.
func (s *Store) replaceRecords(text string, records []database.CorrectionRecord) (string, bool) {
	out := text
	changed := false

	for _, r := range records {
		original := strings.TrimSpace(r.OriginalText)
		if original == "" {
			continue
		}

		if strings.Contains(strings.ToLower(out), strings.ToLower(original)) {
			if next, ok := s.replaceAll(out, "(?i)"+regexp.QuoteMeta(original), r.CorrectedText); ok {
				out, changed = next, true
				continue
			}
		}

		words := strings.Fields(original)
		if len(words) < 2 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		pattern := `(?i)\b` + strings.Join(words, `\s+`) + `\b`
		if next, ok := s.replaceAll(out, pattern, r.CorrectedText); ok {
			out, changed = next, true
		}
	}

	return out, changed
}

func (s *Store) replaceAll(text, pattern, replacement string) (string, bool) {
	re, err := s.regexes.Compile(pattern)
	if err != nil {
		log.Warn().Err(err).Msg("skipping correction pattern")
		return text, false
	}
	next := re.ReplaceAllLiteralString(text, replacement)
	return next, next != text
}

func (s *Store) maybeLearn(ctx context.Context, userID string, inf Inference) {
	if !s.autoLearn || inf.Confidence < s.minConfidence {
		return
	}
	if err := s.Learn(ctx, userID, inf.Original, inf.Replacement); err != nil {
		log.Warn().Err(err).Str("strategy", inf.Strategy).Msg("failed to auto-learn correction")
	}
}

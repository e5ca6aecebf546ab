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

// Package voice drives one utterance at a time per user through correction,
// parsing and catalog matching, and routes user feedback back into the
// correction store.
package voice

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/helpers/syncutil"
	"github.com/KitandaProject/kitanda-core/pkg/metrics"
	"github.com/KitandaProject/kitanda-core/pkg/voice/corrections"
	"github.com/KitandaProject/kitanda-core/pkg/voice/orderparse"
	"github.com/KitandaProject/kitanda-core/pkg/voice/resolver"
	"github.com/KitandaProject/kitanda-core/pkg/voice/similarity"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	// ErrBusy is returned when a transcript arrives while the same user's
	// previous utterance is still being processed.
	ErrBusy          = errors.New("utterance already in progress")
	ErrUnknownResult = errors.New("unknown result")
)

type State string

const (
	StateIdle            State = "idle"
	StateListening       State = "listening"
	StateFinalTranscript State = "final_transcript"
	StateCorrecting      State = "correcting"
	StateParsing         State = "parsing"
	StateMatching        State = "matching"
	StateMatched         State = "matched"
	StateUnmatched       State = "unmatched"
)

const (
	DefaultMaxSuggestions = 5
	defaultMaxResults     = 256
)

// Result is the outcome of one utterance. Match is nil when the utterance
// ended unmatched, in which case Alternatives and Suggestions hold what the
// UI can offer instead.
type Result struct {
	CreatedAt        time.Time                  `json:"createdAt"`
	Match            *resolver.Match            `json:"match,omitempty"`
	ID               string                     `json:"id"`
	UserID           string                     `json:"userId"`
	Transcript       string                     `json:"transcript"`
	CorrectedText    string                     `json:"correctedText"`
	CorrectionSource corrections.Source         `json:"correctionSource"`
	State            State                      `json:"state"`
	Alternatives     []string                   `json:"alternatives,omitempty"`
	Suggestions      []similarity.Candidate     `json:"suggestions,omitempty"`
	Order            orderparse.ParsedOrderItem `json:"order"`
}

type Options struct {
	Clock   clockwork.Clock
	Metrics *metrics.Metrics
	// SuggestionThreshold filters suggestions; zero or less means
	// similarity.DefaultRankThreshold.
	SuggestionThreshold float64
	MaxSuggestions      int
	MaxResults          int
}

type session struct {
	state atomic.Value
	busy  atomic.Bool
}

func (s *session) set(st State) {
	s.state.Store(st)
}

func (s *session) get() State {
	st, ok := s.state.Load().(State)
	if !ok {
		return StateIdle
	}
	return st
}

type Processor struct {
	store          *corrections.Store
	catalog        database.CatalogSource
	clock          clockwork.Clock
	metrics        *metrics.Metrics
	sessions       map[string]*session
	results        map[string]*Result
	resultOrder    []string
	threshold      float64
	maxSuggestions int
	maxResults     int
	mu             syncutil.Mutex
}

func NewProcessor(store *corrections.Store, catalog database.CatalogSource, opts Options) *Processor {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.DefaultMetrics
	}
	maxSuggestions := opts.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}
	threshold := opts.SuggestionThreshold
	if threshold <= 0 {
		threshold = similarity.DefaultRankThreshold
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Processor{
		store:          store,
		catalog:        catalog,
		clock:          clock,
		metrics:        m,
		sessions:       make(map[string]*session),
		results:        make(map[string]*Result),
		threshold:      threshold,
		maxSuggestions: maxSuggestions,
		maxResults:     maxResults,
	}
}

func (p *Processor) session(userID string) *session {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[userID]
	if !ok {
		s = &session{}
		s.set(StateIdle)
		p.sessions[userID] = s
	}
	return s
}

// State reports where the user's current utterance is in the pipeline.
func (p *Processor) State(userID string) State {
	return p.session(userID).get()
}

// StartListening marks the user as listening. It fails with ErrBusy while a
// transcript is being processed.
func (p *Processor) StartListening(userID string) error {
	s := p.session(userID)
	if s.busy.Load() {
		return ErrBusy
	}
	s.set(StateListening)
	return nil
}

// Process runs a final transcript through correction, parsing and matching.
// Only one transcript per user is processed at a time; a second one fails
// fast with ErrBusy.
func (p *Processor) Process(ctx context.Context, userID, transcript string) (*Result, error) {
	s := p.session(userID)
	if !s.busy.CompareAndSwap(false, true) {
		p.metrics.UtterancesTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	start := p.clock.Now()
	s.set(StateFinalTranscript)

	result := &Result{
		ID:         uuid.New().String(),
		UserID:     userID,
		Transcript: transcript,
		CreatedAt:  start,
	}

	s.set(StateCorrecting)
	outcome := p.store.Apply(ctx, transcript, userID)
	result.CorrectedText = outcome.Text
	result.CorrectionSource = outcome.Source
	if outcome.Source != corrections.SourceNone {
		p.metrics.CorrectionsApplied.WithLabelValues(string(outcome.Source)).Inc()
	}

	s.set(StateParsing)
	result.Order = orderparse.ParseOrder(outcome.Text)

	s.set(StateMatching)
	catalog := p.listCatalog(ctx, userID)
	if m, ok := resolver.ResolveBestMatch(result.Order, catalog); ok {
		result.Match = &m
	} else {
		p.tryAlternatives(ctx, result, catalog)
	}

	if result.Match != nil {
		result.State = StateMatched
		p.metrics.UtterancesTotal.WithLabelValues(metrics.OutcomeMatched).Inc()
		p.metrics.MatchConfidence.Observe(result.Match.Confidence)
	} else {
		result.State = StateUnmatched
		result.Suggestions = p.suggest(result.Order.Name, catalog)
		p.metrics.UtterancesTotal.WithLabelValues(metrics.OutcomeUnmatched).Inc()
	}
	s.set(result.State)
	p.remember(result)

	p.metrics.ProcessingDuration.Observe(p.clock.Since(start).Seconds())
	log.Debug().
		Str("user", userID).
		Str("result", result.ID).
		Str("transcript", transcript).
		Str("corrected", result.CorrectedText).
		Str("state", string(result.State)).
		Msg("processed utterance")

	return result, nil
}

// tryAlternatives parses and resolves each alternative correction of the
// raw transcript in turn, keeping the first one that matches.
func (p *Processor) tryAlternatives(ctx context.Context, result *Result, catalog []database.CatalogEntry) {
	result.Alternatives = p.store.ListAlternativeCorrections(ctx, result.Transcript, result.UserID)
	for _, alt := range result.Alternatives {
		order := orderparse.ParseOrder(alt)
		if m, ok := resolver.ResolveBestMatch(order, catalog); ok {
			result.Order = order
			result.CorrectedText = alt
			result.Match = &m
			return
		}
	}
}

func (p *Processor) suggest(query string, catalog []database.CatalogEntry) []similarity.Candidate {
	if query == "" {
		return nil
	}
	candidates := p.store.Scorer().Rank(query, catalog, p.threshold)
	if len(candidates) > p.maxSuggestions {
		candidates = candidates[:p.maxSuggestions]
	}
	return candidates
}

func (p *Processor) listCatalog(ctx context.Context, userID string) []database.CatalogEntry {
	if p.catalog == nil {
		return nil
	}
	entries, err := p.catalog.ListCatalog(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("failed to load catalog")
		return nil
	}
	return entries
}

func (p *Processor) remember(r *Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results[r.ID] = r
	p.resultOrder = append(p.resultOrder, r.ID)
	for len(p.resultOrder) > p.maxResults {
		delete(p.results, p.resultOrder[0])
		p.resultOrder = p.resultOrder[1:]
	}
}

// Result looks up a recent result belonging to userID.
func (p *Processor) Result(userID, resultID string) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r, ok := p.results[resultID]
	if !ok || r.UserID != userID {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResult, resultID)
	}
	return r, nil
}

// ConfirmMatch records that the user accepted a matched result. Nothing is
// persisted; the confirmation is counted and logged.
func (p *Processor) ConfirmMatch(_ context.Context, userID, resultID string) error {
	r, err := p.Result(userID, resultID)
	if err != nil {
		return err
	}
	if r.Match == nil {
		return fmt.Errorf("%w: %s has no match", ErrUnknownResult, resultID)
	}

	p.metrics.MatchesConfirmed.Inc()
	p.session(userID).set(StateIdle)
	log.Info().
		Str("user", userID).
		Str("result", resultID).
		Str("transcript", r.Transcript).
		Int64("product", r.Match.Entry.ID).
		Float64("confidence", r.Match.Confidence).
		Msg("match confirmed")
	return nil
}

// SubmitCorrection teaches the store that original should read as corrected
// for this user.
func (p *Processor) SubmitCorrection(ctx context.Context, userID, original, corrected string) error {
	if err := p.store.Learn(ctx, userID, original, corrected); err != nil {
		return fmt.Errorf("failed to submit correction: %w", err)
	}
	p.metrics.CorrectionsLearned.Inc()
	return nil
}

func (p *Processor) RejectCorrection(ctx context.Context, userID string, id int64) error {
	if err := p.store.Reject(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to reject correction: %w", err)
	}
	p.metrics.CorrectionsRejected.Inc()
	return nil
}

func (p *Processor) Alternatives(ctx context.Context, userID, text string) []string {
	return p.store.ListAlternativeCorrections(ctx, text, userID)
}

// Search ranks the user's catalog against a free-text query using the
// store's current dialect tables. A negative threshold means the default.
func (p *Processor) Search(ctx context.Context, userID, query string, threshold float64) []similarity.Candidate {
	return p.store.Scorer().Rank(query, p.listCatalog(ctx, userID), threshold)
}

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

// Package corrections turns noisy transcripts into what the user most likely
// said, using corrections the user taught it, the user's own catalog and a
// static dialect table.
package corrections

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/helpers"
	"github.com/KitandaProject/kitanda-core/pkg/helpers/syncutil"
	"github.com/KitandaProject/kitanda-core/pkg/voice/dialect"
	"github.com/KitandaProject/kitanda-core/pkg/voice/similarity"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var ErrInvalidCorrection = errors.New("invalid correction")

const DefaultAutoLearnMinConfidence = 0.85

type Options struct {
	Clock  clockwork.Clock
	Tables *dialect.Tables
	TTL    time.Duration
	// AutoLearn stores inferred corrections whose confidence reaches
	// AutoLearnMinConfidence.
	AutoLearn              bool
	AutoLearnMinConfidence float64
}

type tablesScorer struct {
	tables *dialect.Tables
	scorer *similarity.Scorer
}

type Store struct {
	repo          database.CorrectionRepository
	catalog       database.CatalogSource
	cache         *Cache
	locks         *syncutil.KeyedMutex
	tables        atomic.Pointer[dialect.Tables]
	scorer        atomic.Pointer[tablesScorer]
	regexes       *helpers.RegexCache
	validate      *validator.Validate
	minConfidence float64
	autoLearn     bool
}

func NewStore(
	repo database.CorrectionRepository,
	catalog database.CatalogSource,
	opts Options,
) *Store {
	tables := opts.Tables
	if tables == nil {
		tables = dialect.Default()
	}
	minConfidence := opts.AutoLearnMinConfidence
	if minConfidence <= 0 {
		minConfidence = DefaultAutoLearnMinConfidence
	}
	s := &Store{
		repo:          repo,
		catalog:       catalog,
		cache:         NewCache(opts.Clock, opts.TTL),
		locks:         syncutil.NewKeyedMutex(),
		regexes:       helpers.NewRegexCache(0),
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		autoLearn:     opts.AutoLearn,
		minConfidence: minConfidence,
	}
	s.tables.Store(tables)
	return s
}

func (s *Store) Tables() *dialect.Tables {
	return s.tables.Load()
}

// Scorer returns a combined scorer built from the current tables. It is
// rebuilt after SetTables.
func (s *Store) Scorer() *similarity.Scorer {
	t := s.Tables()
	if c := s.scorer.Load(); c != nil && c.tables == t {
		return c.scorer
	}
	c := &tablesScorer{tables: t, scorer: similarity.NewScorer(t)}
	s.scorer.Store(c)
	return c.scorer
}

// SetTables swaps the dialect tables used by later calls. Nil restores the
// built-in tables.
func (s *Store) SetTables(t *dialect.Tables) {
	if t == nil {
		t = dialect.Default()
	}
	s.tables.Store(t)
}

// Records returns the user's active corrections, newest first. Read failures
// are logged and yield an empty list.
func (s *Store) Records(ctx context.Context, userID string) []database.CorrectionRecord {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if records, ok := s.cache.Get(userID); ok {
		return records
	}

	records, err := s.repo.ListActiveCorrections(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("failed to load corrections")
		return nil
	}
	return s.cache.Put(userID, records)
}

func (s *Store) listCatalog(ctx context.Context, userID string) []database.CatalogEntry {
	if s.catalog == nil {
		return nil
	}
	entries, err := s.catalog.ListCatalog(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("failed to load catalog")
		return nil
	}
	return entries
}

type learnRequest struct {
	UserID    string `validate:"required"`
	Original  string `validate:"required,max=200"`
	Corrected string `validate:"required,max=200,nefield=Original"`
}

// Learn stores original -> corrected for the user and drops the user's cache
// so the next utterance sees it.
func (s *Store) Learn(ctx context.Context, userID, original, corrected string) error {
	req := learnRequest{
		UserID:    strings.TrimSpace(userID),
		Original:  strings.TrimSpace(original),
		Corrected: strings.TrimSpace(corrected),
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCorrection, err)
	}

	unlock := s.locks.Lock(req.UserID)
	defer unlock()

	if err := s.repo.UpsertCorrection(ctx, req.UserID, req.Original, req.Corrected); err != nil {
		log.Error().Err(err).Str("user", req.UserID).Msg("failed to save correction")
		return fmt.Errorf("failed to save correction: %w", err)
	}
	s.cache.Invalidate(req.UserID)

	log.Info().
		Str("user", req.UserID).
		Str("original", req.Original).
		Str("corrected", req.Corrected).
		Msg("learned correction")
	return nil
}

// Reject deactivates one of userID's correction records. Records are never
// deleted. Another user's record is reported as not found.
func (s *Store) Reject(ctx context.Context, userID string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id %d", ErrInvalidCorrection, id)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	rec, err := s.repo.GetCorrection(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up correction: %w", err)
	}
	if rec.UserID != userID {
		log.Warn().Str("user", userID).Int64("id", id).Msg("rejecting correction owned by another user")
		return fmt.Errorf("%w: %d", database.ErrCorrectionNotFound, id)
	}

	if err := s.repo.DeactivateCorrection(ctx, id); err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to deactivate correction")
		return fmt.Errorf("failed to deactivate correction: %w", err)
	}
	s.cache.Invalidate(userID)

	log.Info().Str("user", userID).Int64("id", id).Msg("rejected correction")
	return nil
}

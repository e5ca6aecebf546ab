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

// Package metrics provides Prometheus metrics for the voice pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kitanda"

// Outcome labels for UtterancesTotal.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeBusy      = "busy"
)

type Metrics struct {
	UtterancesTotal     *prometheus.CounterVec
	CorrectionsApplied  *prometheus.CounterVec
	CorrectionsLearned  prometheus.Counter
	CorrectionsRejected prometheus.Counter
	MatchesConfirmed    prometheus.Counter
	MatchConfidence     prometheus.Histogram
	ProcessingDuration  prometheus.Histogram
	CatalogImported     prometheus.Counter
}

// DefaultMetrics is registered on the default Prometheus registry and served
// on /metrics.
var DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics creates and registers all metrics on reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UtterancesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utterances_total",
			Help:      "Transcripts processed, by outcome",
		}, []string{"outcome"}),
		CorrectionsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrections_applied_total",
			Help:      "Corrections applied to transcripts, by source",
		}, []string{"source"}),
		CorrectionsLearned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrections_learned_total",
			Help:      "Correction records written from user feedback",
		}),
		CorrectionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrections_rejected_total",
			Help:      "Correction records deactivated",
		}),
		MatchesConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_confirmed_total",
			Help:      "Matches confirmed by the user",
		}),
		MatchConfidence: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_confidence",
			Help:      "Confidence of resolved catalog matches",
			Buckets:   []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		}),
		ProcessingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_duration_seconds",
			Help:      "Time from final transcript to result",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CatalogImported: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_entries_imported_total",
			Help:      "Catalog entries imported from CSV",
		}),
	}
}

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

// Package api serves the voice order pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apimiddleware "github.com/KitandaProject/kitanda-core/pkg/api/middleware"
	"github.com/KitandaProject/kitanda-core/pkg/api/validation"
	"github.com/KitandaProject/kitanda-core/pkg/config"
	"github.com/KitandaProject/kitanda-core/pkg/service/voice"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Limiter *apimiddleware.IPRateLimiter
	// Gatherer backs /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

type handlers struct {
	cfg       *config.Instance
	processor *voice.Processor
	validator *validation.Validator
}

// NewRouter builds the HTTP handler for the voice API.
func NewRouter(cfg *config.Instance, proc *voice.Processor, opts Options) http.Handler {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = apimiddleware.NewIPRateLimiter(cfg.RateLimitRPS(), apimiddleware.DefaultBurst, nil)
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	h := &handlers{
		cfg:       cfg,
		processor: proc,
		validator: validation.DefaultValidator,
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.APIRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/voice", func(r chi.Router) {
		r.Use(apimiddleware.HTTPRateLimitMiddleware(limiter))

		r.Post("/listen", h.handleListen)
		r.Get("/state", h.handleState)
		r.Post("/utterances", h.handleUtterance)
		r.Get("/results/{id}", h.handleResult)
		r.Post("/alternatives", h.handleAlternatives)
		r.Get("/search", h.handleSearch)
		r.Post("/corrections", h.handleSubmitCorrection)
		r.Delete("/corrections/{id}", h.handleRejectCorrection)
		r.Post("/confirm", h.handleConfirm)
	})

	return r
}

// Start serves the API on the configured address until ctx is cancelled,
// then shuts the server down gracefully.
func Start(ctx context.Context, cfg *config.Instance, proc *voice.Processor) error {
	limiter := apimiddleware.NewIPRateLimiter(cfg.RateLimitRPS(), apimiddleware.DefaultBurst, nil)
	limiter.StartCleanup(ctx)

	srv := &http.Server{
		Addr:              cfg.APIListen(),
		Handler:           NewRouter(cfg, proc, Options{Limiter: limiter}),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("starting api server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down api server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("api server stopped: %w", err)
	}
	return nil
}

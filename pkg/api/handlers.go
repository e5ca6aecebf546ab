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

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/KitandaProject/kitanda-core/pkg/api/models"
	"github.com/KitandaProject/kitanda-core/pkg/api/validation"
	"github.com/KitandaProject/kitanda-core/pkg/database/userdb"
	"github.com/KitandaProject/kitanda-core/pkg/service/voice"
	"github.com/KitandaProject/kitanda-core/pkg/voice/corrections"
	"github.com/KitandaProject/kitanda-core/pkg/voice/similarity"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

// writeError maps pipeline errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	resp := models.ErrorResponse{Error: err.Error()}

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		for _, f := range verr.Fields {
			resp.Fields = append(resp.Fields, f.Field)
		}
	case errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.Is(err, corrections.ErrInvalidCorrection):
		status = http.StatusBadRequest
	case errors.Is(err, voice.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, voice.ErrUnknownResult),
		errors.Is(err, userdb.ErrCorrectionNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func decode[T any](r *http.Request, dest *T) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return validation.ErrInvalidParams
	}
	return validation.ValidateAndUnmarshal(body, dest)
}

func (h *handlers) userParam(r *http.Request) (string, error) {
	p := struct {
		UserID string `json:"user_id" validate:"userid"`
	}{UserID: r.URL.Query().Get("user_id")}
	if err := h.validator.Validate(&p); err != nil {
		return "", err
	}
	return p.UserID, nil
}

func (h *handlers) handleListen(w http.ResponseWriter, r *http.Request) {
	var p struct {
		UserID string `json:"user_id" validate:"userid"`
	}
	if err := decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.processor.StartListening(p.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StateResponse{UserID: p.UserID, State: h.processor.State(p.UserID)})
}

func (h *handlers) handleState(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.StateResponse{UserID: userID, State: h.processor.State(userID)})
}

func (h *handlers) handleUtterance(w http.ResponseWriter, r *http.Request) {
	var p models.UtteranceParams
	if err := decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.processor.Process(r.Context(), p.UserID, p.Transcript)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) handleResult(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.processor.Result(userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handlers) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	var p models.AlternativesParams
	if err := decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	alts := h.processor.Alternatives(r.Context(), p.UserID, p.Text)
	if alts == nil {
		alts = []string{}
	}
	writeJSON(w, http.StatusOK, alts)
}

func (h *handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := models.SearchParams{
		UserID: q.Get("user_id"),
		Query:  q.Get("q"),
	}
	if raw := q.Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, validation.ErrInvalidParams)
			return
		}
		p.Threshold = &v
	}
	if err := h.validator.Validate(&p); err != nil {
		writeError(w, r, err)
		return
	}

	threshold := h.cfg.RankThreshold()
	if p.Threshold != nil {
		threshold = *p.Threshold
	}
	results := h.processor.Search(r.Context(), p.UserID, p.Query, threshold)
	if results == nil {
		results = []similarity.Candidate{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *handlers) handleSubmitCorrection(w http.ResponseWriter, r *http.Request) {
	var p models.CorrectionParams
	if err := decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.processor.SubmitCorrection(r.Context(), p.UserID, p.Original, p.Corrected); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleRejectCorrection(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, validation.ErrInvalidParams)
		return
	}
	if err := h.processor.RejectCorrection(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var p models.ConfirmParams
	if err := decode(r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.processor.ConfirmMatch(r.Context(), p.UserID, p.ResultID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

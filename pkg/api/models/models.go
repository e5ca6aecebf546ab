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

// Package models holds the JSON bodies of the voice HTTP API.
package models

import (
	"github.com/KitandaProject/kitanda-core/pkg/service/voice"
)

type UtteranceParams struct {
	UserID     string `json:"user_id" validate:"userid"`
	Transcript string `json:"transcript" validate:"notblank,max=500"`
}

type AlternativesParams struct {
	UserID string `json:"user_id" validate:"userid"`
	Text   string `json:"text" validate:"notblank,max=500"`
}

type CorrectionParams struct {
	UserID    string `json:"user_id" validate:"userid"`
	Original  string `json:"original_text" validate:"notblank,max=200"`
	Corrected string `json:"corrected_text" validate:"notblank,max=200"`
}

type ConfirmParams struct {
	UserID   string `json:"user_id" validate:"userid"`
	ResultID string `json:"result_id" validate:"required,uuid"`
}

type SearchParams struct {
	Threshold *float64 `json:"threshold" validate:"omitempty,gte=0,lte=1"`
	UserID    string   `json:"user_id" validate:"userid"`
	Query     string   `json:"q" validate:"notblank,max=200"`
}

type StateResponse struct {
	UserID string      `json:"user_id"`
	State  voice.State `json:"state"`
}

type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

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

package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type utteranceParams struct {
	UserID     string `json:"user_id" validate:"userid"`
	Transcript string `json:"transcript" validate:"notblank,max=500"`
}

type searchParams struct {
	Query     string   `json:"q" validate:"notblank"`
	Threshold *float64 `json:"threshold" validate:"omitempty,gte=0,lte=1"`
}

func TestValidateNotBlank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "text", value: "quero arroz", wantError: false},
		{name: "padded text", value: "  tibone ", wantError: false},
		{name: "empty", value: "", wantError: true},
		{name: "spaces only", value: "   ", wantError: true},
		{name: "tabs and newlines", value: "\t\n", wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(&utteranceParams{UserID: "user-1", Transcript: tt.value})
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "transcript must not be blank")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "simple", value: "user-1", wantError: false},
		{name: "email like", value: "ana.silva@kitanda.ao", wantError: false},
		{name: "empty", value: "", wantError: true},
		{name: "leading dash", value: "-user", wantError: true},
		{name: "space", value: "ana silva", wantError: true},
		{name: "too long", value: strings.Repeat("u", 65), wantError: true},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(&utteranceParams{UserID: tt.value, Transcript: "arroz"})
			if tt.wantError {
				require.Error(t, err)
				var verr *Error
				require.ErrorAs(t, err, &verr)
				require.Len(t, verr.Fields, 1)
				assert.Equal(t, "user_id", verr.Fields[0].Field)
				assert.Equal(t, "userid", verr.Fields[0].Tag)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateThresholdRange(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	ok := 0.5
	low := -0.1
	high := 1.5

	require.NoError(t, v.Validate(&searchParams{Query: "arroz"}))
	require.NoError(t, v.Validate(&searchParams{Query: "arroz", Threshold: &ok}))

	err := v.Validate(&searchParams{Query: "arroz", Threshold: &low})
	require.Error(t, err)
	assert.Equal(t, "threshold must not be below 0", err.Error())

	err = v.Validate(&searchParams{Query: "arroz", Threshold: &high})
	require.Error(t, err)
	assert.Equal(t, "threshold must not exceed 1", err.Error())
}

type confirmParams struct {
	ResultID string `json:"result_id" validate:"required,uuid"`
	Note     string `json:"note" validate:"max=5"`
}

func TestValidateMessages(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	tests := []struct {
		name   string
		params confirmParams
		want   string
	}{
		{name: "missing result", params: confirmParams{}, want: "result_id is required"},
		{
			name:   "not a uuid",
			params: confirmParams{ResultID: "abc"},
			want:   "result_id must be the id of a processed utterance",
		},
		{
			name:   "text too long",
			params: confirmParams{ResultID: "0b7f3c1e-2a41-4c8e-9d1a-5e6f7a8b9c0d", Note: "demasiado"},
			want:   "note must be at most 5 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(&tt.params)
			var verr *Error
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.want, verr.Fields[0].Message)
		})
	}
}

func TestValidateAndUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		var p utteranceParams
		err := ValidateAndUnmarshal([]byte(`{"user_id":"user-1","transcript":"quero tibana"}`), &p)
		require.NoError(t, err)
		assert.Equal(t, "quero tibana", p.Transcript)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		var p utteranceParams
		require.ErrorIs(t, ValidateAndUnmarshal([]byte("  "), &p), ErrMissingParams)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		var p utteranceParams
		require.ErrorIs(t, ValidateAndUnmarshal([]byte(`{"user_id":`), &p), ErrInvalidParams)
	})

	t.Run("multiple fields", func(t *testing.T) {
		t.Parallel()
		var p utteranceParams
		err := ValidateAndUnmarshal([]byte(`{"user_id":"","transcript":""}`), &p)
		var verr *Error
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
		assert.Equal(t, "user_id must be 1-64 letters, digits or _.@-; transcript must not be blank", verr.Error())
	})
}

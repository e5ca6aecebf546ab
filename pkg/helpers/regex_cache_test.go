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

package helpers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexCache_Compile(t *testing.T) {
	t.Parallel()

	rc := NewRegexCache(0)
	first, err := rc.Compile(`(?i)tibana`)
	require.NoError(t, err)
	second, err := rc.Compile(`(?i)tibana`)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, rc.Size())
	assert.True(t, first.MatchString("quero TIBANA"))
}

func TestRegexCache_InvalidPattern(t *testing.T) {
	t.Parallel()

	rc := NewRegexCache(0)
	_, err := rc.Compile(`(`)
	require.Error(t, err)
	assert.Equal(t, 0, rc.Size())
}

func TestRegexCache_ResetsAtLimit(t *testing.T) {
	t.Parallel()

	rc := NewRegexCache(2)
	for _, p := range []string{"a", "b", "c"} {
		_, err := rc.Compile(p)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, rc.Size())
}

func TestRegexCache_Concurrent(t *testing.T) {
	t.Parallel()

	rc := NewRegexCache(0)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rc.Compile(`\bfuba\b`)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, rc.Size())
}

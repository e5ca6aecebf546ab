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
	"fmt"
	"regexp"

	"github.com/KitandaProject/kitanda-core/pkg/helpers/syncutil"
)

// DefaultRegexCacheSize bounds the patterns kept before the cache resets.
// Patterns are built from user correction records, so the set is open ended.
const DefaultRegexCacheSize = 4096

// RegexCache keeps compiled patterns keyed by their source.
type RegexCache struct {
	cache map[string]*regexp.Regexp
	limit int
	mu    syncutil.RWMutex
}

func NewRegexCache(limit int) *RegexCache {
	if limit <= 0 {
		limit = DefaultRegexCacheSize
	}
	return &RegexCache{
		cache: make(map[string]*regexp.Regexp),
		limit: limit,
	}
}

// Compile returns the cached pattern or compiles and stores it.
func (rc *RegexCache) Compile(pattern string) (*regexp.Regexp, error) {
	rc.mu.RLock()
	re, ok := rc.cache[pattern]
	rc.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile regex pattern %q: %w", pattern, err)
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.cache) >= rc.limit {
		rc.cache = make(map[string]*regexp.Regexp)
	}
	rc.cache[pattern] = re
	return re, nil
}

func (rc *RegexCache) Size() int {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return len(rc.cache)
}

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
	"cmp"
	"slices"
	"time"

	"github.com/KitandaProject/kitanda-core/pkg/database"
	"github.com/KitandaProject/kitanda-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
)

const DefaultTTL = 30 * time.Second

type cacheEntry struct {
	fetchedAt time.Time
	records   []database.CorrectionRecord
}

// Cache holds each user's active correction records for a fixed TTL. An
// entry past its TTL is never returned.
type Cache struct {
	clock   clockwork.Clock
	entries map[string]cacheEntry
	ttl     time.Duration
	mu      syncutil.Mutex
}

func NewCache(clock clockwork.Clock, ttl time.Duration) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the user's records if they were fetched less than TTL ago.
func (c *Cache) Get(userID string) ([]database.CorrectionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if c.clock.Since(e.fetchedAt) >= c.ttl {
		delete(c.entries, userID)
		return nil, false
	}
	return e.records, true
}

// Put stores the active subset of records, newest first, and returns it.
func (c *Cache) Put(userID string, records []database.CorrectionRecord) []database.CorrectionRecord {
	active := make([]database.CorrectionRecord, 0, len(records))
	for _, r := range records {
		if r.Active {
			active = append(active, r)
		}
	}
	slices.SortStableFunc(active, func(a, b database.CorrectionRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{records: active, fetchedAt: c.clock.Now()}
	return active
}

func (c *Cache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

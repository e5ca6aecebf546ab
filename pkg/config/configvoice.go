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

package config

import (
	"path/filepath"
	"time"
)

const (
	DefaultCacheTTLMs             = 30_000
	DefaultRankThreshold          = 0.35
	DefaultAutoLearnMinConfidence = 0.85
	DefaultMaxSuggestions         = 5
)

type Voice struct {
	// Dictionary is an optional TOML or YAML dialect table replacing the
	// built-in pt-AO one.
	Dictionary             string   `toml:"dictionary,omitempty"`
	RankThreshold          *float64 `toml:"rank_threshold,omitempty"`
	AutoLearnMinConfidence *float64 `toml:"auto_learn_min_confidence,omitempty"`
	MaxSuggestions         *int     `toml:"max_suggestions,omitempty"`
	CacheTTLMs             int      `toml:"cache_ttl_ms"`
	AutoLearn              bool     `toml:"auto_learn"`
}

func (c *Instance) CacheTTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Voice.CacheTTLMs <= 0 {
		return DefaultCacheTTLMs * time.Millisecond
	}
	return time.Duration(c.vals.Voice.CacheTTLMs) * time.Millisecond
}

func (c *Instance) SetCacheTTL(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Voice.CacheTTLMs = int(d.Milliseconds())
}

func (c *Instance) RankThreshold() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Voice.RankThreshold == nil {
		return DefaultRankThreshold
	}
	return *c.vals.Voice.RankThreshold
}

func (c *Instance) SetRankThreshold(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Voice.RankThreshold = &v
}

func (c *Instance) AutoLearn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Voice.AutoLearn
}

func (c *Instance) SetAutoLearn(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Voice.AutoLearn = enabled
}

func (c *Instance) AutoLearnMinConfidence() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Voice.AutoLearnMinConfidence == nil {
		return DefaultAutoLearnMinConfidence
	}
	return *c.vals.Voice.AutoLearnMinConfidence
}

func (c *Instance) MaxSuggestions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Voice.MaxSuggestions == nil || *c.vals.Voice.MaxSuggestions <= 0 {
		return DefaultMaxSuggestions
	}
	return *c.vals.Voice.MaxSuggestions
}

// DictionaryPath returns the configured dialect table path, resolved
// against the config file's directory, or "" for the built-in table.
func (c *Instance) DictionaryPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.vals.Voice.Dictionary
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(c.cfgPath), p)
}

func (c *Instance) SetDictionary(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Voice.Dictionary = path
}

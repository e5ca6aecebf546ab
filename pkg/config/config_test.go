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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewConfig_CreatesDefaultFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	path := filepath.Join(dir, CfgFile)
	assert.Equal(t, path, cfg.Path())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
	assert.Contains(t, string(data), "cache_ttl_ms = 30000")

	assert.Equal(t, 30*time.Second, cfg.CacheTTL())
	assert.False(t, cfg.AutoLearn())
	assert.InDelta(t, DefaultRankThreshold, cfg.RankThreshold(), 0)
	assert.InDelta(t, DefaultAutoLearnMinConfidence, cfg.AutoLearnMinConfidence(), 0)
	assert.Equal(t, DefaultMaxSuggestions, cfg.MaxSuggestions())
	assert.Empty(t, cfg.DictionaryPath())
}

func TestNewConfig_OverlaysFileOnDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	content := `config_schema = 1

[voice]
auto_learn = true
rank_threshold = 0.5
dictionary = "luanda.yaml"

[service]
api_port = 9001
allowed_origins = ["http://localhost:5173"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte(content), 0o600))

	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	assert.True(t, cfg.AutoLearn())
	assert.InDelta(t, 0.5, cfg.RankThreshold(), 0)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL(), "missing keys keep defaults")
	assert.Equal(t, filepath.Join(dir, "luanda.yaml"), cfg.DictionaryPath())
	assert.Equal(t, ":9001", cfg.APIListen())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins())
}

func TestNewConfig_SchemaMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte("config_schema = 7\n"), 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestNewConfig_InvalidTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CfgFile), []byte("[voice\n"), 0o600))

	_, err := NewConfig(dir, BaseDefaults)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

//nolint:paralleltest // modifies environment
func TestNewConfig_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elsewhere", "custom.toml")
	t.Setenv(CfgEnv, path)

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.FileExists(t, path)
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetAutoLearn(true)
	cfg.SetCacheTTL(5 * time.Second)
	cfg.SetRankThreshold(0.42)
	cfg.SetDictionary("/etc/kitanda/dialect.toml")
	cfg.SetDatabasePath("db/custom.db")
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(dir, BaseDefaults)
	require.NoError(t, err)
	assert.True(t, reloaded.AutoLearn())
	assert.Equal(t, 5*time.Second, reloaded.CacheTTL())
	assert.InDelta(t, 0.42, reloaded.RankThreshold(), 0)
	assert.Equal(t, "/etc/kitanda/dialect.toml", reloaded.DictionaryPath())
	assert.Equal(t, filepath.Join("/data", "db/custom.db"), reloaded.DatabasePath("/data"))
}

func TestDatabasePath(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	assert.Equal(t, filepath.Join("/data", UserDbFile), cfg.DatabasePath("/data"))
	cfg.SetDatabasePath("/var/lib/kitanda.db")
	assert.Equal(t, "/var/lib/kitanda.db", cfg.DatabasePath("/data"))
}

func TestLoad_NoPath(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	require.Error(t, cfg.Load())
	require.Error(t, cfg.Save())
}

func TestPropertyCacheTTLRoundTrip(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.IntRange(1, 24*60*60*1000).Draw(t, "ms")
		cfg := &Instance{}
		cfg.SetCacheTTL(time.Duration(ms) * time.Millisecond)
		if got := cfg.CacheTTL(); got != time.Duration(ms)*time.Millisecond {
			t.Fatalf("got %v for %dms", got, ms)
		}
	})
}

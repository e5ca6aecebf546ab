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
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
)

//nolint:paralleltest // t.Setenv
func TestDataDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DataDirEnv, dir)

	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, "logs"), LogDir())
}

//nolint:paralleltest // t.Setenv
func TestDataDir_Default(t *testing.T) {
	t.Setenv(DataDirEnv, "")

	assert.Equal(t, filepath.Join(xdg.DataHome, "kitanda"), DataDir())
	assert.Equal(t, filepath.Join(xdg.DataHome, "kitanda", "logs"), LogDir())
}

//nolint:paralleltest // t.Setenv
func TestConfigDir(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	assert.Equal(t, filepath.Join(xdg.ConfigHome, "kitanda"), ConfigDir())
	assert.NotEqual(t, DataDir(), ConfigDir())

	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)
	assert.Equal(t, dir, ConfigDir())
}

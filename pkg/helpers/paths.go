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
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	DataDirEnv   = "KITANDA_DATA"
	ConfigDirEnv = "KITANDA_CONFIG_DIR"
	appDirName   = "kitanda"
)

// DataDir is where the database and logs live: KITANDA_DATA if set, else
// the XDG data home.
func DataDir() string {
	if v := os.Getenv(DataDirEnv); v != "" {
		return v
	}
	return filepath.Join(xdg.DataHome, appDirName)
}

// ConfigDir holds kitanda.toml: KITANDA_CONFIG_DIR if set, else the XDG
// config home.
func ConfigDir() string {
	if v := os.Getenv(ConfigDirEnv); v != "" {
		return v
	}
	return filepath.Join(xdg.ConfigHome, appDirName)
}

func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}

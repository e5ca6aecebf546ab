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
	"strconv"
	"strings"
)

const (
	DefaultAPIPort      = 7380
	DefaultRateLimitRPS = 20
)

type Service struct {
	APIPort        *int     `toml:"api_port,omitempty"`
	RateLimitRPS   *int     `toml:"rate_limit_rps,omitempty"`
	APIListen      string   `toml:"api_listen,omitempty"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiPortLocked()
}

// apiPortLocked returns the API port. Caller must hold mu (read or write).
func (c *Instance) apiPortLocked() int {
	if c.vals.Service.APIPort == nil {
		return DefaultAPIPort
	}
	return *c.vals.Service.APIPort
}

func (c *Instance) SetAPIPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Service.APIPort = &port
}

// APIListen returns the listen address. A configured host without a port
// gets the API port appended.
func (c *Instance) APIListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	listen := c.vals.Service.APIListen
	port := strconv.Itoa(c.apiPortLocked())
	switch {
	case listen == "":
		return ":" + port
	case strings.Contains(listen, ":"):
		return listen
	default:
		return listen + ":" + port
	}
}

func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.AllowedOrigins
}

func (c *Instance) RateLimitRPS() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.RateLimitRPS == nil || *c.vals.Service.RateLimitRPS <= 0 {
		return DefaultRateLimitRPS
	}
	return *c.vals.Service.RateLimitRPS
}

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
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestAPIListen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		port   *int
		name   string
		listen string
		want   string
	}{
		{name: "default port", want: ":7380"},
		{name: "custom port", port: intPtr(8080), want: ":8080"},
		{name: "host gets port", listen: "127.0.0.1", port: intPtr(9000), want: "127.0.0.1:9000"},
		{name: "full address kept", listen: "0.0.0.0:81", port: intPtr(9000), want: "0.0.0.0:81"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inst := &Instance{
				vals: Values{
					Service: Service{
						APIPort:   tt.port,
						APIListen: tt.listen,
					},
				},
			}
			assert.Equal(t, tt.want, inst.APIListen())
		})
	}
}

func TestRateLimitRPS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rps  *int
		name string
		want int
	}{
		{name: "nil uses default", want: DefaultRateLimitRPS},
		{name: "zero uses default", rps: intPtr(0), want: DefaultRateLimitRPS},
		{name: "custom", rps: intPtr(5), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inst := &Instance{vals: Values{Service: Service{RateLimitRPS: tt.rps}}}
			assert.Equal(t, tt.want, inst.RateLimitRPS())
		})
	}
}

func TestAPIPortSetter(t *testing.T) {
	t.Parallel()

	inst := &Instance{}
	assert.Equal(t, DefaultAPIPort, inst.APIPort())
	inst.SetAPIPort(1234)
	assert.Equal(t, 1234, inst.APIPort())
	assert.Nil(t, inst.AllowedOrigins())
}

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

package dialect

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	tables := Default()
	require.NotNil(t, tables)
	assert.Equal(t, "pt-AO", tables.Name)
	assert.NotEmpty(t, tables.Brands)
	assert.NotEmpty(t, tables.Families)
	assert.Len(t, tables.Famous, 2)
	for _, m := range tables.Mistakes {
		assert.NotNil(t, m.re, m.Pattern)
	}
}

func TestDefault_VariantsNormalized(t *testing.T) {
	t.Parallel()

	for _, f := range Default().Families {
		if f.Canonical != "massa" {
			continue
		}
		assert.True(t, f.HasVariant("maca"))
		assert.False(t, f.HasVariant("maça"))
		return
	}
	t.Fatal("massa family missing")
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "pt.toml", want: FormatTOML},
		{path: "/etc/kitanda/pt.TOML", want: FormatTOML},
		{path: "pt.yaml", want: FormatYAML},
		{path: "pt.yml", want: FormatYAML},
		{path: "pt.json", wantErr: true},
		{path: "pt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	yml := `
name: test
brands:
  - canonical: Cuca
    variants: [kuka, "Cúca"]
mistakes:
  - pattern: '\bgasosa\b'
    replace: refrigerante
`
	require.NoError(t, afero.WriteFile(fs, "/dialects/test.yaml", []byte(yml), 0o644))

	tables, err := Load(fs, "/dialects/test.yaml")
	require.NoError(t, err)
	require.Len(t, tables.Brands, 1)
	assert.Equal(t, "cuca", tables.Brands[0].Canonical)
	assert.Equal(t, []string{"kuka", "cuca"}, tables.Brands[0].Variants)

	out, changed := tables.FixMistakes("duas GASOSA frescas")
	assert.True(t, changed)
	assert.Equal(t, "duas refrigerante frescas", out)
}

func TestLoad_TOML(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	data := `
name = "mini"

[[families]]
canonical = "arroz"
variants = ["aros"]
`
	require.NoError(t, afero.WriteFile(fs, "mini.toml", []byte(data), 0o644))

	tables, err := Load(fs, "mini.toml")
	require.NoError(t, err)
	f, ok := tables.FamilyFor("arroz premium 5kg")
	require.True(t, ok)
	assert.True(t, f.HasVariant("aros"))
	assert.True(t, f.HasVariant("arroz"))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.toml", []byte("[[mistakes]]\npattern = '('\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "broken.yaml", []byte("brands: [\n"), 0o644))

	_, err := Load(fs, "missing.toml")
	require.Error(t, err)

	_, err = Load(fs, "bad.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistake 0")

	_, err = Load(fs, "broken.yaml")
	require.Error(t, err)

	_, err = Parse([]byte(""), Format("ini"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFixMistakes_NoMatch(t *testing.T) {
	t.Parallel()

	out, changed := Default().FixMistakes("duas cervejas cuca")
	assert.False(t, changed)
	assert.Equal(t, "duas cervejas cuca", out)
}

func TestFixMistakes_Default(t *testing.T) {
	t.Parallel()

	out, changed := Default().FixMistakes("um litro de olho de soja")
	assert.True(t, changed)
	assert.Equal(t, "um litro de óleo de soja", out)
}

func TestIsStopword(t *testing.T) {
	t.Parallel()

	tables := Default()
	assert.True(t, tables.IsStopword("quero"))
	assert.True(t, tables.IsStopword("tres"))
	assert.False(t, tables.IsStopword("arroz"))
}

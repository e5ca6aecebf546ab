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

// Package dialect holds the word tables that tune voice resolution to one
// regional way of speaking: brand names and the ways they get mis-heard,
// product-family spelling variants, whole-phrase mis-recognitions and a
// last-resort list of regex fixes.
package dialect

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/KitandaProject/kitanda-core/pkg/voice/phonetic"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed default.toml
var defaultTable []byte

var ErrUnknownFormat = errors.New("unknown dialect table format")

// Entry maps a canonical token to the variants a speech engine produces for
// it. Variants are stored normalized.
type Entry struct {
	Canonical string   `toml:"canonical" yaml:"canonical"`
	Variants  []string `toml:"variants" yaml:"variants"`
}

type Mistake struct {
	re      *regexp.Regexp
	Pattern string `toml:"pattern" yaml:"pattern"`
	Replace string `toml:"replace" yaml:"replace"`
}

type Tables struct {
	Name     string    `toml:"name" yaml:"name"`
	Brands   []Entry   `toml:"brands" yaml:"brands"`
	Families []Entry   `toml:"families" yaml:"families"`
	Famous   []Entry   `toml:"famous" yaml:"famous"`
	Mistakes []Mistake `toml:"mistakes" yaml:"mistakes"`
	// Stopwords are order phrasing words that are never product names.
	Stopwords []string `toml:"stopwords" yaml:"stopwords"`
	stopwords map[string]struct{}
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the embedded Portuguese (Angola) tables. The result is
// shared and must not be modified.
func Default() *Tables {
	defaultOnce.Do(func() {
		t, err := Parse(defaultTable, FormatTOML)
		if err != nil {
			panic(fmt.Sprintf("embedded dialect table: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a decoder from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a dialect table file from fs.
func Load(fs afero.Fs, path string) (*Tables, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialect table: %w", err)
	}

	t, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dialect table %s: %w", path, err)
	}

	log.Info().
		Str("path", path).
		Str("name", t.Name).
		Int("brands", len(t.Brands)).
		Int("families", len(t.Families)).
		Int("mistakes", len(t.Mistakes)).
		Msg("loaded dialect table")

	return t, nil
}

// Parse decodes and compiles a table. Every mistake pattern must compile.
func Parse(data []byte, format Format) (*Tables, error) {
	var t Tables
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) compile() error {
	for _, entries := range [][]Entry{t.Brands, t.Families, t.Famous} {
		for i := range entries {
			entries[i].Canonical = phonetic.NormalizeText(entries[i].Canonical)
			for j, v := range entries[i].Variants {
				entries[i].Variants[j] = phonetic.NormalizeText(v)
			}
		}
	}

	t.stopwords = make(map[string]struct{}, len(t.Stopwords))
	for _, w := range t.Stopwords {
		t.stopwords[phonetic.NormalizeText(w)] = struct{}{}
	}

	for i := range t.Mistakes {
		re, err := regexp.Compile("(?i)" + t.Mistakes[i].Pattern)
		if err != nil {
			return fmt.Errorf("mistake %d (%q): %w", i, t.Mistakes[i].Pattern, err)
		}
		t.Mistakes[i].re = re
	}
	return nil
}

// HasVariant reports whether v is one of the entry's variants or the
// canonical token itself. v must already be normalized.
func (e Entry) HasVariant(v string) bool {
	if v == e.Canonical {
		return true
	}
	for _, variant := range e.Variants {
		if variant == v {
			return true
		}
	}
	return false
}

// FamilyFor returns the family whose canonical token appears in the
// normalized product name.
func (t *Tables) FamilyFor(normalizedName string) (Entry, bool) {
	for _, f := range t.Families {
		if f.Canonical != "" && strings.Contains(normalizedName, f.Canonical) {
			return f, true
		}
	}
	return Entry{}, false
}

// FixMistakes runs every mistake rule over text and reports whether any of
// them changed it.
func (t *Tables) FixMistakes(text string) (string, bool) {
	out := text
	for _, m := range t.Mistakes {
		if m.re == nil {
			continue
		}
		out = m.re.ReplaceAllString(out, m.Replace)
	}
	return out, out != text
}

// IsStopword reports whether the normalized word is order phrasing.
func (t *Tables) IsStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

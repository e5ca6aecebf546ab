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

// Package phonetic builds comparison keys for Portuguese text as spoken with
// an Angolan accent. Keys collapse spellings that speech engines confuse
// (c/k/qu, s/z/ç/x, nasal m/n, final l/u) so two transcripts of the same word
// produce the same key. Keys are never shown to users.
package phonetic

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxPasses bounds the fixpoint loop in Code. Every rule either shortens the
// string or moves a letter toward its canonical class, so real input settles
// in two or three passes.
const maxPasses = 8

// rule is either a regex substitution or a function over the whole key.
type rule struct {
	re   *regexp.Regexp
	fn   func(string) string
	repl string
}

// rules are applied in order; later rules assume earlier ones already ran.
var rules = []rule{
	// 1. hard/soft c
	{re: regexp.MustCompile(`qu`), repl: "k"},
	{re: regexp.MustCompile(`c([eiéêèëíìîï])`), repl: "s$1"},
	{re: regexp.MustCompile(`c([aouáàâãóòôõúùûükq])`), repl: "k$1"},

	// 2. sibilants
	{re: regexp.MustCompile(`(?:ss|ç|x)([ieíìîéêè])`), repl: "s$1"},
	{re: regexp.MustCompile(`ch|sh`), repl: "x"},

	// 3. z/s voicing
	{re: regexp.MustCompile(`z\b`), repl: "s"},
	{fn: voiceIntervocalicS},

	// 4. nasal assimilation
	{re: regexp.MustCompile(`n([pbmf])`), repl: "m$1"},
	{re: regexp.MustCompile(`m([tdnlr])`), repl: "n$1"},

	// 5. liquids and glides
	{re: regexp.MustCompile(`l\b`), repl: "u"},
	{re: regexp.MustCompile(`lh`), repl: "li"},
	{re: regexp.MustCompile(`nh`), repl: "ni"},
	{re: regexp.MustCompile(`y`), repl: "i"},
	{re: regexp.MustCompile(`w`), repl: "u"},
	{re: regexp.MustCompile(`rr`), repl: "r"},

	// 6. accented vowel classes
	{re: regexp.MustCompile(`[áàâãä]`), repl: "a"},
	{re: regexp.MustCompile(`[éêèë]`), repl: "e"},
	{re: regexp.MustCompile(`[íìîï]`), repl: "i"},
	{re: regexp.MustCompile(`[óòôõö]`), repl: "o"},
	{re: regexp.MustCompile(`[úùûü]`), repl: "u"},
}

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeText lowercases s, strips diacritics and drops every character
// outside [a-z0-9 ]. Whitespace of any kind becomes a plain space.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(stripDiacritics, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// Code returns the phonetic key for s. The result is stable under repeated
// application: Code(Code(s)) == Code(s).
func Code(s string) string {
	out := NormalizeText(s)
	for range maxPasses {
		next := applyRules(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func applyRules(s string) string {
	for _, r := range rules {
		if r.fn != nil {
			s = r.fn(s)
			continue
		}
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return collapseRuns(s)
}

// voiceIntervocalicS turns s into z between two vowels. A leading "ss" never
// qualifies because the s before it is not a vowel.
func voiceIntervocalicS(s string) string {
	b := []byte(s)
	for i := 1; i < len(b)-1; i++ {
		if b[i] == 's' && isVowel(b[i-1]) && isVowel(b[i+1]) {
			b[i] = 'z'
		}
	}
	return string(b)
}

// collapseRuns reduces any run of the same letter to one occurrence. Digits
// and spaces are left alone.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev && r >= 'a' && r <= 'z' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

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

package orderparse

import (
	"regexp"
	"strconv"
	"strings"
)

var numberWords = map[string]int{
	"um": 1, "uma": 1,
	"dois": 2, "duas": 2,
	"tres": 3, "três": 3,
	"quatro": 4, "cinco": 5, "seis": 6, "sete": 7, "oito": 8, "nove": 9,
	"dez": 10, "onze": 11, "doze": 12, "treze": 13,
	"catorze": 14, "quatorze": 14, "quinze": 15,
	"dezasseis": 16, "dezesseis": 16,
	"dezassete": 17, "dezessete": 17,
	"dezoito": 18,
	"dezanove": 19, "dezenove": 19,
	"vinte": 20, "trinta": 30, "quarenta": 40, "cinquenta": 50,
	"sessenta": 60, "setenta": 70, "oitenta": 80, "noventa": 90,
	"cem": 100, "cento": 100,
	"duzentos": 200, "duzentas": 200,
	"trezentos": 300, "trezentas": 300,
	"quatrocentos": 400, "quatrocentas": 400,
	"quinhentos": 500, "quinhentas": 500,
	"seiscentos": 600, "seiscentas": 600,
	"setecentos": 700, "setecentas": 700,
	"oitocentos": 800, "oitocentas": 800,
	"novecentos": 900, "novecentas": 900,
}

var multiplierWords = map[string]int{
	"mil":     1_000,
	"milhao":  1_000_000,
	"milhão":  1_000_000,
	"milhoes": 1_000_000,
	"milhões": 1_000_000,
}

var (
	thousandsDotRe = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	digitsRe       = regexp.MustCompile(`^\d+$`)
)

// parseNumber reads a number written the Portuguese way: "1.500" is one
// thousand five hundred, "1,50" is one and a half.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, ".") && strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ",", ".")
	case thousandsDotRe.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// leadingNumberWord turns a spoken count at the start of s into digits.
// Compound counts ("vinte e cinco", "dois mil", "2 mil") collapse into one
// number. A lone "um"/"uma" is left alone.
func leadingNumberWord(s string) string {
	tokens := strings.Fields(s)
	n := leadingNumberRun(tokens)
	if n == 0 {
		return s
	}
	if v, ok := numberWords[tokens[0]]; n == 1 && ok && v == 1 {
		return s
	}
	num := spokenNumbersToDigits(strings.Join(tokens[:n], " "))
	return strings.Join(append([]string{num}, tokens[n:]...), " ")
}

// leadingNumberRun counts the tokens at the start of tokens that spell one
// number.
func leadingNumberRun(tokens []string) int {
	n := 0
	for n < len(tokens) {
		tok := tokens[n]
		switch {
		case isNumberToken(tok):
		case n == 0 && digitsRe.MatchString(tok) && len(tokens) > 1 && isMultiplier(tokens[1]):
		case tok == "e" && n > 0 && n+1 < len(tokens) && isNumberToken(tokens[n+1]):
		default:
			return n
		}
		n++
	}
	return n
}

// spokenNumbersToDigits collapses runs of spoken number words, including
// "mil" and "milhão" multipliers and the joining "e", into digits:
// "dois mil e quinhentos" becomes "2500".
func spokenNumbersToDigits(s string) string {
	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))

	var total, current int
	inNumber := false
	flush := func() {
		if inNumber {
			out = append(out, strconv.Itoa(total+current))
		}
		total, current, inNumber = 0, 0, false
	}

	for i, tok := range tokens {
		if v, ok := numberWords[tok]; ok {
			current += v
			inNumber = true
			continue
		}
		if m, ok := multiplierWords[tok]; ok {
			if current == 0 {
				current = 1
			}
			total += current * m
			current = 0
			inNumber = true
			continue
		}
		if digitsRe.MatchString(tok) && i+1 < len(tokens) {
			if _, ok := multiplierWords[tokens[i+1]]; ok {
				flush()
				n, _ := strconv.Atoi(tok)
				current = n
				inNumber = true
				continue
			}
		}
		if tok == "e" && inNumber && i+1 < len(tokens) && isNumberToken(tokens[i+1]) {
			continue
		}
		flush()
		out = append(out, tok)
	}
	flush()

	return strings.Join(out, " ")
}

func isNumberToken(tok string) bool {
	if _, ok := numberWords[tok]; ok {
		return true
	}
	return isMultiplier(tok)
}

func isMultiplier(tok string) bool {
	_, ok := multiplierWords[tok]
	return ok
}

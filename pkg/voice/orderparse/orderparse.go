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

// Package orderparse pulls quantity, product name and price out of a spoken
// order such as "quero 2 pacotes de manteiga de 400 kz cada".
package orderparse

import (
	"regexp"
	"strings"
)

const (
	baseConfidence         = 0.5
	unitQuantityConfidence = 0.2
	bareQuantityConfidence = 0.1
	priceConfidence        = 0.1
	listingPriceConfidence = 0.2
	listingNameConfidence  = 0.1
)

type ParsedOrderItem struct {
	Price        *float64 `json:"price,omitempty"`
	Name         string   `json:"name"`
	Unit         string   `json:"unit,omitempty"`
	OriginalText string   `json:"originalText"`
	Quantity     int      `json:"quantity"`
	Confidence   float64  `json:"confidence"`
}

// ParsedListing is a product description with an optional price, as used
// when a product is being registered by voice.
type ParsedListing struct {
	Price        *float64 `json:"price,omitempty"`
	Name         string   `json:"name"`
	OriginalText string   `json:"originalText"`
	Confidence   float64  `json:"confidence"`
}

const (
	numberPattern = `(\d+(?:[.,]\d+)*)`
	unitPattern   = `(unidades?|pacotes?|caixas?|kg|kilos?|quilos?|litros?|l|` +
		`garrafas?|latas?|sacos?|grades?|fardos?|d[uú]zias?)`
)

var (
	fillerRe         = regexp.MustCompile(`\b(?:quero|adicionar|comprar|colocar|no carrinho|por favor|preciso)\b`)
	leadingArticleRe = regexp.MustCompile(`^(?:(?:de|um|uma)\s+)+`)
	spaceRe          = regexp.MustCompile(`\s+`)

	unitQuantityRe = regexp.MustCompile(`^(\d+)\s*` + unitPattern + `\s+(?:de\s+)?(.+)$`)
	unitStartRe    = regexp.MustCompile(`^` + unitPattern + `\s`)
	bareQuantityRe = regexp.MustCompile(`^(\d+)\s+(.+)$`)
	currencyWordRe = regexp.MustCompile(`^(?:reais|kwanzas?|kzs?|akz|r\$)\b`)

	// Price triggers, strongest first. Group 1 is always the number.
	priceRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:de|por|custa|vale)\s+` + numberPattern + `(?:\s+cada)?\s*$`),
		regexp.MustCompile(`\b(?:de|por|custa|vale)\s+` + numberPattern +
			`\s*(?:reais|kwanzas?|kzs?|akz)\b(?:\s+cada)?`),
		regexp.MustCompile(`\b(?:de|por|custa|vale)\s+(?:r\$|kz)\s*` + numberPattern + `(?:\s+cada)?`),
		regexp.MustCompile(numberPattern + `\s*(?:reais|kwanzas?|kzs?|akz)\b(?:\s+cada)?`),
		regexp.MustCompile(`\s(?:r\$|kz)?\s*` + numberPattern + `(?:\s+cada)?\s*$`),
	}

	prepositionsRe = regexp.MustCompile(`(?:^|\s)(?:de|da|do|das|dos)(?:\s|$)`)
	trailingCadaRe = regexp.MustCompile(`\s*\bcada$`)
)

// clean lowercases, drops command fillers anywhere and collapses
// whitespace.
func clean(text string) string {
	s := strings.ToLower(text)
	s = fillerRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func stripArticles(s string) string {
	return strings.TrimSpace(leadingArticleRe.ReplaceAllString(s, ""))
}

// quantityWords drops leading articles and turns a spoken count into
// digits. "um pacote" keeps its count since the unit makes it one.
func quantityWords(s string) string {
	first, rest, _ := strings.Cut(s, " ")
	if (first == "um" || first == "uma") && unitStartRe.MatchString(rest+" ") {
		return "1 " + rest
	}
	return leadingNumberWord(stripArticles(s))
}

// extractPrice removes the first matching price expression from s.
func extractPrice(s string) (rest string, price *float64) {
	for _, re := range priceRes {
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		v, ok := parseNumber(s[loc[2]:loc[3]])
		if !ok {
			continue
		}
		rest = strings.TrimSpace(s[:loc[0]] + " " + s[loc[1]:])
		return spaceRe.ReplaceAllString(rest, " "), &v
	}
	return s, nil
}

// tidyName strips prepositions at the edges and between words.
func tidyName(s string) string {
	s = trailingCadaRe.ReplaceAllString(s, "")
	// Applied twice: adjacent prepositions share the separating space.
	s = prepositionsRe.ReplaceAllString(s, " ")
	s = prepositionsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func singular(unit string) string {
	if len(unit) > 2 && strings.HasSuffix(unit, "s") {
		return strings.TrimSuffix(unit, "s")
	}
	return unit
}

// ParseOrder extracts an order line from free text. It never fails: at
// worst the whole cleaned text becomes the name with quantity 1.
func ParseOrder(text string) ParsedOrderItem {
	item := ParsedOrderItem{
		OriginalText: text,
		Quantity:     1,
		Confidence:   baseConfidence,
	}

	s := quantityWords(clean(text))
	quantity := 0

	if m := unitQuantityRe.FindStringSubmatch(s); m != nil {
		quantity = atoi(m[1])
		item.Unit = singular(m[2])
		s = m[3]
		item.Confidence += unitQuantityConfidence
	} else if m := bareQuantityRe.FindStringSubmatch(s); m != nil && !currencyWordRe.MatchString(m[2]) {
		quantity = atoi(m[1])
		s = m[2]
		item.Confidence += bareQuantityConfidence
	}

	s, item.Price = extractPrice(s)
	if item.Price != nil {
		item.Confidence += priceConfidence
	}

	if quantity == 0 {
		if m := bareQuantityRe.FindStringSubmatch(s); m != nil {
			quantity = atoi(m[1])
			s = m[2]
			item.Confidence += bareQuantityConfidence
		}
	}

	if quantity >= 1 {
		item.Quantity = quantity
	}
	item.Name = tidyName(s)
	item.Confidence = min(item.Confidence, 1)
	return item
}

// ParseListing extracts a product name and price. When no price is found
// it retries with spoken numbers ("dois mil e quinhentos") turned into
// digits.
func ParseListing(text string) ParsedListing {
	listing := ParsedListing{OriginalText: text, Confidence: baseConfidence}

	s := stripArticles(clean(text))
	rest, price := extractPrice(s)
	if price == nil {
		rest, price = extractPrice(spokenNumbersToDigits(s))
	}
	if price != nil {
		listing.Price = price
		listing.Confidence += listingPriceConfidence
		s = rest
	}

	listing.Name = tidyName(s)
	if listing.Name != "" {
		listing.Confidence += listingNameConfidence
	}
	return listing
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return 1_000_000
		}
	}
	return n
}

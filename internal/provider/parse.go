// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// yearOf extracts a four-digit year from a free-form date string such as
// "1965", "2023-05-15", or "October 1, 1965". Returns 0 when none is found.
func yearOf(date string) int {
	m := yearPattern.FindString(date)
	if m == "" {
		return 0
	}
	year := 0
	for _, r := range m {
		year = year*10 + int(r-'0')
	}
	return year
}

// cleanISBN strips hyphens and spaces from an ISBN.
func cleanISBN(isbn string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(isbn)
}

// titleCaseSegment derives a human-readable name from the trailing path
// segment of a reference key: "/authors/frank_herbert" becomes
// "Frank Herbert". Used as the fallback when a secondary-entity fetch
// fails.
func titleCaseSegment(key string) string {
	segment := path.Base(strings.TrimSuffix(key, "/"))
	words := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

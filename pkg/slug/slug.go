// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns product names into ASCII keys.
//
// Two names that differ only in case, accents, spacing or punctuation map to
// the same slug, which is what makes the slug column a usable uniqueness key.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds the slug length in bytes.
const MaxLength = 160

// From returns the slug of s: accents stripped, lowercased, every run of
// characters outside [a-z0-9] collapsed into one hyphen, no leading or
// trailing hyphen. It returns "" when s has no ASCII letter or digit left.
func From(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}

	var builder strings.Builder
	builder.Grow(len(stripped))

	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			pendingHyphen = true
			continue
		}

		need := 1
		if pendingHyphen && builder.Len() > 0 {
			need = 2
		}
		if builder.Len()+need > MaxLength {
			break
		}
		if need == 2 {
			builder.WriteByte('-')
		}
		builder.WriteRune(r)
		pendingHyphen = false
	}

	return builder.String()
}

//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package expander

import (
	"strings"
	"unicode"

	"github.com/tidwall/gjson"
	"golang.org/x/text/width"
)

// ParseExpandedQueries splits a model completion into candidate queries.
// Each line has its enumeration marker ("1. ", "2)", "3、", "- ", "•")
// and wrapping quotes removed; blank lines are dropped and the result is
// truncated to maxCount. A completion that is a JSON array of strings is
// read element by element. A maxCount <= 0 yields nil.
func ParseExpandedQueries(raw string, maxCount int) []string {
	if maxCount <= 0 {
		return nil
	}
	var lines []string
	trimmed := strings.TrimSpace(stripCodeFence(raw))
	if strings.HasPrefix(trimmed, "[") && gjson.Valid(trimmed) {
		for _, item := range gjson.Parse(trimmed).Array() {
			lines = append(lines, item.String())
		}
	} else {
		lines = strings.Split(trimmed, "\n")
	}

	out := make([]string, 0, maxCount)
	for _, line := range lines {
		q := cleanLine(line)
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == maxCount {
			break
		}
	}
	return out
}

func cleanLine(line string) string {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	line = strings.TrimSpace(stripMarker(line))
	return strings.TrimSpace(stripQuotes(line))
}

// stripMarker removes a leading list marker. Full-width digits and
// punctuation are recognised by folding the prefix to its narrow form.
func stripMarker(line string) string {
	orig := []rune(line)
	folded := []rune(width.Fold.String(line))
	if len(folded) != len(orig) {
		folded = orig
	}
	n := markerLen(folded)
	if n == 0 {
		return line
	}
	return string(orig[n:])
}

// markerLen returns the rune length of the list marker at the start of r.
func markerLen(r []rune) int {
	if len(r) == 0 {
		return 0
	}
	switch r[0] {
	case '-', '*', '•', '·', '+':
		i := 0
		for i < len(r) && strings.ContainsRune("-*•·+", r[i]) {
			i++
		}
		// "-5" is content, not a bullet.
		if i < len(r) && !unicode.IsSpace(r[i]) {
			return 0
		}
		return i
	}

	i := 0
	paren := false
	if r[i] == '(' {
		paren = true
		i++
	}
	start := i
	for i < len(r) && i-start < 3 && unicode.IsDigit(r[i]) {
		i++
	}
	if i == start || i >= len(r) {
		return 0
	}
	switch sep := r[i]; {
	case paren && sep == ')':
	case !paren && (sep == ')' || sep == '、'):
	case !paren && sep == ':':
		// "10:30" is a time of day, "1: xxx" is a marker.
		if i+1 < len(r) && !unicode.IsSpace(r[i+1]) {
			return 0
		}
	case !paren && sep == '.':
		// "1.5 倍" is a number and "3.com" a domain, "1. xxx" and "1.如何" are markers.
		if i+1 < len(r) && (unicode.IsDigit(r[i+1]) || isASCIILetter(r[i+1])) {
			return 0
		}
	default:
		return 0
	}
	return i + 1
}

func isASCIILetter(c rune) bool {
	return c < unicode.MaxASCII && unicode.IsLetter(c)
}

var quotePairs = [][2]string{
	{`"`, `"`},
	{"'", "'"},
	{"“", "”"},
	{"‘", "’"},
	{"「", "」"},
	{"`", "`"},
}

func stripQuotes(s string) string {
	for _, p := range quotePairs {
		if len(s) >= len(p[0])+len(p[1]) && strings.HasPrefix(s, p[0]) && strings.HasSuffix(s, p[1]) {
			return s[len(p[0]) : len(s)-len(p[1])]
		}
	}
	return s
}

// stripCodeFence removes a surrounding markdown code fence, if any.
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.Index(t, "\n"); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = ""
	}
	return strings.TrimSuffix(strings.TrimSpace(t), "```")
}

package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keywords at least this many runes long also match inflected forms
// ("recruiter" in "recruiters"); shorter ones such as "hr" must be whole words.
const minInflectedKeywordLen = 4

// containsKeyword reports whether kw occurs in text starting at a word
// boundary. Long keywords may run on into a suffix. Both arguments must
// already be lower-cased.
func containsKeyword(text, kw string) bool {
	wholeWord := utf8.RuneCountInString(kw) < minInflectedKeywordLen
	return scanKeyword(text, kw, func(start, end int) bool {
		return boundaryBefore(text, start) && (!wholeWord || boundaryAfter(text, end))
	}) > 0
}

// countKeyword counts whole-word occurrences of kw in text.
func countKeyword(text, kw string) int {
	return scanKeyword(text, kw, func(start, end int) bool {
		return boundaryBefore(text, start) && boundaryAfter(text, end)
	})
}

func scanKeyword(text, kw string, accept func(start, end int) bool) int {
	if kw == "" {
		return 0
	}
	n := 0
	for i := 0; ; {
		j := strings.Index(text[i:], kw)
		if j < 0 {
			return n
		}
		start, end := i+j, i+j+len(kw)
		if accept(start, end) {
			n++
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

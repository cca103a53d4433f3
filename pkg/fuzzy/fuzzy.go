// Package fuzzy implements the Indel-based string similarity scores used for name matching.
// All scores are integers on a 0-100 scale.
package fuzzy

import (
	"math"
	"sort"
	"strings"
)

// Ratio is the normalized Indel similarity of a and b.
func Ratio(a, b string) int {
	return score(normalizedIndel([]rune(a), []rune(b)))
}

// PartialRatio is the best Ratio of the shorter string against every
// same-length window of the longer one.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		if len(rb) == 0 {
			return 100
		}
		return 0
	}
	best := 0.0
	for start := 0; start+len(ra) <= len(rb); start++ {
		s := normalizedIndel(ra, rb[start:start+len(ra)])
		if s > best {
			best = s
			if best == 1 {
				break
			}
		}
	}
	return score(best)
}

// TokenSortRatio is the Ratio of both strings after their whitespace
// separated tokens are sorted, which makes it insensitive to word order.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

// Best returns the maximum of TokenSortRatio, PartialRatio and Ratio.
func Best(a, b string) int {
	return max(TokenSortRatio(a, b), PartialRatio(a, b), Ratio(a, b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func normalizedIndel(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return float64(2*lcs(a, b)) / float64(total)
}

func score(sim float64) int {
	return int(math.Round(sim * 100))
}

// lcs is the length of the longest common subsequence, using two rows.
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

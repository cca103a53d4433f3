package usecase

import (
	"slices"
	"strings"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/pkg/fuzzy"
)

const (
	// MatchScoreFloor is the minimum similarity (0-100) a candidate needs to be returned.
	MatchScoreFloor = 65
	// MaxMatches caps the number of search results.
	MaxMatches = 10
)

// RecruiterMatch is a search candidate with its similarity score.
type RecruiterMatch struct {
	Recruiter domain.Recruiter
	Score     int
}

// MatchRecruiters scores every candidate name against query, keeps those at or
// above MatchScoreFloor ordered by descending score, and moves candidates whose
// company equals companyFilter (case-insensitive) to the front while keeping
// the relative order inside both groups. At most MaxMatches are returned.
func MatchRecruiters(query string, candidates []domain.Recruiter, companyFilter string) []RecruiterMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	matches := make([]RecruiterMatch, 0, len(candidates))
	for _, c := range candidates {
		s := fuzzy.Best(q, strings.ToLower(c.FullName))
		if s < MatchScoreFloor {
			continue
		}
		matches = append(matches, RecruiterMatch{Recruiter: c, Score: s})
	}
	slices.SortStableFunc(matches, func(a, b RecruiterMatch) int { return b.Score - a.Score })

	if companyFilter = strings.TrimSpace(companyFilter); companyFilter != "" {
		boosted := make([]RecruiterMatch, 0, len(matches))
		var rest []RecruiterMatch
		for _, m := range matches {
			if strings.EqualFold(m.Recruiter.CompanyName, companyFilter) {
				boosted = append(boosted, m)
			} else {
				rest = append(rest, m)
			}
		}
		matches = append(boosted, rest...)
	}
	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	return matches
}

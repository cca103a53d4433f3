package usecase

import (
	"fmt"
	"strings"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

const professionalProfileMarker = "linkedin.com/in/"

// Verifier checks a recruiter against web search results.
type Verifier struct {
	Search   domain.SearchProvider
	Keywords []string
}

// Verify searches "{name} {company}" and reports whether any result looks like
// a recruiting role: a recruiting keyword in a snippet, or a professional
// profile link whose title or snippet carries a keyword.
func (v Verifier) Verify(ctx domain.Context, name, company string) (bool, error) {
	if v.Search == nil {
		return false, fmt.Errorf("op=verify.recruiter: %w: search not configured", domain.ErrUpstream)
	}
	results, err := v.Search.Search(ctx, strings.TrimSpace(name+" "+company))
	if err != nil {
		return false, fmt.Errorf("op=verify.recruiter: %w", err)
	}
	for _, item := range results {
		snippet := strings.ToLower(item.Snippet)
		title := strings.ToLower(item.Title)
		link := strings.ToLower(item.Link)
		profile := strings.Contains(link, professionalProfileMarker)
		for _, kw := range v.Keywords {
			if containsKeyword(snippet, kw) {
				return true, nil
			}
			if profile && containsKeyword(title, kw) {
				return true, nil
			}
		}
	}
	return false, nil
}

package usecase

import (
	"fmt"
	"strings"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// IndustryClassifier infers a company's industry from web search results.
type IndustryClassifier struct {
	Search   domain.SearchProvider
	Keywords map[domain.Industry][]string
}

// Classify searches "{company} industry sector" and returns the category with
// the most keyword hits across titles and snippets. Ties keep the earlier
// category in domain.Industries; no hits at all yields IndustryTech.
func (c IndustryClassifier) Classify(ctx domain.Context, company string) (domain.Industry, error) {
	if c.Search == nil {
		return domain.IndustryUnset, fmt.Errorf("op=industry.classify: %w: search not configured", domain.ErrUpstream)
	}
	results, err := c.Search.Search(ctx, strings.TrimSpace(company)+" industry sector")
	if err != nil {
		return domain.IndustryUnset, fmt.Errorf("op=industry.classify: %w", err)
	}
	var corpus strings.Builder
	for _, item := range results {
		corpus.WriteString(strings.ToLower(item.Title))
		corpus.WriteByte(' ')
		corpus.WriteString(strings.ToLower(item.Snippet))
		corpus.WriteByte('\n')
	}
	text := corpus.String()

	best, bestHits := domain.IndustryTech, 0
	for _, ind := range domain.Industries {
		hits := 0
		for _, kw := range c.Keywords[ind] {
			hits += countKeyword(text, kw)
		}
		if hits > bestHits {
			best, bestHits = ind, hits
		}
	}
	return best, nil
}

// IndustryKeywords converts label-keyed vocabularies into Industry-keyed ones,
// skipping labels that do not name a category.
func IndustryKeywords(byLabel map[string][]string) map[domain.Industry][]string {
	out := make(map[domain.Industry][]string, len(byLabel))
	for label, words := range byLabel {
		ind, ok := domain.ParseIndustry(label)
		if !ok || ind == domain.IndustryUnset {
			continue
		}
		out[ind] = append(out[ind], words...)
	}
	return out
}

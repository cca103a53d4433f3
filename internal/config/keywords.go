package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keywords holds the vocabularies used by the verification and industry classifiers.
type Keywords struct {
	Recruiting []string            `yaml:"recruiting"`
	Industries map[string][]string `yaml:"industries"`
}

// DefaultKeywords returns the built-in vocabularies.
func DefaultKeywords() Keywords {
	return Keywords{
		Recruiting: []string{
			"recruiter", "talent", "hiring", "recruitment", "sourcing",
			"hr", "human resources", "people operations", "talent acquisition",
			"staffing", "personnel", "talent partner",
		},
		Industries: map[string][]string{
			"Tech": {
				"software", "technology", "tech", "saas", "cloud", "internet", "platform",
				"computing", "semiconductor", "ai", "artificial intelligence", "data", "cybersecurity",
			},
			"Finance": {
				"bank", "banking", "finance", "financial", "investment", "trading", "asset management",
				"insurance", "capital", "fintech", "hedge fund", "private equity", "securities",
			},
			"Consulting": {
				"consulting", "consultancy", "advisory", "professional services", "strategy",
				"management consulting", "accounting", "audit", "outsourcing",
			},
			"Healthcare": {
				"healthcare", "health", "hospital", "medical", "pharmaceutical", "pharma", "biotech",
				"biotechnology", "clinical", "life sciences", "patient", "medicine",
			},
		},
	}
}

// LoadKeywords loads vocabularies from a YAML file. An empty path returns the defaults;
// sections missing from the file keep their default values.
func LoadKeywords(path string) (Keywords, error) {
	kw := DefaultKeywords()
	if strings.TrimSpace(path) == "" {
		return kw, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("op=config.LoadKeywords: %w", err)
	}
	// #nosec G304 -- operator supplied configuration path
	content, err := os.ReadFile(absPath)
	if err != nil {
		return Keywords{}, fmt.Errorf("op=config.LoadKeywords: %w", err)
	}
	var fromFile Keywords
	if err := yaml.Unmarshal(content, &fromFile); err != nil {
		return Keywords{}, fmt.Errorf("op=config.LoadKeywords: failed to parse YAML: %w", err)
	}
	if len(fromFile.Recruiting) > 0 {
		kw.Recruiting = normalizeWords(fromFile.Recruiting)
	}
	for name, words := range fromFile.Industries {
		if len(words) > 0 {
			kw.Industries[name] = normalizeWords(words)
		}
	}
	return kw, nil
}

func normalizeWords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, w := range in {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Package profanity provides the profanity filter used for names and review bodies.
package profanity

import (
	goaway "github.com/TwiN/go-away"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// Filter detects and masks profane words.
// Safe for concurrent use.
type Filter struct {
	detector *goaway.ProfanityDetector
}

var _ domain.ProfanityFilter = (*Filter)(nil)

// nameFalsePositives are surnames and places that contain a listed word.
// Matching runs on lower-cased text with spaces removed.
var nameFalsePositives = []string{
	"dickens", "dickinson", "dickerson", "dickson", "dickey",
	"hancock", "hitchcock", "babcock", "glasscock", "peacock", "woodcock", "alcock", "cockerell", "cockrell",
	"cumming", "sexton", "essex", "wessex", "middlesex",
	"sassoon", "arsen", "hoek", "hoey",
}

// New creates a Filter backed by the default English dictionary, extended
// so that common surnames and place names are not flagged.
func New() *Filter {
	falsePositives := make([]string, 0, len(goaway.DefaultFalsePositives)+len(nameFalsePositives))
	falsePositives = append(falsePositives, goaway.DefaultFalsePositives...)
	falsePositives = append(falsePositives, nameFalsePositives...)
	detector := goaway.NewProfanityDetector().
		WithCustomDictionary(goaway.DefaultProfanities, falsePositives, goaway.DefaultFalseNegatives)
	return &Filter{detector: detector}
}

// Contains reports whether text contains a profane word.
func (f *Filter) Contains(text string) bool {
	if text == "" {
		return false
	}
	return f.detector.IsProfane(text)
}

// Censor replaces every character of each profane word with '*'.
// Clean text, including text that was already censored, is returned unchanged.
func (f *Filter) Censor(text string) string {
	if !f.Contains(text) {
		return text
	}
	return f.detector.Censor(text)
}

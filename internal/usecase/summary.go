package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/observability"
	"github.com/AdityaU3672/recruiterbook-api/pkg/textx"
)

const (
	limitedFeedbackMaxWords = 10
	briefInputMaxWords      = 50
	minSummaryChars         = 20
	maxBriefSummaryChars    = 300
	maxReviewChars          = 500

	summarySystemPrompt = "You summarize candidate reviews of a recruiter in the third person. " +
		"Use only facts stated in the reviews. Do not invent details, names, companies or outcomes. " +
		"Write two or three plain sentences without lists or headings."
	summaryUserPrompt = "Summarize the following recruiter reviews in a few sentences:\n\n"
)

// TokenCounter counts chat prompt tokens for a model.
type TokenCounter interface {
	CountChatTokens(systemPrompt, userPrompt, model string) (int, error)
}

// Summarizer turns a recruiter's review set into a short profile description.
// It never fails: every backend problem maps to domain.SummaryFallback.
type Summarizer struct {
	Generator domain.TextGenerator
	Tokens    TokenCounter
	Model     string
	MaxTokens int
	// PromptTokenBudget caps the prompt size; the oldest reviews are dropped first. Zero disables it.
	PromptTokenBudget int
}

// Summarize returns the summary to store for reviews.
func (s Summarizer) Summarize(ctx domain.Context, reviews []domain.Review) string {
	if len(reviews) == 0 {
		return domain.SummaryNoReviews
	}
	texts := make([]string, 0, len(reviews))
	words := 0
	for _, r := range reviews {
		t := textx.SanitizeText(r.Text)
		if t == "" {
			continue
		}
		words += textx.WordCount(t)
		texts = append(texts, textx.Truncate(t, maxReviewChars))
	}
	if words <= limitedFeedbackMaxWords {
		return domain.SummaryLimitedFeedback
	}
	if s.Generator == nil {
		return domain.SummaryFallback
	}

	lg := observability.LoggerFromContext(ctx)
	prompt := s.buildPrompt(texts)
	out, err := s.Generator.Generate(ctx, summarySystemPrompt, prompt, s.MaxTokens)
	if err != nil {
		lg.Warn("summary generation failed", "error", err, "reviews", len(reviews))
		return domain.SummaryFallback
	}
	out = strings.TrimSpace(out)
	if utf8.RuneCountInString(out) < minSummaryChars {
		lg.Warn("summary output too short", "chars", utf8.RuneCountInString(out))
		return domain.SummaryFallback
	}
	if words < briefInputMaxWords {
		out = brief(out)
	}
	return out
}

func (s Summarizer) buildPrompt(texts []string) string {
	render := func(ts []string) string {
		var b strings.Builder
		b.WriteString(summaryUserPrompt)
		for _, t := range ts {
			b.WriteString("- ")
			b.WriteString(t)
			b.WriteByte('\n')
		}
		return b.String()
	}
	prompt := render(texts)
	if s.Tokens == nil || s.PromptTokenBudget <= 0 {
		return prompt
	}
	for len(texts) > 1 {
		n, err := s.Tokens.CountChatTokens(summarySystemPrompt, prompt, s.Model)
		if err != nil || n <= s.PromptTokenBudget {
			break
		}
		texts = texts[1:]
		prompt = render(texts)
	}
	return prompt
}

// brief keeps the first one or two sentences of a summary written from little input.
func brief(out string) string {
	sentences := textx.Sentences(out)
	if len(sentences) <= 2 && utf8.RuneCountInString(out) <= maxBriefSummaryChars {
		return out
	}
	kept := strings.Join(sentences[:min(2, len(sentences))], " ")
	if utf8.RuneCountInString(kept) > maxBriefSummaryChars {
		kept = sentences[0]
	}
	return kept
}

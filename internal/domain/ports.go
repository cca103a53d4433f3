package domain

import "time"

// Repositories (ports)

type UserRepository interface {
	Create(ctx Context, u User) (User, error)
	Get(ctx Context, id string) (User, error)
	FindByExternalID(ctx Context, externalID string) (User, error)
}

type CompanyRepository interface {
	Create(ctx Context, c Company) (Company, error)
	Get(ctx Context, id string) (Company, error)
	GetByName(ctx Context, name string) (Company, error)
	List(ctx Context) ([]Company, error)
	Delete(ctx Context, id string) error
	UpdateIndustry(ctx Context, id string, industry Industry) error
}

type RecruiterRepository interface {
	Create(ctx Context, r Recruiter) (Recruiter, error)
	Get(ctx Context, id string) (Recruiter, error)
	// GetForUpdate loads the recruiter and locks its row until the enclosing transaction ends.
	GetForUpdate(ctx Context, id string) (Recruiter, error)
	FindByNameAndCompany(ctx Context, fullName, companyID string) (Recruiter, error)
	List(ctx Context) ([]Recruiter, error)
	ListByCompany(ctx Context, companyID string) ([]Recruiter, error)
	UpdateAverages(ctx Context, id string, avg Averages) error
	UpdateSummary(ctx Context, id string, summary string) error
	UpdateVerified(ctx Context, id string, verified bool) error
}

type ReviewRepository interface {
	Create(ctx Context, r Review) (Review, error)
	Get(ctx Context, id int64) (Review, error)
	// GetForUpdate loads the review and locks its row until the enclosing transaction ends.
	GetForUpdate(ctx Context, id int64) (Review, error)
	FindByUserAndRecruiter(ctx Context, userID, recruiterID string) (Review, error)
	ListByRecruiter(ctx Context, recruiterID string) ([]Review, error)
	ListByCompany(ctx Context, companyID string) ([]Review, error)
	List(ctx Context) ([]Review, error)
	Update(ctx Context, r Review) (Review, error)
	// Delete removes the review together with its votes.
	Delete(ctx Context, id int64) error
	SetVoteCounts(ctx Context, id int64, upvotes, downvotes int) (Review, error)
}

type VoteRepository interface {
	Get(ctx Context, reviewID int64, userID string) (Vote, error)
	Create(ctx Context, v Vote) error
	UpdateDirection(ctx Context, reviewID int64, userID string, d VoteDirection) error
	Delete(ctx Context, reviewID int64, userID string) error
	ListByUser(ctx Context, userID string) ([]Vote, error)
}

type FeaturedRepository interface {
	List(ctx Context) ([]FeaturedRecruiter, error)
	Replace(ctx Context, items []FeaturedRecruiter) error
}

// Store groups the repositories bound to one storage session.
type Store interface {
	Users() UserRepository
	Companies() CompanyRepository
	Recruiters() RecruiterRepository
	Reviews() ReviewRepository
	Votes() VoteRepository
	Featured() FeaturedRepository
}

// Transactor is a Store that can also run fn inside a single transaction.
// The Store handed to fn is only valid until fn returns; fn may be retried on serialization failures.
type Transactor interface {
	Store
	WithinTx(ctx Context, fn func(ctx Context, tx Store) error) error
}

// Enrichment (port)

type TaskKind string

const (
	TaskSummary  TaskKind = "summary"
	TaskVerify   TaskKind = "verify"
	TaskIndustry TaskKind = "industry"
)

// EnrichmentTask asks for one best-effort background derivation.
// RecruiterID is set for summary/verify, CompanyID for industry.
type EnrichmentTask struct {
	Kind        TaskKind  `json:"kind"`
	RecruiterID string    `json:"recruiter_id,omitempty"`
	CompanyID   string    `json:"company_id,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// EnrichmentQueue schedules tasks without blocking the caller.
type EnrichmentQueue interface {
	Enqueue(ctx Context, task EnrichmentTask) error
}

// EnrichmentHandler runs one task to completion.
type EnrichmentHandler interface {
	Handle(ctx Context, task EnrichmentTask) error
}

// External providers (ports)

// TextGenerator produces a short completion for a system instruction and user prompt.
type TextGenerator interface {
	Generate(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// SearchProvider runs a free-text web search.
type SearchProvider interface {
	Search(ctx Context, query string) ([]SearchResult, error)
}

// ProfanityFilter classifies and masks profane text.
type ProfanityFilter interface {
	Contains(text string) bool
	Censor(text string) string
}

// Cache is a best-effort string cache used for read paths.
type Cache interface {
	Get(ctx Context, key string) (string, bool, error)
	Set(ctx Context, key, value string, ttl time.Duration) error
	Delete(ctx Context, keys ...string) error
}

package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUpstream        = errors.New("upstream service error")
	ErrInternal        = errors.New("internal error")
)

// Summary sentinels written onto Recruiter.Summary.
const (
	SummaryNoReviews       = "No reviews available."
	SummaryLimitedFeedback = "Limited feedback is available for this recruiter so far; more reviews are needed for a full profile."
	SummaryFallback        = "Candidates have shared feedback about this recruiter, but a summary is not available right now."
)

// User is the identity anchor for reviews and votes.
type User struct {
	ID         string
	FullName   string
	ExternalID *string
	CreatedAt  time.Time
}

// Identity is the authenticated caller as seen by usecases.
type Identity struct {
	UserID   string
	FullName string
}

// IsZero reports whether the identity carries no user.
func (i Identity) IsZero() bool { return i.UserID == "" }

// Company is an employer. Name is unique (case-sensitive).
type Company struct {
	ID        string
	Name      string
	Industry  Industry
	CreatedAt time.Time
}

// Averages holds the four truncated rolling scores of a recruiter.
type Averages struct {
	Responsiveness  int
	Professionalism int
	Helpfulness     int
	FinalStage      int
}

// Recruiter is the reviewable subject.
// Invariants: (FullName, CompanyID) unique; Averages and Summary are derived from the review set.
type Recruiter struct {
	ID          string
	FullName    string
	CompanyID   string
	CompanyName string
	Industry    Industry
	Averages    Averages
	Verified    bool
	Summary     string
	CreatedAt   time.Time
}

// Ratings are the four scores a reviewer submits.
type Ratings struct {
	Professionalism int
	Responsiveness  int
	Helpfulness     int
	FinalStage      int
}

// Review is a single user's rating of a recruiter.
// Invariants: at most one per (UserID, RecruiterID); Upvotes, Downvotes >= 0.
type Review struct {
	ID          int64
	UserID      string
	RecruiterID string
	Ratings     Ratings
	Text        string
	Upvotes     int
	Downvotes   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VoteDirection is +1 for an upvote and -1 for a downvote.
type VoteDirection int

const (
	VoteDown VoteDirection = -1
	VoteUp   VoteDirection = 1
)

// Valid reports whether d is one of VoteUp or VoteDown.
func (d VoteDirection) Valid() bool { return d == VoteUp || d == VoteDown }

func (d VoteDirection) String() string {
	switch d {
	case VoteUp:
		return "up"
	case VoteDown:
		return "down"
	default:
		return "none"
	}
}

// ParseVoteDirection accepts "up"/"down" (also "+1"/"-1", "1").
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch s {
	case "up", "+1", "1":
		return VoteUp, nil
	case "down", "-1":
		return VoteDown, nil
	}
	return 0, ErrInvalidArgument
}

// Vote is one user's directional opinion on a review. Unique per (ReviewID, UserID).
type Vote struct {
	ReviewID  int64
	UserID    string
	Direction VoteDirection
	CreatedAt time.Time
}

// FeaturedRecruiter pins a recruiter on the landing page at a display position.
type FeaturedRecruiter struct {
	RecruiterID  string
	DisplayOrder int
}

// SearchResult is one item returned by a web search provider.
type SearchResult struct {
	Title   string
	Snippet string
	Link    string
}

// Context is an alias to allow decoupling from std context in domain
type Context = context.Context

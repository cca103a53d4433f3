// Package memory implements the storage ports in process memory.
// It backs usecase tests and single-process demo runs without PostgreSQL.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

type voteKey struct {
	reviewID int64
	userID   string
}

type state struct {
	users        map[string]domain.User
	companies    map[string]domain.Company
	recruiters   map[string]domain.Recruiter
	reviews      map[int64]domain.Review
	votes        map[voteKey]domain.Vote
	featured     []domain.FeaturedRecruiter
	nextReviewID int64
}

func newState() *state {
	return &state{
		users:      map[string]domain.User{},
		companies:  map[string]domain.Company{},
		recruiters: map[string]domain.Recruiter{},
		reviews:    map[int64]domain.Review{},
		votes:      map[voteKey]domain.Vote{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:        maps.Clone(s.users),
		companies:    maps.Clone(s.companies),
		recruiters:   maps.Clone(s.recruiters),
		reviews:      maps.Clone(s.reviews),
		votes:        maps.Clone(s.votes),
		featured:     slices.Clone(s.featured),
		nextReviewID: s.nextReviewID,
	}
}

// Store is an in-memory domain.Transactor. Transactions are serialized and
// work on a copy of the data that replaces the live copy on commit.
type Store struct {
	mu    sync.Mutex
	state *state
}

var _ domain.Transactor = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{state: newState()} }

// WithinTx runs fn on a snapshot and commits it when fn returns nil.
// fn must only use the Store it is handed.
func (s *Store) WithinTx(ctx domain.Context, fn func(ctx domain.Context, tx domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state.clone()
	if err := fn(ctx, session{tx: snap}); err != nil {
		return err
	}
	s.state = snap
	return nil
}

func (s *Store) Users() domain.UserRepository           { return userRepo{session{root: s}} }
func (s *Store) Companies() domain.CompanyRepository    { return companyRepo{session{root: s}} }
func (s *Store) Recruiters() domain.RecruiterRepository { return recruiterRepo{session{root: s}} }
func (s *Store) Reviews() domain.ReviewRepository       { return reviewRepo{session{root: s}} }
func (s *Store) Votes() domain.VoteRepository           { return voteRepo{session{root: s}} }
func (s *Store) Featured() domain.FeaturedRepository    { return featuredRepo{session{root: s}} }

// session runs repository calls either inside a transaction snapshot or
// against the live data under the store lock.
type session struct {
	root *Store
	tx   *state
}

func (ss session) Users() domain.UserRepository           { return userRepo{ss} }
func (ss session) Companies() domain.CompanyRepository    { return companyRepo{ss} }
func (ss session) Recruiters() domain.RecruiterRepository { return recruiterRepo{ss} }
func (ss session) Reviews() domain.ReviewRepository       { return reviewRepo{ss} }
func (ss session) Votes() domain.VoteRepository           { return voteRepo{ss} }
func (ss session) Featured() domain.FeaturedRepository    { return featuredRepo{ss} }

func (ss session) do(fn func(st *state) error) error {
	if ss.tx != nil {
		return fn(ss.tx)
	}
	ss.root.mu.Lock()
	defer ss.root.mu.Unlock()
	return fn(ss.root.state)
}

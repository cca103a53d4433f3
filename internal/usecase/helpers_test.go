package usecase_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/repo/memory"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []domain.EnrichmentTask
	err   error
}

func (q *recordingQueue) Enqueue(_ domain.Context, t domain.EnrichmentTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
	return q.err
}

func (q *recordingQueue) kinds() []domain.TaskKind {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.TaskKind, 0, len(q.tasks))
	for _, t := range q.tasks {
		out = append(out, t.Kind)
	}
	return out
}

// wordFilter treats "darn" as the only profane word.
type wordFilter struct{}

func (wordFilter) Contains(s string) bool { return strings.Contains(strings.ToLower(s), "darn") }
func (wordFilter) Censor(s string) string { return strings.ReplaceAll(s, "darn", "****") }

type mapCache struct {
	mu      sync.Mutex
	m       map[string]string
	deleted []string
}

func newMapCache() *mapCache { return &mapCache{m: map[string]string{}} }

func (c *mapCache) Get(_ domain.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ domain.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *mapCache) Delete(_ domain.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func who(id string) domain.Identity { return domain.Identity{UserID: id, FullName: "User " + id} }

func ratings(resp int) domain.Ratings {
	return domain.Ratings{Professionalism: 3, Responsiveness: resp, Helpfulness: 3, FinalStage: 3}
}

type fixture struct {
	store      *memory.Store
	queue      *recordingQueue
	cache      *mapCache
	recruiters usecase.RecruiterService
	reviews    usecase.ReviewService
	votes      usecase.VoteService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	q := &recordingQueue{}
	c := newMapCache()
	return fixture{
		store:      store,
		queue:      q,
		cache:      c,
		recruiters: usecase.NewRecruiterService(store, wordFilter{}, q, c, time.Minute),
		reviews:    usecase.NewReviewService(store, wordFilter{}, q, c),
		votes:      usecase.NewVoteService(store),
	}
}

func (f fixture) recruiter(t *testing.T, name, company string) domain.Recruiter {
	t.Helper()
	rec, err := f.recruiters.Create(context.Background(), who("creator"), name, company)
	require.NoError(t, err)
	return rec
}

func (f fixture) review(t *testing.T, user, recruiterID string, r domain.Ratings, text string) domain.Review {
	t.Helper()
	rv, err := f.reviews.Create(context.Background(), who(user), usecase.ReviewInput{RecruiterID: recruiterID, Ratings: r, Text: text})
	require.NoError(t, err)
	return rv
}

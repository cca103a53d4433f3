// Package postgres implements the storage ports on PostgreSQL with pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxPool is the minimal pool surface used by the repositories.
type PgxPool interface {
	Querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Store is a domain.Transactor backed by a pgx pool.
type Store struct {
	Pool PgxPool
	// MaxTxRetries bounds retries of transactions aborted by serialization failures or deadlocks.
	MaxTxRetries uint64
}

var _ domain.Transactor = (*Store)(nil)

// NewStore constructs a Store with the given pool.
func NewStore(p PgxPool) *Store { return &Store{Pool: p, MaxTxRetries: 3} }

func (s *Store) Users() domain.UserRepository           { return NewUserRepo(s.Pool) }
func (s *Store) Companies() domain.CompanyRepository    { return NewCompanyRepo(s.Pool) }
func (s *Store) Recruiters() domain.RecruiterRepository { return NewRecruiterRepo(s.Pool) }
func (s *Store) Reviews() domain.ReviewRepository       { return NewReviewRepo(s.Pool) }
func (s *Store) Votes() domain.VoteRepository           { return NewVoteRepo(s.Pool) }
func (s *Store) Featured() domain.FeaturedRepository    { return NewFeaturedRepo(s.Pool) }

type txStore struct{ q Querier }

func (t txStore) Users() domain.UserRepository           { return NewUserRepo(t.q) }
func (t txStore) Companies() domain.CompanyRepository    { return NewCompanyRepo(t.q) }
func (t txStore) Recruiters() domain.RecruiterRepository { return NewRecruiterRepo(t.q) }
func (t txStore) Reviews() domain.ReviewRepository       { return NewReviewRepo(t.q) }
func (t txStore) Votes() domain.VoteRepository           { return NewVoteRepo(t.q) }
func (t txStore) Featured() domain.FeaturedRepository    { return NewFeaturedRepo(t.q) }

// WithinTx runs fn in a read-committed transaction. Row locks taken with the
// GetForUpdate methods hold until commit. Transactions aborted by a
// serialization failure or deadlock are retried with backoff.
func (s *Store) WithinTx(ctx domain.Context, fn func(ctx domain.Context, tx domain.Store) error) error {
	ctx, span := otel.Tracer("repo.postgres").Start(ctx, "store.WithinTx")
	defer span.End()

	attempt := func() error {
		err := s.runTx(ctx, fn)
		if err != nil && !IsRetryableTxError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(20*time.Millisecond),
		backoff.WithMaxInterval(500*time.Millisecond),
		backoff.WithMaxElapsedTime(5*time.Second),
	), s.MaxTxRetries)
	return backoff.Retry(attempt, backoff.WithContext(b, ctx))
}

func (s *Store) runTx(ctx context.Context, fn func(ctx domain.Context, tx domain.Store) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("op=tx.begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(ctx, txStore{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("op=tx.commit: %w", err)
	}
	return nil
}

// IsRetryableTxError reports whether err aborted a transaction that can simply be run again.
func IsRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", // serialization_failure
		"40P01": // deadlock_detected
		return true
	}
	return false
}

// wrap maps driver errors onto domain sentinels and tags them with op.
func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("op=%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("op=%s: %w: %s", op, domain.ErrConflict, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("op=%s: %w: %s", op, domain.ErrConflict, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("op=%s: %w", op, err)
}

// checkID rejects ids that can never match a UUID column.
func checkID(op, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("op=%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer("repo.postgres").Start(ctx, name)
}

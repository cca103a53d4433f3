package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// UserRepo persists users.
type UserRepo struct{ q Querier }

// NewUserRepo constructs a UserRepo on a pool or transaction.
func NewUserRepo(q Querier) *UserRepo { return &UserRepo{q: q} }

const userColumns = `id, full_name, external_id, created_at`

// Create inserts a user, generating its id when empty.
func (r *UserRepo) Create(ctx domain.Context, u domain.User) (domain.User, error) {
	ctx, span := startSpan(ctx, "users.Create")
	defer span.End()
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO users (id, full_name, external_id, created_at) VALUES ($1,$2,$3,$4)`
	if _, err := r.q.Exec(ctx, q, u.ID, u.FullName, u.ExternalID, u.CreatedAt); err != nil {
		return domain.User{}, wrap("user.create", err)
	}
	return u, nil
}

// Get loads a user by id.
func (r *UserRepo) Get(ctx domain.Context, id string) (domain.User, error) {
	ctx, span := startSpan(ctx, "users.Get")
	defer span.End()
	if err := checkID("user.get", id); err != nil {
		return domain.User{}, err
	}
	var u domain.User
	row := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if err := row.Scan(&u.ID, &u.FullName, &u.ExternalID, &u.CreatedAt); err != nil {
		return domain.User{}, wrap("user.get", err)
	}
	return u, nil
}

// FindByExternalID loads the user bound to an external identity.
func (r *UserRepo) FindByExternalID(ctx domain.Context, externalID string) (domain.User, error) {
	ctx, span := startSpan(ctx, "users.FindByExternalID")
	defer span.End()
	var u domain.User
	row := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_id=$1`, externalID)
	if err := row.Scan(&u.ID, &u.FullName, &u.ExternalID, &u.CreatedAt); err != nil {
		return domain.User{}, wrap("user.find_external", err)
	}
	return u, nil
}

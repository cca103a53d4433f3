package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

// UserService resolves external identities into users.
type UserService struct {
	Users domain.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(r domain.UserRepository) UserService { return UserService{Users: r} }

// SignIn returns the user bound to externalID, creating it on first sign-in.
func (s UserService) SignIn(ctx domain.Context, fullName, externalID string) (domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	externalID = strings.TrimSpace(externalID)
	if fullName == "" || externalID == "" {
		return domain.User{}, fmt.Errorf("op=user.sign_in: %w: full name and external id required", domain.ErrInvalidArgument)
	}
	u, err := s.Users.FindByExternalID(ctx, externalID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("op=user.sign_in: %w", err)
	}
	u, err = s.Users.Create(ctx, domain.User{FullName: fullName, ExternalID: &externalID})
	if errors.Is(err, domain.ErrConflict) {
		u, err = s.Users.FindByExternalID(ctx, externalID)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("op=user.sign_in: %w", err)
	}
	return u, nil
}

// Get loads a user by id.
func (s UserService) Get(ctx domain.Context, id string) (domain.User, error) {
	u, err := s.Users.Get(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("op=user.get: %w", err)
	}
	return u, nil
}

// Identity converts a user into the identity value passed to other services.
func Identity(u domain.User) domain.Identity {
	return domain.Identity{UserID: u.ID, FullName: u.FullName}
}

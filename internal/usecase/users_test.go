package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/repo/memory"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

func TestUserService_SignIn(t *testing.T) {
	ctx := context.Background()
	svc := usecase.NewUserService(memory.NewStore().Users())

	u, err := svc.SignIn(ctx, "Ada Lovelace", "google-123")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.NotNil(t, u.ExternalID)
	assert.Equal(t, "google-123", *u.ExternalID)

	again, err := svc.SignIn(ctx, "Ada L.", "google-123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "Ada Lovelace", again.FullName)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.Identity(got), domain.Identity{UserID: u.ID, FullName: "Ada Lovelace"})

	_, err = svc.SignIn(ctx, "", "google-9")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/feedbbs/models"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	user, err := svc.Register(ctx, "leo", "secret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)

	_, err = svc.Register(ctx, "leo", "another-pass")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Register(ctx, "x", "secret-pass")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Register(ctx, "short", "123")
	assert.ErrorIs(t, err, ErrValidation)

	found, err := svc.Authenticate(ctx, "leo", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.Authenticate(ctx, "leo", "wrong-pass")
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := svc.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "leo", byID.Username)
	_, err = svc.ByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterLosesRace(t *testing.T) {
	db := newTestDB(t)
	insertBeforeCreate(t, db, "users", &models.User{Username: "twin", PasswordHash: "x"})

	_, err := NewUserService(db).Register(context.Background(), "twin", "secret-pass")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	cases := []struct {
		username, password, field, reason string
	}{
		{" a ", "secret-pass", "username", "must be 2-64 letters, digits or _.@+-"},
		{"bad name", "secret-pass", "username", "must be 2-64 letters, digits or _.@+-"},
		{"fine", "12345", "password", "must be at least 6 characters"},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.username, tc.password)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), tc.username)
		assert.Equal(t, tc.field, verr.Field)
		assert.Equal(t, tc.reason, verr.Reason)
	}

	user, err := svc.Register(context.Background(), "Ана_1", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Ана_1", user.Username)
}

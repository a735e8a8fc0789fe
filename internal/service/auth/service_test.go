package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/repository/memory"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

func newService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store.Users, store.Tokens, security.NewBcryptHasher(bcrypt.MinCost),
		event.NewEventService(store.Outbox), time.Minute)
	return svc, store
}

func register(t *testing.T, svc *Service) *model.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "jane",
		Email:    "jane@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterThenLoginReusesToken(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	registered := register(t, svc)
	assert.Len(t, registered.Token, 40)
	assert.Equal(t, "jane", registered.Username)

	loggedIn, err := svc.Login(ctx, model.LoginRequest{Username: "jane", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, registered.Token, loggedIn.Token)
	assert.Equal(t, registered.UserID, loggedIn.UserID)

	// Password is stored hashed
	user, err := store.Users.GetByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	events, err := store.Outbox.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventUserRegistered, events[0].EventType)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)

	_, err := svc.Register(context.Background(), model.RegisterRequest{Username: "jane", Password: "other"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"A user with that username already exists."}, appErr.Fields["username"])
}

func TestRegisterPasswordTooLong(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "jane",
		Password: strings.Repeat("x", 80),
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Equal(t, []string{"Ensure this field has no more than 72 bytes."}, appErr.Fields["password"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newService(t)
	register(t, svc)

	for _, req := range []model.LoginRequest{
		{Username: "jane", Password: "wrong"},
		{Username: "nobody", Password: "s3cret"},
		{},
	} {
		_, err := svc.Login(context.Background(), req)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
		assert.Equal(t, "Invalid credentials", appErr.Message)
	}
}

func TestValidateTokenAndLogout(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	registered := register(t, svc)

	user, err := svc.ValidateToken(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, user.ID)

	require.NoError(t, svc.Logout(ctx, user.ID, registered.Token))

	_, err = svc.ValidateToken(ctx, registered.Token)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	// A fresh login issues a new token
	loggedIn, err := svc.Login(ctx, model.LoginRequest{Username: "jane", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEqual(t, registered.Token, loggedIn.Token)
}

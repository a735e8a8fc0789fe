package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const defaultTokenCacheTTL = 5 * time.Minute

type AuthServicer interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Logout(ctx context.Context, userID int64, key string) error
	ValidateToken(ctx context.Context, key string) (*model.User, error)
}

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	hasher    security.PasswordHasher
	events    event.Emitter
	tokens    *cache.Cache
}

func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository,
	hasher security.PasswordHasher, events event.Emitter, tokenCacheTTL time.Duration) *Service {
	if tokenCacheTTL <= 0 {
		tokenCacheTTL = defaultTokenCacheTTL
	}
	if events == nil {
		events = event.Nop{}
	}
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
		events:    events,
		tokens:    cache.New(tokenCacheTTL, 2*tokenCacheTTL),
	}
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrEmptyPassword) {
			return nil, apperrors.Validation("password", "This field is required.")
		}
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, apperrors.Validation("password", "Ensure this field has no more than 72 bytes.")
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Validation("username", "A user with that username already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, model.EventUserRegistered, model.UserRegisteredEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	return authResponse(user, token), nil
}

// Login returns the user's existing token, creating one if needed.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperrors.NewUnauthorized("Invalid credentials", ErrInvalidCredentials)
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("Invalid credentials", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		log.Ctx(ctx).Warn().Str("username", req.Username).Msg("Failed login attempt")
		return nil, apperrors.NewUnauthorized("Invalid credentials", ErrInvalidCredentials)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return authResponse(user, token), nil
}

// Logout revokes the user's token so the next login issues a new one.
func (s *Service) Logout(ctx context.Context, userID int64, key string) error {
	s.tokens.Delete(key)
	if err := s.tokenRepo.DeleteByUser(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// ValidateToken resolves a token key to its user. Hits are cached for the
// configured TTL and evicted on logout.
func (s *Service) ValidateToken(ctx context.Context, key string) (*model.User, error) {
	if cached, ok := s.tokens.Get(key); ok {
		return cached.(*model.User), nil
	}

	token, err := s.tokenRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("Invalid token.", err)
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	user, err := s.userRepo.Get(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("User inactive or deleted.", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	s.tokens.SetDefault(key, user)
	return user, nil
}

func (s *Service) issueToken(ctx context.Context, userID int64) (*model.AuthToken, error) {
	candidate, err := security.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	token, err := s.tokenRepo.GetOrCreate(ctx, userID, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

func authResponse(user *model.User, token *model.AuthToken) *model.AuthResponse {
	return &model.AuthResponse{
		Token:    token.Key,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

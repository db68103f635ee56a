package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

// AuthService implements signup, login and per-request authentication.
type AuthService struct {
	users  ports.UserRepository
	tokens *TokenService
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Signup creates an account and returns a session token for it.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, &domain.ValidationError{Errors: []string{fmt.Sprintf("%q must be one of [admin, user]", "role")}}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("signup: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user signed up")
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login checks credentials. Unknown emails, wrong passwords and deactivated
// accounts all fail with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !VerifyPassword(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Authenticate verifies token and reloads the user so that role changes and
// deactivation apply to tokens issued before them.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Caller, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Caller{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Caller{}, domain.ErrTokenInvalid
		}
		return domain.Caller{}, err
	}
	if !user.IsActive {
		return domain.Caller{}, domain.ErrTokenInvalid
	}
	return domain.Caller{ID: user.ID, Role: user.Role}, nil
}

func (s *AuthService) Profile(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	return s.users.FindByID(ctx, caller.ID)
}

package ports

import (
	"context"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

// SignupInput is the normalised signup payload.
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput is the normalised login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	// Authenticate verifies a bearer token and reloads the caller from storage.
	Authenticate(ctx context.Context, token string) (domain.Caller, error)
	Profile(ctx context.Context, caller domain.Caller) (*domain.User, error)
}

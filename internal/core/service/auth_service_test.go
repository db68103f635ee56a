package service

import (
	"context"
	"errors"
	"testing"

	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

func TestAuthService_Signup(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.auth.Signup(ctx, ports.SignupInput{Username: "alice", Email: "alice@example.com", Password: "Passw0rd"})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", res.User.Role)
	}
	if res.User.PasswordHash == "Passw0rd" || !VerifyPassword("Passw0rd", res.User.PasswordHash) {
		t.Fatalf("expected stored bcrypt hash")
	}

	_, err = f.auth.Signup(ctx, ports.SignupInput{Username: "alice2", Email: "alice@example.com", Password: "Passw0rd"})
	var dup *domain.DuplicateError
	if !errors.As(err, &dup) || dup.Field != "email" {
		t.Fatalf("expected duplicate email, got %v", err)
	}

	_, err = f.auth.Signup(ctx, ports.SignupInput{Username: "bob", Email: "bob@example.com", Password: "Passw0rd", Role: "root"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.user(t, "alice", "")

	res, err := f.auth.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "Passw0rd"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.User.Username != "alice" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	for _, in := range []ports.LoginInput{
		{Email: "alice@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "Passw0rd"},
	} {
		if _, err := f.auth.Login(ctx, in); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %s, got %v", in.Email, err)
		}
	}
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.user(t, "alice", "")
	if err := f.store.Users().SetActive(ctx, alice.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	if _, err := f.auth.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "Passw0rd"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Authenticate_UsesStoredRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.user(t, "alice", "")

	// a token claiming admin is still resolved to the stored role
	forged, _ := f.tokens.Issue(alice.ID, domain.RoleAdmin)
	caller, err := f.auth.Authenticate(ctx, forged)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if caller.ID != alice.ID || caller.Role != domain.RoleUser {
		t.Fatalf("unexpected caller: %+v", caller)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.user(t, "alice", "")

	ghost, _ := f.tokens.Issue("64b7f0c2a1b2c3d4e5f60718", domain.RoleUser)
	if _, err := f.auth.Authenticate(ctx, ghost); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for unknown user, got %v", err)
	}

	token, _ := f.tokens.Issue(alice.ID, alice.Role)
	if err := f.store.Users().SetActive(ctx, alice.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := f.auth.Authenticate(ctx, token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for deactivated user, got %v", err)
	}

	if _, err := f.auth.Authenticate(ctx, ""); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	f := newFixture()
	alice := f.user(t, "alice", "")

	u, err := f.auth.Profile(context.Background(), alice)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", u)
	}
}

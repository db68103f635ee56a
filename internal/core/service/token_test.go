package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Subject != "user-1" {
		t.Fatalf("unexpected subject: %+v", claims)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h lifetime, got %s", got)
	}
}

func TestTokenService_Verify_Failures(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	good, _ := svc.Issue("user-1", domain.RoleUser)

	other := NewTokenService("other-secret", time.Hour)
	foreign, _ := other.Issue("user-1", domain.RoleUser)

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Issue("user-1", domain.RoleUser)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", domain.ErrTokenMissing},
		{"garbage", "not-a-jwt", domain.ErrTokenInvalid},
		{"tampered", good + "x", domain.ErrTokenInvalid},
		{"wrong secret", foreign, domain.ErrTokenInvalid},
		{"alg none", none, domain.ErrTokenInvalid},
		{"expired", stale, domain.ErrTokenExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Verify(tc.token); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "Passw0rd" {
		t.Fatalf("expected password to be hashed")
	}
	other, _ := HashPassword("Passw0rd")
	if hash == other {
		t.Fatalf("expected salted hashes to differ")
	}
	if !VerifyPassword("Passw0rd", hash) {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

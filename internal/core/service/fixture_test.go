package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
	"github.com/projecthub/tracker-api/internal/infrastructure/db/memory"
)

// fixture wires every service onto one in-memory store.
type fixture struct {
	store    *memory.Store
	tokens   *TokenService
	auth     *AuthService
	clients  *ClientService
	projects *ProjectService
}

func newFixture() *fixture {
	store := memory.NewStore()
	users := store.Users()
	tokens := NewTokenService("test-secret", time.Hour)
	return &fixture{
		store:    store,
		tokens:   tokens,
		auth:     NewAuthService(users, tokens, zerolog.Nop()),
		clients:  NewClientService(store.Clients(), store.Projects(), users, zerolog.Nop()),
		projects: NewProjectService(store.Projects(), store.Clients(), users, zerolog.Nop()),
	}
}

// user signs up an account and returns it as a caller.
func (f *fixture) user(t *testing.T, name, role string) domain.Caller {
	t.Helper()
	res, err := f.auth.Signup(context.Background(), ports.SignupInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "Passw0rd",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("signup %s: %v", name, err)
	}
	return domain.Caller{ID: res.User.ID, Role: res.User.Role}
}

func (f *fixture) client(t *testing.T, owner domain.Caller, name string) *domain.Client {
	t.Helper()
	d, err := f.clients.Create(context.Background(), owner, ports.ClientInput{
		Name:  name,
		Email: name + "@clients.example.com",
	})
	if err != nil {
		t.Fatalf("create client %s: %v", name, err)
	}
	return d.Client
}

func (f *fixture) project(t *testing.T, owner domain.Caller, clientID, name string, team ...string) *domain.Project {
	t.Helper()
	d, err := f.projects.Create(context.Background(), owner, ports.ProjectInput{
		Name:        name,
		ClientID:    clientID,
		TeamMembers: team,
	})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return d.Project
}

func ptr[T any](v T) *T { return &v }

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	_, err := users.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", IsActive: true})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Username: "alice2", Email: "ALICE@example.com"})
	var dup *domain.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_CountActive(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	a, _ := users.Create(ctx, &domain.User{Username: "a", Email: "a@x.io", IsActive: true})
	b, _ := users.Create(ctx, &domain.User{Username: "b", Email: "b@x.io", IsActive: true})
	require.NoError(t, users.SetActive(ctx, b.ID, false))

	n, err := users.CountActive(ctx, []string{a.ID, a.ID, b.ID, newID()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestClientRepository_ListScopeAndOrder(t *testing.T) {
	ctx := context.Background()
	clients := NewStore().Clients()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Acme", "Globex", "Initech"} {
		owner := "owner-1"
		if name == "Globex" {
			owner = "owner-2"
		}
		require.NoError(t, clients.Create(ctx, &domain.Client{
			Name:      name,
			Email:     name + "@example.com",
			IsActive:  true,
			CreatedBy: owner,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	active := true
	got, total, err := clients.List(ctx, ports.ClientFilter{
		Scope:    authz.Scope{OwnerID: "owner-1"},
		IsActive: &active,
		Page:     1,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	assert.Equal(t, "Initech", got[0].Name)
	assert.Equal(t, "Acme", got[1].Name)

	got, total, err = clients.List(ctx, ports.ClientFilter{
		Scope:  authz.Scope{Unrestricted: true},
		Search: "glo",
		Page:   1,
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Globex", got[0].Name)

	got, total, err = clients.List(ctx, ports.ClientFilter{
		Scope: authz.Scope{Unrestricted: true},
		Page:  2,
		Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Name)
}

func TestClientRepository_OutOfScopeIsNotFound(t *testing.T) {
	ctx := context.Background()
	clients := NewStore().Clients()

	c := &domain.Client{Name: "Acme", Email: "acme@example.com", IsActive: true, CreatedBy: "owner-1"}
	require.NoError(t, clients.Create(ctx, c))

	_, err := clients.FindOne(ctx, c.ID, authz.Scope{OwnerID: "owner-2"}, false)
	assert.True(t, domain.IsNotFound(err))

	name := "Renamed"
	_, err = clients.Update(ctx, c.ID, authz.Scope{OwnerID: "owner-2"}, domain.ClientChanges{Name: &name})
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, clients.SetActive(ctx, c.ID, false))
	_, err = clients.FindOne(ctx, c.ID, authz.Scope{OwnerID: "owner-1"}, true)
	assert.True(t, domain.IsNotFound(err))
	_, err = clients.FindOne(ctx, c.ID, authz.Scope{OwnerID: "owner-1"}, false)
	assert.NoError(t, err)
}

func TestProjectRepository_TeamMembers(t *testing.T) {
	ctx := context.Background()
	projects := NewStore().Projects()

	p := &domain.Project{Name: "Site", ClientID: newID(), CreatedBy: "owner", IsActive: true, Status: domain.StatusPlanning}
	require.NoError(t, projects.Create(ctx, p))

	got, added, err := projects.AddTeamMember(ctx, p.ID, "member")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, []string{"member"}, got.TeamMembers)

	_, added, err = projects.AddTeamMember(ctx, p.ID, "member")
	require.NoError(t, err)
	assert.False(t, added)

	// members see the project, strangers do not
	_, err = projects.FindOne(ctx, p.ID, authz.Scope{OwnerID: "member", AllowMembers: true})
	assert.NoError(t, err)
	_, err = projects.FindOne(ctx, p.ID, authz.Scope{OwnerID: "member"})
	assert.True(t, domain.IsNotFound(err))

	got, err = projects.RemoveTeamMember(ctx, p.ID, "nobody")
	require.NoError(t, err)
	assert.Equal(t, []string{"member"}, got.TeamMembers)

	got, err = projects.RemoveTeamMember(ctx, p.ID, "member")
	require.NoError(t, err)
	assert.Empty(t, got.TeamMembers)
}

func TestProjectRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	projects := NewStore().Projects()
	clientID := newID()

	require.NoError(t, projects.Create(ctx, &domain.Project{Name: "Alpha", ClientID: clientID, Status: domain.StatusPlanning, Priority: domain.PriorityHigh, Tags: []string{"web"}, IsActive: true, CreatedBy: "u"}))
	require.NoError(t, projects.Create(ctx, &domain.Project{Name: "Beta", ClientID: newID(), Status: domain.StatusCompleted, Priority: domain.PriorityLow, IsActive: true, CreatedBy: "u"}))
	require.NoError(t, projects.Create(ctx, &domain.Project{Name: "Gamma", ClientID: clientID, Status: domain.StatusPlanning, IsActive: false, CreatedBy: "u"}))

	all := authz.Scope{Unrestricted: true}
	active := true

	got, total, err := projects.List(ctx, ports.ProjectFilter{Scope: all, Search: "WEB", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Alpha", got[0].Name)

	_, total, err = projects.List(ctx, ports.ProjectFilter{Scope: all, ClientID: clientID, IsActive: &active, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = projects.List(ctx, ports.ProjectFilter{Scope: all, Status: "planning", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	n, err := projects.CountActiveByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

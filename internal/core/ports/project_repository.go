package ports

import (
	"context"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
)

// ProjectFilter carries every query parameter for listing projects.
type ProjectFilter struct {
	Scope    authz.Scope
	Search   string // optional: case-insensitive match on name, description or any tag
	Status   string
	Priority string
	ClientID string
	IsActive *bool
	Page     int
	Limit    int
}

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	// FindOne returns the project with id inside scope or *domain.NotFoundError.
	FindOne(ctx context.Context, id string, scope authz.Scope) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, int64, error)
	Update(ctx context.Context, id string, changes domain.ProjectChanges) (*domain.Project, error)
	// SetStatus changes the status of the project with id inside scope.
	SetStatus(ctx context.Context, id string, scope authz.Scope, status domain.ProjectStatus) (*domain.Project, error)
	SetActive(ctx context.Context, id string, active bool) error
	// AddTeamMember appends userID to the team. It returns false when the user
	// was already a member and leaves the project untouched.
	AddTeamMember(ctx context.Context, id, userID string) (*domain.Project, bool, error)
	RemoveTeamMember(ctx context.Context, id, userID string) (*domain.Project, error)
	CountActiveByClient(ctx context.Context, clientID string) (int64, error)
}

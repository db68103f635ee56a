package ports

import (
	"context"
	"time"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

// DeliverableInput is one deliverable of a project payload.
type DeliverableInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ProjectInput is the normalised project payload. Nil values were omitted.
type ProjectInput struct {
	Name         string             `json:"name"`
	Description  *string            `json:"description"`
	ClientID     string             `json:"client"`
	Status       *string            `json:"status"`
	Priority     *string            `json:"priority"`
	Budget       *float64           `json:"budget"`
	StartDate    *time.Time         `json:"startDate"`
	EndDate      *time.Time         `json:"endDate"`
	Deliverables []DeliverableInput `json:"deliverables"`
	TeamMembers  []string           `json:"teamMembers"`
	Tags         []string           `json:"tags"`
	IsActive     *bool              `json:"isActive"`
}

// ListProjectsInput carries the list endpoint parameters.
type ListProjectsInput struct {
	Search   string
	Status   string
	Priority string
	ClientID string
	IsActive *bool
	Page     int
	Limit    int
}

// ProjectDetail is a project with client, creator and team populated.
// Dangling references are left nil or skipped.
type ProjectDetail struct {
	Project     *domain.Project
	Client      *domain.ClientRef
	CreatedBy   *domain.UserRef
	TeamMembers []domain.UserRef
}

type ProjectList struct {
	Items      []ProjectDetail
	Pagination Pagination
}

type ProjectService interface {
	Create(ctx context.Context, caller domain.Caller, in ProjectInput) (*ProjectDetail, error)
	List(ctx context.Context, caller domain.Caller, in ListProjectsInput) (*ProjectList, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*ProjectDetail, error)
	Update(ctx context.Context, caller domain.Caller, id string, in ProjectInput) (*ProjectDetail, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
	UpdateStatus(ctx context.Context, caller domain.Caller, id, status string) (*ProjectDetail, error)
	AddTeamMember(ctx context.Context, caller domain.Caller, id, userID string) ([]domain.UserRef, error)
	RemoveTeamMember(ctx context.Context, caller domain.Caller, id, userID string) ([]domain.UserRef, error)
}

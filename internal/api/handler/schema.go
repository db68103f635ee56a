package handler

import (
	"time"

	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

// --- Query parameters ---

type listClientsQuery struct {
	Page     int    `query:"page"     validate:"omitempty,min=1"`
	Limit    int    `query:"limit"    validate:"omitempty,min=1"`
	Search   string `query:"search"`
	IsActive string `query:"isActive" validate:"omitempty,oneof=true false"`
}

type listClientProjectsQuery struct {
	Page     int    `query:"page"     validate:"omitempty,min=1"`
	Limit    int    `query:"limit"    validate:"omitempty,min=1"`
	Status   string `query:"status"   validate:"omitempty,oneof=planning in-progress completed on-hold cancelled"`
	IsActive string `query:"isActive" validate:"omitempty,oneof=true false"`
}

type listProjectsQuery struct {
	Page     int    `query:"page"     validate:"omitempty,min=1"`
	Limit    int    `query:"limit"    validate:"omitempty,min=1"`
	Search   string `query:"search"`
	Status   string `query:"status"   validate:"omitempty,oneof=planning in-progress completed on-hold cancelled"`
	Priority string `query:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Client   string `query:"client"   validate:"omitempty,mongodb"`
	IsActive string `query:"isActive" validate:"omitempty,oneof=true false"`
}

// --- Request bodies ---

type statusRequest struct {
	Status string `json:"status"`
}

type teamMemberRequest struct {
	UserID string `json:"userId"`
}

// --- Responses ---

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type profileResponse struct {
	User userResponse `json:"user"`
}

type clientResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Address   *domain.Address `json:"address,omitempty"`
	Company   string          `json:"company,omitempty"`
	Industry  string          `json:"industry,omitempty"`
	IsActive  bool            `json:"isActive"`
	CreatedBy *domain.UserRef `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type clientEnvelope struct {
	Message string         `json:"message"`
	Client  clientResponse `json:"client"`
}

type clientListResponse struct {
	Clients    []clientResponse `json:"clients"`
	Pagination ports.Pagination `json:"pagination"`
}

type projectResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	Client       *domain.ClientRef    `json:"client"`
	Status       domain.ProjectStatus `json:"status"`
	Priority     domain.Priority      `json:"priority"`
	Budget       *float64             `json:"budget,omitempty"`
	StartDate    *time.Time           `json:"startDate,omitempty"`
	EndDate      *time.Time           `json:"endDate,omitempty"`
	Deliverables []domain.Deliverable `json:"deliverables"`
	TeamMembers  []domain.UserRef     `json:"teamMembers"`
	Tags         []string             `json:"tags"`
	IsActive     bool                 `json:"isActive"`
	CreatedBy    *domain.UserRef      `json:"createdBy"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

type projectEnvelope struct {
	Message string          `json:"message"`
	Project projectResponse `json:"project"`
}

type projectListResponse struct {
	Projects   []projectResponse `json:"projects"`
	Pagination ports.Pagination  `json:"pagination"`
}

type clientProjectsResponse struct {
	Client     domain.ClientRef  `json:"client"`
	Projects   []projectResponse `json:"projects"`
	Pagination ports.Pagination  `json:"pagination"`
}

type teamResponse struct {
	Message     string           `json:"message"`
	TeamMembers []domain.UserRef `json:"teamMembers"`
}

package ports

import (
	"context"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

// AddressInput is the optional address sub-document of a client payload.
type AddressInput struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// ClientInput is the normalised client payload. Nil pointers were omitted by
// the caller and are left untouched on update.
type ClientInput struct {
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Phone    *string       `json:"phone"`
	Address  *AddressInput `json:"address"`
	Company  *string       `json:"company"`
	Industry *string       `json:"industry"`
	IsActive *bool         `json:"isActive"`
}

// ListClientsInput carries the list endpoint parameters.
type ListClientsInput struct {
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}

// Pagination mirrors the response envelope of every list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// ClientDetail is a client with its owner populated.
type ClientDetail struct {
	Client    *domain.Client
	CreatedBy *domain.UserRef
}

type ClientList struct {
	Items      []ClientDetail
	Pagination Pagination
}

// ClientProjects is the result of listing the projects of one client.
type ClientProjects struct {
	Client     domain.ClientRef
	Items      []ProjectDetail
	Pagination Pagination
}

// ListClientProjectsInput carries the nested project listing parameters.
type ListClientProjectsInput struct {
	Status   string
	IsActive *bool
	Page     int
	Limit    int
}

type ClientService interface {
	Create(ctx context.Context, caller domain.Caller, in ClientInput) (*ClientDetail, error)
	List(ctx context.Context, caller domain.Caller, in ListClientsInput) (*ClientList, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*ClientDetail, error)
	Update(ctx context.Context, caller domain.Caller, id string, in ClientInput) (*ClientDetail, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
	ListProjects(ctx context.Context, caller domain.Caller, id string, in ListClientProjectsInput) (*ClientProjects, error)
}

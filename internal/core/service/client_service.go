package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

const (
	resourceClient = "Client"

	msgClientHasProjects = "Cannot delete client with active projects. Please complete or remove projects first."
)

// ClientService implements client CRUD scoped to the caller.
type ClientService struct {
	clients  ports.ClientRepository
	projects ports.ProjectRepository
	pop      populator
	log      zerolog.Logger
}

func NewClientService(
	clients ports.ClientRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *ClientService {
	return &ClientService{
		clients:  clients,
		projects: projects,
		pop:      populator{users: users, clients: clients},
		log:      log,
	}
}

// Create stores a client owned by the caller.
func (s *ClientService) Create(ctx context.Context, caller domain.Caller, in ports.ClientInput) (*ports.ClientDetail, error) {
	now := time.Now().UTC()
	c := &domain.Client{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     deref(in.Phone),
		Address:   toAddress(in.Address),
		Company:   deref(in.Company),
		Industry:  deref(in.Industry),
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedBy: caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", c.ID).Str("created_by", caller.ID).Msg("client created")
	return s.detail(ctx, c)
}

func (s *ClientService) List(ctx context.Context, caller domain.Caller, in ports.ListClientsInput) (*ports.ClientList, error) {
	page, limit := pageBounds(in.Page, in.Limit)
	items, total, err := s.clients.List(ctx, ports.ClientFilter{
		Scope:    authz.ForClient(caller),
		Search:   in.Search,
		IsActive: activeByDefault(in.IsActive),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	details, err := s.pop.clientDetails(ctx, items)
	if err != nil {
		return nil, err
	}
	return &ports.ClientList{Items: details, Pagination: pagination(page, limit, total)}, nil
}

// Get returns a client by id. Records outside the caller's scope are reported
// exactly like missing ones.
func (s *ClientService) Get(ctx context.Context, caller domain.Caller, id string) (*ports.ClientDetail, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	c, err := s.clients.FindOne(ctx, id, authz.ForClient(caller), false)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, c)
}

// Update applies the provided fields. The owner never changes. Flipping
// isActive follows the same rules as Delete: admins only, and a client with
// active projects cannot be deactivated.
func (s *ClientService) Update(ctx context.Context, caller domain.Caller, id string, in ports.ClientInput) (*ports.ClientDetail, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	changes := domain.ClientChanges{
		Name:     &in.Name,
		Email:    &in.Email,
		Phone:    in.Phone,
		Address:  toAddress(in.Address),
		Company:  in.Company,
		Industry: in.Industry,
	}
	if in.IsActive != nil {
		if err := s.checkActiveChange(ctx, caller, id, *in.IsActive); err != nil {
			return nil, err
		}
		changes.IsActive = in.IsActive
	}

	c, err := s.clients.Update(ctx, id, authz.ForClient(caller), changes)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", id).Str("updated_by", caller.ID).Msg("client updated")
	return s.detail(ctx, c)
}

func (s *ClientService) checkActiveChange(ctx context.Context, caller domain.Caller, id string, active bool) error {
	existing, err := s.clients.FindOne(ctx, id, authz.ForClient(caller), false)
	if err != nil {
		return err
	}
	if existing.IsActive == active {
		return nil
	}
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if !active {
		return s.checkNoActiveProjects(ctx, id)
	}
	return nil
}

func (s *ClientService) checkNoActiveProjects(ctx context.Context, id string) error {
	active, err := s.projects.CountActiveByClient(ctx, id)
	if err != nil {
		return fmt.Errorf("count client projects: %w", err)
	}
	if active > 0 {
		return domain.Rule(msgClientHasProjects)
	}
	return nil
}

// Delete soft-deletes a client. Only admins may delete, and never while an
// active project still references the client.
func (s *ClientService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}
	if !domain.IsValidID(id) {
		return domain.ErrInvalidID
	}
	if _, err := s.clients.FindOne(ctx, id, authz.ForClient(caller), false); err != nil {
		return err
	}

	if err := s.checkNoActiveProjects(ctx, id); err != nil {
		return err
	}

	if err := s.clients.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	s.log.Info().Str("client_id", id).Str("deleted_by", caller.ID).Msg("client deleted")
	return nil
}

// ListProjects pages through the projects of one client after checking that the
// caller can see the client itself.
func (s *ClientService) ListProjects(ctx context.Context, caller domain.Caller, id string, in ports.ListClientProjectsInput) (*ports.ClientProjects, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	c, err := s.clients.FindOne(ctx, id, authz.ForClient(caller), false)
	if err != nil {
		return nil, err
	}

	page, limit := pageBounds(in.Page, in.Limit)
	items, total, err := s.projects.List(ctx, ports.ProjectFilter{
		Scope:    authz.Scope{Unrestricted: true},
		ClientID: id,
		Status:   in.Status,
		IsActive: activeByDefault(in.IsActive),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list client projects: %w", err)
	}

	details, err := s.pop.projects(ctx, items)
	if err != nil {
		return nil, err
	}
	return &ports.ClientProjects{
		Client:     domain.ClientRef{ID: c.ID, Name: c.Name, Email: c.Email},
		Items:      details,
		Pagination: pagination(page, limit, total),
	}, nil
}

func (s *ClientService) detail(ctx context.Context, c *domain.Client) (*ports.ClientDetail, error) {
	out, err := s.pop.clientDetails(ctx, []*domain.Client{c})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func toAddress(in *ports.AddressInput) *domain.Address {
	if in == nil {
		return nil
	}
	return &domain.Address{
		Street:  in.Street,
		City:    in.City,
		State:   in.State,
		ZipCode: in.ZipCode,
		Country: in.Country,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

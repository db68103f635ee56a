package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

const (
	resourceProject = "Project"

	msgMembersNotFound = "One or more team members not found"
	msgAlreadyMember   = "User is already a team member"
	msgUserIDRequired  = "User ID is required"
)

// ProjectService implements project CRUD, status changes and team membership.
type ProjectService struct {
	projects ports.ProjectRepository
	clients  ports.ClientRepository
	users    ports.UserRepository
	pop      populator
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	clients ports.ClientRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		clients:  clients,
		users:    users,
		pop:      populator{users: users, clients: clients},
		log:      log,
	}
}

// Create stores a project owned by the caller. The client must be active and
// visible to the caller, and every team member must be an active user; any
// failure rejects the whole operation before anything is written.
func (s *ProjectService) Create(ctx context.Context, caller domain.Caller, in ports.ProjectInput) (*ports.ProjectDetail, error) {
	if err := s.checkClient(ctx, caller, in.ClientID); err != nil {
		return nil, err
	}
	team := uniq(in.TeamMembers)
	if err := s.checkMembers(ctx, team); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Project{
		Name:         in.Name,
		Description:  deref(in.Description),
		ClientID:     in.ClientID,
		Status:       domain.StatusPlanning,
		Priority:     domain.PriorityMedium,
		Budget:       in.Budget,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Deliverables: toDeliverables(in.Deliverables),
		TeamMembers:  team,
		Tags:         nonNil(in.Tags),
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedBy:    caller.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Status != nil {
		p.Status = domain.ProjectStatus(*in.Status)
	}
	if in.Priority != nil {
		p.Priority = domain.Priority(*in.Priority)
	}
	if err := domain.CheckDateRange(p.StartDate, p.EndDate); err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info().Str("project_id", p.ID).Str("client_id", p.ClientID).Str("created_by", caller.ID).Msg("project created")
	return s.pop.project(ctx, p)
}

// List returns the projects the caller created or is a team member of.
func (s *ProjectService) List(ctx context.Context, caller domain.Caller, in ports.ListProjectsInput) (*ports.ProjectList, error) {
	page, limit := pageBounds(in.Page, in.Limit)
	items, total, err := s.projects.List(ctx, ports.ProjectFilter{
		Scope:    authz.ForProjectAccess(caller),
		Search:   in.Search,
		Status:   in.Status,
		Priority: in.Priority,
		ClientID: in.ClientID,
		IsActive: activeByDefault(in.IsActive),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	details, err := s.pop.projects(ctx, items)
	if err != nil {
		return nil, err
	}
	return &ports.ProjectList{Items: details, Pagination: pagination(page, limit, total)}, nil
}

func (s *ProjectService) Get(ctx context.Context, caller domain.Caller, id string) (*ports.ProjectDetail, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	p, err := s.projects.FindOne(ctx, id, authz.ForProjectAccess(caller))
	if err != nil {
		return nil, err
	}
	return s.pop.project(ctx, p)
}

// Update re-validates the client and team references exactly like Create and
// checks the date range of the merged record. Only the creator or an admin may
// flip isActive; a matching value is ignored.
func (s *ProjectService) Update(ctx context.Context, caller domain.Caller, id string, in ports.ProjectInput) (*ports.ProjectDetail, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}

	existing, err := s.projects.FindOne(ctx, id, authz.ForProjectAccess(caller))
	if err != nil {
		return nil, err
	}

	changes := domain.ProjectChanges{
		Name:        &in.Name,
		Description: in.Description,
		Budget:      in.Budget,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Tags:        in.Tags,
	}
	if in.IsActive != nil && *in.IsActive != existing.IsActive {
		if _, err := s.projects.FindOne(ctx, id, authz.ForProjectOwner(caller)); err != nil {
			return nil, err
		}
		changes.IsActive = in.IsActive
	}
	if in.ClientID != "" {
		if err := s.checkClient(ctx, caller, in.ClientID); err != nil {
			return nil, err
		}
		changes.ClientID = &in.ClientID
	}
	if in.TeamMembers != nil {
		team := uniq(in.TeamMembers)
		if err := s.checkMembers(ctx, team); err != nil {
			return nil, err
		}
		changes.TeamMembers = team
	}
	if in.Deliverables != nil {
		changes.Deliverables = toDeliverables(in.Deliverables)
	}
	if in.Status != nil {
		st := domain.ProjectStatus(*in.Status)
		changes.Status = &st
	}
	if in.Priority != nil {
		pr := domain.Priority(*in.Priority)
		changes.Priority = &pr
	}

	merged := changes.Apply(*existing)
	if err := domain.CheckDateRange(merged.StartDate, merged.EndDate); err != nil {
		return nil, err
	}

	p, err := s.projects.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", id).Str("updated_by", caller.ID).Msg("project updated")
	return s.pop.project(ctx, p)
}

// Delete soft-deletes a project. Team members may not delete.
func (s *ProjectService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if !domain.IsValidID(id) {
		return domain.ErrInvalidID
	}
	if _, err := s.projects.FindOne(ctx, id, authz.ForProjectOwner(caller)); err != nil {
		return err
	}
	if err := s.projects.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.log.Info().Str("project_id", id).Str("deleted_by", caller.ID).Msg("project deleted")
	return nil
}

// UpdateStatus moves a project to any valid status.
func (s *ProjectService) UpdateStatus(ctx context.Context, caller domain.Caller, id, status string) (*ports.ProjectDetail, error) {
	st := domain.ProjectStatus(strings.TrimSpace(status))
	if !st.Valid() {
		return nil, domain.Rule(InvalidStatusMessage())
	}
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}

	p, err := s.projects.SetStatus(ctx, id, authz.ForProjectAccess(caller), st)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", id).Str("status", string(st)).Str("updated_by", caller.ID).Msg("project status changed")
	return s.pop.project(ctx, p)
}

// AddTeamMember adds an active user to the team. Adding an existing member is
// rejected rather than ignored.
func (s *ProjectService) AddTeamMember(ctx context.Context, caller domain.Caller, id, userID string) ([]domain.UserRef, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.Rule(msgUserIDRequired)
	}
	if !domain.IsValidID(id) || !domain.IsValidID(userID) {
		return nil, domain.ErrInvalidID
	}

	if _, err := s.projects.FindOne(ctx, id, authz.ForProjectOwner(caller)); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotFound
	}
	p, added, err := s.projects.AddTeamMember(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, domain.Rule(msgAlreadyMember)
	}

	s.log.Info().Str("project_id", id).Str("user_id", userID).Msg("team member added")
	return s.pop.team(ctx, p.TeamMembers)
}

// RemoveTeamMember removes userID from the team. Removing a user who is not a
// member succeeds and leaves the team unchanged.
func (s *ProjectService) RemoveTeamMember(ctx context.Context, caller domain.Caller, id, userID string) ([]domain.UserRef, error) {
	if !domain.IsValidID(id) {
		return nil, domain.ErrInvalidID
	}
	if _, err := s.projects.FindOne(ctx, id, authz.ForProjectOwner(caller)); err != nil {
		return nil, err
	}
	p, err := s.projects.RemoveTeamMember(ctx, id, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", id).Str("user_id", userID).Msg("team member removed")
	return s.pop.team(ctx, p.TeamMembers)
}

// InvalidStatusMessage lists the accepted statuses.
func InvalidStatusMessage() string {
	names := make([]string, len(domain.ProjectStatuses))
	for i, st := range domain.ProjectStatuses {
		names[i] = string(st)
	}
	return "Invalid status. Valid statuses are: " + strings.Join(names, ", ")
}

func (s *ProjectService) checkClient(ctx context.Context, caller domain.Caller, clientID string) error {
	if !domain.IsValidID(clientID) {
		return domain.NotFound(resourceClient)
	}
	_, err := s.clients.FindOne(ctx, clientID, authz.ForClient(caller), true)
	return err
}

func (s *ProjectService) checkMembers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if !domain.IsValidID(id) {
			return domain.Rule(msgMembersNotFound)
		}
	}
	n, err := s.users.CountActive(ctx, ids)
	if err != nil {
		return fmt.Errorf("check team members: %w", err)
	}
	if n != int64(len(ids)) {
		return domain.Rule(msgMembersNotFound)
	}
	return nil
}

func toDeliverables(in []ports.DeliverableInput) []domain.Deliverable {
	out := make([]domain.Deliverable, len(in))
	for i, d := range in {
		out[i] = domain.Deliverable{Name: d.Name, Description: d.Description, Completed: d.Completed}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

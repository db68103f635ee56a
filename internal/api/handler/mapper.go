package handler

import (
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

// ownerRef falls back to a bare id when the referenced user no longer resolves.
func ownerRef(ref *domain.UserRef, id string) *domain.UserRef {
	if ref != nil {
		return ref
	}
	if id == "" {
		return nil
	}
	return &domain.UserRef{ID: id}
}

func toClientResponse(d ports.ClientDetail) clientResponse {
	c := d.Client
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Company:   c.Company,
		Industry:  c.Industry,
		IsActive:  c.IsActive,
		CreatedBy: ownerRef(d.CreatedBy, c.CreatedBy),
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func toClientResponses(items []ports.ClientDetail) []clientResponse {
	out := make([]clientResponse, len(items))
	for i, d := range items {
		out[i] = toClientResponse(d)
	}
	return out
}

func toProjectResponse(d ports.ProjectDetail) projectResponse {
	p := d.Project
	client := d.Client
	if client == nil {
		client = &domain.ClientRef{ID: p.ClientID}
	}
	team := d.TeamMembers
	if team == nil {
		team = []domain.UserRef{}
	}
	deliverables := p.Deliverables
	if deliverables == nil {
		deliverables = []domain.Deliverable{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return projectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Client:       client,
		Status:       p.Status,
		Priority:     p.Priority,
		Budget:       p.Budget,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Deliverables: deliverables,
		TeamMembers:  team,
		Tags:         tags,
		IsActive:     p.IsActive,
		CreatedBy:    ownerRef(d.CreatedBy, p.CreatedBy),
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}

func toProjectResponses(items []ports.ProjectDetail) []projectResponse {
	out := make([]projectResponse, len(items))
	for i, d := range items {
		out[i] = toProjectResponse(d)
	}
	return out
}

package service

import (
	"context"
	"fmt"

	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

// populator resolves the user and client references embedded in responses
// with one batch lookup per collection.
type populator struct {
	users   ports.UserRepository
	clients ports.ClientRepository
}

func (p populator) userRefs(ctx context.Context, ids []string) (map[string]domain.UserRef, error) {
	out := make(map[string]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := p.users.FindByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("populate users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u.Ref()
	}
	return out, nil
}

func (p populator) clientRefs(ctx context.Context, ids []string) (map[string]domain.ClientRef, error) {
	out := make(map[string]domain.ClientRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	clients, err := p.clients.FindByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("populate clients: %w", err)
	}
	for _, c := range clients {
		out[c.ID] = c.Ref()
	}
	return out, nil
}

func (p populator) clientDetails(ctx context.Context, items []*domain.Client) ([]ports.ClientDetail, error) {
	ids := make([]string, 0, len(items))
	for _, c := range items {
		ids = append(ids, c.CreatedBy)
	}
	refs, err := p.userRefs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.ClientDetail, len(items))
	for i, c := range items {
		out[i] = ports.ClientDetail{Client: c}
		if ref, ok := refs[c.CreatedBy]; ok {
			out[i].CreatedBy = &ref
		}
	}
	return out, nil
}

func (p populator) projects(ctx context.Context, items []*domain.Project) ([]ports.ProjectDetail, error) {
	var userIDs, clientIDs []string
	for _, pr := range items {
		userIDs = append(userIDs, pr.CreatedBy)
		userIDs = append(userIDs, pr.TeamMembers...)
		clientIDs = append(clientIDs, pr.ClientID)
	}
	users, err := p.userRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	clients, err := p.clientRefs(ctx, clientIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ports.ProjectDetail, len(items))
	for i, pr := range items {
		d := ports.ProjectDetail{Project: pr, TeamMembers: members(pr.TeamMembers, users)}
		if ref, ok := users[pr.CreatedBy]; ok {
			d.CreatedBy = &ref
		}
		if ref, ok := clients[pr.ClientID]; ok {
			d.Client = &ref
		}
		out[i] = d
	}
	return out, nil
}

func (p populator) project(ctx context.Context, pr *domain.Project) (*ports.ProjectDetail, error) {
	out, err := p.projects(ctx, []*domain.Project{pr})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (p populator) team(ctx context.Context, ids []string) ([]domain.UserRef, error) {
	refs, err := p.userRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return members(ids, refs), nil
}

func members(ids []string, refs map[string]domain.UserRef) []domain.UserRef {
	out := make([]domain.UserRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := refs[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

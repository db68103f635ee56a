package memory

import (
	"context"
	"time"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

const resourceProject = "Project"

type projectRecord struct {
	project domain.Project
	seq     uint64
}

type ProjectRepository struct {
	s *Store
}

func (r *ProjectRepository) Create(_ context.Context, p *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = newID()
	r.s.projects[p.ID] = &projectRecord{project: cloneProject(*p), seq: r.s.next()}
	return nil
}

func (r *ProjectRepository) FindOne(_ context.Context, id string, scope authz.Scope) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, err := r.scoped(id, scope)
	if err != nil {
		return nil, err
	}
	p := cloneProject(rec.project)
	return &p, nil
}

func (r *ProjectRepository) List(_ context.Context, f ports.ProjectFilter) ([]*domain.Project, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*projectRecord
	for _, rec := range r.s.projects {
		if matches(&rec.project, f) {
			matched = append(matched, rec)
		}
	}
	newestFirst(matched, func(rec *projectRecord) (time.Time, uint64) { return rec.project.CreatedAt, rec.seq })

	page := paginate(matched, f.Page, f.Limit)
	out := make([]*domain.Project, len(page))
	for i, rec := range page {
		p := cloneProject(rec.project)
		out[i] = &p
	}
	return out, int64(len(matched)), nil
}

func matches(p *domain.Project, f ports.ProjectFilter) bool {
	if !f.Scope.Permits(p.CreatedBy, p.TeamMembers) {
		return false
	}
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	if f.Status != "" && string(p.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(p.Priority) != f.Priority {
		return false
	}
	if f.ClientID != "" && p.ClientID != f.ClientID {
		return false
	}
	if f.Search == "" {
		return true
	}
	if containsFold(p.Name, f.Search) || containsFold(p.Description, f.Search) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, f.Search) {
			return true
		}
	}
	return false
}

func (r *ProjectRepository) Update(_ context.Context, id string, ch domain.ProjectChanges) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.projects[id]
	if !ok {
		return nil, domain.NotFound(resourceProject)
	}
	rec.project = cloneProject(ch.Apply(rec.project))
	rec.project.UpdatedAt = r.s.now()

	p := cloneProject(rec.project)
	return &p, nil
}

func (r *ProjectRepository) SetStatus(_ context.Context, id string, scope authz.Scope, status domain.ProjectStatus) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, err := r.scoped(id, scope)
	if err != nil {
		return nil, err
	}
	rec.project.Status = status
	rec.project.UpdatedAt = r.s.now()

	p := cloneProject(rec.project)
	return &p, nil
}

func (r *ProjectRepository) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.projects[id]
	if !ok {
		return domain.NotFound(resourceProject)
	}
	rec.project.IsActive = active
	rec.project.UpdatedAt = r.s.now()
	return nil
}

func (r *ProjectRepository) AddTeamMember(_ context.Context, id, userID string) (*domain.Project, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.projects[id]
	if !ok {
		return nil, false, domain.NotFound(resourceProject)
	}
	added := !rec.project.HasMember(userID)
	if added {
		rec.project.TeamMembers = append(cloneStrings(rec.project.TeamMembers), userID)
		rec.project.UpdatedAt = r.s.now()
	}

	p := cloneProject(rec.project)
	return &p, added, nil
}

func (r *ProjectRepository) RemoveTeamMember(_ context.Context, id, userID string) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.projects[id]
	if !ok {
		return nil, domain.NotFound(resourceProject)
	}
	team := make([]string, 0, len(rec.project.TeamMembers))
	for _, m := range rec.project.TeamMembers {
		if m != userID {
			team = append(team, m)
		}
	}
	if len(team) != len(rec.project.TeamMembers) {
		rec.project.TeamMembers = team
		rec.project.UpdatedAt = r.s.now()
	}

	p := cloneProject(rec.project)
	return &p, nil
}

func (r *ProjectRepository) CountActiveByClient(_ context.Context, clientID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, rec := range r.s.projects {
		if rec.project.ClientID == clientID && rec.project.IsActive {
			n++
		}
	}
	return n, nil
}

// scoped returns the live record for id when scope permits it. Callers hold mu.
func (r *ProjectRepository) scoped(id string, scope authz.Scope) (*projectRecord, error) {
	rec, ok := r.s.projects[id]
	if !ok || !scope.Permits(rec.project.CreatedBy, rec.project.TeamMembers) {
		return nil, domain.NotFound(resourceProject)
	}
	return rec, nil
}

func cloneProject(p domain.Project) domain.Project {
	p.TeamMembers = cloneStrings(p.TeamMembers)
	p.Tags = cloneStrings(p.Tags)
	if p.Deliverables != nil {
		d := make([]domain.Deliverable, len(p.Deliverables))
		copy(d, p.Deliverables)
		p.Deliverables = d
	}
	if p.Budget != nil {
		b := *p.Budget
		p.Budget = &b
	}
	if p.StartDate != nil {
		t := *p.StartDate
		p.StartDate = &t
	}
	if p.EndDate != nil {
		t := *p.EndDate
		p.EndDate = &t
	}
	return p
}

package memory

import (
	"context"
	"strings"
	"time"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

const resourceClient = "Client"

type clientRecord struct {
	client domain.Client
	seq    uint64
}

type ClientRepository struct {
	s *Store
}

func (r *ClientRepository) Create(_ context.Context, c *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(c.Email, "") {
		return &domain.DuplicateError{Field: "email"}
	}
	c.ID = newID()
	r.s.clients[c.ID] = &clientRecord{client: cloneClient(*c), seq: r.s.next()}
	return nil
}

func (r *ClientRepository) FindOne(_ context.Context, id string, scope authz.Scope, activeOnly bool) (*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.clients[id]
	if !ok || !scope.Permits(rec.client.CreatedBy, nil) || (activeOnly && !rec.client.IsActive) {
		return nil, domain.NotFound(resourceClient)
	}
	c := cloneClient(rec.client)
	return &c, nil
}

func (r *ClientRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Client, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.s.clients[id]; ok {
			c := cloneClient(rec.client)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *ClientRepository) List(_ context.Context, f ports.ClientFilter) ([]*domain.Client, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*clientRecord
	for _, rec := range r.s.clients {
		c := &rec.client
		if !f.Scope.Permits(c.CreatedBy, nil) {
			continue
		}
		if f.IsActive != nil && c.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !containsFold(c.Name, f.Search) && !containsFold(c.Email, f.Search) && !containsFold(c.Company, f.Search) {
			continue
		}
		matched = append(matched, rec)
	}
	newestFirst(matched, func(rec *clientRecord) (time.Time, uint64) { return rec.client.CreatedAt, rec.seq })

	page := paginate(matched, f.Page, f.Limit)
	out := make([]*domain.Client, len(page))
	for i, rec := range page {
		c := cloneClient(rec.client)
		out[i] = &c
	}
	return out, int64(len(matched)), nil
}

func (r *ClientRepository) Update(_ context.Context, id string, scope authz.Scope, ch domain.ClientChanges) (*domain.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.clients[id]
	if !ok || !scope.Permits(rec.client.CreatedBy, nil) {
		return nil, domain.NotFound(resourceClient)
	}
	if ch.Email != nil && r.emailTaken(*ch.Email, id) {
		return nil, &domain.DuplicateError{Field: "email"}
	}

	c := &rec.client
	if ch.Name != nil {
		c.Name = *ch.Name
	}
	if ch.Email != nil {
		c.Email = *ch.Email
	}
	if ch.Phone != nil {
		c.Phone = *ch.Phone
	}
	if ch.Address != nil {
		a := *ch.Address
		c.Address = &a
	}
	if ch.Company != nil {
		c.Company = *ch.Company
	}
	if ch.Industry != nil {
		c.Industry = *ch.Industry
	}
	if ch.IsActive != nil {
		c.IsActive = *ch.IsActive
	}
	c.UpdatedAt = r.s.now()

	out := cloneClient(*c)
	return &out, nil
}

func (r *ClientRepository) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.clients[id]
	if !ok {
		return domain.NotFound(resourceClient)
	}
	rec.client.IsActive = active
	rec.client.UpdatedAt = r.s.now()
	return nil
}

// emailTaken reports whether another client already uses email. Callers hold mu.
func (r *ClientRepository) emailTaken(email, exceptID string) bool {
	for id, rec := range r.s.clients {
		if id != exceptID && strings.EqualFold(rec.client.Email, email) {
			return true
		}
	}
	return false
}

func cloneClient(c domain.Client) domain.Client {
	if c.Address != nil {
		a := *c.Address
		c.Address = &a
	}
	return c
}

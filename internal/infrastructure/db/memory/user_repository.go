package memory

import (
	"context"
	"strings"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

type userRecord struct {
	user domain.User
	seq  uint64
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.users {
		if strings.EqualFold(rec.user.Email, user.Email) {
			return nil, &domain.DuplicateError{Field: "email"}
		}
		if rec.user.Username == user.Username {
			return nil, &domain.DuplicateError{Field: "username"}
		}
	}

	u := *user
	u.ID = newID()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.now()
		u.UpdatedAt = u.CreatedAt
	}
	r.s.users[u.ID] = &userRecord{user: u, seq: r.s.next()}

	out := u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.users {
		if strings.EqualFold(rec.user.Email, email) {
			u := rec.user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := rec.user
	return &u, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.s.users[id]; ok {
			u := rec.user
			out = append(out, &u)
		}
	}
	return out, nil
}

func (r *UserRepository) CountActive(_ context.Context, ids []string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{}, len(ids))
	var n int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := r.s.users[id]; ok && rec.user.IsActive {
			n++
		}
	}
	return n, nil
}

// SetActive toggles a user account. Only the seed tool and tests use it.
func (r *UserRepository) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.user.IsActive = active
	rec.user.UpdatedAt = r.s.now()
	return nil
}

package ports

import (
	"context"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// Create stores a new user and returns it with its id. A duplicate username
	// or email yields *domain.DuplicateError.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// CountActive counts the active users among ids.
	CountActive(ctx context.Context, ids []string) (int64, error)
}

package ports

import (
	"context"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
)

// ClientFilter carries every query parameter for listing clients.
// Scope is always set by the service layer.
type ClientFilter struct {
	Scope    authz.Scope
	Search   string // optional: case-insensitive match on name, email or company
	IsActive *bool  // nil = any
	Page     int    // 1-based
	Limit    int
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	// Create stores c and sets its ID. A duplicate email yields *domain.DuplicateError.
	Create(ctx context.Context, c *domain.Client) error
	// FindOne returns the client with id inside scope. When activeOnly is set an
	// inactive client is treated as absent. Misses return *domain.NotFoundError.
	FindOne(ctx context.Context, id string, scope authz.Scope, activeOnly bool) (*domain.Client, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Client, error)
	// List returns one page of clients, newest first, and the total match count.
	List(ctx context.Context, filter ClientFilter) ([]*domain.Client, int64, error)
	// Update applies changes to the client with id inside scope and returns the result.
	Update(ctx context.Context, id string, scope authz.Scope, changes domain.ClientChanges) (*domain.Client, error)
	SetActive(ctx context.Context, id string, active bool) error
}

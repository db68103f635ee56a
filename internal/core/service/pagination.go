package service

import "github.com/projecthub/tracker-api/internal/core/ports"

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// pageBounds applies the list defaults: page 1, limit 10, limit capped at 100.
func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func pagination(page, limit int, total int64) ports.Pagination {
	pages := 0
	if total > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return ports.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// activeByDefault resolves the isActive filter: soft-deleted records are hidden
// unless the caller asks for a specific value.
func activeByDefault(v *bool) *bool {
	if v != nil {
		return v
	}
	t := true
	return &t
}

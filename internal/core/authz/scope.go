// Package authz derives the visibility predicate applied to every read and
// write of clients and projects.
//
// Admins are unrestricted. Everyone else only sees records they created, and
// for project access also the projects listing them as a team member.
package authz

import "github.com/projecthub/tracker-api/internal/core/domain"

// Scope is a storage-agnostic predicate over a record's ownership fields.
type Scope struct {
	Unrestricted bool
	OwnerID      string
	// AllowMembers extends the predicate to records whose team includes OwnerID.
	AllowMembers bool
}

// ForClient scopes client reads and writes to the creator unless the caller is admin.
func ForClient(c domain.Caller) Scope {
	if c.IsAdmin() {
		return Scope{Unrestricted: true}
	}
	return Scope{OwnerID: c.ID}
}

// ForProjectAccess scopes project reads, updates and status changes to the
// creator or a team member.
func ForProjectAccess(c domain.Caller) Scope {
	if c.IsAdmin() {
		return Scope{Unrestricted: true}
	}
	return Scope{OwnerID: c.ID, AllowMembers: true}
}

// ForProjectOwner scopes deletion and team-membership changes to the creator.
func ForProjectOwner(c domain.Caller) Scope {
	return ForClient(c)
}

// Permits evaluates the scope against a record in memory.
func (s Scope) Permits(createdBy string, members []string) bool {
	if s.Unrestricted {
		return true
	}
	if s.OwnerID == "" {
		return false
	}
	if createdBy == s.OwnerID {
		return true
	}
	if s.AllowMembers {
		for _, m := range members {
			if m == s.OwnerID {
				return true
			}
		}
	}
	return false
}

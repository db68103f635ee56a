// Package memory implements the repository ports on process memory. It backs
// STORE=memory runs and the service and handler test suites.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one lock so cross-collection reads
// (populate, reference checks) see a consistent snapshot.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*userRecord
	clients  map[string]*clientRecord
	projects map[string]*projectRecord
	seq      uint64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*userRecord),
		clients:  make(map[string]*clientRecord),
		projects: make(map[string]*projectRecord),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Users, Clients and Projects return repositories sharing this store.
func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Clients() *ClientRepository   { return &ClientRepository{s: s} }
func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s: s} }

func newID() string {
	return primitive.NewObjectID().Hex()
}

// next returns the insertion sequence number. Callers hold mu.
func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

// newestFirst sorts by creation time, then by insertion order, both descending.
func newestFirst[T any](items []T, key func(T) (time.Time, uint64)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, si := key(items[i])
		tj, sj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return si > sj
	})
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

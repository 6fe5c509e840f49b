// Package memory keeps records in process memory. It backs the "memory"
// database driver and the HTTP tests.
package memory

import (
	"sync"

	"github.com/jwalitptl/homecare-api/internal/model"
)

// Store holds all collections behind one lock so cross collection reads
// see a consistent view.
type Store struct {
	mu              sync.RWMutex
	users           []*model.User
	patients        []*model.Patient
	serviceRequests []*model.ServiceRequest
}

func NewStore() *Store {
	return &Store{}
}

// window returns the [skip, skip+limit) bounds of a slice of length n.
func window(n int, page model.Pagination) (int, int) {
	skip := n
	if s := page.Skip(); s < int64(n) {
		skip = int(s)
	}
	end := n
	if size := page.Size(); size > 0 && size < n-skip {
		end = skip + size
	}
	return skip, end
}

package mailbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"xmail/models"
)

// SavedSearches is an append-only registry of named searches.
// Duplicate names are kept as separate records.
type SavedSearches struct {
	items []models.SavedSearch
	mu    sync.RWMutex
	now   func() time.Time
}

// NewSavedSearches creates an empty registry
func NewSavedSearches() *SavedSearches {
	return &SavedSearches{now: time.Now}
}

// Save appends a new record and returns it
func (r *SavedSearches) Save(name, query string, filters models.FilterSet) models.SavedSearch {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := models.SavedSearch{
		ID:        uuid.New().String(),
		Name:      name,
		Query:     query,
		Filters:   filters,
		CreatedAt: r.now(),
	}
	r.items = append(r.items, s)
	return s
}

// List returns the records in save order
func (r *SavedSearches) List() []models.SavedSearch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.SavedSearch(nil), r.items...)
}

// Get resolves a record by id
func (r *SavedSearches) Get(id string) (models.SavedSearch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.items {
		if s.ID == id {
			return s, nil
		}
	}
	return models.SavedSearch{}, fmt.Errorf("%w: %s", ErrSearchNotFound, id)
}

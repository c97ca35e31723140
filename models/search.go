package models

import "time"

// FilterSet holds the structured predicates of an advanced search.
// A zero-valued field means the predicate is inactive.
type FilterSet struct {
	From       string   `json:"from,omitempty"`
	Category   Category `json:"category,omitempty"`
	Priority   Priority `json:"priority,omitempty"`
	HasCode    bool     `json:"has_code,omitempty"`
	IsStarred  bool     `json:"is_starred,omitempty"`
	IsUnread   bool     `json:"is_unread,omitempty"`
	Repository string   `json:"repository,omitempty"`
}

// IsEmpty reports whether no predicate is active
func (f FilterSet) IsEmpty() bool {
	return f == FilterSet{}
}

// SavedSearch is a named query and filter snapshot
type SavedSearch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Query     string    `json:"query"`
	Filters   FilterSet `json:"filters"`
	CreatedAt time.Time `json:"created_at"`
}

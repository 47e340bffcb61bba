package todo

import (
	"fmt"
	"strings"
	"time"
)

// Status represents which collection a task belongs to.
type Status string

const (
	StatusDraft Status = "draft"
	StatusSaved Status = "saved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusSaved
}

// Task represents a single todo item.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Completed   bool      `json:"completed" yaml:"completed"`
	Status      Status    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// IsDraft returns true if the task lives in the drafts collection.
func (t *Task) IsDraft() bool {
	return t.Status == StatusDraft
}

// Store is the aggregate of saved and draft tasks. It is the unit of
// persistence and is always encoded and decoded whole.
type Store struct {
	Saved  []Task `json:"saved"`
	Drafts []Task `json:"drafts"`
}

// NewStore returns an empty store with both collections initialised.
func NewStore() *Store {
	return &Store{
		Saved:  []Task{},
		Drafts: []Task{},
	}
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		Saved:  make([]Task, len(s.Saved)),
		Drafts: make([]Task, len(s.Drafts)),
	}
	copy(c.Saved, s.Saved)
	copy(c.Drafts, s.Drafts)
	return c
}

// Len returns the number of tasks across both collections.
func (s *Store) Len() int {
	return len(s.Saved) + len(s.Drafts)
}

// Filter selects which saved tasks ListSaved returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter converts a user-supplied string into a Filter. An empty
// string means FilterAll and "done" is accepted for FilterCompleted.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted, "done":
		return FilterCompleted, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q: expected all, pending or completed", s)
	}
}

// Stats summarises the store.
type Stats struct {
	Saved     int
	Completed int
	Pending   int
	Drafts    int
}

// Package session owns the in-memory task store for one run of the
// program and persists it after every mutation.
package session

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
)

// Repository loads and saves the task store.
type Repository interface {
	Load() (*storage.LoadResult, error)
	Save(store *todo.Store) error
}

// Journal records successful mutations.
type Journal interface {
	Record(entry logging.Entry) error
}

// Journal operation names.
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpToggle  = "toggle"
	OpPromote = "promote"
	OpDelete  = "delete"
)

// Session is the single owner of the task store. Each mutating method
// changes a copy, saves it once and swaps it in only when the save
// succeeded. A Session is not safe for concurrent use.
type Session struct {
	repo    Repository
	store   *todo.Store
	source  storage.Source
	warning error
	journal Journal
	logger  *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithJournal records every successful mutation in j.
func WithJournal(j Journal) Option {
	return func(s *Session) {
		s.journal = j
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the store from repo. Recovery warnings do not fail Open; they
// are available from Warning.
func Open(repo Repository, opts ...Option) (*Session, error) {
	if repo == nil {
		return nil, errors.New("session: nil repository")
	}
	s := &Session{
		repo:   repo,
		logger: logging.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory store with what is on disk.
func (s *Session) Reload() error {
	res, err := s.repo.Load()
	if err != nil {
		return err
	}
	store := res.Store
	if store == nil {
		store = todo.NewStore()
	}

	s.store = store
	s.source = res.Source
	s.warning = res.Warning

	s.logger.Debug("loaded task store", "source", res.Source, "saved", len(store.Saved), "drafts", len(store.Drafts))
	return nil
}

// Warning returns the recovery warning from the last load, if any.
func (s *Session) Warning() error {
	return s.warning
}

// Source reports where the last load came from.
func (s *Session) Source() storage.Source {
	return s.source
}

// Add creates a task and saves.
func (s *Session) Add(title, description string, asDraft bool) (todo.Task, error) {
	var task todo.Task
	err := s.mutate(OpAdd, func(st *todo.Store) (todo.Task, error) {
		var err error
		task, err = st.Add(title, description, asDraft)
		return task, err
	})
	return task, err
}

// Update edits the title or description of a task and saves. A nil
// pointer leaves that field alone.
func (s *Session) Update(id string, title, description *string) (todo.Task, error) {
	var task todo.Task
	err := s.mutate(OpUpdate, func(st *todo.Store) (todo.Task, error) {
		var err error
		task, err = st.Update(id, title, description)
		return task, err
	})
	return task, err
}

// ToggleCompleted flips a saved task's completion and saves.
func (s *Session) ToggleCompleted(id string) (todo.Task, error) {
	var task todo.Task
	err := s.mutate(OpToggle, func(st *todo.Store) (todo.Task, error) {
		var err error
		task, err = st.ToggleCompleted(id)
		return task, err
	})
	return task, err
}

// Promote moves a draft into the saved collection and saves.
func (s *Session) Promote(id string) (todo.Task, error) {
	var task todo.Task
	err := s.mutate(OpPromote, func(st *todo.Store) (todo.Task, error) {
		var err error
		task, err = st.Promote(id)
		return task, err
	})
	return task, err
}

// Delete removes a task and saves. It returns the removed task.
func (s *Session) Delete(id string) (todo.Task, error) {
	var task todo.Task
	err := s.mutate(OpDelete, func(st *todo.Store) (todo.Task, error) {
		t, ok := st.Get(id)
		if !ok {
			return todo.Task{}, &todo.NotFoundError{ID: id}
		}
		if err := st.Delete(id); err != nil {
			return todo.Task{}, err
		}
		task = t
		return t, nil
	})
	return task, err
}

func (s *Session) mutate(op string, fn func(*todo.Store) (todo.Task, error)) error {
	next := s.store.Clone()
	task, err := fn(next)
	if err != nil {
		return err
	}
	if err := s.repo.Save(next); err != nil {
		s.logger.Error("save failed, change discarded", "op", op, "id", task.ID, "err", err)
		return err
	}
	s.store = next

	s.logger.Debug("task store updated", "op", op, "id", task.ID)
	if s.journal != nil {
		entry := logging.Entry{
			Time:      task.UpdatedAt,
			Op:        op,
			TaskID:    task.ID,
			Title:     task.Title,
			Status:    string(task.Status),
			Completed: task.Completed,
		}
		if op == OpDelete {
			entry.Time = time.Now().UTC()
		}
		if err := s.journal.Record(entry); err != nil {
			s.logger.Warn("journal write failed", "op", op, "err", err)
		}
	}
	return nil
}

// ListSaved returns saved tasks matching filter in collection order.
func (s *Session) ListSaved(filter todo.Filter) []todo.Task {
	return s.store.ListSaved(filter)
}

// ListDrafts returns drafts in collection order.
func (s *Session) ListDrafts() []todo.Task {
	return s.store.ListDrafts()
}

// Get returns the task with id.
func (s *Session) Get(id string) (todo.Task, bool) {
	return s.store.Get(id)
}

// Resolve turns an id or unique id prefix into a full id.
func (s *Session) Resolve(ref string) (string, error) {
	return s.store.Resolve(ref)
}

// ShortIDs abbreviates every task id to a prefix Resolve accepts.
func (s *Session) ShortIDs() map[string]string {
	return s.store.ShortIDs()
}

// Stats returns counts over both collections.
func (s *Session) Stats() todo.Stats {
	return s.store.Stats()
}

// Snapshot returns a copy of the whole store.
func (s *Session) Snapshot() *todo.Store {
	return s.store.Clone()
}

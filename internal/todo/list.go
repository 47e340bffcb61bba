package todo

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinIDPrefix is the shortest id abbreviation shown to users.
const MinIDPrefix = 8

// maxIDAttempts bounds id regeneration when a fresh id collides with an
// existing task.
const maxIDAttempts = 8

var (
	now   = func() time.Time { return time.Now().UTC() }
	newID = func() string { return uuid.Must(uuid.NewV7()).String() }
)

var errEmptyTitle = errors.New("title must not be empty")

// Add creates a task and appends it to drafts or saved.
func (s *Store) Add(title, description string, asDraft bool) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, &ValidationError{Field: "title", Err: errEmptyTitle}
	}

	id, err := s.uniqueID()
	if err != nil {
		return Task{}, err
	}

	ts := now()
	task := Task{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(description),
		Completed:   false,
		Status:      StatusSaved,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if asDraft {
		task.Status = StatusDraft
		s.Drafts = append(s.Drafts, task)
	} else {
		s.Saved = append(s.Saved, task)
	}
	return task, nil
}

// Update changes the title and/or description of a task in either
// collection. A nil argument leaves that field as it is.
func (s *Store) Update(id string, title, description *string) (Task, error) {
	task := s.lookup(id)
	if task == nil {
		return Task{}, &NotFoundError{ID: id}
	}

	newTitle := task.Title
	if title != nil {
		newTitle = strings.TrimSpace(*title)
	}
	if newTitle == "" {
		return Task{}, &ValidationError{Field: "title", Err: errEmptyTitle}
	}

	task.Title = newTitle
	if description != nil {
		task.Description = strings.TrimSpace(*description)
	}
	touch(task)
	return *task, nil
}

// ToggleCompleted flips the completion flag of a saved task.
func (s *Store) ToggleCompleted(id string) (Task, error) {
	task := s.lookup(id)
	if task == nil {
		return Task{}, &NotFoundError{ID: id}
	}
	if task.Status != StatusSaved {
		return Task{}, &InvalidStateError{ID: id, Status: task.Status, Op: "toggle completion of"}
	}

	task.Completed = !task.Completed
	touch(task)
	return *task, nil
}

// Promote moves a draft to the end of the saved collection.
func (s *Store) Promote(id string) (Task, error) {
	i := indexOf(s.Drafts, id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	task := s.Drafts[i]
	s.Drafts = append(s.Drafts[:i], s.Drafts[i+1:]...)

	task.Status = StatusSaved
	task.Completed = false
	touch(&task)
	s.Saved = append(s.Saved, task)
	return task, nil
}

// Delete removes a task from whichever collection holds it.
func (s *Store) Delete(id string) error {
	if i := indexOf(s.Saved, id); i >= 0 {
		s.Saved = append(s.Saved[:i], s.Saved[i+1:]...)
		return nil
	}
	if i := indexOf(s.Drafts, id); i >= 0 {
		s.Drafts = append(s.Drafts[:i], s.Drafts[i+1:]...)
		return nil
	}
	return &NotFoundError{ID: id}
}

// ListSaved returns saved tasks matching filter in insertion order.
// The returned slice is a copy.
func (s *Store) ListSaved(filter Filter) []Task {
	out := make([]Task, 0, len(s.Saved))
	for _, task := range s.Saved {
		switch filter {
		case FilterPending:
			if task.Completed {
				continue
			}
		case FilterCompleted:
			if !task.Completed {
				continue
			}
		}
		out = append(out, task)
	}
	return out
}

// ListDrafts returns all drafts in insertion order. The returned slice is
// a copy.
func (s *Store) ListDrafts() []Task {
	out := make([]Task, len(s.Drafts))
	copy(out, s.Drafts)
	return out
}

// Get returns a copy of the task with id and whether it exists.
func (s *Store) Get(id string) (Task, bool) {
	task := s.lookup(id)
	if task == nil {
		return Task{}, false
	}
	return *task, true
}

// Resolve maps a full id or a unique id prefix to a task id.
func (s *Store) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", &NotFoundError{ID: ref}
	}
	if s.lookup(ref) != nil {
		return ref, nil
	}

	var matches []string
	for _, coll := range [][]Task{s.Saved, s.Drafts} {
		for _, task := range coll {
			if strings.HasPrefix(task.ID, ref) {
				matches = append(matches, task.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", &NotFoundError{ID: ref}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousIDError{Prefix: ref, Matches: matches}
	}
}

// ShortIDs maps every task id to the shortest prefix, at least
// MinIDPrefix long, that Resolve maps back to that task.
func (s *Store) ShortIDs() map[string]string {
	ids := make([]string, 0, s.Len())
	for _, coll := range [][]Task{s.Saved, s.Drafts} {
		for _, task := range coll {
			ids = append(ids, task.ID)
		}
	}
	return UniquePrefixes(ids, MinIDPrefix)
}

// UniquePrefixes maps each id to its shortest prefix of at least minLen
// bytes that no other id in ids starts with. A prefix never ends in '-'.
// An id that is itself a prefix of another id maps to the whole id.
func UniquePrefixes(ids []string, minLen int) map[string]string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	out := make(map[string]string, len(sorted))
	for i, id := range sorted {
		n := max(minLen, 1)
		if i > 0 {
			n = max(n, commonPrefixLen(id, sorted[i-1])+1)
		}
		if i+1 < len(sorted) {
			n = max(n, commonPrefixLen(id, sorted[i+1])+1)
		}
		if n < len(id) && id[n-1] == '-' {
			n++
		}
		out[id] = id[:min(n, len(id))]
	}
	return out
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Stats counts tasks per collection and completion state.
func (s *Store) Stats() Stats {
	st := Stats{Saved: len(s.Saved), Drafts: len(s.Drafts)}
	for _, task := range s.Saved {
		if task.Completed {
			st.Completed++
		} else {
			st.Pending++
		}
	}
	return st
}

func (s *Store) lookup(id string) *Task {
	if i := indexOf(s.Saved, id); i >= 0 {
		return &s.Saved[i]
	}
	if i := indexOf(s.Drafts, id); i >= 0 {
		return &s.Drafts[i]
	}
	return nil
}

func (s *Store) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := newID()
		if id != "" && s.lookup(id) == nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate task id: %d attempts collided", maxIDAttempts)
}

func indexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// touch refreshes UpdatedAt, never letting it fall behind CreatedAt.
func touch(t *Task) {
	ts := now()
	if ts.Before(t.CreatedAt) {
		ts = t.CreatedAt
	}
	t.UpdatedAt = ts
}

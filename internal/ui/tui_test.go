package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todo-go/internal/session"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.Open(storage.New(filepath.Join(t.TempDir(), "tasks.json")))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return sess
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys to the model one at a time.
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func addTask(t *testing.T, m *Model, title, description string, draft bool) {
	t.Helper()
	start := "a"
	if draft {
		start = "A"
	}
	press(m, start, title, "enter")
	if description != "" {
		press(m, description)
	}
	press(m, "enter")
	if m.mode != modeList {
		t.Fatalf("expected list mode after adding, got %v (status %q)", m.mode, m.status)
	}
}

func TestTUIAddTask(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)

	addTask(t, m, "Buy milk", "2 litres", false)

	saved := sess.ListSaved(todo.FilterAll)
	if len(saved) != 1 {
		t.Fatalf("expected 1 saved task, got %d", len(saved))
	}
	if saved[0].Title != "Buy milk" || saved[0].Description != "2 litres" {
		t.Errorf("unexpected task %+v", saved[0])
	}
	if !strings.Contains(m.status, "Task created") || m.statusErr {
		t.Errorf("unexpected status %q", m.status)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Error("expected view to list the new task")
	}
}

func TestTUIListShowsResolvableIDs(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "First", "", false)
	addTask(t, m, "Second", "", false)

	view := m.View()
	short := sess.ShortIDs()
	for _, task := range sess.ListSaved(todo.FilterAll) {
		prefix := short[task.ID]
		if !strings.Contains(view, prefix) {
			t.Errorf("view does not show %q for %q", prefix, task.Title)
		}
		if got, err := sess.Resolve(prefix); err != nil || got != task.ID {
			t.Errorf("Resolve(%q): got %q, %v; want %q", prefix, got, err, task.ID)
		}
	}
	if !strings.Contains(m.status, "["+short[sess.ListSaved(todo.FilterAll)[1].ID]+"]") {
		t.Errorf("status should name the unique prefix, got %q", m.status)
	}
}

func TestTUIAddDraftSwitchesView(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)

	addTask(t, m, "Plan trip", "", true)

	if m.view != ViewDrafts {
		t.Errorf("expected drafts view, got %v", m.view)
	}
	if n := len(sess.ListDrafts()); n != 1 {
		t.Errorf("expected 1 draft, got %d", n)
	}
}

func TestTUIEmptyTitleStaysInPrompt(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)

	press(m, "a", "   ", "enter")

	if m.mode != modeInput || m.inputStep != 0 {
		t.Errorf("expected to stay on the title prompt, mode %v step %d", m.mode, m.inputStep)
	}
	if !m.statusErr || !strings.Contains(m.status, "Invalid input") {
		t.Errorf("expected validation message, got %q", m.status)
	}
	if sess.Stats().Saved != 0 {
		t.Error("no task should be created")
	}
}

func TestTUIEscCancelsInput(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)

	press(m, "a", "Half typed", "esc")

	if m.mode != modeList {
		t.Errorf("expected list mode, got %v", m.mode)
	}
	if sess.Stats().Saved != 0 {
		t.Error("cancelled input must not create a task")
	}
}

func TestTUIToggle(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "Buy milk", "", false)

	press(m, "space")
	if got := sess.ListSaved(todo.FilterCompleted); len(got) != 1 {
		t.Fatalf("expected task completed, got %d completed", len(got))
	}

	press(m, "x")
	if got := sess.ListSaved(todo.FilterPending); len(got) != 1 {
		t.Fatalf("expected task pending again, got %d pending", len(got))
	}
	if !strings.Contains(m.status, "reopened") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestTUIToggleDraftShowsError(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "Plan trip", "", true)

	press(m, "x")

	if !m.statusErr || !strings.Contains(m.status, "promote it first") {
		t.Errorf("expected invalid state message, got %q", m.status)
	}
	drafts := sess.ListDrafts()
	if len(drafts) != 1 || drafts[0].Completed {
		t.Errorf("draft must be unchanged, got %+v", drafts)
	}
}

func TestTUIPromote(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "Plan trip", "", true)

	press(m, "p")

	if len(sess.ListDrafts()) != 0 || len(sess.ListSaved(todo.FilterAll)) != 1 {
		t.Errorf("expected draft promoted, stats %+v", sess.Stats())
	}
	if !strings.Contains(m.status, "promoted") {
		t.Errorf("unexpected status %q", m.status)
	}
}

func TestTUIDeleteConfirm(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "Buy milk", "", false)

	press(m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected confirmation, got mode %v", m.mode)
	}
	if !strings.Contains(m.View(), "(y/n)") {
		t.Error("expected confirmation prompt in view")
	}
	press(m, "n")
	if sess.Stats().Saved != 1 {
		t.Fatal("declined delete must keep the task")
	}

	press(m, "d", "y")
	if sess.Stats().Saved != 0 {
		t.Fatal("confirmed delete must remove the task")
	}
	if m.cursor != 0 {
		t.Errorf("cursor should clamp to 0, got %d", m.cursor)
	}
}

func TestTUIEdit(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "Buy milk", "2 litres", false)

	press(m, "e")
	if m.input.Value() != "Buy milk" {
		t.Fatalf("expected title prefilled, got %q", m.input.Value())
	}
	press(m, " today", "enter")
	if m.input.Value() != "2 litres" {
		t.Fatalf("expected description prefilled, got %q", m.input.Value())
	}
	press(m, "enter")

	got := sess.ListSaved(todo.FilterAll)[0]
	if got.Title != "Buy milk today" || got.Description != "2 litres" {
		t.Errorf("unexpected task after edit %+v", got)
	}
}

func TestTUIViews(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "First", "", false)
	addTask(t, m, "Second", "", false)
	press(m, "1")
	press(m, "space") // complete First

	tests := []struct {
		key   string
		view  View
		count int
	}{
		{"1", ViewSaved, 2},
		{"2", ViewPending, 1},
		{"3", ViewCompleted, 1},
		{"4", ViewDrafts, 0},
	}
	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			press(m, tt.key)
			if m.view != tt.view {
				t.Fatalf("view = %v, want %v", m.view, tt.view)
			}
			if n := len(m.tasks()); n != tt.count {
				t.Errorf("tasks in view = %d, want %d", n, tt.count)
			}
		})
	}

	press(m, "tab")
	if m.view != ViewSaved {
		t.Errorf("tab from drafts should wrap to saved, got %v", m.view)
	}
	press(m, "4")
	if !strings.Contains(m.View(), "No drafts") {
		t.Error("expected empty drafts message")
	}
}

func TestTUICursorMovement(t *testing.T) {
	sess := newTestSession(t)
	m := NewModel(sess)
	addTask(t, m, "First", "", false)
	addTask(t, m, "Second", "", false)
	press(m, "1")

	press(m, "j")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	press(m, "down")
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last task, got %d", m.cursor)
	}
	press(m, "k", "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestTUINoSelection(t *testing.T) {
	m := NewModel(newTestSession(t))
	for _, k := range []string{"x", "p", "d", "e"} {
		press(m, k)
		if m.mode != modeList || !m.statusErr {
			t.Errorf("%s on empty list: mode %v status %q", k, m.mode, m.status)
		}
	}
}

func TestTUIShowsLoadWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	sess, err := session.Open(storage.New(path))
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(sess)
	if !m.statusErr || !strings.Contains(m.status, "corrupt") {
		t.Errorf("expected corruption warning, status %q", m.status)
	}
}

// failingRepo loads an empty store and refuses every save.
type failingRepo struct{}

func (failingRepo) Load() (*storage.LoadResult, error) {
	return &storage.LoadResult{Store: todo.NewStore(), Source: storage.SourceEmpty}, nil
}

func (failingRepo) Save(*todo.Store) error {
	return &storage.IOError{Op: "rename", Path: "tasks.json", Err: errors.New("disk full")}
}

func TestTUISaveFailure(t *testing.T) {
	sess, err := session.Open(failingRepo{})
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(sess)

	press(m, "a", "Buy milk", "enter", "enter")

	if !m.statusErr || !strings.Contains(m.status, "change discarded") {
		t.Errorf("expected save failure message, got %q", m.status)
	}
	if sess.Stats().Saved != 0 {
		t.Error("failed save must leave the session unchanged")
	}
}

func TestTUIHelpAndQuit(t *testing.T) {
	m := NewModel(newTestSession(t))

	press(m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help screen")
	}
	press(m, "j")
	if m.showHelp {
		t.Error("any key should close help")
	}

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&strings.Builder{}) {
		t.Error("a strings.Builder is not a TTY")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("a regular file is not a TTY")
	}
}

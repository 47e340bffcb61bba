// Package ui renders task listings and runs the interactive session.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/todo-go/internal/session"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
)

// View selects which tasks the interactive session shows.
type View int

const (
	ViewSaved View = iota
	ViewPending
	ViewCompleted
	ViewDrafts
)

var viewNames = []string{"Saved", "Pending", "Completed", "Drafts"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "Unknown"
	}
	return viewNames[v]
}

type mode int

const (
	modeList mode = iota
	modeInput
	modeConfirmDelete
)

// inputKind names what the text prompt is collecting.
type inputKind int

const (
	inputAdd inputKind = iota
	inputAddDraft
	inputEdit
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	tabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD479")).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6BCB77"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Strikethrough(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Model is the bubbletea model of the interactive session. Every key is
// handled to completion inside Update, including the save it triggers.
type Model struct {
	sess *session.Session

	view   View
	cursor int
	mode   mode

	input     textinput.Model
	inputKind inputKind
	inputStep int // 0 title, 1 description
	editID    string
	newTitle  string

	status    string
	statusErr bool
	showHelp  bool
	width     int
}

// NewModel builds the interactive model over sess. A load warning from
// the session is shown in the status line.
func NewModel(sess *session.Session) *Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	m := &Model{sess: sess, input: ti}
	if w := sess.Warning(); w != nil {
		m.setWarning(w)
	}
	return m
}

// RunTUI starts the interactive session on the terminal.
func RunTUI(ctx context.Context, sess *session.Session) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("interactive mode requires a TTY")
	}
	program := tea.NewProgram(NewModel(sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
	case "tab":
		m.setView((m.view + 1) % View(len(viewNames)))
	case "shift+tab":
		m.setView((m.view + View(len(viewNames)) - 1) % View(len(viewNames)))
	case "1", "2", "3", "4":
		m.setView(View(msg.String()[0] - '1'))
	case "j", "down":
		if m.cursor < len(m.tasks())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, len(m.tasks())-1)
	case "a":
		return m, m.startInput(inputAdd, "")
	case "A":
		return m, m.startInput(inputAddDraft, "")
	case "e":
		if t, ok := m.selected(); ok {
			m.editID = t.ID
			return m, m.startInput(inputEdit, t.Title)
		}
		m.setError(errNoSelection)
	case " ", "x":
		m.toggle()
	case "p":
		m.promote()
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		} else {
			m.setError(errNoSelection)
		}
	case "r":
		if err := m.sess.Reload(); err != nil {
			m.setError(err)
		} else if w := m.sess.Warning(); w != nil {
			m.setWarning(w)
		} else {
			m.setStatus("Reloaded")
		}
		m.clampCursor()
	}
	return m, nil
}

var errNoSelection = errors.New("no task selected")

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "y", "Y":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		label := m.shortID(t.ID)
		if _, err := m.sess.Delete(t.ID); err != nil {
			m.setError(err)
		} else {
			m.setStatus(fmt.Sprintf("Deleted [%s] %s", label, t.Title))
		}
		m.clampCursor()
	default:
		m.setStatus("Delete cancelled")
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeList
		m.input.Blur()
		m.setStatus("Cancelled")
		return m, nil
	case tea.KeyEnter:
		if m.inputStep == 0 {
			m.newTitle = m.input.Value()
			if strings.TrimSpace(m.newTitle) == "" {
				m.setError(&todo.ValidationError{Field: "title", Err: errors.New("title must not be empty")})
				return m, nil
			}
			m.inputStep = 1
			desc := ""
			if m.inputKind == inputEdit {
				if t, ok := m.sess.Get(m.editID); ok {
					desc = t.Description
				}
			}
			m.input.Placeholder = "Description (optional)"
			m.input.SetValue(desc)
			m.input.CursorEnd()
			return m, nil
		}
		m.submitInput(m.newTitle, m.input.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) startInput(kind inputKind, title string) tea.Cmd {
	m.mode = modeInput
	m.inputKind = kind
	m.inputStep = 0
	m.newTitle = ""
	m.input.Placeholder = "Title"
	m.input.SetValue(title)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) submitInput(title, description string) {
	m.mode = modeList
	m.input.Blur()

	switch m.inputKind {
	case inputAdd, inputAddDraft:
		draft := m.inputKind == inputAddDraft
		t, err := m.sess.Add(title, description, draft)
		if err != nil {
			m.setError(err)
			return
		}
		if draft {
			m.setView(ViewDrafts)
		} else if m.view == ViewDrafts || m.view == ViewCompleted {
			m.setView(ViewSaved)
		}
		m.selectID(t.ID)
		m.setStatus(fmt.Sprintf("Task created: [%s] %s", m.shortID(t.ID), t.Title))
	case inputEdit:
		t, err := m.sess.Update(m.editID, &title, &description)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus(fmt.Sprintf("Task updated: [%s] %s", m.shortID(t.ID), t.Title))
	}
}

func (m *Model) toggle() {
	t, ok := m.selected()
	if !ok {
		m.setError(errNoSelection)
		return
	}
	updated, err := m.sess.ToggleCompleted(t.ID)
	if err != nil {
		m.setError(err)
		return
	}
	if updated.Completed {
		m.setStatus(fmt.Sprintf("Task completed: [%s] %s", m.shortID(t.ID), t.Title))
	} else {
		m.setStatus(fmt.Sprintf("Task reopened: [%s] %s", m.shortID(t.ID), t.Title))
	}
	m.clampCursor()
}

func (m *Model) promote() {
	t, ok := m.selected()
	if !ok {
		m.setError(errNoSelection)
		return
	}
	if _, err := m.sess.Promote(t.ID); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Task promoted: [%s] %s", m.shortID(t.ID), t.Title))
	m.clampCursor()
}

// tasks returns the tasks of the current view.
func (m *Model) tasks() []todo.Task {
	switch m.view {
	case ViewPending:
		return m.sess.ListSaved(todo.FilterPending)
	case ViewCompleted:
		return m.sess.ListSaved(todo.FilterCompleted)
	case ViewDrafts:
		return m.sess.ListDrafts()
	default:
		return m.sess.ListSaved(todo.FilterAll)
	}
}

func (m *Model) selected() (todo.Task, bool) {
	tasks := m.tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return todo.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) selectID(id string) {
	for i, t := range m.tasks() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) setView(v View) {
	m.view = v
	m.cursor = 0
}

func (m *Model) clampCursor() {
	n := len(m.tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// shortID returns the abbreviation of id shown in the list.
func (m *Model) shortID(id string) string {
	if p, ok := m.sess.ShortIDs()[id]; ok {
		return p
	}
	return ShortID(id)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = describeError(err)
	m.statusErr = true
}

// setWarning shows a load warning verbatim.
func (m *Model) setWarning(err error) {
	m.status = "Warning: " + err.Error()
	m.statusErr = true
}

// describeError turns a domain error into a status line message.
func describeError(err error) string {
	var (
		ve  *todo.ValidationError
		nf  *todo.NotFoundError
		ise *todo.InvalidStateError
		ioe *storage.IOError
	)
	switch {
	case errors.As(err, &ise) && ise.Status == todo.StatusDraft:
		return "Drafts cannot be completed; promote it first (p)"
	case errors.As(err, &ise):
		return "Error: " + ise.Error()
	case errors.As(err, &nf):
		return "Task not found"
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error()
	case errors.As(err, &ioe):
		return "Could not save, change discarded: " + ioe.Error()
	}
	return "Warning: " + err.Error()
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	writeHeader(&b, m.view, m.sess.Stats())

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	tasks := m.tasks()
	writeTaskList(&b, tasks, m.sess.ShortIDs(), m.cursor, m.view)

	switch m.mode {
	case modeInput:
		writePrompt(&b, m)
	case modeConfirmDelete:
		if t, ok := m.selected(); ok {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Delete [%s] %s? (y/n)", m.shortID(t.ID), t.Title)))
			b.WriteString("\n\n")
		}
	}

	writeStatus(&b, m.status, m.statusErr)
	writeFooter(&b, m.mode)
	return b.String()
}

func writeHeader(b *strings.Builder, active View, stats todo.Stats) {
	b.WriteString(titleStyle.Render("todo"))
	b.WriteString("  ")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d/%d completed, %d drafts", stats.Completed, stats.Saved, stats.Drafts)))
	b.WriteString("\n\n")

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if View(i) == active {
			tabs[i] = activeTab.Render("[" + label + "]")
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")
}

func writeTaskList(b *strings.Builder, tasks []todo.Task, shortIDs map[string]string, cursor int, view View) {
	if len(tasks) == 0 {
		b.WriteString(footerStyle.Render("  " + emptyMessage(view)))
		b.WriteString("\n\n")
		return
	}
	for i, t := range tasks {
		pointer := "  "
		if i == cursor {
			pointer = cursorStyle.Render("› ")
		}
		title := t.Title
		if t.Completed {
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(b, "%s%s %s  %s\n", pointer, StatusSymbol(t), footerStyle.Render(shortIDs[t.ID]), title)
		if t.Description != "" && i == cursor {
			b.WriteString("      " + descStyle.Render(t.Description) + "\n")
		}
	}
	b.WriteString("\n")
}

func emptyMessage(view View) string {
	switch view {
	case ViewPending:
		return "Nothing pending."
	case ViewCompleted:
		return "No completed tasks yet."
	case ViewDrafts:
		return "No drafts. Press A to add one."
	default:
		return NoTasksMessage + " Press a to add one."
	}
}

func writePrompt(b *strings.Builder, m *Model) {
	var label string
	switch m.inputKind {
	case inputAdd:
		label = "New task"
	case inputAddDraft:
		label = "New draft"
	case inputEdit:
		label = "Edit task"
	}
	if m.inputStep == 0 {
		label += ": title"
	} else {
		label += ": description"
	}
	b.WriteString(promptStyle.Render(label + "\n" + m.input.View()))
	b.WriteString("\n\n")
}

func writeStatus(b *strings.Builder, status string, isErr bool) {
	if status == "" {
		return
	}
	if isErr {
		b.WriteString(errorStyle.Render(status))
	} else {
		b.WriteString(statusStyle.Render(status))
	}
	b.WriteString("\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  tab, 1-4     Switch view (saved, pending, completed, drafts)\n")
	b.WriteString("  j/k, ↓/↑     Move\n")
	b.WriteString("  a            Add task\n")
	b.WriteString("  A            Add draft\n")
	b.WriteString("  e            Edit title and description\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  p            Promote draft\n")
	b.WriteString("  d            Delete (asks to confirm)\n")
	b.WriteString("  r            Reload from disk\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
	b.WriteString(footerStyle.Render("Press any key to return"))
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, md mode) {
	var hint string
	switch md {
	case modeInput:
		hint = "enter confirm • esc cancel"
	case modeConfirmDelete:
		hint = "y delete • any other key cancels"
	default:
		hint = "a add • A draft • space toggle • p promote • d delete • ? help • q quit"
	}
	b.WriteString(footerStyle.Render(hint))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

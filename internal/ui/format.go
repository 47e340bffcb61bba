package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/todo-go/internal/todo"
)

// ShortIDLen is the number of id characters shown when no longer prefix
// is needed to tell tasks apart.
const ShortIDLen = todo.MinIDPrefix

// Status symbols used in tables and the interactive view.
const (
	symbolDone    = "✓"
	symbolPending = "○"
	symbolDraft   = "✎"
)

const (
	statusColWidth = 6
	taskRuleWidth  = 50
)

// NoTasksMessage is printed for an empty listing.
const NoTasksMessage = "No tasks found."

// ShortID truncates an id to ShortIDLen characters. Listings use the
// unique prefixes from todo.Store.ShortIDs instead.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

// StatusSymbol returns the table symbol for a task.
func StatusSymbol(t todo.Task) string {
	switch {
	case t.IsDraft():
		return symbolDraft
	case t.Completed:
		return symbolDone
	default:
		return symbolPending
	}
}

// FormatTable renders tasks as an ID │ STATUS │ TASK table followed by a
// completion summary. Ids are shown as their entry in shortIDs, which
// should cover every task in the store so each shown id resolves. A nil
// map abbreviates against tasks alone.
func FormatTable(tasks []todo.Task, shortIDs map[string]string) string {
	if len(tasks) == 0 {
		return NoTasksMessage
	}
	if shortIDs == nil {
		ids := make([]string, len(tasks))
		for i, t := range tasks {
			ids[i] = t.ID
		}
		shortIDs = todo.UniquePrefixes(ids, ShortIDLen)
	}
	label := func(id string) string {
		if p, ok := shortIDs[id]; ok {
			return p
		}
		return id
	}

	idWidth := lipgloss.Width("ID")
	for _, t := range tasks {
		if w := lipgloss.Width(label(t.ID)); w > idWidth {
			idWidth = w
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s │ %s │ TASK\n", padRight("ID", idWidth), "STATUS")
	b.WriteString(strings.Repeat("─", idWidth+1) + "┼" + strings.Repeat("─", statusColWidth+2) + "┼" + strings.Repeat("─", taskRuleWidth) + "\n")

	for _, t := range tasks {
		fmt.Fprintf(&b, "%s │ %s │ %s\n", padRight(label(t.ID), idWidth), center(StatusSymbol(t), statusColWidth), t.Title)
		if t.Description != "" {
			fmt.Fprintf(&b, "%s │ %s │   %s\n", strings.Repeat(" ", idWidth), strings.Repeat(" ", statusColWidth), t.Description)
		}
	}

	b.WriteString("\n")
	b.WriteString(summary(tasks))
	return b.String()
}

// summary counts completion over saved tasks and lists drafts separately.
func summary(tasks []todo.Task) string {
	var saved, completed, drafts int
	for _, t := range tasks {
		switch {
		case t.IsDraft():
			drafts++
		case t.Completed:
			saved++
			completed++
		default:
			saved++
		}
	}

	var parts []string
	if saved > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d completed", completed, saved))
	}
	if drafts > 0 {
		noun := "drafts"
		if drafts == 1 {
			noun = "draft"
		}
		parts = append(parts, fmt.Sprintf("%d %s", drafts, noun))
	}
	return strings.Join(parts, ", ")
}

// FormatJSON renders tasks as an indented JSON array.
func FormatJSON(tasks []todo.Task) (string, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tasks as json: %w", err)
	}
	return string(data), nil
}

// FormatYAML renders tasks as a YAML sequence.
func FormatYAML(tasks []todo.Task) (string, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	data, err := yaml.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks as yaml: %w", err)
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// WriteTasks writes tasks to w in the named format (table, json or yaml),
// followed by a newline. shortIDs is passed to FormatTable.
func WriteTasks(w io.Writer, tasks []todo.Task, shortIDs map[string]string, format string) error {
	var out string
	var err error
	switch format {
	case "", "table":
		out = FormatTable(tasks, shortIDs)
	case "json":
		out, err = FormatJSON(tasks)
	case "yaml", "yml":
		out, err = FormatYAML(tasks)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func center(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

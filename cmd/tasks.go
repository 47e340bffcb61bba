package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/session"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
)

// addCommand creates a saved task or a draft.
func addCommand(_ context.Context, cfg *config.Config, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("todo add", flag.ContinueOnError)
	draft := fs.Bool("draft", cfg.AddAsDraft, "Add the task as a draft")
	description := fs.String("description", "", "Task description")
	fs.StringVar(description, "d", "", "Task description (shorthand)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	t, err := sess.Add(joinArgs(positional), *description, *draft)
	if err != nil {
		return err
	}
	kind := "Task"
	if t.IsDraft() {
		kind = "Draft"
	}
	fmt.Printf("✓ %s created: [%s] %s\n", kind, t.ID, t.Title)
	return nil
}

// listCommand lists saved tasks.
func listCommand(_ context.Context, cfg *config.Config, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("todo list", flag.ContinueOnError)
	pending := fs.Bool("pending", false, "Only pending tasks")
	completed := fs.Bool("completed", false, "Only completed tasks")
	output := fs.String("output", cfg.Output, "Output format (table|json|yaml)")
	fs.StringVar(output, "o", cfg.Output, "Output format (shorthand)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	filter := todo.FilterAll
	switch {
	case *pending && *completed:
		return fmt.Errorf("--pending and --completed are mutually exclusive")
	case *pending:
		filter = todo.FilterPending
	case *completed:
		filter = todo.FilterCompleted
	case len(positional) == 1:
		if filter, err = todo.ParseFilter(positional[0]); err != nil {
			return err
		}
		positional = nil
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}

	return ui.WriteTasks(os.Stdout, sess.ListSaved(filter), sess.ShortIDs(), *output)
}

// draftsCommand lists drafts.
func draftsCommand(_ context.Context, cfg *config.Config, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("todo drafts", flag.ContinueOnError)
	output := fs.String("output", cfg.Output, "Output format (table|json|yaml)")
	fs.StringVar(output, "o", cfg.Output, "Output format (shorthand)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("unexpected arguments: %v", positional)
	}

	return ui.WriteTasks(os.Stdout, sess.ListDrafts(), sess.ShortIDs(), *output)
}

// updateCommand changes the title and/or description of a task.
func updateCommand(_ context.Context, _ *config.Config, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("todo update", flag.ContinueOnError)
	title := fs.String("title", "", "New title")
	fs.StringVar(title, "t", "", "New title (shorthand)")
	description := fs.String("description", "", "New description")
	fs.StringVar(description, "d", "", "New description (shorthand)")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := resolveOne(sess, positional)
	if err != nil {
		return err
	}

	var titleArg, descArg *string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title", "t":
			titleArg = title
		case "description", "d":
			descArg = description
		}
	})
	if titleArg == nil && descArg == nil {
		return fmt.Errorf("nothing to update: pass --title and/or --description")
	}

	t, err := sess.Update(id, titleArg, descArg)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Task updated: [%s] %s\n", t.ID, t.Title)
	return nil
}

// toggleCommand flips completion of a saved task.
func toggleCommand(_ context.Context, _ *config.Config, sess *session.Session, args []string) error {
	id, err := resolveOne(sess, args)
	if err != nil {
		return err
	}
	t, err := sess.ToggleCompleted(id)
	if err != nil {
		return err
	}
	if t.Completed {
		fmt.Printf("✓ Task completed: [%s] %s\n", t.ID, t.Title)
	} else {
		fmt.Printf("○ Task reopened: [%s] %s\n", t.ID, t.Title)
	}
	return nil
}

// doneCommand completes a saved task. A task that is already completed is
// left alone.
func doneCommand(_ context.Context, _ *config.Config, sess *session.Session, args []string) error {
	id, err := resolveOne(sess, args)
	if err != nil {
		return err
	}
	if t, ok := sess.Get(id); ok && t.Completed && !t.IsDraft() {
		fmt.Printf("Task already completed: [%s] %s\n", t.ID, t.Title)
		return nil
	}
	t, err := sess.ToggleCompleted(id)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Task completed: [%s] %s\n", t.ID, t.Title)
	return nil
}

// promoteCommand moves a draft to the saved list.
func promoteCommand(_ context.Context, _ *config.Config, sess *session.Session, args []string) error {
	id, err := resolveOne(sess, args)
	if err != nil {
		return err
	}
	t, err := sess.Promote(id)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Task promoted: [%s] %s\n", t.ID, t.Title)
	return nil
}

// deleteCommand removes a task from whichever list holds it.
func deleteCommand(_ context.Context, _ *config.Config, sess *session.Session, args []string) error {
	id, err := resolveOne(sess, args)
	if err != nil {
		return err
	}
	t, err := sess.Delete(id)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Task deleted: [%s] %s\n", t.ID, t.Title)
	return nil
}

// resolveOne expects exactly one id argument and resolves it, allowing a
// unique prefix.
func resolveOne(sess *session.Session, args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", errors.New("missing task id")
	case 1:
	default:
		return "", fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	return sess.Resolve(args[0])
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/session"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/todo"
)

// statusCommand summarises the task store and where it was loaded from.
func statusCommand(_ context.Context, cfg *config.Config, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("todo status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	stats := sess.Stats()
	fmt.Printf("Task store:  %s\n", cfg.TasksPath)
	fmt.Printf("Loaded from: %s\n", describeSource(sess.Source()))
	fmt.Printf("Saved:       %d (%d pending, %d completed)\n", stats.Saved, stats.Pending, stats.Completed)
	fmt.Printf("Drafts:      %d\n", stats.Drafts)
	return nil
}

func describeSource(src storage.Source) string {
	switch src {
	case storage.SourcePrimary:
		return "task file"
	case storage.SourceBackup:
		return "backup file"
	default:
		return "nothing (new store)"
	}
}

// exportCommand prints the whole store, saved tasks and drafts, in the
// on-disk format.
func exportCommand(_ context.Context, _ *config.Config, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("todo export", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	data, err := todo.Encode(sess.Snapshot())
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// schemaCommand prints the JSON Schema the task file is validated against.
func schemaCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	_, err := os.Stdout.Write(todo.Schema())
	return err
}

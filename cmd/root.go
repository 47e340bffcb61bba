// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/session"
	"github.com/nibzard/todo-go/internal/storage"
	"github.com/nibzard/todo-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the todo CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	remainingArgs := fs.Args()
	if len(remainingArgs) == 0 {
		printUsage(fs, os.Stdout)
		return nil
	}
	subcommand, remainingArgs := remainingArgs[0], remainingArgs[1:]

	// Commands that do not touch the task store.
	switch subcommand {
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	case "config":
		return configCommand(cws, remainingArgs)
	case "log", "logs":
		return logCommand(ctx, cfg, remainingArgs)
	case "completion":
		return completionCommand(cfg, remainingArgs)
	case "schema":
		return schemaCommand(remainingArgs)
	}

	command, ok := taskCommands[subcommand]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}

	logger := logging.NewConsoleLoggerFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	sess, closeSession, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSession()

	return command(ctx, cfg, sess, remainingArgs)
}

// taskCommand runs against an open session.
type taskCommand func(ctx context.Context, cfg *config.Config, sess *session.Session, args []string) error

var taskCommands = map[string]taskCommand{
	"add":         addCommand,
	"list":        listCommand,
	"ls":          listCommand,
	"drafts":      draftsCommand,
	"update":      updateCommand,
	"edit":        updateCommand,
	"toggle":      toggleCommand,
	"done":        doneCommand,
	"promote":     promoteCommand,
	"delete":      deleteCommand,
	"rm":          deleteCommand,
	"status":      statusCommand,
	"export":      exportCommand,
	"tui":         tuiCommand,
	"interactive": tuiCommand,
}

// openSession loads the task store named by cfg and attaches the journal.
// A load warning is printed to stderr before any command runs.
func openSession(cfg *config.Config, logger *log.Logger) (*session.Session, func(), error) {
	repo := storage.New(cfg.TasksPath, storage.WithLogger(logger))
	opts := []session.Option{session.WithLogger(logger)}

	closeFn := func() {}
	if cfg.Journal {
		journal, err := logging.NewJournal(cfg.LogDir, cfg.TasksPath)
		if err != nil {
			logger.Warn("journal disabled", "err", err)
		} else {
			opts = append(opts, session.WithJournal(journal))
			closeFn = func() {
				if err := journal.Close(); err != nil {
					logger.Warn("closing journal", "err", err)
				}
			}
		}
	}

	sess, err := session.Open(repo, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("opening task store: %w", err)
	}
	if w := sess.Warning(); w != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", w)
	}
	return sess, closeFn, nil
}

// tuiCommand launches the interactive session.
func tuiCommand(ctx context.Context, _ *config.Config, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("todo tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return ui.RunTUI(ctx, sess)
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("todo version %s\n", Version)
	return nil
}

// parseArgs parses flags that may appear anywhere among the positional
// arguments. Everything after "--" is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todo - A terminal task manager with drafts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [global options] <command> [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, line := range []string{
		"add <title...>        Add a task (--draft to keep it as a draft, -d description)",
		"list, ls              List saved tasks (--pending, --completed, -o format)",
		"drafts                List draft tasks (-o format)",
		"update, edit <id>     Change title and/or description (--title, --description)",
		"toggle <id>           Flip a saved task between pending and completed",
		"done <id>             Mark a saved task completed",
		"promote <id>          Move a draft to the saved list",
		"delete, rm <id>       Delete a task",
		"status                Show task counts and where the store was loaded from",
		"export                Print the whole store, drafts included, as JSON",
		"tui, interactive      Launch the interactive session",
		"log                   Show the change journal (-n lines, -f follow, --runs)",
		"config                Show effective configuration (--example for a template)",
		"schema                Print the JSON Schema of the task file",
		"completion <shell>    Print shell completion script (bash, zsh, fish)",
		"version               Show version information",
		"help                  Show this help message",
	} {
		fmt.Fprintln(w, "  "+line)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ids may be abbreviated to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// joinArgs joins positional words into one string.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

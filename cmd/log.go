package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
)

// logCommand prints the latest journal of the configured task store, or
// lists every journal run with --runs.
func logCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("todo log", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	runs := fs.Bool("runs", false, "List journal runs instead of tailing")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *n < 0 {
		return fmt.Errorf("-n must not be negative")
	}

	logDir, err := logging.FindJournalDir(cfg.LogDir, cfg.TasksPath)
	if err != nil {
		return fmt.Errorf("finding journal directory: %w", err)
	}

	if *runs {
		return printRuns(logDir)
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest journal: %w", err)
	}
	if logPath == "" {
		fmt.Println("No journal files found.")
		return nil
	}

	fmt.Printf("Journal: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(os.Stdout, logPath, *n, *follow, ctx.Done())
}

func printRuns(logDir string) error {
	runs, err := logging.FindLogRuns(logDir)
	if err != nil {
		return fmt.Errorf("listing journal runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No journal files found.")
		return nil
	}
	fmt.Printf("%-40s  %-19s  %-7s  %s\n", "RUN", "MODIFIED", "ENTRIES", "LAST")
	for _, r := range runs {
		fmt.Printf("%-40s  %-19s  %-7d  %s\n", r.RunID, r.ModTime.Local().Format("2006-01-02 15:04:05"), r.Entries, r.LastOp)
	}
	return nil
}

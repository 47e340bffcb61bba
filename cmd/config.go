package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/todo-go/internal/config"
)

// configCommand prints the effective configuration and where each value
// came from, or an example config file with --example.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("todo config", flag.ContinueOnError)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	fmt.Println("Effective configuration:")
	fmt.Println()
	for _, field := range config.Fields() {
		fmt.Printf("  %-15s = %-30v (%s)\n", field, cfg.Value(field), cws.Sources[field])
	}
	fmt.Println()
	fmt.Printf("Task store: %s\n", cfg.TasksPath)
	if len(cws.Files) == 0 {
		fmt.Println("Config files: none")
		return nil
	}
	fmt.Println("Config files (lowest priority first):")
	for _, f := range cws.Files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}

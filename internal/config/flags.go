package config

import (
	"flag"
)

// flagFields maps flag names to config field names.
var flagFields = map[string]string{
	"data-dir":       "data_dir",
	"file":           "tasks_file",
	"log-dir":        "log_dir",
	"journal":        "journal",
	"draft-default":  "add_as_draft",
	"output":         "output",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs with the current config values
// as defaults, parses args and records which fields were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory")
	fs.StringVar(&cfg.TasksFile, "file", cfg.TasksFile, "Task store file (relative to data dir)")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Journal directory")

	// Behaviour
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Record mutations in the journal")
	fs.BoolVar(&cfg.AddAsDraft, "draft-default", cfg.AddAsDraft, "Add new tasks as drafts")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Listing format (table, json, yaml)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
)

// envBindings maps environment variables to config fields.
var envBindings = []struct {
	env   string
	field string
}{
	{"TODO_DATA_DIR", "data_dir"},
	{"TODO_FILE", "tasks_file"},
	{"TODO_LOG_DIR", "log_dir"},
	{"TODO_JOURNAL", "journal"},
	{"TODO_DRAFT", "add_as_draft"},
	{"TODO_OUTPUT", "output"},
	{"TODO_LOG_LEVEL", "log_level"},
	{"TODO_LOG_FORMAT", "log_format"},
	{"TODO_LOG_TIMESTAMPS", "log_timestamps"},
	{"TODO_LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from TODO_* environment variables. Empty
// variables are ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	for _, b := range envBindings {
		v := os.Getenv(b.env)
		if v == "" {
			continue
		}
		if err := setField(cfg, b.field, v); err != nil {
			return fmt.Errorf("%s: %w", b.env, err)
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
	return nil
}

// setField assigns a string value to the named config field.
func setField(cfg *Config, field, value string) error {
	switch field {
	case "data_dir":
		cfg.DataDir = value
	case "tasks_file":
		cfg.TasksFile = value
	case "log_dir":
		cfg.LogDir = value
	case "output":
		cfg.Output = value
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	case "journal", "add_as_draft", "log_timestamps", "log_caller":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		switch field {
		case "journal":
			cfg.Journal = b
		case "add_as_draft":
			cfg.AddAsDraft = b
		case "log_timestamps":
			cfg.LogTimestamps = b
		case "log_caller":
			cfg.LogCaller = b
		}
	default:
		return fmt.Errorf("unknown config field %q", field)
	}
	return nil
}

// parseBool accepts the usual spellings of true and false.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by TODO_* environment variables or CLI flags

# Data directory (supports ~ and $VAR expansion)
data_dir = "~/.todo-cli"

# Task store file, relative to data_dir unless absolute
tasks_file = "tasks.json"

# Journal directory
log_dir = "~/.todo-cli/logs"

# Record every change in a JSONL journal under log_dir
journal = true

# Add new tasks as drafts by default
add_as_draft = false

# Listing format: table, json or yaml
output = "table"

# Console logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}

// Fields returns the config keys in display order.
func Fields() []string {
	return configFields()
}

// Value returns the display value of a config key.
func (c *Config) Value(field string) any {
	switch field {
	case "data_dir":
		return c.DataDir
	case "tasks_file":
		return c.TasksFile
	case "log_dir":
		return c.LogDir
	case "journal":
		return c.Journal
	case "add_as_draft":
		return c.AddAsDraft
	case "output":
		return c.Output
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return c.LogTimestamps
	case "log_caller":
		return c.LogCaller
	}
	return nil
}

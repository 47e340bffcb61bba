package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultDataDir   = "~/.todo-cli"
	DefaultTasksFile = "tasks.json"
	DefaultLogDir    = "~/.todo-cli/logs"
	DefaultJournal   = true
	DefaultOutput    = OutputTable
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Output formats for listings.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Config holds the full configuration for todo.
type Config struct {
	// Paths
	DataDir   string `toml:"data_dir"`
	TasksFile string `toml:"tasks_file"`
	LogDir    string `toml:"log_dir"`

	// Journal of mutations under LogDir
	Journal bool `toml:"journal"`

	// New tasks start as drafts unless --draft=false is given
	AddAsDraft bool `toml:"add_as_draft"`

	// Listing format: table, json or yaml
	Output string `toml:"output"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Resolved task store path (computed)
	TasksPath string `toml:"-"`
}

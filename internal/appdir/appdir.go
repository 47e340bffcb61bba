// Package appdir provides constants and utilities for the application
// data directory.
package appdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the application directory inside the user's home.
	Dir = ".todo-cli"

	// DefaultTasksFile is the default task store file name (inside Dir).
	DefaultTasksFile = "tasks.json"

	// BackupSuffix is appended to the task store path to name its backup.
	BackupSuffix = ".bak"

	// DefaultConfigFile is the default config file name (inside Dir).
	DefaultConfigFile = "todo.toml"

	// LogsDir is the journal directory name (inside Dir).
	LogsDir = "logs"
)

// Home returns ~/.todo-cli, or Dir relative to the working directory when
// the home directory cannot be determined.
func Home() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return Dir
	}
	return filepath.Join(home, Dir)
}

// TasksPath returns the task store path within a data directory.
func TasksPath(dataDir string) string {
	return joinPath(dataDir, DefaultTasksFile)
}

// BackupPath returns the backup path for a task store path.
func BackupPath(tasksPath string) string {
	return tasksPath + BackupSuffix
}

// ConfigPath returns the config file path within a data directory.
func ConfigPath(dataDir string) string {
	return joinPath(dataDir, DefaultConfigFile)
}

// LogsPath returns the journal directory within a data directory.
func LogsPath(dataDir string) string {
	return joinPath(dataDir, LogsDir)
}

func joinPath(dataDir, file string) string {
	if dataDir == "." || dataDir == "" {
		return file
	}
	return dataDir + string(filepath.Separator) + file
}

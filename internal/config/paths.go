package config

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveDir expands a data_dir or log_dir value and anchors a relative
// result at workDir.
func resolveDir(dir, workDir string) string {
	dir = expandPath(dir)
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(workDir, dir)
}

// resolveTasksPath places tasks_file inside dataDir unless it is absolute
// once expanded.
func resolveTasksPath(tasksFile, dataDir string) string {
	tasksFile = expandPath(tasksFile)
	if filepath.IsAbs(tasksFile) {
		return filepath.Clean(tasksFile)
	}
	return filepath.Join(dataDir, tasksFile)
}

// expandPath substitutes $VAR and ${VAR} references, then a leading ~ with
// the user's home directory. The ~ is left alone when no home is known.
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	return filepath.Join(home, p[1:])
}

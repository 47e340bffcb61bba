// Package logging provides the console logger and the per-session JSONL
// journal of task mutations, plus the helpers the log command uses to
// find and tail journals.
package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Entry is one journal line.
type Entry struct {
	Time      time.Time `json:"time"`
	Op        string    `json:"op"`
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title,omitempty"`
	Status    string    `json:"status,omitempty"`
	Completed bool      `json:"completed"`
}

// Journal appends mutation entries to a per-session JSONL file. The file
// is created on the first Record, so read-only sessions leave no trace.
type Journal struct {
	Dir     string
	RunID   string
	LogPath string

	mu   sync.Mutex
	file *os.File
}

// NewJournal prepares a journal for the task store at storePath under
// baseDir. Journals for the same store share one directory.
func NewJournal(baseDir, storePath string) (*Journal, error) {
	dir, err := FindJournalDir(baseDir, storePath)
	if err != nil {
		return nil, err
	}
	id := runID()
	return &Journal{
		Dir:     dir,
		RunID:   id,
		LogPath: filepath.Join(dir, id+".jsonl"),
	}, nil
}

// Record appends e to the journal. A zero Time is set to now.
func (j *Journal) Record(e Entry) error {
	if j == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		if err := os.MkdirAll(j.Dir, 0755); err != nil {
			return fmt.Errorf("create journal dir: %w", err)
		}
		f, err := os.OpenFile(j.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("create journal file: %w", err)
		}
		j.file = f
	}
	if _, err := j.file.Write(line); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

// Close closes the journal file if one was opened.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// FindJournalDir returns the journal directory for the task store at
// storePath: <baseDir>/<slug>-<hash>, where slug names the store's
// directory and hash identifies the absolute store path.
func FindJournalDir(baseDir, storePath string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if storePath == "" {
		return "", fmt.Errorf("task store path is empty")
	}

	abs := storePath
	if a, err := filepath.Abs(storePath); err == nil {
		abs = a
	}
	workDir := filepath.Dir(abs)
	return filepath.Join(resolveBaseDir(baseDir, workDir), storeSlug(abs)), nil
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

func storeSlug(storePath string) string {
	name := filepath.Base(filepath.Dir(storePath))
	return fmt.Sprintf("%s-%s", slugify(name), hashPath(storePath))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "tasks"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_.")
	if slug == "" {
		return "tasks"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

var runSeq atomic.Int64

// runID names a journal file. Ids of one process sort in creation order.
func runID() string {
	return fmt.Sprintf("%s-%d-%04d", time.Now().UTC().Format("20060102-150405"), os.Getpid(), runSeq.Add(1))
}

// FindLatestLog finds the latest JSONL journal in a directory. It returns
// an empty path when the directory is missing or empty.
func FindLatestLog(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if latest == "" || mod.After(latestTime) || (mod.Equal(latestTime) && entry.Name() > filepath.Base(latest)) {
			latestTime = mod
			latest = filepath.Join(logDir, entry.Name())
		}
	}

	return latest, nil
}

// TailLog copies a journal to w. When n > 0 only the last n lines are
// written. With follow set it keeps polling for appended lines until
// stop is closed; a nil stop follows forever.
func TailLog(w io.Writer, path string, n int, follow bool, stop <-chan struct{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}
	return tailFollow(w, file, stop)
}

// tailSeek positions file at the start of the last n lines.
func tailSeek(file *os.File, n int) error {
	const chunk = 4096

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()

	// Ignore a trailing newline so it does not count as an empty line.
	end := size
	if end > 0 {
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, end-1); err != nil {
			return err
		}
		if last[0] == '\n' {
			end--
		}
	}

	buf := make([]byte, chunk)
	seen := 0
	pos := end
	for pos > 0 {
		step := int64(chunk)
		if pos < step {
			step = pos
		}
		pos -= step
		if _, err := file.ReadAt(buf[:step], pos); err != nil && err != io.EOF {
			return err
		}
		for i := step - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				continue
			}
			seen++
			if seen == n {
				_, err := file.Seek(pos+i+1, io.SeekStart)
				return err
			}
		}
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}

// tailFollow polls file for appended data like tail -f.
func tailFollow(w io.Writer, file *os.File, stop <-chan struct{}) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			_, err := io.Copy(w, file)
			return err
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// LogRun is one session journal.
type LogRun struct {
	RunID   string
	ModTime time.Time
	Path    string
	Entries int
	LastOp  string
}

// FindLogRuns lists the journals in a directory, newest first.
func FindLogRuns(logDir string) ([]LogRun, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []LogRun{}, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}

	runs := make([]LogRun, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id := extractRunID(entry.Name())
		if id == "" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(logDir, entry.Name())
		run := LogRun{RunID: id, ModTime: info.ModTime(), Path: path}
		if recorded, err := ReadEntries(path); err == nil && len(recorded) > 0 {
			run.Entries = len(recorded)
			run.LastOp = recorded[len(recorded)-1].Op
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].ModTime.Equal(runs[j].ModTime) {
			return runs[i].RunID > runs[j].RunID
		}
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	return runs, nil
}

// extractRunID returns the run id of a journal file name, or "" when the
// name is not a journal.
func extractRunID(filename string) string {
	if !strings.HasSuffix(filename, ".jsonl") {
		return ""
	}
	return strings.TrimSuffix(filename, ".jsonl")
}

// ReadEntries decodes every line of a journal. Lines that do not decode
// are skipped.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	var out []Entry
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

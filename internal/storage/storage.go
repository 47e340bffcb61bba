// Package storage persists the task store to a single JSON file with a
// last-known-good backup beside it.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/appdir"
	"github.com/nibzard/todo-go/internal/todo"
)

// Source reports where a loaded store came from.
type Source string

const (
	SourceEmpty   Source = "empty"
	SourcePrimary Source = "primary"
	SourceBackup  Source = "backup"
)

// LoadResult is the outcome of Load. Warning is set when data was
// recovered from the backup or lost entirely; the caller should tell the
// user about it.
type LoadResult struct {
	Store   *todo.Store
	Source  Source
	Warning error
}

// IOError reports a failure of the storage medium itself.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// FileStore reads and writes the task store file and its backup.
type FileStore struct {
	path       string
	backupPath string
	logger     *log.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for debug and warning output.
func WithLogger(logger *log.Logger) Option {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBackupPath overrides the default <path>.bak backup location.
func WithBackupPath(path string) Option {
	return func(s *FileStore) {
		if path != "" {
			s.backupPath = path
		}
	}
}

// New creates a FileStore for path. Nothing is touched on disk until Load
// or Save is called.
func New(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:       path,
		backupPath: appdir.BackupPath(path),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the primary file path.
func (s *FileStore) Path() string {
	return s.path
}

// BackupPath returns the backup file path.
func (s *FileStore) BackupPath() string {
	return s.backupPath
}

// Load reads the primary file, falling back to the backup when the
// primary is corrupt or missing. A missing primary and backup is the
// first-run state and yields an empty store without a warning.
func (s *FileStore) Load() (*LoadResult, error) {
	primary, perr := s.read(s.path)
	if perr == nil {
		return &LoadResult{Store: primary, Source: SourcePrimary}, nil
	}
	var ioErr *IOError
	if errors.As(perr, &ioErr) {
		return nil, perr
	}

	backup, berr := s.read(s.backupPath)
	if errors.As(berr, &ioErr) {
		return nil, berr
	}

	primaryMissing := errors.Is(perr, fs.ErrNotExist)
	backupMissing := errors.Is(berr, fs.ErrNotExist)

	switch {
	case primaryMissing && backupMissing:
		s.logger.Debug("no task store yet, starting empty", "path", s.path)
		return &LoadResult{Store: todo.NewStore(), Source: SourceEmpty}, nil

	case berr == nil:
		var warning error
		if primaryMissing {
			warning = fmt.Errorf("task store %s is missing, recovered from backup %s", s.path, s.backupPath)
		} else {
			warning = fmt.Errorf("task store %s is corrupt, recovered from backup %s: %w", s.path, s.backupPath, perr)
		}
		s.logger.Warn("recovered task store from backup", "path", s.path, "backup", s.backupPath)
		return &LoadResult{Store: backup, Source: SourceBackup, Warning: warning}, nil

	case primaryMissing:
		warning := fmt.Errorf("task store %s is missing and backup %s is unusable, starting empty: %w", s.path, s.backupPath, berr)
		s.logger.Warn("task store lost, starting empty", "path", s.path)
		return &LoadResult{Store: todo.NewStore(), Source: SourceEmpty, Warning: warning}, nil

	case backupMissing:
		warning := fmt.Errorf("task store %s is corrupt and no backup exists, starting empty: %w", s.path, perr)
		s.logger.Warn("task store lost, starting empty", "path", s.path)
		return &LoadResult{Store: todo.NewStore(), Source: SourceEmpty, Warning: warning}, nil

	default:
		warning := fmt.Errorf("task store %s and backup %s are both corrupt, starting empty: %w; backup: %w", s.path, s.backupPath, perr, berr)
		s.logger.Warn("task store lost, starting empty", "path", s.path)
		return &LoadResult{Store: todo.NewStore(), Source: SourceEmpty, Warning: warning}, nil
	}
}

// Save copies the current primary file to the backup, then replaces the
// primary with the encoded store via a temp file and rename. A primary
// that no longer decodes is not copied, so it never replaces a good
// backup.
func (s *FileStore) Save(store *todo.Store) error {
	if err := store.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid task store: %w", err)
	}
	data, err := todo.Encode(store)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "create directory", Path: dir, Err: err}
	}

	if err := s.backup(); err != nil {
		return err
	}
	if err := writeAtomic(s.path, data); err != nil {
		return err
	}

	s.logger.Debug("saved task store", "path", s.path, "saved", len(store.Saved), "drafts", len(store.Drafts))
	return nil
}

func (s *FileStore) backup() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &IOError{Op: "read", Path: s.path, Err: err}
	}

	if _, err := todo.Decode(data); err != nil {
		s.logger.Warn("not backing up corrupt task store", "path", s.path, "err", err)
		return nil
	}

	if dir := filepath.Dir(s.backupPath); dir != filepath.Dir(s.path) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Op: "create directory", Path: dir, Err: err}
		}
	}
	return writeAtomic(s.backupPath, data)
}

// read returns the decoded store at path, an error wrapping
// fs.ErrNotExist, an *IOError or a *todo.CorruptionError.
func (s *FileStore) read(path string) (*todo.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	store, err := todo.Decode(data)
	if err != nil {
		s.logger.Debug("task store failed validation", "path", path, "err", err)
		return nil, err
	}
	return store, nil
}

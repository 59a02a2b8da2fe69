package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileState is the on-disk layout. The user record is kept as JSON text so
// both stores share one format.
type fileState struct {
	IsAuthenticated string `yaml:"isAuthenticated"`
	User            string `yaml:"user"`
}

// FileStore keeps the CLI session in a YAML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStatePath is $XDG_CONFIG_HOME/libadmin/session.yaml (or the platform equivalent).
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "libadmin", "session.yaml"), nil
}

// Path returns the state file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the state file. A missing or corrupt file is the logged-out default.
func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(filepath.Clean(s.path)) // #nosec G304 - state path is chosen by the operator
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var fst fileState
	if err := yaml.Unmarshal(data, &fst); err != nil {
		return State{}, nil
	}
	return restore(fst.IsAuthenticated, []byte(fst.User)), nil
}

// Save writes the state file with owner-only permissions.
func (s *FileStore) Save(st State) error {
	flag, record, err := encode(st)
	if err != nil {
		return err
	}
	if flag == "" {
		return s.Clear()
	}

	data, err := yaml.Marshal(fileState{IsAuthenticated: flag, User: string(record)})
	if err != nil {
		return fmt.Errorf("failed to encode session file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the state file. A missing file is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

package dedupe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Separator joins seen-keys on disk. Keys are numeric feed IDs plus RFC 3339
// timestamps, so a comma can never appear inside one.
const Separator = ","

// FileStore is a Store backed by a single flat file.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("dedupe: state file path is required")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file's location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the seen-set. A missing file and an empty file both mean an
// empty set; that is the first-run case, not a failure.
func (s *FileStore) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("dedupe: read state file: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, Separator), nil
}

// Save overwrites the file with exactly the given keys. An empty set writes
// nothing, so the previous state survives a run that saw an empty feed.
func (s *FileStore) Save(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dedupe: create state dir: %w", err)
		}
	}
	content := strings.Join(keys, Separator)
	if err := os.WriteFile(s.path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("dedupe: write state file: %w", err)
	}
	return nil
}

// DefaultPath resolves the conventional state file location:
// $XDG_STATE_HOME/gh-notifier/seen, falling back to
// ~/.local/state/gh-notifier/seen.
func DefaultPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); dir != "" {
		return filepath.Join(dir, "gh-notifier", "seen"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("dedupe: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "state", "gh-notifier", "seen"), nil
}

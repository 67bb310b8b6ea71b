package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend keeps history in a flat text file.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading history %s: %w", b.path, err)
	}
	return string(data), nil
}

// Append rewrites the file as existing content plus links. The new content goes to a
// temp file in the same directory which is synced and renamed over the original, so a
// crash leaves either the old or the new file.
func (b *FileBackend) Append(ctx context.Context, links []string) error {
	if len(links) == 0 {
		return nil
	}
	existing, err := b.Load(ctx)
	if err != nil {
		return err
	}
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		existing += "\n"
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(b.path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	// CreateTemp opens with 0600; keep the history's own mode across the rename.
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("setting history file mode: %w", err)
	}
	if _, err := tmp.WriteString(existing + joinLines(links)); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp history file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replacing history %s: %w", b.path, err)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }

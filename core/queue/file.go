package queue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each state in its own directory under a base path.
type FileStore struct {
	base string

	// beforeMove runs between staging the sidecar and moving the manifest.
	beforeMove func()
}

// NewFileStore creates the state directories under base if needed.
func NewFileStore(base string) (*FileStore, error) {
	if base == "" {
		return nil, fmt.Errorf("queue base path is required")
	}
	for _, st := range States {
		if err := os.MkdirAll(filepath.Join(base, string(st)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", st, err)
		}
	}
	return &FileStore{base: base}, nil
}

func (s *FileStore) path(state State, name string) string {
	return filepath.Join(s.base, string(state), name)
}

// List returns the manifests in a state sorted by name.
func (s *FileStore) List(ctx context.Context, state State) ([]Item, error) {
	entries, err := os.ReadDir(filepath.Join(s.base, string(state)))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", state, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		// Temp files are hidden until renamed into place
		if entry.IsDir() || strings.HasPrefix(name, ".") || IsSidecar(name) {
			continue
		}
		info, err := entry.Info()
		if errors.Is(err, fs.ErrNotExist) {
			// Moved away while listing
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s/%s: %w", state, name, err)
		}
		items = append(items, Item{Name: name, State: state, UpdatedAt: info.ModTime().UTC()})
	}
	return items, nil
}

// Read returns the raw manifest bytes.
func (s *FileStore) Read(ctx context.Context, item Item) ([]byte, error) {
	data, err := os.ReadFile(s.path(item.State, item.Name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(item.State, item.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", item.State, item.Name, err)
	}
	return data, nil
}

// ReadSidecar returns the outcome payload of a terminal item.
func (s *FileStore) ReadSidecar(ctx context.Context, item Item) ([]byte, error) {
	sidecar := SidecarName(item.Name, item.State)
	if sidecar == "" {
		return nil, notFound(item.State, item.Name)
	}
	data, err := os.ReadFile(s.path(item.State, sidecar))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(item.State, sidecar)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", item.State, sidecar, err)
	}
	return data, nil
}

// Enqueue writes a new manifest into pending.
func (s *FileStore) Enqueue(ctx context.Context, name string, data []byte) (Item, error) {
	if err := ValidateName(name); err != nil {
		return Item{}, err
	}
	for _, st := range States {
		if _, err := os.Stat(s.path(st, name)); err == nil {
			return Item{}, fmt.Errorf("%w: %s/%s", ErrExists, st, name)
		}
	}

	dst := s.path(StatePending, name)
	if err := writeAtomic(dst, data); err != nil {
		return Item{}, err
	}
	info, err := os.Stat(dst)
	if err != nil {
		return Item{}, fmt.Errorf("failed to stat %s: %w", dst, err)
	}
	return Item{Name: name, State: StatePending, UpdatedAt: info.ModTime().UTC()}, nil
}

// Transition stages the sidecar in a hidden temp file at the destination,
// renames the manifest, then renames the staged sidecar into place. If the
// manifest rename finds it gone, another pass claimed it: the staged file is
// dropped and ErrNotFound is returned.
func (s *FileStore) Transition(ctx context.Context, item Item, to State, sidecar []byte) (Item, error) {
	if err := checkTransition(item, to); err != nil {
		return Item{}, err
	}

	src := s.path(StatePending, item.Name)
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return Item{}, notFound(StatePending, item.Name)
	}

	sidecarPath := s.path(to, SidecarName(item.Name, to))
	tmpName, err := writeTemp(sidecarPath, sidecar)
	if err != nil {
		return Item{}, err
	}
	if s.beforeMove != nil {
		s.beforeMove()
	}

	dst := s.path(to, item.Name)
	if err := os.Rename(src, dst); err != nil {
		os.Remove(tmpName)
		if errors.Is(err, fs.ErrNotExist) {
			return Item{}, notFound(StatePending, item.Name)
		}
		return Item{}, fmt.Errorf("failed to move %s to %s: %w", item.Name, to, err)
	}
	if err := os.Rename(tmpName, sidecarPath); err != nil {
		os.Remove(tmpName)
		return Item{}, fmt.Errorf("failed to place sidecar of %s: %w", item.Name, err)
	}

	updated := Item{Name: item.Name, State: to}
	if info, err := os.Stat(dst); err == nil {
		updated.UpdatedAt = info.ModTime().UTC()
	}
	return updated, nil
}

// writeAtomic writes data to a hidden temp file in the target directory and
// renames it into place.
func writeAtomic(dst string, data []byte) error {
	tmpName, err := writeTemp(dst, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to place %s: %w", filepath.Base(dst), err)
	}
	return nil
}

// writeTemp writes data to a synced hidden temp file next to dst and returns
// its path.
func writeTemp(dst string, data []byte) (string, error) {
	dir, name := filepath.Split(dst)
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close %s: %w", name, err)
	}
	return tmpName, nil
}

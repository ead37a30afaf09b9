package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store is a local-disk blob store. Writes go through a temp file in the
// same directory followed by a rename, so a blob either exists completely or
// not at all and metadata commits never reference a half-written file.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns the store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put writes the blob under name. Storage names come from the registry and
// are opaque, but filepath.Base is applied anyway so the store never writes
// outside its directory.
func (s *Store) Put(ctx context.Context, name string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob: %w", err)
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, filepath.Base(name)))
}

// Get opens the blob stored under name for streaming.
func (s *Store) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

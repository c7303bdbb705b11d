package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// Store keeps uploaded image variants for the self-hosted backend.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// ErrInvalidPath is returned for paths that escape the store root.
var ErrInvalidPath = errors.New("invalid storage path")

// AferoStore implements Store on any afero filesystem. Production wraps the
// OS filesystem in a BasePathFs rooted at MEDIA_DIR; tests use MemMapFs.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// NewDiskStore returns a store rooted at dir on the local disk.
func NewDiskStore(dir string) (*AferoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return NewAferoStore(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// cleanPath normalizes p to a slash-separated relative path and rejects
// anything that would leave the root.
func cleanPath(p string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// Save writes the content of the reader to the given path.
func (s *AferoStore) Save(ctx context.Context, p string, reader io.Reader) (int64, error) {
	p, err := cleanPath(p)
	if err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return 0, err
	}
	f, err := s.fs.Create(p)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(f, reader)
}

// Delete removes a file.
func (s *AferoStore) Delete(ctx context.Context, p string) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}
	return s.fs.Remove(p)
}

// Get opens a file for reading.
func (s *AferoStore) Get(ctx context.Context, p string) (io.ReadCloser, error) {
	p, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	return s.fs.OpenFile(p, os.O_RDONLY, 0)
}

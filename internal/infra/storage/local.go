package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/itreb/portal/internal/usecase"
)

// LocalStore keeps uploaded artifacts under a directory on disk and serves
// them back through the public /files route.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	err := os.MkdirAll(root, 0o755)
	if err != nil {
		return nil, errors.Wrap(err, "storage: failed to create root directory")
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *LocalStore) Upload(ctx context.Context, name string, r io.Reader, size int64) error {
	if !validName(name) {
		return fmt.Errorf("storage: invalid object name %q", name)
	}

	path := filepath.Join(s.root, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "storage: failed to create object")
	}

	written, err := io.Copy(f, io.LimitReader(r, size))
	if err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrap(err, "storage: write failed")
	}
	if written != size {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("storage: short write: %d of %d bytes", written, size)
	}

	return f.Close()
}

func (s *LocalStore) PublicURL(name string) string {
	return s.baseURL + "/" + name
}

// Root is the directory served by the static file route.
func (s *LocalStore) Root() string {
	return s.root
}

// validName rejects separators and traversal so generated names can never
// escape the storage root.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

var _ usecase.ResumeStore = (*LocalStore)(nil)

package files

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/wasilisha/core/submission"
)

var errUnsafeName = errors.New("unsafe file name")

// Store is a disk-backed file store rooted at a single uploads directory.
type Store struct {
	root string
}

var _ submission.FileStore = (*Store)(nil)

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}
	return &Store{root: root}, nil
}

// path refuses names carrying path components; stored names are flat.
func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", errUnsafeName
	}
	return filepath.Join(s.root, name), nil
}

func (s *Store) Save(name string, r io.Reader) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating upload file")
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "writing upload file")
	}
	return f.Close()
}

// Delete removes a stored file; a file that is already gone is not an error.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting upload file")
	}
	return nil
}

func (s *Store) Open(name string) (io.ReadCloser, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

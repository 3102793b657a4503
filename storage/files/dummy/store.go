package dummyfs

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"sync"

	"github.com/trezcool/wasilisha/core/submission"
)

var _ submission.FileStore = (*Store)(nil) // interface compliance check

// Store keeps uploaded files in memory; used by tests.
type Store struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewStore() *Store {
	return &Store{files: make(map[string][]byte)}
}

func (s *Store) Save(name string, r io.Reader) error {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.files[name] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(name string) error {
	s.mu.Lock()
	delete(s.files, name)
	s.mu.Unlock()
	return nil
}

func (s *Store) Open(name string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.files[name]
	s.mu.RUnlock()
	if !ok {
		return nil, os.ErrNotExist
	}
	return ioutil.NopCloser(bytes.NewReader(data)), nil
}

// Reset drops all stored files; used between tests.
func (s *Store) Reset() {
	s.mu.Lock()
	s.files = make(map[string][]byte)
	s.mu.Unlock()
}

// Has reports whether a file is stored under name.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[name]
	return ok
}

// Count returns the number of stored files.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

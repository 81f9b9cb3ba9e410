// Package filestore keeps the project collection in a single JSON document
// on local disk.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/edvin/subnets/internal/core"
	"github.com/edvin/subnets/internal/model"
)

// Store is a core.ProjectStore backed by a JSON file. The in-memory copy is
// only replaced once the new document is safely on disk.
type Store struct {
	path     string
	mu       sync.RWMutex
	projects []model.Project
}

var _ core.ProjectStore = (*Store)(nil)

// Open loads the document at path, creating an empty one if it does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.save(nil); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode data file %s: %w", path, err)
	}
	s.projects = doc.Projects
	return s, nil
}

// Path returns the location of the data file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) List(_ context.Context) ([]model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects), nil
}

func (s *Store) Get(_ context.Context, id string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, core.ErrNotFound
	}
	p := s.projects[idx]
	return &p, nil
}

func (s *Store) Insert(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(p.ID) >= 0 {
		return fmt.Errorf("project %s already stored", p.ID)
	}
	next := append(slices.Clone(s.projects), *p)
	return s.commit(next)
}

func (s *Store) Update(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(p.ID)
	if idx < 0 {
		return core.ErrNotFound
	}
	next := slices.Clone(s.projects)
	next[idx] = *p
	return s.commit(next)
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return core.ErrNotFound
	}
	next := slices.Delete(slices.Clone(s.projects), idx, idx+1)
	return s.commit(next)
}

// Ping checks that the data file is still readable.
func (s *Store) Ping(_ context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open data file: %w", err)
	}
	return f.Close()
}

// commit persists next and adopts it as the in-memory state (caller must hold lock).
func (s *Store) commit(next []model.Project) error {
	if err := s.save(next); err != nil {
		return err
	}
	s.projects = next
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.projects, func(p model.Project) bool { return p.ID == id })
}

// save writes the document to a temp file next to the target, fsyncs it and
// renames it into place.
func (s *Store) save(projects []model.Project) error {
	if projects == nil {
		projects = []model.Project{}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(model.Document{Projects: projects}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	f, err := os.CreateTemp(dir, ".projects-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("fsync data file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

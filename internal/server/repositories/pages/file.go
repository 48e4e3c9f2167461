// Package pages provides the storage backends for saved pages: a directory
// of JSON documents and a PostgreSQL table.
package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/filex"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
)

const indexFile = "index.json"

// FileStore keeps one <id>.json per page plus index.json, the listing in
// creation order. All files are indented JSON.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: abs}, nil
}

func (s *FileStore) List(ctx context.Context) ([]models.IndexEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndex()
}

func (s *FileStore) Get(ctx context.Context, id string) (models.SavedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readPage(id)
}

func (s *FileStore) GetBySlug(ctx context.Context, slug string) (models.SavedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return models.SavedPage{}, err
	}
	for _, e := range index {
		if e.Slug == slug {
			return s.readPage(e.ID)
		}
	}
	return models.SavedPage{}, common.ErrNotFound
}

func (s *FileStore) Create(ctx context.Context, p models.SavedPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pagePath(p.ID)
	if err != nil {
		return err
	}
	if err := writeJSON(path, p); err != nil {
		return err
	}

	index, err := s.readIndex()
	if err != nil {
		return err
	}
	index = removeEntry(index, p.ID)
	index = append(index, p.Entry())
	return s.writeIndex(index)
}

func (s *FileStore) Update(ctx context.Context, id string, fn func(p *models.SavedPage) error) (models.SavedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.readPage(id)
	if err != nil {
		return models.SavedPage{}, err
	}
	if err := fn(&p); err != nil {
		return models.SavedPage{}, err
	}
	p.ID = id

	path, _ := s.pagePath(id)
	if err := writeJSON(path, p); err != nil {
		return models.SavedPage{}, err
	}

	index, err := s.readIndex()
	if err != nil {
		return models.SavedPage{}, err
	}
	for i := range index {
		if index[i].ID == id {
			index[i] = p.Entry()
		}
	}
	if err := s.writeIndex(index); err != nil {
		return models.SavedPage{}, err
	}
	return p, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.pagePath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("delete page %s: %w", id, err)
	}

	index, err := s.readIndex()
	if err != nil {
		return err
	}
	return s.writeIndex(removeEntry(index, id))
}

// pagePath rejects ids that would escape the data directory.
func (s *FileStore) pagePath(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: page id %q", common.ErrInvalidInput, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) readPage(id string) (models.SavedPage, error) {
	path, err := s.pagePath(id)
	if err != nil {
		return models.SavedPage{}, common.ErrNotFound
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.SavedPage{}, common.ErrNotFound
	}
	if err != nil {
		return models.SavedPage{}, fmt.Errorf("read page %s: %w", id, err)
	}

	var p models.SavedPage
	if err := json.Unmarshal(data, &p); err != nil {
		return models.SavedPage{}, fmt.Errorf("decode page %s: %w", id, err)
	}
	if p.Components == nil {
		p.Components = []models.Block{}
	}
	return p, nil
}

// readIndex treats a missing or unreadable index as empty.
func (s *FileStore) readIndex() ([]models.IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.IndexEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var index []models.IndexEntry
	if err := json.Unmarshal(data, &index); err != nil || index == nil {
		return []models.IndexEntry{}, nil
	}
	return index, nil
}

func (s *FileStore) writeIndex(index []models.IndexEntry) error {
	return writeJSON(filepath.Join(s.dir, indexFile), index)
}

func removeEntry(index []models.IndexEntry, id string) []models.IndexEntry {
	out := index[:0]
	for _, e := range index {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// writeJSON replaces path atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := filex.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

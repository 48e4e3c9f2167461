// Package snapshot keeps the single crash-recovery copy of the page being
// edited in the editor's local SQLite database.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pagebuilder/internal/client/migrations"
	"github.com/dmitrijs2005/pagebuilder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/models"

	_ "modernc.org/sqlite"
)

// Key is the slot's metadata key.
const Key = "page-builder-data"

// Slot is a one-document store, overwritten on every save.
type Slot struct {
	repo metadata.Repository
	key  string
}

func New(repo metadata.Repository) *Slot {
	return &Slot{repo: repo, key: Key}
}

// Open opens (creating if needed) the SQLite file at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return db, nil
}

// Save overwrites the slot with p.
func (s *Slot) Save(ctx context.Context, p models.Page) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.repo.Set(ctx, s.key, data)
}

// Load reads the slot. ok is false when nothing was saved yet; a slot that
// no longer decodes is reported as an error.
func (s *Slot) Load(ctx context.Context) (p models.Page, ok bool, err error) {
	data, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, common.ErrNotFound) {
		return models.Page{}, false, nil
	}
	if err != nil {
		return models.Page{}, false, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Page{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	if p.Components == nil {
		p.Components = []models.Block{}
	}
	return p, true, nil
}

// Clear empties the slot.
func (s *Slot) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.key)
}

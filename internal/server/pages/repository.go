package pages

import (
	"context"

	"github.com/dmitrijs2005/pagebuilder/internal/models"
)

// Repository stores saved pages. Lookups of unknown ids or slugs return
// common.ErrNotFound.
type Repository interface {
	// List returns index entries in creation order.
	List(ctx context.Context) ([]models.IndexEntry, error)
	Get(ctx context.Context, id string) (models.SavedPage, error)
	GetBySlug(ctx context.Context, slug string) (models.SavedPage, error)
	// Create stores p, replacing any record with the same id.
	Create(ctx context.Context, p models.SavedPage) error
	// Update applies fn to the stored record and persists the result. The
	// record is not changed when fn returns an error.
	Update(ctx context.Context, id string, fn func(p *models.SavedPage) error) (models.SavedPage, error)
	Delete(ctx context.Context, id string) error
}

// SiteWriter mirrors published pages to an external site host.
type SiteWriter interface {
	Put(ctx context.Context, p models.SavedPage) error
	Remove(ctx context.Context, slug string) error
}

package client

import (
	"context"

	"github.com/dmitrijs2005/pagebuilder/internal/models"
)

// Client is the remote page API as seen by the editor.
type Client interface {
	Close() error
	List(ctx context.Context) ([]models.IndexEntry, error)
	Get(ctx context.Context, id string) (models.SavedPage, error)
	Create(ctx context.Context, in models.PageInput) (models.SavedPage, error)
	Update(ctx context.Context, id string, in models.PageInput) (models.SavedPage, error)
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, publish bool) (models.SavedPage, error)
}

// Package pages implements the page server's remote API: CRUD over saved
// pages and the slug/publish policy.
package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	site  SiteWriter
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

// NewService builds the service. site may be nil.
func NewService(repo Repository, site SiteWriter, log logging.Logger) *Service {
	return &Service{
		repo:  repo,
		site:  site,
		log:   log.With("module", "pages"),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context) ([]models.IndexEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	if entries == nil {
		entries = []models.IndexEntry{}
	}
	return entries, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.SavedPage, error) {
	return s.repo.Get(ctx, id)
}

// GetPublished resolves a site slug. Drafts are reported as not found.
func (s *Service) GetPublished(ctx context.Context, slug string) (models.SavedPage, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return models.SavedPage{}, err
	}
	if p.Status != models.StatusPublished {
		return models.SavedPage{}, common.ErrNotFound
	}
	return p, nil
}

// Create stores a new draft. Missing fields get defaults: a generated id,
// "Untitled Page", no blocks, the default global styles.
func (s *Service) Create(ctx context.Context, in models.PageInput) (models.SavedPage, error) {
	now := s.now()
	p := models.SavedPage{
		Page: models.Page{
			ID:           s.newID(),
			Title:        models.UntitledPageTitle,
			Components:   []models.Block{},
			GlobalStyles: models.DefaultGlobalStyles(),
			UpdatedAt:    now,
		},
		Status:    models.StatusDraft,
		CreatedAt: now,
	}
	if in.ID != nil && *in.ID != "" {
		p.ID = *in.ID
	}
	if in.Title != nil && *in.Title == "" {
		in.Title = nil
	}
	in.Apply(&p)

	if err := s.repo.Create(ctx, p); err != nil {
		return models.SavedPage{}, fmt.Errorf("create page: %w", err)
	}
	s.log.Info(ctx, "page created", "id", p.ID)
	return p, nil
}

// Update merges the document fields of in into the record.
func (s *Service) Update(ctx context.Context, id string, in models.PageInput) (models.SavedPage, error) {
	return s.repo.Update(ctx, id, func(p *models.SavedPage) error {
		in.Apply(p)
		p.UpdatedAt = s.now()
		return nil
	})
}

// Delete removes the record and, if it was published, its site copy.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if p.Status == models.StatusPublished {
		s.removeSite(ctx, p.Slug)
	}
	s.log.Info(ctx, "page deleted", "id", id)
	return nil
}

// SetPublished publishes or unpublishes a page.
//
// Publishing keeps an existing slug or derives one from the title. A slug
// already used by another page gets a suffix from this page's id. The
// suffixed slug is not checked again. Unpublishing keeps the slug so that a
// later publish reuses the same URL.
func (s *Service) SetPublished(ctx context.Context, id string, publish bool) (models.SavedPage, error) {
	if !publish {
		return s.unpublish(ctx, id)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.SavedPage{}, err
	}

	slug := current.Slug
	if slug == "" {
		slug = Slugify(current.Title)
	}
	taken, err := s.slugTaken(ctx, slug, id)
	if err != nil {
		return models.SavedPage{}, err
	}
	if taken {
		slug = disambiguate(slug, id)
	}

	now := s.now()
	p, err := s.repo.Update(ctx, id, func(p *models.SavedPage) error {
		p.Status = models.StatusPublished
		p.Slug = slug
		p.PublishedAt = &now
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return models.SavedPage{}, err
	}
	s.log.Info(ctx, "page published", "id", id, "slug", slug)

	if current.Status == models.StatusPublished && current.Slug != "" && current.Slug != slug {
		s.removeSite(ctx, current.Slug)
	}
	if s.site != nil {
		if err := s.site.Put(ctx, p); err != nil {
			s.log.Error(ctx, "site upload failed", "id", id, "slug", slug, "error", err)
		}
	}
	return p, nil
}

func (s *Service) unpublish(ctx context.Context, id string) (models.SavedPage, error) {
	var slug string
	var wasPublished bool
	p, err := s.repo.Update(ctx, id, func(p *models.SavedPage) error {
		slug, wasPublished = p.Slug, p.Status == models.StatusPublished
		p.Status = models.StatusDraft
		p.PublishedAt = nil
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return models.SavedPage{}, err
	}
	s.log.Info(ctx, "page unpublished", "id", id)
	if wasPublished {
		s.removeSite(ctx, slug)
	}
	return p, nil
}

func (s *Service) slugTaken(ctx context.Context, slug, id string) (bool, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	for _, e := range entries {
		if e.Slug == slug && e.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) removeSite(ctx context.Context, slug string) {
	if s.site == nil || slug == "" {
		return
	}
	if err := s.site.Remove(ctx, slug); err != nil {
		s.log.Error(ctx, "site removal failed", "slug", slug, "error", err)
	}
}

package editor

import (
	"context"

	"github.com/dmitrijs2005/pagebuilder/internal/models"
)

// Server intents run the network call without holding the store lock, so
// local editing continues while a request is in flight. Two overlapping
// saves race and the last response to arrive sets the sync fields.

// SaveToServer creates the server record on first use, adopting its id,
// and updates it afterwards.
func (s *Store) SaveToServer(ctx context.Context) {
	if s.remote == nil {
		s.log.Warn(ctx, "save skipped: no server configured")
		return
	}

	s.mu.Lock()
	page := s.page.Clone()
	id := s.sync.ServerPageID
	s.sync.IsSaving = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sync.IsSaving = false
		s.mu.Unlock()
	}()

	var (
		saved models.SavedPage
		err   error
	)
	if id == "" {
		saved, err = s.remote.Create(ctx, models.InputFromPage(page))
	} else {
		saved, err = s.remote.Update(ctx, id, models.InputFromPage(page))
	}
	if err != nil {
		s.log.Error(ctx, "save to server failed", "page", page.ID, "server_id", id, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sync.ServerPageID = saved.ID
	s.sync.PageStatus = saved.Status
	s.sync.PageSlug = saved.Slug
	s.sync.LastServerSaveAt = &now
	s.log.Info(ctx, "saved to server", "server_id", saved.ID)
}

// PublishToServer saves the page (creating the record if needed) and then
// publishes it.
func (s *Store) PublishToServer(ctx context.Context) {
	if s.remote == nil {
		s.log.Warn(ctx, "publish skipped: no server configured")
		return
	}

	s.mu.Lock()
	page := s.page.Clone()
	id := s.sync.ServerPageID
	s.sync.IsPublishing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sync.IsPublishing = false
		s.mu.Unlock()
	}()

	if id == "" {
		created, err := s.remote.Create(ctx, models.InputFromPage(page))
		if err != nil {
			s.log.Error(ctx, "publish failed", "step", "create", "page", page.ID, "error", err)
			return
		}
		id = created.ID
		s.mu.Lock()
		s.sync.ServerPageID = id
		s.mu.Unlock()
	} else if _, err := s.remote.Update(ctx, id, models.InputFromPage(page)); err != nil {
		s.log.Error(ctx, "publish failed", "step", "save", "server_id", id, "error", err)
		return
	}

	published, err := s.remote.SetPublished(ctx, id, true)
	if err != nil {
		s.log.Error(ctx, "publish failed", "step", "publish", "server_id", id, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sync.PageStatus = models.StatusPublished
	s.sync.PageSlug = published.Slug
	s.sync.LastServerSaveAt = &now
	s.log.Info(ctx, "published", "server_id", id, "slug", published.Slug)
}

// UnpublishFromServer reverts the server record to draft. It does nothing
// for a page that was never saved to the server.
func (s *Store) UnpublishFromServer(ctx context.Context) {
	s.mu.Lock()
	id := s.sync.ServerPageID
	if id == "" || s.remote == nil {
		s.mu.Unlock()
		return
	}
	s.sync.IsPublishing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sync.IsPublishing = false
		s.mu.Unlock()
	}()

	if _, err := s.remote.SetPublished(ctx, id, false); err != nil {
		s.log.Error(ctx, "unpublish failed", "server_id", id, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync.PageStatus = models.StatusDraft
}

// LoadFromServer replaces the document and sync state with the server
// record id. History and selection are cleared and the result is written
// to the local slot.
func (s *Store) LoadFromServer(ctx context.Context, id string) {
	if s.remote == nil {
		s.log.Warn(ctx, "load skipped: no server configured", "server_id", id)
		return
	}

	saved, err := s.remote.Get(ctx, id)
	if err != nil {
		s.log.Error(ctx, "load from server failed", "server_id", id, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = saved.Page.Clone()
	if s.page.Components == nil {
		s.page.Components = []models.Block{}
	}
	updated := saved.UpdatedAt
	s.sync.ServerPageID = saved.ID
	s.sync.PageStatus = saved.Status
	s.sync.PageSlug = saved.Slug
	s.sync.LastServerSaveAt = &updated
	s.past = nil
	s.future = nil
	s.selected = ""
	s.savePage()
}

// ForgetServerPage detaches the session from its server record, for
// example after the record was deleted.
func (s *Store) ForgetServerPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync = SyncState{PageStatus: models.StatusDraft}
}

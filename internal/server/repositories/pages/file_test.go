package pages

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func savedPage(id, title string) models.SavedPage {
	return models.SavedPage{
		Page: models.Page{
			ID:    id,
			Title: title,
			Components: []models.Block{
				{ID: id + "-b1", Type: "divider", Props: map[string]any{"height": 40.0}, Visible: true},
			},
			GlobalStyles: models.DefaultGlobalStyles(),
			UpdatedAt:    t0,
		},
		Status:    models.StatusDraft,
		CreatedAt: t0,
	}
}

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data", "pages")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	return s, dir
}

func TestFileStore_CreateGetList(t *testing.T) {
	s, dir := newFileStore(t)
	ctx := context.Background()

	a, b := savedPage("a", "First"), savedPage("b", "Second")
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(a, got))

	index, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.IndexEntry{a.Entry(), b.Entry()}, index)

	raw, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"id\": \"a\""))

	raw, err = os.ReadFile(filepath.Join(dir, "index.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {\n    \"id\": \"a\""))
}

func TestFileStore_CreateSameIDReplaces(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, savedPage("a", "First")))
	require.NoError(t, s.Create(ctx, savedPage("b", "Second")))
	require.NoError(t, s.Create(ctx, savedPage("a", "Again")))

	index, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, index, 2)
	assert.Equal(t, "b", index[0].ID)
	assert.Equal(t, "Again", index[1].Title)
}

func TestFileStore_Missing(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Update(ctx, "nope", func(*models.SavedPage) error { return nil })
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "nope"), common.ErrNotFound)

	index, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, index)
	assert.NotNil(t, index)
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "..", "../x", `a\b`} {
		err := s.Create(ctx, savedPage(id, "x"))
		assert.ErrorIs(t, err, common.ErrInvalidInput, id)

		_, err = s.Get(ctx, id)
		assert.ErrorIs(t, err, common.ErrNotFound, id)
	}
}

func TestFileStore_UpdateRefreshesIndex(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, savedPage("a", "First")))

	published := t0.Add(time.Hour)
	got, err := s.Update(ctx, "a", func(p *models.SavedPage) error {
		p.ID = "hijack"
		p.Slug = "first"
		p.Status = models.StatusPublished
		p.PublishedAt = &published
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	bySlug, err := s.GetBySlug(ctx, "first")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(got, bySlug))

	index, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.IndexEntry{got.Entry()}, index)
}

func TestFileStore_UpdateErrorLeavesRecord(t *testing.T) {
	s, _ := newFileStore(t)
	ctx := context.Background()
	orig := savedPage("a", "First")
	require.NoError(t, s.Create(ctx, orig))

	boom := errors.New("boom")
	_, err := s.Update(ctx, "a", func(p *models.SavedPage) error {
		p.Title = "changed"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)
}

func TestFileStore_Delete(t *testing.T) {
	s, dir := newFileStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, savedPage("a", "First")))
	require.NoError(t, s.Create(ctx, savedPage("b", "Second")))

	require.NoError(t, s.Delete(ctx, "a"))

	_, err := os.Stat(filepath.Join(dir, "a.json"))
	assert.True(t, os.IsNotExist(err))

	index, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, index, 1)
	assert.Equal(t, "b", index[0].ID)
}

func TestFileStore_CorruptIndexReadsAsEmpty(t *testing.T) {
	s, dir := newFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{oops"), 0o644))

	index, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, index)
}

func TestFileStore_CorruptPage(t *testing.T) {
	s, dir := newFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.json"), []byte("{oops"), 0o644))

	_, err := s.Get(context.Background(), "x")
	require.ErrorContains(t, err, "decode page x")
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestFileStore_PageFileIsPlainJSON(t *testing.T) {
	s, dir := newFileStore(t)
	require.NoError(t, s.Create(context.Background(), savedPage("a", "First")))

	raw, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "draft", doc["status"])
	assert.Nil(t, doc["publishedAt"])
	assert.Equal(t, "", doc["slug"])
}

package proto

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestSavedPage_ThroughStruct(t *testing.T) {
	published := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	in := models.SavedPage{
		Page: models.Page{
			ID:    "p1",
			Title: "Home",
			Components: []models.Block{{
				ID:   "b1",
				Type: "footer",
				Props: map[string]any{
					"columns":     []any{map[string]any{"heading": "Links", "links": []any{}}},
					"socialLinks": map[string]any{"twitter": "#"},
					"height":      40.0,
					"sticky":      true,
				},
				Visible: true,
			}},
			GlobalStyles: models.DefaultGlobalStyles(),
			UpdatedAt:    published,
		},
		Slug:        "home",
		Status:      models.StatusPublished,
		PublishedAt: &published,
		CreatedAt:   published,
	}

	s, err := EncodeSavedPage(in)
	require.NoError(t, err)
	assert.Equal(t, "home", s.Fields["slug"].GetStringValue())

	out, err := DecodeSavedPage(s)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSavedPage_Errors(t *testing.T) {
	_, err := DecodeSavedPage(nil)
	require.Error(t, err)

	bad, err := structpb.NewStruct(map[string]any{"components": "nope"})
	require.NoError(t, err)
	_, err = DecodeSavedPage(bad)
	require.Error(t, err)
}

func TestIndex_ThroughList(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	entries := []models.IndexEntry{
		{ID: "a", Title: "A", Status: models.StatusDraft, CreatedAt: now, UpdatedAt: now},
		{ID: "b", Title: "B", Slug: "b", Status: models.StatusPublished, CreatedAt: now, UpdatedAt: now, PublishedAt: &now},
	}

	list, err := EncodeIndex(entries)
	require.NoError(t, err)
	require.Len(t, list.Values, 2)

	got, err := DecodeIndex(list)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(entries, got))

	empty, err := DecodeIndex(&structpb.ListValue{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRequests_ThroughStruct(t *testing.T) {
	title := "T"
	s, err := ToStruct(UpdateRequest{ID: "p1", Fields: models.PageInput{Title: &title}})
	require.NoError(t, err)

	var got UpdateRequest
	require.NoError(t, FromStruct(s, &got))
	assert.Equal(t, "p1", got.ID)
	require.NotNil(t, got.Fields.Title)
	assert.Equal(t, "T", *got.Fields.Title)
	assert.Nil(t, got.Fields.Components)

	s, err = ToStruct(PublishRequest{ID: "p1", Publish: true})
	require.NoError(t, err)
	var pub PublishRequest
	require.NoError(t, FromStruct(s, &pub))
	assert.Equal(t, PublishRequest{ID: "p1", Publish: true}, pub)
}

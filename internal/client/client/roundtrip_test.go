package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	grpcserver "github.com/dmitrijs2005/pagebuilder/internal/server/grpc"
	"github.com/dmitrijs2005/pagebuilder/internal/server/pages"
	store "github.com/dmitrijs2005/pagebuilder/internal/server/repositories/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T) *GRPCClient {
	t.Helper()
	repo, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc := pages.NewService(repo, nil, logging.NewNop())

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- grpcserver.NewGRPCServer("bufnet", logging.NewNop(), svc).Serve(ctx, lis) }()

	c, err := NewGRPCClient("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func TestRoundTrip_PageLifecycle(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	title := "My Page"
	blocks := []models.Block{
		{ID: "b1", Type: "section-heading", Props: map[string]any{"title": "Hi", "subtitle": ""}, Visible: true},
	}
	created, err := c.Create(ctx, models.PageInput{Title: &title, Components: &blocks})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, blocks, created.Components)

	desc := "landing"
	updated, err := c.Update(ctx, created.ID, models.PageInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "landing", updated.Description)
	assert.Equal(t, "My Page", updated.Title)

	published, err := c.SetPublished(ctx, created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "my-page", published.Slug)
	assert.Equal(t, models.StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "my-page", list[0].Slug)

	draft, err := c.SetPublished(ctx, created.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)

	require.NoError(t, c.Delete(ctx, created.ID))
	_, err = c.Get(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRoundTrip_UpdateMissing(t *testing.T) {
	c := startServer(t)

	_, err := c.Update(context.Background(), "missing", models.PageInput{})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = c.Update(context.Background(), "", models.PageInput{})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	err = c.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

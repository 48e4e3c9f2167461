package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/client/config"
	"github.com/dmitrijs2005/pagebuilder/internal/client/editor"
	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/dmitrijs2005/pagebuilder/internal/registry"
	"github.com/dmitrijs2005/pagebuilder/internal/renderer"
	"github.com/stretchr/testify/require"
)

// memRemote is an in-memory page server.
type memRemote struct {
	mu     sync.Mutex
	pages  map[string]models.SavedPage
	order  []string
	err    error
	closed bool
	clock  time.Time
}

func newMemRemote() *memRemote {
	return &memRemote{
		pages: map[string]models.SavedPage{},
		clock: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memRemote) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memRemote) Close() error { m.closed = true; return nil }

func (m *memRemote) List(context.Context) ([]models.IndexEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.IndexEntry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.pages[id].Entry())
	}
	return out, nil
}

func (m *memRemote) Get(_ context.Context, id string) (models.SavedPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.SavedPage{}, m.err
	}
	p, ok := m.pages[id]
	if !ok {
		return models.SavedPage{}, common.ErrNotFound
	}
	return p.Clone(), nil
}

func (m *memRemote) Create(_ context.Context, in models.PageInput) (models.SavedPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.SavedPage{}, m.err
	}
	id := fmt.Sprintf("srv-%d", len(m.order)+1)
	if in.ID != nil && *in.ID != "" {
		id = *in.ID
	}
	now := m.tick()
	p := models.SavedPage{Page: models.Page{ID: id, UpdatedAt: now}, Status: models.StatusDraft, CreatedAt: now}
	in.Apply(&p)
	m.pages[id] = p
	m.order = append(m.order, id)
	return p.Clone(), nil
}

func (m *memRemote) Update(_ context.Context, id string, in models.PageInput) (models.SavedPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.SavedPage{}, m.err
	}
	p, ok := m.pages[id]
	if !ok {
		return models.SavedPage{}, common.ErrNotFound
	}
	in.Apply(&p)
	p.UpdatedAt = m.tick()
	m.pages[id] = p
	return p.Clone(), nil
}

func (m *memRemote) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.pages[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.pages, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memRemote) SetPublished(_ context.Context, id string, publish bool) (models.SavedPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.SavedPage{}, m.err
	}
	p, ok := m.pages[id]
	if !ok {
		return models.SavedPage{}, common.ErrNotFound
	}
	p.UpdatedAt = m.tick()
	if publish {
		p.Status = models.StatusPublished
		p.Slug = "my-page"
		t := p.UpdatedAt
		p.PublishedAt = &t
	} else {
		p.Status = models.StatusDraft
	}
	m.pages[id] = p
	return p.Clone(), nil
}

func newTestApp(t *testing.T, input string) (*App, *memRemote, *bytes.Buffer) {
	t.Helper()

	reg, err := registry.Default()
	require.NoError(t, err)
	render, err := renderer.New(reg)
	require.NoError(t, err)

	remote := newMemRemote()
	out := &bytes.Buffer{}
	app := &App{
		config: &config.Config{},
		store:  editor.NewStore(reg, nil, remote, logging.NewNop()),
		remote: remote,
		render: render,
		logger: logging.NewNop(),
		reader: rdr(input),
		out:    out,
	}
	return app, remote, out
}

// run executes one REPL line against app.
func run(t *testing.T, a *App, line string) error {
	t.Helper()
	parts := strings.Fields(line)
	for _, c := range a.commands() {
		if c.name == parts[0] {
			return c.run(context.Background(), parts[1:])
		}
	}
	t.Fatalf("no command %q", parts[0])
	return nil
}

func mustRun(t *testing.T, a *App, lines ...string) {
	t.Helper()
	for _, l := range lines {
		require.NoError(t, run(t, a, l), l)
	}
}

func newStoreWithRemote(t *testing.T, remote *memRemote) *editor.Store {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	return editor.NewStore(reg, nil, remote, logging.NewNop())
}

package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/pagebuilder/internal/client/editor"
	"github.com/dmitrijs2005/pagebuilder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/pagebuilder/internal/client/snapshot"
	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_AddListRemove(t *testing.T) {
	a, _, out := newTestApp(t, "")

	mustRun(t, a, "blocks")
	assert.Contains(t, out.String(), "No blocks")

	mustRun(t, a, "add navbar", "add hero-slider", "add divider 1")
	err := run(t, a, "add navbar")
	assert.ErrorContains(t, err, "at most 1 per page")
	assert.ErrorContains(t, run(t, a, "add nope"), `unknown block type "nope"`)

	p := a.store.Page()
	require.Len(t, p.Components, 3)
	assert.Equal(t, []string{"navbar", "divider", "hero-slider"},
		[]string{p.Components[0].Type, p.Components[1].Type, p.Components[2].Type})

	out.Reset()
	mustRun(t, a, "blocks")
	assert.Contains(t, out.String(), "*  2  "+shortID(p.Components[1].ID))
	assert.Contains(t, out.String(), "Divider / Spacer")

	mustRun(t, a, "remove 1")
	p = a.store.Page()
	require.Len(t, p.Components, 2)
	assert.Equal(t, "divider", p.Components[0].Type)

	assert.True(t, errors.Is(run(t, a, "remove"), errUsage))
	assert.ErrorContains(t, run(t, a, "remove 7"), "no block at position 7")
}

func TestCommands_DupMoveToggleSelect(t *testing.T) {
	a, _, out := newTestApp(t, "")
	mustRun(t, a, "add divider", "add hero-slider", "dup 1")

	p := a.store.Page()
	require.Len(t, p.Components, 3)
	assert.Equal(t, "divider", p.Components[1].Type)
	assert.NotEqual(t, p.Components[0].ID, p.Components[1].ID)
	assert.Equal(t, p.Components[1].ID, a.store.State().SelectedBlockID)

	mustRun(t, a, "move 3 1")
	assert.Equal(t, "hero-slider", a.store.Page().Components[0].Type)
	assert.ErrorContains(t, run(t, a, "move 0 2"), "between 1 and 3")
	assert.True(t, errors.Is(run(t, a, "move a b"), errUsage))

	out.Reset()
	mustRun(t, a, "toggle 1")
	assert.Contains(t, out.String(), "is now hidden")
	assert.False(t, a.store.Page().Components[0].Visible)
	mustRun(t, a, "blocks")
	assert.Contains(t, out.String(), "(hidden)")

	mustRun(t, a, "select 1")
	assert.Equal(t, a.store.Page().Components[0].ID, a.store.State().SelectedBlockID)
	mustRun(t, a, "select")
	assert.Empty(t, a.store.State().SelectedBlockID)
	assert.ErrorContains(t, run(t, a, "toggle ."), "no block selected")
}

func TestCommands_SetCoercesByField(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	mustRun(t, a, "add navbar", "add divider")

	mustRun(t, a,
		"set 2 height 80",
		"set . style dashed",
		"set 1 sticky false",
		"set 1 navLinks.0.label Start  Here",
		`set 1 extra {"a":1}`,
	)

	p := a.store.Page()
	assert.Equal(t, 80.0, p.Components[1].Props["height"])
	assert.Equal(t, "dashed", p.Components[1].Props["style"])
	assert.Equal(t, false, p.Components[0].Props["sticky"])
	links := p.Components[0].Props["navLinks"].([]any)
	assert.Equal(t, "Start Here", links[0].(map[string]any)["label"])
	assert.Equal(t, map[string]any{"a": 1.0}, p.Components[0].Props["extra"])

	assert.ErrorContains(t, run(t, a, "set 2 height tall"), "expects a number")
	assert.ErrorContains(t, run(t, a, "set 1 navLinks.9.label x"), "invalid property path")
}

func TestCommands_Edit(t *testing.T) {
	a, _, _ := newTestApp(t, "Line one\nLine two\n\nignored\n")
	mustRun(t, a, "add navbar", "edit 1 logoText")
	assert.Equal(t, "Line one\nLine two", a.store.Page().Components[0].Props["logoText"])
}

func TestCommands_ListItems(t *testing.T) {
	a, _, out := newTestApp(t, "")
	mustRun(t, a, "add navbar", "additem 1 navLinks")

	links := a.store.Page().Components[0].Props["navLinks"].([]any)
	require.Len(t, links, 6)
	assert.Equal(t, map[string]any{"label": "", "url": ""}, links[5])
	assert.Contains(t, out.String(), "navLinks: item 6 added")

	mustRun(t, a, "rmitem 1 navLinks 1")
	links = a.store.Page().Components[0].Props["navLinks"].([]any)
	require.Len(t, links, 5)
	assert.Equal(t, "About", links[0].(map[string]any)["label"])

	assert.ErrorContains(t, run(t, a, "rmitem 1 navLinks 9"), "has no item 9")
	assert.ErrorContains(t, run(t, a, "additem 1 logoText"), `no list property "logoText"`)
}

func TestCommands_FieldsAndCheck(t *testing.T) {
	a, _, out := newTestApp(t, "")
	mustRun(t, a, "add navbar", "fields 1")

	s := out.String()
	assert.Contains(t, s, "logoText")
	assert.Contains(t, s, "navLinks.0")
	assert.Contains(t, s, "Home")
	assert.Contains(t, s, "Add Navigation Link")

	out.Reset()
	mustRun(t, a, "check")
	assert.Contains(t, out.String(), "no problems found")

	out.Reset()
	mustRun(t, a, "set 1 logoText", "check 1")
	assert.Contains(t, out.String(), "logoText: Logo Text is required")
}

func TestCommands_UndoRedo(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	mustRun(t, a, "add divider", "toggle 1")

	mustRun(t, a, "undo")
	assert.True(t, a.store.Page().Components[0].Visible)
	mustRun(t, a, "redo")
	assert.False(t, a.store.Page().Components[0].Visible)
	assert.ErrorContains(t, run(t, a, "redo"), "nothing to redo")

	mustRun(t, a, "undo", "undo")
	assert.Empty(t, a.store.Page().Components)
	assert.ErrorContains(t, run(t, a, "undo"), "nothing to undo")
}

func TestCommands_TitleAndStyle(t *testing.T) {
	a, _, _ := newTestApp(t, "")
	mustRun(t, a,
		"title My Landing Page",
		"style primary #FF0000",
		"style font Open Sans",
		"style size 18",
	)

	p := a.store.Page()
	assert.Equal(t, "My Landing Page", p.Title)
	assert.Equal(t, "#FF0000", p.GlobalStyles.PrimaryColor)
	assert.Equal(t, "Open Sans", p.GlobalStyles.FontFamily)
	assert.Equal(t, 18.0, p.GlobalStyles.BaseFontSize)
	assert.Equal(t, models.DefaultGlobalStyles().AccentColor, p.GlobalStyles.AccentColor)

	assert.ErrorContains(t, run(t, a, "style size -1"), "positive number")
	assert.True(t, errors.Is(run(t, a, "style border 1"), errUsage))
	assert.True(t, errors.Is(run(t, a, "title"), errUsage))
}

func TestCommands_ExportImportPreview(t *testing.T) {
	dir := t.TempDir()
	a, _, out := newTestApp(t, "")
	mustRun(t, a, "title Exported", "add hero-slider", "export "+filepath.Join(dir, "page.json"))
	assert.Contains(t, out.String(), "exported to")

	out.Reset()
	mustRun(t, a, "export")
	assert.Contains(t, out.String(), `"title": "Exported"`)

	b, _, _ := newTestApp(t, "")
	mustRun(t, b, "import "+filepath.Join(dir, "page.json"))
	assert.Equal(t, a.store.Page().ID, b.store.Page().ID)
	assert.Equal(t, "Exported", b.store.Page().Title)
	assert.True(t, b.store.CanUndo())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"title":"x"}`), 0o644))
	assert.ErrorContains(t, run(t, b, "import "+filepath.Join(dir, "bad.json")), "not a page document")
	assert.ErrorContains(t, run(t, b, "import "+filepath.Join(dir, "missing.json")), "read ")

	mustRun(t, a, "preview "+filepath.Join(dir, "out.html"))
	html, err := os.ReadFile(filepath.Join(dir, "out.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>Exported</title>")
	assert.Contains(t, string(html), `data-block-type="hero-slider"`)
}

func TestCommands_ServerLifecycle(t *testing.T) {
	a, remote, out := newTestApp(t, "n\ny\n")
	mustRun(t, a, "title My Page", "add navbar")

	mustRun(t, a, "save")
	id := a.store.Page().ID
	assert.Contains(t, out.String(), "saved as "+id+" (draft)")
	assert.Contains(t, a.prompt(), "(My Page draft)")

	mustRun(t, a, "publish")
	assert.Contains(t, out.String(), "published at /site/my-page")
	assert.Equal(t, models.StatusPublished, remote.pages[id].Status)

	out.Reset()
	mustRun(t, a, "status")
	assert.Contains(t, out.String(), "site      /site/my-page")

	mustRun(t, a, "unpublish")
	assert.Equal(t, models.StatusDraft, remote.pages[id].Status)

	out.Reset()
	mustRun(t, a, "pages")
	assert.Contains(t, out.String(), id)
	assert.Contains(t, out.String(), "my-page")

	mustRun(t, a, "delete "+id)
	assert.Contains(t, out.String(), "cancelled")
	assert.Contains(t, remote.pages, id)

	mustRun(t, a, "delete "+id)
	assert.NotContains(t, remote.pages, id)
	assert.Empty(t, a.store.State().Sync.ServerPageID)
	assert.ErrorContains(t, run(t, a, "unpublish"), "never saved")
}

func TestCommands_DeleteOpenPageDropsLocalCopy(t *testing.T) {
	a, remote, _ := newTestApp(t, "y\ny\n")

	db, err := snapshot.Open(context.Background(), filepath.Join(t.TempDir(), "editor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	slot := snapshot.New(metadata.NewSQLiteRepository(db))
	a.store = editor.NewStore(a.store.Registry(), slot, remote, logging.NewNop())

	mustRun(t, a, "title Doomed", "save", "title Other")
	_, ok, err := slot.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	other, err := remote.Create(context.Background(), models.PageInput{})
	require.NoError(t, err)
	mustRun(t, a, "delete "+other.ID)
	_, ok, err = slot.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "deleting another page keeps the local copy")

	mustRun(t, a, "delete "+a.store.State().Sync.ServerPageID)
	_, ok, err = slot.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Other", a.store.Page().Title)
}

func TestCommands_OpenFromServer(t *testing.T) {
	a, remote, _ := newTestApp(t, "")
	mustRun(t, a, "title Remote", "add divider", "save")
	id := a.store.Page().ID

	b, _, out := newTestApp(t, "")
	b.remote = remote
	b.store = newStoreWithRemote(t, remote)
	mustRun(t, b, "open "+id)
	assert.Contains(t, out.String(), `opened "Remote"`)
	assert.Len(t, b.store.Page().Components, 1)

	assert.ErrorContains(t, run(t, b, "open nope"), "could not open page nope")
}

func TestCommands_ServerFailures(t *testing.T) {
	a, remote, out := newTestApp(t, "")
	remote.err = errors.New("connection refused")

	assert.ErrorContains(t, run(t, a, "save"), "save failed")
	assert.ErrorContains(t, run(t, a, "publish"), "publish failed")
	assert.ErrorContains(t, run(t, a, "pages"), "connection refused")

	remote.err = nil
	mustRun(t, a, "save")
	remote.err = errors.New("timeout")
	assert.ErrorContains(t, run(t, a, "save"), "save failed")
	assert.Contains(t, out.String(), "saved as")

	remote.err = nil
	out.Reset()
	a.remote = newMemRemote()
	mustRun(t, a, "pages")
	assert.Contains(t, out.String(), "No pages on the server.")
}

func TestCommands_NewPageAndPalette(t *testing.T) {
	a, _, out := newTestApp(t, "")
	mustRun(t, a, "add divider", "save", "new")

	st := a.store.State()
	assert.Len(t, st.Page.Components, len(models.DefaultPageTypes))
	assert.Empty(t, st.Sync.ServerPageID)
	assert.Equal(t, models.DefaultTitle, st.Page.Title)

	out.Reset()
	mustRun(t, a, "palette")
	assert.Contains(t, out.String(), "Navbar  [1/1]")
	assert.Contains(t, out.String(), "divider")
}

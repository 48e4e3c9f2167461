// Package editor holds the Editing Store: the in-memory state of the page
// being edited, its bounded undo/redo history and its sync state against the
// page server.
//
// All document changes go through the Store's intent methods. Each
// structural intent snapshots the pre-mutation page onto the undo stack,
// mutates, then writes the crash-recovery slot. Intents never return
// errors: inapplicable requests are no-ops, snapshot failures are logged and
// swallowed, and server-sync failures are logged without rolling back local
// state.
package editor

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/dmitrijs2005/pagebuilder/internal/registry"
	"github.com/dmitrijs2005/pagebuilder/internal/schema"
	"github.com/google/uuid"
)

// HistoryLimit caps both the undo and the redo stack.
const HistoryLimit = 50

// Snapshotter is the crash-recovery slot.
type Snapshotter interface {
	Save(ctx context.Context, p models.Page) error
	Load(ctx context.Context) (models.Page, bool, error)
}

// Remote is the part of the page API the store syncs through.
type Remote interface {
	Get(ctx context.Context, id string) (models.SavedPage, error)
	Create(ctx context.Context, in models.PageInput) (models.SavedPage, error)
	Update(ctx context.Context, id string, in models.PageInput) (models.SavedPage, error)
	SetPublished(ctx context.Context, id string, publish bool) (models.SavedPage, error)
}

// SyncState describes the page's relation to its server record.
type SyncState struct {
	ServerPageID     string
	PageSlug         string
	PageStatus       models.Status
	IsSaving         bool
	IsPublishing     bool
	LastServerSaveAt *time.Time
}

// State is a read-only copy of the store.
type State struct {
	Page            models.Page
	SelectedBlockID string
	HoveredBlockID  string
	CanUndo         bool
	CanRedo         bool
	UndoDepth       int
	RedoDepth       int
	Sync            SyncState
}

// Store is the single source of truth for one editor session.
type Store struct {
	mu sync.Mutex

	reg    *registry.Registry
	snap   Snapshotter
	remote Remote
	log    logging.Logger

	now   func() time.Time
	newID func() string

	page     models.Page
	selected string
	hovered  string
	past     []models.Page
	future   []models.Page
	sync     SyncState
}

// NewStore starts with an empty page. snap and remote may be nil, which
// disables local snapshots and server sync respectively.
func NewStore(reg *registry.Registry, snap Snapshotter, remote Remote, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNop()
	}
	s := &Store{
		reg:    reg,
		snap:   snap,
		remote: remote,
		log:    log.With("module", "editor"),
		now:    time.Now,
		newID:  uuid.NewString,
		sync:   SyncState{PageStatus: models.StatusDraft},
	}
	s.page = models.NewEmptyPage(s.newID(), s.now())
	return s
}

// Registry returns the catalog the store was built with.
func (s *Store) Registry() *registry.Registry {
	return s.reg
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Page:            s.page.Clone(),
		SelectedBlockID: s.selected,
		HoveredBlockID:  s.hovered,
		CanUndo:         len(s.past) > 0,
		CanRedo:         len(s.future) > 0,
		UndoDepth:       len(s.past),
		RedoDepth:       len(s.future),
		Sync:            s.sync,
	}
	if s.sync.LastServerSaveAt != nil {
		t := *s.sync.LastServerSaveAt
		st.Sync.LastServerSaveAt = &t
	}
	return st
}

// Page returns a deep copy of the current document.
func (s *Store) Page() models.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page.Clone()
}

// Block returns a copy of the block with the given id.
func (s *Store) Block(id string) (models.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.page.IndexOf(id)
	if i < 0 {
		return models.Block{}, false
	}
	return s.page.Components[i].Clone(), true
}

func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.past) > 0
}

func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.future) > 0
}

// pushHistory records the current page before a structural change and
// invalidates redo.
func (s *Store) pushHistory() {
	s.past = append(s.past, s.page.Clone())
	if len(s.past) > HistoryLimit {
		s.past = append([]models.Page(nil), s.past[len(s.past)-HistoryLimit:]...)
	}
	s.future = nil
}

func (s *Store) touch() {
	s.page.UpdatedAt = s.now()
}

// AddBlock appends a new block seeded from the registry defaults, or inserts
// it right after afterID when that is given. An afterID that is not on the
// page inserts at the top. Unknown types and types at their maxInstances
// limit are ignored. The new block becomes the selection; its id is
// returned, or "" when nothing was added.
func (s *Store) AddBlock(typ, afterID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.reg.Get(typ)
	if !ok {
		return ""
	}
	if limit := def.MaxInstances(); limit > 0 && s.page.CountType(typ) >= limit {
		return ""
	}

	block := models.NewBlock(def, s.newID())

	s.pushHistory()
	at := len(s.page.Components)
	if afterID != "" {
		at = s.page.IndexOf(afterID) + 1
	}
	s.page.Components = insertAt(s.page.Components, at, block)
	s.selected = block.ID
	s.touch()
	s.savePage()
	return block.ID
}

// RemoveBlock deletes a block, clearing the selection if it pointed at it.
func (s *Store) RemoveBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.page.IndexOf(id)
	if i < 0 {
		return
	}

	s.pushHistory()
	s.page.Components = append(s.page.Components[:i:i], s.page.Components[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.touch()
	s.savePage()
}

// DuplicateBlock inserts a deep copy with a fresh id right after the source
// and selects it. It returns the copy's id, or "" when id is unknown.
func (s *Store) DuplicateBlock(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.page.IndexOf(id)
	if i < 0 {
		return ""
	}

	s.pushHistory()
	dup := s.page.Components[i].Clone()
	dup.ID = s.newID()
	s.page.Components = insertAt(s.page.Components, i+1, dup)
	s.selected = dup.ID
	s.touch()
	s.savePage()
	return dup.ID
}

// MoveBlock moves the block at from to index to. Out-of-range indexes are
// ignored.
func (s *Store) MoveBlock(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.page.Components)
	if from < 0 || from >= n || to < 0 || to >= n {
		return
	}

	s.pushHistory()
	moved := s.page.Components[from]
	rest := append(s.page.Components[:from:from], s.page.Components[from+1:]...)
	s.page.Components = insertAt(rest, to, moved)
	s.touch()
	s.savePage()
}

// UpdateBlockProps shallow-merges props into the block's props. Keys not in
// props are left as they are.
func (s *Store) UpdateBlockProps(id string, props map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateBlockProps(id, props)
}

// updateBlockProps requires s.mu.
func (s *Store) updateBlockProps(id string, props map[string]any) {
	i := s.page.IndexOf(id)
	if i < 0 {
		return
	}

	s.pushHistory()
	b := &s.page.Components[i]
	if b.Props == nil {
		b.Props = make(map[string]any, len(props))
	}
	for k, v := range props {
		b.Props[k] = schema.Clone(v)
	}
	s.touch()
	s.savePage()
}

// SetBlockPath writes v at a dotted path inside a block's props, such as
// "columns.0.links.1.label". Only the top-level prop on the path changes;
// it is committed as one props update. An invalid path changes nothing and
// is reported.
func (s *Store) SetBlockPath(id, path string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.page.IndexOf(id)
	if i < 0 {
		return nil
	}
	next, err := schema.SetPath(s.page.Components[i].Props, path, v)
	if err != nil {
		return err
	}
	top, _, _ := strings.Cut(path, ".")
	s.updateBlockProps(id, map[string]any{top: next[top]})
	return nil
}

// ToggleBlockVisibility flips a block's visible flag.
func (s *Store) ToggleBlockVisibility(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.page.IndexOf(id)
	if i < 0 {
		return
	}

	s.pushHistory()
	s.page.Components[i].Visible = !s.page.Components[i].Visible
	s.touch()
	s.savePage()
}

// SelectBlock sets the selection; "" clears it. Selection is not part of
// history.
func (s *Store) SelectBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

func (s *Store) SetHoveredBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered = id
}

// UpdateGlobalStyles shallow-merges patch into the page styles. An empty
// patch is ignored and leaves no history entry.
func (s *Store) UpdateGlobalStyles(patch models.GlobalStylesPatch) {
	if patch.IsEmpty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushHistory()
	s.page.GlobalStyles = patch.Apply(s.page.GlobalStyles)
	s.touch()
	s.savePage()
}

// UpdateTitle renames the page. Titles are not undoable.
func (s *Store) UpdateTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page.Title = title
	s.touch()
	s.savePage()
}

// Undo restores the previous document. The selection is cleared.
func (s *Store) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.past) == 0 {
		return
	}
	last := len(s.past) - 1
	previous := s.past[last]
	s.past = s.past[:last]

	s.future = append([]models.Page{s.page.Clone()}, s.future...)
	if len(s.future) > HistoryLimit {
		s.future = s.future[:HistoryLimit]
	}
	s.page = previous
	s.selected = ""
	s.savePage()
}

// Redo reapplies the most recently undone document. The selection is
// cleared.
func (s *Store) Redo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.future) == 0 {
		return
	}
	next := s.future[0]
	s.future = s.future[1:]

	s.past = append(s.past, s.page.Clone())
	if len(s.past) > HistoryLimit {
		s.past = append([]models.Page(nil), s.past[len(s.past)-HistoryLimit:]...)
	}
	s.page = next
	s.selected = ""
	s.savePage()
}

// SavePage writes the current document to the crash-recovery slot.
func (s *Store) SavePage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePage()
}

func (s *Store) savePage() {
	if s.snap == nil {
		return
	}
	if err := s.snap.Save(context.Background(), s.page); err != nil {
		s.log.Warn(context.Background(), "local snapshot failed", "page", s.page.ID, "error", err)
	}
}

// DiscardSnapshot empties the crash-recovery slot so a restart does not
// resume the current document. The next edit writes it again.
func (s *Store) DiscardSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.snap.(interface{ Clear(context.Context) error })
	if !ok {
		return
	}
	if err := c.Clear(context.Background()); err != nil {
		s.log.Warn(context.Background(), "local snapshot clear failed", "page", s.page.ID, "error", err)
	}
}

// LoadPage replaces the document with the crash-recovery slot, clearing
// history. It reports whether a snapshot was found.
func (s *Store) LoadPage() bool {
	if s.snap == nil {
		return false
	}
	ctx := context.Background()
	p, ok, err := s.snap.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "local snapshot unreadable", "error", err)
		return false
	}
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
	s.past = nil
	s.future = nil
	return true
}

// SetPage replaces the document. The replacement is undoable.
func (s *Store) SetPage(p models.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(p.Clone())
}

func (s *Store) replace(p models.Page) {
	if p.Components == nil {
		p.Components = []models.Block{}
	}
	s.pushHistory()
	s.page = p
	s.selected = ""
	s.savePage()
}

// ImportJSON replaces the document with a decoded one, keeping its ids.
// Input that is not a page document is ignored; the result reports whether
// the import happened.
func (s *Store) ImportJSON(data []byte) bool {
	var p models.Page
	if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(p)
	return true
}

// ExportJSON returns the document as indented JSON.
func (s *Store) ExportJSON() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.page, "", "  ")
	if err != nil {
		s.log.Error(context.Background(), "export failed", "error", err)
		return nil
	}
	return data
}

// Start picks the session's initial document: the server page pageID when
// given, else the local snapshot, else a fresh starter page.
func (s *Store) Start(ctx context.Context, pageID string) {
	if pageID != "" {
		s.LoadFromServer(ctx, pageID)
		return
	}
	if s.LoadPage() {
		return
	}
	s.SetPage(models.NewDefaultPage(s.reg, s.newID, s.now()))
}

func insertAt(blocks []models.Block, i int, b models.Block) []models.Block {
	out := make([]models.Block, 0, len(blocks)+1)
	out = append(out, blocks[:i]...)
	out = append(out, b)
	return append(out, blocks[i:]...)
}

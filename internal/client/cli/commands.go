package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/pagebuilder/internal/filex"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/dmitrijs2005/pagebuilder/internal/schema"
	"github.com/google/uuid"
)

func (a *App) commands() []command {
	return []command{
		{"blocks", "", "list the page's blocks", a.blocks},
		{"palette", "", "list the block types that can be added", a.palette},
		{"add", "<type> [after]", "add a block at the end or after another", a.add},
		{"remove", "<block>", "remove a block", a.remove},
		{"dup", "<block>", "duplicate a block", a.duplicate},
		{"move", "<from> <to>", "move a block between positions", a.move},
		{"toggle", "<block>", "show or hide a block", a.toggle},
		{"select", "[block]", "select a block, or clear the selection", a.selectBlock},
		{"fields", "<block>", "show a block's property form", a.fields},
		{"set", "<block> <path> <value>", "set a block property", a.set},
		{"edit", "<block> <path>", "set a block property from multi-line input", a.edit},
		{"additem", "<block> <path>", "append an element to a list property", a.addItem},
		{"rmitem", "<block> <path> <index>", "remove a list element (1-based)", a.removeItem},
		{"check", "[block]", "validate block properties", a.check},
		{"title", "<text>", "rename the page", a.title},
		{"style", "<primary|secondary|accent|font|size> <value>", "change a global style", a.style},
		{"undo", "", "undo the last change", a.undo},
		{"redo", "", "redo the last undone change", a.redo},
		{"new", "", "start a fresh starter page", a.newPage},
		{"export", "[file]", "write the page as JSON", a.export},
		{"import", "<file>", "replace the page with a JSON document", a.importPage},
		{"preview", "[file]", "render the page to an HTML file", a.preview},
		{"save", "", "save the page to the server", a.save},
		{"publish", "", "save and publish the page", a.publish},
		{"unpublish", "", "revert the server page to draft", a.unpublish},
		{"open", "<page id>", "load a page from the server", a.open},
		{"pages", "", "list server pages", a.pages},
		{"delete", "<page id>", "delete a server page", a.deletePage},
		{"status", "", "show page and sync state", a.showStatus},
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) block(ref string) (models.Block, error) {
	st := a.store.State()
	return resolveBlock(st.Page, st.SelectedBlockID, ref)
}

func (a *App) blocks(_ context.Context, _ []string) error {
	st := a.store.State()
	if len(st.Page.Components) == 0 {
		a.printf("No blocks. Use 'palette' and 'add <type>'.\n")
		return nil
	}
	for i, b := range st.Page.Components {
		mark := " "
		if b.ID == st.SelectedBlockID {
			mark = "*"
		}
		label := b.Type
		if def, ok := a.store.Registry().Get(b.Type); ok {
			label = def.Label
		}
		hidden := ""
		if !b.Visible {
			hidden = "  (hidden)"
		}
		a.printf("%s %2d  %-8s  %-14s %s%s\n", mark, i+1, shortID(b.ID), b.Type, label, hidden)
	}
	return nil
}

func (a *App) palette(_ context.Context, _ []string) error {
	reg := a.store.Registry()
	page := a.store.Page()
	for _, g := range reg.Sidebar() {
		a.printf("%s\n", g.Label)
		for _, typ := range g.Types {
			def, ok := reg.Get(typ)
			if !ok {
				continue
			}
			limit := ""
			if n := def.MaxInstances(); n > 0 {
				limit = fmt.Sprintf("  [%d/%d]", page.CountType(typ), n)
			}
			a.printf("  %-14s %s%s\n", def.Type, def.Label, limit)
		}
	}
	return nil
}

func (a *App) add(_ context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("add <type> [after]")
	}
	typ := args[0]
	def, ok := a.store.Registry().Get(typ)
	if !ok {
		return fmt.Errorf("unknown block type %q", typ)
	}

	after := ""
	if len(args) == 2 {
		b, err := a.block(args[1])
		if err != nil {
			return err
		}
		after = b.ID
	}

	id := a.store.AddBlock(typ, after)
	if id == "" {
		return fmt.Errorf("%s allows at most %d per page", def.Label, def.MaxInstances())
	}
	a.printf("added %s %s\n", typ, shortID(id))
	return nil
}

func (a *App) remove(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <block>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	a.store.RemoveBlock(b.ID)
	a.printf("removed %s %s\n", b.Type, shortID(b.ID))
	return nil
}

func (a *App) duplicate(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("dup <block>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	id := a.store.DuplicateBlock(b.ID)
	a.printf("duplicated %s as %s\n", shortID(b.ID), shortID(id))
	return nil
}

func (a *App) move(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usage("move <from> <to>")
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return usage("move <from> <to>")
	}
	n := len(a.store.Page().Components)
	if from < 1 || from > n || to < 1 || to > n {
		return fmt.Errorf("positions must be between 1 and %d", n)
	}
	a.store.MoveBlock(from-1, to-1)
	return nil
}

func (a *App) toggle(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("toggle <block>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	a.store.ToggleBlockVisibility(b.ID)
	state := "hidden"
	if !b.Visible {
		state = "visible"
	}
	a.printf("%s %s is now %s\n", b.Type, shortID(b.ID), state)
	return nil
}

func (a *App) selectBlock(_ context.Context, args []string) error {
	if len(args) == 0 {
		a.store.SelectBlock("")
		return nil
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	a.store.SelectBlock(b.ID)
	return nil
}

func (a *App) fields(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("fields <block>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	def, ok := a.store.Registry().Get(b.Type)
	if !ok {
		return fmt.Errorf("block type %q is not in the catalog", b.Type)
	}
	a.printf("%s %s\n", def.Label, shortID(b.ID))
	a.printNodes(schema.Build(def.Fields, b.Props), 1)
	return nil
}

func (a *App) printNodes(nodes []schema.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch n.Editor {
		case schema.EditorArray, schema.EditorList:
			a.printf("%s%-28s %s (%s)\n", indent, n.Path, n.Label, schema.AddLabel(n.Field))
		case schema.EditorGroup:
			heading := n.Label
			if n.Title != "" {
				heading = n.Title
			}
			a.printf("%s%-28s %s\n", indent, n.Path, heading)
		default:
			a.printf("%s%-28s %s [%s] %s\n", indent, n.Path, n.Label, n.Editor, describe(n.Value))
		}
		a.printNodes(n.Children, depth+1)
	}
}

func (a *App) setValue(b models.Block, path, raw string) error {
	var fields []schema.Field
	if def, ok := a.store.Registry().Get(b.Type); ok {
		fields = def.Fields
	}
	f, known := fieldAt(fields, path)
	v, err := coerce(f, known, raw)
	if err != nil {
		return err
	}
	return a.store.SetBlockPath(b.ID, path, v)
}

func (a *App) set(_ context.Context, args []string) error {
	if len(args) < 2 {
		return usage("set <block> <path> <value>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	return a.setValue(b, args[1], strings.Join(args[2:], " "))
}

func (a *App) edit(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usage("edit <block> <path>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	raw, err := GetMultiline(a.reader, "Enter the new value of "+args[1], a.out)
	if err != nil {
		return err
	}
	return a.setValue(b, args[1], raw)
}

func (a *App) listField(b models.Block, path string) (schema.Field, any, error) {
	def, ok := a.store.Registry().Get(b.Type)
	if !ok {
		return schema.Field{}, nil, fmt.Errorf("block type %q is not in the catalog", b.Type)
	}
	f, ok := fieldAt(def.Fields, path)
	if !ok || f.Type != schema.TypeArray {
		return schema.Field{}, nil, fmt.Errorf("%s has no list property %q", def.Label, path)
	}
	v, _ := schema.GetPath(b.Props, path)
	return f, v, nil
}

func (a *App) addItem(_ context.Context, args []string) error {
	if len(args) != 2 {
		return usage("additem <block> <path>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	f, v, err := a.listField(b, args[1])
	if err != nil {
		return err
	}
	items := schema.AddItem(f, v)
	if err := a.store.SetBlockPath(b.ID, args[1], items); err != nil {
		return err
	}
	a.printf("%s: item %d added\n", args[1], len(items))
	return nil
}

func (a *App) removeItem(_ context.Context, args []string) error {
	if len(args) != 3 {
		return usage("rmitem <block> <path> <index>")
	}
	b, err := a.block(args[0])
	if err != nil {
		return err
	}
	f, v, err := a.listField(b, args[1])
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(args[2])
	if err != nil || i < 1 || i > len(schema.Items(v)) {
		return fmt.Errorf("%s has no item %s", f.Name, args[2])
	}
	return a.store.SetBlockPath(b.ID, args[1], schema.RemoveItem(v, i-1))
}

func (a *App) check(_ context.Context, args []string) error {
	page := a.store.Page()
	targets := page.Components
	if len(args) == 1 {
		b, err := a.block(args[0])
		if err != nil {
			return err
		}
		targets = []models.Block{b}
	}

	problems := 0
	for _, b := range targets {
		def, ok := a.store.Registry().Get(b.Type)
		if !ok {
			a.printf("%s %s: unknown block type\n", shortID(b.ID), b.Type)
			problems++
			continue
		}
		for _, v := range schema.Validate(def.Fields, b.Props) {
			a.printf("%s %s: %s\n", shortID(b.ID), b.Type, v)
			problems++
		}
	}
	if problems == 0 {
		a.printf("no problems found\n")
	}
	return nil
}

func (a *App) title(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usage("title <text>")
	}
	a.store.UpdateTitle(strings.Join(args, " "))
	return nil
}

func (a *App) style(_ context.Context, args []string) error {
	const u = "style <primary|secondary|accent|font|size> <value>"
	if len(args) < 2 {
		return usage(u)
	}
	value := strings.Join(args[1:], " ")

	var patch models.GlobalStylesPatch
	switch args[0] {
	case "primary":
		patch.PrimaryColor = &value
	case "secondary":
		patch.SecondaryColor = &value
	case "accent":
		patch.AccentColor = &value
	case "font":
		patch.FontFamily = &value
	case "size":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("size expects a positive number, got %q", value)
		}
		patch.BaseFontSize = &n
	default:
		return usage(u)
	}
	a.store.UpdateGlobalStyles(patch)
	return nil
}

func (a *App) undo(_ context.Context, _ []string) error {
	if !a.store.CanUndo() {
		return errors.New("nothing to undo")
	}
	a.store.Undo()
	return nil
}

func (a *App) redo(_ context.Context, _ []string) error {
	if !a.store.CanRedo() {
		return errors.New("nothing to redo")
	}
	a.store.Redo()
	return nil
}

func (a *App) newPage(_ context.Context, _ []string) error {
	a.store.SetPage(models.NewDefaultPage(a.store.Registry(), uuid.NewString, now()))
	a.store.ForgetServerPage()
	return nil
}

func (a *App) export(_ context.Context, args []string) error {
	data := a.store.ExportJSON()
	if data == nil {
		return errors.New("export failed")
	}
	if len(args) == 0 {
		a.printf("%s\n", data)
		return nil
	}
	if err := filex.WriteFileAtomic(args[0], append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	a.printf("exported to %s\n", args[0])
	return nil
}

func (a *App) importPage(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("import <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	if !a.store.ImportJSON(data) {
		return fmt.Errorf("%s is not a page document", args[0])
	}
	a.printf("imported %q\n", a.store.Page().Title)
	return nil
}

func (a *App) preview(_ context.Context, args []string) error {
	path := "preview.html"
	if len(args) > 0 {
		path = args[0]
	}
	var buf bytes.Buffer
	if err := a.render.Render(&buf, a.store.Page()); err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	if err := filex.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.printf("preview written to %s\n", path)
	return nil
}

// The store logs server failures itself; these commands compare sync state
// before and after to report the outcome.

func (a *App) save(ctx context.Context, _ []string) error {
	before := a.store.State().Sync.LastServerSaveAt
	a.store.SaveToServer(ctx)
	st := a.store.State().Sync
	if st.LastServerSaveAt == nil || (before != nil && st.LastServerSaveAt.Equal(*before)) {
		return errors.New("save failed")
	}
	a.printf("saved as %s (%s)\n", st.ServerPageID, st.PageStatus)
	return nil
}

func (a *App) publish(ctx context.Context, _ []string) error {
	before := a.store.State().Sync.LastServerSaveAt
	a.store.PublishToServer(ctx)
	st := a.store.State().Sync
	if st.LastServerSaveAt == nil || (before != nil && st.LastServerSaveAt.Equal(*before)) {
		return errors.New("publish failed")
	}
	a.printf("published at /site/%s\n", st.PageSlug)
	return nil
}

func (a *App) unpublish(ctx context.Context, _ []string) error {
	if a.store.State().Sync.ServerPageID == "" {
		return errors.New("page was never saved to the server")
	}
	a.store.UnpublishFromServer(ctx)
	if a.store.State().Sync.PageStatus != models.StatusDraft {
		return errors.New("unpublish failed")
	}
	a.printf("page is now a draft\n")
	return nil
}

func (a *App) open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("open <page id>")
	}
	a.store.LoadFromServer(ctx, args[0])
	if a.store.State().Sync.ServerPageID != args[0] {
		return fmt.Errorf("could not open page %s", args[0])
	}
	a.printf("opened %q\n", a.store.Page().Title)
	return nil
}

func (a *App) pages(ctx context.Context, _ []string) error {
	entries, err := a.remote.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.printf("No pages on the server.\n")
		return nil
	}
	for _, e := range entries {
		slug := e.Slug
		if slug == "" {
			slug = "-"
		}
		a.printf("%-36s  %-9s  %-20s  %s\n", e.ID, e.Status, slug, e.Title)
	}
	return nil
}

func (a *App) deletePage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <page id>")
	}
	id := args[0]
	if !confirm(a.reader, fmt.Sprintf("Delete page %s from the server?", id), a.out) {
		a.printf("cancelled\n")
		return nil
	}
	if err := a.remote.Delete(ctx, id); err != nil {
		return err
	}
	if a.store.State().Sync.ServerPageID == id {
		a.store.ForgetServerPage()
		a.store.DiscardSnapshot()
	}
	a.printf("deleted %s\n", id)
	return nil
}

func (a *App) showStatus(_ context.Context, _ []string) error {
	st := a.store.State()
	a.printf("page      %s %q\n", st.Page.ID, st.Page.Title)
	a.printf("blocks    %d (%d visible)\n", len(st.Page.Components), len(st.Page.VisibleBlocks()))
	a.printf("history   %d undo, %d redo\n", st.UndoDepth, st.RedoDepth)
	if st.SelectedBlockID != "" {
		a.printf("selected  %s\n", st.SelectedBlockID)
	}
	if st.Sync.ServerPageID == "" {
		a.printf("server    not saved\n")
		return nil
	}
	a.printf("server    %s (%s)\n", st.Sync.ServerPageID, st.Sync.PageStatus)
	if st.Sync.PageSlug != "" {
		a.printf("site      /site/%s\n", st.Sync.PageSlug)
	}
	if st.Sync.LastServerSaveAt != nil {
		a.printf("saved at  %s\n", st.Sync.LastServerSaveAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

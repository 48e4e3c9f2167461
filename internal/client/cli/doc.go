// Package cli provides the interactive page editor.
//
// It wires configuration, the local crash-recovery store, the page server
// client and an editing Store, then runs a line-oriented REPL over them.
// Every command maps onto one Store intent or one server call:
//
//   - Blocks: blocks, palette, add, remove, dup, move, toggle, select
//   - Properties: fields, set, edit, additem, rmitem, check
//   - Page: title, style, undo, redo, new, export, import, preview
//   - Server: save, publish, unpublish, open, pages, delete, status
//
// Blocks are addressed by their 1-based position in the "blocks" listing,
// by id or unique id prefix, or by "." for the current selection.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

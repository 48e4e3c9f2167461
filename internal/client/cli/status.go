package cli

import (
	"fmt"
	"time"
)

// now is a test seam for the wall clock.
var now = time.Now

// prompt shows the page title and its server status, e.g.
// "pb (Landing published) > ".
func (a *App) prompt() string {
	st := a.store.State()

	s := st.Page.Title
	if st.Sync.ServerPageID != "" {
		s = s + " " + string(st.Sync.PageStatus)
	}
	switch {
	case st.Sync.IsPublishing:
		s += " publishing..."
	case st.Sync.IsSaving:
		s += " saving..."
	}
	if s != "" {
		s = fmt.Sprintf("(%s) ", s)
	}
	return "pb " + s + "> "
}

// Package models defines the page document shared by the editor, the
// server and the renderer.
package models

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/schema"
)

// Status is the publication state of a saved page.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Block is one placed, configured component instance.
type Block struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Props   map[string]any `json:"props"`
	Visible bool           `json:"visible"`
}

// MarshalJSON writes nil props as an empty record.
func (b Block) MarshalJSON() ([]byte, error) {
	type plain Block
	if b.Props == nil {
		b.Props = map[string]any{}
	}
	return json.Marshal(plain(b))
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	b.Props = schema.CloneProps(b.Props)
	return b
}

// GlobalStyles are the page-wide theme values.
type GlobalStyles struct {
	PrimaryColor   string  `json:"primaryColor"`
	SecondaryColor string  `json:"secondaryColor"`
	AccentColor    string  `json:"accentColor"`
	FontFamily     string  `json:"fontFamily"`
	BaseFontSize   float64 `json:"baseFontSize"`
}

// GlobalStylesPatch is a partial update; nil fields are left untouched.
type GlobalStylesPatch struct {
	PrimaryColor   *string  `json:"primaryColor,omitempty"`
	SecondaryColor *string  `json:"secondaryColor,omitempty"`
	AccentColor    *string  `json:"accentColor,omitempty"`
	FontFamily     *string  `json:"fontFamily,omitempty"`
	BaseFontSize   *float64 `json:"baseFontSize,omitempty"`
}

// Apply shallow-merges the patch into s.
func (p GlobalStylesPatch) Apply(s GlobalStyles) GlobalStyles {
	if p.PrimaryColor != nil {
		s.PrimaryColor = *p.PrimaryColor
	}
	if p.SecondaryColor != nil {
		s.SecondaryColor = *p.SecondaryColor
	}
	if p.AccentColor != nil {
		s.AccentColor = *p.AccentColor
	}
	if p.FontFamily != nil {
		s.FontFamily = *p.FontFamily
	}
	if p.BaseFontSize != nil {
		s.BaseFontSize = *p.BaseFontSize
	}
	return s
}

// IsEmpty reports whether the patch changes nothing.
func (p GlobalStylesPatch) IsEmpty() bool {
	return p == GlobalStylesPatch{}
}

// Page is the editable document. Component order is render order.
type Page struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Components   []Block      `json:"components"`
	GlobalStyles GlobalStyles `json:"globalStyles"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy: no props record is shared with p.
func (p Page) Clone() Page {
	if p.Components != nil {
		blocks := make([]Block, len(p.Components))
		for i, b := range p.Components {
			blocks[i] = b.Clone()
		}
		p.Components = blocks
	}
	return p
}

// IndexOf returns the position of the block with the given id, or -1.
func (p Page) IndexOf(id string) int {
	for i, b := range p.Components {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// CountType returns how many blocks of the given type the page holds.
func (p Page) CountType(typ string) int {
	n := 0
	for _, b := range p.Components {
		if b.Type == typ {
			n++
		}
	}
	return n
}

// VisibleBlocks returns the blocks that are rendered, in order.
func (p Page) VisibleBlocks() []Block {
	out := make([]Block, 0, len(p.Components))
	for _, b := range p.Components {
		if b.Visible {
			out = append(out, b)
		}
	}
	return out
}

// SavedPage is the server-side record of a page.
type SavedPage struct {
	Page
	Slug        string     `json:"slug"`
	Status      Status     `json:"status"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	Description string     `json:"description,omitempty"`
}

// Clone returns a deep copy of the record.
func (s SavedPage) Clone() SavedPage {
	s.Page = s.Page.Clone()
	if s.PublishedAt != nil {
		t := *s.PublishedAt
		s.PublishedAt = &t
	}
	return s
}

// IndexEntry is the listing projection of a saved page.
type IndexEntry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      Status     `json:"status"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt"`
}

// Entry projects the record for listing.
func (s SavedPage) Entry() IndexEntry {
	e := IndexEntry{
		ID:        s.ID,
		Title:     s.Title,
		Slug:      s.Slug,
		Status:    s.Status,
		UpdatedAt: s.UpdatedAt,
		CreatedAt: s.CreatedAt,
	}
	if s.PublishedAt != nil {
		t := *s.PublishedAt
		e.PublishedAt = &t
	}
	return e
}

// PageInput is the partial document accepted by create and update. Nil
// fields are absent from the request.
type PageInput struct {
	ID           *string       `json:"id,omitempty"`
	Title        *string       `json:"title,omitempty"`
	Components   *[]Block      `json:"components,omitempty"`
	GlobalStyles *GlobalStyles `json:"globalStyles,omitempty"`
	Description  *string       `json:"description,omitempty"`
}

// InputFromPage fills every document field of the input from p.
func InputFromPage(p Page) PageInput {
	p = p.Clone()
	id, title := p.ID, p.Title
	components := p.Components
	if components == nil {
		components = []Block{}
	}
	styles := p.GlobalStyles
	return PageInput{
		ID:           &id,
		Title:        &title,
		Components:   &components,
		GlobalStyles: &styles,
	}
}

// Apply merges the present fields into s. The id is never changed.
func (in PageInput) Apply(s *SavedPage) {
	if in.Title != nil {
		s.Title = *in.Title
	}
	if in.Components != nil {
		s.Components = Page{Components: *in.Components}.Clone().Components
		if s.Components == nil {
			s.Components = []Block{}
		}
	}
	if in.GlobalStyles != nil {
		s.GlobalStyles = *in.GlobalStyles
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
}

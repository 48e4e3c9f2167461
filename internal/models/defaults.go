package models

import (
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/registry"
)

const (
	DefaultTitle      = "My Page"
	UntitledPageTitle = "Untitled Page"
)

// DefaultPageTypes is the block layout of a fresh page.
var DefaultPageTypes = []string{
	"navbar",
	"hero-slider",
	"services-row",
	"projects-grid",
	"stats-counter",
	"about-split",
	"services-grid",
	"team",
	"testimonials",
	"blog-grid",
	"cta-banner",
	"contact",
	"footer",
	"copyright-bar",
}

func DefaultGlobalStyles() GlobalStyles {
	return GlobalStyles{
		PrimaryColor:   "#E53E3E",
		SecondaryColor: "#1A202C",
		AccentColor:    "#F6AD55",
		FontFamily:     "Inter",
		BaseFontSize:   16,
	}
}

// NewBlock seeds an instance of typ from the registry defaults.
func NewBlock(def registry.Definition, id string) Block {
	return Block{ID: id, Type: def.Type, Props: def.NewProps(), Visible: true}
}

// NewEmptyPage returns a page with no blocks.
func NewEmptyPage(id string, now time.Time) Page {
	return Page{
		ID:           id,
		Title:        DefaultTitle,
		Components:   []Block{},
		GlobalStyles: DefaultGlobalStyles(),
		UpdatedAt:    now,
	}
}

// NewDefaultPage returns the starter layout. Types missing from reg are
// skipped.
func NewDefaultPage(reg *registry.Registry, newID func() string, now time.Time) Page {
	p := NewEmptyPage(newID(), now)
	for _, typ := range DefaultPageTypes {
		def, ok := reg.Get(typ)
		if !ok {
			continue
		}
		p.Components = append(p.Components, NewBlock(def, newID()))
	}
	return p
}

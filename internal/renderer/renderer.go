// Package renderer turns a page document into static HTML.
//
// Every block type in the registry names a template (by default the type
// itself) defined in templates/blocks.html. Only visible blocks are
// rendered, in document order; blocks whose type or template is unknown are
// skipped. The page wrapper injects the global styles as CSS custom
// properties.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/dmitrijs2005/pagebuilder/internal/registry"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultFont     = "Inter"
	defaultFontSize = 16
)

type Renderer struct {
	reg  *registry.Registry
	tmpl *template.Template
}

// New parses the embedded templates.
func New(reg *registry.Registry) (*Renderer, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	tmpl, err := template.New("page").Funcs(funcMap(md)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{reg: reg, tmpl: tmpl}, nil
}

type renderedBlock struct {
	ID   string
	Type string
	HTML template.HTML
}

type pageView struct {
	Title       string
	Description string
	Styles      styleView
	Blocks      []renderedBlock
}

type styleView struct {
	Primary   string
	Secondary string
	Accent    string
	Font      string
	FontSize  float64
}

func newStyleView(s models.GlobalStyles) styleView {
	v := styleView{
		Primary:   s.PrimaryColor,
		Secondary: s.SecondaryColor,
		Accent:    s.AccentColor,
		Font:      s.FontFamily,
		FontSize:  s.BaseFontSize,
	}
	if v.Font == "" {
		v.Font = defaultFont
	}
	if v.FontSize <= 0 {
		v.FontSize = defaultFontSize
	}
	return v
}

// Render writes a complete HTML document for p.
func (r *Renderer) Render(w io.Writer, p models.Page) error {
	return r.RenderDocument(w, p, "")
}

// RenderDocument is Render with a meta description.
func (r *Renderer) RenderDocument(w io.Writer, p models.Page, description string) error {
	blocks, err := r.renderBlocks(p)
	if err != nil {
		return err
	}
	view := pageView{
		Title:       p.Title,
		Description: description,
		Styles:      newStyleView(p.GlobalStyles),
		Blocks:      blocks,
	}
	return r.tmpl.ExecuteTemplate(w, "document", view)
}

// RenderBody writes only the styled wrapper and its blocks, for embedding
// in another page.
func (r *Renderer) RenderBody(w io.Writer, p models.Page) error {
	blocks, err := r.renderBlocks(p)
	if err != nil {
		return err
	}
	return r.tmpl.ExecuteTemplate(w, "body", pageView{
		Title:  p.Title,
		Styles: newStyleView(p.GlobalStyles),
		Blocks: blocks,
	})
}

func (r *Renderer) renderBlocks(p models.Page) ([]renderedBlock, error) {
	out := make([]renderedBlock, 0, len(p.Components))
	for _, b := range p.VisibleBlocks() {
		def, ok := r.reg.Get(b.Type)
		if !ok || r.tmpl.Lookup(def.Template) == nil {
			continue
		}
		props := b.Props
		if props == nil {
			props = map[string]any{}
		}
		var buf bytes.Buffer
		if err := r.tmpl.ExecuteTemplate(&buf, def.Template, props); err != nil {
			return nil, fmt.Errorf("render block %s (%s): %w", b.ID, b.Type, err)
		}
		out = append(out, renderedBlock{
			ID:   b.ID,
			Type: b.Type,
			// produced by html/template above, already escaped
			HTML: template.HTML(buf.String()),
		})
	}
	return out, nil
}

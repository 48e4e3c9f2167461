// Package registry is the read-only catalog of block types.
//
// A Registry resolves a block type string to its label, palette group,
// default props, field schema, template name and placement constraints. It
// is built once (Default or Load) and passed explicitly to the editor store,
// the renderer and the HTTP API. Lookups of unknown types report absence;
// callers treat that as "render nothing, edit nothing".
package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/schema"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalog []byte

// Group is the palette section a block is listed under.
type Group string

const (
	GroupNavigation  Group = "navigation"
	GroupHero        Group = "hero"
	GroupContent     Group = "content"
	GroupSocialProof Group = "social-proof"
	GroupContact     Group = "contact"
	GroupLayout      Group = "layout"
)

func (g Group) valid() bool {
	switch g {
	case GroupNavigation, GroupHero, GroupContent, GroupSocialProof, GroupContact, GroupLayout:
		return true
	}
	return false
}

// Position is a block's preferred place on the page.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionAny    Position = "any"
)

// Constraints are advisory and only checked when a block is added.
type Constraints struct {
	MaxInstances int      `yaml:"maxInstances,omitempty" json:"maxInstances,omitempty"`
	Position     Position `yaml:"position,omitempty" json:"position,omitempty"`
}

// Definition is one catalog entry.
type Definition struct {
	Type         string         `yaml:"type" json:"type"`
	Label        string         `yaml:"label" json:"label"`
	Icon         string         `yaml:"icon" json:"icon"`
	Group        Group          `yaml:"group" json:"group"`
	Template     string         `yaml:"template,omitempty" json:"template"`
	DefaultProps map[string]any `yaml:"defaultProps" json:"defaultProps"`
	Fields       []schema.Field `yaml:"fields" json:"fields"`
	Constraints  *Constraints   `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// MaxInstances is the add-time limit for this type, 0 when unlimited.
func (d Definition) MaxInstances() int {
	if d.Constraints == nil {
		return 0
	}
	return d.Constraints.MaxInstances
}

// NewProps returns a private deep copy of the default props.
func (d Definition) NewProps() map[string]any {
	props := schema.CloneProps(d.DefaultProps)
	if props == nil {
		props = map[string]any{}
	}
	return props
}

// SidebarGroup is a palette section listing block types in display order.
type SidebarGroup struct {
	Label string   `yaml:"label" json:"label"`
	Icon  string   `yaml:"icon" json:"icon"`
	Types []string `yaml:"types" json:"types"`
}

type catalogFile struct {
	Sidebar    []SidebarGroup  `yaml:"sidebar"`
	Fonts      []schema.Option `yaml:"fonts"`
	Icons      []schema.Option `yaml:"icons"`
	Components []Definition    `yaml:"components"`
}

// Registry is immutable once built; every accessor hands out copies.
type Registry struct {
	defs    []Definition
	index   map[string]int
	sidebar []SidebarGroup
	fonts   []schema.Option
	icons   []schema.Option
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	year := strconv.Itoa(time.Now().Year())
	return Load(bytes.ReplaceAll(catalog, []byte("{year}"), []byte(year)))
})

// Default returns the built-in catalog.
func Default() (*Registry, error) {
	return loadDefault()
}

// Load parses a YAML catalog.
func Load(data []byte) (*Registry, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	r := &Registry{
		index:   make(map[string]int, len(f.Components)),
		sidebar: f.Sidebar,
		fonts:   f.Fonts,
		icons:   f.Icons,
	}

	for i, def := range f.Components {
		if def.Type == "" {
			return nil, fmt.Errorf("catalog entry %d has no type", i)
		}
		if _, dup := r.index[def.Type]; dup {
			return nil, fmt.Errorf("duplicate block type %q", def.Type)
		}
		if !def.Group.valid() {
			return nil, fmt.Errorf("block %q: unknown group %q", def.Type, def.Group)
		}
		if def.Template == "" {
			def.Template = def.Type
		}

		props, err := normalize(def.DefaultProps)
		if err != nil {
			return nil, fmt.Errorf("block %q: %w", def.Type, err)
		}
		def.DefaultProps, _ = props.(map[string]any)

		if def.Fields, err = normalizeFields(def.Fields); err != nil {
			return nil, fmt.Errorf("block %q: %w", def.Type, err)
		}

		r.index[def.Type] = len(r.defs)
		r.defs = append(r.defs, def)
	}

	for _, g := range r.sidebar {
		for _, typ := range g.Types {
			if _, ok := r.index[typ]; !ok {
				return nil, fmt.Errorf("sidebar group %q lists unknown type %q", g.Label, typ)
			}
		}
	}

	return r, nil
}

// normalize converts decoded YAML into the shapes encoding/json produces
// (float64 numbers, map[string]any records) so catalog defaults and stored
// documents compare and clone alike.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeFields(fields []schema.Field) ([]schema.Field, error) {
	for i := range fields {
		v, err := normalize(fields[i].DefaultValue)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fields[i].Name, err)
		}
		fields[i].DefaultValue = v
		if fields[i].Fields, err = normalizeFields(fields[i].Fields); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// Get looks a type up by exact key.
func (r *Registry) Get(typ string) (Definition, bool) {
	i, ok := r.index[typ]
	if !ok {
		return Definition{}, false
	}
	return copyDefinition(r.defs[i]), true
}

// Has reports whether typ is a known block type.
func (r *Registry) Has(typ string) bool {
	_, ok := r.index[typ]
	return ok
}

// Definitions lists every entry in catalog order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	for i, d := range r.defs {
		out[i] = copyDefinition(d)
	}
	return out
}

// Types lists every block type in catalog order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Type
	}
	return out
}

func (r *Registry) Sidebar() []SidebarGroup {
	out := make([]SidebarGroup, len(r.sidebar))
	for i, g := range r.sidebar {
		out[i] = SidebarGroup{Label: g.Label, Icon: g.Icon, Types: append([]string(nil), g.Types...)}
	}
	return out
}

func (r *Registry) Fonts() []schema.Option {
	return append([]schema.Option(nil), r.fonts...)
}

func (r *Registry) Icons() []schema.Option {
	return append([]schema.Option(nil), r.icons...)
}

func copyDefinition(d Definition) Definition {
	d.DefaultProps = schema.CloneProps(d.DefaultProps)
	d.Fields = copyFields(d.Fields)
	if d.Constraints != nil {
		c := *d.Constraints
		d.Constraints = &c
	}
	return d
}

func copyFields(fields []schema.Field) []schema.Field {
	if fields == nil {
		return nil
	}
	out := make([]schema.Field, len(fields))
	for i, f := range fields {
		f.DefaultValue = schema.Clone(f.DefaultValue)
		f.Options = append([]schema.Option(nil), f.Options...)
		f.Fields = copyFields(f.Fields)
		if f.Validation != nil {
			v := *f.Validation
			f.Validation = &v
		}
		out[i] = f
	}
	return out
}

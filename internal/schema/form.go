package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Editor names the input widget a form shows for a field.
type Editor string

const (
	EditorText     Editor = "text"
	EditorTextarea Editor = "textarea"
	EditorNumber   Editor = "number"
	EditorURL      Editor = "url"
	EditorColor    Editor = "color"
	EditorSelect   Editor = "select"
	EditorToggle   Editor = "toggle"
	EditorImage    Editor = "image"
	EditorIcon     Editor = "icon"
	EditorList     Editor = "list"
	EditorArray    Editor = "array"
	EditorGroup    Editor = "group"
)

// EditorFor dispatches on the field type. Textarea and richtext share an
// editor and unrecognised types fall back to a text input.
func EditorFor(f Field) Editor {
	switch f.Type {
	case TypeTextarea, TypeRichText:
		return EditorTextarea
	case TypeNumber:
		return EditorNumber
	case TypeURL:
		return EditorURL
	case TypeColor:
		return EditorColor
	case TypeSelect:
		return EditorSelect
	case TypeBoolean:
		return EditorToggle
	case TypeImage:
		return EditorImage
	case TypeIcon:
		return EditorIcon
	case TypeArray:
		if f.IsScalarList() {
			return EditorList
		}
		return EditorArray
	case TypeGroup:
		return EditorGroup
	default:
		return EditorText
	}
}

// Node is one row of a rendered form. Array and group rows carry their
// nested rows in Children; array items get a Title built by ItemLabel.
type Node struct {
	Path     string
	Label    string
	Title    string
	Editor   Editor
	Field    Field
	Value    any
	Step     float64
	Children []Node
}

// Build renders the form for props, recursing through arrays and groups to
// any depth. Paths use dots with numeric segments for array indexes, the
// same syntax SetPath accepts.
func Build(fields []Field, props map[string]any) []Node {
	return build(fields, props, "")
}

func build(fields []Field, values map[string]any, prefix string) []Node {
	nodes := make([]Node, 0, len(fields))
	for _, f := range fields {
		nodes = append(nodes, buildField(f, values[f.Name], join(prefix, f.Name)))
	}
	return nodes
}

func buildField(f Field, value any, path string) Node {
	n := Node{
		Path:   path,
		Label:  f.Label,
		Editor: EditorFor(f),
		Field:  f,
		Value:  value,
	}

	switch n.Editor {
	case EditorNumber:
		n.Step = f.NumberStep()
	case EditorList:
		for i, item := range Items(value) {
			itemPath := join(path, strconv.Itoa(i))
			n.Children = append(n.Children, Node{
				Path:   itemPath,
				Label:  f.Fields[0].Label,
				Title:  ItemLabel(scalarText(item), i),
				Editor: EditorText,
				Field:  f.Fields[0],
				Value:  scalarText(item),
			})
		}
	case EditorArray:
		for i, item := range Items(value) {
			itemPath := join(path, strconv.Itoa(i))
			record, _ := item.(map[string]any)
			n.Children = append(n.Children, Node{
				Path:     itemPath,
				Label:    f.Label,
				Title:    ItemLabel(item, i),
				Editor:   EditorGroup,
				Value:    item,
				Children: build(f.Fields, record, itemPath),
			})
		}
	case EditorGroup:
		record, _ := value.(map[string]any)
		n.Children = build(f.Fields, record, path)
	}
	return n
}

// scalarText reads a scalar list element, which may also be stored as a
// {"value": ...} record.
func scalarText(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
		return ""
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

var labelKeys = []string{"title", "label", "name", "heading", "quote"}

// ItemLabel is the collapsed title of an array item: the first non-empty
// string among title, label, name, heading and quote, cut to 30 characters.
func ItemLabel(item any, index int) string {
	fallback := fmt.Sprintf("Item %d", index+1)

	if s, ok := item.(string); ok {
		if s == "" {
			return fallback
		}
		return s
	}

	record, ok := item.(map[string]any)
	if !ok {
		return fallback
	}
	for _, key := range labelKeys {
		s, ok := record[key].(string)
		if !ok || s == "" {
			continue
		}
		if r := []rune(s); len(r) > 30 {
			return string(r[:30]) + "..."
		}
		return s
	}
	return fallback
}

// AddLabel is the caption of an array's add button.
func AddLabel(f Field) string {
	if f.IsScalarList() {
		return "Add Item"
	}
	return "Add " + strings.TrimSuffix(f.Label, "s")
}

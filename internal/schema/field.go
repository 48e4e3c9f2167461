// Package schema describes configurable block properties declaratively.
//
// A Field tells a generic form what kind of editor to show for one property
// and, for arrays and groups, which nested fields make up each element. The
// nesting is recursive: an array item may contain a group that contains
// another array, and so on.
package schema

// FieldType selects the editor used for a property.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeRichText FieldType = "richtext"
	TypeImage    FieldType = "image"
	TypeURL      FieldType = "url"
	TypeColor    FieldType = "color"
	TypeNumber   FieldType = "number"
	TypeSelect   FieldType = "select"
	TypeBoolean  FieldType = "boolean"
	TypeArray    FieldType = "array"
	TypeGroup    FieldType = "group"
	TypeIcon     FieldType = "icon"
)

// Option is one choice of a select field.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Validation bounds a value. Min and Max apply to numbers, Pattern to strings.
type Validation struct {
	Min     *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Pattern string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`
}

// Field describes one configurable property.
type Field struct {
	Name         string      `yaml:"name" json:"name"`
	Label        string      `yaml:"label" json:"label"`
	Type         FieldType   `yaml:"type" json:"type"`
	DefaultValue any         `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	Required     bool        `yaml:"required,omitempty" json:"required,omitempty"`
	Placeholder  string      `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Options      []Option    `yaml:"options,omitempty" json:"options,omitempty"`
	Fields       []Field     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Validation   *Validation `yaml:"validation,omitempty" json:"validation,omitempty"`
}

// IsScalarList reports whether an array field holds bare values rather than
// records: its nested schema is a single field named "value".
func (f Field) IsScalarList() bool {
	return f.Type == TypeArray && len(f.Fields) == 1 && f.Fields[0].Name == "value"
}

// NumberStep is the increment offered by a number editor: fractional when
// the field is bounded by a non-zero maximum of at most 1.
func (f Field) NumberStep() float64 {
	if f.Validation != nil && f.Validation.Max != nil && *f.Validation.Max != 0 && *f.Validation.Max <= 1 {
		return 0.1
	}
	return 1
}

// Lookup finds a field by name.
func Lookup(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

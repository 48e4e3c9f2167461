package schema

import (
	"fmt"
	"regexp"
	"strconv"
)

// Violation is one problem found by Validate.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// Validate checks props against the field tree. It is advisory: documents
// are stored and rendered whether or not they validate.
func Validate(fields []Field, props map[string]any) []Violation {
	var out []Violation
	validateRecord(fields, props, "", &out)
	return out
}

func validateRecord(fields []Field, values map[string]any, prefix string, out *[]Violation) {
	for _, f := range fields {
		validateField(f, values[f.Name], join(prefix, f.Name), out)
	}
}

func validateField(f Field, value any, path string, out *[]Violation) {
	add := func(format string, args ...any) {
		*out = append(*out, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if f.Required && isBlank(value) {
		add("%s is required", f.Label)
		return
	}
	if value == nil {
		return
	}

	switch f.Type {
	case TypeNumber:
		n, ok := toNumber(value)
		if !ok {
			add("must be a number")
			return
		}
		if f.Validation != nil && f.Validation.Min != nil && n < *f.Validation.Min {
			add("must be at least %v", *f.Validation.Min)
		}
		if f.Validation != nil && f.Validation.Max != nil && n > *f.Validation.Max {
			add("must be at most %v", *f.Validation.Max)
		}

	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			add("must be true or false")
		}

	case TypeSelect:
		if len(f.Options) == 0 {
			return
		}
		s := fmt.Sprint(value)
		for _, o := range f.Options {
			if o.Value == s {
				return
			}
		}
		add("%q is not one of the options", s)

	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			add("must be a list")
			return
		}
		for i, item := range items {
			itemPath := join(path, strconv.Itoa(i))
			if f.IsScalarList() {
				validateField(f.Fields[0], scalarValue(item), itemPath, out)
				continue
			}
			record, ok := item.(map[string]any)
			if !ok {
				*out = append(*out, Violation{Path: itemPath, Message: "must be a record"})
				continue
			}
			validateRecord(f.Fields, record, itemPath, out)
		}

	case TypeGroup:
		record, ok := value.(map[string]any)
		if !ok {
			add("must be a record")
			return
		}
		validateRecord(f.Fields, record, path, out)

	default:
		s, ok := value.(string)
		if !ok {
			add("must be text")
			return
		}
		if f.Validation != nil && f.Validation.Pattern != "" && s != "" {
			re, err := regexp.Compile(f.Validation.Pattern)
			if err != nil {
				add("invalid pattern %q", f.Validation.Pattern)
				return
			}
			if !re.MatchString(s) {
				add("does not match %s", f.Validation.Pattern)
			}
		}
	}
}

func scalarValue(item any) any {
	if record, ok := item.(map[string]any); ok {
		return record["value"]
	}
	return item
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPath = errors.New("invalid property path")

// Items returns v as a list, or nil when v is not one.
func Items(v any) []any {
	items, _ := v.([]any)
	return items
}

// NewItem builds a fresh array element from the nested fields' defaults.
// Fields without a default start as an empty string.
func NewItem(fields []Field) map[string]any {
	item := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.DefaultValue != nil {
			item[f.Name] = Clone(f.DefaultValue)
		} else {
			item[f.Name] = ""
		}
	}
	return item
}

// AddItem returns a new list with a blank element appended. The input list
// is not modified.
func AddItem(f Field, value any) []any {
	items := Items(value)
	next := make([]any, len(items), len(items)+1)
	copy(next, items)
	if f.IsScalarList() {
		return append(next, "")
	}
	return append(next, NewItem(f.Fields))
}

// RemoveItem returns a new list without element index. Out-of-range
// indexes leave the list unchanged.
func RemoveItem(value any, index int) []any {
	items := Items(value)
	next := make([]any, 0, len(items))
	for i, item := range items {
		if i != index {
			next = append(next, item)
		}
	}
	return next
}

// GetPath reads a nested property such as "columns.0.links.1.label".
func GetPath(props map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var node any = props
	for _, seg := range strings.Split(path, ".") {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(n) {
				return nil, false
			}
			node = n[i]
		default:
			return nil, false
		}
	}
	return node, true
}

// SetPath returns a copy of props with the value at path replaced. Only the
// maps and lists along the path are copied; every sibling keeps its
// identity and position. Missing intermediate records are created, missing
// list elements are an error.
func SetPath(props map[string]any, path string, v any) (map[string]any, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	out, err := setIn(props, strings.Split(path, "."), v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	return out.(map[string]any), nil
}

func setIn(node any, segs []string, v any) (any, error) {
	if len(segs) == 0 {
		return v, nil
	}
	seg, rest := segs[0], segs[1:]

	switch n := node.(type) {
	case map[string]any:
		child, err := setIn(n[seg], rest, v)
		if err != nil {
			return nil, err
		}
		next := make(map[string]any, len(n)+1)
		for k, val := range n {
			next[k] = val
		}
		next[seg] = child
		return next, nil

	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(n) {
			return nil, ErrInvalidPath
		}
		child, err := setIn(n[i], rest, v)
		if err != nil {
			return nil, err
		}
		next := make([]any, len(n))
		copy(next, n)
		next[i] = child
		return next, nil

	case nil:
		if _, err := strconv.Atoi(seg); err == nil {
			return nil, ErrInvalidPath
		}
		return setIn(map[string]any{}, segs, v)

	default:
		return nil, ErrInvalidPath
	}
}

// Clone deep-copies a JSON-shaped value (maps, lists and scalars) so the
// result shares no mutable state with the input.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Clone(val)
		}
		return out
	default:
		return v
	}
}

// CloneProps deep-copies a props record. A nil record stays nil.
func CloneProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	return Clone(props).(map[string]any)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/dmitrijs2005/pagebuilder/internal/schema"
)

var errUsage = errors.New("usage")

func usage(u string) error {
	return fmt.Errorf("%w: %s", errUsage, u)
}

// resolveBlock finds a block by 1-based position, "." for the selection,
// exact id or unique id prefix.
func resolveBlock(p models.Page, selected, ref string) (models.Block, error) {
	if ref == "." {
		ref = selected
		if ref == "" {
			return models.Block{}, errors.New("no block selected")
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(p.Components) {
			return models.Block{}, fmt.Errorf("no block at position %d", n)
		}
		return p.Components[n-1], nil
	}

	var match []models.Block
	for _, b := range p.Components {
		if b.ID == ref {
			return b, nil
		}
		if strings.HasPrefix(b.ID, ref) {
			match = append(match, b)
		}
	}
	switch len(match) {
	case 0:
		return models.Block{}, fmt.Errorf("no block %q", ref)
	case 1:
		return match[0], nil
	}
	return models.Block{}, fmt.Errorf("block reference %q is ambiguous", ref)
}

// fieldAt walks a property path through the field tree. Numeric segments
// step into array elements.
func fieldAt(fields []schema.Field, path string) (schema.Field, bool) {
	var (
		cur   schema.Field
		found bool
	)
	for _, seg := range strings.Split(path, ".") {
		if _, err := strconv.Atoi(seg); err == nil {
			if !found || cur.Type != schema.TypeArray {
				return schema.Field{}, false
			}
			if cur.IsScalarList() {
				cur = cur.Fields[0]
			}
			fields = cur.Fields
			continue
		}
		f, ok := schema.Lookup(fields, seg)
		if !ok {
			return schema.Field{}, false
		}
		cur, found = f, true
		fields = f.Fields
	}
	return cur, found
}

// coerce turns typed-in text into a property value of the field's type.
// Without a field, JSON literals are decoded and anything else is a string.
func coerce(f schema.Field, known bool, raw string) (any, error) {
	if !known {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v, nil
		}
		return raw, nil
	}

	switch f.Type {
	case schema.TypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s expects a number, got %q", f.Name, raw)
		}
		return n, nil
	case schema.TypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", f.Name, raw)
		}
		return b, nil
	case schema.TypeArray, schema.TypeGroup:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("%s expects JSON: %w", f.Name, err)
		}
		return v, nil
	}
	return raw, nil
}

// shortID keeps listings readable; any unique prefix resolves.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if r := []rune(x); len(r) > 40 {
			return strconv.Quote(string(r[:40]) + "...")
		}
		return strconv.Quote(x)
	case []any:
		return fmt.Sprintf("[%d items]", len(x))
	case map[string]any:
		return fmt.Sprintf("{%d keys}", len(x))
	}
	return fmt.Sprint(v)
}

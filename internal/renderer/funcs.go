package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
)

func funcMap(md goldmark.Markdown) template.FuncMap {
	return template.FuncMap{
		"str":      str,
		"num":      num,
		"flag":     flag,
		"items":    items,
		"list":     list,
		"group":    group,
		"pct":      pct,
		"initials": initials,
		"cssurl":   cssURL,
		"markdown": func(s string) (template.HTML, error) {
			var buf bytes.Buffer
			if err := md.Convert([]byte(s), &buf); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}
}

func lookup(m any, key string) any {
	rec, ok := m.(map[string]any)
	if !ok {
		return nil
	}
	return rec[key]
}

// str formats a scalar prop; records and lists read as "".
func str(m any, key string) string {
	switch v := lookup(m, key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// num reads a number prop. Select values arrive as strings ("3").
func num(m any, key string) float64 {
	switch v := lookup(m, key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func flag(m any, key string) bool {
	b, _ := lookup(m, key).(bool)
	return b
}

// items returns the record elements of an array prop.
func items(m any, key string) []map[string]any {
	arr, _ := lookup(m, key).([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if rec, ok := el.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// list returns the scalar elements of an array prop as strings. Elements
// may also be stored as {"value": ...} records.
func list(m any, key string) []string {
	arr, _ := lookup(m, key).([]any)
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if rec, ok := el.(map[string]any); ok {
			el = rec["value"]
		}
		switch v := el.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return out
}

func group(m any, key string) map[string]any {
	rec, _ := lookup(m, key).(map[string]any)
	if rec == nil {
		return map[string]any{}
	}
	return rec
}

// pct converts a 0..1 fraction to a whole percentage.
func pct(f float64) int {
	return int(f*100 + 0.5)
}

func initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(w)[:1])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// cssURL builds a url() value for http(s) images; anything else yields an
// empty declaration.
func cssURL(raw string) template.CSS {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return template.CSS(fmt.Sprintf("background-image: url(%q);", u.String()))
}

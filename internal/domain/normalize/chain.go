// Package normalize resolves fields of loosely shaped JSON documents through
// ordered fallback chains. A chain is a list of accessors applied left to
// right; the first accessor yielding a usable value wins.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Accessor extracts a candidate value from a decoded JSON document.
// ok is false when the value is absent (missing key or JSON null).
type Accessor func(doc any) (value any, ok bool)

// Chain is an ordered list of accessors.
type Chain []Accessor

// Field walks nested object keys. Non-object intermediates are absent.
func Field(path ...string) Accessor {
	return func(doc any) (any, bool) {
		cur := doc
		for _, key := range path {
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			cur, ok = obj[key]
			if !ok {
				return nil, false
			}
		}
		return cur, cur != nil
	}
}

// Self yields the document itself, for bare (unwrapped) responses.
func Self() Accessor {
	return func(doc any) (any, bool) {
		return doc, doc != nil
	}
}

// Const always yields v.
func Const(v any) Accessor {
	return func(any) (any, bool) {
		return v, v != nil
	}
}

// Func adapts a computed default into an accessor.
func Func(fn func(doc any) (any, bool)) Accessor {
	return fn
}

// Resolve returns the first present value.
func (c Chain) Resolve(doc any) (any, bool) {
	return c.first(doc, func(v any) bool { return true })
}

// Number returns the first numeric value, or nil. Zero counts as present.
func (c Chain) Number(doc any) *float64 {
	var out float64
	_, ok := c.first(doc, func(v any) bool {
		n, isNum := AsNumber(v)
		if isNum {
			out = n
		}
		return isNum
	})
	if !ok {
		return nil
	}
	return &out
}

// String returns the first non-empty scalar rendered as text, or "".
func (c Chain) String(doc any) string {
	var out string
	c.first(doc, func(v any) bool {
		s, ok := AsText(v)
		if ok && s != "" {
			out = s
			return true
		}
		return false
	})
	return out
}

// List returns the first JSON array, or an empty slice.
func (c Chain) List(doc any) []any {
	v, ok := c.first(doc, func(v any) bool {
		_, isList := v.([]any)
		return isList
	})
	if !ok {
		return []any{}
	}
	return v.([]any)
}

// Object returns the first JSON object, or an empty map.
func (c Chain) Object(doc any) map[string]any {
	v, ok := c.first(doc, func(v any) bool {
		_, isObj := v.(map[string]any)
		return isObj
	})
	if !ok {
		return map[string]any{}
	}
	return v.(map[string]any)
}

func (c Chain) first(doc any, accept func(any) bool) (any, bool) {
	for _, access := range c {
		v, ok := access(doc)
		if !ok || !accept(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// AsNumber coerces JSON numbers and numeric strings.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsText renders JSON scalars as text. Objects and arrays are not text.
func AsText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case json.Number:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// Objects keeps only the object elements of a list.
func Objects(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

package upstream

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// object is one decoded upstream item. Accessors never fail: a missing or
// mistyped field reads as the zero value.
type object map[string]any

func (o object) str(key string) string {
	return scalarString(o[key])
}

// first returns the first non-empty string among keys.
func (o object) first(keys ...string) string {
	for _, k := range keys {
		if s := o.str(k); s != "" {
			return s
		}
	}
	return ""
}

func (o object) num(key string) *float64 {
	switch v := o[key].(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

func (o object) integer(key string) *int {
	f := o.num(key)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func (o object) boolean(key string) *bool {
	switch v := o[key].(type) {
	case bool:
		return &v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return &b
		}
	}
	return nil
}

func (o object) timestamp(key string) *time.Time {
	return parseTimestamp(o.str(key))
}

// nested returns the child object at key, or nil.
func (o object) nested(key string) object {
	if m, ok := o[key].(map[string]any); ok {
		return object(m)
	}
	return nil
}

// scalarString renders a JSON scalar as text. A nested {"name": ...} object
// reads through to its name.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		return scalarString(t["name"])
	}
	return ""
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts RFC 3339, a local date-time (only the first 19
// characters are read, so fractions and zones are dropped) or a bare date.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return &t
	}
	if len(s) >= 19 {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s[:19]); err == nil {
				return &t
			}
		}
	}
	if len(s) == 10 {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			return &t
		}
	}
	return nil
}

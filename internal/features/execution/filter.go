package execution

import (
	"fmt"
	"strings"
	"time"
)

// Filter keys understood by every module.
const (
	FilterShow            = "show"
	FilterCreatedDateFrom = "createdDateFrom"
	FilterCreatedDateTo   = "createdDateTo"
)

// filterSpec describes how one module's records answer the filter map.
type filterSpec[T any] struct {
	// owner is nil for modules whose records carry no owner.
	owner   func(T) string
	created func(T) *time.Time
	// equals maps a filter key to the record field it matches case-insensitively.
	equals map[string]func(T) string
}

// criteria is the parsed form of a filter map. Absent or unparsable entries
// leave the matching predicate switched off.
type criteria struct {
	mineOnly bool
	from     *time.Time
	to       *time.Time
	equals   map[string]string
}

func parseCriteria(filters map[string]any) criteria {
	c := criteria{equals: map[string]string{}}
	if len(filters) == 0 {
		return c
	}
	if v, ok := filters[FilterShow]; ok {
		c.mineOnly = strings.Contains(strings.ToUpper(filterText(v)), "MY")
	}
	c.from = parseDate(filters[FilterCreatedDateFrom])
	c.to = parseDate(filters[FilterCreatedDateTo])
	for k, v := range filters {
		if s := strings.TrimSpace(filterText(v)); s != "" {
			c.equals[k] = s
		}
	}
	return c
}

func (s filterSpec[T]) apply(records []T, filters map[string]any, userID string) []T {
	if len(filters) == 0 {
		return records
	}
	c := parseCriteria(filters)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if s.match(rec, c, userID) {
			out = append(out, rec)
		}
	}
	return out
}

func (s filterSpec[T]) match(rec T, c criteria, userID string) bool {
	if c.mineOnly && s.owner != nil {
		if owner := s.owner(rec); owner == "" || owner != userID {
			return false
		}
	}

	if (c.from != nil || c.to != nil) && s.created != nil {
		if created := s.created(rec); created != nil {
			day := civilDate(*created)
			if c.from != nil && day.Before(*c.from) {
				return false
			}
			if c.to != nil && day.After(*c.to) {
				return false
			}
		}
	}

	for key, field := range s.equals {
		want, ok := c.equals[key]
		if !ok {
			continue
		}
		got := field(rec)
		if got == "" || !strings.EqualFold(strings.TrimSpace(got), want) {
			return false
		}
	}
	return true
}

// filterText renders a filter value as text. Lists and objects render in
// their printed form, so ["MY"] still reads as containing MY.
func filterText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.DateOnly)
	}
	return fmt.Sprint(v)
}

// parseDate reads a calendar date from "YYYY-MM-DD" or from the date part of
// a timestamp. Anything else is treated as absent.
func parseDate(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		d := civilDate(t)
		return &d
	}
	s := strings.TrimSpace(filterText(v))
	if len(s) < len(time.DateOnly) {
		return nil
	}
	if len(s) > len(time.DateOnly) {
		if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
			if _, err := time.Parse("2006-01-02T15:04:05", s[:min(len(s), 19)]); err != nil {
				return nil
			}
		}
		s = s[:len(time.DateOnly)]
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return &d
}

// civilDate drops the clock and zone, keeping the calendar day as written.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package execution

import (
	"bytes"
	"encoding/json"
)

type cell struct {
	label string
	value any
}

// Row is a label keyed record that remembers insertion order, so the JSON
// object lists keys in the order the columns were requested.
type Row struct {
	cells []cell
}

func newRow(capacity int) Row {
	return Row{cells: make([]cell, 0, capacity)}
}

// Set stores value under label. A label set twice keeps its first position.
func (r *Row) Set(label string, value any) {
	for i := range r.cells {
		if r.cells[i].label == label {
			r.cells[i].value = value
			return
		}
	}
	r.cells = append(r.cells, cell{label: label, value: value})
}

func (r Row) Get(label string) (any, bool) {
	for _, c := range r.cells {
		if c.label == label {
			return c.value, true
		}
	}
	return nil, false
}

func (r Row) Labels() []string {
	labels := make([]string, len(r.cells))
	for i, c := range r.cells {
		labels[i] = c.label
	}
	return labels
}

func (r Row) Len() int { return len(r.cells) }

// Map copies the row into an unordered map.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.cells))
	for _, c := range r.cells {
		m[c.label] = c.value
	}
	return m
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

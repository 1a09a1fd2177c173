// Package result defines the shape-tagged collections returned by every analytic query.
//
// Queries return typed values (Mapping, Sequence, Rows, Nested). Each converts to a
// Table whose Kind tells a presentation layer how to render it, so consumers
// dispatch on the tag instead of inspecting types at runtime.
package result

import "fmt"

// Kind identifies the shape of a Table.
type Kind string

// Table kinds.
const (
	// KindMapping is an ordered key/value listing; each row is [key, value].
	KindMapping Kind = "mapping"
	// KindSequence is an ordered list of scalars; each row is [item].
	KindSequence Kind = "sequence"
	// KindRows is a list of rows with optional headers.
	KindRows Kind = "rows"
	// KindNested is an id -> record listing; the first header is the id column.
	KindNested Kind = "nested"
)

// Table is the uniform form handed to presentation layers.
type Table struct {
	Kind    Kind     `json:"kind" doc:"Result shape: mapping, sequence, rows, or nested"`
	Headers []string `json:"headers,omitempty" doc:"Column labels, when the shape carries them"`
	Rows    [][]any  `json:"rows" doc:"Row values in iteration order"`
}

// Tabler is implemented by every query result.
type Tabler interface {
	Table() Table
}

// Entry is one key/value pair of a Mapping.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Mapping is an insertion-ordered map. Setting an existing key replaces its
// value but keeps its original position.
type Mapping[K comparable, V any] struct {
	entries []Entry[K, V]
	index   map[K]int
}

// NewMapping creates an empty mapping with room for n entries.
func NewMapping[K comparable, V any](n int) *Mapping[K, V] {
	return &Mapping[K, V]{
		entries: make([]Entry[K, V], 0, n),
		index:   make(map[K]int, n),
	}
}

// MappingOf builds a mapping from entries in order.
func MappingOf[K comparable, V any](entries ...Entry[K, V]) *Mapping[K, V] {
	m := NewMapping[K, V](len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Set stores v under k.
func (m *Mapping[K, V]) Set(k K, v V) {
	if m.index == nil {
		m.index = make(map[K]int)
	}
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry[K, V]{Key: k, Value: v})
}

// Get returns the value stored under k.
func (m *Mapping[K, V]) Get(k K) (V, bool) {
	if m == nil {
		var zero V
		return zero, false
	}
	i, ok := m.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i].Value, true
}

// Has reports whether k is present.
func (m *Mapping[K, V]) Has(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Len returns the number of entries.
func (m *Mapping[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in order. The slice must not be modified.
func (m *Mapping[K, V]) Entries() []Entry[K, V] {
	if m == nil {
		return nil
	}
	return m.entries
}

// Keys returns the keys in order.
func (m *Mapping[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Values returns the values in order.
func (m *Mapping[K, V]) Values() []V {
	values := make([]V, 0, m.Len())
	for _, e := range m.Entries() {
		values = append(values, e.Value)
	}
	return values
}

// Table implements Tabler.
func (m *Mapping[K, V]) Table() Table {
	rows := make([][]any, 0, m.Len())
	for _, e := range m.Entries() {
		rows = append(rows, []any{e.Key, e.Value})
	}
	return Table{Kind: KindMapping, Headers: []string{"Key", "Value"}, Rows: rows}
}

// Sequence is an ordered list of scalar values.
type Sequence[T any] []T

// Table implements Tabler.
func (s Sequence[T]) Table() Table {
	rows := make([][]any, 0, len(s))
	for _, v := range s {
		rows = append(rows, []any{v})
	}
	return Table{Kind: KindSequence, Headers: []string{"Items"}, Rows: rows}
}

// Rows is a list of row values with optional headers.
type Rows struct {
	Headers []string
	Values  [][]any
}

// Table implements Tabler.
func (r Rows) Table() Table {
	values := r.Values
	if values == nil {
		values = [][]any{}
	}
	return Table{Kind: KindRows, Headers: r.Headers, Rows: values}
}

// Nested is an ordered id -> record listing where every record exposes the
// same fields.
type Nested struct {
	Fields  []string
	records *Mapping[string, map[string]any]
}

// NewNested creates an empty listing with the given record fields.
func NewNested(fields ...string) *Nested {
	return &Nested{Fields: fields, records: NewMapping[string, map[string]any](0)}
}

// Add stores a record under id.
func (n *Nested) Add(id any, record map[string]any) {
	n.records.Set(fmt.Sprint(id), record)
}

// Record returns the record stored under id.
func (n *Nested) Record(id any) (map[string]any, bool) {
	return n.records.Get(fmt.Sprint(id))
}

// Len returns the number of records.
func (n *Nested) Len() int {
	return n.records.Len()
}

// Table implements Tabler. Missing fields render as nil.
func (n *Nested) Table() Table {
	headers := append([]string{"ID"}, n.Fields...)
	rows := make([][]any, 0, n.records.Len())
	for _, e := range n.records.Entries() {
		row := make([]any, 0, len(headers))
		row = append(row, e.Key)
		for _, f := range n.Fields {
			row = append(row, e.Value[f])
		}
		rows = append(rows, row)
	}
	return Table{Kind: KindNested, Headers: headers, Rows: rows}
}

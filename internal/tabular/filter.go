package tabular

import (
	"strconv"
	"strings"
)

// IDSet is a set of entity identifiers.
type IDSet map[int]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// ReferencedIDs collects the entity ids named in the second column of each
// companion file, reading at most limit rows per file, and returns their union.
// Missing files contribute nothing.
func ReferencedIDs(limit int, paths ...string) (IDSet, error) {
	ids := make(IDSet)
	for _, path := range paths {
		t, err := ReadLimited(path, limit)
		if err != nil {
			return ids, err
		}
		if len(t.Header) < 2 {
			continue
		}
		col := t.Header[1]
		for _, row := range t.Rows {
			id, err := strconv.Atoi(strings.TrimSpace(row[col]))
			if err != nil {
				continue
			}
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

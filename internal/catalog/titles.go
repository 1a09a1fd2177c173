package catalog

import (
	"strconv"

	"github.com/listenupapp/movielens/internal/tabular"
)

// TitleIndex maps movie ids to titles for display. It is built once from the
// bounded movies file without referential filtering and is read-only after.
type TitleIndex map[int]string

// LoadTitleIndex reads up to limit rows of the movies file. A missing file
// yields an empty index.
func LoadTitleIndex(path string, limit int) (TitleIndex, error) {
	index := make(TitleIndex)

	table, err := tabular.ReadLimited(path, limit)
	if err != nil {
		return index, err
	}
	if len(table.Header) < 2 {
		return index, nil
	}

	idCol, titleCol := table.Header[0], table.Header[1]
	for _, row := range table.Rows {
		id, err := strconv.Atoi(row[idCol])
		if err != nil {
			continue
		}
		index[id] = row[titleCol]
	}
	return index, nil
}

// Title returns the title for id, or fallback when the id is unknown.
func (ti TitleIndex) Title(id int, fallback string) string {
	if title, ok := ti[id]; ok {
		return title
	}
	return fallback
}

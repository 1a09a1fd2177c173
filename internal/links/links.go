// Package links joins movies to their IMDb keys, enriches them through the
// metadata cache and ranks movies by the cached metadata.
package links

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/metadata"
	"github.com/listenupapp/movielens/internal/result"
	"github.com/listenupapp/movielens/internal/stats"
	"github.com/listenupapp/movielens/internal/tabular"
)

// Paths locates the links file and the movies file used for titles.
type Paths struct {
	Links  string
	Movies string
}

// Links holds the movie id -> IMDb key map in links file order.
type Links struct {
	ids    []string
	keys   *result.Mapping[string, string]
	titles catalog.TitleIndex
	cache  *metadata.Cache
	logger *slog.Logger
}

// New reads up to limit rows of the links and movies files. Movie ids stay the
// raw strings from the links file.
func New(paths Paths, limit int, cache *metadata.Cache, logger *slog.Logger) *Links {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l := &Links{
		keys:   result.NewMapping[string, string](0),
		cache:  cache,
		logger: logger,
	}

	table, err := tabular.ReadLimited(paths.Links, limit)
	if err != nil {
		logger.Warn("failed to read links file", "path", paths.Links, "error", err)
		table = &tabular.Table{}
	}
	if len(table.Header) >= 2 {
		idCol, keyCol := table.Header[0], table.Header[1]
		for _, row := range table.Rows {
			l.ids = append(l.ids, row[idCol])
			l.keys.Set(row[idCol], row[keyCol])
		}
	}

	l.titles, err = catalog.LoadTitleIndex(paths.Movies, limit)
	if err != nil {
		logger.Warn("failed to read movie titles", "path", paths.Movies, "error", err)
	}

	logger.Debug("links loaded", "links", l.keys.Len(), "titles", len(l.titles))

	return l
}

// Len returns the number of rows read from the links file.
func (l *Links) Len() int {
	return len(l.ids)
}

// IDs returns the first n movie ids of the links slice.
func (l *Links) IDs(n int) result.Sequence[string] {
	n = min(max(n, 0), len(l.ids))
	return slices.Clone(l.ids[:n])
}

// Key returns the IMDb key linked to movieID. The lookup is by the raw id
// string: "1" matches but "01" does not.
func (l *Links) Key(movieID string) (string, bool) {
	return l.keys.Get(movieID)
}

// Title returns the display title for movieID, or "Movie <id>" when unknown.
func (l *Links) Title(movieID string) string {
	fallback := "Movie " + movieID
	id, err := strconv.Atoi(movieID)
	if err != nil {
		return fallback
	}
	return l.titles.Title(id, fallback)
}

// IMDB enriches every listed movie that has a link and returns one row per
// movie: id, title, then the requested fields. Unlinked ids are skipped and
// unknown fields yield nil. Rows are ordered by numeric id, highest first;
// ids that are not numbers sort last.
func (l *Links) IMDB(ctx context.Context, movieIDs []string, fields []string) result.Rows {
	l.logger.Debug("building imdb rows", "movies", len(movieIDs), "fields", fields)

	rows := make([][]any, 0, len(movieIDs))
	for _, id := range movieIDs {
		key, ok := l.Key(id)
		if !ok {
			continue
		}
		rec := l.cache.GetOrFetch(ctx, key)

		row := make([]any, 0, len(fields)+2)
		row = append(row, id, l.Title(id))
		for _, f := range fields {
			row = append(row, rec.Field(f))
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b []any) int {
		return compareIDsDesc(a[0].(string), b[0].(string))
	})

	return result.Rows{
		Headers: append([]string{"Movie ID", "Title"}, fields...),
		Values:  rows,
	}
}

func compareIDsDesc(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr != nil && bErr != nil:
		return 0
	case aErr != nil:
		return 1
	case bErr != nil:
		return -1
	}
	return cmp.Compare(bi, ai)
}

// cached visits the cached record of every linked movie in links order.
// Movies whose key was never enriched are skipped.
func (l *Links) cached(visit func(movieID string, rec metadata.Record)) {
	records := l.cache.Snapshot()
	for _, e := range l.keys.Entries() {
		rec, ok := records[e.Value]
		if !ok {
			continue
		}
		visit(e.Key, rec)
	}
}

// rank maps display titles to the metric of each eligible cached movie and
// keeps the top n. Movies sharing a title collapse onto the first position.
func rank[V cmp.Ordered](l *Links, n int, metric func(metadata.Record) (V, bool)) *result.Mapping[string, V] {
	values := result.NewMapping[string, V](0)
	l.cached(func(movieID string, rec metadata.Record) {
		if v, ok := metric(rec); ok {
			values.Set(l.Title(movieID), v)
		}
	})
	return stats.TopDesc(values, n)
}

// TopDirectors counts cached movies per director, most prolific first.
func (l *Links) TopDirectors(n int) *result.Mapping[string, int] {
	var directors []string
	l.cached(func(_ string, rec metadata.Record) {
		if rec.Director != "" {
			directors = append(directors, rec.Director)
		}
	})
	return stats.TopDesc(stats.Count(directors), n)
}

// MostExpensive ranks movies with a known budget by budget.
func (l *Links) MostExpensive(n int) *result.Mapping[string, float64] {
	return rank(l, n, func(rec metadata.Record) (float64, bool) {
		return rec.Budget, rec.Budget > 0
	})
}

// MostProfitable ranks movies with both budget and gross by gross minus budget.
func (l *Links) MostProfitable(n int) *result.Mapping[string, float64] {
	return rank(l, n, func(rec metadata.Record) (float64, bool) {
		return rec.Gross - rec.Budget, rec.Budget > 0 && rec.Gross > 0
	})
}

// Longest ranks movies with a known runtime by runtime in minutes.
func (l *Links) Longest(n int) *result.Mapping[string, int] {
	return rank(l, n, func(rec metadata.Record) (int, bool) {
		return rec.Runtime, rec.Runtime > 0
	})
}

// TopCostPerMinute ranks movies with both budget and runtime by budget per
// minute, rounded to two decimals.
func (l *Links) TopCostPerMinute(n int) *result.Mapping[string, float64] {
	return rank(l, n, func(rec metadata.Record) (float64, bool) {
		if rec.Budget <= 0 || rec.Runtime <= 0 {
			return 0, false
		}
		return stats.Round2(rec.Budget / float64(rec.Runtime)), true
	})
}

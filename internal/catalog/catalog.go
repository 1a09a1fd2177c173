// Package catalog builds the movie catalog from the bounded movies file and
// answers distribution and ranking queries over it.
package catalog

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/listenupapp/movielens/internal/result"
	"github.com/listenupapp/movielens/internal/stats"
	"github.com/listenupapp/movielens/internal/tabular"
)

// Paths locates the movies file and the companion files that decide admission.
type Paths struct {
	Movies  string
	Ratings string
	Tags    string
}

// Catalog holds the admitted movies in file order.
type Catalog struct {
	movies *result.Mapping[int, Movie]
	logger *slog.Logger
}

// New reads up to limit rows of each file. A movie is admitted only when its id
// appears within the bounded ratings or tags slice. Unreadable files leave the
// catalog empty and are logged.
func New(paths Paths, limit int, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Catalog{
		movies: result.NewMapping[int, Movie](0),
		logger: logger,
	}

	ids, err := tabular.ReferencedIDs(limit, paths.Ratings, paths.Tags)
	if err != nil {
		logger.Warn("failed to read companion files", "error", err)
	}

	table, err := tabular.ReadLimited(paths.Movies, limit)
	if err != nil {
		logger.Warn("failed to read movies file", "path", paths.Movies, "error", err)
		return c
	}
	if len(table.Header) < 2 {
		return c
	}

	idCol, titleCol := table.Header[0], table.Header[1]
	genresCol := ""
	if len(table.Header) > 2 {
		genresCol = table.Header[2]
	}

	for _, row := range table.Rows {
		id, err := strconv.Atoi(row[idCol])
		if err != nil {
			continue
		}
		if !ids.Has(id) {
			continue
		}

		m := Movie{ID: id, Title: row[titleCol]}
		if genresCol != "" {
			m.Genres = row[genresCol]
		}
		if year, ok := ParseYear(m.Title); ok {
			m.Year = year
		}
		c.movies.Set(id, m)
	}

	logger.Debug("movie catalog loaded",
		"movies", c.movies.Len(),
		"referenced_ids", len(ids),
	)

	return c
}

// Len returns the number of admitted movies.
func (c *Catalog) Len() int {
	return c.movies.Len()
}

// Movie returns the admitted movie with the given id.
func (c *Catalog) Movie(id int) (Movie, bool) {
	return c.movies.Get(id)
}

// Movies returns the admitted movies in file order.
func (c *Catalog) Movies() []Movie {
	return c.movies.Values()
}

// DistributionByYear counts movies per release year, most frequent first.
// Movies without a parsed year are skipped.
func (c *Catalog) DistributionByYear() *result.Mapping[int, int] {
	years := make([]int, 0, c.movies.Len())
	for _, m := range c.movies.Values() {
		if m.HasYear() {
			years = append(years, m.Year)
		}
	}
	return stats.SortDesc(stats.Count(years))
}

// DistributionByGenre counts movies per genre, most frequent first.
func (c *Catalog) DistributionByGenre() *result.Mapping[string, int] {
	var genres []string
	for _, m := range c.movies.Values() {
		genres = append(genres, m.GenreList()...)
	}
	return stats.SortDesc(stats.Count(genres))
}

// TopByGenreCount maps the titles of the n movies with the most genres to their
// genre count. Movies sharing a title collapse onto the first occurrence's
// position with the last occurrence's count.
func (c *Catalog) TopByGenreCount(n int) *result.Mapping[string, int] {
	counts := result.NewMapping[string, int](c.movies.Len())
	for _, m := range c.movies.Values() {
		counts.Set(m.Title, len(m.GenreList()))
	}
	return stats.TopDesc(counts, n)
}

// Listing returns every admitted movie as id -> {title, genres, year}. A missing
// year is nil.
func (c *Catalog) Listing() *result.Nested {
	listing := result.NewNested(ListingFields...)
	for _, m := range c.movies.Values() {
		listing.Add(m.ID, m.Record())
	}
	return listing
}

// Package ratings computes grouped statistics over the bounded ratings file.
//
// The engine loads ratings once and exposes two views that share the same
// grouping and ranking code: Movies groups by rated movie and labels results
// with titles, Users groups by rater and labels results with the rater id.
package ratings

import (
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/tabular"
)

// Rating is one row of the ratings file.
type Rating struct {
	UserID    int
	MovieID   int
	Score     float64
	Timestamp int64
}

// Paths locates the ratings file and the movies file used for titles.
type Paths struct {
	Ratings string
	Movies  string
}

// Engine owns the loaded ratings.
type Engine struct {
	paths  Paths
	limit  int
	logger *slog.Logger

	once    sync.Once
	ratings []Rating
	titles  catalog.TitleIndex
}

// New creates an engine over the given files. Data is read on the first Load
// or query.
func New(paths Paths, limit int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		paths:  paths,
		limit:  limit,
		logger: logger,
	}
}

// FromRatings creates an already loaded engine.
func FromRatings(ratings []Rating, titles catalog.TitleIndex) *Engine {
	e := &Engine{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		ratings: ratings,
		titles:  titles,
	}
	if e.titles == nil {
		e.titles = catalog.TitleIndex{}
	}
	e.once.Do(func() {})
	return e
}

// Load reads the ratings and titles. Calls after the first are no-ops.
func (e *Engine) Load() {
	e.once.Do(e.load)
}

func (e *Engine) load() {
	table, err := tabular.ReadLimited(e.paths.Ratings, e.limit)
	if err != nil {
		e.logger.Warn("failed to read ratings file", "path", e.paths.Ratings, "error", err)
		table = &tabular.Table{}
	}

	if len(table.Header) >= 4 {
		cols := table.Header
		e.ratings = make([]Rating, 0, table.Len())
		for _, row := range table.Rows {
			r, ok := parseRating(row, cols)
			if !ok {
				continue
			}
			e.ratings = append(e.ratings, r)
		}
	}

	e.titles, err = catalog.LoadTitleIndex(e.paths.Movies, e.limit)
	if err != nil {
		e.logger.Warn("failed to read movie titles", "path", e.paths.Movies, "error", err)
	}

	e.logger.Debug("ratings loaded",
		"ratings", len(e.ratings),
		"titles", len(e.titles),
	)
}

func parseRating(row tabular.Row, cols []string) (Rating, bool) {
	userID, err := strconv.Atoi(row[cols[0]])
	if err != nil {
		return Rating{}, false
	}
	movieID, err := strconv.Atoi(row[cols[1]])
	if err != nil {
		return Rating{}, false
	}
	score, err := strconv.ParseFloat(row[cols[2]], 64)
	if err != nil {
		return Rating{}, false
	}
	ts, err := strconv.ParseInt(row[cols[3]], 10, 64)
	if err != nil {
		return Rating{}, false
	}
	return Rating{UserID: userID, MovieID: movieID, Score: score, Timestamp: ts}, true
}

// Len returns the number of loaded ratings.
func (e *Engine) Len() int {
	e.Load()
	return len(e.ratings)
}

// Movies returns the per-movie view.
func (e *Engine) Movies() *MovieView {
	return &MovieView{group: group[string]{
		engine: e,
		key:    func(r Rating) int { return r.MovieID },
		label: func(id int) string {
			return e.titles.Title(id, strconv.Itoa(id))
		},
	}}
}

// Users returns the per-rater view.
func (e *Engine) Users() *UserView {
	return &UserView{group: group[int]{
		engine: e,
		key:    func(r Rating) int { return r.UserID },
		label:  func(id int) int { return id },
	}}
}

func (e *Engine) all() []Rating {
	e.Load()
	return e.ratings
}

package ratings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/stats"
)

func ts(year int) int64 {
	return time.Date(year, time.June, 15, 12, 0, 0, 0, time.Local).Unix()
}

func testEngine() *Engine {
	return FromRatings([]Rating{
		{UserID: 1, MovieID: 10, Score: 4.0, Timestamp: ts(2000)},
		{UserID: 1, MovieID: 20, Score: 4.0, Timestamp: ts(2000)},
		{UserID: 2, MovieID: 10, Score: 5.0, Timestamp: ts(2005)},
		{UserID: 2, MovieID: 20, Score: 3.0, Timestamp: ts(2005)},
		{UserID: 2, MovieID: 30, Score: 2.0, Timestamp: ts(1999)},
		{UserID: 3, MovieID: 10, Score: 4.5, Timestamp: ts(2005)},
	}, catalog.TitleIndex{10: "Toy Story (1995)", 20: "Jumanji (1995)"})
}

func TestMovieView_Distributions(t *testing.T) {
	movies := testEngine().Movies()

	byYear := movies.DistributionByYear()
	assert.Equal(t, []int{1999, 2000, 2005}, byYear.Keys())
	assert.Equal(t, []int{1, 2, 3}, byYear.Values())

	byScore := movies.DistributionByScore()
	assert.Equal(t, []float64{2.0, 3.0, 4.0, 4.5, 5.0}, byScore.Keys())
	assert.Equal(t, []int{1, 1, 2, 1, 1}, byScore.Values())
}

func TestMovieView_TopByCount(t *testing.T) {
	movies := testEngine().Movies()

	top := movies.TopByCount(2)
	assert.Equal(t, []string{"Toy Story (1995)", "Jumanji (1995)"}, top.Keys())
	assert.Equal(t, []int{3, 2}, top.Values())

	all := movies.TopByCount(10)
	n, ok := all.Get("30")
	require.True(t, ok, "unknown titles fall back to the id")
	assert.Equal(t, 1, n)
}

func TestMovieView_TopByMetric(t *testing.T) {
	movies := testEngine().Movies()

	tests := []struct {
		name   string
		metric stats.Metric
		keys   []string
		values []float64
	}{
		{
			name:   "default mean",
			metric: nil,
			keys:   []string{"Toy Story (1995)", "Jumanji (1995)", "30"},
			values: []float64{4.5, 3.5, 2.0},
		},
		{
			name:   "median",
			metric: stats.Median,
			keys:   []string{"Toy Story (1995)", "Jumanji (1995)", "30"},
			values: []float64{4.5, 3.5, 2.0},
		},
		{
			name:   "variance",
			metric: stats.Variance,
			keys:   []string{"Jumanji (1995)", "Toy Story (1995)", "30"},
			values: []float64{0.25, 0.17, 0.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := movies.TopByMetric(3, tt.metric)
			assert.Equal(t, tt.keys, top.Keys())
			assert.Equal(t, tt.values, top.Values())
		})
	}

	assert.Equal(t, movies.TopByMetric(2, stats.Variance).Keys(), movies.TopByVariance(2).Keys())
}

func TestUserView(t *testing.T) {
	users := testEngine().Users()

	byCount := users.DistributionByCount()
	assert.Equal(t, []int{1, 2, 3}, byCount.Keys())
	assert.Equal(t, []int{1, 1, 1}, byCount.Values())

	byMean := users.DistributionByMetric(nil)
	assert.Equal(t, []float64{3.33, 4.0, 4.5}, byMean.Keys())

	top := users.TopByCount(1)
	assert.Equal(t, []int{2}, top.Keys())
	assert.Equal(t, []int{3}, top.Values())
}

func TestUserView_TopByVariance(t *testing.T) {
	users := testEngine().Users()

	top := users.TopByVariance(3)
	keys := top.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, 2, keys[0], "rater 2 has the spread-out scores")

	v, _ := top.Get(2)
	assert.Equal(t, 1.56, v)
	v, _ = top.Get(3)
	assert.Equal(t, 0.0, v)

	values := top.Values()
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i-1], values[i])
	}
}

func TestEngine_LoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	ratingsPath := filepath.Join(dir, "ratings.csv")
	moviesPath := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(ratingsPath, []byte("userId,movieId,rating,timestamp\n"+
		"1,1,4.0,964982703\n"+
		"1,3,bad,964981247\n"+
		"2,1,3.0,964982224\n"), 0o644))
	require.NoError(t, os.WriteFile(moviesPath, []byte("movieId,title,genres\n"+
		"1,Toy Story (1995),Adventure\n"), 0o644))

	e := New(Paths{Ratings: ratingsPath, Movies: moviesPath}, 1000, nil)
	e.Load()
	first := e.Movies().TopByMetric(5, nil)

	e.Load()
	assert.Equal(t, 2, e.Len(), "second load is a no-op")
	assert.Equal(t, first.Keys(), e.Movies().TopByMetric(5, nil).Keys())
	assert.Equal(t, []string{"Toy Story (1995)"}, first.Keys())
	assert.Equal(t, []float64{3.5}, first.Values())
}

func TestEngine_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	e := New(Paths{
		Ratings: filepath.Join(dir, "ratings.csv"),
		Movies:  filepath.Join(dir, "movies.csv"),
	}, 1000, nil)

	movies, users := e.Movies(), e.Users()
	assert.Equal(t, 0, movies.DistributionByYear().Len())
	assert.Equal(t, 0, movies.DistributionByScore().Len())
	assert.Equal(t, 0, movies.TopByCount(5).Len())
	assert.Equal(t, 0, movies.TopByMetric(5, nil).Len())
	assert.Equal(t, 0, users.DistributionByCount().Len())
	assert.Equal(t, 0, users.DistributionByMetric(stats.Median).Len())
	assert.Equal(t, 0, users.TopByVariance(5).Len())
}

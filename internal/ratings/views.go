package ratings

import (
	"time"

	"github.com/listenupapp/movielens/internal/result"
	"github.com/listenupapp/movielens/internal/stats"
)

// group is the grouping and ranking code shared by both views. key picks the
// grouping id from a rating and label turns a ranked id into its display key.
type group[L comparable] struct {
	engine *Engine
	key    func(Rating) int
	label  func(int) L
}

func (g group[L]) counts() *result.Mapping[int, int] {
	all := g.engine.all()
	ids := make([]int, len(all))
	for i, r := range all {
		ids[i] = g.key(r)
	}
	return stats.Count(ids)
}

func (g group[L]) scores() *result.Mapping[int, []float64] {
	return stats.Group(g.engine.all(), g.key, func(r Rating) float64 { return r.Score })
}

func (g group[L]) summarize(metric stats.Metric) *result.Mapping[int, float64] {
	if metric == nil {
		metric = stats.Mean
	}
	return stats.Summarize(g.scores(), metric)
}

// TopByCount maps the n most rated ids to their rating count.
func (g group[L]) TopByCount(n int) *result.Mapping[L, int] {
	return relabel(stats.TopDesc(g.counts(), n), g.label)
}

// TopByMetric maps the n ids with the highest metric value to that value,
// rounded to two decimals. A nil metric is the mean.
func (g group[L]) TopByMetric(n int, metric stats.Metric) *result.Mapping[L, float64] {
	return relabel(stats.TopDesc(g.summarize(metric), n), g.label)
}

// TopByVariance is TopByMetric with the population variance.
func (g group[L]) TopByVariance(n int) *result.Mapping[L, float64] {
	return g.TopByMetric(n, stats.Variance)
}

// relabel rewrites ranked ids to display keys, keeping rank order. Ids that
// share a label collapse onto the first position with the last value.
func relabel[L comparable, V any](ranked *result.Mapping[int, V], label func(int) L) *result.Mapping[L, V] {
	out := result.NewMapping[L, V](ranked.Len())
	for _, e := range ranked.Entries() {
		out.Set(label(e.Key), e.Value)
	}
	return out
}

// MovieView groups ratings by movie and labels results with movie titles,
// falling back to the id when the title is unknown.
type MovieView struct {
	group[string]
}

// DistributionByYear counts ratings per calendar year of submission in the
// local time zone, ordered by year.
func (v *MovieView) DistributionByYear() *result.Mapping[int, int] {
	all := v.engine.all()
	years := make([]int, len(all))
	for i, r := range all {
		years[i] = time.Unix(r.Timestamp, 0).Year()
	}
	return stats.SortByKey(stats.Count(years))
}

// DistributionByScore counts ratings per score, ordered by score.
func (v *MovieView) DistributionByScore() *result.Mapping[float64, int] {
	all := v.engine.all()
	scores := make([]float64, len(all))
	for i, r := range all {
		scores[i] = r.Score
	}
	return stats.SortByKey(stats.Count(scores))
}

// UserView groups ratings by rater. Results are keyed by rater id.
type UserView struct {
	group[int]
}

// DistributionByCount maps k to the number of raters with exactly k ratings,
// ordered by k.
func (v *UserView) DistributionByCount() *result.Mapping[int, int] {
	return stats.SortByKey(stats.Count(v.counts().Values()))
}

// DistributionByMetric maps each rounded metric value to the number of raters
// having it, ordered by value. A nil metric is the mean.
func (v *UserView) DistributionByMetric(metric stats.Metric) *result.Mapping[float64, int] {
	return stats.SortByKey(stats.Count(v.summarize(metric).Values()))
}

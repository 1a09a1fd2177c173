// Package tags analyzes the free-text tags of the bounded tags file.
//
// Word-count, length and substring queries run over the distinct tag texts
// (case-sensitive, first occurrence order). Popularity runs over every tag
// occurrence, so duplicates count.
package tags

import (
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/listenupapp/movielens/internal/result"
	"github.com/listenupapp/movielens/internal/stats"
	"github.com/listenupapp/movielens/internal/tabular"
)

// Tag is one row of the tags file.
type Tag struct {
	UserID    int
	MovieID   int
	Text      string
	Timestamp int64
}

// Analytics holds the loaded tags.
type Analytics struct {
	tags   []Tag
	all    []string
	unique []string
}

// New reads up to limit rows of the tags file at path. Rows with unparseable
// ids or timestamps are skipped. A missing or unreadable file yields empty
// analytics.
func New(path string, limit int, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	table, err := tabular.ReadLimited(path, limit)
	if err != nil {
		logger.Warn("failed to read tags file", "path", path, "error", err)
		return FromTags(nil)
	}
	if len(table.Header) < 4 {
		return FromTags(nil)
	}

	cols := table.Header
	loaded := make([]Tag, 0, table.Len())
	for _, row := range table.Rows {
		userID, err1 := strconv.Atoi(row[cols[0]])
		movieID, err2 := strconv.Atoi(row[cols[1]])
		ts, err3 := strconv.ParseInt(row[cols[3]], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		loaded = append(loaded, Tag{
			UserID:    userID,
			MovieID:   movieID,
			Text:      row[cols[2]],
			Timestamp: ts,
		})
	}

	logger.Debug("tags loaded", "path", path, "tags", len(loaded))

	return FromTags(loaded)
}

// FromTags builds analytics over already loaded tags.
func FromTags(loaded []Tag) *Analytics {
	a := &Analytics{tags: loaded}
	seen := make(map[string]struct{}, len(loaded))
	for _, t := range loaded {
		a.all = append(a.all, t.Text)
		if _, ok := seen[t.Text]; ok {
			continue
		}
		seen[t.Text] = struct{}{}
		a.unique = append(a.unique, t.Text)
	}
	return a
}

// Len returns the number of tag occurrences.
func (a *Analytics) Len() int {
	return len(a.all)
}

// TopByWordCount maps the n distinct tags with the most whitespace-separated
// words to their word count.
func (a *Analytics) TopByWordCount(n int) *result.Mapping[string, int] {
	words := result.NewMapping[string, int](len(a.unique))
	for _, t := range a.unique {
		words.Set(t, len(strings.Fields(t)))
	}
	return stats.TopDesc(words, n)
}

// Longest returns the n distinct tags with the most characters, longest first.
func (a *Analytics) Longest(n int) result.Sequence[string] {
	lengths := result.NewMapping[string, int](len(a.unique))
	for _, t := range a.unique {
		lengths.Set(t, len([]rune(t)))
	}
	return result.Sequence[string](stats.TopDesc(lengths, n).Keys())
}

// IntersectionOfTop returns the tags that are both among the n with the most
// words and among the n longest. The result is a set; its order carries no
// meaning.
func (a *Analytics) IntersectionOfTop(n int) result.Sequence[string] {
	byWords := a.TopByWordCount(n)
	out := result.Sequence[string]{}
	for _, t := range a.Longest(n) {
		if byWords.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// MostPopular maps the n most frequent tags to their occurrence count,
// duplicates included.
func (a *Analytics) MostPopular(n int) *result.Mapping[string, int] {
	return stats.TopDesc(stats.Count(a.all), n)
}

// Containing returns the distinct tags containing word, ignoring case, in
// alphabetical order.
func (a *Analytics) Containing(word string) result.Sequence[string] {
	lower := cases.Lower(language.Und)
	needle := lower.String(word)

	out := result.Sequence[string]{}
	for _, t := range a.unique {
		if strings.Contains(lower.String(t), needle) {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return out
}

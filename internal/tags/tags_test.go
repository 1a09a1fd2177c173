package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fromTexts(texts ...string) *Analytics {
	loaded := make([]Tag, 0, len(texts))
	for i, text := range texts {
		loaded = append(loaded, Tag{UserID: 1, MovieID: i + 1, Text: text})
	}
	return FromTags(loaded)
}

func TestMostPopular_CountsDuplicates(t *testing.T) {
	a := fromTexts("pixar", "pixar", "very scary", "animals")

	top := a.MostPopular(1)
	assert.Equal(t, []string{"pixar"}, top.Keys())
	assert.Equal(t, []int{2}, top.Values())
}

func TestTopByWordCount(t *testing.T) {
	a := fromTexts("pixar", "pixar", "very scary", "animals", "based on a book")

	top := a.TopByWordCount(5)
	require.Equal(t, 4, top.Len(), "duplicates are removed before ranking")
	assert.Equal(t, []string{"based on a book", "very scary", "pixar", "animals"}, top.Keys())

	words, ok := top.Get("very scary")
	require.True(t, ok)
	assert.Equal(t, 2, words)
}

func TestLongest(t *testing.T) {
	a := fromTexts("pixar", "pixar", "very scary", "animals")

	assert.Equal(t, []string{"very scary", "animals"}, []string(a.Longest(2)))
	assert.Len(t, a.Longest(10), 3)
	assert.Empty(t, a.Longest(0))
}

func TestIntersectionOfTop(t *testing.T) {
	a := fromTexts("a b c", "abcdefghijklmnop", "x y", "short")

	// Top 2 by words: "a b c", "x y". Top 2 by length: "abcdefghijklmnop", "a b c".
	got := a.IntersectionOfTop(2)
	assert.ElementsMatch(t, []string{"a b c"}, []string(got))
}

func TestContaining(t *testing.T) {
	a := fromTexts("Dark Hero", "dark comedy", "funny", "dark comedy", "DARKNESS")

	got := a.Containing("dark")
	assert.Equal(t, []string{"DARKNESS", "Dark Hero", "dark comedy"}, []string(got))
	assert.Empty(t, a.Containing("zzz"))
}

func TestContaining_LowercaseOnly(t *testing.T) {
	a := fromTexts("Straße", "STRASSE film", "Éclair")

	assert.Equal(t, []string{"STRASSE film"}, []string(a.Containing("ss")))
	assert.Equal(t, []string{"Straße"}, []string(a.Containing("STRAßE")))
	assert.Equal(t, []string{"Éclair"}, []string(a.Containing("éCL")))
}

func TestNew_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.csv")
	content := "userId,movieId,tag,timestamp\n" +
		"2,60756,funny,1445714994\n" +
		"2,60756,\"Highly quotable, really\",1445714996\n" +
		"2,60756,funny,1445714997\n" +
		"x,1,skipped,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	a := New(path, 1000, nil)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, []string{"funny", "Highly quotable, really"}, a.unique)
}

func TestNew_MissingFile(t *testing.T) {
	a := New(filepath.Join(t.TempDir(), "tags.csv"), 1000, nil)

	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, a.TopByWordCount(5).Len())
	assert.Empty(t, a.Longest(5))
	assert.Empty(t, a.IntersectionOfTop(5))
	assert.Equal(t, 0, a.MostPopular(5).Len())
	assert.Empty(t, a.Containing("a"))
}

package tabular

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead_QuotedCommas(t *testing.T) {
	input := "movieId,title,genres\n" +
		"1,Toy Story (1995),Adventure|Animation\n" +
		"11,\"American President, The (1995)\",Comedy|Drama|Romance\n"

	table, err := Read(strings.NewReader(input), 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"movieId", "title", "genres"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "American President, The (1995)", table.Rows[1]["title"])
	assert.Equal(t, "Comedy|Drama|Romance", table.Rows[1]["genres"])
}

func TestRead_Limit(t *testing.T) {
	input := "a,b\n1,2\n3,4\n5,6\n"

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "below row count", limit: 2, want: 2},
		{name: "above row count", limit: 10, want: 3},
		{name: "zero", limit: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Read(strings.NewReader(input), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Len())
		})
	}
}

func TestRead_DropsMismatchedRowsWithinLimit(t *testing.T) {
	input := "a,b\n1,2\n3\n5,6\n7,8\n"

	table, err := Read(strings.NewReader(input), 3)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1", table.Rows[0]["a"])
	assert.Equal(t, "5", table.Rows[1]["a"])
}

func TestRead_TrimsFields(t *testing.T) {
	table, err := Read(strings.NewReader(" a , b \n 1 ,\" x \"\n"), 5)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1", table.Rows[0]["a"])
	assert.Equal(t, "x", table.Rows[0]["b"])
}

func TestRead_Empty(t *testing.T) {
	table, err := Read(strings.NewReader(""), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Header)
}

func TestReadLimited_MissingFile(t *testing.T) {
	table, err := ReadLimited(filepath.Join(t.TempDir(), "nope.csv"), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestReferencedIDs(t *testing.T) {
	dir := t.TempDir()
	ratings := writeFile(t, dir, "ratings.csv",
		"userId,movieId,rating,timestamp\n1,1,4.0,964982703\n1,3,4.0,964981247\n2,50,5.0,964982931\n")
	tags := writeFile(t, dir, "tags.csv",
		"userId,movieId,tag,timestamp\n2,60756,funny,1445714994\n2,3,\"dark, hero\",1445714996\n")

	ids, err := ReferencedIDs(2, ratings, tags, filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)

	assert.Len(t, ids, 3)
	assert.True(t, ids.Has(1))
	assert.True(t, ids.Has(3))
	assert.True(t, ids.Has(60756))
	assert.False(t, ids.Has(50), "third ratings row is beyond the limit")
}

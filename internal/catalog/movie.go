package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// NoGenres is the genre field value for a movie without genres.
const NoGenres = "(no genres listed)"

// Only a year closing the title counts; "Title (1995)." does not match.
var yearPattern = regexp.MustCompile(`\((\d{4})\)$`)

// Movie is one admitted catalog entry.
type Movie struct {
	ID     int
	Title  string
	Genres string
	// Year is zero when the title carries no trailing year.
	Year int
}

// HasYear reports whether a release year was parsed from the title.
func (m Movie) HasYear() bool {
	return m.Year != 0
}

// ListingFields are the record fields of a catalog listing.
var ListingFields = []string{"title", "genres", "year"}

// Record returns the listing record of the movie. A missing year is nil.
func (m Movie) Record() map[string]any {
	var year any
	if m.HasYear() {
		year = m.Year
	}
	return map[string]any{
		"title":  m.Title,
		"genres": m.Genres,
		"year":   year,
	}
}

// GenreList splits the pipe-delimited genre field. The no-genres sentinel and
// an empty field yield nil.
func (m Movie) GenreList() []string {
	if m.Genres == "" || m.Genres == NoGenres {
		return nil
	}
	return strings.Split(m.Genres, "|")
}

// ParseYear extracts the parenthesized four-digit year ending the trimmed title.
func ParseYear(title string) (int, bool) {
	match := yearPattern.FindStringSubmatch(strings.TrimSpace(title))
	if match == nil {
		return 0, false
	}
	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return year, true
}

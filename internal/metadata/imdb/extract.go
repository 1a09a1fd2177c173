package imdb

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"

	"github.com/listenupapp/movielens/internal/metadata"
)

var (
	durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)
	directorLabel   = regexp.MustCompile(`(?i)^Director`)
	budgetPattern   = regexp.MustCompile(`(?i)Budget.*?([$€£][\d,]+)`)
	grossPattern    = regexp.MustCompile(`(?i)(?:Gross worldwide|Cumulative Worldwide Gross).*?([$€£][\d,]+)`)
	nonNumeric      = regexp.MustCompile(`[^\d.]`)
)

// page is a parsed title page shared by every extractor.
type page struct {
	doc  *html.Node
	text string
}

// partial is one extractor's findings. Nil fields were not found.
type partial struct {
	director *string
	runtime  *int
	budget   *float64
	gross    *float64
}

// extractor reads some fields from a page. It never fails; a miss leaves the
// field nil.
type extractor func(p *page) partial

// extractors run in priority order. A later extractor only fills fields the
// earlier ones left empty.
var extractors = []extractor{
	structuredData,
	directorCredit,
	moneyFigures,
}

// Extract reads the best-effort record from a title page.
func Extract(body []byte) metadata.Record {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return metadata.Record{}
	}
	p := &page{doc: doc, text: textContent(doc)}

	var acc partial
	for _, ex := range extractors {
		acc.merge(ex(p))
	}
	return acc.record()
}

func (acc *partial) merge(found partial) {
	if acc.director == nil {
		acc.director = found.director
	}
	if acc.runtime == nil {
		acc.runtime = found.runtime
	}
	if acc.budget == nil {
		acc.budget = found.budget
	}
	if acc.gross == nil {
		acc.gross = found.gross
	}
}

func (acc partial) record() metadata.Record {
	var rec metadata.Record
	if acc.director != nil {
		rec.Director = *acc.director
	}
	if acc.runtime != nil {
		rec.Runtime = *acc.runtime
	}
	if acc.budget != nil {
		rec.Budget = *acc.budget
	}
	if acc.gross != nil {
		rec.Gross = *acc.gross
	}
	return rec
}

type linkedPerson struct {
	Name string `json:"name"`
}

// structuredData reads the director and duration from the first JSON-LD block.
func structuredData(p *page) partial {
	var out partial

	script := findFirst(p.doc, func(n *html.Node) bool {
		return isElement(n, "script") &&
			strings.EqualFold(strings.TrimSpace(attr(n, "type")), "application/ld+json")
	})
	if script == nil {
		return out
	}

	var ld struct {
		Director json.RawMessage `json:"director"`
		Duration json.RawMessage `json:"duration"`
	}
	if err := json.Unmarshal([]byte(rawText(script)), &ld); err != nil {
		return out
	}

	if name := directorName(ld.Director); name != "" {
		out.director = &name
	}

	var duration string
	if len(ld.Duration) > 0 && json.Unmarshal(ld.Duration, &duration) == nil {
		if m := durationPattern.FindStringSubmatch(duration); m != nil {
			hours, _ := strconv.Atoi(m[1])
			minutes, _ := strconv.Atoi(m[2])
			total := hours*60 + minutes
			out.runtime = &total
		}
	}

	return out
}

// directorName accepts either a list of people, taking the first, or a single person.
func directorName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var people []linkedPerson
	if err := json.Unmarshal(raw, &people); err == nil {
		if len(people) == 0 {
			return ""
		}
		return people[0].Name
	}
	var person linkedPerson
	if err := json.Unmarshal(raw, &person); err == nil {
		return person.Name
	}
	return ""
}

// directorCredit finds the first text starting with "Director" and takes the
// person link in the enclosing list item.
func directorCredit(p *page) partial {
	var out partial

	label := findFirst(p.doc, func(n *html.Node) bool {
		return n.Type == html.TextNode && !inScript(n) && directorLabel.MatchString(n.Data)
	})
	if label == nil {
		return out
	}

	item := closest(label, "li")
	if item == nil {
		return out
	}

	link := findFirst(item, func(n *html.Node) bool {
		return isElement(n, "a") && strings.Contains(attr(n, "href"), "/name/")
	})
	if link == nil {
		return out
	}

	if name := strings.TrimSpace(textContent(link)); name != "" {
		out.director = &name
	}
	return out
}

// moneyFigures scans the page text for the budget and the worldwide gross.
func moneyFigures(p *page) partial {
	var out partial
	out.budget = matchAmount(budgetPattern, p.text)
	out.gross = matchAmount(grossPattern, p.text)
	return out
}

func matchAmount(pattern *regexp.Regexp, text string) *float64 {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(m[1], ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

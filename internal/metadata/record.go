// Package metadata holds the external metadata record and the persisted
// fetch-or-reuse cache keyed by external id.
package metadata

// Record field names, as used in cache files and field selections.
const (
	FieldDirector = "Director"
	FieldBudget   = "Budget"
	FieldGross    = "Cumulative Worldwide Gross"
	FieldRuntime  = "Runtime"
)

// Fields lists every recognized record field.
var Fields = []string{FieldDirector, FieldBudget, FieldGross, FieldRuntime}

// Record is the best-effort metadata scraped for one external key. A record
// with every field at its zero value is a valid "nothing found" outcome.
type Record struct {
	Director string  `json:"Director"`
	Budget   float64 `json:"Budget"`
	Gross    float64 `json:"Cumulative Worldwide Gross"`
	// Runtime in minutes.
	Runtime int `json:"Runtime"`
}

// IsEmpty reports whether nothing was extracted.
func (r Record) IsEmpty() bool {
	return r == Record{}
}

// Field returns the value of the named field. An empty director and an
// unrecognized name yield nil.
func (r Record) Field(name string) any {
	switch name {
	case FieldDirector:
		if r.Director == "" {
			return nil
		}
		return r.Director
	case FieldBudget:
		return r.Budget
	case FieldGross:
		return r.Gross
	case FieldRuntime:
		return r.Runtime
	default:
		return nil
	}
}

// Package predicates holds pure boolean functions over an answer set. They
// decide whether a step or question is currently eligible. Every predicate
// is total: a missing field reads as "" and compares false against any
// non-empty literal.
package predicates

import (
	"strconv"
	"strings"

	"github.com/pders01/interview/internal/canonical"
	"github.com/pders01/interview/internal/models"
)

// Predicate reports whether a step should be asked given the answers so far.
type Predicate func(models.Answers) bool

// field returns the canonical cell for id.
func field(a models.Answers, id string) string {
	return canonical.String(a.Cell(id))
}

// Is matches when the answer to id equals literal canonically.
func Is(id, literal string) Predicate {
	want := canonical.String(literal)
	return func(a models.Answers) bool {
		return want != "" && field(a, id) == want
	}
}

// IsAny matches when the answer to id equals one of literals.
func IsAny(id string, literals ...string) Predicate {
	preds := make([]Predicate, len(literals))
	for i, l := range literals {
		preds[i] = Is(id, l)
	}
	return Any(preds...)
}

// Includes matches when the multi-select answer to id contains literal.
func Includes(id, literal string) Predicate {
	return func(a models.Answers) bool {
		return IncludesMultiSelectValue(a.Cell(id), literal)
	}
}

// Answered matches when id has a non-null, non-blank answer.
func Answered(id string) Predicate {
	return func(a models.Answers) bool {
		v, ok := a.Get(id)
		if !ok || v.IsNull() {
			return false
		}
		return strings.TrimSpace(v.Cell()) != ""
	}
}

// GreaterThan matches when the answer to id parses as a number above n.
func GreaterThan(id string, n float64) Predicate {
	return func(a models.Answers) bool {
		v, ok := a.Get(id)
		if !ok {
			return false
		}
		if v.Kind() == models.KindNumber {
			return v.Num() > n
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v.Cell()), ",", "."), 64)
		return err == nil && f > n
	}
}

// All is the conjunction of preds. All() is true.
func All(preds ...Predicate) Predicate {
	return func(a models.Answers) bool {
		for _, p := range preds {
			if !p(a) {
				return false
			}
		}
		return true
	}
}

// Any is the disjunction of preds. Any() is false.
func Any(preds ...Predicate) Predicate {
	return func(a models.Answers) bool {
		for _, p := range preds {
			if p(a) {
				return true
			}
		}
		return false
	}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(a models.Answers) bool {
		return !p(a)
	}
}

// IncludesMultiSelectValue splits a joined multi-select cell on ';' and
// reports whether any member equals literal canonically.
func IncludesMultiSelectValue(cell, literal string) bool {
	want := canonical.String(literal)
	if want == "" {
		return false
	}
	for _, member := range strings.Split(cell, ";") {
		if canonical.String(member) == want {
			return true
		}
	}
	return false
}

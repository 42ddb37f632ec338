package service

import "github.com/Harshitk-cp/atomspace/internal/domain"

// BindingFilter accepts or rejects a grounding after matching.
type BindingFilter func(Bindings) bool

// QueryBuilder runs a pattern through a PatternMatcher and keeps the
// groundings every filter accepts.
type QueryBuilder struct {
	matcher *PatternMatcher
	pattern domain.Atom
	filters []BindingFilter
	limit   int
}

func NewQuery(matcher *PatternMatcher) *QueryBuilder {
	return &QueryBuilder{matcher: matcher}
}

func (q *QueryBuilder) Pattern(template domain.Atom) *QueryBuilder {
	q.pattern = template
	return q
}

func (q *QueryBuilder) Where(filter BindingFilter) *QueryBuilder {
	if filter != nil {
		q.filters = append(q.filters, filter)
	}
	return q
}

// Limit caps the number of results; zero means unlimited.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

func (q *QueryBuilder) Execute() []Bindings {
	if q.matcher == nil || domain.IsNil(q.pattern) {
		return nil
	}
	var out []Bindings
	for _, b := range q.matcher.Match(q.pattern) {
		if !q.accept(b) {
			continue
		}
		out = append(out, b)
		if q.limit > 0 && len(out) >= q.limit {
			break
		}
	}
	return out
}

func (q *QueryBuilder) accept(b Bindings) bool {
	for _, f := range q.filters {
		if !f(b) {
			return false
		}
	}
	return true
}

// BoundToType accepts groundings where variable is bound to an atom of type t or a subtype.
func BoundToType(variable string, t domain.AtomType) BindingFilter {
	return func(b Bindings) bool {
		a, ok := b[variable]
		return ok && a.Type().IsA(t)
	}
}

// MinStrength accepts groundings where variable's truth value strength is at least s.
func MinStrength(variable string, s float64) BindingFilter {
	return func(b Bindings) bool {
		a, ok := b[variable]
		return ok && a.TruthValue().Strength >= s
	}
}

func MinConfidence(variable string, c float64) BindingFilter {
	return func(b Bindings) bool {
		a, ok := b[variable]
		return ok && a.TruthValue().Confidence >= c
	}
}

// Distinct accepts groundings where the two variables are bound to different atoms.
func Distinct(a, b string) BindingFilter {
	return func(bs Bindings) bool {
		x, okx := bs[a]
		y, oky := bs[b]
		return okx && oky && !x.Equal(y)
	}
}

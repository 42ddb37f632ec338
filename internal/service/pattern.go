package service

import (
	"time"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"go.uber.org/zap"
)

// DefaultMatchMaxSteps caps the unification work spent on a single candidate.
const DefaultMatchMaxSteps = 100000

// Bindings maps variable names to the atoms they were unified with.
type Bindings map[string]domain.Atom

// PatternMatcher finds every consistent grounding of a template in an
// AtomSpace. Any VariableNode in the template is a free variable, matched by
// name; repeated occurrences must bind to equal atoms.
type PatternMatcher struct {
	space  domain.AtomIndex
	logger *zap.Logger

	maxSteps       int
	strictLiterals bool
}

type MatcherOption func(*PatternMatcher)

func WithMatcherLogger(logger *zap.Logger) MatcherOption {
	return func(m *PatternMatcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMaxSteps bounds the number of unification steps per candidate.
// Non-positive values keep the default.
func WithMaxSteps(n int) MatcherOption {
	return func(m *PatternMatcher) {
		if n > 0 {
			m.maxSteps = n
		}
	}
}

// WithStrictLiterals makes a literal node match only the equal atom at its
// position. By default a literal is satisfied wherever it appears as long
// as an equal node exists in the space.
func WithStrictLiterals() MatcherOption {
	return func(m *PatternMatcher) {
		m.strictLiterals = true
	}
}

func NewPatternMatcher(space domain.AtomIndex, opts ...MatcherOption) *PatternMatcher {
	m := &PatternMatcher{
		space:    space,
		logger:   zap.NewNop(),
		maxSteps: DefaultMatchMaxSteps,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match returns one Bindings per grounding, in candidate insertion order.
// A template without variables yields a single empty Bindings when it is
// present in the space and nothing otherwise.
func (m *PatternMatcher) Match(template domain.Atom) []Bindings {
	if domain.IsNil(template) {
		return nil
	}
	start := time.Now()
	results := m.match(template)
	observeMatch(len(results), time.Since(start))
	return results
}

func (m *PatternMatcher) match(template domain.Atom) []Bindings {
	vars := Variables(template)
	if len(vars) == 0 {
		if _, ok := m.space.Find(template); ok {
			return []Bindings{{}}
		}
		return nil
	}

	var results []Bindings
	for _, candidate := range m.candidates(template) {
		b := make(Bindings, len(vars))
		if m.unify(template, candidate, b) && len(b) == len(vars) {
			results = append(results, b)
		}
	}
	return results
}

// candidates lists the stored atoms a template can be grounded against.
func (m *PatternMatcher) candidates(template domain.Atom) []domain.Atom {
	if domain.IsVariable(template) {
		return m.space.All()
	}
	tl, ok := template.(*domain.Link)
	if !ok {
		return nil
	}
	var out []domain.Atom
	for _, a := range m.space.AtomsOfType(tl.Type()) {
		if l, ok := a.(*domain.Link); ok && l.Arity() == tl.Arity() {
			out = append(out, a)
		}
	}
	return out
}

type unifyFrame struct {
	template  domain.Atom
	candidate domain.Atom
}

// unify checks template against candidate position by position, recording
// variable bindings in b. It stops at the first mismatch.
func (m *PatternMatcher) unify(template, candidate domain.Atom, b Bindings) bool {
	stack := []unifyFrame{{template: template, candidate: candidate}}
	steps := 0

	for len(stack) > 0 {
		steps++
		if steps > m.maxSteps {
			m.logger.Warn("pattern unification step limit reached",
				zap.Int("max_steps", m.maxSteps),
				zap.Uint64("candidate_id", uint64(candidate.ID())))
			return false
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch t := f.template.(type) {
		case *domain.Node:
			if domain.IsVariable(t) {
				if !m.bind(t.Name(), f.candidate, b) {
					return false
				}
				continue
			}
			if !m.literalMatches(t, f.candidate) {
				return false
			}
		case *domain.Link:
			c, ok := f.candidate.(*domain.Link)
			if !ok || c.Type() != t.Type() || c.Arity() != t.Arity() {
				return false
			}
			// push in reverse so children are visited left to right
			for i := t.Arity() - 1; i >= 0; i-- {
				tc, _ := t.Child(i)
				cc, _ := c.Child(i)
				stack = append(stack, unifyFrame{template: tc, candidate: cc})
			}
		default:
			return false
		}
	}
	return true
}

func (m *PatternMatcher) bind(name string, a domain.Atom, b Bindings) bool {
	if stored, ok := m.space.Find(a); ok {
		a = stored
	}
	if bound, ok := b[name]; ok {
		return bound.Equal(a)
	}
	b[name] = a
	return true
}

func (m *PatternMatcher) literalMatches(literal *domain.Node, candidate domain.Atom) bool {
	if _, ok := m.space.LookupNode(literal.Type(), literal.Name()); !ok {
		return false
	}
	if m.strictLiterals {
		return literal.Equal(candidate)
	}
	return true
}

// Variables returns the distinct variable names in template, in first
// occurrence order.
func Variables(template domain.Atom) []string {
	if domain.IsNil(template) {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	stack := []domain.Atom{template}
	for len(stack) > 0 {
		a := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := a.(type) {
		case *domain.Node:
			if domain.IsVariable(v) && !seen[v.Name()] {
				seen[v.Name()] = true
				names = append(names, v.Name())
			}
		case *domain.Link:
			for i := v.Arity() - 1; i >= 0; i-- {
				child, _ := v.Child(i)
				stack = append(stack, child)
			}
		}
	}
	return names
}

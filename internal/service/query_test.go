package service

import (
	"testing"

	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAnimals(t *testing.T) (*kb, map[string]domain.Atom) {
	k := newKB(t)
	c := k.addConcepts("Cat", "Dog", "Animal")
	c["Fido"] = k.add(k.node(domain.TypePredicateNode, "Fido"))
	weak, err := domain.NewTruthValue(0.3, 0.4)
	require.NoError(t, err)
	c["Dog"].SetTruthValue(weak)

	k.add(k.link(domain.TypeInheritanceLink, c["Cat"], c["Animal"]))
	k.add(k.link(domain.TypeInheritanceLink, c["Dog"], c["Animal"]))
	k.add(k.link(domain.TypeInheritanceLink, c["Fido"], c["Animal"]))
	return k, c
}

func TestQueryBuilder_Filters(t *testing.T) {
	k, c := seedAnimals(t)
	m := NewPatternMatcher(k.space)
	pattern := k.link(domain.TypeInheritanceLink, k.variable("$x"), k.concept("Animal"))

	all := NewQuery(m).Pattern(pattern).Execute()
	assert.Len(t, all, 3)

	concepts := NewQuery(m).Pattern(pattern).Where(BoundToType("$x", domain.TypeConceptNode)).Execute()
	require.Len(t, concepts, 2)
	assert.Same(t, c["Cat"], concepts[0]["$x"])

	strong := NewQuery(m).Pattern(pattern).
		Where(BoundToType("$x", domain.TypeConceptNode)).
		Where(MinStrength("$x", 0.5)).
		Execute()
	require.Len(t, strong, 1)
	assert.Same(t, c["Cat"], strong[0]["$x"])

	confident := NewQuery(m).Pattern(pattern).Where(MinConfidence("$x", 0.5)).Execute()
	assert.Len(t, confident, 2)
}

func TestQueryBuilder_Limit(t *testing.T) {
	k, c := seedAnimals(t)
	m := NewPatternMatcher(k.space)
	pattern := k.link(domain.TypeInheritanceLink, k.variable("$x"), k.concept("Animal"))

	results := NewQuery(m).Pattern(pattern).Limit(1).Execute()
	require.Len(t, results, 1)
	assert.Same(t, c["Cat"], results[0]["$x"])
}

func TestQueryBuilder_Distinct(t *testing.T) {
	k := newKB(t)
	c := k.addConcepts("Cat", "Dog")
	k.add(k.link(domain.TypeSimilarityLink, c["Cat"], c["Cat"]))
	k.add(k.link(domain.TypeSimilarityLink, c["Cat"], c["Dog"]))
	m := NewPatternMatcher(k.space)

	results := NewQuery(m).
		Pattern(k.link(domain.TypeSimilarityLink, k.variable("$a"), k.variable("$b"))).
		Where(Distinct("$a", "$b")).
		Execute()
	require.Len(t, results, 1)
	assert.Same(t, c["Dog"], results[0]["$b"])
}

func TestQueryBuilder_Empty(t *testing.T) {
	k := newKB(t)
	assert.Nil(t, NewQuery(NewPatternMatcher(k.space)).Execute())
	assert.Nil(t, NewQuery(nil).Pattern(k.concept("Cat")).Execute())
}

package domain

import (
	"strings"
	"sync"
)

// AtomType is a tag in the open type registry. New tags are added with
// RegisterType; the store and matcher only rely on IsNode/IsLink/IsA.
type AtomType uint16

type AtomKind int

const (
	KindAbstract AtomKind = iota
	KindNode
	KindLink
)

func (k AtomKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindLink:
		return "link"
	default:
		return "abstract"
	}
}

type typeInfo struct {
	name   string
	parent AtomType
	kind   AtomKind
}

type typeRegistry struct {
	mu     sync.RWMutex
	infos  []typeInfo
	byName map[string]AtomType
}

var registry = newTypeRegistry()

var (
	TypeAtom            = mustRegister("Atom", 0, KindAbstract)
	TypeNode            = mustRegister("Node", TypeAtom, KindNode)
	TypeLink            = mustRegister("Link", TypeAtom, KindLink)
	TypeConceptNode     = mustRegister("ConceptNode", TypeNode, KindNode)
	TypePredicateNode   = mustRegister("PredicateNode", TypeNode, KindNode)
	TypeVariableNode    = mustRegister("VariableNode", TypeNode, KindNode)
	TypeInheritanceLink = mustRegister("InheritanceLink", TypeLink, KindLink)
	TypeSimilarityLink  = mustRegister("SimilarityLink", TypeLink, KindLink)
	TypeEvaluationLink  = mustRegister("EvaluationLink", TypeLink, KindLink)
	TypeAndLink         = mustRegister("AndLink", TypeLink, KindLink)
	TypeOrLink          = mustRegister("OrLink", TypeLink, KindLink)
	TypeListLink        = mustRegister("ListLink", TypeLink, KindLink)
)

func newTypeRegistry() *typeRegistry {
	return &typeRegistry{byName: make(map[string]AtomType)}
}

func mustRegister(name string, parent AtomType, kind AtomKind) AtomType {
	t, err := registry.register(name, parent, kind)
	if err != nil {
		panic(err)
	}
	return t
}

func (r *typeRegistry) register(name string, parent AtomType, kind AtomKind) (AtomType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return 0, newValidationError("name", "type %q is already registered", name)
	}
	t := AtomType(len(r.infos))
	r.infos = append(r.infos, typeInfo{name: name, parent: parent, kind: kind})
	r.byName[name] = t
	return t, nil
}

func (r *typeRegistry) info(t AtomType) (typeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(t) >= len(r.infos) {
		return typeInfo{}, false
	}
	return r.infos[t], true
}

// RegisterType adds a new atom type below parent. The new type inherits the
// parent's Node/Link kind, so parent must be Node, Link or one of their subtypes.
func RegisterType(name string, parent AtomType) (AtomType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, newValidationError("name", "type name is required")
	}
	if !validTypeName(name) {
		return 0, newValidationError("name", "type name %q may only contain letters, digits and underscores", name)
	}
	info, ok := registry.info(parent)
	if !ok {
		return 0, newValidationError("parent", "unknown parent type %d", parent)
	}
	if info.kind == KindAbstract {
		return 0, newValidationError("parent", "parent %q must be a node or link type", info.name)
	}
	return registry.register(name, parent, info.kind)
}

// TypeByName resolves a registered type name.
func TypeByName(name string) (AtomType, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	t, ok := registry.byName[name]
	return t, ok
}

// AllTypes returns every registered type in registration order.
func AllTypes() []AtomType {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	types := make([]AtomType, len(registry.infos))
	for i := range registry.infos {
		types[i] = AtomType(i)
	}
	return types
}

func (t AtomType) Name() string {
	info, ok := registry.info(t)
	if !ok {
		return "UnknownType"
	}
	return info.name
}

func (t AtomType) String() string {
	return t.Name()
}

func (t AtomType) Kind() AtomKind {
	info, _ := registry.info(t)
	return info.kind
}

func (t AtomType) Parent() AtomType {
	info, _ := registry.info(t)
	return info.parent
}

func (t AtomType) Valid() bool {
	_, ok := registry.info(t)
	return ok
}

func (t AtomType) IsNode() bool { return t.Kind() == KindNode }
func (t AtomType) IsLink() bool { return t.Kind() == KindLink }

// IsA reports whether t is ancestor or descends from it.
func (t AtomType) IsA(ancestor AtomType) bool {
	for cur := t; ; {
		if cur == ancestor {
			return true
		}
		info, ok := registry.info(cur)
		if !ok || cur == TypeAtom {
			return false
		}
		cur = info.parent
	}
}

func validTypeName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

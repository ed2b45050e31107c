package inject

import (
	"fmt"
	"slices"
	"strings"
)

// ScopeID addresses a Scope inside its Tree.
type ScopeID int

// NoScope is the parent of the root injector.
const NoScope ScopeID = -1

// Tree is an arena of injectors. Scopes refer to each other by ScopeID so the
// parent/child relation carries no ownership.
type Tree struct {
	scopes []*Scope
}

// NewTree creates an empty injector tree.
func NewTree() *Tree {
	return &Tree{}
}

// NewRoot adds the root injector. It panics if the tree already has one.
func (t *Tree) NewRoot(name string) *Scope {
	if len(t.scopes) > 0 {
		panic("inject: tree already has a root")
	}

	return t.add(name, NoScope)
}

// NewChild adds an injector below parent.
func (t *Tree) NewChild(parent *Scope, name string) *Scope {
	if parent == nil || parent.tree != t {
		panic("inject: parent does not belong to this tree")
	}

	child := t.add(name, parent.id)
	parent.children = append(parent.children, child.id)

	return child
}

func (t *Tree) add(name string, parent ScopeID) *Scope {
	s := &Scope{
		tree:       t,
		id:         ScopeID(len(t.scopes)),
		name:       name,
		parent:     parent,
		bindings:   make(map[Key]Binding),
		pinned:     make(map[Key]bool),
		childLocal: make(map[Key][]ScopeID),
	}
	t.scopes = append(t.scopes, s)

	return s
}

// Root returns the root injector, or nil for an empty tree.
func (t *Tree) Root() *Scope {
	if len(t.scopes) == 0 {
		return nil
	}

	return t.scopes[0]
}

// Scope returns the injector with the given id, or nil.
func (t *Tree) Scope(id ScopeID) *Scope {
	if id < 0 || int(id) >= len(t.scopes) {
		return nil
	}

	return t.scopes[id]
}

// Scopes returns all injectors in creation order.
func (t *Tree) Scopes() []*Scope {
	return append([]*Scope(nil), t.scopes...)
}

// PostOrder returns the injectors children-first, siblings in creation order.
func (t *Tree) PostOrder() []*Scope {
	root := t.Root()
	if root == nil {
		return nil
	}

	out := make([]*Scope, 0, len(t.scopes))

	var walk func(s *Scope)

	walk = func(s *Scope) {
		for _, c := range s.Children() {
			walk(c)
		}

		out = append(out, s)
	}
	walk(root)

	return out
}

// Find returns the injector with the given name.
func (t *Tree) Find(name string) (*Scope, bool) {
	for _, s := range t.scopes {
		if s.name == name {
			return s, true
		}
	}

	return nil, false
}

// Scope is one injector: its local bindings, pinned keys and the dependencies
// it requests directly.
type Scope struct {
	tree     *Tree
	id       ScopeID
	name     string
	parent   ScopeID
	children []ScopeID

	bindings map[Key]Binding
	order    []Key
	pinned   map[Key]bool
	deps     []Dependency

	// childLocal maps a key to the descendants that bind or pin it locally.
	childLocal map[Key][]ScopeID
}

// ID returns the scope identifier.
func (s *Scope) ID() ScopeID { return s.id }

// Name returns the scope name.
func (s *Scope) Name() string { return s.name }

// String returns the scope path from the root, e.g. "root/app/request".
func (s *Scope) String() string {
	if s == nil {
		return "<none>"
	}

	parts := make([]string, s.Depth()+1)
	for it, i := s, len(parts)-1; it != nil; it, i = it.Parent(), i-1 {
		parts[i] = it.name
	}

	return strings.Join(parts, "/")
}

// Tree returns the arena this scope belongs to.
func (s *Scope) Tree() *Tree { return s.tree }

// Parent returns the parent injector, or nil at the root.
func (s *Scope) Parent() *Scope {
	return s.tree.Scope(s.parent)
}

// Children returns the child injectors in creation order.
func (s *Scope) Children() []*Scope {
	out := make([]*Scope, 0, len(s.children))
	for _, id := range s.children {
		out = append(out, s.tree.Scope(id))
	}

	return out
}

// Depth returns the number of ancestors.
func (s *Scope) Depth() int {
	d := 0
	for it := s.Parent(); it != nil; it = it.Parent() {
		d++
	}

	return d
}

// IsAncestorOrSelf reports whether s is other or one of its ancestors.
func (s *Scope) IsAncestorOrSelf(other *Scope) bool {
	for it := other; it != nil; it = it.Parent() {
		if it == s {
			return true
		}
	}

	return false
}

// Binding returns the local binding for key.
func (s *Scope) Binding(key Key) (Binding, bool) {
	b, ok := s.bindings[key]
	return b, ok
}

// IsBound reports whether key has a local binding.
func (s *Scope) IsBound(key Key) bool {
	_, ok := s.bindings[key]
	return ok
}

// IsPinned reports whether this injector must hold the binding for key.
func (s *Scope) IsPinned(key Key) bool {
	return s.pinned[key]
}

// Pin marks key as belonging to this injector even before a binding exists.
func (s *Scope) Pin(key Key) {
	if s.pinned[key] {
		return
	}

	s.pinned[key] = true
	s.registerInAncestors(key)
}

// IsBoundLocallyInChild reports whether some descendant binds or pins key.
func (s *Scope) IsBoundLocallyInChild(key Key) bool {
	return len(s.childLocal[key]) > 0
}

// LocalChildHolders returns the descendants that bind or pin key locally.
func (s *Scope) LocalChildHolders(key Key) []*Scope {
	ids := s.childLocal[key]
	out := make([]*Scope, 0, len(ids))

	for _, id := range ids {
		out = append(out, s.tree.Scope(id))
	}

	return out
}

// AddBinding installs b for key. Adding a second binding for the same key
// fails with a *DoubleBindingError.
func (s *Scope) AddBinding(key Key, b Binding) error {
	if b == nil {
		return fmt.Errorf("inject: nil binding for %s in %s", key, s)
	}

	if existing, ok := s.bindings[key]; ok {
		return &DoubleBindingError{Key: key, Scope: s.String(), Existing: existing, Added: b}
	}

	s.bindings[key] = b
	s.order = append(s.order, key)

	if b.Kind() != KindParent {
		s.registerInAncestors(key)
	}

	return nil
}

// Bindings returns the local bindings in insertion order.
func (s *Scope) Bindings() []Binding {
	out := make([]Binding, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.bindings[k])
	}

	return out
}

// Pins returns every pinned key, bound or not, sorted by name.
func (s *Scope) Pins() []Key {
	out := make([]Key, 0, len(s.pinned))
	for k := range s.pinned {
		out = append(out, k)
	}

	slices.SortFunc(out, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})

	return out
}

// Dependencies returns the edges requested directly by this injector.
func (s *Scope) Dependencies() []Dependency {
	return append([]Dependency(nil), s.deps...)
}

// AddDependency records an edge requested by this injector. The source must
// be Origin or a key bound here.
func (s *Scope) AddDependency(d Dependency) {
	s.deps = append(s.deps, d)
}

// Request is shorthand for a required, eager Origin edge to key.
func (s *Scope) Request(key Key, context string) {
	s.AddDependency(NewDependency(Origin, key, context))
}

func (s *Scope) registerInAncestors(key Key) {
	for p := s.Parent(); p != nil; p = p.Parent() {
		if !containsID(p.childLocal[key], s.id) {
			p.childLocal[key] = append(p.childLocal[key], s.id)
		}
	}
}

func containsID(ids []ScopeID, id ScopeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}

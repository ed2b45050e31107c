package config

import (
	"errors"
	"fmt"

	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// ConflictError reports a key that would be visible from one injector through
// two different declarations.
type ConflictError struct {
	Key inject.Key
	// Scope declares the key, as a binding, a pin or an exposed binding.
	Scope string
	What  string
	// Other already holds the key.
	Other string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("config: double binding of %s: %s in %s conflicts with the binding in %s",
		e.Key, e.What, e.Scope, e.Other)
}

// Build creates the injector tree declared by f. Every conflict is reported;
// the tree is returned even when the error is non-nil so callers can inspect
// what was built.
func Build(f *File, log *diagnostic.Logger) (*inject.Tree, error) {
	if log == nil {
		log = diagnostic.NopLogger()
	}

	b := &builder{tree: inject.NewTree(), log: log}
	b.injector(nil, &f.Injector)

	return b.tree, errors.Join(b.errs...)
}

type builder struct {
	tree *inject.Tree
	log  *diagnostic.Logger
	errs []error
}

func (b *builder) injector(parent *inject.Scope, in *Injector) {
	var scope *inject.Scope
	if parent == nil {
		scope = b.tree.NewRoot(in.Name)
	} else {
		scope = b.tree.NewChild(parent, in.Name)
	}

	for _, bd := range in.Bindings {
		key := bd.InjectKey()

		deps := make([]inject.Dependency, 0, len(bd.Deps))
		for i, d := range bd.Deps {
			deps = append(deps, inject.NewEdge(key, d.InjectKey(), d.Optional, d.Lazy, "%s param %d", bd.Source, i))
		}

		if !b.bind(scope, key, inject.NewExplicitBinding(key, bd.Source, deps...), "binding", nil) {
			continue
		}

		for _, d := range deps {
			scope.AddDependency(d)
		}
	}

	for _, r := range in.Pinned {
		b.pin(scope, r.InjectKey())
	}

	// Children first: a key a child exposes is bound here by the time this
	// injector exposes it further up.
	for i := range in.Children {
		b.injector(scope, &in.Children[i])
	}

	for _, r := range in.Expose {
		key := r.InjectKey()
		if !scope.IsBound(key) {
			b.pin(scope, key)
		}

		if parent != nil {
			ctx := fmt.Sprintf("exposed by %s", scope)
			b.bind(parent, key, inject.NewExposedChildBinding(key, scope.ID(), ctx), "exposed binding", scope)
		}
	}

	for _, r := range in.Requests {
		scope.AddDependency(inject.NewEdge(inject.Origin, r.InjectKey(), r.Optional, r.Lazy,
			"requested by %s", scope))
	}

	b.log.Debugf("Built injector %s: %d binding(s), %d dependency edge(s)",
		scope, len(scope.Bindings()), len(scope.Dependencies()))
}

// bind adds binding to scope unless that conflicts with an ancestor or a
// descendant. via is the child an exposed binding delegates to; its subtree
// may hold the key.
func (b *builder) bind(scope *inject.Scope, key inject.Key, binding inject.Binding, what string, via *inject.Scope) bool {
	if b.conflict(scope, key, what, via) {
		return false
	}

	if err := scope.AddBinding(key, binding); err != nil {
		b.errs = append(b.errs, err)
		return false
	}

	return true
}

// pin marks key as created in scope and requests it there, so resolving the
// scope creates the binding.
func (b *builder) pin(scope *inject.Scope, key inject.Key) {
	if scope.IsBound(key) || scope.IsPinned(key) {
		return
	}

	if b.conflict(scope, key, "pin", nil) {
		return
	}

	scope.Pin(key)
	scope.Request(key, fmt.Sprintf("pinned in %s", scope))
}

func (b *builder) conflict(scope *inject.Scope, key inject.Key, what string, via *inject.Scope) bool {
	for p := scope.Parent(); p != nil; p = p.Parent() {
		if p.IsBound(key) || p.IsPinned(key) {
			b.errs = append(b.errs, &ConflictError{Key: key, Scope: scope.String(), What: what, Other: p.String()})
			return true
		}
	}

	for _, holder := range scope.LocalChildHolders(key) {
		if via != nil && via.IsAncestorOrSelf(holder) {
			continue
		}

		b.errs = append(b.errs, &ConflictError{Key: key, Scope: scope.String(), What: what, Other: holder.String()})

		return true
	}

	return false
}

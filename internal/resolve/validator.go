package resolve

import (
	"errors"
	"fmt"

	"binding-resolver/internal/common"
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// invalidKeys splits the keys without a binding by whether the origin
// really needs them.
type invalidKeys struct {
	required []inject.Key
	optional []inject.Key
}

// unresolvableValidator reports keys that cannot be bound and prunes the ones
// only reachable through optional edges.
type unresolvableValidator struct {
	log *diagnostic.Logger
}

func newUnresolvableValidator(log *diagnostic.Logger) *unresolvableValidator {
	return &unresolvableValidator{log: log}
}

// validate returns an error for every required key that could not be bound
// and for every implicit key that would shadow a binding in a descendant.
func (v *unresolvableValidator) validate(output *ExplorerOutput, strictOptional bool) ([]*ResolutionError, invalidKeys) {
	invalid := v.classify(output)

	check := invalid.required
	if strictOptional {
		check = append(append([]inject.Key(nil), invalid.required...), invalid.optional...)
		invalid.optional = nil
	}

	var errs []*ResolutionError

	for _, key := range check {
		path := shortestPath(output.Graph(), key)

		ctx := ""
		if last, ok := lastEdge(path); ok {
			ctx = last.Context
		}

		for _, cause := range output.BindingErrorsFor(key) {
			kind := UnsatisfiedDependency
			if errors.Is(cause, inject.ErrAmbiguousBinding) {
				kind = AmbiguousImplicitBinding
			}

			errs = append(errs, &ResolutionError{
				Kind:    kind,
				Message: cause.Error(),
				Source:  key,
				Context: ctx,
				Path:    path,
			})
		}

		if len(output.BindingErrorsFor(key)) == 0 {
			errs = append(errs, &ResolutionError{
				Kind:    UnsatisfiedDependency,
				Message: "unable to create or inherit binding",
				Source:  key,
				Context: ctx,
				Path:    path,
			})
		}
	}

	errs = append(errs, v.findShadowedChildren(output)...)

	return errs, invalid
}

// classify separates required invalid keys from optional ones. A key is
// required when a path of non-optional edges leads to it from the origin.
func (v *unresolvableValidator) classify(output *ExplorerOutput) invalidKeys {
	required := requiredKeys(output.Graph())

	var out invalidKeys

	for _, key := range output.BindingErrors() {
		if required[key] {
			out.required = append(out.required, key)
		} else {
			out.optional = append(out.optional, key)
		}
	}

	return out
}

// findShadowedChildren reports implicit keys that a descendant of the origin
// already binds: creating them at the origin would double-bind.
func (v *unresolvableValidator) findShadowedChildren(output *ExplorerOutput) []*ResolutionError {
	origin := output.Graph().Origin()

	var errs []*ResolutionError

	for _, key := range output.ImplicitlyBoundKeys() {
		holders := origin.LocalChildHolders(key)
		if common.IsEmpty(holders) {
			continue
		}

		path := shortestPath(output.Graph(), key)

		ctx := ""
		if last, ok := lastEdge(path); ok {
			ctx = last.Context
		}

		errs = append(errs, &ResolutionError{
			Kind: DoubleBinding,
			Message: fmt.Sprintf("cannot create a binding in %s, already bound in child injector %s",
				origin, holders[0]),
			Source:  key,
			Context: ctx,
			Path:    path,
		})
	}

	return errs
}

// pruneInvalidOptional removes unresolvable optional keys, and every key that
// needs one of them through a required edge, from the output. It returns the
// removed keys.
func (v *unresolvableValidator) pruneInvalidOptional(output *ExplorerOutput, invalid invalidKeys) []inject.Key {
	if common.IsEmpty(invalid.optional) {
		return nil
	}

	graph := output.Graph()
	removed := common.NewOrderedSet[inject.Key]()
	queue := common.NewOrderedSet(invalid.optional...)

	for {
		key, ok := queue.PopFront()
		if !ok {
			break
		}

		if !removed.Add(key) {
			continue
		}

		for _, edge := range graph.DependenciesTargeting(key) {
			if edge.Optional || !output.IsImplicit(edge.Source) {
				continue
			}

			v.log.Debugf("Pruning %s because it requires the unavailable optional key %s", edge.Source, key)
			queue.Add(edge.Source)
		}
	}

	pruner := NewGraphPruner(graph)

	for _, key := range removed.Items() {
		v.log.Debugf("Removing unavailable optional key %s", key)
		pruner.Remove(key)
		output.removeKey(key)
	}

	output.graph = pruner.Update()

	return removed.Items()
}

// requiredKeys returns the keys reachable from the origin, or from keys bound
// at the origin, following only required edges.
func requiredKeys(graph *DependencyGraph) map[inject.Key]bool {
	seen := make(map[inject.Key]bool)
	queue := common.NewOrderedSet[inject.Key]()

	for _, d := range graph.Origin().Dependencies() {
		queue.Add(d.Source)
	}

	for {
		key, ok := queue.PopFront()
		if !ok {
			break
		}

		for _, edge := range graph.DependenciesOf(key) {
			if edge.Optional || seen[edge.Target] {
				continue
			}

			seen[edge.Target] = true
			queue.Add(edge.Target)
		}
	}

	return seen
}

// shortestPath returns the shortest chain of edges from an origin-level
// source to key, preferring required edges.
func shortestPath(graph *DependencyGraph, key inject.Key) []inject.Dependency {
	if path := bfsPath(graph, key, false); path != nil {
		return path
	}

	return bfsPath(graph, key, true)
}

func bfsPath(graph *DependencyGraph, key inject.Key, allowOptional bool) []inject.Dependency {
	via := make(map[inject.Key]inject.Dependency)
	queue := common.NewOrderedSet[inject.Key]()
	starts := make(map[inject.Key]bool)

	for _, d := range graph.Origin().Dependencies() {
		starts[d.Source] = true
		queue.Add(d.Source)
	}

	for {
		cur, ok := queue.PopFront()
		if !ok {
			return nil
		}

		if cur == key && !starts[cur] {
			break
		}

		for _, edge := range graph.DependenciesOf(cur) {
			if edge.Optional && !allowOptional {
				continue
			}

			if _, seen := via[edge.Target]; seen || starts[edge.Target] {
				continue
			}

			via[edge.Target] = edge
			queue.Add(edge.Target)
		}
	}

	var path []inject.Dependency
	for cur := key; !starts[cur]; {
		edge := via[cur]
		path = append(path, edge)
		cur = edge.Source
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

func lastEdge(path []inject.Dependency) (inject.Dependency, bool) {
	if len(path) == 0 {
		return inject.Dependency{}, false
	}

	return path[len(path)-1], true
}

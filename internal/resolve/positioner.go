package resolve

import (
	"binding-resolver/internal/common"
	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// positionState guards the single use of a BindingPositioner.
type positionState int

const (
	positionNotStarted positionState = iota
	positionInProgress
	positionDone
)

// Move records one downward step of a key during fixpoint refinement.
type Move struct {
	Key  inject.Key
	From *inject.Scope
	To   *inject.Scope
}

// BindingPositioner computes Level(k), the injector in which the binding for
// each key is available or will be created.
//
// For keys already available, Level(k) is the highest injector they are
// available from. For implicit keys, Level(k) is the highest injector such
// that:
//   - Level(k) is no higher than Level(d) for every dependency d of k, so
//     everything the binding needs is visible where it is created
//   - no injector below Level(k), outside the path to the origin, also binds
//     k, so the new binding cannot cause a double binding
//
// Every implicit key starts as high as sibling bindings allow and then moves
// down by iterating
//
//	Level(k) = lowest(Level(k) ∪ {Level(d) | d ∈ deps(k)})
//
// until nothing changes. Keys pinned at the origin and exposed upward are
// accessed from their Level but installed at the origin; installOverrides
// keeps that second position.
type BindingPositioner struct {
	log   *diagnostic.Logger
	state positionState

	output *ExplorerOutput
	origin *inject.Scope

	workqueue        *common.OrderedSet[inject.Key]
	positions        map[inject.Key]*inject.Scope
	installOverrides map[inject.Key]*inject.Scope
	moves            []Move
}

// NewBindingPositioner creates a positioner for a single resolution run.
func NewBindingPositioner(log *diagnostic.Logger) *BindingPositioner {
	if log == nil {
		log = diagnostic.NopLogger()
	}

	return &BindingPositioner{
		log:              log,
		workqueue:        common.NewOrderedSet[inject.Key](),
		positions:        make(map[inject.Key]*inject.Scope),
		installOverrides: make(map[inject.Key]*inject.Scope),
	}
}

// Position computes the positions of every key in output. It may only be
// called once.
func (p *BindingPositioner) Position(output *ExplorerOutput) error {
	if p.state != positionNotStarted {
		return ErrAlreadyPositioned
	}

	p.state = positionInProgress
	p.output = output
	p.origin = output.Graph().Origin()

	p.computeInitialPositions()

	for _, key := range output.ImplicitlyBoundKeys() {
		p.workqueue.Add(key)
	}

	p.calculateExactPositions()
	p.state = positionDone

	return nil
}

// InstallPosition returns the injector the binding for key must be added to.
// ok is false for keys that are not part of the graph (e.g., pruned optional
// keys). It panics if Position has not completed.
func (p *BindingPositioner) InstallPosition(key inject.Key) (*inject.Scope, bool) {
	p.mustBeDone()

	if s, ok := p.installOverrides[key]; ok {
		return s, true
	}

	s, ok := p.positions[key]

	return s, ok
}

// AccessPosition returns the injector consumers reach key from.
// It panics if Position has not completed.
func (p *BindingPositioner) AccessPosition(key inject.Key) (*inject.Scope, bool) {
	p.mustBeDone()

	s, ok := p.positions[key]

	return s, ok
}

// Moves returns every position change made during refinement, in order.
func (p *BindingPositioner) Moves() []Move {
	return append([]Move(nil), p.moves...)
}

// Done reports whether positions are available.
func (p *BindingPositioner) Done() bool {
	return p.state == positionDone
}

func (p *BindingPositioner) mustBeDone() {
	if p.state != positionDone {
		invariantf("positions queried before position completed")
	}
}

// computeInitialPositions places every implicit binding as high as possible
// without causing a double binding.
func (p *BindingPositioner) computeInitialPositions() {
	for _, key := range p.output.PreExistingKeys() {
		p.positions[key], _ = p.output.PreExistingLocation(key)
	}

	for _, key := range p.output.ImplicitlyBoundKeys() {
		initial := p.computeInitialPosition(key)
		p.log.Debugf("Initial highest visible position of %s is %s", key, initial)
		p.positions[key] = initial
	}
}

func (p *BindingPositioner) computeInitialPosition(key inject.Key) *inject.Scope {
	position := p.origin
	pinned := position.IsPinned(key)

	// A key pinned at the origin is installed there even when it is used from
	// higher up, which happens when the origin exposes it to its parent.
	if pinned {
		p.log.Debugf("Forcing %s to be installed in %s due to a pin.", key, position)
		p.installOverrides[key] = position
	}

	for p.canExposeKeyFrom(key, position, pinned) {
		p.log.Tracef("Moving the highest visible position of %s from %s to %s.",
			key, position, position.Parent())
		position = position.Parent()
	}

	return position
}

// canExposeKeyFrom reports whether key, visible in child, can also be made
// visible in child's parent. Pinned keys are visible in the parent only
// through an ExposedChildBinding pointing at child; other keys float up
// unless a sibling already holds a local binding for them.
//
// pinned tells whether the key was pinned at the origin, not at child.
func (p *BindingPositioner) canExposeKeyFrom(key inject.Key, child *inject.Scope, pinned bool) bool {
	parent := child.Parent()

	switch {
	case parent == nil:
		return false
	case p.shadowedBySibling(key, parent):
		return false
	case pinned:
		binding, ok := parent.Binding(key)
		if !ok {
			return false
		}

		exposed, ok := binding.(*inject.ExposedChildBinding)
		if !ok {
			// Would have been reported as a double binding while building the tree.
			invariantf("unexpected %s binding of %s in %s shadowing a pinned binding",
				binding.Kind(), key, parent)
		}

		if exposed.Child() != child.ID() {
			invariantf("exposed child binding of %s in %s points at %s instead of %s",
				key, parent, child.Tree().Scope(exposed.Child()), child)
		}

		return true
	default:
		return true
	}
}

// shadowedBySibling reports whether some descendant of parent that is not on
// the path down to the origin binds or pins key locally.
func (p *BindingPositioner) shadowedBySibling(key inject.Key, parent *inject.Scope) bool {
	for _, holder := range parent.LocalChildHolders(key) {
		if !holder.IsAncestorOrSelf(p.origin) {
			return true
		}
	}

	return false
}

// calculateExactPositions iterates the position equation, re-queueing the
// keys that depend on any key that moves. Keys only move down and the tree is
// finite, so this terminates.
func (p *BindingPositioner) calculateExactPositions() {
	graph := p.output.Graph()

	for {
		key, ok := p.workqueue.PopFront()
		if !ok {
			return
		}

		candidates := p.dependencyPositions(key)
		current := p.positions[key]
		candidates[current] = true

		next := p.lowest(candidates)
		if next == current {
			continue
		}

		p.positions[key] = next
		p.moves = append(p.moves, Move{Key: key, From: current, To: next})
		p.log.Debugf("Moved the highest visible position of %s from %s to %s.", key, current, next)

		// Origin and pre-existing sources never move, so only implicit keys
		// are re-queued.
		for _, dep := range graph.DependenciesTargeting(key) {
			if !p.output.IsImplicit(dep.Source) {
				continue
			}

			p.log.Tracef("Re-enqueuing %s due to %s", dep.Source, dep)
			p.workqueue.Add(dep.Source)
		}
	}
}

// dependencyPositions returns the current positions of key's dependencies.
// Dependencies without a position (pruned optional keys) impose nothing.
func (p *BindingPositioner) dependencyPositions(key inject.Key) map[*inject.Scope]bool {
	out := make(map[*inject.Scope]bool)

	for _, dep := range p.output.Graph().DependenciesOf(key) {
		if s, ok := p.positions[dep.Target]; ok {
			out[s] = true
		}
	}

	return out
}

// lowest returns the member of candidates closest to the origin.
func (p *BindingPositioner) lowest(candidates map[*inject.Scope]bool) *inject.Scope {
	for it := p.origin; it != nil; it = it.Parent() {
		if candidates[it] {
			return it
		}
	}

	invariantf("no candidate position %v lies on the path from %s to the root", candidates, p.origin)

	return nil
}

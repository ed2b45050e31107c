package resolve

import (
	"binding-resolver/internal/common"
	"binding-resolver/internal/inject"
)

// DependencyGraph is an edge-labeled multigraph over keys, rooted at an
// origin injector. All queries return edges in insertion order.
type DependencyGraph struct {
	origin   *inject.Scope
	nodes    []inject.Key
	edges    []inject.Dependency
	outgoing map[inject.Key][]inject.Dependency
	incoming map[inject.Key][]inject.Dependency
}

// Origin returns the injector the graph was explored from.
func (g *DependencyGraph) Origin() *inject.Scope {
	return g.origin
}

// DependenciesOf returns the edges whose source is key.
func (g *DependencyGraph) DependenciesOf(key inject.Key) []inject.Dependency {
	return g.outgoing[key]
}

// DependenciesTargeting returns the edges whose target is key.
func (g *DependencyGraph) DependenciesTargeting(key inject.Key) []inject.Dependency {
	return g.incoming[key]
}

// Nodes returns every key mentioned by an edge, except Origin.
func (g *DependencyGraph) Nodes() []inject.Key {
	return append([]inject.Key(nil), g.nodes...)
}

// Edges returns all edges.
func (g *DependencyGraph) Edges() []inject.Dependency {
	return append([]inject.Dependency(nil), g.edges...)
}

// Contains reports whether key is a node of the graph.
func (g *DependencyGraph) Contains(key inject.Key) bool {
	_, out := g.outgoing[key]
	_, in := g.incoming[key]

	return out || in
}

// GraphBuilder accumulates edges. Adding an edge whose identity is already
// present keeps the first instance.
type GraphBuilder struct {
	origin *inject.Scope
	seen   map[inject.DependencyID]bool
	edges  []inject.Dependency
}

// NewGraphBuilder creates a builder for a graph explored from origin.
func NewGraphBuilder(origin *inject.Scope) *GraphBuilder {
	return &GraphBuilder{
		origin: origin,
		seen:   make(map[inject.DependencyID]bool),
	}
}

// AddEdge adds d and reports whether it was new.
func (b *GraphBuilder) AddEdge(d inject.Dependency) bool {
	id := d.ID()
	if b.seen[id] {
		return false
	}

	b.seen[id] = true
	b.edges = append(b.edges, d)

	return true
}

// Build returns the graph of all edges added so far.
func (b *GraphBuilder) Build() *DependencyGraph {
	return newGraph(b.origin, b.edges)
}

func newGraph(origin *inject.Scope, edges []inject.Dependency) *DependencyGraph {
	g := &DependencyGraph{
		origin:   origin,
		edges:    append([]inject.Dependency(nil), edges...),
		outgoing: make(map[inject.Key][]inject.Dependency),
		incoming: make(map[inject.Key][]inject.Dependency),
	}

	nodes := common.NewOrderedSet[inject.Key]()

	for _, d := range edges {
		g.outgoing[d.Source] = append(g.outgoing[d.Source], d)
		g.incoming[d.Target] = append(g.incoming[d.Target], d)

		if !d.Source.IsOrigin() {
			nodes.Add(d.Source)
		}

		nodes.Add(d.Target)
	}

	g.nodes = nodes.Items()

	return g
}

// GraphPruner removes keys, and every edge touching them, from a graph.
type GraphPruner struct {
	graph   *DependencyGraph
	removed map[inject.Key]bool
}

// NewGraphPruner starts pruning g. g itself is never modified.
func NewGraphPruner(g *DependencyGraph) *GraphPruner {
	return &GraphPruner{graph: g, removed: make(map[inject.Key]bool)}
}

// Remove marks key for removal.
func (p *GraphPruner) Remove(key inject.Key) {
	p.removed[key] = true
}

// Update returns a new graph without the removed keys.
func (p *GraphPruner) Update() *DependencyGraph {
	kept := make([]inject.Dependency, 0, len(p.graph.edges))

	for _, d := range p.graph.edges {
		if p.removed[d.Source] || p.removed[d.Target] {
			continue
		}

		kept = append(kept, d)
	}

	return newGraph(p.graph.origin, kept)
}

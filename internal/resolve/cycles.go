package resolve

import (
	"fmt"
	"strings"

	"binding-resolver/internal/diagnostic"
	"binding-resolver/internal/inject"
)

// eagerCycleFinder detects cycles made only of non-lazy edges. A cycle with
// at least one lazy edge can be broken at runtime and is allowed.
type eagerCycleFinder struct {
	log *diagnostic.Logger

	graph   *DependencyGraph
	order   map[inject.Key]int
	state   map[inject.Key]visitState
	stack   []inject.Dependency
	onStack map[inject.Key]int
	seen    map[string]bool
	cycles  [][]inject.Dependency
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

func newEagerCycleFinder(log *diagnostic.Logger) *eagerCycleFinder {
	return &eagerCycleFinder{log: log}
}

// find returns one error per distinct eager cycle in graph.
func (f *eagerCycleFinder) find(graph *DependencyGraph) []*ResolutionError {
	f.graph = graph
	f.order = make(map[inject.Key]int)
	f.state = make(map[inject.Key]visitState)
	f.onStack = make(map[inject.Key]int)
	f.seen = make(map[string]bool)
	f.cycles = nil

	nodes := graph.Nodes()
	for i, k := range nodes {
		f.order[k] = i
	}

	for _, k := range nodes {
		if f.state[k] == unvisited {
			f.visit(k)
		}
	}

	errs := make([]*ResolutionError, 0, len(f.cycles))

	for _, cycle := range f.cycles {
		contexts := make([]string, 0, len(cycle))
		for _, d := range cycle {
			contexts = append(contexts, fmt.Sprintf("%s -> %s (%s)", d.Source, d.Target, d.Context))
		}

		f.log.Errorf("Cycle detected in the dependency graph: %s", FormatPath(cycle))

		errs = append(errs, &ResolutionError{
			Kind:    CyclicDependency,
			Message: "eager dependency cycle; consider making one of its edges lazy",
			Source:  cycle[0].Source,
			Context: strings.Join(contexts, "; "),
			Path:    cycle,
		})
	}

	return errs
}

func (f *eagerCycleFinder) visit(key inject.Key) {
	f.state[key] = visiting
	f.onStack[key] = len(f.stack)

	for _, edge := range f.graph.DependenciesOf(key) {
		if edge.Lazy {
			continue
		}

		switch f.state[edge.Target] {
		case unvisited:
			f.stack = append(f.stack, edge)
			f.visit(edge.Target)
			f.stack = f.stack[:len(f.stack)-1]
		case visiting:
			start := f.onStack[edge.Target]
			cycle := append(append([]inject.Dependency(nil), f.stack[start:]...), edge)
			f.record(cycle)
		case visited:
		}
	}

	delete(f.onStack, key)
	f.state[key] = visited
}

// record stores cycle unless a rotation of it was already seen. Cycles are
// rotated to start at the key discovered first, for stable reports.
func (f *eagerCycleFinder) record(cycle []inject.Dependency) {
	first := 0
	for i, d := range cycle {
		if f.order[d.Source] < f.order[cycle[first].Source] {
			first = i
		}
	}

	rotated := append(append([]inject.Dependency(nil), cycle[first:]...), cycle[:first]...)

	ids := make([]string, 0, len(rotated))
	for _, d := range rotated {
		ids = append(ids, d.Source.String()+"\x00"+d.Target.String())
	}

	sig := strings.Join(ids, "\x01")
	if f.seen[sig] {
		return
	}

	f.seen[sig] = true
	f.cycles = append(f.cycles, rotated)
}

package report

import (
	"errors"
	"fmt"
	"sort"

	"binding-resolver/internal/inject"
)

// constructionOrder returns the local bindings of scope so that every key
// follows the local keys it eagerly depends on. Ties keep installation order.
func constructionOrder(scope *inject.Scope) ([]inject.Key, error) {
	bindings := scope.Bindings()

	index := make(map[inject.Key]int, len(bindings))
	for i, b := range bindings {
		index[b.Key()] = i
	}

	order, err := topoSort(len(bindings), func(i int) []int {
		var deps []int

		for _, d := range bindings[i].Dependencies() {
			if d.Lazy {
				continue
			}

			if j, ok := index[d.Target]; ok && j != i {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		return nil, err
	}

	keys := make([]inject.Key, 0, len(order))
	for _, i := range order {
		keys = append(keys, bindings[i].Key())
	}

	return keys, nil
}

// topoSort returns indices in dependency order.
//
// depsFn(i) yields indices that must come before i. When several nodes are
// ready the smallest index is picked, so the result is deterministic.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return nil, errors.New("eager cycle between local bindings")
	}

	return order, nil
}

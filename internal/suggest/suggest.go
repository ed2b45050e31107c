package suggest

import (
	"sort"
	"strings"

	"binding-resolver/internal/inject"
)

// DefaultThreshold is the lowest similarity reported by Similar.
const DefaultThreshold = 0.75

// Normalize reduces a key type to the form keys are compared in.
func Normalize(typ string) string {
	typ = strings.TrimLeft(typ, "*[]")
	return strings.ToLower(strings.ReplaceAll(typ, "_", ""))
}

type candidate struct {
	key   inject.Key
	score float64
	index int
}

// Similar returns up to limit keys of known that resemble key, best first.
// key itself is never returned.
func Similar(key inject.Key, known []inject.Key, limit int) []inject.Key {
	want := Normalize(key.Type)

	var found []candidate

	for i, k := range known {
		if k == key {
			continue
		}

		score := Similarity(want, Normalize(k.Type))
		if score == 1 && k.Qualifier != key.Qualifier {
			// Same type under another qualifier ranks just below an exact
			// type match.
			score = 0.99
		}

		if score >= DefaultThreshold {
			found = append(found, candidate{key: k, score: score, index: i})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}

		return found[i].index < found[j].index
	})

	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	out := make([]inject.Key, 0, len(found))
	for _, c := range found {
		out = append(out, c.key)
	}

	return out
}

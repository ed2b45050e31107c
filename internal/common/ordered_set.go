package common

// OrderedSet is a set that remembers insertion order.
// Adding an element that is already present is a no-op, so it can serve as a
// work queue in which an element is never queued twice.
type OrderedSet[T comparable] struct {
	index map[T]int
	items []T
	head  int
}

// NewOrderedSet creates an OrderedSet holding the given elements in order.
func NewOrderedSet[T comparable](items ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{index: make(map[T]int)}
	for _, it := range items {
		s.Add(it)
	}

	return s
}

// Add inserts v at the end of the set. It reports whether v was newly added.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}

	s.index[v] = len(s.items)
	s.items = append(s.items, v)

	return true
}

// Contains reports whether v is in the set.
func (s *OrderedSet[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of elements in the set.
func (s *OrderedSet[T]) Len() int {
	return len(s.index)
}

// PopFront removes and returns the oldest element.
// ok is false when the set is empty.
func (s *OrderedSet[T]) PopFront() (v T, ok bool) {
	for s.head < len(s.items) {
		v = s.items[s.head]
		s.head++

		if i, present := s.index[v]; present && i == s.head-1 {
			delete(s.index, v)
			s.compact()

			return v, true
		}
	}

	var zero T

	return zero, false
}

// Remove deletes v from the set. It reports whether v was present.
func (s *OrderedSet[T]) Remove(v T) bool {
	if _, ok := s.index[v]; !ok {
		return false
	}

	delete(s.index, v)

	return true
}

// Items returns the elements in insertion order.
func (s *OrderedSet[T]) Items() []T {
	out := make([]T, 0, len(s.index))
	for i := s.head; i < len(s.items); i++ {
		v := s.items[i]
		if j, ok := s.index[v]; ok && j == i {
			out = append(out, v)
		}
	}

	return out
}

// compact drops consumed slots once they dominate the backing slice.
func (s *OrderedSet[T]) compact() {
	if s.head < 64 || s.head*2 < len(s.items) {
		return
	}

	live := s.Items()
	s.items = live
	s.head = 0

	for i, v := range live {
		s.index[v] = i
	}
}

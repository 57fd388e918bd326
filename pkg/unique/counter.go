// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package unique

import (
	"cmp"
	"maps"
	"slices"
)

// Counter counts occurrences of keys, remembering the order keys were first seen.
// A zero Counter is ready to use.
type Counter[K cmp.Ordered] struct {
	keys   List[K]
	counts map[K]int
}

// Inc increments the count for k.
func (c *Counter[K]) Inc(k K) {
	if c.counts == nil {
		c.counts = map[K]int{}
	}
	c.keys.Add(k)
	c.counts[k]++
}

// Count for k, 0 if never seen.
func (c *Counter[K]) Count(k K) int { return c.counts[k] }

// Len is the number of distinct keys.
func (c *Counter[K]) Len() int { return c.keys.Len() }

// Keys in first-seen order.
func (c *Counter[K]) Keys() []K { return slices.Clone(c.keys.List) }

// Sorted returns keys in ascending order.
func (c *Counter[K]) Sorted() []K { return slices.Sorted(maps.Keys(c.counts)) }

// Map returns a copy of the counts, never nil.
func (c *Counter[K]) Map() map[K]int {
	m := make(map[K]int, len(c.counts))
	maps.Copy(m, c.counts)
	return m
}

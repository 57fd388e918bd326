// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package unique

// List of unique comparable values in the order they were first added.
type List[T comparable] struct {
	List []T
	Set  Set[T]
}

func NewList[T comparable](values ...T) *List[T] {
	l := &List[T]{Set: Set[T]{}}
	l.Append(values...)
	return l
}

// Add a value if not already present, return true if the value was added.
func (l *List[T]) Add(v T) bool {
	if l.Set == nil {
		l.Set = Set[T]{}
	}
	if l.Set.Has(v) {
		return false
	}
	l.Set.Add(v)
	l.List = append(l.List, v)
	return true
}

func (l *List[T]) Has(v T) bool { return l.Set.Has(v) }

func (l *List[T]) Len() int { return len(l.List) }

func (l *List[T]) Append(values ...T) {
	for _, v := range values {
		_ = l.Add(v)
	}
}

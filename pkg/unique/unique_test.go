// Copyright: This file is part of logsleuth, released under https://github.com/korrel8r/logsleuth/blob/main/LICENSE

package unique_test

import (
	"testing"

	"github.com/korrel8r/logsleuth/pkg/unique"
	"github.com/stretchr/testify/assert"
)

func TestList(t *testing.T) {
	l := unique.NewList(3, 1, 3, 2, 1)
	assert.Equal(t, []int{3, 1, 2}, l.List)
	assert.True(t, l.Has(2))
	assert.False(t, l.Add(3))
	assert.True(t, l.Add(4))
	assert.Equal(t, 4, l.Len())

	var zero unique.List[string]
	assert.True(t, zero.Add("x"))
	assert.Equal(t, []string{"x"}, zero.List)
}

func TestSet(t *testing.T) {
	s := unique.NewSet("a", "b", "a")
	assert.Len(t, s, 2)
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
}

func TestCounter(t *testing.T) {
	var c unique.Counter[string]
	for _, k := range []string{"login", "login", "logout", "login", "admin"} {
		c.Inc(k)
	}
	assert.Equal(t, 3, c.Count("login"))
	assert.Equal(t, 0, c.Count("missing"))
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"login", "logout", "admin"}, c.Keys())
	assert.Equal(t, []string{"admin", "login", "logout"}, c.Sorted())
	assert.Equal(t, map[string]int{"login": 3, "logout": 1, "admin": 1}, c.Map())

	var empty unique.Counter[int]
	assert.NotNil(t, empty.Map())
	assert.Empty(t, empty.Keys())
}

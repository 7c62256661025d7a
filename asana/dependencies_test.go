package asana

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDependencies(t *testing.T) {
	s, f := newTestService(t)
	a := mustTask(t, s, f.alice, f.ws, "A")
	b := mustTask(t, s, f.alice, f.ws, "B")
	c := mustTask(t, s, f.alice, f.ws, "C")

	require.Nil(t, s.AddDependencies(f.alice, a.GID, []string{b.GID}))
	require.Nil(t, s.AddDependencies(f.alice, b.GID, []string{c.GID}))

	deps, herr := s.ListDependencies(f.alice, a.GID)
	require.Nil(t, herr)
	assert.Equal(t, []string{b.GID}, gids(deps))

	dependents, herr := s.ListDependents(f.alice, b.GID)
	require.Nil(t, herr)
	assert.Equal(t, []string{a.GID}, gids(dependents))

	// adding again is a no-op
	require.Nil(t, s.AddDependencies(f.alice, a.GID, []string{b.GID}))
	deps, _ = s.ListDependencies(f.alice, a.GID)
	assert.Len(t, deps, 1)

	tests := []struct {
		name string
		task string
		deps []string
		code int
	}{
		{name: "self", task: a.GID, deps: []string{a.GID}, code: http.StatusBadRequest},
		{name: "direct cycle", task: b.GID, deps: []string{a.GID}, code: http.StatusBadRequest},
		{name: "transitive cycle", task: c.GID, deps: []string{a.GID}, code: http.StatusBadRequest},
		{name: "unknown task", task: a.GID, deps: []string{"1234567890123456"}, code: http.StatusNotFound},
		{name: "empty", task: a.GID, deps: nil, code: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			herr := s.AddDependencies(f.alice, tc.task, tc.deps)
			require.NotNil(t, herr)
			assert.Equal(t, tc.code, herr.Code)
		})
	}

	got, _ := s.GetTask(f.alice, c.GID)
	assert.Empty(t, got.Dependencies)
}

func TestAddDependenciesIsAllOrNothing(t *testing.T) {
	s, f := newTestService(t)
	a := mustTask(t, s, f.alice, f.ws, "A")
	b := mustTask(t, s, f.alice, f.ws, "B")
	c := mustTask(t, s, f.alice, f.ws, "C")
	require.Nil(t, s.AddDependencies(f.alice, b.GID, []string{a.GID}))

	// the second edge is a self reference, so the first must not be written
	herr := s.AddDependents(f.alice, a.GID, []string{c.GID, a.GID})
	require.NotNil(t, herr)

	got, _ := s.GetTask(f.alice, c.GID)
	assert.Empty(t, got.Dependencies)
}

func TestAddDependenciesAcrossWorkspaces(t *testing.T) {
	s, f := newTestService(t)
	a := mustTask(t, s, f.alice, f.ws, "A")
	other := mustTask(t, s, f.alice, f.org, "Other")

	herr := s.AddDependencies(f.alice, a.GID, []string{other.GID})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
}

func TestDependencyLimit(t *testing.T) {
	s, f := newTestService(t)
	hub := mustTask(t, s, f.alice, f.ws, "hub")

	var deps []string
	for i := 0; i < MaxDependencies; i++ {
		deps = append(deps, mustTask(t, s, "", f.ws, "dep").GID)
	}
	require.Nil(t, s.AddDependencies(f.alice, hub.GID, deps))

	extra := mustTask(t, s, "", f.ws, "extra")
	herr := s.AddDependents(f.alice, hub.GID, []string{extra.GID})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
	assert.Contains(t, herr.Message, "30")
}

func TestRemoveDependencies(t *testing.T) {
	s, f := newTestService(t)
	a := mustTask(t, s, f.alice, f.ws, "A")
	b := mustTask(t, s, f.alice, f.ws, "B")
	c := mustTask(t, s, f.alice, f.ws, "C")
	require.Nil(t, s.AddDependents(f.alice, a.GID, []string{b.GID, c.GID}))

	dependents, _ := s.ListDependents(f.alice, a.GID)
	assert.ElementsMatch(t, []string{b.GID, c.GID}, gids(dependents))

	require.Nil(t, s.RemoveDependents(f.alice, a.GID, []string{b.GID}))
	require.Nil(t, s.RemoveDependencies(f.alice, c.GID, []string{a.GID}))

	dependents, _ = s.ListDependents(f.alice, a.GID)
	assert.Empty(t, dependents)

	herr := s.RemoveDependencies(f.alice, c.GID, []string{"1234567890123456"})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusNotFound, herr.Code)
}

func TestDependencyGraphReaches(t *testing.T) {
	g := dependencyGraph{
		"a": {"b"},
		"b": {"c", "d"},
		"c": {"a"},
		"e": nil,
	}
	assert.True(t, g.reaches("a", "d"))
	assert.True(t, g.reaches("c", "b"))
	assert.False(t, g.reaches("d", "a"))
	assert.False(t, g.reaches("a", "e"))
	assert.Equal(t, 2, g.degree("a"))
	assert.ElementsMatch(t, []string{"b"}, g.dependents("c"))
}

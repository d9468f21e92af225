package graph_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/graph"
)

// adjGraph is a map-backed Graph[string] used across these tests, modeled
// after the small hand-built fixtures in rfielding-kripke-ctl's
// kripke/ctl_test.go.
type adjGraph struct {
	succ map[string][]string
	pred map[string][]string
}

func (g adjGraph) Successors(n string) []string   { return g.succ[n] }
func (g adjGraph) Predecessors(n string) []string { return g.pred[n] }

func TestReachable(t *testing.T) {
	g := adjGraph{succ: map[string][]string{
		"a": {"b", "c"},
		"b": {"d"},
		"c": {},
		"d": {},
		"e": {"a"},
	}}
	reached := graph.Reachable[string](g, []string{"a"})
	assert.Len(t, reached, 4)
	for _, n := range []string{"a", "b", "c", "d"} {
		assert.Contains(t, reached, n)
	}
	assert.NotContains(t, reached, "e")
}

func TestReachableBackward(t *testing.T) {
	g := adjGraph{pred: map[string][]string{
		"d": {"b", "c"},
		"b": {"a"},
		"c": {"a"},
		"a": {},
	}}
	reached := graph.ReachableBackward[string](g, []string{"d"})
	assert.Len(t, reached, 4)
}

func TestShortestPathFound(t *testing.T) {
	g := adjGraph{succ: map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {},
	}}
	path, err := graph.ShortestPath[string](g, "a", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, path)
}

func TestShortestPathNoPath(t *testing.T) {
	g := adjGraph{succ: map[string][]string{"a": {}, "b": {}}}
	_, err := graph.ShortestPath[string](g, "a", "b")
	require.Error(t, err)
}

func TestTarjanFindsCycle(t *testing.T) {
	g := adjGraph{succ: map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
		"d": {},
	}}
	sccs := graph.Tarjan[string](g, []string{"a", "d"})
	require.Len(t, sccs, 1)
	nodes := append([]string(nil), sccs[0].Nodes...)
	sort.Strings(nodes)
	assert.Equal(t, []string{"a", "b", "c"}, nodes)
}

func TestTarjanSelfLoopIsNonTrivial(t *testing.T) {
	g := adjGraph{succ: map[string][]string{
		"a": {"a"},
		"b": {},
	}}
	sccs := graph.Tarjan[string](g, []string{"a", "b"})
	require.Len(t, sccs, 1)
	assert.Equal(t, []string{"a"}, sccs[0].Nodes)
}

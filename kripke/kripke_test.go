package kripke_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/ctl"
	"github.com/vnmc-go/verifier/kripke"
	"github.com/vnmc-go/verifier/timp"
)

func TestBuildSingleAssignmentIsTotal(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewAssign(x, timp.Const{Value: true}, "a")}
	structure, err := kripke.Build(m)
	require.NoError(t, err)

	for _, id := range structure.StatesInOrder() {
		assert.NotEmpty(t, structure.Successors(id), "every state must have at least one successor")
	}
}

func TestBuildLabelsAPsFromVariablesAndAnnotations(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewAssign(x, timp.Const{Value: true}, "a")}
	structure, err := kripke.Build(m)
	require.NoError(t, err)

	assert.True(t, structure.Holds(structure.Initial, "a"))
	assert.False(t, structure.Holds(structure.Initial, "x"))

	succs := structure.Successors(structure.Initial)
	require.Len(t, succs, 1)
	assert.True(t, structure.Holds(succs[0], "x"))
	assert.False(t, structure.Holds(succs[0], "a"))
}

// TestCheckCTLKnuthYaoStyleExample is spec.md §8 scenario (iii):
// AG(a -> AX(a)) is false because the successor state lacks "a".
func TestCheckCTLKnuthYaoStyleExample(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewAssign(x, timp.Const{Value: true}, "a")}

	phi := ctl.AG(ctl.Or{Left: ctl.Not{Operand: ctl.AP{Name: "a"}}, Right: ctl.AX(ctl.AP{Name: "a"})})
	holds, err := kripke.CheckCTL(m, phi)
	require.NoError(t, err)
	assert.False(t, holds)
}

func TestRepeatProducesFiniteKripkeStructure(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewRepeat(timp.NewAssign(x, timp.Not{Operand: x}, "tick"))}
	structure, err := kripke.Build(m)
	require.NoError(t, err)
	assert.Len(t, structure.StatesInOrder(), 2)
}

package ltlcheck_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/ltl"
	"github.com/vnmc-go/verifier/ltlcheck"
	"github.com/vnmc-go/verifier/timp"
	"github.com/vnmc-go/verifier/verrors"
)

// TestGloballyAImpliesNextNotAHoldsOnSingleAssign is spec.md §8 scenario
// (i): G(a -> X(!a)) holds because after the single step the program is
// Skip with no annotations, so the implication is vacuously true beyond
// step 0. This is the scenario that exercises the Next operator through
// the tableau, unlike a bare reachability formula.
func TestGloballyAImpliesNextNotAHoldsOnSingleAssign(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewAssign(x, timp.Const{Value: true}, "a")}

	a := ltl.AP{Name: "a"}
	phi := ltl.Globally(ltl.Implies(a, ltl.Next{Operand: ltl.Negate(a)}))
	result, err := ltlcheck.Check(m, phi)
	require.NoError(t, err)
	assert.True(t, result.Holds)
	assert.Empty(t, result.Counterexample)
}

// TestGloballyViolatedProducesCounterexample is spec.md §8 scenario (ii):
// "a" holds only at the first step, so G(a) is violated, and the violation
// must come with a lasso-shaped counterexample.
func TestGloballyViolatedProducesCounterexample(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewAssign(x, timp.Const{Value: true}, "a")}

	result, err := ltlcheck.Check(m, ltl.Globally(ltl.AP{Name: "a"}))
	require.NoError(t, err)
	assert.False(t, result.Holds)
	assert.NotEmpty(t, result.Counterexample)
}

// TestGloballyFinallyHoldsOnRepeatingTick is spec.md §8 scenario (vi): the
// repeating toggle is annotated @tick on every iteration, so "tick" holds
// infinitely often trivially.
func TestGloballyFinallyHoldsOnRepeatingTick(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewRepeat(timp.NewAssign(x, timp.Not{Operand: x}, "tick"))}

	result, err := ltlcheck.Check(m, ltl.Globally(ltl.Finally(ltl.AP{Name: "tick"})))
	require.NoError(t, err)
	assert.True(t, result.Holds)
}

func TestCheckRejectsFormulaAPNotInModule(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewAssign(x, timp.Const{Value: true}, "a")}

	_, err := ltlcheck.Check(m, ltl.AP{Name: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, verrors.ErrWellFormedness))
}

func TestBuildModuleGBAIsSafetyAutomaton(t *testing.T) {
	x := timp.Variable{Name: "x"}
	m := timp.Module{Name: "m", Command: timp.NewAssign(x, timp.Const{Value: true}, "a")}

	gba, err := ltlcheck.BuildModuleGBA(m)
	require.NoError(t, err)
	require.Len(t, gba.Accepting, 1)
	assert.Len(t, gba.Accepting[0], len(gba.States))
}

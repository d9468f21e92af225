package tableau_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/ltl"
	"github.com/vnmc-go/verifier/tableau"
)

func TestClosureContainsSubformulaeAndNegations(t *testing.T) {
	p := ltl.AP{Name: "p"}
	phi := ltl.Until{Left: ltl.True{}, Right: p}
	closure := tableau.Closure(phi)

	hasEqual := func(f ltl.Formula) bool {
		for _, c := range closure {
			if c.Equal(f) {
				return true
			}
		}
		return false
	}
	assert.True(t, hasEqual(phi))
	assert.True(t, hasEqual(p))
	assert.True(t, hasEqual(ltl.Negate(phi)))
	assert.True(t, hasEqual(ltl.Negate(p)))
}

func TestElementarySetsAreMaximalAndConsistent(t *testing.T) {
	p := ltl.AP{Name: "p"}
	closure, masks := tableau.ElementarySets(p, nil)
	require.NotEmpty(t, masks)
	for _, mask := range masks {
		for i := range closure {
			negIdx := -1
			for j, f := range closure {
				if f.Equal(ltl.Negate(closure[i])) {
					negIdx = j
					break
				}
			}
			require.GreaterOrEqual(t, negIdx, 0)
			// Maximality + negation-consistency: exactly one of a formula
			// and its negation is in every elementary set.
			assert.NotEqual(t, mask[i], mask[negIdx])
		}
	}
}

func TestBuildHasOneStatePerElementarySet(t *testing.T) {
	p := ltl.AP{Name: "p"}
	_, masks := tableau.ElementarySets(p, nil)
	gba := tableau.Build(p, nil)
	assert.Len(t, gba.States, len(masks))
	assert.NotEmpty(t, gba.Initial)
}

func TestBuildUntilHasAcceptingSet(t *testing.T) {
	p := ltl.AP{Name: "p"}
	finally := ltl.Finally(p)
	gba := tableau.Build(finally, []ltl.Formula{p})
	assert.NotEmpty(t, gba.Accepting)
}

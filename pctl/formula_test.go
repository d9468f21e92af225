package pctl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/pctl"
)

func TestNewProbabilityAcceptsValidBounds(t *testing.T) {
	p, err := pctl.NewProbability(0.2, 0.8, pctl.Next{Operand: pctl.True{}})
	require.NoError(t, err)
	assert.Equal(t, 0.2, p.LB)
	assert.Equal(t, 0.8, p.UB)
}

func TestNewProbabilityRejectsInvertedBounds(t *testing.T) {
	_, err := pctl.NewProbability(0.9, 0.1, pctl.Next{Operand: pctl.True{}})
	assert.Error(t, err)
}

func TestNewProbabilityRejectsOutOfUnitRange(t *testing.T) {
	_, err := pctl.NewProbability(-0.1, 0.5, pctl.Next{Operand: pctl.True{}})
	assert.Error(t, err)

	_, err = pctl.NewProbability(0.5, 1.1, pctl.Next{Operand: pctl.True{}})
	assert.Error(t, err)
}

func TestNewBoundedUntilRejectsNegativeStep(t *testing.T) {
	_, err := pctl.NewBoundedUntil(pctl.True{}, pctl.AP{Name: "t"}, -1)
	assert.Error(t, err)
}

func TestStringRendersProbabilityOperator(t *testing.T) {
	path := pctl.Until{Left: pctl.True{}, Right: pctl.AP{Name: "t"}}
	phi, err := pctl.NewProbability(0.5, 1, path)
	require.NoError(t, err)
	assert.Equal(t, "P[0.5,1](true U t)", phi.String())
}

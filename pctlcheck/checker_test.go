package pctlcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/dtmc"
	"github.com/vnmc-go/verifier/pctl"
	"github.com/vnmc-go/verifier/pctlcheck"
)

// buildKnuthYaoDie mirrors the fixture in dtmc_test.go (spec.md §8
// scenario (iv)): s0 fair-splits to s123/s456, down to s1..s6 absorbing
// with AP "t".
func buildKnuthYaoDie() (*dtmc.DTMC, map[string]dtmc.StateID) {
	d := dtmc.New()
	ids := make(map[string]dtmc.StateID)
	mk := func(name string, ap ...string) dtmc.StateID {
		apSet := make(map[string]struct{}, len(ap))
		for _, a := range ap {
			apSet[a] = struct{}{}
		}
		s := d.CreateState(name, apSet, nil)
		ids[name] = s.ID
		return s.ID
	}
	s0 := mk("s0")
	s123 := mk("s123")
	s456 := mk("s456")
	s23 := mk("s23")
	s45 := mk("s45")
	s1 := mk("s1", "t")
	s2 := mk("s2", "t")
	s3 := mk("s3", "t")
	s4 := mk("s4", "t")
	s5 := mk("s5", "t")
	s6 := mk("s6", "t")

	d.CreateTransition(s0, 0.5, s123)
	d.CreateTransition(s0, 0.5, s456)
	d.CreateTransition(s123, 0.5, s1)
	d.CreateTransition(s123, 0.5, s23)
	d.CreateTransition(s23, 0.5, s2)
	d.CreateTransition(s23, 0.5, s3)
	d.CreateTransition(s456, 0.5, s4)
	d.CreateTransition(s456, 0.5, s45)
	d.CreateTransition(s45, 0.5, s5)
	d.CreateTransition(s45, 0.5, s6)
	for _, abs := range []dtmc.StateID{s1, s2, s3, s4, s5, s6} {
		d.CreateTransition(abs, 1, abs)
	}
	return d, ids
}

func TestProbabilityUntilHoldsAtS0(t *testing.T) {
	d, ids := buildKnuthYaoDie()
	path := pctl.Until{Left: pctl.True{}, Right: pctl.AP{Name: "t"}}
	phi, err := pctl.NewProbability(0.5, 1, path)
	require.NoError(t, err)

	holds, err := pctlcheck.Check(d, phi, ids["s0"], dtmc.Dense)
	require.NoError(t, err)
	assert.True(t, holds)
}

func TestProbabilityBoundsRejectOutOfRange(t *testing.T) {
	_, err := pctl.NewProbability(0.7, 0.2, pctl.Next{Operand: pctl.True{}})
	require.Error(t, err)
}

func TestConjunctionOfStateFormulas(t *testing.T) {
	d, ids := buildKnuthYaoDie()
	f := pctl.And{Left: pctl.AP{Name: "t"}, Right: pctl.Not{Operand: pctl.AP{Name: "t"}}}
	holds, err := pctlcheck.Check(d, f, ids["s1"], dtmc.Dense)
	require.NoError(t, err)
	assert.False(t, holds)
}

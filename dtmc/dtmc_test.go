package dtmc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/dtmc"
)

// buildKnuthYaoDie builds the canonical six-sided die DTMC driven by fair
// coin flips (spec.md §8 scenarios (iv)/(v), confirmed against
// examples/knuth_die.py in original_source/). s0 fair-splits to s123/s456,
// those split further down to s1..s6, each absorbing with AP "t" and,
// for the reward scenario, reward 1 on the two three-way-split states.
func buildKnuthYaoDie(t *testing.T, withReward bool) (*dtmc.DTMC, map[string]dtmc.StateID) {
	t.Helper()
	d := dtmc.New()
	ids := make(map[string]dtmc.StateID)
	reward := func(v float64) *float64 { return &v }

	mk := func(name string, r *float64, ap ...string) dtmc.StateID {
		apSet := make(map[string]struct{}, len(ap))
		for _, a := range ap {
			apSet[a] = struct{}{}
		}
		s := d.CreateState(name, apSet, r)
		ids[name] = s.ID
		return s.ID
	}

	var r123, r456 *float64
	if withReward {
		r123, r456 = reward(1), reward(1)
	}

	s0 := mk("s0", nil)
	s123 := mk("s123", r123)
	s456 := mk("s456", r456)
	s23 := mk("s23", nil)
	s45 := mk("s45", nil)
	s1 := mk("s1", nil, "t")
	s2 := mk("s2", nil, "t")
	s3 := mk("s3", nil, "t")
	s4 := mk("s4", nil, "t")
	s5 := mk("s5", nil, "t")
	s6 := mk("s6", nil, "t")

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

func TestUnboundedReachabilityKnuthYaoDie(t *testing.T) {
	d, ids := buildKnuthYaoDie(t, false)
	engine, err := dtmc.NewEngine(d, dtmc.Dense)
	require.NoError(t, err)

	target := map[dtmc.StateID]struct{}{
		ids["s1"]: {}, ids["s2"]: {}, ids["s3"]: {}, ids["s4"]: {}, ids["s5"]: {}, ids["s6"]: {},
	}
	result, err := engine.UnboundedReachability(nil, target)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result[ids["s0"]], 1e-9)
}

func TestExpectedRewardKnuthYaoDie(t *testing.T) {
	d, ids := buildKnuthYaoDie(t, true)
	engine, err := dtmc.NewEngine(d, dtmc.Dense)
	require.NoError(t, err)

	target := map[dtmc.StateID]struct{}{
		ids["s1"]: {}, ids["s2"]: {}, ids["s3"]: {}, ids["s4"]: {}, ids["s5"]: {}, ids["s6"]: {},
	}
	result, err := engine.ExpectedReward(target)
	require.NoError(t, err)
	assert.InDelta(t, 11.0/3.0, result[ids["s0"]], 1e-9)
}

func TestBoundedReachabilityConvergesToUnbounded(t *testing.T) {
	d, ids := buildKnuthYaoDie(t, false)
	engine, err := dtmc.NewEngine(d, dtmc.Dense)
	require.NoError(t, err)
	target := map[dtmc.StateID]struct{}{
		ids["s1"]: {}, ids["s2"]: {}, ids["s3"]: {}, ids["s4"]: {}, ids["s5"]: {}, ids["s6"]: {},
	}
	bounded, err := engine.BoundedReachability(nil, target, 50)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bounded[ids["s0"]], 1e-6)
}

func TestReachabilityRejectsOverlappingBadAndTarget(t *testing.T) {
	d, ids := buildKnuthYaoDie(t, false)
	engine, err := dtmc.NewEngine(d, dtmc.Dense)
	require.NoError(t, err)
	overlap := map[dtmc.StateID]struct{}{ids["s1"]: {}}
	_, err = engine.UnboundedReachability(overlap, overlap)
	require.Error(t, err)
}

func TestTransientDistributionAfterOneStep(t *testing.T) {
	d, ids := buildKnuthYaoDie(t, false)
	engine, err := dtmc.NewEngine(d, dtmc.Dense)
	require.NoError(t, err)
	dist, err := engine.Transient(map[dtmc.StateID]float64{ids["s0"]: 1}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dist[ids["s123"]], 1e-9)
	assert.InDelta(t, 0.5, dist[ids["s456"]], 1e-9)
}

func TestSparseEngineIsUnsupported(t *testing.T) {
	d, _ := buildKnuthYaoDie(t, false)
	engine, err := dtmc.NewEngine(d, dtmc.Sparse)
	require.NoError(t, err)
	_, err = engine.Transient(nil, 1)
	require.Error(t, err)
}

package dtmc

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/graph"
	"github.com/vnmc-go/verifier/verrors"
)

// dense is a row-major n x n matrix, the layout katalvlaran/lvlath's
// matrix package uses (see DESIGN.md for why that package is not
// imported directly).
type dense struct {
	n    int
	data []float64 // row-major, n*n
}

func newDense(n int) *dense { return &dense{n: n, data: make([]float64, n*n)} }

func (m *dense) at(i, j int) float64     { return m.data[i*m.n+j] }
func (m *dense) set(i, j int, v float64) { m.data[i*m.n+j] = v }

// solveShiftedIdentity solves (m - I)x = b via Gaussian elimination with partial
// pivoting, returning verrors.ErrNumeric if the system is singular. This
// is the linear-algebra core spec.md §4.9 needs for unbounded
// reachability and expected reward (vnmc's Python port uses
// numpy.linalg.solve; this is the hand-rolled dense equivalent, the
// "design grounding" DESIGN.md attributes to lvlath/matrix).
func solveShiftedIdentity(m *dense, b []float64) ([]float64, error) {
	n := m.n
	a := make([]float64, n*n)
	copy(a, m.data)
	for i := 0; i < n; i++ {
		a[i*n+i] -= 1
	}
	rhs := append([]float64(nil), b...)

	for col := 0; col < n; col++ {
		pivot := col
		best := abs(a[col*n+col])
		for r := col + 1; r < n; r++ {
			if v := abs(a[r*n+col]); v > best {
				best = v
				pivot = r
			}
		}
		if best < 1e-12 {
			return nil, fmt.Errorf("dtmc: singular system at column %d: %w", col, verrors.ErrNumeric)
		}
		if pivot != col {
			for k := 0; k < n; k++ {
				a[col*n+k], a[pivot*n+k] = a[pivot*n+k], a[col*n+k]
			}
			rhs[col], rhs[pivot] = rhs[pivot], rhs[col]
		}
		pivotVal := a[col*n+col]
		for r := col + 1; r < n; r++ {
			factor := a[r*n+col] / pivotVal
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[r*n+k] -= factor * a[col*n+k]
			}
			rhs[r] -= factor * rhs[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := rhs[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row*n+k] * x[k]
		}
		x[row] = sum / a[row*n+row]
	}
	return x, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

type denseEngine struct {
	d          *DTMC
	stateToIdx map[StateID]int
	idxToState []StateID
	matrix     *dense
}

func newDenseEngine(d *DTMC) *denseEngine {
	order := d.StatesInOrder()
	n := len(order)
	e := &denseEngine{d: d, stateToIdx: make(map[StateID]int, n), idxToState: order, matrix: newDense(n)}
	for i, s := range order {
		e.stateToIdx[s] = i
	}
	for _, t := range d.Transitions {
		i, okI := e.stateToIdx[t.Source]
		j, okJ := e.stateToIdx[t.Target]
		if okI && okJ {
			e.matrix.set(i, j, t.Probability)
		}
	}
	return e
}

var _ Engine = (*denseEngine)(nil)

// Transient returns mu . P^t as a sparse map of states with non-zero
// mass (spec.md §4.9's `transient`).
func (e *denseEngine) Transient(initial map[StateID]float64, t int) (map[StateID]float64, error) {
	n := len(e.idxToState)
	vec := make([]float64, n)
	for s, p := range initial {
		idx, ok := e.stateToIdx[s]
		if !ok {
			return nil, fmt.Errorf("dtmc: transient: unknown state %d: %w", s, verrors.ErrInvalidArgument)
		}
		vec[idx] = p
	}
	for step := 0; step < t; step++ {
		next := make([]float64, n)
		for i := 0; i < n; i++ {
			if vec[i] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				next[j] += vec[i] * e.matrix.at(i, j)
			}
		}
		vec = next
	}
	out := make(map[StateID]float64)
	for i, s := range e.idxToState {
		if vec[i] > 0 {
			out[s] = vec[i]
		}
	}
	log.Debug().Int("steps", t).Int("nonzero_states", len(out)).Msg("dtmc: transient distribution computed")
	return out, nil
}

// BoundedReachability implements spec.md §4.9's finite-horizon
// reachability: x <- Q.x + b, iterated t times from x=0.
func (e *denseEngine) BoundedReachability(bad, target map[StateID]struct{}, t int) (map[StateID]float64, error) {
	return e.reachability(bad, target, t, false)
}

// UnboundedReachability implements spec.md §4.9's infinite-horizon
// reachability: solve (Q-I)x = -b.
func (e *denseEngine) UnboundedReachability(bad, target map[StateID]struct{}) (map[StateID]float64, error) {
	return e.reachability(bad, target, 0, true)
}

func (e *denseEngine) reachability(bad, target map[StateID]struct{}, t int, unbounded bool) (map[StateID]float64, error) {
	for s := range bad {
		if _, ok := target[s]; ok {
			return nil, fmt.Errorf("dtmc: bad and target overlap at state %d: %w", s, verrors.ErrInvalidArgument)
		}
	}

	targetList := idsOf(target)
	undetermined := e.undeterminedFor(targetList, bad, target)
	uIdx := e.indicesOf(undetermined)
	tIdx := e.indicesOf(targetList)

	n := len(undetermined)
	q := newDense(n)
	b := make([]float64, n)
	for i, gi := range uIdx {
		for j, gj := range uIdx {
			q.set(i, j, e.matrix.at(gi, gj))
		}
		for _, gt := range tIdx {
			b[i] += e.matrix.at(gi, gt)
		}
	}

	var result []float64
	if unbounded {
		x, err := solveShiftedIdentity(q, negate(b))
		if err != nil {
			return nil, err
		}
		result = x
	} else {
		x := make([]float64, n)
		for step := 0; step < t; step++ {
			next := make([]float64, n)
			for i := 0; i < n; i++ {
				sum := b[i]
				for j := 0; j < n; j++ {
					sum += q.at(i, j) * x[j]
				}
				next[i] = sum
			}
			x = next
		}
		result = x
	}

	out := make(map[StateID]float64, len(undetermined)+len(target)+len(bad))
	for i, s := range undetermined {
		out[s] = result[i]
	}
	for s := range target {
		out[s] = 1
	}
	for s := range bad {
		out[s] = 0
	}
	return out, nil
}

// ExpectedReward implements spec.md §4.9: undetermined states are those
// that reach target almost surely; solve (Q-I)x = -r over them.
func (e *denseEngine) ExpectedReward(target map[StateID]struct{}) (map[StateID]float64, error) {
	canReachTarget := graph.ReachableBackward[StateID](e.d, idsOf(target))
	allStates := make(map[StateID]struct{}, len(e.idxToState))
	for _, s := range e.idxToState {
		allStates[s] = struct{}{}
	}
	var cannotReach []StateID
	for s := range allStates {
		if _, ok := canReachTarget[s]; !ok {
			cannotReach = append(cannotReach, s)
		}
	}
	predOfCannotReach := graph.ReachableBackward[StateID](e.d, cannotReach)

	var undetermined []StateID
	for _, s := range e.idxToState {
		if _, bad := predOfCannotReach[s]; bad {
			continue
		}
		if _, isTarget := target[s]; isTarget {
			continue
		}
		undetermined = append(undetermined, s)
	}

	uIdx := e.indicesOf(undetermined)
	n := len(undetermined)
	q := newDense(n)
	r := make([]float64, n)
	for i, gi := range uIdx {
		for j, gj := range uIdx {
			q.set(i, j, e.matrix.at(gi, gj))
		}
		state := e.d.States[undetermined[i]]
		if state.Reward != nil {
			r[i] = *state.Reward
		}
	}

	x, err := solveShiftedIdentity(q, negate(r))
	if err != nil {
		return nil, err
	}

	out := make(map[StateID]float64, len(undetermined)+len(target))
	for i, s := range undetermined {
		out[s] = x[i]
	}
	for s := range target {
		out[s] = 0
	}
	log.Debug().Int("undetermined_states", n).Msg("dtmc: expected reward solved")
	return out, nil
}

// undeterminedFor computes Pre*(target) \ target \ bad, the reachability
// query's undetermined-state set (spec.md §4.9's unbounded_reachability).
func (e *denseEngine) undeterminedFor(targetList []StateID, bad, target map[StateID]struct{}) []StateID {
	preStar := graph.ReachableBackward[StateID](e.d, targetList)
	var out []StateID
	for _, s := range e.idxToState {
		if _, inPre := preStar[s]; !inPre {
			continue
		}
		if _, isTarget := target[s]; isTarget {
			continue
		}
		if _, isBad := bad[s]; isBad {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (e *denseEngine) indicesOf(states []StateID) []int {
	out := make([]int, len(states))
	for i, s := range states {
		out[i] = e.stateToIdx[s]
	}
	return out
}

func idsOf(set map[StateID]struct{}) []StateID {
	out := make([]StateID, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	return out
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

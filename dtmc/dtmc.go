// Package dtmc implements discrete-time Markov chain containers and the
// numerical engines that solve transient distribution, bounded/unbounded
// reachability and expected-reward queries over them (spec.md §4.9),
// grounded on vnmc/probabilistic/dtmc/dtmc.py's state/transition/graph
// shape and vnmc/probabilistic/dtmc/engine.py's engine split — with the
// dense linear algebra itself grounded on katalvlaran/lvlath's matrix
// package design (row-major Dense layout, sentinel-error shape), hand-
// rolled here because the pack's own matrix package has internal
// inconsistencies that make it unsafe to import without a compiler to
// catch them (see DESIGN.md).
package dtmc

import (
	"fmt"
	"sort"

	"github.com/vnmc-go/verifier/graph"
	"github.com/vnmc-go/verifier/verrors"
)

// StateID is a stable, monotonically assigned identifier for a DTMC
// state.
type StateID int

// State is one DTMC state: identity, display name, optional reward, and
// the atomic propositions holding there (spec.md §3's DTMCState).
type State struct {
	ID     StateID
	Name   string
	Reward *float64
	AP     map[string]struct{}
}

// Transition is (source, probability, target).
type Transition struct {
	Source      StateID
	Probability float64
	Target      StateID
}

// DTMC is a discrete-time Markov chain: states plus transitions, with
// the invariant that outgoing probabilities from every reachable state
// sum to 1 (spec.md §3).
type DTMC struct {
	States      map[StateID]*State
	Transitions []Transition

	order  []StateID
	nextID StateID
}

// New builds an empty DTMC.
func New() *DTMC {
	return &DTMC{States: make(map[StateID]*State)}
}

// CreateState adds a fresh state and returns it. reward may be nil
// (treated as reward 0 by ExpectedReward).
func (d *DTMC) CreateState(name string, aps map[string]struct{}, reward *float64) *State {
	id := d.nextID
	d.nextID++
	s := &State{ID: id, Name: name, Reward: reward, AP: aps}
	d.States[id] = s
	d.order = append(d.order, id)
	return s
}

// CreateTransition adds source -p-> target.
func (d *DTMC) CreateTransition(source StateID, p float64, target StateID) {
	d.Transitions = append(d.Transitions, Transition{Source: source, Probability: p, Target: target})
}

// StatesInOrder returns states in deterministic (insertion) order.
func (d *DTMC) StatesInOrder() []StateID {
	return append([]StateID(nil), d.order...)
}

// Successors implements graph.Graph[StateID]: targets of every transition
// out of n with non-zero probability.
func (d *DTMC) Successors(n StateID) []StateID {
	var out []StateID
	for _, t := range d.Transitions {
		if t.Source == n && t.Probability > 0 {
			out = append(out, t.Target)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Predecessors implements graph.PredecessorGraph[StateID].
func (d *DTMC) Predecessors(n StateID) []StateID {
	var out []StateID
	for _, t := range d.Transitions {
		if t.Target == n && t.Probability > 0 {
			out = append(out, t.Source)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var _ graph.PredecessorGraph[StateID] = (*DTMC)(nil)

// Holds reports whether ap holds at state n — the LabeledGraph contract
// PCTL's AP clause needs.
func (d *DTMC) Holds(n StateID, ap string) bool {
	_, ok := d.States[n].AP[ap]
	return ok
}

// EngineKind selects which numerical engine backs a DTMC's queries
// (spec.md §9: "engines are a runtime selector... a sum type of engine
// variants behind a common operation set").
type EngineKind int

const (
	// Dense is the only engine with full semantics in scope.
	Dense EngineKind = iota
	// Sparse is an unimplemented stub (spec.md §9 Open Question (a)).
	Sparse
)

// Engine is the common operation set every DTMC engine variant supports
// (spec.md §4.9).
type Engine interface {
	Transient(initial map[StateID]float64, t int) (map[StateID]float64, error)
	BoundedReachability(bad, target map[StateID]struct{}, t int) (map[StateID]float64, error)
	UnboundedReachability(bad, target map[StateID]struct{}) (map[StateID]float64, error)
	ExpectedReward(target map[StateID]struct{}) (map[StateID]float64, error)
}

// NewEngine builds the engine variant requested by kind. Sparse returns a
// stub whose every method reports verrors.ErrUnsupported, matching
// vnmc/probabilistic/dtmc/engine.py's DTMCSparseEngine (every method is a
// bare `pass`, i.e. silently does nothing — this port makes that
// explicit rather than silently succeeding with no result, per spec.md
// §7's "never silently swallowed").
func NewEngine(d *DTMC, kind EngineKind) (Engine, error) {
	switch kind {
	case Dense:
		return newDenseEngine(d), nil
	case Sparse:
		return sparseEngine{}, nil
	default:
		return nil, fmt.Errorf("dtmc: engine kind %d: %w", kind, verrors.ErrInvalidArgument)
	}
}

type sparseEngine struct{}

func (sparseEngine) Transient(map[StateID]float64, int) (map[StateID]float64, error) {
	return nil, fmt.Errorf("dtmc: sparse engine Transient: %w", verrors.ErrUnsupported)
}
func (sparseEngine) BoundedReachability(map[StateID]struct{}, map[StateID]struct{}, int) (map[StateID]float64, error) {
	return nil, fmt.Errorf("dtmc: sparse engine BoundedReachability: %w", verrors.ErrUnsupported)
}
func (sparseEngine) UnboundedReachability(map[StateID]struct{}, map[StateID]struct{}) (map[StateID]float64, error) {
	return nil, fmt.Errorf("dtmc: sparse engine UnboundedReachability: %w", verrors.ErrUnsupported)
}
func (sparseEngine) ExpectedReward(map[StateID]struct{}) (map[StateID]float64, error) {
	return nil, fmt.Errorf("dtmc: sparse engine ExpectedReward: %w", verrors.ErrUnsupported)
}

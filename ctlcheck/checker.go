// Package ctlcheck implements the CTL model-checking engine: a bottom-up
// evaluator over a labeled state-transition graph, grounded directly on
// rfielding-kripke-ctl/model_checker.go's type-switch dispatcher
// (checkEX/checkEU/checkEG as growing/shrinking fixpoint loops driven by a
// changed flag) and rfielding-kripke-ctl/kripke/ctl.go's StateSet-returning
// Sat(g) pattern.
package ctlcheck

import (
	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/ctl"
	"github.com/vnmc-go/verifier/graph"
)

// LabeledGraph is the structure CTL formulas are checked over: a finite
// set of states, a successor relation, and an atomic-proposition labeling.
type LabeledGraph[N comparable] interface {
	graph.Graph[N]
	States() []N
	Holds(n N, ap string) bool
}

// Check evaluates f over every state of g and returns the set of states
// satisfying it, following the same recursive structure as
// rfielding-kripke-ctl/model_checker.go's Check method.
func Check[N comparable](g LabeledGraph[N], f ctl.Formula) map[N]bool {
	result := eval(g, f)
	satisfying := 0
	for _, ok := range result {
		if ok {
			satisfying++
		}
	}
	log.Debug().Int("satisfying_states", satisfying).Str("formula", f.String()).Msg("ctlcheck: evaluated formula")
	return result
}

// Holds reports whether f holds at state n.
func Holds[N comparable](g LabeledGraph[N], n N, f ctl.Formula) bool {
	return eval(g, f)[n]
}

func eval[N comparable](g LabeledGraph[N], f ctl.Formula) map[N]bool {
	switch v := f.(type) {
	case ctl.True:
		return allStates(g, true)
	case ctl.False:
		return allStates(g, false)
	case ctl.AP:
		out := make(map[N]bool)
		for _, n := range g.States() {
			out[n] = g.Holds(n, v.Name)
		}
		return out
	case ctl.And:
		l, r := eval(g, v.Left), eval(g, v.Right)
		return combine(g, l, r, func(a, b bool) bool { return a && b })
	case ctl.Or:
		l, r := eval(g, v.Left), eval(g, v.Right)
		return combine(g, l, r, func(a, b bool) bool { return a || b })
	case ctl.Not:
		inner := eval(g, v.Operand)
		out := make(map[N]bool)
		for _, n := range g.States() {
			out[n] = !inner[n]
		}
		return out
	case ctl.EX:
		return checkEX(g, eval(g, v.Operand))
	case ctl.EU:
		return checkEU(g, eval(g, v.Left), eval(g, v.Right))
	case ctl.EG:
		return checkEG(g, eval(g, v.Operand))
	default:
		panic("ctlcheck: unhandled formula variant")
	}
}

func allStates[N comparable](g LabeledGraph[N], val bool) map[N]bool {
	out := make(map[N]bool)
	for _, n := range g.States() {
		out[n] = val
	}
	return out
}

func combine[N comparable](g LabeledGraph[N], l, r map[N]bool, op func(a, b bool) bool) map[N]bool {
	out := make(map[N]bool)
	for _, n := range g.States() {
		out[n] = op(l[n], r[n])
	}
	return out
}

// checkEX holds at n iff some successor of n is in sat.
func checkEX[N comparable](g LabeledGraph[N], sat map[N]bool) map[N]bool {
	out := make(map[N]bool)
	for _, n := range g.States() {
		for _, succ := range g.Successors(n) {
			if sat[succ] {
				out[n] = true
				break
			}
		}
	}
	return out
}

// checkEU is the least fixpoint: start with states satisfying right, then
// repeatedly add states satisfying left that have a successor already in
// the set, until nothing changes.
func checkEU[N comparable](g LabeledGraph[N], left, right map[N]bool) map[N]bool {
	out := make(map[N]bool)
	for _, n := range g.States() {
		out[n] = right[n]
	}
	for changed := true; changed; {
		changed = false
		for _, n := range g.States() {
			if out[n] || !left[n] {
				continue
			}
			for _, succ := range g.Successors(n) {
				if out[succ] {
					out[n] = true
					changed = true
					break
				}
			}
		}
	}
	return out
}

// checkEG is the greatest fixpoint: start with every state satisfying
// sat, then repeatedly remove states with no successor remaining in the
// set, until nothing changes.
func checkEG[N comparable](g LabeledGraph[N], sat map[N]bool) map[N]bool {
	out := make(map[N]bool)
	for _, n := range g.States() {
		out[n] = sat[n]
	}
	for changed := true; changed; {
		changed = false
		for _, n := range g.States() {
			if !out[n] {
				continue
			}
			keep := false
			for _, succ := range g.Successors(n) {
				if out[succ] {
					keep = true
					break
				}
			}
			if !keep {
				out[n] = false
				changed = true
			}
		}
	}
	return out
}

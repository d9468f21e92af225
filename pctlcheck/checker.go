// Package pctlcheck implements the PCTL model-checking engine over a
// DTMC: state formulas evaluate to sets of satisfying states, path
// formulas (inside a Probability operator) evaluate to a per-state
// probability map via the dtmc package's dense engine (spec.md §4.9's
// last bullet — "the P operator exposes a per-state probability map
// intermediately"). Grounded on
// vnmc/model_checking/pctl_model_checking.py's DTMCModelChecker visitor.
package pctlcheck

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/dtmc"
	"github.com/vnmc-go/verifier/pctl"
	"github.com/vnmc-go/verifier/verrors"
)

// Check evaluates phi over d using the given engine kind and reports
// whether phi holds at state s.
func Check(d *dtmc.DTMC, phi pctl.StateFormula, s dtmc.StateID, kind dtmc.EngineKind) (bool, error) {
	engine, err := dtmc.NewEngine(d, kind)
	if err != nil {
		return false, err
	}
	satisfying, err := evalState(d, engine, phi)
	if err != nil {
		return false, err
	}
	_, ok := satisfying[s]
	log.Debug().Str("formula", phi.String()).Bool("holds", ok).Msg("pctlcheck: evaluated state formula")
	return ok, nil
}

func evalState(d *dtmc.DTMC, engine dtmc.Engine, f pctl.StateFormula) (map[dtmc.StateID]struct{}, error) {
	switch v := f.(type) {
	case pctl.True:
		out := make(map[dtmc.StateID]struct{})
		for _, s := range d.StatesInOrder() {
			out[s] = struct{}{}
		}
		return out, nil
	case pctl.False:
		return map[dtmc.StateID]struct{}{}, nil
	case pctl.AP:
		out := make(map[dtmc.StateID]struct{})
		for _, s := range d.StatesInOrder() {
			if d.Holds(s, v.Name) {
				out[s] = struct{}{}
			}
		}
		return out, nil
	case pctl.And:
		l, err := evalState(d, engine, v.Left)
		if err != nil {
			return nil, err
		}
		r, err := evalState(d, engine, v.Right)
		if err != nil {
			return nil, err
		}
		return intersect(l, r), nil
	case pctl.Or:
		l, err := evalState(d, engine, v.Left)
		if err != nil {
			return nil, err
		}
		r, err := evalState(d, engine, v.Right)
		if err != nil {
			return nil, err
		}
		return union(l, r), nil
	case pctl.Not:
		inner, err := evalState(d, engine, v.Operand)
		if err != nil {
			return nil, err
		}
		out := make(map[dtmc.StateID]struct{})
		for _, s := range d.StatesInOrder() {
			if _, in := inner[s]; !in {
				out[s] = struct{}{}
			}
		}
		return out, nil
	case pctl.Probability:
		probs, err := evalPath(d, engine, v.Path)
		if err != nil {
			return nil, err
		}
		out := make(map[dtmc.StateID]struct{})
		for s, p := range probs {
			if v.LB <= p && p <= v.UB {
				out[s] = struct{}{}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("pctlcheck: unhandled state formula variant %T: %w", f, verrors.ErrWellFormedness)
	}
}

// evalPath computes the per-state probability map for a path formula,
// following vnmc/model_checking/pctl_model_checking.py's visit_next /
// visit_until / visit_bounded_until.
func evalPath(d *dtmc.DTMC, engine dtmc.Engine, f pctl.PathFormula) (map[dtmc.StateID]float64, error) {
	switch v := f.(type) {
	case pctl.Next:
		phi, err := evalState(d, engine, v.Operand)
		if err != nil {
			return nil, err
		}
		out := make(map[dtmc.StateID]float64)
		for _, s := range d.StatesInOrder() {
			var mass float64
			for _, t := range d.Transitions {
				if t.Source == s {
					if _, in := phi[t.Target]; in {
						mass += t.Probability
					}
				}
			}
			out[s] = mass
		}
		return out, nil
	case pctl.Until:
		phi1, err := evalState(d, engine, v.Left)
		if err != nil {
			return nil, err
		}
		phi2, err := evalState(d, engine, v.Right)
		if err != nil {
			return nil, err
		}
		bad := complement(d, union(phi1, phi2))
		result, err := engine.UnboundedReachability(bad, phi2)
		if err != nil {
			return nil, err
		}
		return result, nil
	case pctl.BoundedUntil:
		phi1, err := evalState(d, engine, v.Left)
		if err != nil {
			return nil, err
		}
		phi2, err := evalState(d, engine, v.Right)
		if err != nil {
			return nil, err
		}
		bad := complement(d, union(phi1, phi2))
		result, err := engine.BoundedReachability(bad, phi2, v.K)
		if err != nil {
			return nil, err
		}
		return result, nil
	default:
		return nil, fmt.Errorf("pctlcheck: unhandled path formula variant %T: %w", f, verrors.ErrWellFormedness)
	}
}

func intersect(a, b map[dtmc.StateID]struct{}) map[dtmc.StateID]struct{} {
	out := make(map[dtmc.StateID]struct{})
	for s := range a {
		if _, ok := b[s]; ok {
			out[s] = struct{}{}
		}
	}
	return out
}

func union(a, b map[dtmc.StateID]struct{}) map[dtmc.StateID]struct{} {
	out := make(map[dtmc.StateID]struct{}, len(a)+len(b))
	for s := range a {
		out[s] = struct{}{}
	}
	for s := range b {
		out[s] = struct{}{}
	}
	return out
}

func complement(d *dtmc.DTMC, s map[dtmc.StateID]struct{}) map[dtmc.StateID]struct{} {
	out := make(map[dtmc.StateID]struct{})
	for _, st := range d.StatesInOrder() {
		if _, in := s[st]; !in {
			out[st] = struct{}{}
		}
	}
	return out
}

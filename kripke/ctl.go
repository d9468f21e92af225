package kripke

import (
	"github.com/vnmc-go/verifier/ctl"
	"github.com/vnmc-go/verifier/ctlcheck"
	"github.com/vnmc-go/verifier/graph"
	"github.com/vnmc-go/verifier/timp"
)

var (
	_ graph.PredecessorGraph[StateID]  = (*Structure)(nil)
	_ ctlcheck.LabeledGraph[StateID]   = (*Structure)(nil)
)

// CheckCTL builds module's Kripke structure and decides whether phi
// holds in it: phi holds iff every initial state satisfies it (spec.md
// §4.8's verdict rule; this module always has a single initial state, so
// the "every initial state" quantification is trivial but kept for
// fidelity to the spec).
func CheckCTL(module timp.Module, phi ctl.Formula) (bool, error) {
	structure, err := Build(module)
	if err != nil {
		return false, err
	}
	return ctlcheck.Holds[StateID](structure, structure.Initial, phi), nil
}

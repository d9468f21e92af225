// Package pctl implements the probabilistic CTL formula algebra: state
// formulas (True, False, AP, And, Or, Not, Probability[lb,ub]) and path
// formulas (Next, Until, BoundedUntil), grounded on
// rfielding-kripke-ctl/kripke/ctl.go's Formula-interface shape and on
// vnmc/logics/pctl/pctl.py's state/path formula split. The state/path
// typing discipline is enforced at compile time by the distinct
// StateFormula and PathFormula interfaces; the smart constructors
// NewProbability and NewBoundedUntil validate the probability bounds and
// the step count at construction time.
package pctl

import (
	"fmt"

	"github.com/vnmc-go/verifier/verrors"
)

// StateFormula is any well-formed PCTL state formula.
type StateFormula interface {
	fmt.Stringer
	isStateFormula()
}

// PathFormula is any well-formed PCTL path formula. Path formulas only
// ever occur inside a Probability operator.
type PathFormula interface {
	fmt.Stringer
	isPathFormula()
}

// True is the PCTL constant true.
type True struct{}

// False is the PCTL constant false.
type False struct{}

// AP is an atomic proposition.
type AP struct{ Name string }

// And is conjunction of state formulas.
type And struct{ Left, Right StateFormula }

// Or is disjunction of state formulas.
type Or struct{ Left, Right StateFormula }

// Not is negation of a state formula.
type Not struct{ Operand StateFormula }

// Probability is the P[lb,ub](path) operator: the probability of Path
// holding lies in [LB, UB]. Constructed only via NewProbability, which
// enforces 0 <= lb <= ub <= 1.
type Probability struct {
	LB, UB float64
	Path   PathFormula
}

func (True) isStateFormula()        {}
func (False) isStateFormula()       {}
func (AP) isStateFormula()          {}
func (And) isStateFormula()         {}
func (Or) isStateFormula()          {}
func (Not) isStateFormula()         {}
func (Probability) isStateFormula() {}

func (True) String() string  { return "true" }
func (False) String() string { return "false" }
func (a AP) String() string  { return a.Name }
func (f And) String() string { return fmt.Sprintf("(%s & %s)", f.Left, f.Right) }
func (f Or) String() string  { return fmt.Sprintf("(%s | %s)", f.Left, f.Right) }
func (f Not) String() string { return fmt.Sprintf("!%s", f.Operand) }
func (f Probability) String() string {
	return fmt.Sprintf("P[%g,%g](%s)", f.LB, f.UB, f.Path)
}

// Next is the path formula "the next state satisfies Operand".
type Next struct{ Operand StateFormula }

// Until is the unbounded path formula "Left holds until Right holds".
type Until struct{ Left, Right StateFormula }

// BoundedUntil is the step-bounded variant of Until: Right must be
// reached within K steps while Left holds.
type BoundedUntil struct {
	Left, Right StateFormula
	K           int
}

func (Next) isPathFormula()         {}
func (Until) isPathFormula()        {}
func (BoundedUntil) isPathFormula() {}

func (f Next) String() string  { return fmt.Sprintf("X(%s)", f.Operand) }
func (f Until) String() string { return fmt.Sprintf("%s U %s", f.Left, f.Right) }
func (f BoundedUntil) String() string {
	return fmt.Sprintf("%s U<=%d %s", f.Left, f.K, f.Right)
}

// NewProbability builds a Probability operator, returning
// verrors.ErrWellFormedness if the bounds violate 0 <= lb <= ub <= 1
// (spec.md §3's PCTLFormula invariant).
func NewProbability(lb, ub float64, path PathFormula) (Probability, error) {
	if lb < 0 || ub > 1 || lb > ub {
		return Probability{}, fmt.Errorf("pctl: probability bounds [%g,%g]: %w", lb, ub, verrors.ErrWellFormedness)
	}
	return Probability{LB: lb, UB: ub, Path: path}, nil
}

// NewBoundedUntil builds a BoundedUntil path formula, returning
// verrors.ErrWellFormedness if k is negative.
func NewBoundedUntil(left, right StateFormula, k int) (BoundedUntil, error) {
	if k < 0 {
		return BoundedUntil{}, fmt.Errorf("pctl: bounded until step count %d: %w", k, verrors.ErrWellFormedness)
	}
	return BoundedUntil{Left: left, Right: right, K: k}, nil
}

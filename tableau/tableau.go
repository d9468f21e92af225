// Package tableau builds a generalized Büchi automaton from an LTL
// formula via the classical elementary-set tableau construction (spec.md
// §4.6), grounded on vnmc/ltl/utils.py's compute_closure /
// compute_elementary_sets / ltl_to_gba, using this repo's automaton
// package as the target container and its ltl package for the formula
// algebra.
package tableau

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/automaton"
	"github.com/vnmc-go/verifier/ltl"
)

// Closure computes cl(phi): the smallest set containing phi, closed
// under subformulae and under adding the negation of every member
// (spec.md §4.6 step 1), with negations deduplicated via ltl.Negate so
// that e.g. Not{Not{p}} never appears as a distinct closure member from p.
func Closure(phi ltl.Formula) []ltl.Formula {
	var out []ltl.Formula
	add := func(f ltl.Formula) {
		for _, existing := range out {
			if existing.Equal(f) {
				return
			}
		}
		out = append(out, f)
	}
	var walk func(f ltl.Formula)
	walk = func(f ltl.Formula) {
		add(f)
		add(ltl.Negate(f))
		switch v := f.(type) {
		case ltl.And:
			walk(v.Left)
			walk(v.Right)
		case ltl.Or:
			walk(v.Left)
			walk(v.Right)
		case ltl.Not:
			walk(v.Operand)
		case ltl.Next:
			walk(v.Operand)
		case ltl.Until:
			walk(v.Left)
			walk(v.Right)
		}
	}
	walk(phi)
	return out
}

// isConsistent checks maximality, negation-consistency, Conjunction,
// Disjunction and Until consistency, and the False/True membership rules of spec.md
// §4.6 step 2, for a candidate subset of closure (given as a boolean
// membership mask indexed like closure).
func isConsistent(mask []bool, closure []ltl.Formula, index map[string]int) bool {
	for i, f := range closure {
		if !mask[i] {
			continue
		}
		if _, isFalse := f.(ltl.False); isFalse {
			return false
		}
		negIdx := index[key(ltl.Negate(f))]
		if mask[negIdx] {
			return false
		}
	}
	for i, f := range closure {
		and, ok := f.(ltl.And)
		if !ok {
			continue
		}
		lIdx, rIdx := index[key(and.Left)], index[key(and.Right)]
		bothIn := mask[lIdx] && mask[rIdx]
		if bothIn != mask[i] {
			return false
		}
	}
	for i, f := range closure {
		or, ok := f.(ltl.Or)
		if !ok {
			continue
		}
		lIdx, rIdx := index[key(or.Left)], index[key(or.Right)]
		eitherIn := mask[lIdx] || mask[rIdx]
		if eitherIn != mask[i] {
			return false
		}
	}
	for i, f := range closure {
		until, ok := f.(ltl.Until)
		if !ok {
			continue
		}
		bIdx := index[key(until.Right)]
		aIdx := index[key(until.Left)]
		if mask[bIdx] && !mask[i] {
			return false
		}
		if mask[i] && !mask[bIdx] && !mask[aIdx] {
			return false
		}
	}
	for i, f := range closure {
		if _, isTrue := f.(ltl.True); isTrue {
			if !mask[i] {
				return false
			}
		}
	}
	for i := range closure {
		negIdx := index[key(ltl.Negate(closure[i]))]
		if !mask[i] && !mask[negIdx] {
			return false
		}
	}
	return true
}

func key(f ltl.Formula) string { return f.String() }

// ElementarySets enumerates every elementary (maximal, consistent) subset
// of cl(phi) extended with atomicPropositions and their negations, per
// spec.md §4.6 steps 1-3. Enumeration is by brute-force subset
// consistency checking, acceptable because closures are small (spec.md
// §4.6's own complexity note: "acceptable because formulae are small").
func ElementarySets(phi ltl.Formula, atomicPropositions []ltl.Formula) ([]ltl.Formula, [][]bool) {
	closure := Closure(phi)
	index := make(map[string]int, len(closure)*2)
	for i, f := range closure {
		index[key(f)] = i
	}
	for _, ap := range atomicPropositions {
		for _, f := range []ltl.Formula{ap, ltl.Negate(ap)} {
			if _, ok := index[key(f)]; !ok {
				index[key(f)] = len(closure)
				closure = append(closure, f)
			}
		}
	}

	n := len(closure)
	var sets [][]bool
	var rec func(i int, mask []bool)
	rec = func(i int, mask []bool) {
		if i == n {
			if isConsistent(mask, closure, index) {
				cp := append([]bool(nil), mask...)
				sets = append(sets, cp)
			}
			return
		}
		mask[i] = false
		rec(i+1, mask)
		mask[i] = true
		rec(i+1, mask)
	}
	rec(0, make([]bool, n))
	return closure, sets
}

// Build constructs a GBA accepting exactly the models of phi, using
// atomicPropositions as the (possibly externally supplied) AP alphabet —
// spec.md §4.6 steps 3-6. When atomicPropositions is nil, the alphabet is
// derived from the APs already present in cl(phi).
func Build(phi ltl.Formula, atomicPropositions []ltl.Formula) *automaton.GBA {
	closure, masks := ElementarySets(phi, atomicPropositions)

	aps := atomicPropositions
	if aps == nil {
		for _, f := range closure {
			if _, ok := f.(ltl.AP); ok {
				aps = append(aps, f)
			}
		}
	}
	apSymbols := make([]string, 0, len(aps))
	for _, ap := range aps {
		apSymbols = append(apSymbols, ap.(ltl.AP).Name)
	}

	alphabet := powersetLetters(apSymbols)
	gba := automaton.New(alphabet)

	states := make([]*automaton.State, len(masks))
	for i, mask := range masks {
		states[i] = gba.CreateState(fmt.Sprintf("s_%d", i), map[string]any{"elementary_set": describeSet(mask, closure)})
		if maskContains(mask, closure, phi) {
			gba.Initial[states[i].ID] = struct{}{}
		}
	}

	// One accepting set per Until(a,b) in the closure (spec.md §4.6 step 6).
	for _, f := range closure {
		until, ok := f.(ltl.Until)
		if !ok {
			continue
		}
		accepting := make(map[automaton.StateID]struct{})
		for i, mask := range masks {
			if !maskContains(mask, closure, f) || maskContains(mask, closure, until.Right) {
				accepting[states[i].ID] = struct{}{}
			}
		}
		gba.Accepting = append(gba.Accepting, accepting)
	}

	// Transitions: spec.md §4.6 step 5, extended per SPEC_FULL.md's
	// clarification from vnmc/ltl/utils.py's ltl_to_gba — the Next and
	// Until transition laws are each checked symmetrically in both S and
	// T, not just S, matching the Python loop's three nested checks.
	var nexts, untils []ltl.Formula
	for _, f := range closure {
		switch f.(type) {
		case ltl.Next:
			nexts = append(nexts, f)
		case ltl.Until:
			untils = append(untils, f)
		}
	}

	for i, sMask := range masks {
		for j, tMask := range masks {
			if !transitionAllowed(sMask, tMask, closure, nexts, untils) {
				continue
			}
			letter := letterOf(sMask, closure, apSymbols)
			gba.CreateTransition(states[i].ID, letter, states[j].ID)
		}
	}

	log.Debug().Int("closure_size", len(closure)).Int("elementary_sets", len(masks)).Msg("tableau: gba construction complete")
	return gba
}

func maskContains(mask []bool, closure []ltl.Formula, f ltl.Formula) bool {
	for i, c := range closure {
		if mask[i] && c.Equal(f) {
			return true
		}
	}
	return false
}

func transitionAllowed(sMask, tMask []bool, closure []ltl.Formula, nexts, untils []ltl.Formula) bool {
	for _, nx := range nexts {
		n := nx.(ltl.Next)
		if maskContains(sMask, closure, nx) && !maskContains(tMask, closure, n.Operand) {
			return false
		}
		if maskContains(tMask, closure, n.Operand) && !maskContains(sMask, closure, nx) {
			return false
		}
	}
	for _, u := range untils {
		un := u.(ltl.Until)
		sHas, tHas := maskContains(sMask, closure, u), maskContains(tMask, closure, u)
		sB := maskContains(sMask, closure, un.Right)
		sA := maskContains(sMask, closure, un.Left)
		if sHas && !sB && !(sA && tHas) {
			return false
		}
		if !sHas && (sB || (sA && tHas)) {
			return false
		}
		tB := maskContains(tMask, closure, un.Right)
		tA := maskContains(tMask, closure, un.Left)
		if tHas && !tB && !tA {
			return false
		}
	}
	return true
}

func letterOf(mask []bool, closure []ltl.Formula, apSymbols []string) automaton.Letter {
	inSet := make(map[string]struct{})
	for i, f := range closure {
		if !mask[i] {
			continue
		}
		if ap, ok := f.(ltl.AP); ok {
			inSet[ap.Name] = struct{}{}
		}
	}
	var present []string
	for _, s := range apSymbols {
		if _, ok := inSet[s]; ok {
			present = append(present, s)
		}
	}
	return automaton.NewLetter(present...)
}

func describeSet(mask []bool, closure []ltl.Formula) []string {
	var out []string
	for i, f := range closure {
		if mask[i] {
			out = append(out, f.String())
		}
	}
	sort.Strings(out)
	return out
}

func powersetLetters(symbols []string) map[automaton.Letter]struct{} {
	out := map[automaton.Letter]struct{}{automaton.NewLetter(): {}}
	n := len(symbols)
	for bits := 1; bits < (1 << n); bits++ {
		var subset []string
		for i := 0; i < n; i++ {
			if bits&(1<<i) != 0 {
				subset = append(subset, symbols[i])
			}
		}
		out[automaton.NewLetter(subset...)] = struct{}{}
	}
	return out
}

package automaton

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// pairKey is the product-state identity: the two component state IDs.
type pairKey struct{ Q, P StateID }

// Product builds the synchronous product of a and b over their shared
// alphabet: a product state (q,p) exists for every pair simultaneously
// reachable on equal letters, explored breadth-first from the product of
// initial sets (spec.md §4.5, vnmc/automata/automaton.py's ProductGBA).
// It panics if a and b have different alphabets — a caller precondition,
// not a recoverable runtime error, since alphabets are fixed at
// construction and a mismatch here is a programming error in the caller.
//
// Each product state's Props carries "q" and "p", the component StateIDs,
// under the respective source GBA — callers needing the component State
// objects look them up in a/b.States.
func Product(a, b *GBA) *GBA {
	if !sameAlphabet(a.Alphabet, b.Alphabet) {
		panic("automaton: product of GBAs with different alphabets")
	}
	prod := New(a.Alphabet)
	pairToState := make(map[pairKey]StateID)

	for _, qInit := range a.InitialInOrder() {
		for _, pInit := range b.InitialInOrder() {
			key := pairKey{qInit, pInit}
			if _, ok := pairToState[key]; ok {
				continue
			}
			s := prod.CreateState(fmt.Sprintf("(%s, %s)", a.States[qInit].Name, b.States[pInit].Name),
				map[string]any{"q": qInit, "p": pInit})
			pairToState[key] = s.ID
			prod.Initial[s.ID] = struct{}{}
		}
	}

	queue := prod.InitialInOrder()
	explored := make(map[pairKey]struct{})
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		props := prod.States[current].Props
		q, p := props["q"].(StateID), props["p"].(StateID)
		key := pairKey{q, p}
		if _, done := explored[key]; done {
			continue
		}
		explored[key] = struct{}{}

		for letter := range a.Alphabet {
			qSuccs := a.SuccessorsOnLetter(q, letter)
			pSuccs := b.SuccessorsOnLetter(p, letter)
			for _, qSucc := range qSuccs {
				for _, pSucc := range pSuccs {
					succKey := pairKey{qSucc, pSucc}
					target, ok := pairToState[succKey]
					if !ok {
						s := prod.CreateState(fmt.Sprintf("(%s, %s)", a.States[qSucc].Name, b.States[pSucc].Name),
							map[string]any{"q": qSucc, "p": pSucc})
						target = s.ID
						pairToState[succKey] = target
						queue = append(queue, target)
					}
					prod.CreateTransition(current, letter, target)
				}
			}
		}
	}

	// Acceptance sets of the product come from b only (spec.md §4.5): a
	// is the TIMP-side safety automaton and every one of its states is
	// accepting, so its acceptance sets carry no information for the LTL
	// emptiness check (spec.md §4.7 step 5-6 drives acceptance off the
	// ¬φ-automaton's sets projected through "p").
	for _, bSet := range b.Accepting {
		projected := make(map[StateID]struct{})
		for key, prodID := range pairToState {
			if _, ok := bSet[key.P]; ok {
				projected[prodID] = struct{}{}
			}
		}
		prod.Accepting = append(prod.Accepting, projected)
	}

	log.Debug().Int("product_states", len(prod.States)).Msg("automaton: product construction complete")
	return prod
}

func sameAlphabet(a, b map[Letter]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

package automaton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnmc-go/verifier/automaton"
)

func twoLetterAlphabet() map[automaton.Letter]struct{} {
	return map[automaton.Letter]struct{}{
		automaton.NewLetter():  {},
		automaton.NewLetter("a"): {},
	}
}

func TestCreateSingleInitialStateNoOpOnSingle(t *testing.T) {
	g := automaton.New(twoLetterAlphabet())
	s := g.CreateState("s0", nil)
	g.Initial[s.ID] = struct{}{}
	id := g.CreateSingleInitialState()
	assert.Equal(t, s.ID, id)
	assert.Len(t, g.Initial, 1)
}

func TestCreateSingleInitialStateMergesMultiple(t *testing.T) {
	g := automaton.New(twoLetterAlphabet())
	s0 := g.CreateState("s0", nil)
	s1 := g.CreateState("s1", nil)
	s2 := g.CreateState("s2", nil)
	g.Initial[s0.ID] = struct{}{}
	g.Initial[s1.ID] = struct{}{}
	g.CreateTransition(s0.ID, automaton.NewLetter("a"), s2.ID)
	g.CreateTransition(s1.ID, automaton.NewLetter(), s2.ID)

	fresh := g.CreateSingleInitialState()
	require.Len(t, g.Initial, 1)
	_, stillInit := g.Initial[fresh]
	assert.True(t, stillInit)
	succs := g.Successors(fresh)
	assert.Contains(t, succs, s2.ID)
}

func TestCreateSingleInitialStateCopiesPropsFromFirstOriginal(t *testing.T) {
	g := automaton.New(twoLetterAlphabet())
	s0 := g.CreateState("s0", map[string]any{"q": 7})
	s1 := g.CreateState("s1", map[string]any{"q": 8})
	g.Initial[s0.ID] = struct{}{}
	g.Initial[s1.ID] = struct{}{}

	fresh := g.CreateSingleInitialState()
	require.NotNil(t, g.States[fresh].Props)
	assert.Equal(t, 7, g.States[fresh].Props["q"])
}

func TestProductExploresReachablePairs(t *testing.T) {
	alphabet := twoLetterAlphabet()
	a := automaton.New(alphabet)
	a0 := a.CreateState("a0", nil)
	a1 := a.CreateState("a1", nil)
	a.Initial[a0.ID] = struct{}{}
	a.CreateTransition(a0.ID, automaton.NewLetter("a"), a1.ID)
	a.CreateTransition(a1.ID, automaton.NewLetter(), a1.ID)
	a.Accepting = append(a.Accepting, map[automaton.StateID]struct{}{a0.ID: {}, a1.ID: {}})

	b := automaton.New(alphabet)
	b0 := b.CreateState("b0", nil)
	b.Initial[b0.ID] = struct{}{}
	b.CreateTransition(b0.ID, automaton.NewLetter("a"), b0.ID)
	b.CreateTransition(b0.ID, automaton.NewLetter(), b0.ID)
	b.Accepting = append(b.Accepting, map[automaton.StateID]struct{}{b0.ID: {}})

	prod := automaton.Product(a, b)
	require.Len(t, prod.Initial, 1)
	require.Len(t, prod.States, 2)
	require.Len(t, prod.Accepting, 1)
	assert.Len(t, prod.Accepting[0], 2)
}

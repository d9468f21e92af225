// Package automaton implements the generic generalized Büchi automaton
// (GBA) container and synchronous product construction (spec.md §4.5),
// grounded on vnmc/automata/automaton.py's FiniteAutomaton/GBA/ProductGBA
// and on rfielding-kripke-ctl/kripke/ctl.go's arena-of-states-by-id shape:
// states and transitions are owned by the GBA, cross-references (a
// product state's two component states) are stored as plain identifiers
// plus a lookup index, never as owning pointers, per spec.md §9.
package automaton

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// StateID is a stable, monotonically assigned identifier for a State
// within one GBA. Two States with the same ID in the same GBA are the
// same entity (spec.md §3).
type StateID int

// Letter is one element of 2^AP: a frozen, comparable set of atomic
// proposition symbols. Using a sorted, comma-joined string as the map key
// keeps letters comparable and keeps iteration order reproducible
// (spec.md §5's determinism requirement).
type Letter string

// NewLetter builds a Letter from a set of AP symbols.
func NewLetter(symbols ...string) Letter {
	cp := append([]string(nil), symbols...)
	sort.Strings(cp)
	out := Letter("")
	for i, s := range cp {
		if i > 0 {
			out += ","
		}
		out += Letter(s)
	}
	return out
}

// State is one automaton state: a stable identity, a display name, and
// an arbitrary property bag (spec.md §3's AutomatonState) — e.g. the
// tableau's elementary set, or a product state's two component
// identifiers.
type State struct {
	ID    StateID
	Name  string
	Props map[string]any
}

// Transition is (source, letter, target), where letter is drawn from the
// GBA's alphabet.
type Transition struct {
	Source StateID
	Letter Letter
	Target StateID
}

// GBA is a finite generalized Büchi automaton: states, transitions, an
// initial-state set, and a list of accepting state sets. An infinite run
// is accepting iff it visits every accepting set infinitely often
// (spec.md §3).
type GBA struct {
	Alphabet  map[Letter]struct{}
	States    map[StateID]*State
	Initial   map[StateID]struct{}
	Accepting []map[StateID]struct{}

	order   []StateID // insertion order, for deterministic iteration
	byState map[StateID]map[Letter]map[StateID]struct{}
	nextID  StateID
}

// New builds an empty GBA over the given alphabet.
func New(alphabet map[Letter]struct{}) *GBA {
	return &GBA{
		Alphabet: alphabet,
		States:   make(map[StateID]*State),
		Initial:  make(map[StateID]struct{}),
		byState:  make(map[StateID]map[Letter]map[StateID]struct{}),
	}
}

// CreateState adds a fresh state with the given display name and
// property bag, and returns it.
func (g *GBA) CreateState(name string, props map[string]any) *State {
	id := g.nextID
	g.nextID++
	s := &State{ID: id, Name: name, Props: props}
	g.States[id] = s
	g.order = append(g.order, id)
	return s
}

// CreateTransition adds source -letter-> target and indexes it.
func (g *GBA) CreateTransition(source StateID, letter Letter, target StateID) {
	byLetter, ok := g.byState[source]
	if !ok {
		byLetter = make(map[Letter]map[StateID]struct{})
		g.byState[source] = byLetter
	}
	targets, ok := byLetter[letter]
	if !ok {
		targets = make(map[StateID]struct{})
		byLetter[letter] = targets
	}
	targets[target] = struct{}{}
}

// StatesInOrder returns every state in deterministic (insertion) order.
func (g *GBA) StatesInOrder() []*State {
	out := make([]*State, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.States[id])
	}
	return out
}

// SuccessorsOnLetter returns the targets of source's transitions labeled
// letter, in a deterministic (sorted-by-ID) order.
func (g *GBA) SuccessorsOnLetter(source StateID, letter Letter) []StateID {
	targets := g.byState[source][letter]
	out := make([]StateID, 0, len(targets))
	for id := range targets {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Successors implements graph.Graph[StateID]: every target reachable
// from source on any letter of the alphabet (vnmc/automata/automaton.py's
// GBA.get_graph_successors).
func (g *GBA) Successors(source StateID) []StateID {
	seen := make(map[StateID]struct{})
	for letter := range g.Alphabet {
		for _, t := range g.SuccessorsOnLetter(source, letter) {
			seen[t] = struct{}{}
		}
	}
	out := make([]StateID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InitialInOrder returns the initial-state IDs in sorted order, for
// deterministic BFS seeding.
func (g *GBA) InitialInOrder() []StateID {
	out := make([]StateID, 0, len(g.Initial))
	for id := range g.Initial {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CreateSingleInitialState collapses a multi-state initial set into one
// fresh state whose outgoing edges are the union of the originals' (spec.md
// §4.5). If there is already at most one initial state, it is returned
// unchanged and Initial is left untouched. Unlike
// vnmc/automata/automaton.py's create_single_initial_state (which mutates
// in place and returns nothing, a latent bug its own caller works around —
// see SPEC_FULL.md), this always returns the resulting single initial
// StateID.
//
// The fresh state's Props are copied from the first original initial
// state's Props, not left nil: callers that stash identifying data there
// (e.g. the product construction's "q"/"p" component-state references,
// which counterexample extraction reads) need every reachable state,
// including a synthetic collapsed-initial one, to carry it.
func (g *GBA) CreateSingleInitialState() StateID {
	if len(g.Initial) <= 1 {
		for id := range g.Initial {
			return id
		}
		return -1
	}
	inits := g.InitialInOrder()
	names := make([]string, 0, len(inits))
	for _, id := range inits {
		names = append(names, g.States[id].Name)
	}
	fresh := g.CreateState(fmt.Sprintf("(%v)", names), copyProps(g.States[inits[0]].Props))
	for _, init := range inits {
		for letter := range g.Alphabet {
			for _, target := range g.SuccessorsOnLetter(init, letter) {
				g.CreateTransition(fresh.ID, letter, target)
			}
		}
	}
	g.Initial = map[StateID]struct{}{fresh.ID: {}}
	log.Debug().Int("original_initial_count", len(inits)).Msg("automaton: collapsed to single initial state")
	return fresh.ID
}

func copyProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

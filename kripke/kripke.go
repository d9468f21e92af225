// Package kripke builds a labeled Kripke structure by unfolding a TIMP
// module's reachable Configurations breadth-first (spec.md §4.4). It is
// the Go rewrite of rfielding-kripke-ctl's root-package KripkeStructure
// plus vnmc/model_checking/kripke.py's timp_to_kripke — this package used
// to host a different, unrelated domain (an actor/channel/message-
// passing simulator under the same package name; see DESIGN.md for why
// that code was removed rather than adapted) and now hosts the one the
// spec actually needs: a deterministic shared-state program's reachable
// state-transition graph.
package kripke

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/timp"
)

// StateID is a stable, monotonically assigned identifier for a Kripke
// state.
type StateID int

// State is one Kripke state: the Configuration it represents and the
// atomic propositions holding there (spec.md §4.4: every true variable's
// name, plus every annotation active at the head command).
type State struct {
	ID            StateID
	Configuration timp.Configuration
	AP            map[string]struct{}
}

// Structure is a built Kripke structure: states, transitions, and the
// initial-state set, plus successor/predecessor indexes (spec.md §3).
type Structure struct {
	Initial StateID

	states     map[StateID]*State
	order      []StateID
	succ       map[StateID][]StateID
	pred       map[StateID][]StateID
	configToID map[string]StateID
}

// StateByID returns the state with the given identifier, for callers
// (e.g. the dot package) that need the full State rather than just the
// successor/AP queries below.
func (s *Structure) StateByID(id StateID) *State { return s.states[id] }

// Build explores module's Configuration graph breadth-first from
// (module.Command, all-false state), creating one Kripke state per
// distinct Configuration, and returns the resulting total (every Skip
// self-loops) structure. An error is returned if any expression along
// the way references a variable missing from the state (timp.Eval's
// SemanticError) — this should not happen for configurations reached
// from the all-false initial state of a well-formed module, since every
// variable assigned anywhere is seeded to false, but is surfaced rather
// than panicking per spec.md §7.
func Build(module timp.Module) (*Structure, error) {
	s := &Structure{
		states:     make(map[StateID]*State),
		succ:       make(map[StateID][]StateID),
		pred:       make(map[StateID][]StateID),
		configToID: make(map[string]StateID),
	}

	initCfg := timp.Configuration{Command: module.Command, State: module.InitialState()}
	initID, err := s.getOrCreate(initCfg)
	if err != nil {
		return nil, err
	}
	s.Initial = initID

	queue := []StateID{initID}
	explored := make(map[StateID]struct{})
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, done := explored[current]; done {
			continue
		}
		explored[current] = struct{}{}

		succs, err := timp.Successors(s.states[current].Configuration)
		if err != nil {
			return nil, err
		}
		for _, succCfg := range succs {
			succID, err := s.getOrCreate(succCfg)
			if err != nil {
				return nil, err
			}
			s.succ[current] = append(s.succ[current], succID)
			s.pred[succID] = append(s.pred[succID], current)
			if _, seen := explored[succID]; !seen {
				queue = append(queue, succID)
			}
		}
	}

	log.Debug().Int("states_explored", len(s.order)).Msg("kripke: builder bfs complete")
	return s, nil
}

func (s *Structure) getOrCreate(cfg timp.Configuration) (StateID, error) {
	key := cfg.Key()
	if id, ok := s.configToID[key]; ok {
		return id, nil
	}
	anns, err := timp.ActiveAnnotations(cfg)
	if err != nil {
		return 0, err
	}
	ap := make(map[string]struct{}, len(anns)+len(cfg.State))
	for a := range anns {
		ap[a] = struct{}{}
	}
	for v, val := range cfg.State {
		if val {
			ap[v.Name] = struct{}{}
		}
	}
	id := StateID(len(s.order))
	s.states[id] = &State{ID: id, Configuration: cfg, AP: ap}
	s.order = append(s.order, id)
	s.configToID[key] = id
	return id, nil
}

// StatesInOrder returns every state in deterministic (insertion) order.
func (s *Structure) StatesInOrder() []StateID { return append([]StateID(nil), s.order...) }

// States implements ctlcheck.LabeledGraph.
func (s *Structure) States() []StateID { return s.StatesInOrder() }

// Successors implements graph.Graph[StateID] and ctlcheck.LabeledGraph.
func (s *Structure) Successors(n StateID) []StateID {
	out := append([]StateID(nil), s.succ[n]...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Predecessors implements graph.PredecessorGraph[StateID].
func (s *Structure) Predecessors(n StateID) []StateID {
	out := append([]StateID(nil), s.pred[n]...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Holds reports whether ap is in state n's atomic proposition set.
func (s *Structure) Holds(n StateID, ap string) bool {
	_, ok := s.states[n].AP[ap]
	return ok
}

// Package ltlcheck implements LTL model checking over a TIMP module
// (spec.md §4.7): it builds the module's GBA (a safety automaton whose
// alphabet is the powerset of its annotation APs), builds the negated
// formula's tableau GBA, forms their synchronous product, and decides
// acceptance via Tarjan SCCs on the product — extracting a lasso-shaped
// counterexample when the formula is violated. Grounded on
// vnmc/timp/utils.py's timp_to_gba and
// vnmc/model_checking/ltl_model_checking.py's model_check.
package ltlcheck

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/automaton"
	"github.com/vnmc-go/verifier/graph"
	"github.com/vnmc-go/verifier/ltl"
	"github.com/vnmc-go/verifier/tableau"
	"github.com/vnmc-go/verifier/timp"
	"github.com/vnmc-go/verifier/verrors"
)

// BuildModuleGBA unfolds module's Configuration graph breadth-first into
// a GBA whose alphabet is the powerset of module's annotation APs, each
// transition labeled by the annotations active at its source, and whose
// single accepting set is the full state set — a safety automaton, per
// spec.md §4.7's "TIMP→GBA". Each state's Props carries "config", the
// timp.Configuration it represents, for counterexample pretty-printing.
func BuildModuleGBA(module timp.Module) (*automaton.GBA, error) {
	annotations := timp.CollectAnnotations(module.Command)
	symbols := make([]string, 0, len(annotations))
	for a := range annotations {
		symbols = append(symbols, a)
	}
	sort.Strings(symbols)

	alphabet := powerset(symbols)
	gba := automaton.New(alphabet)

	initCfg := timp.Configuration{Command: module.Command, State: module.InitialState()}
	configToState := make(map[string]*automaton.State)

	initState := gba.CreateState("init", map[string]any{"config": initCfg})
	configToState[initCfg.Key()] = initState
	gba.Initial[initState.ID] = struct{}{}

	queue := []timp.Configuration{initCfg}
	explored := make(map[string]struct{})
	id := 1
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		key := current.Key()
		if _, done := explored[key]; done {
			continue
		}
		explored[key] = struct{}{}

		active, err := timp.ActiveAnnotations(current)
		if err != nil {
			return nil, err
		}
		letterSymbols := make([]string, 0, len(active))
		for a := range active {
			letterSymbols = append(letterSymbols, a)
		}
		letter := automaton.NewLetter(letterSymbols...)

		succs, err := timp.Successors(current)
		if err != nil {
			return nil, err
		}
		for _, succ := range succs {
			succKey := succ.Key()
			target, ok := configToState[succKey]
			if !ok {
				target = gba.CreateState(fmt.Sprintf("q_%d", id), map[string]any{"config": succ})
				id++
				configToState[succKey] = target
				queue = append(queue, succ)
			}
			gba.CreateTransition(configToState[key].ID, letter, target.ID)
		}
	}

	all := make(map[automaton.StateID]struct{}, len(gba.States))
	for sid := range gba.States {
		all[sid] = struct{}{}
	}
	gba.Accepting = append(gba.Accepting, all)

	log.Debug().Int("states", len(gba.States)).Msg("ltlcheck: module gba built")
	return gba, nil
}

func powerset(symbols []string) map[automaton.Letter]struct{} {
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

// Result is the outcome of an LTL model-check call (spec.md §6's LTL
// output shape): whether phi holds, and, if not, a lasso-shaped
// counterexample as pretty-printed configurations.
type Result struct {
	Holds          bool
	Counterexample []string
}

// Check decides whether module satisfies phi, following spec.md §4.7
// steps 1-7.
func Check(module timp.Module, phi ltl.Formula) (Result, error) {
	moduleAPs := make(map[string]struct{})
	for a := range timp.CollectAnnotations(module.Command) {
		moduleAPs[a] = struct{}{}
	}
	phiAPs := collectAPs(phi)
	for ap := range phiAPs {
		if _, ok := moduleAPs[ap]; !ok {
			return Result{}, fmt.Errorf("ltlcheck: formula AP %q not in module annotations: %w", ap, verrors.ErrWellFormedness)
		}
	}

	moduleGBA, err := BuildModuleGBA(module)
	if err != nil {
		return Result{}, err
	}

	var apFormulas []ltl.Formula
	for ap := range moduleAPs {
		apFormulas = append(apFormulas, ltl.AP{Name: ap})
	}
	sort.Slice(apFormulas, func(i, j int) bool { return apFormulas[i].(ltl.AP).Name < apFormulas[j].(ltl.AP).Name })

	negPhiGBA := tableau.Build(ltl.Negate(phi), apFormulas)

	product := automaton.Product(moduleGBA, negPhiGBA)
	initID := product.CreateSingleInitialState()

	sccs := graph.Tarjan[automaton.StateID](productGraph{product}, []automaton.StateID{initID})

	// phi holds iff the product's accepted-run language is empty: no
	// reachable cycle visits every one of product.Accepting infinitely
	// often (spec.md §4.7 steps 5-6). An empty Accepting list (phi has no
	// Until subformula) is vacuously satisfied by any cycle, so a bare
	// reachable SCC is already a violation in that case.
	for _, scc := range sccs {
		if acceptsAllSets(product, scc) {
			cex, err := counterexample(product, moduleGBA, initID, scc)
			if err != nil {
				return Result{}, err
			}
			return Result{Holds: false, Counterexample: cex}, nil
		}
	}
	return Result{Holds: true}, nil
}

func acceptsAllSets(product *automaton.GBA, scc graph.SCC[automaton.StateID]) bool {
	nodes := make(map[automaton.StateID]struct{}, len(scc.Nodes))
	for _, n := range scc.Nodes {
		nodes[n] = struct{}{}
	}
	for _, acc := range product.Accepting {
		hit := false
		for n := range nodes {
			if _, ok := acc[n]; ok {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// productGraph adapts automaton.GBA to graph.Graph[automaton.StateID]
// (GBA.Successors already implements that contract, but the local alias
// makes the Tarjan call read like the domain it's checking).
type productGraph struct{ g *automaton.GBA }

func (p productGraph) Successors(n automaton.StateID) []automaton.StateID { return p.g.Successors(n) }

// counterexample extracts the BFS shortest path from init to any node of
// scc, projects it onto the module-side Configuration, and pretty-prints
// it (spec.md §4.7 step 7).
func counterexample(product, moduleGBA *automaton.GBA, init automaton.StateID, scc graph.SCC[automaton.StateID]) ([]string, error) {
	targets := make(map[automaton.StateID]struct{}, len(scc.Nodes))
	for _, n := range scc.Nodes {
		targets[n] = struct{}{}
	}
	path, err := graph.ShortestPath[automaton.StateID](productGraph{product}, init, firstOf(targets))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(path))
	for _, n := range path {
		qProp, ok := product.States[n].Props["q"]
		if !ok {
			return nil, fmt.Errorf("ltlcheck: product state %d missing component reference: %w", n, verrors.ErrNoPath)
		}
		q := qProp.(automaton.StateID)
		cfg := moduleGBA.States[q].Props["config"].(timp.Configuration)
		out = append(out, cfg.Pretty())
	}
	return out, nil
}

func firstOf(set map[automaton.StateID]struct{}) automaton.StateID {
	ids := make([]automaton.StateID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0]
}

func collectAPs(f ltl.Formula) map[string]struct{} {
	out := make(map[string]struct{})
	var walk func(ltl.Formula)
	walk = func(f ltl.Formula) {
		switch v := f.(type) {
		case ltl.AP:
			out[v.Name] = struct{}{}
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
	walk(f)
	return out
}

// Package graph implements the generic graph core: reachability, shortest
// paths and strongly connected components over an abstract successor
// relation. It is grounded on katalvlaran/lvlath's dfs.go (options-free
// entry points, sentinel errors wrapped with an operation tag) and on
// jinterlante1206-AleutianLocal's tarjan_scc.go (the bead/necklace shape of
// Tarjan's algorithm), translated here into an explicit-stack, non-recursive
// form as required for graphs built from unbounded TIMP configuration
// spaces.
package graph

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/verrors"
)

// Graph is the minimal contract every component in this repo builds
// against: a node type and its successor relation. Kripke structures,
// automata and DTMCs all satisfy this with their own node types.
type Graph[N comparable] interface {
	Successors(n N) []N
}

// PredecessorGraph is implemented by graphs that can also report
// predecessors directly (cheaper than inverting Successors on the fly).
// The DTMC dense engine uses this for Pre*-based backward reachability.
type PredecessorGraph[N comparable] interface {
	Graph[N]
	Predecessors(n N) []N
}

// Reachable returns the set of nodes reachable from any of start
// (inclusive) by following Successors, computed by an iterative DFS.
func Reachable[N comparable](g Graph[N], start []N) map[N]struct{} {
	visited := make(map[N]struct{}, len(start))
	stack := make([]N, 0, len(start))
	for _, s := range start {
		if _, ok := visited[s]; !ok {
			visited[s] = struct{}{}
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, succ := range g.Successors(n) {
			if _, ok := visited[succ]; !ok {
				visited[succ] = struct{}{}
				stack = append(stack, succ)
			}
		}
	}
	return visited
}

// ReachableBackward returns the set of nodes that can reach any of target
// (inclusive), i.e. Pre*(target), following Predecessors. This is the
// backward-DFS primitive the DTMC dense engine uses to partition states
// into target / bad / undetermined before solving the linear system.
func ReachableBackward[N comparable](g PredecessorGraph[N], target []N) map[N]struct{} {
	visited := make(map[N]struct{}, len(target))
	stack := make([]N, 0, len(target))
	for _, s := range target {
		if _, ok := visited[s]; !ok {
			visited[s] = struct{}{}
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, pred := range g.Predecessors(n) {
			if _, ok := visited[pred]; !ok {
				visited[pred] = struct{}{}
				stack = append(stack, pred)
			}
		}
	}
	return visited
}

// ShortestPath returns a shortest sequence of nodes from start to goal
// (inclusive of both endpoints), via breadth-first search. It returns
// verrors.ErrNoPath, wrapped with the two endpoints, if goal is not
// reachable from start.
func ShortestPath[N comparable](g Graph[N], start, goal N) ([]N, error) {
	if start == goal {
		return []N{start}, nil
	}
	parent := map[N]N{start: start}
	queue := []N{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, succ := range g.Successors(n) {
			if _, seen := parent[succ]; seen {
				continue
			}
			parent[succ] = n
			if succ == goal {
				return reconstruct(parent, start, goal), nil
			}
			queue = append(queue, succ)
		}
	}
	return nil, fmt.Errorf("graph: shortest path %v -> %v: %w", start, goal, verrors.ErrNoPath)
}

func reconstruct[N comparable](parent map[N]N, start, goal N) []N {
	path := []N{goal}
	for path[len(path)-1] != start {
		cur := path[len(path)-1]
		path = append(path, parent[cur])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// SCC is one strongly connected component of the explored graph, in
// discovery order of its members.
type SCC[N comparable] struct {
	Nodes []N
}

// HasSelfLoop reports whether any node in a trivial (singleton) SCC has a
// self-loop, i.e. whether the "SCC" degenerates to a one-state cycle rather
// than a plain non-recurring node.
func (s SCC[N]) HasSelfLoop(g Graph[N]) bool {
	if len(s.Nodes) != 1 {
		return true
	}
	n := s.Nodes[0]
	for _, succ := range g.Successors(n) {
		if succ == n {
			return true
		}
	}
	return false
}

// bead is one necklace element during Tarjan's algorithm: a representative
// node and the set of nodes currently coalesced under it. Two beads merge
// into one whenever a back edge is found to close a cycle, exactly as in
// vnmc/common/graph_algorithms.py's tarjan() — but driven from an explicit
// stack instead of Python's recursive generator closure, since the
// configuration graphs this is run over (TIMP x tableau products) can be
// far deeper than Go's default goroutine stack comfortably recurses.
type bead[N comparable] struct {
	rep     N
	members []N
}

// Tarjan computes every non-trivial strongly connected component reachable
// from start, plus every trivial (singleton) SCC that has a self-loop. It
// is the SCC primitive the LTL model checker runs over the product
// automaton to test Büchi acceptance (spec.md §4.7 step 5).
func Tarjan[N comparable](g Graph[N], start []N) []SCC[N] {
	type frame struct {
		node  N
		succs []N
		idx   int
	}

	dfsNum := make(map[N]int)
	active := make(map[N]bool)
	var necklace []bead[N]
	var out []SCC[N]
	counter := 0

	visit := func(root N) {
		if _, ok := dfsNum[root]; ok {
			return
		}
		var stack []*frame
		push := func(n N) {
			dfsNum[n] = counter
			counter++
			active[n] = true
			necklace = append(necklace, bead[N]{rep: n, members: []N{n}})
			stack = append(stack, &frame{node: n, succs: g.Successors(n)})
		}
		push(root)
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.idx < len(top.succs) {
				succ := top.succs[top.idx]
				top.idx++
				if _, seen := dfsNum[succ]; !seen {
					push(succ)
					continue
				}
				if active[succ] {
					// Edge into a node not yet assigned to an SCC:
					// coalesce beads down to and including succ's bead.
					var merged []N
					for dfsNum[necklace[len(necklace)-1].rep] > dfsNum[succ] {
						last := necklace[len(necklace)-1]
						necklace = necklace[:len(necklace)-1]
						merged = append(append([]N(nil), last.members...), merged...)
					}
					owner := &necklace[len(necklace)-1]
					owner.members = append(owner.members, merged...)
				}
				continue
			}
			// All successors explored: top.node finishes.
			stack = stack[:len(stack)-1]
			if len(necklace) > 0 && necklace[len(necklace)-1].rep == top.node {
				last := necklace[len(necklace)-1]
				necklace = necklace[:len(necklace)-1]
				for _, m := range last.members {
					active[m] = false
				}
				scc := SCC[N]{Nodes: append([]N(nil), last.members...)}
				if len(scc.Nodes) > 1 || scc.HasSelfLoop(g) {
					out = append(out, scc)
				}
			}
		}
	}

	for _, s := range start {
		visit(s)
	}
	log.Debug().Int("scc_count", len(out)).Int("nodes_visited", len(dfsNum)).Msg("graph: tarjan scc search complete")
	return out
}

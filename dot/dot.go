// Package dot renders Kripke structures and automata as Graphviz DOT
// source, for visual inspection of verification runs. It is the Go
// rewrite of the teacher's root-package GenerateGraphviz/SaveGraphviz
// (graphviz.go), generalized from that KripkeStructure's string-keyed
// shape to this repo's typed kripke.Structure and automaton.GBA, and
// made to actually write files instead of printing a "would write"
// stub. Never imported from the verification packages themselves —
// it is an output-side concern only.
package dot

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vnmc-go/verifier/automaton"
	"github.com/vnmc-go/verifier/kripke"
)

// Kripke renders structure as a DOT digraph: one node per state labeled
// with its atomic propositions, a point-shaped start node with an arrow
// into the initial state, and one edge per transition.
func Kripke(structure *kripke.Structure) string {
	var b strings.Builder
	b.WriteString("digraph Kripke {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=circle];\n\n")
	b.WriteString("  start [shape=point];\n")
	fmt.Fprintf(&b, "  start -> %q;\n\n", nodeName(structure.Initial))

	for _, id := range structure.StatesInOrder() {
		fmt.Fprintf(&b, "  %q [label=%q];\n", nodeName(id), kripkeLabel(structure, id))
	}
	b.WriteString("\n")
	for _, id := range structure.StatesInOrder() {
		for _, succ := range structure.Successors(id) {
			fmt.Fprintf(&b, "  %q -> %q;\n", nodeName(id), nodeName(succ))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func kripkeLabel(structure *kripke.Structure, id kripke.StateID) string {
	state := structure.StateByID(id)
	var aps []string
	for ap := range state.AP {
		aps = append(aps, ap)
	}
	sort.Strings(aps)
	return fmt.Sprintf("%d\n{%s}", id, strings.Join(aps, ", "))
}

func nodeName(id kripke.StateID) string { return fmt.Sprintf("q%d", id) }

// GBA renders g as a DOT digraph: one doubled-circle node per state in
// any accepting set (Graphviz can't express "accepting in set k" any
// better than a shared double border, so overlapping acceptance sets
// collapse visually — this is a diagnostic aid, not a faithful encoding),
// one plain-circle node otherwise, an arrow into every initial state, and
// one labeled edge per transition.
func GBA(g *automaton.GBA) string {
	accepting := make(map[automaton.StateID]struct{})
	for _, set := range g.Accepting {
		for id := range set {
			accepting[id] = struct{}{}
		}
	}

	var b strings.Builder
	b.WriteString("digraph GBA {\n")
	b.WriteString("  rankdir=LR;\n\n")
	for _, id := range g.InitialInOrder() {
		fmt.Fprintf(&b, "  start_%d [shape=point];\n", id)
		fmt.Fprintf(&b, "  start_%d -> %q;\n", id, gbaNodeName(g, id))
	}
	b.WriteString("\n")
	for _, s := range g.StatesInOrder() {
		shape := "circle"
		if _, ok := accepting[s.ID]; ok {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "  %q [shape=%s, label=%q];\n", gbaNodeName(g, s.ID), shape, s.Name)
	}
	b.WriteString("\n")
	for _, s := range g.StatesInOrder() {
		for letter := range g.Alphabet {
			for _, target := range g.SuccessorsOnLetter(s.ID, letter) {
				label := string(letter)
				if label == "" {
					label = "∅"
				}
				fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", gbaNodeName(g, s.ID), gbaNodeName(g, target), label)
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func gbaNodeName(g *automaton.GBA, id automaton.StateID) string {
	return fmt.Sprintf("%s_%d", g.States[id].Name, id)
}

// WriteFile renders content to path with permissions 0o644, the actual
// file-writing counterpart to the teacher's print-only SaveGraphviz.
func WriteFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

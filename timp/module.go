package timp

import (
	"fmt"
	"sort"
	"strings"
)

// Module is a named TIMP program: `module NAME: COMMAND` (spec.md §6's
// grammar). It is the unit the Kripke and GBA builders unfold.
type Module struct {
	Name    string
	Command Command
}

// Variables returns every program variable CollectCommandVariables finds
// in m, used to build the initial all-false state.
func (m Module) Variables() map[Variable]struct{} {
	return CollectCommandVariables(m.Command)
}

// InitialState returns the all-false valuation over m's variables, the
// starting point for Kripke/GBA exploration (spec.md §4.4).
func (m Module) InitialState() State {
	vars := m.Variables()
	s := make(State, len(vars))
	for v := range vars {
		s[v] = false
	}
	return s
}

// Pretty renders m as `module NAME:` followed by its indented command
// tree, the Go port of vnmc/timp/module.py's Module.pretty().
func (m Module) Pretty() string {
	return fmt.Sprintf("module %s:\n%s", m.Name, indent(m.Command.String(), 1))
}

func indent(s string, depth int) string {
	prefix := strings.Repeat("  ", depth)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// Run drives m's configuration graph breadth-first from the all-false
// state, recording each configuration it visits and returning the trace
// once a Skip configuration is reached (or maxSteps configurations have
// been visited, to guarantee termination on non-terminating programs).
// This is a smoke-test helper, not part of the verification contract —
// it mirrors vnmc/timp/module.py's Module.run, which is likewise only
// used interactively/in examples.
func (m Module) Run(maxSteps int) ([]Configuration, error) {
	queue := []Configuration{{Command: m.Command, State: m.InitialState()}}
	var trace []Configuration
	for len(queue) > 0 && len(trace) < maxSteps {
		current := queue[0]
		queue = queue[1:]
		trace = append(trace, current)
		if _, ok := current.Command.(Skip); ok {
			break
		}
		succs, err := Successors(current)
		if err != nil {
			return trace, err
		}
		queue = append(queue, succs...)
	}
	return trace, nil
}

// Pretty renders a Configuration the way vnmc/timp/command.py's
// Configuration.pretty() does: a banner, the command tree, a separator,
// then the state. It is the form spec.md §4.7 step 7 and §6 call for when
// rendering an LTL counterexample.
func (c Configuration) Pretty() string {
	vars := make([]string, 0, len(c.State))
	for v := range c.State {
		vars = append(vars, v.Name)
	}
	sort.Strings(vars)
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 30))
	b.WriteByte('\n')
	b.WriteString(c.Command.String())
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", 30))
	b.WriteByte('\n')
	for i, name := range vars {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", name, c.State[Variable{Name: name}])
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", 30))
	return b.String()
}

// Command verify runs the three model-checking pipelines (CTL, LTL,
// PCTL) against a small built-in TIMP example and prints the verdicts,
// the way the teacher's root main.go printed example Kripke structures
// and model-checking results to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vnmc-go/verifier/ctl"
	"github.com/vnmc-go/verifier/dot"
	"github.com/vnmc-go/verifier/dtmc"
	"github.com/vnmc-go/verifier/kripke"
	"github.com/vnmc-go/verifier/ltl"
	"github.com/vnmc-go/verifier/ltlcheck"
	"github.com/vnmc-go/verifier/pctl"
	"github.com/vnmc-go/verifier/pctlcheck"
	"github.com/vnmc-go/verifier/timp"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	fmt.Println("=== TIMP Verification Engine ===")
	fmt.Println()

	x := timp.Variable{Name: "x"}
	module := timp.Module{
		Name: "toggle",
		Command: timp.NewRepeat(timp.NewAssign(x, timp.Not{Operand: x}, "tick")),
	}
	fmt.Println(module.Pretty())
	fmt.Println()

	runCTL(module)
	runLTL(module)
	runPCTL()
}

func runCTL(module timp.Module) {
	phi := ctl.AG(ctl.Or{Left: ctl.Not{Operand: ctl.AP{Name: "tick"}}, Right: ctl.AX(ctl.AP{Name: "tick"})})
	holds, err := kripke.CheckCTL(module, phi)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ctl check failed:", err)
		os.Exit(1)
	}
	fmt.Printf("CTL  AG(tick -> AX(tick)) = %v\n", holds)

	structure, err := kripke.Build(module)
	if err != nil {
		fmt.Fprintln(os.Stderr, "kripke build failed:", err)
		os.Exit(1)
	}
	if err := dot.WriteFile("toggle_kripke.dot", dot.Kripke(structure)); err != nil {
		fmt.Fprintln(os.Stderr, "dot write failed:", err)
	}
}

func runLTL(module timp.Module) {
	phi := ltl.Globally(ltl.Finally(ltl.AP{Name: "tick"}))
	result, err := ltlcheck.Check(module, phi)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ltl check failed:", err)
		os.Exit(1)
	}
	fmt.Printf("LTL  G F (tick) = %v\n", result.Holds)
	for _, cfg := range result.Counterexample {
		fmt.Println(cfg)
	}
}

func runPCTL() {
	d := dtmc.New()
	s0 := d.CreateState("s0", nil, nil)
	s1 := d.CreateState("s1", map[string]struct{}{"target": {}}, nil)
	s2 := d.CreateState("s2", nil, nil)
	d.CreateTransition(s0.ID, 0.5, s1.ID)
	d.CreateTransition(s0.ID, 0.5, s2.ID)
	d.CreateTransition(s1.ID, 1, s1.ID)
	d.CreateTransition(s2.ID, 1, s2.ID)

	path := pctl.Until{Left: pctl.True{}, Right: pctl.AP{Name: "target"}}
	phi, err := pctl.NewProbability(0.5, 0.5, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pctl formula invalid:", err)
		os.Exit(1)
	}
	holds, err := pctlcheck.Check(d, phi, s0.ID, dtmc.Dense)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pctl check failed:", err)
		os.Exit(1)
	}
	fmt.Printf("PCTL P=0.5[true U target] at s0 = %v\n", holds)
}

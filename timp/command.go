package timp

import (
	"fmt"
	"sort"
	"strings"
)

// Command is any well-formed TIMP command: Skip, Assign, Seq, IfElse or
// Repeat (spec.md §3). Every variant carries an annotation set (free
// labels attached by the programmer, spec.md §6's `@LABEL` syntax).
type Command interface {
	fmt.Stringer
	isCommand()
	// Annotations returns every annotation string attached to this node
	// or any of its descendants (vnmc/timp/preprocessing.py has no direct
	// analogue; see CollectAnnotations for the full-tree variant and
	// ActiveAnnotations for the head-of-execution variant).
	Annotations() map[string]struct{}
	// Equal reports structural equality, including annotations.
	Equal(other Command) bool
}

// annSet is the common annotation-set storage embedded in every command
// variant. It is compared by content, not by map identity.
type annSet map[string]struct{}

func newAnnSet(labels ...string) annSet {
	if len(labels) == 0 {
		return nil
	}
	out := make(annSet, len(labels))
	for _, l := range labels {
		out[l] = struct{}{}
	}
	return out
}

func (a annSet) equal(b annSet) bool {
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

func (a annSet) sorted() []string {
	out := make([]string, 0, len(a))
	for k := range a {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (a annSet) clone() map[string]struct{} {
	out := make(map[string]struct{}, len(a))
	for k := range a {
		out[k] = struct{}{}
	}
	return out
}

func annotationSuffix(a annSet) string {
	if len(a) == 0 {
		return ""
	}
	parts := a.sorted()
	for i, p := range parts {
		parts[i] = "@" + p
	}
	return " " + strings.Join(parts, " ")
}

// Skip is the terminal command: it self-loops forever once reached
// (spec.md §4.3), which is what makes the unfolded transition system
// total and gives LTL's infinite-path semantics somewhere to land.
type Skip struct{ Ann annSet }

// Assign evaluates Expr in the current state and stores the result into
// Var, then becomes Skip.
type Assign struct {
	Var  Variable
	Expr Expr
	Ann  annSet
}

// Seq is sequential composition: Command1 then Command2.
type Seq struct {
	Command1, Command2 Command
	Ann                annSet
}

// IfElse evaluates Expr and continues as Command1 or Command2.
type IfElse struct {
	Expr               Expr
	Command1, Command2 Command
	Ann                annSet
}

// Repeat runs Command, then starts over, forever (unless the whole
// enclosing program's reachable configuration space is finite, which is
// the precondition spec.md §4.4 requires for the Kripke builder to
// terminate).
type Repeat struct {
	Command Command
	Ann     annSet
}

func (Skip) isCommand()   {}
func (Assign) isCommand() {}
func (Seq) isCommand()    {}
func (IfElse) isCommand() {}
func (Repeat) isCommand() {}

// NewSkip builds a Skip command carrying the given annotations.
func NewSkip(labels ...string) Skip { return Skip{Ann: newAnnSet(labels...)} }

// NewAssign builds an Assign command carrying the given annotations.
func NewAssign(v Variable, e Expr, labels ...string) Assign {
	return Assign{Var: v, Expr: e, Ann: newAnnSet(labels...)}
}

// NewSeq builds a Seq command carrying the given annotations.
func NewSeq(c1, c2 Command, labels ...string) Seq {
	return Seq{Command1: c1, Command2: c2, Ann: newAnnSet(labels...)}
}

// NewIfElse builds an IfElse command carrying the given annotations.
func NewIfElse(e Expr, c1, c2 Command, labels ...string) IfElse {
	return IfElse{Expr: e, Command1: c1, Command2: c2, Ann: newAnnSet(labels...)}
}

// NewRepeat builds a Repeat command carrying the given annotations.
func NewRepeat(c Command, labels ...string) Repeat {
	return Repeat{Command: c, Ann: newAnnSet(labels...)}
}

func (c Skip) Annotations() map[string]struct{}   { return c.Ann.clone() }
func (c Assign) Annotations() map[string]struct{} { return c.Ann.clone() }
func (c Seq) Annotations() map[string]struct{} {
	out := c.Ann.clone()
	for k := range c.Command1.Annotations() {
		out[k] = struct{}{}
	}
	for k := range c.Command2.Annotations() {
		out[k] = struct{}{}
	}
	return out
}
func (c IfElse) Annotations() map[string]struct{} {
	out := c.Ann.clone()
	for k := range c.Command1.Annotations() {
		out[k] = struct{}{}
	}
	for k := range c.Command2.Annotations() {
		out[k] = struct{}{}
	}
	return out
}
func (c Repeat) Annotations() map[string]struct{} {
	out := c.Ann.clone()
	for k := range c.Command.Annotations() {
		out[k] = struct{}{}
	}
	return out
}

func (c Skip) String() string { return "skip" + annotationSuffix(c.Ann) }
func (c Assign) String() string {
	return fmt.Sprintf("%s = %s%s", c.Var, c.Expr, annotationSuffix(c.Ann))
}
func (c Seq) String() string {
	return fmt.Sprintf("%s\n%s", c.Command1, c.Command2)
}
func (c IfElse) String() string {
	return fmt.Sprintf("if %s then\n%s\nelse\n%s\nendif%s", c.Expr, c.Command1, c.Command2, annotationSuffix(c.Ann))
}
func (c Repeat) String() string {
	return fmt.Sprintf("repeat\n%s\nendrepeat%s", c.Command, annotationSuffix(c.Ann))
}

func (c Skip) Equal(o Command) bool {
	b, ok := o.(Skip)
	return ok && c.Ann.equal(b.Ann)
}
func (c Assign) Equal(o Command) bool {
	b, ok := o.(Assign)
	return ok && c.Var == b.Var && c.Expr.Equal(b.Expr) && c.Ann.equal(b.Ann)
}
func (c Seq) Equal(o Command) bool {
	b, ok := o.(Seq)
	return ok && c.Command1.Equal(b.Command1) && c.Command2.Equal(b.Command2) && c.Ann.equal(b.Ann)
}
func (c IfElse) Equal(o Command) bool {
	b, ok := o.(IfElse)
	return ok && c.Expr.Equal(b.Expr) && c.Command1.Equal(b.Command1) && c.Command2.Equal(b.Command2) && c.Ann.equal(b.Ann)
}
func (c Repeat) Equal(o Command) bool {
	b, ok := o.(Repeat)
	return ok && c.Command.Equal(b.Command) && c.Ann.equal(b.Ann)
}

// Configuration is a (Command, State) pair: the Kripke/GBA state of a
// running program (spec.md §3). Equality is structural over both
// components.
type Configuration struct {
	Command Command
	State   State
}

// Equal reports structural equality of command and state.
func (c Configuration) Equal(o Configuration) bool {
	if !c.Command.Equal(o.Command) {
		return false
	}
	if len(c.State) != len(o.State) {
		return false
	}
	for k, v := range c.State {
		if o.State[k] != v {
			return false
		}
	}
	return true
}

// Key returns a stable, hashable representation of c suitable for use as
// a map key, combining the command's String() with a sorted rendering of
// the state (spec.md §3's "hash is a commutative combination tolerant to
// construction order").
func (c Configuration) Key() string {
	vars := make([]string, 0, len(c.State))
	for v := range c.State {
		vars = append(vars, v.Name)
	}
	sort.Strings(vars)
	var b strings.Builder
	b.WriteString(c.Command.String())
	b.WriteString("||")
	for _, name := range vars {
		if c.State[Variable{Name: name}] {
			fmt.Fprintf(&b, "%s=T;", name)
		} else {
			fmt.Fprintf(&b, "%s=F;", name)
		}
	}
	return b.String()
}

// Successors computes the small-step successor configurations of c,
// implementing spec.md §4.3's relation exactly as
// vnmc/timp/command.py's Command.get_successors methods do, one case per
// command variant.
func Successors(c Configuration) ([]Configuration, error) {
	switch v := c.Command.(type) {
	case Skip:
		return []Configuration{{Command: v, State: c.State.Clone()}}, nil
	case Assign:
		val, err := Eval(v.Expr, c.State)
		if err != nil {
			return nil, err
		}
		succ := c.State.Clone()
		succ[v.Var] = val
		return []Configuration{{Command: NewSkip(), State: succ}}, nil
	case Seq:
		if skip, ok := v.Command1.(Skip); ok {
			_ = skip
			return Successors(Configuration{Command: v.Command2, State: c.State})
		}
		heads, err := Successors(Configuration{Command: v.Command1, State: c.State})
		if err != nil {
			return nil, err
		}
		out := make([]Configuration, 0, len(heads))
		for _, h := range heads {
			if _, ok := h.Command.(Skip); ok {
				out = append(out, Configuration{Command: v.Command2, State: h.State})
				continue
			}
			out = append(out, Configuration{Command: NewSeq(h.Command, v.Command2), State: h.State})
		}
		return out, nil
	case IfElse:
		cond, err := Eval(v.Expr, c.State)
		if err != nil {
			return nil, err
		}
		if cond {
			return Successors(Configuration{Command: v.Command1, State: c.State})
		}
		return Successors(Configuration{Command: v.Command2, State: c.State})
	case Repeat:
		unfolded := NewSeq(v.Command, Repeat{Command: v.Command})
		return Successors(Configuration{Command: unfolded, State: c.State})
	default:
		panic("timp: unhandled command variant")
	}
}

// ActiveAnnotations returns the annotations "active" at the head of c:
// for IfElse it descends into the taken branch, for Seq it is the union
// of the head command's active annotations and the node's own, matching
// vnmc/timp/command.py's get_annotations(state).
func ActiveAnnotations(c Configuration) (map[string]struct{}, error) {
	switch v := c.Command.(type) {
	case Skip:
		return v.Ann.clone(), nil
	case Assign:
		return v.Ann.clone(), nil
	case Seq:
		head, err := ActiveAnnotations(Configuration{Command: v.Command1, State: c.State})
		if err != nil {
			return nil, err
		}
		out := v.Ann.clone()
		for k := range head {
			out[k] = struct{}{}
		}
		return out, nil
	case IfElse:
		cond, err := Eval(v.Expr, c.State)
		if err != nil {
			return nil, err
		}
		if cond {
			return ActiveAnnotations(Configuration{Command: v.Command1, State: c.State})
		}
		return ActiveAnnotations(Configuration{Command: v.Command2, State: c.State})
	case Repeat:
		head, err := ActiveAnnotations(Configuration{Command: v.Command, State: c.State})
		if err != nil {
			return nil, err
		}
		out := v.Ann.clone()
		for k := range head {
			out[k] = struct{}{}
		}
		return out, nil
	default:
		panic("timp: unhandled command variant")
	}
}

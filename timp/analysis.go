package timp

// CollectVariables returns every Variable appearing anywhere in e,
// mirroring vnmc/timp/preprocessing.py's _ExprVariableCollector.
func CollectVariables(e Expr) map[Variable]struct{} {
	out := make(map[Variable]struct{})
	collectExprVars(e, out)
	return out
}

func collectExprVars(e Expr, out map[Variable]struct{}) {
	switch v := e.(type) {
	case Variable:
		out[v] = struct{}{}
	case Const:
	case And:
		collectExprVars(v.Left, out)
		collectExprVars(v.Right, out)
	case Or:
		collectExprVars(v.Left, out)
		collectExprVars(v.Right, out)
	case Not:
		collectExprVars(v.Operand, out)
	case Parens:
		collectExprVars(v.Operand, out)
	}
}

// CollectCommandVariables returns every Variable appearing anywhere in c
// (spec.md §4.3's VariableCollector), used to build the all-false initial
// state the Kripke builder starts exploration from.
func CollectCommandVariables(c Command) map[Variable]struct{} {
	out := make(map[Variable]struct{})
	collectCommandVars(c, out)
	return out
}

func collectCommandVars(c Command, out map[Variable]struct{}) {
	switch v := c.(type) {
	case Skip:
	case Assign:
		out[v.Var] = struct{}{}
		collectExprVars(v.Expr, out)
	case Seq:
		collectCommandVars(v.Command1, out)
		collectCommandVars(v.Command2, out)
	case IfElse:
		collectExprVars(v.Expr, out)
		collectCommandVars(v.Command1, out)
		collectCommandVars(v.Command2, out)
	case Repeat:
		collectCommandVars(v.Command, out)
	}
}

// CollectAnnotations returns every annotation string used anywhere in c,
// regardless of reachability (spec.md §4.3's AnnotationCollector) — this
// is the full annotation set used to build the TIMP→GBA alphabet (§4.7).
func CollectAnnotations(c Command) map[string]struct{} {
	return c.Annotations()
}

// Linearize returns the top-level sequence of commands that make up c,
// splitting a right-associated Seq into its components in order
// (vnmc/timp/preprocessing.py's Linearizer). Non-Seq commands linearize
// to a single-element slice.
func Linearize(c Command) []Command {
	if seq, ok := c.(Seq); ok {
		return append(Linearize(seq.Command1), Linearize(seq.Command2)...)
	}
	return []Command{c}
}

// Simplify performs constant folding over e, following
// vnmc/timp/preprocessing.py's _ExprSimplifier: a conjunction/disjunction
// with equal operands collapses to one operand; a Const operand short-
// circuits the other; negating a Const flips it; Parens is transparent.
func Simplify(e Expr) Expr {
	switch v := e.(type) {
	case Variable, Const:
		return v
	case And:
		l, r := Simplify(v.Left), Simplify(v.Right)
		if l.Equal(r) {
			return l
		}
		if c, ok := l.(Const); ok {
			if c.Value {
				return r
			}
			return c
		}
		if c, ok := r.(Const); ok {
			if c.Value {
				return l
			}
			return c
		}
		return And{Left: l, Right: r}
	case Or:
		l, r := Simplify(v.Left), Simplify(v.Right)
		if l.Equal(r) {
			return l
		}
		if c, ok := l.(Const); ok {
			if c.Value {
				return c
			}
			return r
		}
		if c, ok := r.(Const); ok {
			if c.Value {
				return c
			}
			return l
		}
		return Or{Left: l, Right: r}
	case Not:
		inner := Simplify(v.Operand)
		if c, ok := inner.(Const); ok {
			return Const{Value: !c.Value}
		}
		return Not{Operand: inner}
	case Parens:
		return Simplify(v.Operand)
	default:
		panic("timp: unhandled expression variant")
	}
}

// SimplifyCommand performs the command-level simplifications of
// vnmc/timp/preprocessing.py's Simplifier: expression constant-folding
// (via Simplify), elimination of `Skip;c` and `c;Skip`, and elimination
// of `if true/false then ... else ...`. It is not applied automatically
// anywhere in the verification pipeline — it is a pre-processing step
// callers may run on a Module before building a Kripke/GBA from it.
func SimplifyCommand(c Command) Command {
	switch v := c.(type) {
	case Skip:
		return v
	case Assign:
		return Assign{Var: v.Var, Expr: Simplify(v.Expr), Ann: v.Ann}
	case Seq:
		c1, c2 := SimplifyCommand(v.Command1), SimplifyCommand(v.Command2)
		if _, ok := c1.(Skip); ok && len(v.Ann) == 0 {
			return c2
		}
		if _, ok := c2.(Skip); ok && len(v.Ann) == 0 {
			return c1
		}
		return Seq{Command1: c1, Command2: c2, Ann: v.Ann}
	case IfElse:
		expr := Simplify(v.Expr)
		c1, c2 := SimplifyCommand(v.Command1), SimplifyCommand(v.Command2)
		if konst, ok := expr.(Const); ok && len(v.Ann) == 0 {
			if konst.Value {
				return c1
			}
			return c2
		}
		return IfElse{Expr: expr, Command1: c1, Command2: c2, Ann: v.Ann}
	case Repeat:
		return Repeat{Command: SimplifyCommand(v.Command), Ann: v.Ann}
	default:
		panic("timp: unhandled command variant")
	}
}

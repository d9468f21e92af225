package timp

import (
	"fmt"

	"github.com/vnmc-go/verifier/verrors"
)

// Eval evaluates e against s. It returns verrors.ErrSemantic, wrapped with
// the offending variable's name, if e references a variable s does not
// assign — the Go equivalent of vnmc/timp/expr.py's ExpressionEvaluator
// raising a bare KeyError on state[element].
func Eval(e Expr, s State) (bool, error) {
	switch v := e.(type) {
	case Variable:
		val, ok := s[v]
		if !ok {
			return false, fmt.Errorf("timp: variable %q not in state: %w", v.Name, verrors.ErrSemantic)
		}
		return val, nil
	case Const:
		return v.Value, nil
	case And:
		l, err := Eval(v.Left, s)
		if err != nil {
			return false, err
		}
		r, err := Eval(v.Right, s)
		if err != nil {
			return false, err
		}
		return l && r, nil
	case Or:
		l, err := Eval(v.Left, s)
		if err != nil {
			return false, err
		}
		r, err := Eval(v.Right, s)
		if err != nil {
			return false, err
		}
		return l || r, nil
	case Not:
		val, err := Eval(v.Operand, s)
		if err != nil {
			return false, err
		}
		return !val, nil
	case Parens:
		return Eval(v.Operand, s)
	default:
		panic("timp: unhandled expression variant")
	}
}

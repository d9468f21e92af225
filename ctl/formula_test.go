package ctl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vnmc-go/verifier/ctl"
)

func TestAXIsDoubleNegatedEX(t *testing.T) {
	p := ctl.AP{Name: "p"}
	got := ctl.AX(p)
	assert.Equal(t, ctl.Not{Operand: ctl.EX{Operand: ctl.Not{Operand: p}}}, got)
}

func TestEFIsExistsTrueUntil(t *testing.T) {
	p := ctl.AP{Name: "p"}
	assert.Equal(t, ctl.EU{Left: ctl.True{}, Right: p}, ctl.EF(p))
}

func TestAGIsNegatedEFNegated(t *testing.T) {
	p := ctl.AP{Name: "p"}
	got := ctl.AG(p)
	assert.Equal(t, ctl.Not{Operand: ctl.EU{Left: ctl.True{}, Right: ctl.Not{Operand: p}}}, got)
}

func TestEWIsUntilOrForever(t *testing.T) {
	a, b := ctl.AP{Name: "a"}, ctl.AP{Name: "b"}
	got := ctl.EW(a, b)
	assert.Equal(t, ctl.Or{Left: ctl.EU{Left: a, Right: b}, Right: ctl.EG{Operand: a}}, got)
}

func TestAUExpandsViaEWRewrite(t *testing.T) {
	a, b := ctl.AP{Name: "a"}, ctl.AP{Name: "b"}
	got := ctl.AU(a, b)
	notA, notB := ctl.Not{Operand: a}, ctl.Not{Operand: b}
	want := ctl.Not{Operand: ctl.EW(notB, ctl.And{Left: notA, Right: notB})}
	assert.Equal(t, want, got)
}

func TestStringRendersConnectives(t *testing.T) {
	f := ctl.And{Left: ctl.AP{Name: "p"}, Right: ctl.Not{Operand: ctl.AP{Name: "q"}}}
	assert.Equal(t, "(p & !q)", f.String())
}

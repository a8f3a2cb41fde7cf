package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hornet/internal/smt"
)

func testResolver(names ...string) func(string) (smt.Expression, bool) {
	vars := make(map[string]smt.Expression, len(names))
	for _, n := range names {
		vars[n] = smt.Var(n, smt.SortInt)
	}
	return func(name string) (smt.Expression, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestParseExpr(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"P(0)", "(P 0)"},
		{"P(x) => P(x + 1)", "(=> (P x) (P (+ x 1)))"},
		{"x < 10 => Q(x)", "(=> (< x 10) (Q x))"},
		{"P(x) && Q(x) => R(x, x)", "(=> (and (P x) (Q x)) (R x x))"},
		{"x <= 2 * x + 1", "(<= x (+ (* 2 x) 1))"},
		{"x != 3", "(not (= x 3))"},
		{"A() || B()", "(or (A) (B))"},
		{"-5 < x", "(< -5 x)"},
		{"!(x = 1)", "(not (= x 1))"},
		{"P((x - 1))", "(P (- x 1))"},
		{"a => b => C()", "(=> a (=> b (C)))"},
	}
	resolve := testResolver("x", "a", "b")
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			expr, err := parseExpr(tc.input, resolve)
			require.NoError(t, err)
			assert.Equal(t, tc.want, expr.String())
		})
	}
}

func TestParseExprErrors(t *testing.T) {
	resolve := testResolver("x")
	for _, input := range []string{
		"",
		"P(",
		"P(x))",
		"x +",
		"unknown + 1",
		"P(x,)",
		"x @ 1",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := parseExpr(input, resolve)
			require.Error(t, err)
		})
	}
}

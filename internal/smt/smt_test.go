package smt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressionRendering(t *testing.T) {
	t.Run("ground values render bare", func(t *testing.T) {
		assert.Equal(t, "42", Numeral(42).String())
		assert.Equal(t, "-3", Numeral(-3).String())
		assert.Equal(t, "true", True().String())
	})

	t.Run("applications render as s-expressions", func(t *testing.T) {
		x := Var("x", SortInt)
		expr := Implies(Lt(x, Numeral(10)), App("Q", x))
		assert.Equal(t, "(=> (< x 10) (Q x))", expr.String())
	})

	t.Run("forall places the body last", func(t *testing.T) {
		x := Var("x", SortInt)
		y := Var("y", SortInt)
		expr := Forall([]Expression{x, y}, App("P", x, y))
		require.Len(t, expr.Args, 3)
		assert.Equal(t, "P", expr.Args[2].Name)
	})
}

func TestAsNumeral(t *testing.T) {
	v, ok := Numeral(7).AsNumeral()
	require.True(t, ok)
	assert.Equal(t, int64(7), v)

	_, ok = Var("x", SortInt).AsNumeral()
	assert.False(t, ok)

	_, ok = Plus(Numeral(1), Numeral(2)).AsNumeral()
	assert.False(t, ok, "applications are not numerals")
}

func TestSymbolTable(t *testing.T) {
	t.Run("declare and look up", func(t *testing.T) {
		st := NewSymbolTable()
		st.DeclareVariable("x", SortInt)
		st.DeclareFunction("P", []*Sort{SortInt}, SortBool)

		sort, ok := st.Variable("x")
		require.True(t, ok)
		assert.Equal(t, KindInt, sort.Kind)

		fn, ok := st.Function("P")
		require.True(t, ok)
		require.Equal(t, KindFunction, fn.Kind)
		assert.Len(t, fn.Domain, 1)
	})

	t.Run("empty sort traps", func(t *testing.T) {
		st := NewSymbolTable()
		require.Panics(t, func() { st.DeclareVariable("x", nil) })
	})

	t.Run("variables are ordered by name", func(t *testing.T) {
		st := NewSymbolTable()
		st.DeclareVariable("b", SortInt)
		st.DeclareVariable("a", SortInt)
		st.DeclareVariable("c", SortBool)

		vars := st.Variables()
		require.Len(t, vars, 3)
		assert.Equal(t, "a", vars[0].Name)
		assert.Equal(t, "b", vars[1].Name)
		assert.Equal(t, "c", vars[2].Name)
	})
}

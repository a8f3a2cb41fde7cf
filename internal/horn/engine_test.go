package horn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"hornet/internal/smt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// chainEngine builds the canonical counting system: P(0) and P(x) => P(x+1).
func chainEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e := NewEngine(cfg, nil)
	e.RegisterRelation("P", 1)

	x := smt.Var("x", smt.SortInt)
	e.AddClause(smt.App("P", smt.Numeral(0)), "base")
	e.AddClause(smt.Forall([]smt.Expression{x},
		smt.Implies(smt.App("P", x), smt.App("P", smt.Plus(x, smt.Numeral(1))))), "step")
	return e
}

func TestQueryDerivable(t *testing.T) {
	e := chainEngine(t, Config{})

	res, proof, err := e.Query(smt.App("P", smt.Numeral(2)))
	require.NoError(t, err)
	require.Equal(t, Derivable, res)
	require.NotNil(t, proof)

	t.Run("refutation root proves false", func(t *testing.T) {
		root := Fact(proof)
		assert.Equal(t, "false", root.Name)
		assert.Empty(t, root.Operands)
	})

	t.Run("first operand concludes the goal", func(t *testing.T) {
		step := proof.Operands[0]
		require.Equal(t, OpHyperResolve, step.Op)
		fact := Fact(step)
		assert.Equal(t, "P", fact.Name)
		assert.Equal(t, []string{"2"}, fact.Args)
	})

	t.Run("premises chain down to the base fact", func(t *testing.T) {
		step := proof.Operands[0]
		// [rule, premise, conclusion]
		require.Len(t, step.Operands, 3)
		assert.Equal(t, OpRuleInstance, step.Operands[0].Op)
		assert.Equal(t, "step", step.Operands[0].Name)

		premise := step.Operands[1]
		require.Equal(t, OpHyperResolve, premise.Op)
		assert.Equal(t, []string{"1"}, Fact(premise).Args)

		base := premise.Operands[1]
		require.Equal(t, OpHyperResolve, base.Op)
		assert.Equal(t, []string{"0"}, Fact(base).Args)
		assert.Len(t, base.Operands, 2, "base fact has no premises")
		assert.Equal(t, "base", base.Operands[0].Name)
	})
}

func TestQueryNotDerivable(t *testing.T) {
	t.Run("no supporting rules", func(t *testing.T) {
		e := NewEngine(Config{}, nil)
		e.RegisterRelation("Q", 1)

		res, proof, err := e.Query(smt.App("Q", smt.Numeral(5)))
		require.NoError(t, err)
		assert.Equal(t, NotDerivable, res)
		assert.Nil(t, proof)
	})

	t.Run("value beyond the chain base", func(t *testing.T) {
		e := chainEngine(t, Config{})
		res, _, err := e.Query(smt.App("P", smt.Numeral(-1)))
		require.NoError(t, err)
		assert.Equal(t, NotDerivable, res)
	})

	t.Run("value beyond the chain base under a tight budget", func(t *testing.T) {
		// The goal sits below every derivable value, so the answer is a
		// definite no regardless of how small the step budget is; the
		// search must not descend through the arithmetic head forever.
		e := chainEngine(t, Config{ResourceLimit: 4000})
		res, proof, err := e.Query(smt.App("P", smt.Numeral(-1)))
		require.NoError(t, err)
		assert.Equal(t, NotDerivable, res)
		assert.Nil(t, proof)
	})
}

func TestDescentBelowGoalReachesLowerBase(t *testing.T) {
	// The base fact lies below the goal, so the backward walk through
	// P(x+1) legitimately visits ever smaller values before landing on it.
	// Guards against refusing descent just because values shrink.
	e := NewEngine(Config{}, nil)
	e.RegisterRelation("P", 1)
	x := smt.Var("x", smt.SortInt)
	e.AddClause(smt.App("P", smt.Numeral(-5)), "base")
	e.AddClause(smt.Forall([]smt.Expression{x},
		smt.Implies(smt.App("P", x), smt.App("P", smt.Plus(x, smt.Numeral(1))))), "step")

	res, proof, err := e.Query(smt.App("P", smt.Numeral(-1)))
	require.NoError(t, err)
	require.Equal(t, Derivable, res)
	assert.Equal(t, []string{"-1"}, Fact(proof.Operands[0]).Args)

	res, _, err = e.Query(smt.App("P", smt.Numeral(-6)))
	require.NoError(t, err)
	assert.Equal(t, NotDerivable, res)
}

func TestGapBetweenDerivableValues(t *testing.T) {
	// P derives only even non-negatives; an odd goal fails finitely because
	// the descent steps below the base.
	e := NewEngine(Config{}, nil)
	e.RegisterRelation("P", 1)
	x := smt.Var("x", smt.SortInt)
	e.AddClause(smt.App("P", smt.Numeral(0)), "base")
	e.AddClause(smt.Forall([]smt.Expression{x},
		smt.Implies(smt.App("P", x), smt.App("P", smt.Plus(x, smt.Numeral(2))))), "step")

	res, _, err := e.Query(smt.App("P", smt.Numeral(3)))
	require.NoError(t, err)
	assert.Equal(t, NotDerivable, res)

	res, _, err = e.Query(smt.App("P", smt.Numeral(4)))
	require.NoError(t, err)
	assert.Equal(t, Derivable, res)
}

func TestUndecidedSearchDegradesToUnknown(t *testing.T) {
	// Rules stepping in both directions leave every integer inside the
	// derivable bounds, so only the budget can stop the search. It must
	// stop cheaply, with the outcome degrading to Unknown.
	e := NewEngine(Config{ResourceLimit: 4000}, nil)
	e.RegisterRelation("P", 1)
	x := smt.Var("x", smt.SortInt)
	e.AddClause(smt.App("P", smt.Numeral(0)), "base")
	e.AddClause(smt.Forall([]smt.Expression{x},
		smt.Implies(smt.App("P", x), smt.App("P", smt.Plus(x, smt.Numeral(2))))), "up")
	e.AddClause(smt.Forall([]smt.Expression{x},
		smt.Implies(smt.App("P", x), smt.App("P", smt.Minus(x, smt.Numeral(2))))), "down")

	res, proof, err := e.Query(smt.App("P", smt.Numeral(1)))
	require.NoError(t, err)
	assert.Equal(t, Unknown, res)
	assert.Nil(t, proof)
}

func TestConstraintRule(t *testing.T) {
	e := NewEngine(Config{}, nil)
	e.RegisterRelation("Q", 1)
	x := smt.Var("x", smt.SortInt)
	e.AddClause(smt.Forall([]smt.Expression{x},
		smt.Implies(smt.Lt(x, smt.Numeral(10)), smt.App("Q", x))), "bounded")

	res, proof, err := e.Query(smt.App("Q", smt.Numeral(5)))
	require.NoError(t, err)
	require.Equal(t, Derivable, res)
	assert.Equal(t, []string{"5"}, Fact(proof.Operands[0]).Args)

	res, _, err = e.Query(smt.App("Q", smt.Numeral(20)))
	require.NoError(t, err)
	assert.Equal(t, NotDerivable, res)
}

func TestBudgetExhaustionIsUnknown(t *testing.T) {
	e := chainEngine(t, Config{ResourceLimit: 1})

	res, proof, err := e.Query(smt.App("P", smt.Numeral(50)))
	require.NoError(t, err)
	assert.Equal(t, Unknown, res)
	assert.Nil(t, proof)
}

func TestGlobalResourceLimit(t *testing.T) {
	prev := ResourceLimit()
	defer SetResourceLimit(prev)

	SetResourceLimit(1)
	e := chainEngine(t, Config{})
	res, _, err := e.Query(smt.App("P", smt.Numeral(50)))
	require.NoError(t, err)
	assert.Equal(t, Unknown, res, "engines without a per-instance limit use the process-wide budget")

	SetResourceLimit(prev)
	res, _, err = e.Query(smt.App("P", smt.Numeral(3)))
	require.NoError(t, err)
	assert.Equal(t, Derivable, res)
}

func TestSharedPremisesShareProofNodes(t *testing.T) {
	e := NewEngine(Config{}, nil)
	e.RegisterRelation("A", 0)
	e.RegisterRelation("B", 0)
	e.AddClause(smt.App("B"), "axiom")
	e.AddClause(smt.Implies(smt.And(smt.App("B"), smt.App("B")), smt.App("A")), "join")

	res, proof, err := e.Query(smt.App("A"))
	require.NoError(t, err)
	require.Equal(t, Derivable, res)

	step := proof.Operands[0]
	// [rule, premise, premise, conclusion]
	require.Len(t, step.Operands, 4)
	assert.Same(t, step.Operands[1], step.Operands[2],
		"both uses of the same ground fact share one proof node")
}

func TestSelfReferentialRuleTerminates(t *testing.T) {
	e := NewEngine(Config{}, nil)
	e.RegisterRelation("P", 1)
	x := smt.Var("x", smt.SortInt)
	e.AddClause(smt.Forall([]smt.Expression{x},
		smt.Implies(smt.App("P", x), smt.App("P", x))), "loop")

	res, _, err := e.Query(smt.App("P", smt.Numeral(1)))
	require.NoError(t, err)
	assert.Equal(t, NotDerivable, res, "a fact cannot be its own first derivation")
}

func TestNonGroundGoal(t *testing.T) {
	e := chainEngine(t, Config{})

	res, proof, err := e.Query(smt.App("P", smt.Var("y", smt.SortInt)))
	require.NoError(t, err)
	require.Equal(t, Derivable, res)
	assert.Equal(t, []string{"0"}, Fact(proof.Operands[0]).Args,
		"the base fact is the first enumerated witness")
}

func TestQueryErrors(t *testing.T) {
	e := NewEngine(Config{}, nil)
	e.RegisterRelation("P", 1)

	t.Run("unregistered relation", func(t *testing.T) {
		_, _, err := e.Query(smt.App("Nope", smt.Numeral(1)))
		require.Error(t, err)
	})

	t.Run("arity mismatch", func(t *testing.T) {
		_, _, err := e.Query(smt.App("P"))
		require.Error(t, err)
	})
}

func TestMalformedRuleTraps(t *testing.T) {
	e := NewEngine(Config{}, nil)
	e.RegisterRelation("P", 1)

	t.Run("unregistered head", func(t *testing.T) {
		require.Panics(t, func() {
			e.AddClause(smt.App("Ghost", smt.Numeral(0)), "bad")
		})
	})

	t.Run("non-boolean body literal", func(t *testing.T) {
		require.Panics(t, func() {
			e.AddClause(smt.Implies(smt.Numeral(3), smt.App("P", smt.Numeral(0))), "bad")
		})
	})
}
